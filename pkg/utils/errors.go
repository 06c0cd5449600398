package utils

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInternalServer     = errors.New("internal server error")
	ErrOptimizationFailed = errors.New("optimization failed")
)

type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func NewAppError(code string, message string, details ...string) *AppError {
	err := &AppError{
		Code:    code,
		Message: message,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s - %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Common error codes
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeInternal          = "INTERNAL_ERROR"
	ErrCodeDataLoad          = "DATA_LOAD_ERROR"
	ErrCodeInsufficientPool  = "INSUFFICIENT_POOL"
	ErrCodeInfeasibleLineup  = "NO_FEASIBLE_LINEUP"
	ErrCodeSolverTimeout     = "SOLVER_TIMEOUT"
	ErrCodeSalaryCapExceeded = "SALARY_CAP_EXCEEDED"
	ErrCodeInvalidLineup     = "INVALID_LINEUP"
)
