package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/michaelkomolafe/dfs-optimizer/internal/loader"
	"github.com/michaelkomolafe/dfs-optimizer/internal/optimizer"
	"github.com/michaelkomolafe/dfs-optimizer/internal/storage"
	"github.com/michaelkomolafe/dfs-optimizer/pkg/utils"
)

type OptimizeHandler struct {
	service *RunService
}

func NewOptimizeHandler(service *RunService) *OptimizeHandler {
	return &OptimizeHandler{service: service}
}

// Optimize runs the full pipeline for one request and returns the lineup
// with any warnings collected along the way.
func (h *OptimizeHandler) Optimize(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if len(req.Players) == 0 {
		utils.SendValidationError(c, "No players provided", "the players list must not be empty")
		return
	}

	result, err := h.service.Run(c.Request.Context(), req)
	if err != nil {
		sendRunError(c, err)
		return
	}

	utils.SendSuccessWithWarnings(c, result, result.Warnings)
}

// sendRunError maps the pipeline's typed errors onto HTTP responses.
func sendRunError(c *gin.Context, err error) {
	var (
		loadErr       *loader.DataLoadError
		poolErr       *optimizer.InsufficientPoolError
		infeasibleErr *optimizer.NoFeasibleLineupError
		timeoutErr    *optimizer.SolverTimeoutError
		exhaustedErr  *optimizer.ExhaustedCandidatesError
		appErr        *utils.AppError
	)

	switch {
	case errors.As(err, &appErr):
		utils.SendError(c, http.StatusBadRequest, appErr)
	case errors.As(err, &loadErr):
		utils.SendError(c, http.StatusUnprocessableEntity,
			utils.NewAppError(utils.ErrCodeDataLoad, "No valid player rows", loadErr.Error()))
	case errors.As(err, &poolErr):
		utils.SendError(c, http.StatusUnprocessableEntity,
			utils.NewAppError(utils.ErrCodeInsufficientPool, "Eligible pool cannot fill the roster", poolErr.Error()))
	case errors.As(err, &infeasibleErr):
		utils.SendError(c, http.StatusUnprocessableEntity,
			utils.NewAppError(utils.ErrCodeInfeasibleLineup, "No lineup satisfies the constraints", infeasibleErr.Error()))
	case errors.As(err, &timeoutErr):
		utils.SendError(c, http.StatusGatewayTimeout,
			utils.NewAppError(utils.ErrCodeSolverTimeout, "Solver timed out", timeoutErr.Error()))
	case errors.As(err, &exhaustedErr):
		utils.SendError(c, http.StatusUnprocessableEntity,
			utils.NewAppError(utils.ErrCodeInfeasibleLineup, "Greedy fallback could not fill the roster", exhaustedErr.Error()))
	default:
		utils.SendInternalError(c, err.Error())
	}
}

type RunsHandler struct {
	runs *storage.RunStore
}

func NewRunsHandler(runs *storage.RunStore) *RunsHandler {
	return &RunsHandler{runs: runs}
}

// ListRuns returns recent optimization runs, newest first.
func (h *RunsHandler) ListRuns(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 200 {
			utils.SendValidationError(c, "Invalid limit", "limit must be an integer between 1 and 200")
			return
		}
		limit = parsed
	}

	runs, err := h.runs.ListRuns(c.Request.Context(), limit)
	if err != nil {
		utils.SendInternalError(c, "Failed to list runs")
		return
	}
	utils.SendSuccess(c, runs)
}

// GetRun returns one run by lineup ID.
func (h *RunsHandler) GetRun(c *gin.Context) {
	run, err := h.runs.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendNotFound(c, "Run not found")
			return
		}
		utils.SendInternalError(c, "Failed to fetch run")
		return
	}
	utils.SendSuccess(c, run)
}

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// GetHealth always returns 200 while the server is up; it backs liveness
// probes.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "dfs-optimizer",
	})
}
