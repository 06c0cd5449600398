package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/michaelkomolafe/dfs-optimizer/internal/models"
)

// OptimizationRun is the persisted record of one optimization call: the
// result plus enough run metadata to audit why a lineup came out the way
// it did.
type OptimizationRun struct {
	ID          string         `gorm:"primaryKey" json:"id"`
	Slate       string         `gorm:"index" json:"slate"`
	Mode        string         `json:"mode"`
	Solver      string         `json:"solver"`
	Proven      bool           `json:"proven_optimal"`
	PoolSize    int            `json:"pool_size"`
	TotalSalary int            `json:"total_salary"`
	TotalScore  float64        `json:"total_score"`
	Lineup      datatypes.JSON `json:"lineup"`
	Warnings    datatypes.JSON `json:"warnings"`
	CreatedAt   time.Time      `json:"created_at"`
}

func (OptimizationRun) TableName() string {
	return "optimization_runs"
}

// RunStore persists and retrieves optimization run history.
type RunStore struct {
	db *DB
}

func NewRunStore(db *DB) *RunStore {
	return &RunStore{db: db}
}

// SaveRun records a completed optimization. Persistence failures must not
// break the optimization response, so callers log and continue on error.
func (s *RunStore) SaveRun(ctx context.Context, lineup *models.Lineup, slate, mode string, poolSize int, warnings []string) error {
	lineupJSON, err := json.Marshal(lineup.Slots)
	if err != nil {
		return fmt.Errorf("failed to encode lineup: %w", err)
	}
	if warnings == nil {
		warnings = []string{}
	}
	warningsJSON, err := json.Marshal(warnings)
	if err != nil {
		return fmt.Errorf("failed to encode warnings: %w", err)
	}

	run := &OptimizationRun{
		ID:          lineup.ID.String(),
		Slate:       slate,
		Mode:        mode,
		Solver:      lineup.Solver,
		Proven:      lineup.Proven,
		PoolSize:    poolSize,
		TotalSalary: lineup.TotalSalary,
		TotalScore:  lineup.TotalScore,
		Lineup:      datatypes.JSON(lineupJSON),
		Warnings:    datatypes.JSON(warningsJSON),
		CreatedAt:   lineup.CreatedAt,
	}
	return s.db.WithContext(ctx).Create(run).Error
}

// ListRuns returns the most recent runs, newest first.
func (s *RunStore) ListRuns(ctx context.Context, limit int) ([]OptimizationRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []OptimizationRun
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}

// GetRun fetches one run by its lineup ID.
func (s *RunStore) GetRun(ctx context.Context, id string) (*OptimizationRun, error) {
	var run OptimizationRun
	if err := s.db.WithContext(ctx).First(&run, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &run, nil
}
