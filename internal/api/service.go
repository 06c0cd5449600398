package api

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/michaelkomolafe/dfs-optimizer/internal/eligibility"
	"github.com/michaelkomolafe/dfs-optimizer/internal/enrichment"
	"github.com/michaelkomolafe/dfs-optimizer/internal/loader"
	"github.com/michaelkomolafe/dfs-optimizer/internal/matching"
	"github.com/michaelkomolafe/dfs-optimizer/internal/models"
	"github.com/michaelkomolafe/dfs-optimizer/internal/optimizer"
	"github.com/michaelkomolafe/dfs-optimizer/internal/scoring"
	"github.com/michaelkomolafe/dfs-optimizer/internal/storage"
	"github.com/michaelkomolafe/dfs-optimizer/pkg/config"
	"github.com/michaelkomolafe/dfs-optimizer/pkg/logger"
	"github.com/michaelkomolafe/dfs-optimizer/pkg/utils"
)

// RunRequest is one optimization run: the raw player rows plus per-run
// overrides of the configured defaults.
type RunRequest struct {
	Slate   string       `json:"slate,omitempty"`
	Players []loader.Row `json:"players" binding:"required"`

	// ManualSelections is a free-form list of names separated by commas,
	// semicolons, or newlines. Names are fuzzy-matched against the pool.
	ManualSelections string `json:"manual_selections,omitempty"`

	EligibilityMode string `json:"eligibility_mode,omitempty"`
	ContestPreset   string `json:"contest_preset,omitempty"`

	SalaryCap          *int     `json:"salary_cap,omitempty"`
	MaxPerTeam         *int     `json:"max_per_team,omitempty"`
	MinStackSize       *int     `json:"min_stack_size,omitempty"`
	StackTeams         []string `json:"stack_teams,omitempty"`
	MaxOpposingHitters *int     `json:"max_opposing_hitters,omitempty"`

	// SkipEnrichment scores on base projections only. Facts already known
	// to the caller can still arrive inline on future revisions.
	SkipEnrichment bool `json:"skip_enrichment,omitempty"`
}

// RunResult is the response payload for one optimization run.
type RunResult struct {
	Lineup   *models.Lineup `json:"lineup"`
	PoolSize int            `json:"pool_size"`
	Warnings []string       `json:"warnings,omitempty"`
}

// RunContext owns everything allocated for a single run: the player copies,
// their enrichment facts, and the warning list. Nothing in it outlives the
// run, so one run can never leak scores or facts into the next.
type RunContext struct {
	Slate    string
	Players  []*models.Player
	Warnings []string
}

func (rc *RunContext) warnf(format string, args ...interface{}) {
	rc.Warnings = append(rc.Warnings, fmt.Sprintf(format, args...))
}

// RunService wires the full pipeline: load, confirm, manual-select, enrich,
// score, filter, optimize. Each stage reports soft problems as warnings and
// only unrecoverable states as errors.
type RunService struct {
	cfg           *config.Config
	log           *logrus.Entry
	matcher       *matching.Matcher
	scorer        *scoring.Engine
	fetcher       *enrichment.Fetcher
	confirmations *enrichment.ConfirmationService
	solver        optimizer.LineupOptimizer
	runs          *storage.RunStore
}

func NewRunService(
	cfg *config.Config,
	matcher *matching.Matcher,
	scorer *scoring.Engine,
	fetcher *enrichment.Fetcher,
	confirmations *enrichment.ConfirmationService,
	solver optimizer.LineupOptimizer,
	runs *storage.RunStore,
) *RunService {
	return &RunService{
		cfg:           cfg,
		log:           logger.GetLogger().WithField("component", "run_service"),
		matcher:       matcher,
		scorer:        scorer,
		fetcher:       fetcher,
		confirmations: confirmations,
		solver:        solver,
		runs:          runs,
	}
}

// Run executes one optimization run end to end.
func (s *RunService) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	rc := &RunContext{Slate: req.Slate}
	log := s.log.WithFields(logrus.Fields{"slate": req.Slate, "rows": len(req.Players)})

	players, loadWarnings, err := loader.Load(req.Players)
	if err != nil {
		return nil, err
	}
	rc.Players = players
	rc.Warnings = append(rc.Warnings, loadWarnings...)

	mode, err := s.resolveMode(req.EligibilityMode, rc)
	if err != nil {
		return nil, err
	}

	if s.confirmations != nil && mode != eligibility.ModeManualOnly {
		confirmed, confirmWarnings := s.confirmations.Apply(ctx, rc.Players)
		rc.Warnings = append(rc.Warnings, confirmWarnings...)
		log.WithField("confirmed", confirmed).Debug("Applied confirmations")
	}

	if strings.TrimSpace(req.ManualSelections) != "" {
		unmatched := eligibility.ApplyManualSelections(rc.Players, req.ManualSelections, s.matcher)
		rc.Warnings = append(rc.Warnings, unmatched...)
	}

	if !req.SkipEnrichment && s.fetcher != nil {
		rc.Warnings = append(rc.Warnings, s.fetcher.EnrichAll(ctx, rc.Players)...)
	}

	s.scorer.ApplyAll(rc.Players)

	pool := eligibility.FilterPool(rc.Players, mode)

	optCfg := s.buildOptimizeConfig(req)
	lineup, solveWarnings, err := s.solver.Optimize(ctx, pool, optCfg)
	if err != nil {
		return nil, err
	}
	rc.Warnings = append(rc.Warnings, solveWarnings...)

	if s.runs != nil {
		saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.runs.SaveRun(saveCtx, lineup, rc.Slate, mode.String(), len(pool), rc.Warnings); err != nil {
			log.WithError(err).Warn("Failed to persist run history")
		}
	}

	logger.WithRunContext(lineup.ID.String(), rc.Slate, mode.String()).WithFields(logrus.Fields{
		"pool":   len(pool),
		"solver": lineup.Solver,
		"proven": lineup.Proven,
		"score":  lineup.TotalScore,
		"salary": lineup.TotalSalary,
	}).Info("Optimization run complete")

	return &RunResult{Lineup: lineup, PoolSize: len(pool), Warnings: rc.Warnings}, nil
}

func (s *RunService) resolveMode(override string, rc *RunContext) (eligibility.Mode, error) {
	raw := override
	if raw == "" {
		raw = s.cfg.EligibilityMode
	}
	mode, err := eligibility.ParseMode(raw)
	if err != nil {
		// Config-sourced values fall back quietly to the default; only a
		// request-supplied mode is a caller mistake worth rejecting.
		if override != "" {
			return mode, utils.NewAppError(utils.ErrCodeValidation, "Unknown eligibility mode", err.Error())
		}
		rc.warnf("unknown eligibility mode %q in config, using %s", raw, mode)
	}
	return mode, nil
}

// buildOptimizeConfig layers request overrides over the configured preset.
func (s *RunService) buildOptimizeConfig(req RunRequest) optimizer.OptimizeConfig {
	preset := req.ContestPreset
	if preset == "" {
		preset = s.cfg.ContestPreset
	}

	var cfg optimizer.OptimizeConfig
	if strings.EqualFold(preset, "showdown") {
		cfg = optimizer.ShowdownConfig()
	} else {
		cfg = optimizer.ClassicConfig()
	}

	if s.cfg.SalaryCap > 0 {
		cfg.SalaryCap = s.cfg.SalaryCap
	}
	cfg.MaxPerTeam = s.cfg.MaxPerTeam
	cfg.MinStackSize = s.cfg.MinStackSize
	cfg.StackTeams = s.cfg.StackTeams
	cfg.MaxOpposingHitters = s.cfg.MaxOpposingHitters
	if s.cfg.SolverTimeout > 0 {
		cfg.Timeout = s.cfg.SolverTimeout
	}
	if s.cfg.MinSalaryUsage > 0 {
		cfg.MinSalary = int(s.cfg.MinSalaryUsage * float64(cfg.SalaryCap))
	}

	if req.SalaryCap != nil {
		cfg.SalaryCap = *req.SalaryCap
		if s.cfg.MinSalaryUsage > 0 {
			cfg.MinSalary = int(s.cfg.MinSalaryUsage * float64(cfg.SalaryCap))
		}
	}
	if req.MaxPerTeam != nil {
		cfg.MaxPerTeam = *req.MaxPerTeam
	}
	if req.MinStackSize != nil {
		cfg.MinStackSize = *req.MinStackSize
	}
	if len(req.StackTeams) > 0 {
		teams := make([]string, 0, len(req.StackTeams))
		for _, t := range req.StackTeams {
			teams = append(teams, strings.ToUpper(strings.TrimSpace(t)))
		}
		cfg.StackTeams = teams
	}
	if req.MaxOpposingHitters != nil {
		cfg.MaxOpposingHitters = *req.MaxOpposingHitters
	}

	return cfg
}
