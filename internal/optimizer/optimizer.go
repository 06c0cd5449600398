package optimizer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/michaelkomolafe/dfs-optimizer/internal/models"
	"github.com/michaelkomolafe/dfs-optimizer/pkg/logger"
)

const defaultTimeout = 30 * time.Second

// LineupOptimizer produces one lineup from an eligible pool. The warnings
// carry soft conditions such as a timeout downgraded by a usable incumbent
// or a fallback to the greedy pass.
type LineupOptimizer interface {
	Optimize(ctx context.Context, pool []*models.Player, cfg OptimizeConfig) (*models.Lineup, []string, error)
}

// Service is the production optimizer. It prefers the exact solver and
// falls back to greedy only when the exact pass times out with nothing
// usable, or when exact solving is disabled.
type Service struct {
	log      *logrus.Entry
	useExact bool
}

func NewService(useExact bool) *Service {
	return &Service{
		log:      logger.GetLogger().WithField("component", "optimizer"),
		useExact: useExact,
	}
}

func (s *Service) Optimize(ctx context.Context, pool []*models.Player, cfg OptimizeConfig) (*models.Lineup, []string, error) {
	if err := CheckPool(pool, cfg); err != nil {
		return nil, nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	deadline := time.Now().Add(timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	var warnings []string

	if s.useExact {
		lineup, err := newExactSolver(pool, cfg, deadline).solve()

		var timeoutErr *SolverTimeoutError
		switch {
		case err == nil:
			s.log.WithFields(logrus.Fields{
				"solver": SolverExact,
				"score":  lineup.TotalScore,
				"salary": lineup.TotalSalary,
			}).Info("Exact solve proved optimal")
			return s.finish(lineup, cfg, warnings)

		case errors.As(err, &timeoutErr):
			if timeoutErr.HasIncumbent {
				warnings = append(warnings, fmt.Sprintf("exact solver timed out after %s; returning best lineup found, not proven optimal", timeoutErr.Elapsed))
				s.log.WithField("elapsed", timeoutErr.Elapsed).Warn("Exact solve timed out with incumbent")
				return s.finish(lineup, cfg, warnings)
			}
			warnings = append(warnings, fmt.Sprintf("exact solver timed out after %s with no feasible lineup; falling back to greedy", timeoutErr.Elapsed))
			s.log.WithField("elapsed", timeoutErr.Elapsed).Warn("Exact solve timed out without incumbent, falling back to greedy")

		default:
			// Proven infeasibility is definitive. A greedy pass cannot
			// succeed where the exhaustive search failed.
			return nil, nil, err
		}
	}

	lineup, err := solveGreedy(pool, cfg)
	if err != nil {
		return nil, nil, err
	}
	s.log.WithFields(logrus.Fields{
		"solver": SolverGreedy,
		"score":  lineup.TotalScore,
		"salary": lineup.TotalSalary,
	}).Info("Greedy solve produced lineup")
	return s.finish(lineup, cfg, warnings)
}

// finish re-validates the lineup before release. A validation failure here
// is a solver bug, surfaced rather than silently returned.
func (s *Service) finish(lineup *models.Lineup, cfg OptimizeConfig, warnings []string) (*models.Lineup, []string, error) {
	if err := ValidateLineup(lineup, cfg); err != nil {
		s.log.WithError(err).Error("Constructed lineup failed validation")
		return nil, nil, fmt.Errorf("internal: constructed lineup failed validation: %w", err)
	}
	return lineup, warnings, nil
}
