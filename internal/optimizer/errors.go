package optimizer

import (
	"fmt"

	"github.com/michaelkomolafe/dfs-optimizer/internal/models"
)

// InsufficientPoolError reports an eligible pool that cannot meet the
// per-category minimums or the total roster size. The fields let a caller
// explain the shortfall without the core knowing about any UI.
type InsufficientPoolError struct {
	Category  models.Position
	Required  int
	Available int
}

func (e *InsufficientPoolError) Error() string {
	if e.Category == "" {
		return fmt.Sprintf("eligible pool too small: need %d players, have %d", e.Required, e.Available)
	}
	return fmt.Sprintf("position %s requires %d players, pool has %d", e.Category, e.Required, e.Available)
}

// NoFeasibleLineupError reports a constraint model proven infeasible: no
// legal lineup exists under the current pool and constraints.
type NoFeasibleLineupError struct {
	Bound   string
	Details string
}

func (e *NoFeasibleLineupError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("no feasible lineup: %s (%s)", e.Bound, e.Details)
	}
	return fmt.Sprintf("no feasible lineup: %s", e.Bound)
}

// SolverTimeoutError reports an exact solve that hit its deadline. It is
// soft when an incumbent exists: the incumbent is returned as best-effort
// and this error is downgraded to a warning.
type SolverTimeoutError struct {
	HasIncumbent bool
	Elapsed      string
}

func (e *SolverTimeoutError) Error() string {
	if e.HasIncumbent {
		return fmt.Sprintf("solver timed out after %s with a feasible incumbent (not proven optimal)", e.Elapsed)
	}
	return fmt.Sprintf("solver timed out after %s with no feasible incumbent", e.Elapsed)
}

// ExhaustedCandidatesError reports a greedy pass that ran out of players
// before satisfying the constraint model: slots left unfilled, or a team
// or salary bound it could not repair toward.
type ExhaustedCandidatesError struct {
	Unfilled map[models.Position]int
	Bound    string
}

func (e *ExhaustedCandidatesError) Error() string {
	if e.Bound != "" {
		return fmt.Sprintf("candidates exhausted: %s", e.Bound)
	}
	return fmt.Sprintf("candidates exhausted with %d unfilled slot categories", len(e.Unfilled))
}
