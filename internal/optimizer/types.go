package optimizer

import (
	"time"

	"github.com/michaelkomolafe/dfs-optimizer/internal/models"
)

// Solver names reported on lineup results.
const (
	SolverExact  = "exact"
	SolverGreedy = "greedy"
)

// OptimizeConfig expresses the roster rules and optional team constraints
// for one optimization run.
type OptimizeConfig struct {
	SalaryCap            int                     `json:"salary_cap"`
	MinSalary            int                     `json:"min_salary,omitempty"`
	PositionRequirements map[models.Position]int `json:"position_requirements"`

	// Team constraints. MaxPerTeam <= 0 disables the bound.
	MaxPerTeam   int      `json:"max_per_team,omitempty"`
	MinStackSize int      `json:"min_stack_size,omitempty"`
	StackTeams   []string `json:"stack_teams,omitempty"`

	// MaxOpposingHitters caps hitters from the opposing team of any
	// selected pitcher. Negative disables the constraint.
	MaxOpposingHitters int `json:"max_opposing_hitters"`

	Timeout time.Duration `json:"timeout"`
}

// ClassicConfig returns the standard MLB roster: 2 P, 1 each of C/1B/2B/
// 3B/SS, 3 OF, $50,000 cap.
func ClassicConfig() OptimizeConfig {
	return OptimizeConfig{
		SalaryCap: 50000,
		PositionRequirements: map[models.Position]int{
			models.PositionPitcher:    2,
			models.PositionCatcher:    1,
			models.PositionFirstBase:  1,
			models.PositionSecondBase: 1,
			models.PositionThirdBase:  1,
			models.PositionShortstop:  1,
			models.PositionOutfield:   3,
		},
		MaxPerTeam:         4,
		MaxOpposingHitters: 1,
		Timeout:            30 * time.Second,
	}
}

// ShowdownConfig returns the single-game roster: six flex slots, any
// position, looser team bound.
func ShowdownConfig() OptimizeConfig {
	return OptimizeConfig{
		SalaryCap: 50000,
		PositionRequirements: map[models.Position]int{
			models.PositionUtility: 6,
		},
		MaxPerTeam:         6,
		MaxOpposingHitters: -1,
		Timeout:            30 * time.Second,
	}
}

// RosterSize returns the total slot count.
func (c OptimizeConfig) RosterSize() int {
	total := 0
	for _, count := range c.PositionRequirements {
		total += count
	}
	return total
}

// IsStackTeam reports whether the team is designated for a minimum stack.
func (c OptimizeConfig) IsStackTeam(team string) bool {
	for _, t := range c.StackTeams {
		if t == team {
			return true
		}
	}
	return false
}

// eligibleForCategory reports whether the player may fill the category.
// The generic flex category accepts any player.
func eligibleForCategory(p *models.Player, category models.Position) bool {
	if category == models.PositionUtility {
		return true
	}
	return p.HasPosition(category)
}
