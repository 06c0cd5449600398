package optimizer

import (
	"sort"
	"time"

	"github.com/michaelkomolafe/dfs-optimizer/internal/models"
)

// deadlineCheckInterval is how many search nodes pass between clock reads.
const deadlineCheckInterval = 64

// exactSolver runs a branch-and-bound search over player subsets. Slot
// feasibility of a partial selection is verified with bipartite matching,
// so a multi-position player never locks the search out of a category it
// could have left open. The bound is the tighter of a top-scores bound and
// a salary-relaxed fractional bound; a node whose bound cannot beat the
// incumbent is pruned.
type exactSolver struct {
	pool  []*models.Player // sorted by enhanced score, descending
	slots []models.Position
	cfg   OptimizeConfig

	scorePrefix  []float64 // scorePrefix[i] = sum of pool[0:i] scores
	densityOrder []int     // pool indexes sorted by value density, descending

	deadline time.Time
	nodes    int
	timedOut bool

	selected  []*models.Player
	salary    int
	score     float64
	teamCount map[string]int

	best      []*models.Player
	bestScore float64
	hasBest   bool
}

func newExactSolver(pool []*models.Player, cfg OptimizeConfig, deadline time.Time) *exactSolver {
	sorted := make([]*models.Player, len(pool))
	copy(sorted, pool)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EnhancedScore > sorted[j].EnhancedScore
	})

	prefix := make([]float64, len(sorted)+1)
	for i, p := range sorted {
		prefix[i+1] = prefix[i] + p.EnhancedScore
	}

	density := make([]int, len(sorted))
	for i := range density {
		density[i] = i
	}
	sort.SliceStable(density, func(a, b int) bool {
		return sorted[density[a]].ValueScore() > sorted[density[b]].ValueScore()
	})

	return &exactSolver{
		pool:         sorted,
		slots:        expandSlots(cfg.PositionRequirements),
		cfg:          cfg,
		scorePrefix:  prefix,
		densityOrder: density,
		deadline:     deadline,
		teamCount:    make(map[string]int),
		bestScore:    -1,
	}
}

// solve runs the search to completion or deadline. The returned lineup is
// the best found; the error reports timeout or proven infeasibility.
func (s *exactSolver) solve() (*models.Lineup, error) {
	started := time.Now()
	s.branch(0)

	if s.hasBest {
		lineup, ok := AssignSlots(s.best, s.cfg.PositionRequirements)
		if !ok {
			// The incumbent was matching-verified when recorded.
			return nil, &NoFeasibleLineupError{Bound: "slot assignment", Details: "incumbent failed final assignment"}
		}
		if s.timedOut {
			return models.NewLineup(lineup, false, SolverExact),
				&SolverTimeoutError{HasIncumbent: true, Elapsed: time.Since(started).Round(time.Millisecond).String()}
		}
		return models.NewLineup(lineup, true, SolverExact), nil
	}

	if s.timedOut {
		return nil, &SolverTimeoutError{HasIncumbent: false, Elapsed: time.Since(started).Round(time.Millisecond).String()}
	}
	return nil, &NoFeasibleLineupError{Bound: "search exhausted"}
}

func (s *exactSolver) branch(start int) {
	if s.timedOut {
		return
	}
	s.nodes++
	if s.nodes%deadlineCheckInterval == 0 && time.Now().After(s.deadline) {
		s.timedOut = true
		return
	}

	if len(s.selected) == len(s.slots) {
		s.recordIfBetter()
		return
	}

	need := len(s.slots) - len(s.selected)
	if len(s.pool)-start < need {
		return
	}
	if s.upperBound(start, need) <= s.bestScore {
		return
	}
	if !s.stackStillReachable(start) {
		return
	}

	for i := start; i <= len(s.pool)-need && !s.timedOut; i++ {
		p := s.pool[i]
		if s.salary+p.Salary > s.cfg.SalaryCap {
			continue
		}
		if s.cfg.MaxPerTeam > 0 && s.teamCount[p.Team] >= s.cfg.MaxPerTeam {
			continue
		}
		if !s.opposingHittersOK(p) {
			continue
		}

		s.selected = append(s.selected, p)
		if canAssignAll(s.selected, s.slots) {
			s.salary += p.Salary
			s.score += p.EnhancedScore
			s.teamCount[p.Team]++

			s.branch(i + 1)

			s.teamCount[p.Team]--
			s.score -= p.EnhancedScore
			s.salary -= p.Salary
		}
		s.selected = s.selected[:len(s.selected)-1]
	}
}

func (s *exactSolver) recordIfBetter() {
	if s.salary < s.cfg.MinSalary {
		return
	}
	if !s.stackSatisfied() {
		return
	}
	if s.score <= s.bestScore {
		return
	}
	s.best = append(s.best[:0], s.selected...)
	s.bestScore = s.score
	s.hasBest = true
}

// upperBound relaxes the remaining subproblem two ways and takes the
// tighter result: the sum of the top remaining scores ignoring salary, and
// a fractional knapsack by value density under the remaining budget.
func (s *exactSolver) upperBound(start, need int) float64 {
	topScores := s.scorePrefix[start+need] - s.scorePrefix[start]

	budget := s.cfg.SalaryCap - s.salary
	fractional := 0.0
	taken := 0
	for _, idx := range s.densityOrder {
		if idx < start {
			continue
		}
		if taken == need || budget <= 0 {
			break
		}
		p := s.pool[idx]
		if p.Salary <= budget {
			fractional += p.EnhancedScore
			budget -= p.Salary
			taken++
		} else {
			fractional += p.EnhancedScore * float64(budget) / float64(p.Salary)
			budget = 0
		}
	}

	bound := topScores
	if fractional < bound {
		bound = fractional
	}
	return s.score + bound
}

// opposingHittersOK enforces the pitcher-versus-hitter bound for the
// candidate together with the current selection.
func (s *exactSolver) opposingHittersOK(candidate *models.Player) bool {
	max := s.cfg.MaxOpposingHitters
	if max < 0 {
		return true
	}

	if candidate.IsPitcher() {
		opposing := 0
		for _, p := range s.selected {
			if !p.IsPitcher() && p.Team == candidate.Opponent {
				opposing++
			}
		}
		return opposing <= max
	}

	for _, p := range s.selected {
		if !p.IsPitcher() || p.Opponent != candidate.Team {
			continue
		}
		opposing := 1
		for _, h := range s.selected {
			if !h.IsPitcher() && h.Team == p.Opponent {
				opposing++
			}
		}
		if opposing > max {
			return false
		}
	}
	return true
}

// stackSatisfied checks each designated stack team against the minimum.
func (s *exactSolver) stackSatisfied() bool {
	if s.cfg.MinStackSize <= 0 || len(s.cfg.StackTeams) == 0 {
		return true
	}
	for _, team := range s.cfg.StackTeams {
		if s.teamCount[team] < s.cfg.MinStackSize {
			return false
		}
	}
	return true
}

// stackStillReachable prunes branches where a stack minimum can no longer
// be met from the unexplored tail of the pool.
func (s *exactSolver) stackStillReachable(start int) bool {
	if s.cfg.MinStackSize <= 0 || len(s.cfg.StackTeams) == 0 {
		return true
	}
	for _, team := range s.cfg.StackTeams {
		needed := s.cfg.MinStackSize - s.teamCount[team]
		if needed <= 0 {
			continue
		}
		remaining := 0
		for i := start; i < len(s.pool) && remaining < needed; i++ {
			if s.pool[i].Team == team {
				remaining++
			}
		}
		if remaining < needed {
			return false
		}
	}
	return true
}
