package optimizer

import (
	"fmt"
	"sort"

	"github.com/michaelkomolafe/dfs-optimizer/internal/models"
)

// solveGreedy builds a best-effort lineup by value density. Players are
// taken in points-per-dollar order and placed into the open category with
// the most remaining slots among those they are eligible for, so scarce
// categories are not starved by flex placements. Designated stack teams
// are seeded to their minimum before the value pass, and a repair pass
// lifts the lineup over the salary floor when one is set. The result is
// never marked proven.
func solveGreedy(pool []*models.Player, cfg OptimizeConfig) (*models.Lineup, error) {
	sorted := make([]*models.Player, len(pool))
	copy(sorted, pool)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ValueScore() > sorted[j].ValueScore()
	})

	open := make(map[models.Position]int, len(cfg.PositionRequirements))
	for pos, count := range cfg.PositionRequirements {
		open[pos] = count
	}

	var slots []models.LineupSlot
	salary := 0
	teamCount := make(map[string]int)
	remaining := cfg.RosterSize()
	used := make(map[string]bool)

	place := func(p *models.Player) bool {
		if used[p.ID] {
			return false
		}
		if salary+p.Salary > cfg.SalaryCap {
			return false
		}
		if cfg.MaxPerTeam > 0 && teamCount[p.Team] >= cfg.MaxPerTeam {
			return false
		}
		if !greedyOpposingOK(slots, p, cfg.MaxOpposingHitters) {
			return false
		}
		category, ok := neediestCategory(p, open)
		if !ok {
			return false
		}
		slots = append(slots, models.LineupSlot{Player: *p, Category: category})
		open[category]--
		salary += p.Salary
		teamCount[p.Team]++
		remaining--
		used[p.ID] = true
		return true
	}

	// Every designated stack team must reach the minimum; seed each one
	// with its best players before the value pass fills the rest.
	if cfg.MinStackSize > 0 && len(cfg.StackTeams) > 0 {
		for _, team := range cfg.StackTeams {
			for _, p := range sorted {
				if teamCount[team] >= cfg.MinStackSize || remaining == 0 {
					break
				}
				if p.Team != team {
					continue
				}
				place(p)
			}
			if teamCount[team] < cfg.MinStackSize {
				return nil, &ExhaustedCandidatesError{
					Bound: fmt.Sprintf("stack team %s reached %d of %d required players", team, teamCount[team], cfg.MinStackSize),
				}
			}
		}
	}

	for _, p := range sorted {
		if remaining == 0 {
			break
		}
		place(p)
	}

	if remaining > 0 {
		unfilled := make(map[models.Position]int)
		for pos, count := range open {
			if count > 0 {
				unfilled[pos] = count
			}
		}
		return nil, &ExhaustedCandidatesError{Unfilled: unfilled}
	}

	if salary < cfg.MinSalary {
		repaired, repairedSalary, err := raiseSalaryFloor(slots, pool, cfg, salary)
		if err != nil {
			return nil, err
		}
		slots = repaired
		salary = repairedSalary
	}

	ordered, ok := AssignSlots(playersOf(slots), cfg.PositionRequirements)
	if !ok {
		// Greedy placements already satisfy the counts; reuse them.
		ordered = slots
	}
	return models.NewLineup(ordered, false, SolverGreedy), nil
}

// raiseSalaryFloor swaps placed players for pricier unused ones until the
// lineup reaches the salary floor. Each pass applies the valid swap losing
// the least score; every swap strictly raises salary, so the loop
// terminates. Failure to reach the floor is a typed exhaustion.
func raiseSalaryFloor(slots []models.LineupSlot, pool []*models.Player, cfg OptimizeConfig, salary int) ([]models.LineupSlot, int, error) {
	used := make(map[string]bool, len(slots))
	for _, s := range slots {
		used[s.Player.ID] = true
	}

	for salary < cfg.MinSalary {
		bestSlot := -1
		var bestSub *models.Player
		bestLoss := 0.0

		for i, s := range slots {
			for _, cand := range pool {
				if used[cand.ID] || cand.Salary <= s.Player.Salary {
					continue
				}
				if salary-s.Player.Salary+cand.Salary > cfg.SalaryCap {
					continue
				}
				if !eligibleForCategory(cand, s.Category) {
					continue
				}
				if !swapKeepsConstraints(slots, i, cand, cfg) {
					continue
				}
				loss := s.Player.EnhancedScore - cand.EnhancedScore
				if bestSlot == -1 || loss < bestLoss {
					bestSlot, bestSub, bestLoss = i, cand, loss
				}
			}
		}

		if bestSlot == -1 {
			return nil, 0, &ExhaustedCandidatesError{
				Bound: fmt.Sprintf("salary %d below required minimum %d with no upgrade available", salary, cfg.MinSalary),
			}
		}

		delete(used, slots[bestSlot].Player.ID)
		used[bestSub.ID] = true
		salary += bestSub.Salary - slots[bestSlot].Player.Salary
		slots[bestSlot].Player = *bestSub
	}

	return slots, salary, nil
}

// swapKeepsConstraints checks the team bounds and the opposing-hitters cap
// with the player at slot i replaced by the candidate.
func swapKeepsConstraints(slots []models.LineupSlot, i int, cand *models.Player, cfg OptimizeConfig) bool {
	swapped := make([]models.LineupSlot, len(slots))
	copy(swapped, slots)
	swapped[i].Player = *cand

	teamCount := make(map[string]int, len(swapped))
	for _, s := range swapped {
		teamCount[s.Player.Team]++
	}
	if cfg.MaxPerTeam > 0 && teamCount[cand.Team] > cfg.MaxPerTeam {
		return false
	}
	if cfg.MinStackSize > 0 {
		for _, team := range cfg.StackTeams {
			if teamCount[team] < cfg.MinStackSize {
				return false
			}
		}
	}
	return opposingWithinLimit(swapped, cfg.MaxOpposingHitters)
}

// opposingWithinLimit checks the completed lineup against the cap on
// hitters from each selected pitcher's opposing team.
func opposingWithinLimit(slots []models.LineupSlot, max int) bool {
	if max < 0 {
		return true
	}
	for _, s := range slots {
		if !s.Player.IsPitcher() {
			continue
		}
		opposing := 0
		for _, o := range slots {
			if !o.Player.IsPitcher() && o.Player.Team == s.Player.Opponent {
				opposing++
			}
		}
		if opposing > max {
			return false
		}
	}
	return true
}

// neediestCategory picks the eligible open category with the most
// remaining slots. Ties break in canonical position order.
func neediestCategory(p *models.Player, open map[models.Position]int) (models.Position, bool) {
	var best models.Position
	bestNeed := 0
	for _, pos := range models.CanonicalPositions {
		need := open[pos]
		if need > bestNeed && eligibleForCategory(p, pos) {
			best = pos
			bestNeed = need
		}
	}
	return best, bestNeed > 0
}

func greedyOpposingOK(slots []models.LineupSlot, candidate *models.Player, max int) bool {
	if max < 0 {
		return true
	}

	countOpposing := func(pitcher models.Player, extra *models.Player) int {
		opposing := 0
		for _, s := range slots {
			if !s.Player.IsPitcher() && s.Player.Team == pitcher.Opponent {
				opposing++
			}
		}
		if extra != nil && !extra.IsPitcher() && extra.Team == pitcher.Opponent {
			opposing++
		}
		return opposing
	}

	if candidate.IsPitcher() {
		return countOpposing(*candidate, nil) <= max
	}
	for _, s := range slots {
		if s.Player.IsPitcher() && countOpposing(s.Player, candidate) > max {
			return false
		}
	}
	return true
}

func playersOf(slots []models.LineupSlot) []*models.Player {
	out := make([]*models.Player, len(slots))
	for i := range slots {
		out[i] = &slots[i].Player
	}
	return out
}
