package optimizer

import (
	"fmt"
	"sort"

	"github.com/michaelkomolafe/dfs-optimizer/internal/models"
)

// expandSlots flattens the per-category requirements into one slot per
// roster spot, in canonical position order for deterministic output.
func expandSlots(requirements map[models.Position]int) []models.Position {
	var slots []models.Position
	for _, pos := range models.CanonicalPositions {
		for i := 0; i < requirements[pos]; i++ {
			slots = append(slots, pos)
		}
	}
	// Categories outside the canonical order still get slots.
	var extra []models.Position
	for pos, count := range requirements {
		known := false
		for _, c := range models.CanonicalPositions {
			if pos == c {
				known = true
				break
			}
		}
		if !known {
			for i := 0; i < count; i++ {
				extra = append(extra, pos)
			}
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(slots, extra...)
}

// matchSlots finds a maximum assignment of the given players onto the slot
// list via augmenting paths. It returns the slot index each player got, or
// -1 for unassigned players.
//
// This is the slot-assignment side of the constraint model: a selected
// player fills at most one category, each slot is filled at most once, and
// a multi-position player never blocks a category outside its eligible set.
func matchSlots(players []*models.Player, slots []models.Position) []int {
	slotOwner := make([]int, len(slots)) // slot -> player index
	for i := range slotOwner {
		slotOwner[i] = -1
	}
	playerSlot := make([]int, len(players)) // player -> slot index
	for i := range playerSlot {
		playerSlot[i] = -1
	}

	var augment func(p int, visited []bool) bool
	augment = func(p int, visited []bool) bool {
		for s, category := range slots {
			if visited[s] || !eligibleForCategory(players[p], category) {
				continue
			}
			visited[s] = true
			if slotOwner[s] == -1 || augment(slotOwner[s], visited) {
				slotOwner[s] = p
				playerSlot[p] = s
				return true
			}
		}
		return false
	}

	for p := range players {
		augment(p, make([]bool, len(slots)))
	}
	return playerSlot
}

// canAssignAll reports whether every player can occupy a distinct slot.
func canAssignAll(players []*models.Player, slots []models.Position) bool {
	if len(players) > len(slots) {
		return false
	}
	assignment := matchSlots(players, slots)
	for _, s := range assignment {
		if s == -1 {
			return false
		}
	}
	return true
}

// AssignSlots assigns a complete roster to slots and returns the filled
// lineup slots in canonical order. The boolean is false when no complete
// assignment exists.
func AssignSlots(players []*models.Player, requirements map[models.Position]int) ([]models.LineupSlot, bool) {
	slots := expandSlots(requirements)
	if len(players) != len(slots) {
		return nil, false
	}

	assignment := matchSlots(players, slots)
	filled := make([]models.LineupSlot, len(slots))
	for p, s := range assignment {
		if s == -1 {
			return nil, false
		}
		filled[s] = models.LineupSlot{Player: *players[p], Category: slots[s]}
	}
	return filled, true
}

// CheckPool validates that the eligible pool can, by counts, satisfy every
// category minimum and the total roster size. It fails fast with the
// specific shortfall.
func CheckPool(pool []*models.Player, cfg OptimizeConfig) error {
	rosterSize := cfg.RosterSize()
	if len(pool) < rosterSize {
		return &InsufficientPoolError{Required: rosterSize, Available: len(pool)}
	}

	for _, pos := range models.CanonicalPositions {
		required, ok := cfg.PositionRequirements[pos]
		if !ok || required == 0 {
			continue
		}
		available := 0
		for _, p := range pool {
			if eligibleForCategory(p, pos) {
				available++
			}
		}
		if available < required {
			return &InsufficientPoolError{Category: pos, Required: required, Available: available}
		}
	}

	// Count checks can pass while overlapping multi-position players still
	// make a full assignment impossible; verify with the best pool subset
	// left to the solver. A whole-pool matching shortfall, though, is
	// definitive.
	if !poolCanCoverSlots(pool, cfg) {
		return &InsufficientPoolError{Required: rosterSize, Available: len(pool)}
	}

	return nil
}

// poolCanCoverSlots checks that the pool as a whole can fill every slot.
func poolCanCoverSlots(pool []*models.Player, cfg OptimizeConfig) bool {
	slots := expandSlots(cfg.PositionRequirements)
	slotOwner := make([]int, len(slots))
	for i := range slotOwner {
		slotOwner[i] = -1
	}
	playerSlot := make([]int, len(pool))
	for i := range playerSlot {
		playerSlot[i] = -1
	}

	var augment func(p int, visited []bool) bool
	augment = func(p int, visited []bool) bool {
		for s, category := range slots {
			if visited[s] || !eligibleForCategory(pool[p], category) {
				continue
			}
			visited[s] = true
			if slotOwner[s] == -1 || augment(slotOwner[s], visited) {
				slotOwner[s] = p
				playerSlot[p] = s
				return true
			}
		}
		return false
	}

	matched := 0
	for p := range pool {
		if matched == len(slots) {
			break
		}
		if augment(p, make([]bool, len(slots))) {
			matched++
		}
	}
	return matched == len(slots)
}

// ValidateLineup re-validates a constructed lineup defensively before it is
// returned to the caller.
func ValidateLineup(lineup *models.Lineup, cfg OptimizeConfig) error {
	if len(lineup.Slots) != cfg.RosterSize() {
		return fmt.Errorf("lineup has %d players, roster requires %d", len(lineup.Slots), cfg.RosterSize())
	}

	if lineup.TotalSalary > cfg.SalaryCap {
		return fmt.Errorf("lineup exceeds salary cap: %d > %d", lineup.TotalSalary, cfg.SalaryCap)
	}

	if lineup.TotalSalary < cfg.MinSalary {
		return fmt.Errorf("lineup salary %d below required minimum %d", lineup.TotalSalary, cfg.MinSalary)
	}

	counts := lineup.CategoryCounts()
	for pos, required := range cfg.PositionRequirements {
		if counts[pos] != required {
			return fmt.Errorf("category %s filled %d times, requires %d", pos, counts[pos], required)
		}
	}

	seen := make(map[string]bool)
	for _, s := range lineup.Slots {
		if seen[s.Player.ID] {
			return fmt.Errorf("player %s assigned to more than one slot", s.Player.Name)
		}
		seen[s.Player.ID] = true
		if !eligibleForCategory(&s.Player, s.Category) {
			return fmt.Errorf("player %s is not eligible at %s", s.Player.Name, s.Category)
		}
	}

	teamCounts := make(map[string]int)
	for _, s := range lineup.Slots {
		teamCounts[s.Player.Team]++
	}
	if cfg.MaxPerTeam > 0 {
		for team, count := range teamCounts {
			if count > cfg.MaxPerTeam {
				return fmt.Errorf("too many players from team %s: %d > %d", team, count, cfg.MaxPerTeam)
			}
		}
	}
	if cfg.MinStackSize > 0 {
		for _, team := range cfg.StackTeams {
			if teamCounts[team] < cfg.MinStackSize {
				return fmt.Errorf("stack team %s has %d players, requires %d", team, teamCounts[team], cfg.MinStackSize)
			}
		}
	}

	return nil
}
