package models

import (
	"time"

	"github.com/google/uuid"
)

// LineupSlot is one filled roster slot: the player plus the category they
// were assigned to. A multi-position player appears in exactly one slot.
type LineupSlot struct {
	Player   Player   `json:"player"`
	Category Position `json:"category"`
}

// Lineup is the result of one optimization call. It is never mutated after
// construction.
type Lineup struct {
	ID          uuid.UUID    `json:"id"`
	Slots       []LineupSlot `json:"slots"`
	TotalSalary int          `json:"total_salary"`
	TotalScore  float64      `json:"total_score"`

	// Proven is false for greedy results and timeout incumbents; those are
	// best-effort, not proven optimal.
	Proven    bool      `json:"proven_optimal"`
	Solver    string    `json:"solver"`
	CreatedAt time.Time `json:"created_at"`
}

// NewLineup assembles an immutable lineup result from assigned slots.
func NewLineup(slots []LineupSlot, proven bool, solver string) *Lineup {
	l := &Lineup{
		ID:        uuid.New(),
		Slots:     slots,
		Proven:    proven,
		Solver:    solver,
		CreatedAt: time.Now().UTC(),
	}
	for _, s := range slots {
		l.TotalSalary += s.Player.Salary
		l.TotalScore += s.Player.EnhancedScore
	}
	return l
}

// Players returns the lineup's players in slot order.
func (l *Lineup) Players() []Player {
	out := make([]Player, len(l.Slots))
	for i, s := range l.Slots {
		out[i] = s.Player
	}
	return out
}

// CategoryCounts returns the per-category fill counts, for validation.
func (l *Lineup) CategoryCounts() map[Position]int {
	counts := make(map[Position]int)
	for _, s := range l.Slots {
		counts[s.Category]++
	}
	return counts
}
