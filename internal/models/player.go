package models

import (
	"fmt"
	"strings"
)

// Position is a canonical roster category code.
type Position string

const (
	PositionPitcher    Position = "P"
	PositionCatcher    Position = "C"
	PositionFirstBase  Position = "1B"
	PositionSecondBase Position = "2B"
	PositionThirdBase  Position = "3B"
	PositionShortstop  Position = "SS"
	PositionOutfield   Position = "OF"
	// PositionUtility is the generic flex category. Unparseable position
	// strings fall back here instead of dropping the row.
	PositionUtility Position = "UTIL"
)

// CanonicalPositions is the closed set of categories the constraint model
// understands.
var CanonicalPositions = []Position{
	PositionPitcher, PositionCatcher, PositionFirstBase, PositionSecondBase,
	PositionThirdBase, PositionShortstop, PositionOutfield, PositionUtility,
}

// RecentFormFacts captures a player's recent-performance trend. Either the
// whole bundle is attached or it is absent; fields are never synthesized.
type RecentFormFacts struct {
	FormScore    float64   `json:"form_score,omitempty"` // pre-derived multiplier, 0 if not provided
	Last5Avg     float64   `json:"last5_avg,omitempty"`
	RecentScores []float64 `json:"recent_scores,omitempty"`
}

// VegasFacts captures the market-implied scoring environment for the
// player's game.
type VegasFacts struct {
	ImpliedTotal  float64 `json:"implied_total"`
	OpponentTotal float64 `json:"opponent_total,omitempty"`
	OverUnder     float64 `json:"over_under,omitempty"`
}

// StatcastFacts captures advanced performance metrics. Only metrics the
// provider actually produced are set; zero means not provided.
type StatcastFacts struct {
	// Pitchers
	KRate float64 `json:"k_rate,omitempty"`
	WHIP  float64 `json:"whip,omitempty"`
	// Hitters
	BarrelRate  float64 `json:"barrel_rate,omitempty"`
	HardHitRate float64 `json:"hard_hit_rate,omitempty"`
}

// ParkFacts captures the venue scoring adjustment for the player's game.
type ParkFacts struct {
	Factor float64 `json:"factor"`
}

// FactSet holds the optional enrichment bundles attached to a player. A nil
// bundle means the provider produced nothing for this player; the scoring
// engine skips absent bundles entirely.
type FactSet struct {
	RecentForm *RecentFormFacts `json:"recent_form,omitempty"`
	Vegas      *VegasFacts      `json:"vegas,omitempty"`
	Statcast   *StatcastFacts   `json:"statcast,omitempty"`
	Park       *ParkFacts       `json:"park,omitempty"`
}

// Player is the canonical per-run entity. Records are created once per
// optimization run, enriched in place, and treated as immutable once the
// optimizer consumes them.
type Player struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Team     string `json:"team"`
	Opponent string `json:"opponent,omitempty"`

	// Positions the player may occupy; a multi-position player fills any
	// one of them, never more than one at a time.
	Positions []Position `json:"positions"`

	Salary int `json:"salary"`

	BaseProjection float64 `json:"base_projection"`
	EnhancedScore  float64 `json:"enhanced_score"`

	// Pool-membership signals only; they never affect score.
	IsConfirmed      bool `json:"is_confirmed"`
	IsManualSelected bool `json:"is_manual_selected"`

	BattingOrder int `json:"batting_order,omitempty"`

	Facts FactSet `json:"facts,omitempty"`
}

// NewPlayer builds a player record with the enhanced score defaulted to the
// base projection until enrichment runs.
func NewPlayer(name, team string, positions []Position, salary int, baseProjection float64) *Player {
	id := fmt.Sprintf("%s_%s", strings.ToLower(strings.ReplaceAll(name, " ", "_")), strings.ToLower(team))
	return &Player{
		ID:             id,
		Name:           name,
		Team:           strings.ToUpper(team),
		Positions:      positions,
		Salary:         salary,
		BaseProjection: baseProjection,
		EnhancedScore:  baseProjection,
	}
}

// PrimaryPosition returns the first listed position.
func (p *Player) PrimaryPosition() Position {
	if len(p.Positions) == 0 {
		return PositionUtility
	}
	return p.Positions[0]
}

// HasPosition reports whether the player is eligible at the given category.
func (p *Player) HasPosition(pos Position) bool {
	for _, have := range p.Positions {
		if have == pos {
			return true
		}
	}
	return false
}

// IsPitcher reports whether the player's primary position is pitcher.
// Used by the pitcher-vs-opposing-hitters constraint.
func (p *Player) IsPitcher() bool {
	return p.PrimaryPosition() == PositionPitcher
}

// ValueScore returns points per $1000 of salary, the greedy sort key.
func (p *Player) ValueScore() float64 {
	if p.Salary <= 0 {
		return 0
	}
	return p.EnhancedScore / (float64(p.Salary) / 1000.0)
}

// Clone returns an independent copy so concurrent runs never share mutable
// state.
func (p *Player) Clone() *Player {
	cp := *p
	cp.Positions = append([]Position(nil), p.Positions...)
	if p.Facts.RecentForm != nil {
		rf := *p.Facts.RecentForm
		rf.RecentScores = append([]float64(nil), p.Facts.RecentForm.RecentScores...)
		cp.Facts.RecentForm = &rf
	}
	if p.Facts.Vegas != nil {
		v := *p.Facts.Vegas
		cp.Facts.Vegas = &v
	}
	if p.Facts.Statcast != nil {
		s := *p.Facts.Statcast
		cp.Facts.Statcast = &s
	}
	if p.Facts.Park != nil {
		pk := *p.Facts.Park
		cp.Facts.Park = &pk
	}
	return &cp
}

func (p *Player) String() string {
	return fmt.Sprintf("%s %s $%d (%.1f pts)", p.Name, p.PrimaryPosition(), p.Salary, p.EnhancedScore)
}
