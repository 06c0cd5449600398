// Package scoring derives a player's enhanced score from the base projection
// and whichever enrichment fact bundles are present. Absent bundles
// contribute nothing; they are skipped, not defaulted to neutral.
package scoring

import (
	"github.com/michaelkomolafe/dfs-optimizer/internal/models"
)

// Per-category multipliers stay inside these bounds before combining.
const (
	minCategoryMult = 0.70
	maxCategoryMult = 1.30
)

// The combined score never leaves this band around the base projection.
const (
	minScoreRatio = 0.5
	maxScoreRatio = 2.0
)

// Weights configures the relative share of each signal category. Weights are
// renormalized across the categories actually present for a player, so a
// single present signal never counts for more than its configured share of
// the deviation from neutral.
type Weights struct {
	RecentForm float64
	Vegas      float64
	Matchup    float64
	Park       float64
}

// DefaultWeights matches the engine's shipped configuration; callers
// override per run via config.
func DefaultWeights() Weights {
	return Weights{
		RecentForm: 0.35,
		Vegas:      0.30,
		Matchup:    0.20,
		Park:       0.15,
	}
}

// Engine is a stateless scorer; it is safe for concurrent use.
type Engine struct {
	weights Weights
}

func NewEngine(weights Weights) *Engine {
	return &Engine{weights: weights}
}

// Score computes the enhanced score for a player. It is a pure function of
// the base projection and the attached facts: calling it twice yields the
// same value, and it never raises on missing data.
func (e *Engine) Score(p *models.Player) float64 {
	if p.BaseProjection <= 0 {
		return 0
	}

	type contribution struct {
		mult   float64
		weight float64
	}
	var contribs []contribution

	if m, ok := recentFormMultiplier(p); ok {
		contribs = append(contribs, contribution{clampCategory(m), e.weights.RecentForm})
	}
	if m, ok := vegasMultiplier(p); ok {
		contribs = append(contribs, contribution{clampCategory(m), e.weights.Vegas})
	}
	if m, ok := matchupMultiplier(p); ok {
		contribs = append(contribs, contribution{clampCategory(m), e.weights.Matchup})
	}
	if m, ok := parkMultiplier(p); ok {
		contribs = append(contribs, contribution{clampCategory(m), e.weights.Park})
	}

	combined := 1.0
	if len(contribs) > 0 {
		totalWeight := 0.0
		for _, c := range contribs {
			totalWeight += c.weight
		}
		if totalWeight > 0 {
			// Weighted average over present categories only.
			weighted := 0.0
			for _, c := range contribs {
				weighted += c.mult * (c.weight / totalWeight)
			}
			combined = weighted
		}
	}

	score := p.BaseProjection * combined

	// Sanity band against runaway multiplication.
	if score < p.BaseProjection*minScoreRatio {
		score = p.BaseProjection * minScoreRatio
	}
	if score > p.BaseProjection*maxScoreRatio {
		score = p.BaseProjection * maxScoreRatio
	}

	return score
}

// Apply recomputes and stores the enhanced score. Rescoring always derives
// from the base projection, never from the previous enhanced score, so
// reapplying the same facts is idempotent.
func (e *Engine) Apply(p *models.Player) {
	p.EnhancedScore = e.Score(p)
}

// ApplyAll rescoring for a whole pool.
func (e *Engine) ApplyAll(players []*models.Player) {
	for _, p := range players {
		e.Apply(p)
	}
}

func clampCategory(m float64) float64 {
	if m < minCategoryMult {
		return minCategoryMult
	}
	if m > maxCategoryMult {
		return maxCategoryMult
	}
	return m
}

// recentFormMultiplier derives the recent-performance trend multiplier.
// Priority order: a pre-derived form score, then the last-5 average mapped
// against the base projection, then raw recent game scores.
func recentFormMultiplier(p *models.Player) (float64, bool) {
	rf := p.Facts.RecentForm
	if rf == nil {
		return 0, false
	}

	if rf.FormScore > 0 {
		return rf.FormScore, true
	}

	if rf.Last5Avg > 0 && p.BaseProjection > 0 {
		ratio := rf.Last5Avg / p.BaseProjection
		switch {
		case ratio > 1.30:
			return 1.30, true
		case ratio > 1.20:
			return 1.25, true
		case ratio > 1.10:
			return 1.15, true
		case ratio > 1.00:
			return 1.05, true
		case ratio > 0.90:
			return 1.00, true
		case ratio > 0.80:
			return 0.90, true
		case ratio > 0.70:
			return 0.80, true
		default:
			return 0.70, true
		}
	}

	if len(rf.RecentScores) >= 3 && p.BaseProjection > 0 {
		recent := rf.RecentScores
		if len(recent) > 5 {
			recent = recent[len(recent)-5:]
		}
		sum := 0.0
		for _, s := range recent {
			sum += s
		}
		ratio := (sum / float64(len(recent))) / p.BaseProjection
		m := 0.70 + ratio*0.30
		if m < 0.70 {
			m = 0.70
		}
		if m > 1.30 {
			m = 1.30
		}
		return m, true
	}

	return 0, false
}

// vegasMultiplier derives the market-environment multiplier. Pitchers key
// off the opponent's implied total, hitters off their own team's.
func vegasMultiplier(p *models.Player) (float64, bool) {
	v := p.Facts.Vegas
	if v == nil {
		return 0, false
	}

	if p.IsPitcher() {
		oppTotal := v.OpponentTotal
		if oppTotal <= 0 && v.OverUnder > 0 && v.ImpliedTotal > 0 {
			oppTotal = v.OverUnder - v.ImpliedTotal
		}
		if oppTotal <= 0 {
			return 0, false
		}
		// Lower opponent total is better for the pitcher.
		switch {
		case oppTotal < 3.0:
			return 1.30, true
		case oppTotal < 3.5:
			return 1.20, true
		case oppTotal < 4.0:
			return 1.10, true
		case oppTotal < 4.5:
			return 1.00, true
		case oppTotal < 5.0:
			return 0.90, true
		case oppTotal < 5.5:
			return 0.80, true
		default:
			return 0.70, true
		}
	}

	if v.ImpliedTotal <= 0 {
		return 0, false
	}

	var mult float64
	switch {
	case v.ImpliedTotal > 5.5:
		mult = 1.30
	case v.ImpliedTotal > 5.0:
		mult = 1.20
	case v.ImpliedTotal > 4.5:
		mult = 1.10
	case v.ImpliedTotal > 4.0:
		mult = 1.00
	case v.ImpliedTotal > 3.5:
		mult = 0.90
	default:
		mult = 0.80
	}

	// Trim on the game total when available.
	if v.OverUnder > 0 {
		switch {
		case v.OverUnder > 11:
			mult *= 1.05
		case v.OverUnder > 10:
			mult *= 1.02
		case v.OverUnder < 7:
			mult *= 0.95
		case v.OverUnder < 7.5:
			mult *= 0.98
		}
	}

	return mult, true
}

// matchupMultiplier derives small advanced-metric nudges. It contributes
// only when at least one metric actually moved the factor.
func matchupMultiplier(p *models.Player) (float64, bool) {
	sc := p.Facts.Statcast
	if sc == nil {
		return 0, false
	}

	factor := 1.0
	adjustments := 0

	if p.IsPitcher() {
		if sc.KRate > 0 {
			if sc.KRate > 28 {
				factor *= 1.03
				adjustments++
			} else if sc.KRate < 19 {
				factor *= 0.97
				adjustments++
			}
		}
		if sc.WHIP > 0 {
			if sc.WHIP < 1.00 {
				factor *= 1.02
				adjustments++
			} else if sc.WHIP > 1.40 {
				factor *= 0.98
				adjustments++
			}
		}
	} else {
		if sc.BarrelRate > 0 {
			if sc.BarrelRate > 12 {
				factor *= 1.03
				adjustments++
			} else if sc.BarrelRate < 6 {
				factor *= 0.97
				adjustments++
			}
		}
		if sc.HardHitRate > 0 {
			if sc.HardHitRate > 45 {
				factor *= 1.02
				adjustments++
			} else if sc.HardHitRate < 35 {
				factor *= 0.98
				adjustments++
			}
		}
	}

	if adjustments == 0 {
		return 0, false
	}
	return factor, true
}

func parkMultiplier(p *models.Player) (float64, bool) {
	pk := p.Facts.Park
	if pk == nil || pk.Factor <= 0 {
		return 0, false
	}
	return pk.Factor, true
}
