package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelkomolafe/dfs-optimizer/internal/models"
)

func hitter(base float64) *models.Player {
	return models.NewPlayer("Test Hitter", "NYY", []models.Position{models.PositionOutfield}, 5000, base)
}

func pitcher(base float64) *models.Player {
	p := models.NewPlayer("Test Pitcher", "NYY", []models.Position{models.PositionPitcher}, 9000, base)
	p.Opponent = "BOS"
	return p
}

func TestScore_NoFactsLeavesBaseProjection(t *testing.T) {
	e := NewEngine(DefaultWeights())
	p := hitter(10.0)

	assert.InDelta(t, 10.0, e.Score(p), 1e-9)
}

func TestScore_ZeroBaseProjectionStaysZero(t *testing.T) {
	e := NewEngine(DefaultWeights())
	p := hitter(0)
	p.Facts.Park = &models.ParkFacts{Factor: 1.20}

	assert.Zero(t, e.Score(p))
}

func TestScore_SinglePresentCategoryTakesFullWeight(t *testing.T) {
	e := NewEngine(DefaultWeights())
	p := hitter(10.0)
	p.Facts.Park = &models.ParkFacts{Factor: 1.20}

	// Park is the only present category, so its weight renormalizes to 1.
	assert.InDelta(t, 12.0, e.Score(p), 1e-9)
}

func TestScore_WeightedAverageOverPresentCategories(t *testing.T) {
	e := NewEngine(DefaultWeights())
	p := hitter(10.0)
	p.Facts.RecentForm = &models.RecentFormFacts{FormScore: 1.10}
	p.Facts.Park = &models.ParkFacts{Factor: 0.90}

	// Weights 0.35 and 0.15 renormalize to 0.7 and 0.3.
	expected := 10.0 * (1.10*0.7 + 0.90*0.3)
	assert.InDelta(t, expected, e.Score(p), 1e-9)
}

func TestScore_CategoryMultiplierClamped(t *testing.T) {
	e := NewEngine(DefaultWeights())
	p := hitter(10.0)
	p.Facts.Park = &models.ParkFacts{Factor: 3.0}

	// A wild park factor clamps to 1.30 before combining.
	assert.InDelta(t, 13.0, e.Score(p), 1e-9)
}

func TestScore_Idempotent(t *testing.T) {
	e := NewEngine(DefaultWeights())
	p := hitter(10.0)
	p.Facts.Park = &models.ParkFacts{Factor: 1.20}

	e.Apply(p)
	first := p.EnhancedScore
	e.Apply(p)
	second := p.EnhancedScore

	require.InDelta(t, first, second, 1e-9)
	assert.InDelta(t, 12.0, first, 1e-9)
}

func TestScore_StaysInsideSanityBand(t *testing.T) {
	e := NewEngine(Weights{RecentForm: 1, Vegas: 1, Matchup: 1, Park: 1})

	for _, factor := range []float64{0.01, 0.5, 1.0, 1.5, 10.0} {
		p := hitter(10.0)
		p.Facts.Park = &models.ParkFacts{Factor: factor}
		score := e.Score(p)
		assert.GreaterOrEqual(t, score, 5.0)
		assert.LessOrEqual(t, score, 20.0)
	}
}

func TestRecentFormMultiplier_Last5StepTable(t *testing.T) {
	cases := []struct {
		last5    float64
		expected float64
	}{
		{13.5, 1.30}, // ratio 1.35
		{12.5, 1.25}, // ratio 1.25
		{11.5, 1.15}, // ratio 1.15
		{10.5, 1.05}, // ratio 1.05
		{9.5, 1.00},  // ratio 0.95
		{8.5, 0.90},  // ratio 0.85
		{7.5, 0.80},  // ratio 0.75
		{5.0, 0.70},  // ratio 0.50
	}

	for _, tc := range cases {
		p := hitter(10.0)
		p.Facts.RecentForm = &models.RecentFormFacts{Last5Avg: tc.last5}
		m, ok := recentFormMultiplier(p)
		require.True(t, ok)
		assert.InDelta(t, tc.expected, m, 1e-9, "last5 avg %.1f", tc.last5)
	}
}

func TestRecentFormMultiplier_RawScoresFallback(t *testing.T) {
	p := hitter(10.0)
	p.Facts.RecentForm = &models.RecentFormFacts{RecentScores: []float64{10, 10, 10}}

	m, ok := recentFormMultiplier(p)
	require.True(t, ok)
	// Ratio 1.0 maps to 0.70 + 0.30.
	assert.InDelta(t, 1.0, m, 1e-9)
}

func TestRecentFormMultiplier_TooFewScoresAbsent(t *testing.T) {
	p := hitter(10.0)
	p.Facts.RecentForm = &models.RecentFormFacts{RecentScores: []float64{10, 10}}

	_, ok := recentFormMultiplier(p)
	assert.False(t, ok)
}

func TestVegasMultiplier_PitcherUsesOpponentTotal(t *testing.T) {
	p := pitcher(18.0)
	p.Facts.Vegas = &models.VegasFacts{OpponentTotal: 3.2}

	m, ok := vegasMultiplier(p)
	require.True(t, ok)
	assert.InDelta(t, 1.20, m, 1e-9)
}

func TestVegasMultiplier_PitcherDerivesOpponentFromOverUnder(t *testing.T) {
	p := pitcher(18.0)
	p.Facts.Vegas = &models.VegasFacts{ImpliedTotal: 5.5, OverUnder: 8.5}

	// Opponent total 3.0 falls in the 1.20 band.
	m, ok := vegasMultiplier(p)
	require.True(t, ok)
	assert.InDelta(t, 1.20, m, 1e-9)
}

func TestVegasMultiplier_HitterUsesOwnImpliedTotal(t *testing.T) {
	p := hitter(10.0)
	p.Facts.Vegas = &models.VegasFacts{ImpliedTotal: 5.2}

	m, ok := vegasMultiplier(p)
	require.True(t, ok)
	assert.InDelta(t, 1.20, m, 1e-9)
}

func TestVegasMultiplier_HitterTrimmedByGameTotal(t *testing.T) {
	p := hitter(10.0)
	p.Facts.Vegas = &models.VegasFacts{ImpliedTotal: 5.2, OverUnder: 11.5}

	m, ok := vegasMultiplier(p)
	require.True(t, ok)
	assert.InDelta(t, 1.20*1.05, m, 1e-9)
}

func TestMatchupMultiplier_NeutralMetricsAbsent(t *testing.T) {
	p := hitter(10.0)
	p.Facts.Statcast = &models.StatcastFacts{BarrelRate: 8, HardHitRate: 40}

	_, ok := matchupMultiplier(p)
	assert.False(t, ok)
}

func TestMatchupMultiplier_EliteHitterMetrics(t *testing.T) {
	p := hitter(10.0)
	p.Facts.Statcast = &models.StatcastFacts{BarrelRate: 14, HardHitRate: 48}

	m, ok := matchupMultiplier(p)
	require.True(t, ok)
	assert.InDelta(t, 1.03*1.02, m, 1e-9)
}

func TestMatchupMultiplier_PitcherMetrics(t *testing.T) {
	p := pitcher(18.0)
	p.Facts.Statcast = &models.StatcastFacts{KRate: 30, WHIP: 0.95}

	m, ok := matchupMultiplier(p)
	require.True(t, ok)
	assert.InDelta(t, 1.03*1.02, m, 1e-9)
}
