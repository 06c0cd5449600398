package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlayer_Defaults(t *testing.T) {
	p := NewPlayer("Mike Trout", "laa", []Position{PositionOutfield}, 6200, 11.5)

	assert.Equal(t, "mike_trout_laa", p.ID)
	assert.Equal(t, "LAA", p.Team)
	assert.InDelta(t, 11.5, p.EnhancedScore, 1e-9, "enhanced score starts at the base projection")
	assert.False(t, p.IsConfirmed)
	assert.False(t, p.IsManualSelected)
}

func TestPlayer_Positions(t *testing.T) {
	p := NewPlayer("Swing Man", "NYY", []Position{PositionThirdBase, PositionShortstop}, 4500, 9)

	assert.Equal(t, PositionThirdBase, p.PrimaryPosition())
	assert.True(t, p.HasPosition(PositionShortstop))
	assert.False(t, p.HasPosition(PositionOutfield))
	assert.False(t, p.IsPitcher())
}

func TestPlayer_ValueScore(t *testing.T) {
	p := NewPlayer("Value Bat", "NYY", []Position{PositionOutfield}, 4000, 10)
	assert.InDelta(t, 2.5, p.ValueScore(), 1e-9)

	p.Salary = 0
	assert.Zero(t, p.ValueScore())
}

func TestPlayer_CloneIsIndependent(t *testing.T) {
	p := NewPlayer("Original", "NYY", []Position{PositionOutfield}, 5000, 10)
	p.Facts.RecentForm = &RecentFormFacts{RecentScores: []float64{8, 9, 10}}
	p.Facts.Park = &ParkFacts{Factor: 1.05}

	c := p.Clone()
	c.EnhancedScore = 99
	c.Positions[0] = PositionCatcher
	c.Facts.RecentForm.RecentScores[0] = 0
	c.Facts.Park.Factor = 0.5

	assert.InDelta(t, 10, p.EnhancedScore, 1e-9)
	assert.Equal(t, PositionOutfield, p.Positions[0])
	assert.InDelta(t, 8, p.Facts.RecentForm.RecentScores[0], 1e-9)
	assert.InDelta(t, 1.05, p.Facts.Park.Factor, 1e-9)
}

func TestLineup_Totals(t *testing.T) {
	a := NewPlayer("Bat A", "NYY", []Position{PositionOutfield}, 4000, 10)
	b := NewPlayer("Bat B", "BOS", []Position{PositionOutfield}, 5000, 12)

	l := NewLineup([]LineupSlot{
		{Player: *a, Category: PositionOutfield},
		{Player: *b, Category: PositionOutfield},
	}, true, "exact")

	require.NotEqual(t, "", l.ID.String())
	assert.Equal(t, 9000, l.TotalSalary)
	assert.InDelta(t, 22, l.TotalScore, 1e-9)
	assert.Equal(t, 2, l.CategoryCounts()[PositionOutfield])
	assert.Len(t, l.Players(), 2)
}
