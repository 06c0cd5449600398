package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelkomolafe/dfs-optimizer/internal/matching"
	"github.com/michaelkomolafe/dfs-optimizer/internal/models"
)

func makePlayer(name string, confirmed, manual bool) *models.Player {
	p := models.NewPlayer(name, "NYY", []models.Position{models.PositionOutfield}, 5000, 10)
	p.IsConfirmed = confirmed
	p.IsManualSelected = manual
	return p
}

func TestParseMode(t *testing.T) {
	cases := []struct {
		input    string
		expected Mode
		wantErr  bool
	}{
		{"union", ModeUnion, false},
		{"", ModeUnion, false},
		{"manual_only", ModeManualOnly, false},
		{"manual", ModeManualOnly, false},
		{"confirmed_only", ModeConfirmedOnly, false},
		{"CONFIRMED", ModeConfirmedOnly, false},
		{"everything", ModeUnion, true},
	}

	for _, tc := range cases {
		mode, err := ParseMode(tc.input)
		assert.Equal(t, tc.expected, mode, "input %q", tc.input)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.input)
		} else {
			assert.NoError(t, err, "input %q", tc.input)
		}
	}
}

func TestFilterPool_Modes(t *testing.T) {
	neither := makePlayer("Bench Bat", false, false)
	confirmed := makePlayer("Confirmed Starter", true, false)
	manual := makePlayer("Manual Pick", false, true)
	both := makePlayer("Star Player", true, true)
	players := []*models.Player{neither, confirmed, manual, both}

	union := FilterPool(players, ModeUnion)
	assert.ElementsMatch(t, []*models.Player{confirmed, manual, both}, union)

	manualOnly := FilterPool(players, ModeManualOnly)
	assert.ElementsMatch(t, []*models.Player{manual, both}, manualOnly)

	confirmedOnly := FilterPool(players, ModeConfirmedOnly)
	assert.ElementsMatch(t, []*models.Player{confirmed, both}, confirmedOnly)
}

// The union pool always contains every restricted pool.
func TestFilterPool_UnionIsSuperset(t *testing.T) {
	players := []*models.Player{
		makePlayer("A", true, false),
		makePlayer("B", false, true),
		makePlayer("C", true, true),
		makePlayer("D", false, false),
	}

	inUnion := make(map[string]bool)
	for _, p := range FilterPool(players, ModeUnion) {
		inUnion[p.ID] = true
	}
	for _, mode := range []Mode{ModeManualOnly, ModeConfirmedOnly} {
		for _, p := range FilterPool(players, mode) {
			assert.True(t, inUnion[p.ID], "player %s in %s but not in union", p.Name, mode)
		}
	}
}

func TestApplyManualSelections_FuzzyMatch(t *testing.T) {
	jonathan := makePlayer("Jonathan Smith", false, false)
	other := makePlayer("Mookie Betts", false, false)
	players := []*models.Player{jonathan, other}

	warnings := ApplyManualSelections(players, "Jon Smith", matching.NewMatcher())

	assert.Empty(t, warnings)
	assert.True(t, jonathan.IsManualSelected)
	assert.False(t, other.IsManualSelected)
}

func TestApplyManualSelections_UnmatchedNameWarns(t *testing.T) {
	players := []*models.Player{makePlayer("Mookie Betts", false, false)}

	warnings := ApplyManualSelections(players, "Mookie Betts; Babe Ruth", nil)

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "Babe Ruth")
	assert.True(t, players[0].IsManualSelected)
}

func TestApplyManualSelections_Delimiters(t *testing.T) {
	a := makePlayer("Aaron Judge", false, false)
	b := makePlayer("Juan Soto", false, false)
	c := makePlayer("Freddie Freeman", false, false)
	players := []*models.Player{a, b, c}

	warnings := ApplyManualSelections(players, "Aaron Judge, Juan Soto\nFreddie Freeman", nil)

	assert.Empty(t, warnings)
	assert.True(t, a.IsManualSelected)
	assert.True(t, b.IsManualSelected)
	assert.True(t, c.IsManualSelected)
}

func TestApplyManualSelections_EmptyInputNoop(t *testing.T) {
	players := []*models.Player{makePlayer("Aaron Judge", false, false)}

	assert.Nil(t, ApplyManualSelections(players, "   ", nil))
	assert.False(t, players[0].IsManualSelected)
}
