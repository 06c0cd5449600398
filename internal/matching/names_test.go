package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch_IdenticalAndCase(t *testing.T) {
	m := NewMatcher()

	assert.True(t, m.Match("Mike Trout", "Mike Trout"))
	assert.True(t, m.Match("mike trout", "MIKE TROUT"))
	assert.False(t, m.Match("", "Mike Trout"))
	assert.False(t, m.Match("Mike Trout", ""))
}

func TestMatch_ShortenedFirstName(t *testing.T) {
	m := NewMatcher()

	// "Jon" is a prefix shortening of "Jonathan"; the last name is exact.
	assert.True(t, m.Match("Jon Smith", "Jonathan Smith"))
	assert.True(t, m.Match("Mike Trout", "Michael Trout"))
	assert.True(t, m.Match("Matt Olson", "Matthew Olson"))
}

func TestMatch_AccentsAndSuffixes(t *testing.T) {
	m := NewMatcher()

	assert.True(t, m.Match("Jose Ramirez", "José Ramírez"))
	assert.True(t, m.Match("Ronald Acuna Jr.", "Ronald Acuña"))
	assert.True(t, m.Match("Fernando Tatis Jr", "Fernando Tatis"))
	assert.True(t, m.Match("Cal Ripken III", "Cal Ripken"))
}

func TestMatch_InitialsForms(t *testing.T) {
	m := NewMatcher()

	assert.True(t, m.Match("J.D. Martinez", "J D Martinez"))
	assert.True(t, m.Match("J. Smith", "Jonathan Smith"))
}

func TestMatch_DifferentPlayers(t *testing.T) {
	m := NewMatcher()

	assert.False(t, m.Match("Mike Trout", "Mookie Betts"))
	assert.False(t, m.Match("Jon Smith", "Jon Lester"))
	assert.False(t, m.Match("Aaron Judge", "Aaron Nola"))
}

func TestMatch_TyposWithinParts(t *testing.T) {
	m := NewMatcher()

	// One substitution in a seven-letter surname stays above the ratio.
	assert.True(t, m.Match("Freddie Freeman", "Freddie Freemon"))
}

func TestMatch_ThresholdOverride(t *testing.T) {
	loose := NewMatcher()
	strict := NewMatcher()
	strict.Threshold = 0.99

	// Edits in both parts fail part matching, so the decision falls to
	// whole-string similarity under the configured threshold.
	assert.True(t, loose.Match("Bob Jackson", "Rob Jacksen"))
	assert.False(t, strict.Match("Bob Jackson", "Rob Jacksen"))
}

func TestSimilarity_Ratio(t *testing.T) {
	assert.InDelta(t, 1.0, similarity("trout", "trout"), 1e-9)
	assert.InDelta(t, 0.8, similarity("trout", "traut"), 1e-9)
	assert.Equal(t, 0, levenshtein("", ""))
	assert.Equal(t, 5, levenshtein("trout", ""))
}

func TestNormalize_CachesResult(t *testing.T) {
	m := NewMatcher()

	first := m.normalize("José Ramírez Jr.")
	second := m.normalize("José Ramírez Jr.")
	assert.Equal(t, "jose ramirez", first)
	assert.Equal(t, first, second)
}
