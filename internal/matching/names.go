// Package matching provides fuzzy player-name matching used to reconcile
// naming differences between the player source, confirmation feeds, and
// manual override input.
package matching

import (
	"regexp"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultThreshold is the minimum similarity ratio for a fuzzy match.
const DefaultThreshold = 0.80

var (
	suffixRe   = regexp.MustCompile(`\b(jr\.?|sr\.?|ii+|iii+|iv|v|2nd|3rd)\b`)
	initialsRe = regexp.MustCompile(`([a-z])\.([a-z])`)
	punctRe    = regexp.MustCompile(`[^\w\s]`)

	stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Matcher performs normalized, cached name comparisons.
type Matcher struct {
	Threshold float64

	mu        sync.RWMutex
	normCache map[string]string
}

func NewMatcher() *Matcher {
	return &Matcher{
		Threshold: DefaultThreshold,
		normCache: make(map[string]string),
	}
}

// Match reports whether two player names refer to the same player. Matching
// is case-insensitive and tolerates accents, suffixes, nicknames shortened
// to initials, and substring forms ("Jon Smith" vs "Jonathan Smith").
func (m *Matcher) Match(name1, name2 string) bool {
	name1 = strings.TrimSpace(name1)
	name2 = strings.TrimSpace(name2)
	if name1 == "" || name2 == "" {
		return false
	}

	if strings.EqualFold(name1, name2) {
		return true
	}

	norm1 := m.normalize(name1)
	norm2 := m.normalize(name2)
	if norm1 == norm2 {
		return true
	}

	// Very different lengths are unlikely to be the same player.
	if abs(len(norm1)-len(norm2)) > 8 {
		return false
	}

	parts1 := strings.Fields(norm1)
	parts2 := strings.Fields(norm2)
	if len(parts1) == 0 || len(parts2) == 0 {
		return false
	}

	if matchParts(parts1, parts2) {
		return true
	}

	// Whole-string similarity, only for close cases.
	if abs(len(norm1)-len(norm2)) <= 4 {
		return similarity(norm1, norm2) >= m.threshold()
	}

	return false
}

func (m *Matcher) threshold() float64 {
	if m.Threshold <= 0 {
		return DefaultThreshold
	}
	return m.Threshold
}

func (m *Matcher) normalize(name string) string {
	m.mu.RLock()
	cached, ok := m.normCache[name]
	m.mu.RUnlock()
	if ok {
		return cached
	}

	normalized := strings.ToLower(strings.TrimSpace(name))
	if stripped, _, err := transform.String(stripAccents, normalized); err == nil {
		normalized = stripped
	}
	normalized = suffixRe.ReplaceAllString(normalized, "")
	normalized = initialsRe.ReplaceAllString(normalized, "$1 $2") // J.D. -> j d
	normalized = punctRe.ReplaceAllString(normalized, " ")
	normalized = strings.Join(strings.Fields(normalized), " ")

	m.mu.Lock()
	m.normCache[name] = normalized
	m.mu.Unlock()
	return normalized
}

// matchParts compares name parts, handling differing part counts such as
// "Michael Trout" vs "Mike Trout Jr".
func matchParts(parts1, parts2 []string) bool {
	if len(parts1) == len(parts2) {
		matches := 0
		for i := range parts1 {
			if matchSinglePart(parts1[i], parts2[i]) {
				matches++
			}
		}
		return float64(matches)/float64(len(parts1)) >= 0.8
	}

	shorter, longer := parts1, parts2
	if len(parts2) < len(parts1) {
		shorter, longer = parts2, parts1
	}

	matched := 0
	for _, sp := range shorter {
		for _, lp := range longer {
			if matchSinglePart(sp, lp) {
				matched++
				break
			}
		}
	}
	return float64(matched)/float64(len(shorter)) >= 0.8
}

// matchSinglePart matches individual name parts: exact, initial-vs-name
// (last-name + first-initial contract), substring shortening, or fuzzy.
func matchSinglePart(part1, part2 string) bool {
	if part1 == part2 {
		return true
	}

	// First-initial match: "j" vs "jonathan".
	if len(part1) == 1 {
		return strings.HasPrefix(part2, part1)
	}
	if len(part2) == 1 {
		return strings.HasPrefix(part1, part2)
	}

	// Shortened forms: "jon" vs "jonathan".
	if len(part1) >= 3 && len(part2) >= 3 {
		if strings.HasPrefix(part1, part2) || strings.HasPrefix(part2, part1) {
			return true
		}
	}

	return similarity(part1, part2) >= DefaultThreshold
}

// similarity returns a normalized edit-distance ratio in [0, 1].
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein(a, b))/float64(longest)
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
