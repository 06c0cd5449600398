// Package eligibility decides which loaded players enter the optimization
// pool. Confirmation and manual-selection flags control pool membership
// only; they never touch a player's score.
package eligibility

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/michaelkomolafe/dfs-optimizer/internal/matching"
	"github.com/michaelkomolafe/dfs-optimizer/internal/models"
	"github.com/michaelkomolafe/dfs-optimizer/pkg/logger"
)

// Mode is the closed set of pool-selection modes.
type Mode int

const (
	// ModeUnion admits confirmed or manually selected players. Default.
	ModeUnion Mode = iota
	// ModeManualOnly admits only manually selected players.
	ModeManualOnly
	// ModeConfirmedOnly admits only confirmed starters.
	ModeConfirmedOnly
)

func (m Mode) String() string {
	switch m {
	case ModeManualOnly:
		return "manual_only"
	case ModeConfirmedOnly:
		return "confirmed_only"
	default:
		return "union"
	}
}

// ParseMode maps a configuration string onto a Mode. Unknown values fall
// back to union with an error so callers can warn.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "union":
		return ModeUnion, nil
	case "manual_only", "manual":
		return ModeManualOnly, nil
	case "confirmed_only", "confirmed":
		return ModeConfirmedOnly, nil
	default:
		return ModeUnion, fmt.Errorf("unknown eligibility mode %q", s)
	}
}

// Eligible reports whether the player belongs in the pool under the mode.
func Eligible(p *models.Player, mode Mode) bool {
	switch mode {
	case ModeManualOnly:
		return p.IsManualSelected
	case ModeConfirmedOnly:
		return p.IsConfirmed
	default:
		return p.IsConfirmed || p.IsManualSelected
	}
}

// FilterPool returns the players eligible under the mode.
func FilterPool(players []*models.Player, mode Mode) []*models.Player {
	pool := make([]*models.Player, 0, len(players))
	for _, p := range players {
		if Eligible(p, mode) {
			pool = append(pool, p)
		}
	}

	logger.GetLogger().WithFields(logrus.Fields{
		"mode":     mode.String(),
		"pool":     len(pool),
		"universe": len(players),
	}).Info("Eligibility filter applied")

	return pool
}

// ApplyManualSelections marks players named in the user-supplied delimited
// list as manually selected, using the fuzzy matching contract. Names that
// match no player are returned as warnings, never silently dropped.
func ApplyManualSelections(players []*models.Player, manualInput string, matcher *matching.Matcher) []string {
	if strings.TrimSpace(manualInput) == "" {
		return nil
	}
	if matcher == nil {
		matcher = matching.NewMatcher()
	}

	names := splitManualInput(manualInput)

	var warnings []string
	for _, name := range names {
		matched := false
		for _, p := range players {
			if matcher.Match(name, p.Name) {
				p.IsManualSelected = true
				matched = true
			}
		}
		if !matched {
			warnings = append(warnings, fmt.Sprintf("manual selection %q matched no player in the pool", name))
		}
	}
	return warnings
}

func splitManualInput(input string) []string {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	})
	var names []string
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			names = append(names, f)
		}
	}
	return names
}
