// Package loader turns raw player-source rows into canonical player records.
// Rows arrive from an external source (salary CSV, slate API); the loader is
// tolerant of position-string formats and rejects a row only when the name
// is missing or the salary is not positive.
package loader

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/michaelkomolafe/dfs-optimizer/internal/models"
	"github.com/michaelkomolafe/dfs-optimizer/pkg/logger"
)

// Row is one raw player record from the external source.
type Row struct {
	Name           string  `json:"name"`
	PositionString string  `json:"position"`
	Team           string  `json:"team"`
	Opponent       string  `json:"opponent,omitempty"`
	Salary         int     `json:"salary"`
	BaseProjection float64 `json:"base_projection"`
	BattingOrder   int     `json:"batting_order,omitempty"`
}

// DataLoadError is returned when no valid rows survive loading. Individual
// bad rows are recoverable and reported as warnings instead.
type DataLoadError struct {
	Rows    int
	Skipped int
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("no valid player rows: %d of %d rows rejected", e.Skipped, e.Rows)
}

// positionSynonyms maps the position spellings seen in the wild onto
// canonical category codes.
var positionSynonyms = map[string]models.Position{
	"P": models.PositionPitcher, "SP": models.PositionPitcher, "RP": models.PositionPitcher,
	"PITCHER": models.PositionPitcher,
	"C":       models.PositionCatcher, "CATCHER": models.PositionCatcher,
	"1B": models.PositionFirstBase, "FIRST": models.PositionFirstBase,
	"FIRSTBASE": models.PositionFirstBase, "1ST": models.PositionFirstBase,
	"2B": models.PositionSecondBase, "SECOND": models.PositionSecondBase,
	"SECONDBASE": models.PositionSecondBase, "2ND": models.PositionSecondBase,
	"3B": models.PositionThirdBase, "THIRD": models.PositionThirdBase,
	"THIRDBASE": models.PositionThirdBase, "3RD": models.PositionThirdBase,
	"SS": models.PositionShortstop, "SHORTSTOP": models.PositionShortstop,
	"SHORT": models.PositionShortstop,
	"OF":    models.PositionOutfield, "OUTFIELD": models.PositionOutfield,
	"OUTFIELDER": models.PositionOutfield,
	"LF":         models.PositionOutfield, "CF": models.PositionOutfield, "RF": models.PositionOutfield,
	"LEFT": models.PositionOutfield, "CENTER": models.PositionOutfield, "RIGHT": models.PositionOutfield,
	"UTIL": models.PositionUtility, "DH": models.PositionUtility, "UTILITY": models.PositionUtility,
}

var positionDelimiters = []string{"/", ",", "-", "|", "+", " "}

// ParsePositions parses a position string into canonical categories. It
// supports /, comma, dash, pipe, plus, and whitespace delimiters; unknown
// tokens fall back to the generic flex category rather than dropping the
// row, so the result is always non-empty.
func ParsePositions(positionStr string) []models.Position {
	positionStr = strings.ToUpper(strings.TrimSpace(positionStr))
	if positionStr == "" {
		return []models.Position{models.PositionUtility}
	}

	tokens := []string{positionStr}
	for _, delim := range positionDelimiters {
		if strings.Contains(positionStr, delim) {
			tokens = strings.Split(positionStr, delim)
			break
		}
	}

	var positions []models.Position
	seen := make(map[models.Position]bool)
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		pos, ok := positionSynonyms[tok]
		if !ok {
			pos = models.PositionUtility
		}
		if !seen[pos] {
			seen[pos] = true
			positions = append(positions, pos)
		}
	}

	if len(positions) == 0 {
		return []models.Position{models.PositionUtility}
	}
	return positions
}

// Load converts source rows into player records. Bad rows are skipped and
// reported in the warnings slice; the error is non-nil only when zero valid
// rows remain.
func Load(rows []Row) ([]*models.Player, []string, error) {
	log := logger.GetLogger()

	var players []*models.Player
	var warnings []string

	for i, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			warnings = append(warnings, fmt.Sprintf("row %d: missing player name, skipped", i+1))
			continue
		}
		if row.Salary <= 0 {
			warnings = append(warnings, fmt.Sprintf("row %d (%s): non-positive salary %d, skipped", i+1, name, row.Salary))
			continue
		}

		projection := row.BaseProjection
		if projection < 0 {
			warnings = append(warnings, fmt.Sprintf("row %d (%s): negative projection clamped to 0", i+1, name))
			projection = 0
		}

		player := models.NewPlayer(name, row.Team, ParsePositions(row.PositionString), row.Salary, projection)
		player.Opponent = strings.ToUpper(strings.TrimSpace(row.Opponent))
		player.BattingOrder = row.BattingOrder
		players = append(players, player)
	}

	if len(players) == 0 {
		return nil, warnings, &DataLoadError{Rows: len(rows), Skipped: len(rows)}
	}

	log.WithFields(logrus.Fields{
		"rows":    len(rows),
		"loaded":  len(players),
		"skipped": len(rows) - len(players),
	}).Info("Player pool loaded")

	return players, warnings, nil
}
