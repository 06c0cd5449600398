package enrichment

import (
	"context"
	"strings"

	"github.com/michaelkomolafe/dfs-optimizer/internal/models"
)

// defaultParkFactors maps home-team codes to venue scoring factors.
var defaultParkFactors = map[string]float64{
	// Extreme hitter-friendly
	"COL": 1.20,
	// Hitter-friendly
	"CIN": 1.12, "TEX": 1.10, "PHI": 1.08, "MIL": 1.06,
	"BAL": 1.05, "HOU": 1.04, "TOR": 1.03, "BOS": 1.03,
	// Slight hitter-friendly
	"NYY": 1.02, "CHC": 1.01,
	// Neutral
	"ARI": 1.00, "ATL": 1.00, "MIN": 0.99,
	// Slight pitcher-friendly
	"WSH": 0.98, "NYM": 0.97, "LAA": 0.96, "STL": 0.95, "LAD": 0.98,
	"CHW": 0.96, "CWS": 0.96,
	// Pitcher-friendly
	"CLE": 0.94, "TB": 0.93, "KC": 0.92, "DET": 0.91, "SEA": 0.90,
	// Extreme pitcher-friendly
	"OAK": 0.89, "SF": 0.88, "SD": 0.87, "MIA": 0.86, "PIT": 0.85,
}

// ParkFactorProvider supplies venue adjustment facts from a static factor
// table, optionally overridden per deployment.
type ParkFactorProvider struct {
	factors map[string]float64
}

func NewParkFactorProvider(overrides map[string]float64) *ParkFactorProvider {
	factors := make(map[string]float64, len(defaultParkFactors)+len(overrides))
	for team, f := range defaultParkFactors {
		factors[team] = f
	}
	for team, f := range overrides {
		factors[strings.ToUpper(team)] = f
	}
	return &ParkFactorProvider{factors: factors}
}

func (pp *ParkFactorProvider) Name() string { return "park" }

func (pp *ParkFactorProvider) GetFacts(_ context.Context, p *models.Player) (Facts, error) {
	factor, ok := pp.factors[strings.ToUpper(p.Team)]
	if !ok {
		return nil, nil
	}
	return parkFacts{Factor: factor}, nil
}
