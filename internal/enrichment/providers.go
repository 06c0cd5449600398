// Package enrichment fetches optional per-player fact bundles from external
// providers and attaches them to the run's player records. Every provider is
// independently absent-tolerant: a timeout or miss means "no facts for this
// player", never a fatal error or a synthesized default.
package enrichment

import (
	"context"

	"github.com/michaelkomolafe/dfs-optimizer/internal/models"
)

// Facts is one provider's bundle for one player. A bundle is attached whole
// or not at all.
type Facts interface {
	Attach(p *models.Player)
}

// Provider supplies facts keyed by player identity. GetFacts returns nil
// when the provider has nothing for the player; errors are treated by the
// fetcher as absence, not failure.
type Provider interface {
	Name() string
	GetFacts(ctx context.Context, p *models.Player) (Facts, error)
}

type recentFormFacts models.RecentFormFacts

func (f recentFormFacts) Attach(p *models.Player) {
	rf := models.RecentFormFacts(f)
	p.Facts.RecentForm = &rf
}

type vegasFacts models.VegasFacts

func (f vegasFacts) Attach(p *models.Player) {
	v := models.VegasFacts(f)
	p.Facts.Vegas = &v
}

type statcastFacts models.StatcastFacts

func (f statcastFacts) Attach(p *models.Player) {
	s := models.StatcastFacts(f)
	p.Facts.Statcast = &s
}

type parkFacts models.ParkFacts

func (f parkFacts) Attach(p *models.Player) {
	pk := models.ParkFacts(f)
	p.Facts.Park = &pk
}
