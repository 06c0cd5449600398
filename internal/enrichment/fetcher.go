package enrichment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/michaelkomolafe/dfs-optimizer/internal/models"
	"github.com/michaelkomolafe/dfs-optimizer/pkg/logger"
)

// EnrichmentTimeoutError reports a provider that did not resolve within the
// per-provider window. Always soft: the run continues with facts absent.
type EnrichmentTimeoutError struct {
	Provider string
	Timeout  time.Duration
}

func (e *EnrichmentTimeoutError) Error() string {
	return fmt.Sprintf("provider %s timed out after %s: facts treated as absent", e.Provider, e.Timeout)
}

// Fetcher fans out enrichment across providers and attaches whatever facts
// resolve before the per-provider timeout. A provider that times out or
// errors contributes nothing for the affected players; the run proceeds
// with those facts absent.
type Fetcher struct {
	providers []Provider
	timeout   time.Duration
	log       *logrus.Logger
}

func NewFetcher(providers []Provider, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{
		providers: providers,
		timeout:   timeout,
		log:       logger.GetLogger(),
	}
}

// EnrichAll runs every provider over the pool, one goroutine per provider,
// and blocks until all resolve or time out. Returned warnings describe
// providers whose facts were treated as absent.
func (f *Fetcher) EnrichAll(ctx context.Context, players []*models.Player) []string {
	var (
		mu       sync.Mutex
		warnings []string
	)

	g, ctx := errgroup.WithContext(ctx)

	for _, provider := range f.providers {
		provider := provider
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(ctx, f.timeout)
			defer cancel()

			attached, err := f.enrichWithProvider(pctx, provider, players)

			plog := logger.WithProvider(provider.Name())
			switch {
			case errors.Is(err, context.DeadlineExceeded):
				terr := &EnrichmentTimeoutError{Provider: provider.Name(), Timeout: f.timeout}
				plog.WithError(terr).Warn("Enrichment provider timed out, treating facts as absent")
				mu.Lock()
				warnings = append(warnings, terr.Error())
				mu.Unlock()
			case err != nil:
				// Soft failure: facts absent, never fatal.
				plog.WithError(err).Warn("Enrichment provider failed, treating facts as absent")
				mu.Lock()
				warnings = append(warnings, fmt.Sprintf("provider %s unavailable: facts treated as absent", provider.Name()))
				mu.Unlock()
			default:
				plog.WithField("players_enriched", attached).Debug("Enrichment provider finished")
			}
			return nil
		})
	}

	// Providers never return errors through the group; waiting collects them all.
	_ = g.Wait()

	return warnings
}

func (f *Fetcher) enrichWithProvider(ctx context.Context, provider Provider, players []*models.Player) (int, error) {
	attached := 0
	for _, p := range players {
		if err := ctx.Err(); err != nil {
			return attached, err
		}

		facts, err := provider.GetFacts(ctx, p)
		if err != nil {
			return attached, err
		}
		if facts == nil {
			continue
		}
		facts.Attach(p)
		attached++
	}
	return attached, nil
}
