package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/michaelkomolafe/dfs-optimizer/internal/models"
)

// teamLine is one team's market entry in the odds feed.
type teamLine struct {
	ImpliedTotal float64 `json:"implied_total"`
	OverUnder    float64 `json:"over_under"`
}

type oddsFeed struct {
	Teams map[string]teamLine `json:"teams"`
}

// VegasProvider supplies market-implied scoring environment facts keyed by
// team. The feed snapshot is fetched once and cached; the snapshot is shared
// across players of a run.
type VegasProvider struct {
	feedURL string
	client  *feedClient
	cache   *FactCache

	mu   sync.Mutex
	feed *oddsFeed
}

func NewVegasProvider(feedURL string, client *feedClient, cache *FactCache) *VegasProvider {
	return &VegasProvider{
		feedURL: feedURL,
		client:  client,
		cache:   cache,
	}
}

// NewVegasProviderHTTP builds a provider with its own feed client.
func NewVegasProviderHTTP(feedURL string, requestsPerSecond int, maxFailures uint32, cache *FactCache) *VegasProvider {
	return NewVegasProvider(feedURL, newFeedClient("vegas", requestsPerSecond, maxFailures, 10*time.Second), cache)
}

func (v *VegasProvider) Name() string { return "vegas" }

func (v *VegasProvider) GetFacts(ctx context.Context, p *models.Player) (Facts, error) {
	feed, err := v.loadFeed(ctx)
	if err != nil {
		return nil, err
	}
	if feed == nil {
		return nil, nil
	}

	line, ok := feed.Teams[strings.ToUpper(p.Team)]
	if !ok || line.ImpliedTotal <= 0 {
		return nil, nil
	}

	facts := vegasFacts{
		ImpliedTotal: line.ImpliedTotal,
		OverUnder:    line.OverUnder,
	}

	// The opposing team's implied total matters for pitchers.
	if opp, ok := feed.Teams[strings.ToUpper(p.Opponent)]; ok && opp.ImpliedTotal > 0 {
		facts.OpponentTotal = opp.ImpliedTotal
	} else if line.OverUnder > 0 {
		facts.OpponentTotal = line.OverUnder - line.ImpliedTotal
	}

	return facts, nil
}

func (v *VegasProvider) loadFeed(ctx context.Context) (*oddsFeed, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.feed != nil {
		return v.feed, nil
	}
	if v.feedURL == "" {
		return nil, nil
	}

	var feed oddsFeed
	if v.cache != nil {
		if err := v.cache.Get(ctx, FeedCacheKey(v.Name()), &feed); err == nil {
			v.feed = &feed
			return v.feed, nil
		}
	}

	body, err := v.client.get(ctx, v.feedURL)
	if err != nil {
		return nil, fmt.Errorf("odds feed fetch: %w", err)
	}
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("odds feed decode: %w", err)
	}

	if v.cache != nil {
		// Best effort; a cache write failure never blocks enrichment.
		_ = v.cache.Set(ctx, FeedCacheKey(v.Name()), &feed)
	}

	v.feed = &feed
	return v.feed, nil
}
