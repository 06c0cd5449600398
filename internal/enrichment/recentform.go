package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/michaelkomolafe/dfs-optimizer/internal/models"
)

type recentFormEntry struct {
	FormScore    float64   `json:"form_score,omitempty"`
	Last5Avg     float64   `json:"last5_avg,omitempty"`
	RecentScores []float64 `json:"recent_scores,omitempty"`
}

type recentFormFeed struct {
	Players map[string]recentFormEntry `json:"players"`
}

// RecentFormProvider supplies recent-performance trend facts keyed by
// player name.
type RecentFormProvider struct {
	feedURL string
	client  *feedClient
	cache   *FactCache

	mu   sync.Mutex
	feed *recentFormFeed
}

func NewRecentFormProvider(feedURL string, client *feedClient, cache *FactCache) *RecentFormProvider {
	return &RecentFormProvider{
		feedURL: feedURL,
		client:  client,
		cache:   cache,
	}
}

func NewRecentFormProviderHTTP(feedURL string, requestsPerSecond int, maxFailures uint32, cache *FactCache) *RecentFormProvider {
	return NewRecentFormProvider(feedURL, newFeedClient("recent_form", requestsPerSecond, maxFailures, 10*time.Second), cache)
}

func (r *RecentFormProvider) Name() string { return "recent_form" }

func (r *RecentFormProvider) GetFacts(ctx context.Context, p *models.Player) (Facts, error) {
	feed, err := r.loadFeed(ctx)
	if err != nil {
		return nil, err
	}
	if feed == nil {
		return nil, nil
	}

	entry, ok := feed.Players[feedNameKey(p.Name)]
	if !ok {
		return nil, nil
	}
	if entry.FormScore <= 0 && entry.Last5Avg <= 0 && len(entry.RecentScores) < 3 {
		return nil, nil
	}

	return recentFormFacts{
		FormScore:    entry.FormScore,
		Last5Avg:     entry.Last5Avg,
		RecentScores: entry.RecentScores,
	}, nil
}

func (r *RecentFormProvider) loadFeed(ctx context.Context) (*recentFormFeed, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.feed != nil {
		return r.feed, nil
	}
	if r.feedURL == "" {
		return nil, nil
	}

	var feed recentFormFeed
	if r.cache != nil {
		if err := r.cache.Get(ctx, FeedCacheKey(r.Name()), &feed); err == nil {
			r.feed = &feed
			return r.feed, nil
		}
	}

	body, err := r.client.get(ctx, r.feedURL)
	if err != nil {
		return nil, fmt.Errorf("recent form feed fetch: %w", err)
	}
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("recent form feed decode: %w", err)
	}

	if r.cache != nil {
		_ = r.cache.Set(ctx, FeedCacheKey(r.Name()), &feed)
	}

	r.feed = &feed
	return r.feed, nil
}
