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

type statcastEntry struct {
	KRate       float64 `json:"k_rate,omitempty"`
	WHIP        float64 `json:"whip,omitempty"`
	BarrelRate  float64 `json:"barrel_rate,omitempty"`
	HardHitRate float64 `json:"hard_hit_rate,omitempty"`
}

type statcastFeed struct {
	Players map[string]statcastEntry `json:"players"`
}

// StatcastProvider supplies advanced performance metrics keyed by player
// name. Entries with no usable metric are treated as absent.
type StatcastProvider struct {
	feedURL string
	client  *feedClient
	cache   *FactCache

	mu   sync.Mutex
	feed *statcastFeed
}

func NewStatcastProvider(feedURL string, client *feedClient, cache *FactCache) *StatcastProvider {
	return &StatcastProvider{
		feedURL: feedURL,
		client:  client,
		cache:   cache,
	}
}

func NewStatcastProviderHTTP(feedURL string, requestsPerSecond int, maxFailures uint32, cache *FactCache) *StatcastProvider {
	return NewStatcastProvider(feedURL, newFeedClient("statcast", requestsPerSecond, maxFailures, 10*time.Second), cache)
}

func (s *StatcastProvider) Name() string { return "statcast" }

func (s *StatcastProvider) GetFacts(ctx context.Context, p *models.Player) (Facts, error) {
	feed, err := s.loadFeed(ctx)
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
	if entry.KRate <= 0 && entry.WHIP <= 0 && entry.BarrelRate <= 0 && entry.HardHitRate <= 0 {
		return nil, nil
	}

	return statcastFacts{
		KRate:       entry.KRate,
		WHIP:        entry.WHIP,
		BarrelRate:  entry.BarrelRate,
		HardHitRate: entry.HardHitRate,
	}, nil
}

func (s *StatcastProvider) loadFeed(ctx context.Context) (*statcastFeed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.feed != nil {
		return s.feed, nil
	}
	if s.feedURL == "" {
		return nil, nil
	}

	var feed statcastFeed
	if s.cache != nil {
		if err := s.cache.Get(ctx, FeedCacheKey(s.Name()), &feed); err == nil {
			s.feed = &feed
			return s.feed, nil
		}
	}

	body, err := s.client.get(ctx, s.feedURL)
	if err != nil {
		return nil, fmt.Errorf("statcast feed fetch: %w", err)
	}
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("statcast feed decode: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, FeedCacheKey(s.Name()), &feed)
	}

	s.feed = &feed
	return s.feed, nil
}

// feedNameKey normalizes a player name into the feed's lookup key.
func feedNameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
