package enrichment

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/michaelkomolafe/dfs-optimizer/pkg/logger"
)

// feedClient is a rate-limited, circuit-broken HTTP client shared by the
// feed-backed providers. External feeds are flaky; the breaker keeps a dying
// feed from stalling every optimization run behind timeouts.
type feedClient struct {
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	log     *logrus.Logger
}

func newFeedClient(name string, requestsPerSecond int, maxFailures uint32, timeout time.Duration) *feedClient {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 10
	}
	if maxFailures == 0 {
		maxFailures = 5
	}

	log := logger.GetLogger()

	settings := gobreaker.Settings{
		Name:    name,
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Feed circuit breaker state changed")
		},
	}

	return &feedClient{
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		breaker: gobreaker.NewCircuitBreaker(settings),
		log:     log,
	}
}

// get fetches url and returns the raw body, respecting the rate limit
// and the breaker.
func (c *feedClient) get(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	body, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return nil, err
	}

	return body.([]byte), nil
}
