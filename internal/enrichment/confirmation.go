package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/michaelkomolafe/dfs-optimizer/internal/matching"
	"github.com/michaelkomolafe/dfs-optimizer/internal/models"
	"github.com/michaelkomolafe/dfs-optimizer/pkg/logger"
)

// Confirmations holds starting-roster facts for the current slate, keyed by
// team code.
type Confirmations struct {
	// Lineups maps team code to confirmed starter names.
	Lineups map[string][]string
	// Pitchers maps team code to the probable starting pitcher name.
	Pitchers map[string]string
}

func (c *Confirmations) empty() bool {
	return c == nil || (len(c.Lineups) == 0 && len(c.Pitchers) == 0)
}

// ConfirmationSource produces slate confirmations. Implementations own
// their transport, caching, and rate limiting.
type ConfirmationSource interface {
	FetchConfirmations(ctx context.Context) (*Confirmations, error)
}

// ConfirmationService applies confirmation facts to a player pool, with
// fuzzy (name, team) matching to tolerate source naming differences.
type ConfirmationService struct {
	source  ConfirmationSource
	matcher *matching.Matcher
	log     *logrus.Logger

	mu     sync.RWMutex
	latest *Confirmations
}

func NewConfirmationService(source ConfirmationSource) *ConfirmationService {
	return &ConfirmationService{
		source:  source,
		matcher: matching.NewMatcher(),
		log:     logger.GetLogger(),
	}
}

// Refresh re-fetches confirmations from the source. Safe to call from a
// cron schedule; failures keep the previous snapshot.
func (s *ConfirmationService) Refresh(ctx context.Context) error {
	if s.source == nil {
		return nil
	}
	confirmations, err := s.source.FetchConfirmations(ctx)
	if err != nil {
		return fmt.Errorf("confirmation refresh: %w", err)
	}

	s.mu.Lock()
	s.latest = confirmations
	s.mu.Unlock()

	total := 0
	for _, lineup := range confirmations.Lineups {
		total += len(lineup)
	}
	s.log.WithFields(logrus.Fields{
		"lineup_spots": total,
		"pitchers":     len(confirmations.Pitchers),
	}).Info("Confirmations refreshed")

	return nil
}

// Apply marks pool players found in the latest confirmation snapshot as
// confirmed. A missing snapshot is not an error; no player is confirmed.
func (s *ConfirmationService) Apply(ctx context.Context, players []*models.Player) (int, []string) {
	s.mu.RLock()
	snapshot := s.latest
	s.mu.RUnlock()

	if snapshot.empty() {
		if err := s.Refresh(ctx); err != nil {
			return 0, []string{fmt.Sprintf("confirmation source unavailable: %v", err)}
		}
		s.mu.RLock()
		snapshot = s.latest
		s.mu.RUnlock()
		if snapshot.empty() {
			return 0, nil
		}
	}

	confirmed := 0
	for _, p := range players {
		if s.isConfirmed(p, snapshot) {
			p.IsConfirmed = true
			confirmed++
		}
	}

	s.log.WithField("confirmed", confirmed).Info("Confirmation flags applied")
	return confirmed, nil
}

func (s *ConfirmationService) isConfirmed(p *models.Player, snapshot *Confirmations) bool {
	team := strings.ToUpper(p.Team)

	if pitcher, ok := snapshot.Pitchers[team]; ok && s.matcher.Match(p.Name, pitcher) {
		return true
	}
	for _, starter := range snapshot.Lineups[team] {
		if s.matcher.Match(p.Name, starter) {
			return true
		}
	}
	return false
}

// scheduleFeed mirrors the relevant slice of an MLB schedule feed hydrated
// with lineups and probable pitchers.
type scheduleFeed struct {
	Dates []struct {
		Games []struct {
			Teams struct {
				Home scheduleTeam `json:"home"`
				Away scheduleTeam `json:"away"`
			} `json:"teams"`
			Lineups struct {
				HomePlayers []schedulePlayer `json:"homePlayers"`
				AwayPlayers []schedulePlayer `json:"awayPlayers"`
			} `json:"lineups"`
		} `json:"games"`
	} `json:"dates"`
}

type scheduleTeam struct {
	Team struct {
		Abbreviation string `json:"abbreviation"`
		Name         string `json:"name"`
	} `json:"team"`
	ProbablePitcher *schedulePlayer `json:"probablePitcher,omitempty"`
}

type schedulePlayer struct {
	FullName string `json:"fullName"`
}

// ScheduleConfirmationSource fetches confirmations from a schedule feed.
type ScheduleConfirmationSource struct {
	feedURL string
	client  *feedClient
	cache   *FactCache
}

func NewScheduleConfirmationSource(feedURL string, requestsPerSecond int, maxFailures uint32, cache *FactCache) *ScheduleConfirmationSource {
	return &ScheduleConfirmationSource{
		feedURL: feedURL,
		client:  newFeedClient("confirmations", requestsPerSecond, maxFailures, 10*time.Second),
		cache:   cache,
	}
}

func (s *ScheduleConfirmationSource) FetchConfirmations(ctx context.Context) (*Confirmations, error) {
	url := fmt.Sprintf("%s?sportId=1&date=%s&hydrate=lineups,probablePitcher",
		s.feedURL, time.Now().Format("2006-01-02"))

	body, err := s.client.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var feed scheduleFeed
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("schedule feed decode: %w", err)
	}

	confirmations := &Confirmations{
		Lineups:  make(map[string][]string),
		Pitchers: make(map[string]string),
	}

	for _, date := range feed.Dates {
		for _, game := range date.Games {
			homeTeam := teamCode(game.Teams.Home)
			awayTeam := teamCode(game.Teams.Away)

			for _, player := range game.Lineups.HomePlayers {
				confirmations.Lineups[homeTeam] = append(confirmations.Lineups[homeTeam], player.FullName)
			}
			for _, player := range game.Lineups.AwayPlayers {
				confirmations.Lineups[awayTeam] = append(confirmations.Lineups[awayTeam], player.FullName)
			}

			if pp := game.Teams.Home.ProbablePitcher; pp != nil {
				confirmations.Pitchers[homeTeam] = pp.FullName
			}
			if pp := game.Teams.Away.ProbablePitcher; pp != nil {
				confirmations.Pitchers[awayTeam] = pp.FullName
			}
		}
	}

	return confirmations, nil
}

func teamCode(t scheduleTeam) string {
	if t.Team.Abbreviation != "" {
		return strings.ToUpper(t.Team.Abbreviation)
	}
	return strings.ToUpper(t.Team.Name)
}

// StaticConfirmationSource serves a fixed confirmation set; used when a
// slate's confirmations are supplied out of band and in tests.
type StaticConfirmationSource struct {
	Confirmations *Confirmations
}

func (s *StaticConfirmationSource) FetchConfirmations(_ context.Context) (*Confirmations, error) {
	if s.Confirmations == nil {
		return &Confirmations{
			Lineups:  map[string][]string{},
			Pitchers: map[string]string{},
		}, nil
	}
	return s.Confirmations, nil
}
