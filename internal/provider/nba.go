package provider

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/oddsboard/internal/metrics"
	"github.com/yourusername/oddsboard/internal/models"
)

const nbaSourceName = "nba_cdn"

// NBAClient implements ScheduleSource (and LiveSource) against the NBA's
// static CDN feeds. The schedule feed is a single season-wide document,
// filtered client-side by date.
type NBAClient struct {
	httpClient  *HTTPClient
	scheduleURL string
	liveURL     string
	logger      *logrus.Logger
}

type nbaTeam struct {
	TeamName    string `json:"teamName"`
	TeamTricode string `json:"teamTricode"`
	TeamCity    string `json:"teamCity"`
}

func (t nbaTeam) displayName() string {
	if t.TeamCity != "" && t.TeamName != "" {
		return t.TeamCity + " " + t.TeamName
	}
	if t.TeamName != "" {
		return t.TeamName
	}
	return t.TeamTricode
}

type nbaSchedule struct {
	LeagueSchedule struct {
		GameDates []struct {
			GameDate string `json:"gameDate"`
			Games    []struct {
				GameID          string  `json:"gameId"`
				GameDateTimeUTC string  `json:"gameDateTimeUTC"`
				ArenaName       string  `json:"arenaName"`
				HomeTeam        nbaTeam `json:"homeTeam"`
				AwayTeam        nbaTeam `json:"awayTeam"`
			} `json:"games"`
		} `json:"gameDates"`
	} `json:"leagueSchedule"`
}

type nbaScoreboard struct {
	Scoreboard struct {
		Games []struct {
			GameID      string  `json:"gameId"`
			GameStatus  int     `json:"gameStatus"` // 2 = in progress
			GameTimeUTC string  `json:"gameTimeUTC"`
			ArenaName   string  `json:"arenaName"`
			HomeTeam    nbaTeam `json:"homeTeam"`
			AwayTeam    nbaTeam `json:"awayTeam"`
		} `json:"games"`
	} `json:"scoreboard"`
}

// NewNBAClient creates a new NBA CDN client
func NewNBAClient(httpClient *HTTPClient, logger *logrus.Logger) *NBAClient {
	return &NBAClient{
		httpClient:  httpClient,
		scheduleURL: "https://cdn.nba.com/static/json/staticData/scheduleLeagueV2.json",
		liveURL:     "https://cdn.nba.com/static/json/liveData/scoreboard/todaysScoreboard_00.json",
		logger:      logger,
	}
}

// League returns the league this source covers
func (c *NBAClient) League() models.League { return models.LeagueNBA }

// Name returns the source name for logs and metrics
func (c *NBAClient) Name() string { return nbaSourceName }

// FetchByDate retrieves the games scheduled on the given calendar date
func (c *NBAClient) FetchByDate(ctx context.Context, date time.Time) ([]models.ScheduleEntry, error) {
	headers := map[string]string{"x-nba-stats-origin": "stats"}

	start := time.Now()
	var sched nbaSchedule
	err := c.httpClient.GetJSON(ctx, c.scheduleURL, headers, &sched)
	metrics.ProviderFetchDuration.WithLabelValues(nbaSourceName).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RecordProviderRequest(nbaSourceName, "error")
		return nil, NewError(nbaSourceName, ErrCodeNetworkError, "failed to fetch schedule", err)
	}
	metrics.RecordProviderRequest(nbaSourceName, "ok")

	target := date.Format("2006-01-02")
	var entries []models.ScheduleEntry
	for _, day := range sched.LeagueSchedule.GameDates {
		for _, g := range day.Games {
			startUTC, err := time.Parse(time.RFC3339, g.GameDateTimeUTC)
			if err != nil {
				continue
			}
			if startUTC.UTC().Format("2006-01-02") != target {
				continue
			}
			home := g.HomeTeam.displayName()
			away := g.AwayTeam.displayName()
			if home == "" || away == "" {
				continue
			}
			entries = append(entries, models.ScheduleEntry{
				SourceID: g.GameID,
				League:   models.LeagueNBA,
				StartUTC: startUTC.UTC(),
				Home:     home,
				Away:     away,
				Venue:    g.ArenaName,
			})
		}
	}
	return entries, nil
}

// FetchLive retrieves today's in-progress games
func (c *NBAClient) FetchLive(ctx context.Context) ([]models.ScheduleEntry, error) {
	start := time.Now()
	var board nbaScoreboard
	err := c.httpClient.GetJSON(ctx, c.liveURL, nil, &board)
	metrics.ProviderFetchDuration.WithLabelValues(nbaSourceName).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RecordProviderRequest(nbaSourceName, "error")
		return nil, NewError(nbaSourceName, ErrCodeNetworkError, "failed to fetch live scoreboard", err)
	}
	metrics.RecordProviderRequest(nbaSourceName, "ok")

	var entries []models.ScheduleEntry
	for _, g := range board.Scoreboard.Games {
		if g.GameStatus != 2 {
			continue
		}
		startUTC, err := time.Parse(time.RFC3339, g.GameTimeUTC)
		if err != nil {
			startUTC = time.Now().UTC()
		}
		entries = append(entries, models.ScheduleEntry{
			SourceID: g.GameID,
			League:   models.LeagueNBA,
			StartUTC: startUTC.UTC(),
			Home:     g.HomeTeam.displayName(),
			Away:     g.AwayTeam.displayName(),
			Venue:    g.ArenaName,
		})
	}
	return entries, nil
}
