package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/oddsboard/internal/metrics"
	"github.com/yourusername/oddsboard/internal/models"
)

const mlbSourceName = "mlb_statsapi"

// MLBClient implements ScheduleSource against the official MLB Stats API
type MLBClient struct {
	httpClient *HTTPClient
	baseURL    string
	logger     *logrus.Logger
}

type mlbSchedule struct {
	Dates []struct {
		Games []struct {
			GamePk   int64  `json:"gamePk"`
			GameDate string `json:"gameDate"` // ISO UTC
			Teams    struct {
				Home struct {
					Team struct {
						Name string `json:"name"`
					} `json:"team"`
				} `json:"home"`
				Away struct {
					Team struct {
						Name string `json:"name"`
					} `json:"team"`
				} `json:"away"`
			} `json:"teams"`
			Venue struct {
				Name string `json:"name"`
			} `json:"venue"`
		} `json:"games"`
	} `json:"dates"`
}

// NewMLBClient creates a new MLB Stats API client
func NewMLBClient(httpClient *HTTPClient, logger *logrus.Logger) *MLBClient {
	return &MLBClient{
		httpClient: httpClient,
		baseURL:    "https://statsapi.mlb.com/api/v1",
		logger:     logger,
	}
}

// League returns the league this source covers
func (c *MLBClient) League() models.League { return models.LeagueMLB }

// Name returns the source name for logs and metrics
func (c *MLBClient) Name() string { return mlbSourceName }

// FetchByDate retrieves the games scheduled on the given calendar date
func (c *MLBClient) FetchByDate(ctx context.Context, date time.Time) ([]models.ScheduleEntry, error) {
	endpoint := fmt.Sprintf("%s/schedule?sportId=1&date=%s", c.baseURL, date.Format("2006-01-02"))

	start := time.Now()
	var sched mlbSchedule
	err := c.httpClient.GetJSON(ctx, endpoint, nil, &sched)
	metrics.ProviderFetchDuration.WithLabelValues(mlbSourceName).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RecordProviderRequest(mlbSourceName, "error")
		return nil, NewError(mlbSourceName, ErrCodeNetworkError, "failed to fetch schedule", err)
	}
	metrics.RecordProviderRequest(mlbSourceName, "ok")

	var entries []models.ScheduleEntry
	for _, d := range sched.Dates {
		for _, g := range d.Games {
			startUTC, err := time.Parse(time.RFC3339, g.GameDate)
			if err != nil {
				c.logger.WithField("game_date", g.GameDate).Warn("skipping game with unparseable start time")
				continue
			}
			if g.Teams.Home.Team.Name == "" || g.Teams.Away.Team.Name == "" {
				continue
			}
			entries = append(entries, models.ScheduleEntry{
				SourceID: fmt.Sprintf("%d", g.GamePk),
				League:   models.LeagueMLB,
				StartUTC: startUTC.UTC(),
				Home:     g.Teams.Home.Team.Name,
				Away:     g.Teams.Away.Team.Name,
				Venue:    g.Venue.Name,
			})
		}
	}
	return entries, nil
}
