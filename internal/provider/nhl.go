package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/oddsboard/internal/metrics"
	"github.com/yourusername/oddsboard/internal/models"
)

const nhlSourceName = "nhl_api"

// NHLClient implements ScheduleSource against the official NHL API
type NHLClient struct {
	httpClient *HTTPClient
	baseURL    string
	logger     *logrus.Logger
}

type nhlName struct {
	Default string `json:"default"`
}

type nhlSchedule struct {
	GameWeek []struct {
		Games []struct {
			ID           int64  `json:"id"`
			StartTimeUTC string `json:"startTimeUTC"`
			HomeTeam     struct {
				Name   *nhlName `json:"name"`
				Abbrev string   `json:"abbrev"`
			} `json:"homeTeam"`
			AwayTeam struct {
				Name   *nhlName `json:"name"`
				Abbrev string   `json:"abbrev"`
			} `json:"awayTeam"`
			Venue *nhlName `json:"venue"`
		} `json:"games"`
	} `json:"gameWeek"`
}

// NewNHLClient creates a new NHL API client
func NewNHLClient(httpClient *HTTPClient, logger *logrus.Logger) *NHLClient {
	return &NHLClient{
		httpClient: httpClient,
		baseURL:    "https://api-web.nhle.com/v1",
		logger:     logger,
	}
}

// League returns the league this source covers
func (c *NHLClient) League() models.League { return models.LeagueNHL }

// Name returns the source name for logs and metrics
func (c *NHLClient) Name() string { return nhlSourceName }

// FetchByDate retrieves the games scheduled on the given calendar date.
// The endpoint returns the surrounding week, so results are filtered back
// down to the requested date.
func (c *NHLClient) FetchByDate(ctx context.Context, date time.Time) ([]models.ScheduleEntry, error) {
	day := date.Format("2006-01-02")
	endpoint := fmt.Sprintf("%s/schedule/%s", c.baseURL, day)

	start := time.Now()
	var sched nhlSchedule
	err := c.httpClient.GetJSON(ctx, endpoint, nil, &sched)
	metrics.ProviderFetchDuration.WithLabelValues(nhlSourceName).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RecordProviderRequest(nhlSourceName, "error")
		return nil, NewError(nhlSourceName, ErrCodeNetworkError, "failed to fetch schedule", err)
	}
	metrics.RecordProviderRequest(nhlSourceName, "ok")

	var entries []models.ScheduleEntry
	for _, week := range sched.GameWeek {
		for _, g := range week.Games {
			startUTC, err := time.Parse(time.RFC3339, g.StartTimeUTC)
			if err != nil {
				c.logger.WithField("start_time", g.StartTimeUTC).Warn("skipping game with unparseable start time")
				continue
			}
			if startUTC.UTC().Format("2006-01-02") != day {
				continue
			}
			home := teamName(g.HomeTeam.Name, g.HomeTeam.Abbrev)
			away := teamName(g.AwayTeam.Name, g.AwayTeam.Abbrev)
			if home == "" || away == "" {
				continue
			}
			entry := models.ScheduleEntry{
				SourceID: fmt.Sprintf("%d", g.ID),
				League:   models.LeagueNHL,
				StartUTC: startUTC.UTC(),
				Home:     home,
				Away:     away,
			}
			if g.Venue != nil {
				entry.Venue = g.Venue.Default
			}
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func teamName(name *nhlName, abbrev string) string {
	if name != nil && name.Default != "" {
		return name.Default
	}
	return abbrev
}
