package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/oddsboard/internal/metrics"
	"github.com/yourusername/oddsboard/internal/models"
)

const espnSourceName = "espn"

// espnPaths maps leagues to ESPN's sport/league URL path segments
var espnPaths = map[models.League]string{
	models.LeagueMLB:  "baseball/mlb",
	models.LeagueNBA:  "basketball/nba",
	models.LeagueWNBA: "basketball/wnba",
	models.LeagueNHL:  "hockey/nhl",
	models.LeagueNFL:  "football/nfl",
	models.LeagueEPL:  "soccer/eng.1",
	models.LeagueMLS:  "soccer/usa.1",
}

// ESPNClient reads ESPN's public scoreboard API. It serves two roles:
// a schedule source for leagues without a usable official API, and the
// fallback odds feed used as the second consensus source.
type ESPNClient struct {
	httpClient *HTTPClient
	baseURL    string
	logger     *logrus.Logger
}

// espnScoreboard mirrors the scoreboard response, reduced to the fields
// we read. ESPN's shape is deeply nested and largely optional; coercion
// to the models shapes happens here so nothing downstream sees it.
type espnScoreboard struct {
	Events []struct {
		ID           string            `json:"id"`
		Date         string            `json:"date"`
		Competitions []espnCompetition `json:"competitions"`
	} `json:"events"`
}

type espnCompetition struct {
	Date        string `json:"date"`
	Venue       *struct {
		FullName string `json:"fullName"`
	} `json:"venue"`
	Competitors []struct {
		HomeAway string `json:"homeAway"`
		Team     struct {
			DisplayName string `json:"displayName"`
		} `json:"team"`
	} `json:"competitors"`
	Odds []espnOddsEntry `json:"odds"`
}

type espnOddsEntry struct {
	Provider *struct {
		Name        string `json:"name"`
		DisplayName string `json:"displayName"`
	} `json:"provider"`
	MoneylineHome *float64 `json:"moneylineHome"`
	MoneylineAway *float64 `json:"moneylineAway"`
	Spread        *float64 `json:"spread"` // home line; away is its negation
	OverUnder     *float64 `json:"overUnder"`
	OverOdds      *float64 `json:"overOdds"`
	UnderOdds     *float64 `json:"underOdds"`
	HomeTeamOdds  *struct {
		MoneyLine *float64 `json:"moneyLine"`
	} `json:"homeTeamOdds"`
	AwayTeamOdds *struct {
		MoneyLine *float64 `json:"moneyLine"`
	} `json:"awayTeamOdds"`
}

// NewESPNClient creates a new ESPN scoreboard client
func NewESPNClient(httpClient *HTTPClient, baseURL string, logger *logrus.Logger) *ESPNClient {
	if baseURL == "" {
		baseURL = "https://site.api.espn.com/apis/v2/sports"
	}
	return &ESPNClient{httpClient: httpClient, baseURL: baseURL, logger: logger}
}

// Name returns the source name for logs and metrics
func (c *ESPNClient) Name() string { return espnSourceName }

func (c *ESPNClient) fetchScoreboard(ctx context.Context, league models.League, date time.Time) (*espnScoreboard, error) {
	path, ok := espnPaths[league]
	if !ok {
		return nil, NewError(espnSourceName, ErrCodeInvalidData, fmt.Sprintf("unsupported league %s", league), nil)
	}
	endpoint := fmt.Sprintf("%s/%s/scoreboard?dates=%s", c.baseURL, path, date.UTC().Format("20060102"))

	start := time.Now()
	var board espnScoreboard
	err := c.httpClient.GetJSON(ctx, endpoint, nil, &board)
	metrics.ProviderFetchDuration.WithLabelValues(espnSourceName).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RecordProviderRequest(espnSourceName, "error")
		return nil, NewError(espnSourceName, ErrCodeNetworkError, "failed to fetch scoreboard", err)
	}
	metrics.RecordProviderRequest(espnSourceName, "ok")
	return &board, nil
}

// FetchOdds converts scoreboard odds entries into normalized odds rows.
// ESPN reports one line per provider rather than per-outcome listings, so
// each entry expands into synthetic h2h/spreads/totals markets.
func (c *ESPNClient) FetchOdds(ctx context.Context, league models.League, date time.Time) ([]models.OddsRow, error) {
	board, err := c.fetchScoreboard(ctx, league, date)
	if err != nil {
		return nil, err
	}

	var rows []models.OddsRow
	for _, ev := range board.Events {
		if len(ev.Competitions) == 0 {
			continue
		}
		comp := ev.Competitions[0]
		home, away := competitors(comp)
		if home == "" || away == "" {
			continue
		}
		start := parseESPNTime(comp.Date, ev.Date)
		if start.IsZero() {
			continue
		}

		row := models.OddsRow{Start: start, Home: home, Away: away}
		for _, entry := range comp.Odds {
			book := models.Book{Key: bookKeyFor(entry), Title: bookKeyFor(entry)}

			if entry.MoneylineHome != nil && entry.MoneylineAway != nil {
				book.Markets = append(book.Markets, models.Market{
					Key: models.MarketH2H,
					Outcomes: []models.Outcome{
						{Name: away, Price: roundPrice(*entry.MoneylineAway)},
						{Name: home, Price: roundPrice(*entry.MoneylineHome)},
					},
				})
			}
			if entry.Spread != nil {
				s := *entry.Spread
				awayLine := -s
				m := models.Market{Key: models.MarketSpreads}
				if entry.AwayTeamOdds != nil && entry.AwayTeamOdds.MoneyLine != nil {
					m.Outcomes = append(m.Outcomes, models.Outcome{Name: away, Price: roundPrice(*entry.AwayTeamOdds.MoneyLine), Point: &awayLine})
				}
				if entry.HomeTeamOdds != nil && entry.HomeTeamOdds.MoneyLine != nil {
					m.Outcomes = append(m.Outcomes, models.Outcome{Name: home, Price: roundPrice(*entry.HomeTeamOdds.MoneyLine), Point: &s})
				}
				if len(m.Outcomes) > 0 {
					book.Markets = append(book.Markets, m)
				}
			}
			if entry.OverUnder != nil {
				ou := *entry.OverUnder
				m := models.Market{Key: models.MarketTotals}
				if entry.OverOdds != nil {
					m.Outcomes = append(m.Outcomes, models.Outcome{Name: "Over", Price: roundPrice(*entry.OverOdds), Point: &ou})
				}
				if entry.UnderOdds != nil {
					m.Outcomes = append(m.Outcomes, models.Outcome{Name: "Under", Price: roundPrice(*entry.UnderOdds), Point: &ou})
				}
				if len(m.Outcomes) > 0 {
					book.Markets = append(book.Markets, m)
				}
			}

			if len(book.Markets) > 0 {
				row.Books = append(row.Books, book)
			}
		}
		rows = append(rows, row)
	}
	metrics.OddsRowsFetchedTotal.WithLabelValues(espnSourceName).Add(float64(len(rows)))
	return rows, nil
}

// ESPNScheduleSource adapts the ESPN scoreboard into a ScheduleSource for
// leagues whose official APIs are unusable or nonexistent.
type ESPNScheduleSource struct {
	client *ESPNClient
	league models.League
}

// NewESPNScheduleSource creates a schedule source for the given league
func NewESPNScheduleSource(client *ESPNClient, league models.League) *ESPNScheduleSource {
	return &ESPNScheduleSource{client: client, league: league}
}

// League returns the league this source covers
func (s *ESPNScheduleSource) League() models.League { return s.league }

// Name returns the source name for logs and metrics
func (s *ESPNScheduleSource) Name() string {
	return espnSourceName + "_" + strings.ToLower(string(s.league))
}

// FetchByDate retrieves the games scheduled on the given calendar date
func (s *ESPNScheduleSource) FetchByDate(ctx context.Context, date time.Time) ([]models.ScheduleEntry, error) {
	board, err := s.client.fetchScoreboard(ctx, s.league, date)
	if err != nil {
		return nil, err
	}

	var entries []models.ScheduleEntry
	for _, ev := range board.Events {
		if len(ev.Competitions) == 0 {
			continue
		}
		comp := ev.Competitions[0]
		home, away := competitors(comp)
		if home == "" || away == "" {
			continue
		}
		start := parseESPNTime(comp.Date, ev.Date)
		if start.IsZero() {
			continue
		}
		entry := models.ScheduleEntry{
			SourceID: ev.ID,
			League:   s.league,
			StartUTC: start,
			Home:     home,
			Away:     away,
		}
		if comp.Venue != nil {
			entry.Venue = comp.Venue.FullName
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func competitors(comp espnCompetition) (home, away string) {
	for _, c := range comp.Competitors {
		switch c.HomeAway {
		case "home":
			home = c.Team.DisplayName
		case "away":
			away = c.Team.DisplayName
		}
	}
	// fall back to positional order when homeAway is missing
	if home == "" && len(comp.Competitors) > 0 {
		home = comp.Competitors[0].Team.DisplayName
	}
	if away == "" && len(comp.Competitors) > 1 {
		away = comp.Competitors[1].Team.DisplayName
	}
	return home, away
}

// parseESPNTime handles both RFC3339 and ESPN's minute-precision variant
func parseESPNTime(candidates ...string) time.Time {
	for _, s := range candidates {
		if s == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t.UTC()
		}
		if t, err := time.Parse("2006-01-02T15:04Z", s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func bookKeyFor(entry espnOddsEntry) string {
	if entry.Provider != nil {
		if entry.Provider.Name != "" {
			return strings.ToLower(entry.Provider.Name)
		}
		if entry.Provider.DisplayName != "" {
			return strings.ToLower(entry.Provider.DisplayName)
		}
	}
	return espnSourceName
}
