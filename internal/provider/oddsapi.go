package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/oddsboard/internal/metrics"
	"github.com/yourusername/oddsboard/internal/models"
)

const oddsAPISourceName = "odds_api"

// oddsAPISportKeys maps leagues to The Odds API sport keys
var oddsAPISportKeys = map[models.League]string{
	models.LeagueMLB:  "baseball_mlb",
	models.LeagueNBA:  "basketball_nba",
	models.LeagueWNBA: "basketball_wnba",
	models.LeagueNHL:  "icehockey_nhl",
	models.LeagueNFL:  "americanfootball_nfl",
	models.LeagueEPL:  "soccer_epl",
	models.LeagueMLS:  "soccer_usa_mls",
}

// OddsAPIClient implements OddsSource against The Odds API v4
type OddsAPIClient struct {
	httpClient *HTTPClient
	baseURL    string
	apiKey     string
	regions    string
	bookmakers []string
	logger     *logrus.Logger
}

// oddsAPIEvent mirrors one event in a /v4/sports/{sport}/odds response
type oddsAPIEvent struct {
	ID           string `json:"id"`
	SportKey     string `json:"sport_key"`
	CommenceTime string `json:"commence_time"`
	HomeTeam     string `json:"home_team"`
	AwayTeam     string `json:"away_team"`
	Bookmakers   []struct {
		Key     string `json:"key"`
		Title   string `json:"title"`
		Markets []struct {
			Key      string `json:"key"`
			Outcomes []struct {
				Name  string   `json:"name"`
				Price float64  `json:"price"` // american format requested; arrives numeric
				Point *float64 `json:"point"`
			} `json:"outcomes"`
		} `json:"markets"`
	} `json:"bookmakers"`
}

// NewOddsAPIClient creates a new Odds API client
func NewOddsAPIClient(httpClient *HTTPClient, baseURL, apiKey, regions string, bookmakers []string, logger *logrus.Logger) *OddsAPIClient {
	if baseURL == "" {
		baseURL = "https://api.the-odds-api.com/v4"
	}
	if regions == "" {
		regions = "us"
	}
	return &OddsAPIClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		regions:    regions,
		bookmakers: bookmakers,
		logger:     logger,
	}
}

// Name returns the source name for logs and metrics
func (c *OddsAPIClient) Name() string { return oddsAPISourceName }

// FetchOdds retrieves all three markets for the league in one call and
// filters events to the given calendar date (UTC). The vendor has no
// per-date endpoint, so filtering happens client-side.
func (c *OddsAPIClient) FetchOdds(ctx context.Context, league models.League, date time.Time) ([]models.OddsRow, error) {
	if c.apiKey == "" {
		return nil, NewError(oddsAPISourceName, ErrCodeAuthenticationFailed, "no API key configured", ErrMissingAPIKey)
	}
	sportKey, ok := oddsAPISportKeys[league]
	if !ok {
		return nil, NewError(oddsAPISourceName, ErrCodeInvalidData, fmt.Sprintf("unsupported league %s", league), nil)
	}

	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("regions", c.regions)
	params.Set("markets", "h2h,spreads,totals")
	params.Set("oddsFormat", "american")
	params.Set("dateFormat", "iso")
	if len(c.bookmakers) > 0 {
		params.Set("bookmakers", strings.Join(c.bookmakers, ","))
	}
	endpoint := fmt.Sprintf("%s/sports/%s/odds/?%s", c.baseURL, sportKey, params.Encode())

	start := time.Now()
	resp, err := c.httpClient.Get(ctx, endpoint, nil)
	metrics.ProviderFetchDuration.WithLabelValues(oddsAPISourceName).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RecordProviderRequest(oddsAPISourceName, "error")
		return nil, NewError(oddsAPISourceName, ErrCodeNetworkError, "failed to fetch odds", err)
	}
	defer resp.Body.Close()

	c.recordQuota(resp)

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		metrics.RecordProviderRequest(oddsAPISourceName, "auth_error")
		return nil, NewError(oddsAPISourceName, ErrCodeAuthenticationFailed, "invalid API key", nil)
	case http.StatusTooManyRequests:
		metrics.RecordProviderRequest(oddsAPISourceName, "rate_limited")
		return nil, NewError(oddsAPISourceName, ErrCodeRateLimitExceeded, "request quota exceeded", nil)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		metrics.RecordProviderRequest(oddsAPISourceName, "error")
		return nil, NewError(oddsAPISourceName, ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var events []oddsAPIEvent
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		metrics.RecordProviderRequest(oddsAPISourceName, "parse_error")
		return nil, NewError(oddsAPISourceName, ErrCodeInvalidData, "failed to parse response", err)
	}
	metrics.RecordProviderRequest(oddsAPISourceName, "ok")

	rows := c.normalize(events, date)
	metrics.OddsRowsFetchedTotal.WithLabelValues(oddsAPISourceName).Add(float64(len(rows)))
	return rows, nil
}

// recordQuota surfaces the vendor's remaining request quota as a gauge
func (c *OddsAPIClient) recordQuota(resp *http.Response) {
	remaining := resp.Header.Get("X-Requests-Remaining")
	if remaining == "" {
		return
	}
	if v, err := strconv.ParseFloat(remaining, 64); err == nil {
		metrics.OddsAPIRequestsRemaining.Set(v)
		c.logger.WithFields(logrus.Fields{
			"remaining": remaining,
			"used":      resp.Header.Get("X-Requests-Used"),
		}).Debug("odds api quota")
	}
}

func (c *OddsAPIClient) normalize(events []oddsAPIEvent, date time.Time) []models.OddsRow {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	var rows []models.OddsRow
	for _, ev := range events {
		start, err := time.Parse(time.RFC3339, ev.CommenceTime)
		if err != nil {
			c.logger.WithField("commence_time", ev.CommenceTime).Warn("skipping event with unparseable start time")
			continue
		}
		if start.Before(dayStart) || !start.Before(dayEnd) {
			continue
		}
		if ev.HomeTeam == "" || ev.AwayTeam == "" {
			continue
		}

		row := models.OddsRow{
			SportKey: ev.SportKey,
			Start:    start.UTC(),
			Home:     ev.HomeTeam,
			Away:     ev.AwayTeam,
		}
		for _, bm := range ev.Bookmakers {
			book := models.Book{Key: bm.Key, Title: bm.Title}
			for _, m := range bm.Markets {
				key := models.MarketKey(m.Key)
				if key != models.MarketH2H && key != models.MarketSpreads && key != models.MarketTotals {
					continue
				}
				market := models.Market{Key: key}
				for _, o := range m.Outcomes {
					price := roundPrice(o.Price)
					if price == 0 || o.Name == "" {
						continue // invalid data for this single outcome
					}
					market.Outcomes = append(market.Outcomes, models.Outcome{
						Name:  o.Name,
						Price: price,
						Point: o.Point,
					})
				}
				if len(market.Outcomes) > 0 {
					book.Markets = append(book.Markets, market)
				}
			}
			if len(book.Markets) > 0 {
				row.Books = append(row.Books, book)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func roundPrice(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(math.Round(f))
}
