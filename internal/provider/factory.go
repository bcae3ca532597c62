package provider

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/oddsboard/internal/config"
	"github.com/yourusername/oddsboard/internal/models"
)

// Factory creates provider implementations from configuration
type Factory struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewFactory creates a new provider factory
func NewFactory(cfg *config.Config, logger *logrus.Logger) *Factory {
	return &Factory{cfg: cfg, logger: logger}
}

// NewHTTPClient builds the shared upstream HTTP client from configuration
func (f *Factory) NewHTTPClient() *HTTPClient {
	httpCfg := DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(f.cfg.Providers.TimeoutSec) * time.Second
	httpCfg.MaxRetries = f.cfg.Providers.MaxRetries
	httpCfg.RateLimit = f.cfg.Providers.RateLimit
	return NewHTTPClient(httpCfg, f.logger)
}

// ScheduleSources builds one schedule source per configured league.
// MLB, NHL and NBA use their official APIs; every other league reads the
// ESPN scoreboard.
func (f *Factory) ScheduleSources(httpClient *HTTPClient) []ScheduleSource {
	espn := NewESPNClient(httpClient, "", f.logger)

	var sources []ScheduleSource
	for _, name := range f.cfg.Providers.Leagues {
		league, ok := models.ParseLeague(name)
		if !ok {
			f.logger.Warnf("skipping unknown league %q", name)
			continue
		}
		switch league {
		case models.LeagueMLB:
			sources = append(sources, NewMLBClient(httpClient, f.logger))
		case models.LeagueNHL:
			sources = append(sources, NewNHLClient(httpClient, f.logger))
		case models.LeagueNBA:
			sources = append(sources, NewNBAClient(httpClient, f.logger))
		default:
			sources = append(sources, NewESPNScheduleSource(espn, league))
		}
	}
	return sources
}

// OddsSources builds the odds feeds: the commercial aggregator first, the
// ESPN scoreboard fallback second. Order matters to the board service:
// the first source is the primary feed.
func (f *Factory) OddsSources(httpClient *HTTPClient) []OddsSource {
	ttl := time.Duration(f.cfg.OddsAPI.CacheTTLSec) * time.Second

	primary := NewOddsAPIClient(
		httpClient,
		f.cfg.OddsAPI.BaseURL,
		f.cfg.OddsAPI.APIKey,
		f.cfg.OddsAPI.Regions,
		f.cfg.OddsAPI.Bookmakers,
		f.logger,
	)
	fallback := NewESPNClient(httpClient, "", f.logger)

	return []OddsSource{
		NewCachedOddsSource(primary, ttl),
		NewCachedOddsSource(fallback, ttl),
	}
}
