package provider

import (
	"context"
	"fmt"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/yourusername/oddsboard/internal/models"
)

// CachedOddsSource wraps an OddsSource with a TTL cache so repeated board
// renders inside the TTL window do not burn vendor quota. Errors are never
// cached; only successful responses are.
type CachedOddsSource struct {
	source OddsSource
	cache  *cache.Cache
	ttl    time.Duration
}

// NewCachedOddsSource wraps the source with the given TTL
func NewCachedOddsSource(source OddsSource, ttl time.Duration) *CachedOddsSource {
	return &CachedOddsSource{
		source: source,
		cache:  cache.New(ttl, ttl*2),
		ttl:    ttl,
	}
}

// Name returns the underlying source's name
func (c *CachedOddsSource) Name() string { return c.source.Name() }

// FetchOdds returns the cached rows when fresh, otherwise fetches through
func (c *CachedOddsSource) FetchOdds(ctx context.Context, league models.League, date time.Time) ([]models.OddsRow, error) {
	key := fmt.Sprintf("%s:%s:%s", c.source.Name(), league, date.UTC().Format("2006-01-02"))
	if cached, found := c.cache.Get(key); found {
		if rows, ok := cached.([]models.OddsRow); ok {
			return rows, nil
		}
	}

	rows, err := c.source.FetchOdds(ctx, league, date)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, rows, c.ttl)
	return rows, nil
}

// Invalidate drops the cached rows for one league/date
func (c *CachedOddsSource) Invalidate(league models.League, date time.Time) {
	c.cache.Delete(fmt.Sprintf("%s:%s:%s", c.source.Name(), league, date.UTC().Format("2006-01-02")))
}
