package models

import "time"

// MarketKey identifies a betting market kind
type MarketKey string

const (
	MarketH2H     MarketKey = "h2h"
	MarketSpreads MarketKey = "spreads"
	MarketTotals  MarketKey = "totals"
)

// MarketKeys lists the supported market kinds
var MarketKeys = []MarketKey{MarketH2H, MarketSpreads, MarketTotals}

// Outcome is one priced side within a market. Price is in American odds
// format: positive is the underdog payout per 100 staked, negative is the
// stake needed to win 100. A price of exactly 0 is invalid data and must be
// skipped. Point carries the spread or total line when the market has one.
type Outcome struct {
	Name  string   `json:"name"`
	Price int      `json:"price"`
	Point *float64 `json:"point,omitempty"`
}

// Valid reports whether the outcome carries usable data
func (o Outcome) Valid() bool {
	return o.Name != "" && o.Price != 0
}

// Market is one bookmaker's listing for a single market kind
type Market struct {
	Key      MarketKey `json:"key"`
	Outcomes []Outcome `json:"outcomes"`
}

// Book is one bookmaker's view of a matchup
type Book struct {
	Key     string   `json:"key"`             // stable bookmaker key, e.g. "draftkings"
	Title   string   `json:"title,omitempty"` // display name
	Markets []Market `json:"markets"`
}

// Market returns the book's market for the given key, or nil
func (b Book) Market(key MarketKey) *Market {
	for i := range b.Markets {
		if b.Markets[i].Key == key {
			return &b.Markets[i]
		}
	}
	return nil
}

// OddsRow is one odds vendor's view of a single matchup. Home and Away use
// the vendor's own naming, which rarely matches the league schedule's naming
// exactly; reconciliation is the odds package's job.
type OddsRow struct {
	SportKey string    `json:"sport_key,omitempty"` // vendor's sport identifier
	Start    time.Time `json:"start"`
	Home     string    `json:"home"`
	Away     string    `json:"away"`
	Books    []Book    `json:"books"`
}
