package models

import "github.com/shopspring/decimal"

// Quote is the selected price for one market side, with the book(s) that
// produced it. Agreed is the number of independent sources behind a
// consensus quote; it is 1 for a best-price quote.
type Quote struct {
	Price  int      `json:"price"`
	Point  *float64 `json:"point,omitempty"`
	Book   string   `json:"book"`
	Agreed int      `json:"agreed"`
}

// FormatPoint renders the quote's line without float artifacts, or "—"
// when the market has no line.
func (q *Quote) FormatPoint() string {
	if q == nil || q.Point == nil {
		return "—"
	}
	d := decimal.NewFromFloat(*q.Point)
	if d.IsPositive() {
		return "+" + d.String()
	}
	return d.String()
}

// MarketQuotes holds both selection policies' results for a two-sided
// market. Any field may be nil: absence of a quote is an expected state.
type MarketQuotes struct {
	BestA      *Quote `json:"best_a,omitempty"` // home, or Over for totals
	BestB      *Quote `json:"best_b,omitempty"` // away, or Under for totals
	ConsensusA *Quote `json:"consensus_a,omitempty"`
	ConsensusB *Quote `json:"consensus_b,omitempty"`
}

// WinProbability is a de-vigged two-way probability pair summing to 1
type WinProbability struct {
	Home       float64 `json:"home"`
	Away       float64 `json:"away"`
	Confidence float64 `json:"confidence"` // max(Home, Away)
}

// Prediction is the rating model's view of a matchup, independent of
// any bookmaker price.
type Prediction struct {
	ProbHome       float64  `json:"prob_home"`
	ProbAway       float64  `json:"prob_away"`
	Analysis       []string `json:"analysis,omitempty"`
	Recommendation string   `json:"recommendation,omitempty"`
}

// BoardRow is one resolved matchup ready for display: the schedule entry
// joined with its matched odds row (if any), selected quotes per market,
// and derived probabilities. It exists only for one response cycle.
type BoardRow struct {
	Game       ScheduleEntry   `json:"game"`
	HasOdds    bool            `json:"has_odds"`
	Moneyline  *MarketQuotes   `json:"moneyline,omitempty"`
	Spread     *MarketQuotes   `json:"spread,omitempty"`
	Total      *MarketQuotes   `json:"total,omitempty"`
	MarketProb *WinProbability `json:"market_prob,omitempty"`
	Model      *Prediction     `json:"model,omitempty"`
}
