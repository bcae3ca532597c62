// Package board joins league schedules with vendor odds into display-ready
// rows. Resolution is pure and deterministic: the same schedule and odds
// input always produces the same board, so refreshes can re-run it freely.
package board

import (
	"github.com/yourusername/oddsboard/internal/metrics"
	"github.com/yourusername/oddsboard/internal/models"
	"github.com/yourusername/oddsboard/internal/odds"
)

// Resolve pairs every schedule entry with its odds row and extracts quotes
// for the three standard markets. Entries without a matching row still get
// a board row with HasOdds false; a game with no odds is a normal state,
// not an error.
func Resolve(entries []models.ScheduleEntry, rows []models.OddsRow, league models.League) []models.BoardRow {
	board := make([]models.BoardRow, 0, len(entries))
	for _, entry := range entries {
		board = append(board, resolveRow(entry, rows, league))
	}
	return board
}

func resolveRow(entry models.ScheduleEntry, rows []models.OddsRow, league models.League) models.BoardRow {
	row := models.BoardRow{Game: entry}

	match := odds.Match(entry, rows)
	metrics.RecordMatch(match != nil)
	if match == nil {
		return row
	}
	row.HasOdds = true

	row.Moneyline = extractMarket(match, models.MarketH2H, odds.SideHome, odds.SideAway, league)
	row.Spread = extractMarket(match, models.MarketSpreads, odds.SideHome, odds.SideAway, league)
	row.Total = extractMarket(match, models.MarketTotals, odds.SideOver, odds.SideUnder, league)
	row.MarketProb = deriveProb(row.Moneyline)
	return row
}

// extractMarket runs both selection policies for a two-way market. Nil is
// returned only when the market yields nothing at all.
func extractMarket(row *models.OddsRow, market models.MarketKey, a, b odds.Side, league models.League) *models.MarketQuotes {
	q := &models.MarketQuotes{
		BestA:      odds.ExtractQuote(row, market, a, odds.BestPrice, league),
		BestB:      odds.ExtractQuote(row, market, b, odds.BestPrice, league),
		ConsensusA: odds.ExtractQuote(row, market, a, odds.Consensus, league),
		ConsensusB: odds.ExtractQuote(row, market, b, odds.Consensus, league),
	}
	if q.BestA != nil || q.BestB != nil {
		metrics.RecordConsensus(q.ConsensusA != nil || q.ConsensusB != nil)
	}
	if q.BestA == nil && q.BestB == nil && q.ConsensusA == nil && q.ConsensusB == nil {
		return nil
	}
	return q
}

// deriveProb de-vigs the moneyline pair. Corroborated prices are preferred;
// the best-price pair is the fallback when only one feed carries the game.
func deriveProb(ml *models.MarketQuotes) *models.WinProbability {
	if ml == nil {
		return nil
	}
	home, away := ml.ConsensusA, ml.ConsensusB
	if home == nil || away == nil {
		home, away = ml.BestA, ml.BestB
	}
	if home == nil || away == nil {
		return nil
	}
	pHome, pAway, ok := odds.DevigTwoWay(home.Price, away.Price)
	if !ok {
		return nil
	}
	return &models.WinProbability{
		Home:       pHome,
		Away:       pAway,
		Confidence: odds.FavoriteConfidence(pHome, pAway),
	}
}
