package ratings

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/yourusername/oddsboard/internal/models"
	"github.com/yourusername/oddsboard/internal/odds"
)

const (
	baseElo      = 1500.0
	homeAdvElo   = 55.0 // Elo points added to the home side
	kFactor      = 18.0
	recentWeight = 30.0 // max Elo swing from last-5 form
	maxLast5     = 5
)

// Predictor derives win probabilities from stored team ratings, a simple
// Elo model with home advantage and a recent-form adjustment. Teams are
// keyed by canonical name so both feeds' spellings land on one rating.
type Predictor struct {
	store Store
}

// NewPredictor creates a predictor backed by the given store
func NewPredictor(store Store) *Predictor {
	return &Predictor{store: store}
}

func (p *Predictor) rating(ctx context.Context, team string, league models.League) (Rating, error) {
	key := odds.Canonical(team, league)
	r, found, err := p.store.Get(ctx, key)
	if err != nil {
		return Rating{}, err
	}
	if !found {
		r = Rating{Team: key, Elo: baseElo}
	}
	return r, nil
}

func winProb(eloA, eloB float64) float64 {
	return 1 / (1 + math.Pow(10, (eloB-eloA)/400))
}

// recentAdj converts last-5 form into an Elo adjustment in ±recentWeight
func recentAdj(r Rating) float64 {
	if len(r.Last5) == 0 {
		return 0
	}
	var sum float64
	for _, v := range r.Last5 {
		sum += float64(v)
	}
	avg := sum / float64(len(r.Last5))
	return (avg - 0.5) * 2 * recentWeight
}

// Predict returns the model's view of the matchup
func (p *Predictor) Predict(ctx context.Context, game models.ScheduleEntry) (*models.Prediction, error) {
	home, err := p.rating(ctx, game.Home, game.League)
	if err != nil {
		return nil, err
	}
	away, err := p.rating(ctx, game.Away, game.League)
	if err != nil {
		return nil, err
	}

	eloHome := home.Elo + homeAdvElo + recentAdj(home)
	eloAway := away.Elo + recentAdj(away)
	pHome := winProb(eloHome, eloAway)

	pred := &models.Prediction{
		ProbHome: pHome,
		ProbAway: 1 - pHome,
		Analysis: []string{
			fmt.Sprintf("Home advantage: +%.0f Elo", homeAdvElo),
			formAnalysis("Home", home),
			formAnalysis("Away", away),
			fmt.Sprintf("Base ratings: %s %.0f vs %s %.0f", game.Home, home.Elo, game.Away, away.Elo),
		},
	}
	switch {
	case pHome > 0.6:
		pred.Recommendation = fmt.Sprintf("Strong %s pick", game.Home)
	case pred.ProbAway > 0.6:
		pred.Recommendation = fmt.Sprintf("Strong %s pick", game.Away)
	default:
		pred.Recommendation = "Close matchup"
	}
	return pred, nil
}

func formAnalysis(side string, r Rating) string {
	if len(r.Last5) == 0 {
		return side + " recent form: n/a"
	}
	return fmt.Sprintf("%s recent form (last %d): adj %+.0f Elo", side, len(r.Last5), recentAdj(r))
}

// RecordResult updates both teams' ratings after a final score
func (p *Predictor) RecordResult(ctx context.Context, game models.ScheduleEntry, homeWon bool, playedAt time.Time) error {
	home, err := p.rating(ctx, game.Home, game.League)
	if err != nil {
		return err
	}
	away, err := p.rating(ctx, game.Away, game.League)
	if err != nil {
		return err
	}

	expectedHome := winProb(home.Elo+homeAdvElo, away.Elo)
	actual := 0.0
	if homeWon {
		actual = 1.0
	}

	home.Elo += kFactor * (actual - expectedHome)
	away.Elo += kFactor * ((1 - actual) - (1 - expectedHome))
	home.Last5 = appendResult(home.Last5, int(actual))
	away.Last5 = appendResult(away.Last5, 1-int(actual))
	home.LastPlayed = playedAt
	away.LastPlayed = playedAt

	if err := p.store.Put(ctx, home); err != nil {
		return err
	}
	return p.store.Put(ctx, away)
}

func appendResult(last5 []int, result int) []int {
	last5 = append(last5, result)
	if len(last5) > maxLast5 {
		last5 = last5[len(last5)-maxLast5:]
	}
	return last5
}
