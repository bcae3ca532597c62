package ratings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/oddsboard/internal/models"
)

func mlbGame(home, away string) models.ScheduleEntry {
	return models.ScheduleEntry{
		League: models.LeagueMLB,
		Home:   home,
		Away:   away,
		StartUTC: time.Date(2026, 5, 1, 23, 0, 0, 0, time.UTC),
	}
}

func TestPredictUnknownTeamsFavorsHome(t *testing.T) {
	p := NewPredictor(NewMemoryStore())

	pred, err := p.Predict(context.Background(), mlbGame("New York Yankees", "Boston Red Sox"))
	require.NoError(t, err)

	// equal base ratings, home advantage tips the scale
	assert.Greater(t, pred.ProbHome, 0.5)
	assert.InDelta(t, 1.0, pred.ProbHome+pred.ProbAway, 1e-12)
	assert.Equal(t, "Close matchup", pred.Recommendation)
}

func TestPredictStrongFavorite(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Put(ctx, Rating{Team: "NEW YORK YANKEES", Elo: 1650}))
	require.NoError(t, store.Put(ctx, Rating{Team: "BOSTON RED SOX", Elo: 1450}))

	p := NewPredictor(store)
	pred, err := p.Predict(ctx, mlbGame("Yankees", "Red Sox"))
	require.NoError(t, err)

	assert.Greater(t, pred.ProbHome, 0.6)
	assert.Equal(t, "Strong Yankees pick", pred.Recommendation)
}

func TestPredictUsesCanonicalNames(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Put(ctx, Rating{Team: "BOSTON RED SOX", Elo: 1700}))

	p := NewPredictor(store)

	// "Sox" resolves to the same rating as the full name
	a, err := p.Predict(ctx, mlbGame("Sox", "Cubs"))
	require.NoError(t, err)
	b, err := p.Predict(ctx, mlbGame("Boston Red Sox", "Cubs"))
	require.NoError(t, err)
	assert.InDelta(t, a.ProbHome, b.ProbHome, 1e-12)
}

func TestRecentFormAdjustment(t *testing.T) {
	hot := Rating{Team: "X", Elo: 1500, Last5: []int{1, 1, 1, 1, 1}}
	cold := Rating{Team: "Y", Elo: 1500, Last5: []int{0, 0, 0, 0, 0}}
	even := Rating{Team: "Z", Elo: 1500, Last5: []int{1, 0, 1, 0}}

	assert.InDelta(t, 30.0, recentAdj(hot), 1e-9)
	assert.InDelta(t, -30.0, recentAdj(cold), 1e-9)
	assert.InDelta(t, 0.0, recentAdj(even), 1e-9)
	assert.Zero(t, recentAdj(Rating{Team: "W"}))
}

func TestRecordResultMovesRatings(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	p := NewPredictor(store)
	game := mlbGame("New York Yankees", "Boston Red Sox")
	played := time.Date(2026, 5, 2, 2, 30, 0, 0, time.UTC)

	require.NoError(t, p.RecordResult(ctx, game, true, played))

	home, found, err := store.Get(ctx, "NEW YORK YANKEES")
	require.NoError(t, err)
	require.True(t, found)
	away, found, err := store.Get(ctx, "BOSTON RED SOX")
	require.NoError(t, err)
	require.True(t, found)

	assert.Greater(t, home.Elo, baseElo)
	assert.Less(t, away.Elo, baseElo)
	// zero-sum update
	assert.InDelta(t, 2*baseElo, home.Elo+away.Elo, 1e-9)
	assert.Equal(t, []int{1}, home.Last5)
	assert.Equal(t, []int{0}, away.Last5)
	assert.True(t, home.LastPlayed.Equal(played))
}

func TestRecordResultTrimsLast5(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	p := NewPredictor(store)
	game := mlbGame("New York Yankees", "Boston Red Sox")

	for i := 0; i < 7; i++ {
		require.NoError(t, p.RecordResult(ctx, game, true, time.Now()))
	}

	home, _, err := store.Get(ctx, "NEW YORK YANKEES")
	require.NoError(t, err)
	assert.Len(t, home.Last5, 5)
}

func TestWinProbLogistic(t *testing.T) {
	assert.InDelta(t, 0.5, winProb(1500, 1500), 1e-12)
	// 400-point gap is 10:1 odds in the Elo model
	assert.InDelta(t, 10.0/11.0, winProb(1900, 1500), 1e-9)
	assert.InDelta(t, 1.0, winProb(1500, 1500)+winProb(1500, 1500), 1e-12)
}
