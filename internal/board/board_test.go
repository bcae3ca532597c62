package board

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/oddsboard/internal/config"
	"github.com/yourusername/oddsboard/internal/logger"
	"github.com/yourusername/oddsboard/internal/models"
	"github.com/yourusername/oddsboard/internal/provider"
)

var testStart = time.Date(2026, 6, 12, 23, 10, 0, 0, time.UTC)

func moneylineRow(home, away string, homePrice, awayPrice int, books ...string) models.OddsRow {
	row := models.OddsRow{
		SportKey: "baseball_mlb",
		Start:    testStart,
		Home:     home,
		Away:     away,
	}
	for _, key := range books {
		row.Books = append(row.Books, models.Book{
			Key:   key,
			Title: key,
			Markets: []models.Market{{
				Key: models.MarketH2H,
				Outcomes: []models.Outcome{
					{Name: home, Price: homePrice},
					{Name: away, Price: awayPrice},
				},
			}},
		})
	}
	return row
}

func TestResolveNoOdds(t *testing.T) {
	entries := []models.ScheduleEntry{{
		League: models.LeagueMLB, StartUTC: testStart,
		Home: "New York Yankees", Away: "Boston Red Sox",
	}}

	rows := Resolve(entries, nil, models.LeagueMLB)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].HasOdds)
	assert.Nil(t, rows[0].Moneyline)
	assert.Nil(t, rows[0].MarketProb)
}

func TestResolveConsensusPreferredForProbability(t *testing.T) {
	entries := []models.ScheduleEntry{{
		League: models.LeagueMLB, StartUTC: testStart,
		Home: "New York Yankees", Away: "Boston Red Sox",
	}}
	// two books agree at -130/110, a third dangles a better outlier price
	agreeing := moneylineRow("Yankees", "Red Sox", -130, 110, "draftkings", "fanduel")
	outlier := moneylineRow("Yankees", "Red Sox", -120, 115, "betmgm")
	merged := mergeRows([]models.OddsRow{agreeing}, []models.OddsRow{outlier}, models.LeagueMLB)

	rows := Resolve(entries, merged, models.LeagueMLB)
	require.Len(t, rows, 1)
	require.True(t, rows[0].HasOdds)
	require.NotNil(t, rows[0].Moneyline)

	// best price shops the outlier, consensus sticks with the pair
	assert.Equal(t, -120, rows[0].Moneyline.BestA.Price)
	require.NotNil(t, rows[0].Moneyline.ConsensusA)
	assert.Equal(t, -130, rows[0].Moneyline.ConsensusA.Price)
	assert.Equal(t, 2, rows[0].Moneyline.ConsensusA.Agreed)

	// probability comes from the consensus pair, de-vigged to sum 1
	require.NotNil(t, rows[0].MarketProb)
	assert.InDelta(t, 0.5427, rows[0].MarketProb.Home, 1e-3)
	assert.InDelta(t, 1.0, rows[0].MarketProb.Home+rows[0].MarketProb.Away, 1e-9)
	assert.InDelta(t, rows[0].MarketProb.Home, rows[0].MarketProb.Confidence, 1e-12)
}

func TestMergeRowsCombinesBooks(t *testing.T) {
	a := moneylineRow("New York Yankees", "Boston Red Sox", -130, 110, "draftkings")
	b := moneylineRow("Yankees", "Red Sox", -130, 110, "espn_bet")

	merged := mergeRows([]models.OddsRow{a}, []models.OddsRow{b}, models.LeagueMLB)
	require.Len(t, merged, 1)
	assert.Len(t, merged[0].Books, 2)

	// same book again replaces, not duplicates
	again := mergeRows(merged, []models.OddsRow{moneylineRow("Yankees", "Red Sox", -135, 115, "espn_bet")}, models.LeagueMLB)
	require.Len(t, again, 1)
	assert.Len(t, again[0].Books, 2)
}

type stubSchedule struct {
	entries []models.ScheduleEntry
	err     error
	calls   int
}

func (s *stubSchedule) FetchByDate(ctx context.Context, date time.Time) ([]models.ScheduleEntry, error) {
	s.calls++
	return s.entries, s.err
}
func (s *stubSchedule) League() models.League { return models.LeagueMLB }
func (s *stubSchedule) Name() string          { return "stub-schedule" }

type stubOdds struct {
	rows []models.OddsRow
	err  error
	name string
}

func (s *stubOdds) FetchOdds(ctx context.Context, league models.League, date time.Time) ([]models.OddsRow, error) {
	return s.rows, s.err
}
func (s *stubOdds) Name() string { return s.name }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Providers.PerFetchBudgetSec = 5
	cfg.Refresh.BoardTTLSec = 60
	return cfg
}

func testService(sched *stubSchedule, feeds ...provider.OddsSource) *Service {
	log := logger.NewLogger("error", "development")
	return NewService(testConfig(), log, []provider.ScheduleSource{sched}, feeds, nil)
}

func TestRefreshBuildsSnapshot(t *testing.T) {
	sched := &stubSchedule{entries: []models.ScheduleEntry{{
		League: models.LeagueMLB, StartUTC: testStart,
		Home: "New York Yankees", Away: "Boston Red Sox",
	}}}
	feed := &stubOdds{name: "feed", rows: []models.OddsRow{
		moneylineRow("Yankees", "Red Sox", -130, 110, "draftkings", "fanduel"),
	}}

	svc := testService(sched, feed)
	snap, err := svc.Refresh(context.Background(), models.LeagueMLB, testStart)
	require.NoError(t, err)

	assert.NotEmpty(t, snap.RefreshID)
	assert.Equal(t, "2026-06-12", snap.Date)
	require.Len(t, snap.Rows, 1)
	assert.True(t, snap.Rows[0].HasOdds)
}

func TestRefreshToleratesFeedFailure(t *testing.T) {
	sched := &stubSchedule{entries: []models.ScheduleEntry{{
		League: models.LeagueMLB, StartUTC: testStart,
		Home: "New York Yankees", Away: "Boston Red Sox",
	}}}
	broken := &stubOdds{name: "broken", err: errors.New("upstream down")}

	svc := testService(sched, broken)
	snap, err := svc.Refresh(context.Background(), models.LeagueMLB, testStart)
	require.NoError(t, err)
	require.Len(t, snap.Rows, 1)
	assert.False(t, snap.Rows[0].HasOdds)
}

func TestRefreshScheduleFailureIsFatal(t *testing.T) {
	sched := &stubSchedule{err: errors.New("schedule down")}
	svc := testService(sched, &stubOdds{name: "feed"})

	_, err := svc.Refresh(context.Background(), models.LeagueMLB, testStart)
	assert.Error(t, err)
}

func TestBoardServesCachedSnapshot(t *testing.T) {
	sched := &stubSchedule{entries: []models.ScheduleEntry{{
		League: models.LeagueMLB, StartUTC: testStart,
		Home: "New York Yankees", Away: "Boston Red Sox",
	}}}
	svc := testService(sched, &stubOdds{name: "feed"})

	first, err := svc.Board(context.Background(), models.LeagueMLB, testStart)
	require.NoError(t, err)
	second, err := svc.Board(context.Background(), models.LeagueMLB, testStart)
	require.NoError(t, err)

	assert.Equal(t, first.RefreshID, second.RefreshID)
	assert.Equal(t, 1, sched.calls)
}

func TestMergeLeavesPriorSnapshotIntact(t *testing.T) {
	sched := &stubSchedule{entries: []models.ScheduleEntry{{
		League: models.LeagueMLB, StartUTC: testStart,
		Home: "New York Yankees", Away: "Boston Red Sox",
	}}}
	feed := &stubOdds{name: "feed", rows: []models.OddsRow{
		moneylineRow("Yankees", "Red Sox", -130, 110, "draftkings"),
	}}
	svc := testService(sched, feed)
	prev, err := svc.Refresh(context.Background(), models.LeagueMLB, testStart)
	require.NoError(t, err)

	// the update replaces draftkings' price; a reader still holding the
	// previous snapshot must keep seeing the old one
	update := []models.OddsRow{moneylineRow("Yankees", "Red Sox", -145, 120, "draftkings")}
	next, err := svc.Merge(context.Background(), models.LeagueMLB, testStart, update)
	require.NoError(t, err)

	assert.Equal(t, -145, next.OddsRows[0].Books[0].Markets[0].Outcomes[0].Price)
	assert.Equal(t, -130, prev.OddsRows[0].Books[0].Markets[0].Outcomes[0].Price)
	assert.Equal(t, -130, prev.Rows[0].Moneyline.BestA.Price)
}

func TestMergeIsIdempotent(t *testing.T) {
	sched := &stubSchedule{entries: []models.ScheduleEntry{{
		League: models.LeagueMLB, StartUTC: testStart,
		Home: "New York Yankees", Away: "Boston Red Sox",
	}}}
	svc := testService(sched, &stubOdds{name: "feed"})
	_, err := svc.Refresh(context.Background(), models.LeagueMLB, testStart)
	require.NoError(t, err)

	update := []models.OddsRow{moneylineRow("Yankees", "Red Sox", -130, 110, "draftkings", "fanduel")}
	once, err := svc.Merge(context.Background(), models.LeagueMLB, testStart, update)
	require.NoError(t, err)
	twice, err := svc.Merge(context.Background(), models.LeagueMLB, testStart, update)
	require.NoError(t, err)

	assert.Equal(t, once.Rows, twice.Rows)
	require.True(t, once.Rows[0].HasOdds)
	assert.Equal(t, -130, once.Rows[0].Moneyline.ConsensusA.Price)
}
