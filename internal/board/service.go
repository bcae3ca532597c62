package board

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/oddsboard/internal/config"
	"github.com/yourusername/oddsboard/internal/logger"
	"github.com/yourusername/oddsboard/internal/metrics"
	"github.com/yourusername/oddsboard/internal/models"
	"github.com/yourusername/oddsboard/internal/odds"
	"github.com/yourusername/oddsboard/internal/provider"
)

// Predictor produces a model-based view of a matchup
type Predictor interface {
	Predict(ctx context.Context, game models.ScheduleEntry) (*models.Prediction, error)
}

// Snapshot is one fully resolved board for a league and date. The raw odds
// rows are retained so later partial updates can merge into them and
// re-resolve without refetching the schedule.
type Snapshot struct {
	RefreshID   string            `json:"refresh_id"`
	League      models.League     `json:"league"`
	Date        string            `json:"date"`
	GeneratedAt time.Time         `json:"generated_at"`
	Rows        []models.BoardRow `json:"rows"`

	Schedule []models.ScheduleEntry `json:"-"`
	OddsRows []models.OddsRow       `json:"-"`
}

// Service fetches schedules and odds, resolves them into boards, and keeps
// the latest snapshot per league and date in a TTL cache.
type Service struct {
	log       *logrus.Logger
	schedules map[models.League]provider.ScheduleSource
	oddsFeeds []provider.OddsSource
	predictor Predictor
	budget    time.Duration
	snapshots *cache.Cache

	mu sync.Mutex // serializes refresh and merge per service
}

// NewService wires the board service. predictor may be nil, in which case
// rows carry market probabilities only.
func NewService(cfg *config.Config, log *logrus.Logger, schedules []provider.ScheduleSource, oddsFeeds []provider.OddsSource, predictor Predictor) *Service {
	byLeague := make(map[models.League]provider.ScheduleSource, len(schedules))
	for _, s := range schedules {
		byLeague[s.League()] = s
	}
	ttl := time.Duration(cfg.Refresh.BoardTTLSec) * time.Second
	return &Service{
		log:       log,
		schedules: byLeague,
		oddsFeeds: oddsFeeds,
		predictor: predictor,
		budget:    time.Duration(cfg.Providers.PerFetchBudgetSec) * time.Second,
		snapshots: cache.New(ttl, 2*ttl),
	}
}

// Leagues returns the leagues the service has a schedule source for
func (s *Service) Leagues() []models.League {
	out := make([]models.League, 0, len(s.schedules))
	for _, l := range models.Leagues {
		if _, ok := s.schedules[l]; ok {
			out = append(out, l)
		}
	}
	return out
}

func snapshotKey(league models.League, date time.Time) string {
	return string(league) + ":" + date.UTC().Format("2006-01-02")
}

// Board returns the cached snapshot for the league and date, refreshing
// when none exists or the previous one expired.
func (s *Service) Board(ctx context.Context, league models.League, date time.Time) (*Snapshot, error) {
	if snap, found := s.snapshots.Get(snapshotKey(league, date)); found {
		return snap.(*Snapshot), nil
	}
	return s.Refresh(ctx, league, date)
}

// Refresh fetches the schedule and every odds feed for the league and date,
// resolves the board, and replaces the cached snapshot. The schedule is
// required; odds feeds are best-effort and a feed failure degrades the
// board rather than failing the refresh.
func (s *Service) Refresh(ctx context.Context, league models.League, date time.Time) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	refreshID := uuid.NewString()
	log := logger.WithRefresh(s.log, refreshID).WithField("league", league)

	src, ok := s.schedules[league]
	if !ok {
		return nil, provider.NewError("board", provider.ErrCodeInvalidData, "no schedule source for league "+string(league), nil)
	}

	var (
		wg       sync.WaitGroup
		resMu    sync.Mutex
		schedule []models.ScheduleEntry
		schedErr error
		rows     []models.OddsRow
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		fctx, cancel := context.WithTimeout(ctx, s.budget)
		defer cancel()
		entries, err := src.FetchByDate(fctx, date)
		resMu.Lock()
		schedule, schedErr = entries, err
		resMu.Unlock()
	}()

	for _, feed := range s.oddsFeeds {
		wg.Add(1)
		go func(feed provider.OddsSource) {
			defer wg.Done()
			fctx, cancel := context.WithTimeout(ctx, s.budget)
			defer cancel()
			fetched, err := feed.FetchOdds(fctx, league, date)
			if err != nil {
				log.WithError(err).WithField("source", feed.Name()).Warn("odds feed failed, continuing without it")
				return
			}
			resMu.Lock()
			rows = mergeRows(rows, fetched, league)
			resMu.Unlock()
		}(feed)
	}
	wg.Wait()

	if schedErr != nil {
		return nil, schedErr
	}

	snap := s.buildSnapshot(ctx, refreshID, league, date, schedule, rows)
	s.snapshots.SetDefault(snapshotKey(league, date), snap)

	metrics.BoardRows.WithLabelValues(string(league)).Set(float64(len(snap.Rows)))
	metrics.BoardRefreshDuration.Observe(time.Since(start).Seconds())
	log.WithFields(logrus.Fields{
		"games":    len(schedule),
		"odds":     len(rows),
		"duration": time.Since(start).String(),
	}).Info("board refreshed")
	return snap, nil
}

// Merge folds a partial odds update into the existing snapshot and
// re-resolves it. Merging the same rows twice produces the same board, so
// retried updates are harmless. With no prior snapshot it falls back to a
// full refresh.
func (s *Service) Merge(ctx context.Context, league models.League, date time.Time, update []models.OddsRow) (*Snapshot, error) {
	s.mu.Lock()
	cached, found := s.snapshots.Get(snapshotKey(league, date))
	if !found {
		s.mu.Unlock()
		return s.Refresh(ctx, league, date)
	}
	prev := cached.(*Snapshot)

	rows := mergeRows(cloneRows(prev.OddsRows), update, league)
	snap := s.buildSnapshot(ctx, uuid.NewString(), league, date, prev.Schedule, rows)
	s.snapshots.SetDefault(snapshotKey(league, date), snap)
	s.mu.Unlock()

	metrics.BoardRows.WithLabelValues(string(league)).Set(float64(len(snap.Rows)))
	return snap, nil
}

func (s *Service) buildSnapshot(ctx context.Context, refreshID string, league models.League, date time.Time, schedule []models.ScheduleEntry, rows []models.OddsRow) *Snapshot {
	board := Resolve(schedule, rows, league)
	if s.predictor != nil {
		for i := range board {
			pred, err := s.predictor.Predict(ctx, board[i].Game)
			if err != nil {
				s.log.WithError(err).WithField("game", board[i].Game.Home).Warn("prediction failed")
				continue
			}
			board[i].Model = pred
		}
	}
	return &Snapshot{
		RefreshID:   refreshID,
		League:      league,
		Date:        date.UTC().Format("2006-01-02"),
		GeneratedAt: time.Now().UTC(),
		Rows:        board,
		Schedule:    schedule,
		OddsRows:    rows,
	}
}

// cloneRows copies the rows and each row's Books slice so that merging an
// update never writes into a snapshot already handed to callers. Books are
// replaced wholesale on upsert, so the slice copy is deep enough.
func cloneRows(rows []models.OddsRow) []models.OddsRow {
	out := make([]models.OddsRow, len(rows))
	for i, row := range rows {
		out[i] = row
		out[i].Books = append([]models.Book(nil), row.Books...)
	}
	return out
}

// mergeRows folds src into dst. Rows for the same game combine their books
// so one feed can corroborate another; within a game, a later book with the
// same key replaces the earlier one.
func mergeRows(dst, src []models.OddsRow, league models.League) []models.OddsRow {
	for _, row := range src {
		idx := findRow(dst, row, league)
		if idx < 0 {
			dst = append(dst, row)
			continue
		}
		for _, book := range row.Books {
			dst[idx].Books = upsertBook(dst[idx].Books, book)
		}
	}
	return dst
}

func findRow(rows []models.OddsRow, row models.OddsRow, league models.League) int {
	home := odds.Canonical(row.Home, league)
	away := odds.Canonical(row.Away, league)
	day := row.Start.UTC().Format("2006-01-02")
	for i := range rows {
		if odds.Canonical(rows[i].Home, league) != home || odds.Canonical(rows[i].Away, league) != away {
			continue
		}
		if rows[i].Start.UTC().Format("2006-01-02") == day {
			return i
		}
	}
	return -1
}

func upsertBook(books []models.Book, book models.Book) []models.Book {
	for i := range books {
		if books[i].Key == book.Key {
			books[i] = book
			return books
		}
	}
	return append(books, book)
}
