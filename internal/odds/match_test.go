package odds

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/oddsboard/internal/models"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

func scheduleEntry(t *testing.T, home, away, start string) models.ScheduleEntry {
	t.Helper()
	return models.ScheduleEntry{
		League:   models.LeagueMLB,
		StartUTC: mustTime(t, start),
		Home:     home,
		Away:     away,
	}
}

func TestMatchEmptyRows(t *testing.T) {
	entry := scheduleEntry(t, "Yankees", "Red Sox", "2024-07-01T23:05:00Z")
	assert.Nil(t, Match(entry, nil))
	assert.Nil(t, Match(entry, []models.OddsRow{}))
}

func TestMatchExactCanonicalNames(t *testing.T) {
	entry := scheduleEntry(t, "Yankees", "Red Sox", "2024-07-01T23:05:00Z")
	rows := []models.OddsRow{
		{Start: mustTime(t, "2024-07-01T23:00:00Z"), Home: "New York Yankees", Away: "Boston Red Sox"},
	}
	got := Match(entry, rows)
	require.NotNil(t, got)
	assert.Equal(t, "New York Yankees", got.Home)
}

func TestMatchSubstringContainment(t *testing.T) {
	// partial vendor names still match the full schedule names
	entry := scheduleEntry(t, "Los Angeles Dodgers", "San Francisco Giants", "2024-07-01T02:10:00Z")
	rows := []models.OddsRow{
		{Start: mustTime(t, "2024-07-01T02:10:00Z"), Home: "Dodgers", Away: "Giants"},
	}
	require.NotNil(t, Match(entry, rows))
}

func TestMatchRejectsWrongTeams(t *testing.T) {
	entry := scheduleEntry(t, "Yankees", "Red Sox", "2024-07-01T23:05:00Z")
	rows := []models.OddsRow{
		{Start: mustTime(t, "2024-07-01T23:05:00Z"), Home: "New York Mets", Away: "Boston Red Sox"},
		{Start: mustTime(t, "2024-07-01T23:05:00Z"), Home: "New York Yankees", Away: "Baltimore Orioles"},
	}
	assert.Nil(t, Match(entry, rows))
}

func TestMatchTimeProximityTieBreak(t *testing.T) {
	// double headers share team names; the closer start time wins
	entry := scheduleEntry(t, "Yankees", "Red Sox", "2024-07-01T23:05:00Z")
	far := models.OddsRow{Start: mustTime(t, "2024-07-02T02:05:00Z"), Home: "New York Yankees", Away: "Boston Red Sox"}
	near := models.OddsRow{Start: mustTime(t, "2024-07-01T23:02:00Z"), Home: "New York Yankees", Away: "Boston Red Sox"}

	got := Match(entry, []models.OddsRow{far, near})
	require.NotNil(t, got)
	assert.Equal(t, near.Start, got.Start)

	// order independent
	got = Match(entry, []models.OddsRow{near, far})
	require.NotNil(t, got)
	assert.Equal(t, near.Start, got.Start)
}

func TestMatchDeterministicOnEqualDelta(t *testing.T) {
	entry := scheduleEntry(t, "Yankees", "Red Sox", "2024-07-01T23:05:00Z")
	a := models.OddsRow{SportKey: "a", Start: mustTime(t, "2024-07-01T23:00:00Z"), Home: "New York Yankees", Away: "Boston Red Sox"}
	b := models.OddsRow{SportKey: "b", Start: mustTime(t, "2024-07-01T23:10:00Z"), Home: "New York Yankees", Away: "Boston Red Sox"}

	got := Match(entry, []models.OddsRow{a, b})
	require.NotNil(t, got)
	assert.Equal(t, "a", got.SportKey, "equal deltas keep input order")
}

func TestMatchIdempotentOnSuperset(t *testing.T) {
	// re-invoking with more rows must not change an already-best match
	entry := scheduleEntry(t, "Yankees", "Red Sox", "2024-07-01T23:05:00Z")
	exact := models.OddsRow{SportKey: "primary", Start: mustTime(t, "2024-07-01T23:05:00Z"), Home: "New York Yankees", Away: "Boston Red Sox"}
	later := models.OddsRow{SportKey: "espn", Start: mustTime(t, "2024-07-02T01:00:00Z"), Home: "New York Yankees", Away: "Boston Red Sox"}

	first := Match(entry, []models.OddsRow{exact})
	second := Match(entry, []models.OddsRow{exact, later})
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first.SportKey, second.SportKey)
}
