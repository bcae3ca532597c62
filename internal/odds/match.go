package odds

import (
	"strings"

	"github.com/yourusername/oddsboard/internal/models"
)

// nameMatch reports whether two canonical names refer to the same team.
// Exact equality, or substring containment in either direction; the latter
// tolerates partial names like "DODGERS" against "LOS ANGELES DODGERS".
func nameMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}

// Match finds the odds row describing the same matchup as the schedule
// entry, or nil when no vendor row matches. Absence of odds is an expected
// outcome, not an error. When several rows name the same teams (double
// headers, rescheduled games), the row whose start time is closest to the
// schedule's wins; remaining ties keep the earliest row in input order, so
// the result is deterministic for a given input.
func Match(entry models.ScheduleEntry, rows []models.OddsRow) *models.OddsRow {
	canonHome := Canonical(entry.Home, entry.League)
	canonAway := Canonical(entry.Away, entry.League)

	var best *models.OddsRow
	var bestDelta int64
	for i := range rows {
		row := &rows[i]
		if !nameMatch(Canonical(row.Home, entry.League), canonHome) {
			continue
		}
		if !nameMatch(Canonical(row.Away, entry.League), canonAway) {
			continue
		}
		delta := entry.StartUTC.Sub(row.Start).Milliseconds()
		if delta < 0 {
			delta = -delta
		}
		if best == nil || delta < bestDelta {
			best = row
			bestDelta = delta
		}
	}
	return best
}
