// Package odds implements the schedule/odds reconciliation core: team-name
// canonicalization, odds-row matching, per-market price selection, and
// American-odds probability math. Every function here is a pure transform
// over its inputs and is safe for concurrent use; the synonym tables are
// fixed package data.
package odds

import (
	"strings"

	"github.com/yourusername/oddsboard/internal/models"
)

// mlbSynonyms maps normalized MLB nicknames to canonical franchise names
var mlbSynonyms = map[string]string{
	"D BACKS":   "ARIZONA DIAMONDBACKS",
	"DBACKS":    "ARIZONA DIAMONDBACKS",
	"BOSOX":     "BOSTON RED SOX",
	"RED SOX":   "BOSTON RED SOX",
	"WHITESOX":  "CHICAGO WHITE SOX",
	"WHITE SOX": "CHICAGO WHITE SOX",
	"CHISOX":    "CHICAGO WHITE SOX",
	"JAYS":      "TORONTO BLUE JAYS",
	"BLUE JAYS": "TORONTO BLUE JAYS",
	"YANKS":     "NEW YORK YANKEES",
	"YANKEES":   "NEW YORK YANKEES",
	"METS":      "NEW YORK METS",
	"HALOS":     "LOS ANGELES ANGELS",
	"ANGELS":    "LOS ANGELES ANGELS",
	"DODGERS":   "LOS ANGELES DODGERS",
	"GUARDS":    "CLEVELAND GUARDIANS",
	"CARDS":     "ST LOUIS CARDINALS",
	"ROX":       "COLORADO ROCKIES",
	"NATS":      "WASHINGTON NATIONALS",
	"OS":        "BALTIMORE ORIOLES",
	"O S":       "BALTIMORE ORIOLES",
}

// soccerSynonyms maps normalized EPL/MLS nicknames to canonical club names.
// Kept conservative: only nicknames seen in real feeds.
var soccerSynonyms = map[string]string{
	"MAN CITY":    "MANCHESTER CITY",
	"MAN U":       "MANCHESTER UNITED",
	"MAN UNITED":  "MANCHESTER UNITED",
	"SPURS":       "TOTTENHAM HOTSPUR",
	"GUNNERS":     "ARSENAL",
	"HAMMERS":     "WEST HAM UNITED",
	"TOON":        "NEWCASTLE UNITED",
	"WOLVES":      "WOLVERHAMPTON WANDERERS",
	"BRIGHTON":    "BRIGHTON AND HOVE ALBION",
	"LAFC":        "LOS ANGELES FC",
	"RED BULLS":   "NEW YORK RED BULLS",
	"NYCFC":       "NEW YORK CITY FC",
	"INTER MIAMI": "INTER MIAMI CF",
	"AUSTIN":      "AUSTIN FC",
	"CHARLOTTE":   "CHARLOTTE FC",
	"SOUNDERS":    "SEATTLE SOUNDERS FC",
}

// Normalize uppercases a name, strips everything outside [A-Z0-9 ],
// collapses internal whitespace and trims. The result is the comparison
// token all matching works on.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	lastSpace := true // leading spaces are dropped
	for _, r := range strings.ToUpper(raw) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		default:
			// every other rune acts as a separator
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// Canonical resolves a free-text team name to one canonical string for the
// league. Unrecognized names come back normalized but otherwise unchanged,
// which is the common case for full official franchise names. The function
// is symmetric: Canonical(a) == Canonical(b) does not depend on which feed
// a name came from, and it is idempotent.
func Canonical(raw string, league models.League) string {
	n := Normalize(raw)
	if league.IsSoccer() {
		if full, ok := soccerSynonyms[n]; ok {
			return full
		}
		return n
	}
	if league == models.LeagueMLB {
		if full, ok := mlbSynonyms[n]; ok {
			return full
		}
		// The one ambiguous nickname not worth tabulating exhaustively:
		// any unresolved "...SOX" variant is one of two franchises.
		if strings.Contains(n, "SOX") {
			if strings.Contains(n, "WHITE") {
				return "CHICAGO WHITE SOX"
			}
			return "BOSTON RED SOX"
		}
	}
	return n
}
