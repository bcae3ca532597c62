package models

import "time"

// League identifies a supported league/competition
type League string

const (
	LeagueMLB  League = "MLB"
	LeagueNBA  League = "NBA"
	LeagueWNBA League = "WNBA"
	LeagueNHL  League = "NHL"
	LeagueNFL  League = "NFL"
	LeagueEPL  League = "EPL"
	LeagueMLS  League = "MLS"
)

// Leagues lists every supported league in display order
var Leagues = []League{LeagueMLB, LeagueNBA, LeagueWNBA, LeagueNHL, LeagueNFL, LeagueEPL, LeagueMLS}

// IsSoccer reports whether the league uses soccer naming conventions
func (l League) IsSoccer() bool {
	return l == LeagueEPL || l == LeagueMLS
}

// ParseLeague converts a string to a League, case-insensitively
func ParseLeague(s string) (League, bool) {
	for _, l := range Leagues {
		if string(l) == s || string(l) == normalizeLeague(s) {
			return l, true
		}
	}
	return "", false
}

func normalizeLeague(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}

// ScheduleEntry represents one game as reported by a league schedule source.
// Team names are the free-text names the league API returned; canonicalization
// happens in the odds package, not here. Entries are immutable once fetched
// and live only for a single request/render cycle.
type ScheduleEntry struct {
	SourceID string    `json:"source_id,omitempty"` // provider-specific game ID
	League   League    `json:"league" validate:"required"`
	StartUTC time.Time `json:"start_utc" validate:"required"`
	Home     string    `json:"home" validate:"required"`
	Away     string    `json:"away" validate:"required"`
	Venue    string    `json:"venue,omitempty"`
}
