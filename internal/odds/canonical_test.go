package odds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yourusername/oddsboard/internal/models"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"uppercase and trim", "  red sox ", "RED SOX"},
		{"strip punctuation", "D-backs", "D BACKS"},
		{"collapse whitespace", "New   York    Yankees", "NEW YORK YANKEES"},
		{"apostrophe", "O's", "O S"},
		{"digits survive", "Inter Miami CF 2", "INTER MIAMI CF 2"},
		{"empty", "", ""},
		{"punctuation only", "---", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestCanonicalMLB(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Red Sox", "BOSTON RED SOX"},
		{"Boston Red Sox", "BOSTON RED SOX"},
		{"BoSox", "BOSTON RED SOX"},
		{"White Sox", "CHICAGO WHITE SOX"},
		{"Chicago White Sox", "CHICAGO WHITE SOX"},
		{"D-backs", "ARIZONA DIAMONDBACKS"},
		{"Yankees", "NEW YORK YANKEES"},
		{"New York Yankees", "NEW YORK YANKEES"},
		{"O's", "BALTIMORE ORIOLES"},
		{"St. Louis Cardinals", "ST LOUIS CARDINALS"},
		// not in the table: normalized token comes back unchanged
		{"Seattle Mariners", "SEATTLE MARINERS"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Canonical(tt.in, models.LeagueMLB))
		})
	}
}

// The SOX fallback is the one nickname the table cannot disambiguate
func TestCanonicalSoxFallback(t *testing.T) {
	assert.Equal(t, "CHICAGO WHITE SOX", Canonical("Chi White Sox", models.LeagueMLB))
	assert.Equal(t, "BOSTON RED SOX", Canonical("Bos Sox", models.LeagueMLB))
}

func TestCanonicalSoccer(t *testing.T) {
	assert.Equal(t, "MANCHESTER CITY", Canonical("Man City", models.LeagueEPL))
	assert.Equal(t, "TOTTENHAM HOTSPUR", Canonical("Spurs", models.LeagueEPL))
	assert.Equal(t, "LOS ANGELES FC", Canonical("LAFC", models.LeagueMLS))
	assert.Equal(t, "CHELSEA", Canonical("Chelsea", models.LeagueEPL))
	// MLB synonyms must not leak into soccer leagues
	assert.Equal(t, "YANKEES", Canonical("Yankees", models.LeagueEPL))
}

func TestCanonicalIdempotent(t *testing.T) {
	inputs := []string{"Red Sox", "White Sox", "Man City", "Los Angeles Dodgers", "some unknown team", "D-backs"}
	for _, league := range []models.League{models.LeagueMLB, models.LeagueEPL, models.LeagueNHL} {
		for _, in := range inputs {
			once := Canonical(in, league)
			assert.Equal(t, once, Canonical(once, league), "Canonical not idempotent for %q in %s", in, league)
		}
	}
}

// Symmetry: the result must not depend on which source a name came from
func TestCanonicalSymmetric(t *testing.T) {
	a := Canonical("Boston Red Sox", models.LeagueMLB)
	b := Canonical("Red Sox", models.LeagueMLB)
	assert.Equal(t, a, b)
}

func TestCanonicalLeagueWithoutTable(t *testing.T) {
	// leagues with no synonym table get the plain normalized token
	assert.Equal(t, "COLORADO AVALANCHE", Canonical("Colorado Avalanche", models.LeagueNHL))
}
