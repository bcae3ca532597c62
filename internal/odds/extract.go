package odds

import (
	"regexp"
	"strconv"

	"github.com/yourusername/oddsboard/internal/models"
)

// Side selects which half of a two-way market to extract
type Side string

const (
	SideHome  Side = "home"
	SideAway  Side = "away"
	SideOver  Side = "over"
	SideUnder Side = "under"
)

// Policy selects how a representative price is chosen across books
type Policy int

const (
	// BestPrice picks the most favorable payout for the bettor, meaning
	// the outcome with the lowest implied probability. Used when presenting
	// a shoppable best price across books.
	BestPrice Policy = iota
	// Consensus picks the largest cluster of identical (point, price)
	// pairs and requires at least two independent books behind it. Used
	// to corroborate a vendor price against a second feed.
	Consensus
)

var (
	overRe  = regexp.MustCompile(`(?i)^over$`)
	underRe = regexp.MustCompile(`(?i)^under$`)
)

// candidate is one surviving outcome with its originating book
type candidate struct {
	price int
	point *float64
	book  string
}

// ExtractQuote selects a representative price for one side of one market
// across all of the row's books. It returns nil when no outcome survives
// filtering or, under the Consensus policy, when fewer than two books
// agree. It never returns an error; malformed outcomes (zero price, empty
// name) are skipped individually.
func ExtractQuote(row *models.OddsRow, market models.MarketKey, side Side, policy Policy, league models.League) *models.Quote {
	if row == nil {
		return nil
	}
	cands := collect(row, market, side, league)
	if len(cands) == 0 {
		return nil
	}
	switch policy {
	case Consensus:
		return pickConsensus(cands)
	default:
		return pickBest(cands)
	}
}

// collect filters every book's matching market down to the outcomes for the
// requested side. For h2h and spreads the side is matched by canonical team
// name against the row-level name; totals match Over/Under literally.
func collect(row *models.OddsRow, market models.MarketKey, side Side, league models.League) []candidate {
	var wantTeam string
	switch side {
	case SideHome:
		wantTeam = Canonical(row.Home, league)
	case SideAway:
		wantTeam = Canonical(row.Away, league)
	}

	var out []candidate
	for _, book := range row.Books {
		m := book.Market(market)
		if m == nil {
			continue
		}
		for _, o := range m.Outcomes {
			if !o.Valid() {
				continue
			}
			if !sideMatches(o.Name, side, wantTeam, league) {
				continue
			}
			out = append(out, candidate{price: o.Price, point: o.Point, book: bookName(book)})
		}
	}
	return out
}

func sideMatches(name string, side Side, wantTeam string, league models.League) bool {
	switch side {
	case SideOver:
		return overRe.MatchString(name)
	case SideUnder:
		return underRe.MatchString(name)
	default:
		return wantTeam != "" && Canonical(name, league) == wantTeam
	}
}

func bookName(b models.Book) string {
	if b.Key != "" {
		return b.Key
	}
	return b.Title
}

// pickBest chooses the candidate with the lowest implied probability.
// American odds are not monotonic across the sign boundary (+150 pays worse
// than -105 reads), so comparison must go through the probability
// conversion, never the raw signed integers.
func pickBest(cands []candidate) *models.Quote {
	var best *candidate
	var bestProb float64
	for i := range cands {
		p, ok := ImpliedProbability(cands[i].price)
		if !ok {
			continue
		}
		if best == nil || p < bestProb {
			best = &cands[i]
			bestProb = p
		}
	}
	if best == nil {
		return nil
	}
	return &models.Quote{Price: best.price, Point: best.point, Book: best.book, Agreed: 1}
}

// pickConsensus clusters candidates by identical (point, price) and keeps
// the largest cluster, provided at least two distinct books back it. Ties
// between equal-size clusters resolve to the cluster seen first, keeping
// the result deterministic.
func pickConsensus(cands []candidate) *models.Quote {
	type cluster struct {
		members []candidate
		books   map[string]struct{}
	}
	var order []string
	clusters := make(map[string]*cluster)
	for _, c := range cands {
		key := "@" + strconv.Itoa(c.price)
		if c.point != nil {
			key = strconv.FormatFloat(*c.point, 'f', -1, 64) + key
		}
		cl, ok := clusters[key]
		if !ok {
			cl = &cluster{books: make(map[string]struct{})}
			clusters[key] = cl
			order = append(order, key)
		}
		cl.members = append(cl.members, c)
		cl.books[c.book] = struct{}{}
	}

	var top *cluster
	for _, key := range order {
		cl := clusters[key]
		if top == nil || len(cl.members) > len(top.members) {
			top = cl
		}
	}
	if top == nil || len(top.books) < 2 {
		return nil
	}
	rep := top.members[0]
	return &models.Quote{Price: rep.price, Point: rep.point, Book: rep.book, Agreed: len(top.books)}
}
