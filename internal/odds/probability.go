package odds

import "math"

// ImpliedProbability converts an American-odds price to the win probability
// it encodes, ignoring the bookmaker's margin. The boundary prices +100 and
// -100 both map to exactly 0.5. A price of 0 is not a valid American-odds
// value; it reports ok=false, as does anything non-finite after conversion.
func ImpliedProbability(price int) (float64, bool) {
	if price == 0 {
		return 0, false
	}
	var p float64
	if price > 0 {
		p = 100.0 / (float64(price) + 100.0)
	} else {
		p = float64(-price) / (float64(-price) + 100.0)
	}
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, false
	}
	return p, true
}

// DecimalOdds converts an American price to European decimal odds, the
// multiplier on the stake a winning bet returns. A price of 0 is invalid
// and reports ok=false.
func DecimalOdds(price int) (float64, bool) {
	if price == 0 {
		return 0, false
	}
	if price > 0 {
		return 1 + float64(price)/100.0, true
	}
	return 1 + 100.0/float64(-price), true
}

// DevigTwoWay removes the bookmaker margin from a two-sided market. The raw
// implied probabilities of a real market sum slightly above 1; the returned
// pair is normalized to sum to exactly 1. ok is false when either price is
// unusable.
func DevigTwoWay(priceA, priceB int) (probA, probB float64, ok bool) {
	pa, okA := ImpliedProbability(priceA)
	pb, okB := ImpliedProbability(priceB)
	if !okA || !okB {
		return 0, 0, false
	}
	z := pa + pb
	if z <= 0 {
		return 0, 0, false
	}
	return pa / z, pb / z, true
}

// FavoriteConfidence returns the favorite's post-devig probability,
// the number the UI shows as "confidence".
func FavoriteConfidence(probA, probB float64) float64 {
	return math.Max(probA, probB)
}
