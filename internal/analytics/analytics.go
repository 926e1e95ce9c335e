// Package analytics defines engagement event kinds and derived metrics.
package analytics

// Kind tags one engagement event variant.
type Kind string

const (
	KindView  Kind = "VIEW"
	KindClick Kind = "CLICK"
)

// Valid reports whether the kind belongs to the closed set.
func (k Kind) Valid() bool {
	return k == KindView || k == KindClick
}

// SafeRatio divides numerator by denominator with the denominator floored at
// 1, so a zero count never produces NaN or infinity.
func SafeRatio(numerator, denominator int64) float64 {
	if denominator < 1 {
		denominator = 1
	}
	return float64(numerator) / float64(denominator)
}

// Totals aggregates engagement counts for one account's profiles.
type Totals struct {
	Views  int64
	Clicks int64
}

// CTRPercent derives the click-through rate as a percentage.
func (t Totals) CTRPercent() float64 {
	return SafeRatio(t.Clicks, t.Views) * 100
}
