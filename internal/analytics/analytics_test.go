package analytics

import (
	"math"
	"testing"
)

func TestSafeRatioFloorsDenominator(t *testing.T) {
	if got := SafeRatio(0, 0); got != 0 {
		t.Fatalf("ratio(0,0) = %v, want 0", got)
	}
	if got := SafeRatio(5, 0); got != 5 {
		t.Fatalf("ratio(5,0) = %v, want 5", got)
	}
	if got := SafeRatio(1, 4); got != 0.25 {
		t.Fatalf("ratio(1,4) = %v, want 0.25", got)
	}
}

func TestSafeRatioNeverNaNOrInf(t *testing.T) {
	for _, n := range []int64{0, 1, 100} {
		got := SafeRatio(n, 0)
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Fatalf("ratio(%d,0) = %v", n, got)
		}
	}
}

func TestCTRPercent(t *testing.T) {
	if got := (Totals{}).CTRPercent(); got != 0 {
		t.Fatalf("ctr of zero totals = %v, want 0", got)
	}
	if got := (Totals{Views: 200, Clicks: 50}).CTRPercent(); got != 25 {
		t.Fatalf("ctr = %v, want 25", got)
	}
}

func TestKindValid(t *testing.T) {
	if !KindView.Valid() || !KindClick.Valid() {
		t.Fatal("expected VIEW and CLICK to be valid")
	}
	if Kind("HOVER").Valid() {
		t.Fatal("unexpected valid kind")
	}
}
