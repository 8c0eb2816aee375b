package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestEqualWithin(t *testing.T) {
	a := decimal.NewFromFloat(100.00)
	b := decimal.NewFromFloat(99.995)
	if !EqualWithin(a, b) {
		t.Error("expected 0.005 difference to be within epsilon")
	}
	c := decimal.NewFromFloat(99.90)
	if EqualWithin(a, c) {
		t.Error("expected 0.10 difference to exceed epsilon")
	}
}

func TestFloorZero(t *testing.T) {
	if !FloorZero(decimal.NewFromFloat(-3.5)).IsZero() {
		t.Error("negative amounts clamp to zero")
	}
	v := decimal.NewFromFloat(1.25)
	if !FloorZero(v).Equal(v) {
		t.Error("positive amounts pass through")
	}
}

func TestRound(t *testing.T) {
	got := Round(decimal.NewFromFloat(33.333333))
	if !got.Equal(decimal.NewFromFloat(33.33)) {
		t.Errorf("Round = %s, want 33.33", got)
	}
}
