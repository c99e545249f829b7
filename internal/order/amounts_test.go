package order

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestMakingAmount(t *testing.T) {
	amount := decimal.RequireFromString("1.5")

	got, err := MakingAmount(amount, 18)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "1500000000000000000" {
		t.Errorf("expected 1500000000000000000, got %s", got)
	}
}

func TestTakingAmount(t *testing.T) {
	amount := decimal.RequireFromString("1.5")
	price := decimal.RequireFromString("2000")

	got, err := TakingAmount(amount, price, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "3000000000" {
		t.Errorf("expected 3000000000, got %s", got)
	}
}

func TestToBaseUnits_TruncatesTowardZero(t *testing.T) {
	// 0.1234567 with 6 decimals leaves a fractional base unit to drop
	amount := decimal.RequireFromString("0.1234567")

	got, err := ToBaseUnits(amount, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "123456" {
		t.Errorf("expected 123456, got %s", got)
	}
}

func TestToBaseUnits_ExactAtHighPrecision(t *testing.T) {
	// would misround through float64 intermediates
	amount := decimal.RequireFromString("0.123456789012345678")

	got, err := ToBaseUnits(amount, 18)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "123456789012345678" {
		t.Errorf("expected 123456789012345678, got %s", got)
	}
}

func TestToBaseUnits_RejectsNonPositive(t *testing.T) {
	for _, in := range []string{"0", "-1.5", "0.0000001"} {
		amount := decimal.RequireFromString(in)
		if _, err := ToBaseUnits(amount, 6); err == nil {
			t.Errorf("expected error for amount %s", in)
		}
	}
}
