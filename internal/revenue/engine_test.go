package revenue

import (
	"testing"

	"github.com/google/uuid"
)

func TestBestDiscountThresholdBoundary(t *testing.T) {
	item := uuid.New()
	catalog := []Discount{{ID: uuid.New(), Name: "bulk", Percent: 10, Threshold: 5}}

	_, _, ok, _ := BestDiscount(LineEntry{ItemID: item, Quantity: 4, UnitPrice: 120}, catalog)
	if ok {
		t.Fatal("quantity one below threshold must not be eligible")
	}

	d, savings, ok, _ := BestDiscount(LineEntry{ItemID: item, Quantity: 5, UnitPrice: 120}, catalog)
	if !ok {
		t.Fatal("quantity equal to threshold must be eligible")
	}
	if d.Name != "bulk" || savings != 60 {
		t.Fatalf("expected bulk discount saving 60, got %q saving %v", d.Name, savings)
	}
}

func TestBestDiscountGreatestSavingsWins(t *testing.T) {
	ten := Discount{ID: uuid.New(), Name: "ten", Percent: 10, Threshold: 5}
	fifteen := Discount{ID: uuid.New(), Name: "fifteen", Percent: 15, Threshold: 10}
	catalog := []Discount{ten, fifteen}

	d, s, ok, _ := BestDiscount(LineEntry{Quantity: 6, UnitPrice: 120}, catalog)
	if !ok || d.ID != ten.ID || s != 72 {
		t.Fatalf("quantity 6 should use the 10%% discount saving 72, got %q saving %v", d.Name, s)
	}

	d, s, ok, _ = BestDiscount(LineEntry{Quantity: 19, UnitPrice: 120}, catalog)
	if !ok || d.ID != fifteen.ID || s != 342 {
		t.Fatalf("quantity 19 should use the 15%% discount saving 342, got %q saving %v", d.Name, s)
	}
}

func TestBestDiscountSameThresholdPrefersHigherPercent(t *testing.T) {
	catalog := []Discount{
		{ID: uuid.New(), Name: "ten", Percent: 10, Threshold: 5},
		{ID: uuid.New(), Name: "fifteen", Percent: 15, Threshold: 5},
	}
	d, s, ok, _ := BestDiscount(LineEntry{Quantity: 6, UnitPrice: 120}, catalog)
	if !ok || d.Name != "fifteen" || s != 108 {
		t.Fatalf("expected 15%% discount saving 108, got %q saving %v", d.Name, s)
	}
}

func TestBestDiscountFirstSeenWinsExactTie(t *testing.T) {
	first := Discount{ID: uuid.New(), Name: "first", Percent: 10, Threshold: 5}
	twin := Discount{ID: uuid.New(), Name: "twin", Percent: 10, Threshold: 3}
	d, _, ok, _ := BestDiscount(LineEntry{Quantity: 6, UnitPrice: 100}, []Discount{first, twin})
	if !ok || d.ID != first.ID {
		t.Fatalf("expected first-seen discount on exact tie, got %q", d.Name)
	}
}

func TestBestDiscountSkipsMalformed(t *testing.T) {
	good := Discount{ID: uuid.New(), Name: "good", Percent: 10, Threshold: 5}
	catalog := []Discount{
		{ID: uuid.New(), Name: "negative", Percent: -1, Threshold: 5},
		{ID: uuid.New(), Name: "overflow", Percent: 120, Threshold: 5},
		{ID: uuid.New(), Name: "no-threshold", Percent: 50, Threshold: 0},
		good,
	}
	d, _, ok, skipped := BestDiscount(LineEntry{Quantity: 10, UnitPrice: 100}, catalog)
	if !ok || d.ID != good.ID {
		t.Fatalf("expected the valid discount to win, got %q", d.Name)
	}
	if skipped != 3 {
		t.Fatalf("expected 3 malformed discounts skipped, got %d", skipped)
	}
}

func TestSavingsUsesIntegralPercentOnly(t *testing.T) {
	entry := LineEntry{Quantity: 10, UnitPrice: 100}
	d := Discount{Percent: 12.9, Threshold: 1}
	if s := Savings(entry, d); s != 120 {
		t.Fatalf("expected fractional percent truncated to 12, saving 120, got %v", s)
	}
}
