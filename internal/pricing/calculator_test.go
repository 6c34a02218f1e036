package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/chefknifeworks/crm-backend/pkg/types"
)

func knives(n int, knifeType string, services ...string) []LineItem {
	items := make([]LineItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, LineItem{KnifeType: knifeType, Services: services})
	}
	return items
}

func TestQuoteSingleKnifeNoDiscounts(t *testing.T) {
	b := Quote(knives(1, "japanese", "tip-repair"), nil)

	if got := b.Subtotal.StringFixed(2); got != "30.00" {
		t.Fatalf("subtotal = %s, want 30.00", got)
	}
	if b.VolumePercent != 0 {
		t.Fatalf("volume percent = %d, want 0", b.VolumePercent)
	}
	if got := b.Total.StringFixed(2); got != "30.00" {
		t.Fatalf("total = %s, want 30.00", got)
	}
}

func TestQuoteVolumeTierAtFiveKnives(t *testing.T) {
	b := Quote(knives(5, "everyday"), nil)

	if got := b.Subtotal.StringFixed(2); got != "60.00" {
		t.Fatalf("subtotal = %s, want 60.00", got)
	}
	if b.VolumePercent != 10 {
		t.Fatalf("volume percent = %d, want 10", b.VolumePercent)
	}
	if got := b.VolumeAmount.StringFixed(2); got != "6.00" {
		t.Fatalf("volume amount = %s, want 6.00", got)
	}
	if got := b.Total.StringFixed(2); got != "54.00" {
		t.Fatalf("total = %s, want 54.00", got)
	}
}

func TestQuoteVolumeTierBoundaries(t *testing.T) {
	cases := []struct {
		count int
		want  int64
	}{
		{count: 1, want: 0},
		{count: 4, want: 0},
		{count: 5, want: 10},
		{count: 9, want: 10},
		{count: 10, want: 15},
		{count: 14, want: 15},
		{count: 15, want: 20},
		{count: 30, want: 20},
	}
	for _, tc := range cases {
		if got := VolumePercent(tc.count); got != tc.want {
			t.Fatalf("VolumePercent(%d) = %d, want %d", tc.count, got, tc.want)
		}
	}
}

func TestQuoteCustomDiscountsApplySequentially(t *testing.T) {
	// 5 everyday knives with a tip repair each: subtotal 85, minus 10%
	// volume leaves 76.50. A 10% discount then a $5 coupon should land on
	// 63.85, not 71.50 or 64.35.
	discounts := types.DiscountList{
		{Label: "loyalty", Type: types.DiscountTypePercent, Value: decimal.NewFromInt(10)},
		{Label: "coupon", Type: types.DiscountTypeAmount, Value: decimal.NewFromInt(5)},
	}
	b := Quote(knives(5, "everyday", "tip-repair"), discounts)

	if got := b.Subtotal.StringFixed(2); got != "85.00" {
		t.Fatalf("subtotal = %s, want 85.00", got)
	}
	if got := b.Total.StringFixed(2); got != "63.85" {
		t.Fatalf("total = %s, want 63.85", got)
	}
	if len(b.ActiveDiscounts) != 2 {
		t.Fatalf("expected 2 active discounts, got %d", len(b.ActiveDiscounts))
	}
}

func TestQuoteFifteenPercentTierWithCustomDiscount(t *testing.T) {
	// 10 everyday knives: subtotal 120, minus the 15% volume tier leaves
	// 102, minus a 10% custom discount lands on 91.80.
	discounts := types.DiscountList{
		{Label: "loyalty", Type: types.DiscountTypePercent, Value: decimal.NewFromInt(10)},
	}
	b := Quote(knives(10, "everyday"), discounts)

	if got := b.Subtotal.StringFixed(2); got != "120.00" {
		t.Fatalf("subtotal = %s, want 120.00", got)
	}
	if b.VolumePercent != 15 {
		t.Fatalf("volume percent = %d, want 15", b.VolumePercent)
	}
	if got := b.Total.StringFixed(2); got != "91.80" {
		t.Fatalf("total = %s, want 91.80", got)
	}
}

func TestQuoteTotalNeverNegative(t *testing.T) {
	discounts := types.DiscountList{
		{Label: "comp", Type: types.DiscountTypeAmount, Value: decimal.NewFromInt(500)},
	}
	b := Quote(knives(1, "scissors"), discounts)

	if !b.Total.IsZero() {
		t.Fatalf("total = %s, want 0", b.Total.String())
	}
}

func TestQuoteUnknownTypesPriceAtZero(t *testing.T) {
	b := Quote([]LineItem{{KnifeType: "cleaver", Services: []string{"engraving"}}}, nil)

	if !b.Subtotal.IsZero() {
		t.Fatalf("subtotal = %s, want 0", b.Subtotal.String())
	}
	if !b.Total.IsZero() {
		t.Fatalf("total = %s, want 0", b.Total.String())
	}
}

func TestBreakdownDetailsFreezesStrings(t *testing.T) {
	discounts := types.DiscountList{
		{Label: "friends", Type: types.DiscountTypePercent, Value: decimal.NewFromInt(5)},
	}
	details := Quote(knives(5, "everyday"), discounts).Details()

	if details.Subtotal != "60.00" {
		t.Fatalf("details subtotal = %s, want 60.00", details.Subtotal)
	}
	if details.VolumeDiscount.Percent != 10 {
		t.Fatalf("details volume percent = %d, want 10", details.VolumeDiscount.Percent)
	}
	if details.VolumeDiscount.Amount != "6.00" {
		t.Fatalf("details volume amount = %s, want 6.00", details.VolumeDiscount.Amount)
	}
	if details.Total != "51.30" {
		t.Fatalf("details total = %s, want 51.30", details.Total)
	}
	if len(details.ActiveDiscounts) != 1 || details.ActiveDiscounts[0].Label != "friends" {
		t.Fatalf("unexpected active discounts: %+v", details.ActiveDiscounts)
	}
}
