package pricing

import "github.com/shopspring/decimal"

// Base sharpening price per knife category. Unlisted categories price at
// zero rather than failing, so a stale client dropdown cannot block checkout.
var knifePrices = map[string]decimal.Decimal{
	"everyday": decimal.NewFromInt(12),
	"japanese": decimal.NewFromInt(25),
	"scissors": decimal.NewFromInt(10),
}

// Add-on service prices, charged per knife.
var servicePrices = map[string]decimal.Decimal{
	"tip-repair":    decimal.NewFromInt(5),
	"chip-removal":  decimal.NewFromInt(8),
	"rust-removal":  decimal.NewFromInt(7),
	"polishing":     decimal.NewFromInt(6),
	"micro-bevel":   decimal.NewFromInt(10),
	"straightening": decimal.NewFromInt(12),
}

// volumeTiers are checked from the largest count down; the first match wins.
var volumeTiers = []struct {
	MinCount int
	Percent  int64
}{
	{MinCount: 15, Percent: 20},
	{MinCount: 10, Percent: 15},
	{MinCount: 5, Percent: 10},
}

// KnifePrice returns the base price for a knife category.
func KnifePrice(knifeType string) decimal.Decimal {
	if price, ok := knifePrices[knifeType]; ok {
		return price
	}
	return decimal.Zero
}

// ServicePrice returns the price for an add-on service.
func ServicePrice(service string) decimal.Decimal {
	if price, ok := servicePrices[service]; ok {
		return price
	}
	return decimal.Zero
}

// VolumePercent returns the discount tier for the given knife count.
func VolumePercent(count int) int64 {
	for _, tier := range volumeTiers {
		if count >= tier.MinCount {
			return tier.Percent
		}
	}
	return 0
}

// Catalog returns the published price lists for the settings screen.
func Catalog() (knives map[string]string, services map[string]string) {
	knives = make(map[string]string, len(knifePrices))
	for name, price := range knifePrices {
		knives[name] = price.StringFixed(2)
	}
	services = make(map[string]string, len(servicePrices))
	for name, price := range servicePrices {
		services[name] = price.StringFixed(2)
	}
	return knives, services
}
