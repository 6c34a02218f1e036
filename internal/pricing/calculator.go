package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/chefknifeworks/crm-backend/pkg/types"
)

var oneHundred = decimal.NewFromInt(100)

// LineItem is one knife being priced: its category plus add-on services.
type LineItem struct {
	KnifeType string
	Services  []string
}

// Breakdown is the full pricing result. Amounts are exact decimals; callers
// format to two places at the edge.
type Breakdown struct {
	Subtotal        decimal.Decimal
	VolumePercent   int64
	VolumeAmount    decimal.Decimal
	ActiveDiscounts []types.Discount
	Total           decimal.Decimal
}

// Quote prices a set of knives. The volume tier applies to the subtotal
// first, then each custom discount applies to the running total in order.
// Percent discounts scale, amount discounts subtract. The final total never
// goes below zero.
func Quote(items []LineItem, discounts types.DiscountList) Breakdown {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(KnifePrice(item.KnifeType))
		for _, service := range item.Services {
			subtotal = subtotal.Add(ServicePrice(service))
		}
	}

	percent := VolumePercent(len(items))
	volumeAmount := subtotal.
		Mul(decimal.NewFromInt(percent)).
		Div(oneHundred)

	running := subtotal.Sub(volumeAmount)

	applied := make([]types.Discount, 0, len(discounts))
	for _, d := range discounts {
		if d.IsPercent() {
			running = running.Sub(running.Mul(d.Value).Div(oneHundred))
		} else {
			running = running.Sub(d.Value)
		}
		applied = append(applied, d)
	}

	if running.IsNegative() {
		running = decimal.Zero
	}

	return Breakdown{
		Subtotal:        subtotal,
		VolumePercent:   percent,
		VolumeAmount:    volumeAmount,
		ActiveDiscounts: applied,
		Total:           running.Round(2),
	}
}

// Details freezes a breakdown into the JSON shape stored on the invoice.
func (b Breakdown) Details() types.InvoiceDetails {
	active := make([]types.AppliedDiscount, 0, len(b.ActiveDiscounts))
	for _, d := range b.ActiveDiscounts {
		active = append(active, types.AppliedDiscount{
			Label: d.Label,
			Type:  d.Type,
			Value: d.Value.String(),
		})
	}
	return types.InvoiceDetails{
		Subtotal: b.Subtotal.StringFixed(2),
		VolumeDiscount: types.VolumeDiscount{
			Percent: int(b.VolumePercent),
			Amount:  b.VolumeAmount.StringFixed(2),
		},
		ActiveDiscounts: active,
		Total:           b.Total.StringFixed(2),
	}
}
