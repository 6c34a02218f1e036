package types

import "github.com/shopspring/decimal"

const (
	DiscountTypePercent = "percent"
	DiscountTypeAmount  = "amount"
)

// Discount is a staff-defined adjustment applied on top of the volume tier.
// Percent discounts multiply the running total, amount discounts subtract a
// flat dollar value.
type Discount struct {
	Label string          `json:"label"`
	Type  string          `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// IsPercent reports whether the discount scales the running total.
func (d Discount) IsPercent() bool {
	return d.Type == DiscountTypePercent
}

// DiscountList is the ordered set of active custom discounts. Order matters:
// each entry applies to the total left by the previous one.
type DiscountList []Discount
