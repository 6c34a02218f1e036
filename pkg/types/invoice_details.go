package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// AppliedDiscount is one custom adjustment recorded on a frozen invoice,
// in the order it was applied.
type AppliedDiscount struct {
	Label string `json:"label"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

// VolumeDiscount records the tier that matched at invoice time.
type VolumeDiscount struct {
	Percent int    `json:"percent"`
	Amount  string `json:"amount"`
}

// InvoiceDetails is the pricing breakdown frozen at invoice creation.
// Later catalog or discount edits never change a stored invoice.
type InvoiceDetails struct {
	Subtotal        string            `json:"subtotal"`
	VolumeDiscount  VolumeDiscount    `json:"volumeDiscount"`
	ActiveDiscounts []AppliedDiscount `json:"activeDiscounts"`
	Total           string            `json:"total"`
}

// Value serializes the breakdown to JSON for the invoices.details column.
func (d InvoiceDetails) Value() (driver.Value, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("invoice details: marshal %w", err)
	}
	return string(raw), nil
}

// Scan implements sql.Scanner for the invoices.details column.
func (d *InvoiceDetails) Scan(value interface{}) error {
	if value == nil {
		*d = InvoiceDetails{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("invoice details: unsupported scan type %T", value)
	}

	if len(raw) == 0 {
		*d = InvoiceDetails{}
		return nil
	}
	return json.Unmarshal(raw, d)
}
