package lookup

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Snapshot is the normalized reservation record served by lookups. Cached
// entries written by older clients used camelCase keys, so decoding accepts
// both generations and normalizes to this shape.
type Snapshot struct {
	ReservationID string `json:"reservation_id"`
	CustomerName  string `json:"customer_name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Status        string `json:"status"`
	KnifeQuantity string `json:"knife_quantity"`
	DropOffDate   string `json:"drop_off_date"`
	DropOffTime   string `json:"drop_off_time"`
	PickupDate    string `json:"pickup_date,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
}

// Legacy cache entries stored under a different key per field. First match
// in the alias list wins.
var snapshotAliases = map[string][]string{
	"reservation_id": {"reservation_id", "id"},
	"customer_name":  {"customer_name", "name"},
	"phone":          {"phone"},
	"email":          {"email"},
	"status":         {"status"},
	"knife_quantity": {"knife_quantity", "knifeQty"},
	"drop_off_date":  {"drop_off_date", "dropOffDate"},
	"drop_off_time":  {"drop_off_time", "selectedSlot"},
	"pickup_date":    {"pickup_date", "pickupDate"},
	"created_at":     {"created_at", "createdAt"},
}

// DecodeSnapshot parses a cached JSON record, accepting either the current
// snake_case keys or the legacy camelCase ones.
func DecodeSnapshot(raw []byte) (*Snapshot, error) {
	var loose map[string]any
	if err := json.Unmarshal(raw, &loose); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		ReservationID: pickString(loose, snapshotAliases["reservation_id"]),
		CustomerName:  pickString(loose, snapshotAliases["customer_name"]),
		Phone:         pickString(loose, snapshotAliases["phone"]),
		Email:         pickString(loose, snapshotAliases["email"]),
		Status:        pickString(loose, snapshotAliases["status"]),
		KnifeQuantity: pickQuantity(loose, snapshotAliases["knife_quantity"]),
		DropOffDate:   pickString(loose, snapshotAliases["drop_off_date"]),
		DropOffTime:   pickString(loose, snapshotAliases["drop_off_time"]),
		PickupDate:    pickString(loose, snapshotAliases["pickup_date"]),
		CreatedAt:     pickString(loose, snapshotAliases["created_at"]),
	}
	return snap, nil
}

// Matches applies the lookup's OR semantics: the snapshot matches when any
// provided query field matches. ID comparison is case-insensitive on the
// stored side too, emails compare case-insensitively, phones byte-exact.
func (s *Snapshot) Matches(q Query) bool {
	if q.ReservationID != "" && strings.ToUpper(s.ReservationID) == q.ReservationID {
		return true
	}
	if q.Phone != "" && s.Phone == q.Phone {
		return true
	}
	if q.Email != "" && strings.EqualFold(s.Email, q.Email) {
		return true
	}
	return false
}

func pickString(m map[string]any, keys []string) string {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			if str, ok := v.(string); ok && str != "" {
				return str
			}
		}
	}
	return ""
}

// Declared quantities are strings ("Pending" included), but some legacy
// entries stored bare numbers.
func pickQuantity(m map[string]any, keys []string) string {
	for _, key := range keys {
		switch v := m[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.Itoa(int(v))
		}
	}
	return ""
}
