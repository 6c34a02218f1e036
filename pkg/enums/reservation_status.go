package enums

import "fmt"

// ReservationStatus tracks where a reservation sits in the sharpening
// workflow, from the initial booking through customer pickup.
type ReservationStatus string

const (
	ReservationStatusBooked     ReservationStatus = "booked"
	ReservationStatusReceived   ReservationStatus = "received"
	ReservationStatusSharpening ReservationStatus = "sharpening"
	ReservationStatusFinished   ReservationStatus = "finished"
	ReservationStatusReady      ReservationStatus = "ready"
	ReservationStatusPickedUp   ReservationStatus = "picked-up"
)

var validReservationStatuses = []ReservationStatus{
	ReservationStatusBooked,
	ReservationStatusReceived,
	ReservationStatusSharpening,
	ReservationStatusFinished,
	ReservationStatusReady,
	ReservationStatusPickedUp,
}

// String implements fmt.Stringer.
func (s ReservationStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ReservationStatus.
func (s ReservationStatus) IsValid() bool {
	for _, candidate := range validReservationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseReservationStatus converts raw input into a ReservationStatus.
func ParseReservationStatus(value string) (ReservationStatus, error) {
	for _, candidate := range validReservationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid reservation status %q", value)
}

// ReservationStatuses returns the workflow order used by progress displays.
func ReservationStatuses() []ReservationStatus {
	out := make([]ReservationStatus, len(validReservationStatuses))
	copy(out, validReservationStatuses)
	return out
}
