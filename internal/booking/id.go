package booking

import (
	"crypto/rand"
	"fmt"
	"regexp"
)

// Reservation IDs are the short confirmation codes printed on drop-off tags.
// Uppercase letters and digits keep them easy to read back over the phone.
const (
	idLength  = 6
	idCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var idPattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// GenerateReservationID produces a random 6-character confirmation code.
func GenerateReservationID() (string, error) {
	buf := make([]byte, idLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating reservation id: %w", err)
	}
	out := make([]byte, idLength)
	for i, b := range buf {
		out[i] = idCharset[int(b)%len(idCharset)]
	}
	return string(out), nil
}

// IsValidReservationID reports whether the value looks like a confirmation code.
func IsValidReservationID(id string) bool {
	return idPattern.MatchString(id)
}
