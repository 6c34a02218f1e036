package lookup

import "strings"

// Query carries the customer-entered search terms. Any combination may be
// set; a record matches when ANY provided field matches.
type Query struct {
	ReservationID string
	Phone         string
	Email         string
}

// Normalize trims the inputs and uppercases the reservation ID, since the
// confirmation codes are issued uppercase but customers type them freely.
// Phone stays byte-exact: the shop never normalized phone formats, so a
// stored "(555) 123-4567" only matches that exact string.
func (q Query) Normalize() Query {
	return Query{
		ReservationID: strings.ToUpper(strings.TrimSpace(q.ReservationID)),
		Phone:         strings.TrimSpace(q.Phone),
		Email:         strings.TrimSpace(q.Email),
	}
}

// IsEmpty reports whether no search terms were provided.
func (q Query) IsEmpty() bool {
	return q.ReservationID == "" && q.Phone == "" && q.Email == ""
}
