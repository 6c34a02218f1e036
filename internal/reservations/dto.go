package reservations

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/chefknifeworks/crm-backend/pkg/db/models"
	"github.com/chefknifeworks/crm-backend/pkg/enums"
	"github.com/chefknifeworks/crm-backend/pkg/types"
)

// CustomerView is the customer block embedded in reservation payloads.
type CustomerView struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// KnifeView is one knife line in reservation payloads.
type KnifeView struct {
	Position  int      `json:"position"`
	KnifeType string   `json:"knife_type"`
	Brand     *string  `json:"brand,omitempty"`
	Price     string   `json:"price"`
	Services  []string `json:"services"`
	Notes     *string  `json:"notes,omitempty"`
}

// InvoiceView is the frozen invoice attached to a reservation, when present.
type InvoiceView struct {
	Subtotal      string               `json:"subtotal"`
	Total         string               `json:"total"`
	Status        string               `json:"status"`
	PaymentMethod *string              `json:"payment_method,omitempty"`
	PaymentLink   string               `json:"payment_link"`
	Details       types.InvoiceDetails `json:"details"`
	PaidAt        *time.Time           `json:"paid_at,omitempty"`
}

// Summary is the list-endpoint projection of a reservation.
type Summary struct {
	ID            string                  `json:"id"`
	Status        enums.ReservationStatus `json:"status"`
	Customer      CustomerView            `json:"customer"`
	KnifeQuantity string                  `json:"knife_quantity"`
	DropOffDate   string                  `json:"drop_off_date"`
	DropOffTime   string                  `json:"drop_off_time"`
	PickupDate    *string                 `json:"pickup_date,omitempty"`
	Invoiced      bool                    `json:"invoiced"`
	CreatedAt     time.Time               `json:"created_at"`
}

// Detail is the full reservation payload for the detail endpoint and the
// cached snapshot.
type Detail struct {
	ID             string                  `json:"id"`
	Status         enums.ReservationStatus `json:"status"`
	Customer       CustomerView            `json:"customer"`
	KnifeQuantity  string                  `json:"knife_quantity"`
	ActualQuantity *int                    `json:"actual_quantity,omitempty"`
	DropOffDate    string                  `json:"drop_off_date"`
	DropOffTime    string                  `json:"drop_off_time"`
	PickupDate     *string                 `json:"pickup_date,omitempty"`
	Notes          *string                 `json:"notes,omitempty"`
	Photos         []string                `json:"photos,omitempty"`
	CheckInTime    *time.Time              `json:"check_in_time,omitempty"`
	Knives         []KnifeView             `json:"knives"`
	Invoice        *InvoiceView            `json:"invoice,omitempty"`
	Communications []CommunicationView     `json:"communications"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

// CommunicationView is one contact-log entry as joined into the detail.
type CommunicationView struct {
	Channel   string    `json:"channel"`
	Direction string    `json:"direction"`
	Summary   string    `json:"summary"`
	Content   *string   `json:"content,omitempty"`
	SentBy    *string   `json:"sent_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// KnifeInput is the client-supplied description of one knife on a POS save.
type KnifeInput struct {
	KnifeType string
	Brand     *string
	Price     decimal.Decimal
	Services  []string
	Notes     *string
}

// CheckInInput is the payload for the check-in operation.
type CheckInInput struct {
	ReservationID  string
	ActualQuantity int
	Photos         []string
	CheckInTime    time.Time
}

// StatusUpdateInput is the payload for a direct status change.
type StatusUpdateInput struct {
	ReservationID string
	Status        enums.ReservationStatus
	PickupDate    *string
}

func summaryFromModel(m models.Reservation) Summary {
	out := Summary{
		ID:            m.ID,
		Status:        m.Status,
		KnifeQuantity: m.KnifeQuantity,
		DropOffDate:   m.DropOffDate,
		DropOffTime:   m.DropOffTime,
		PickupDate:    m.PickupDate,
		Invoiced:      m.Invoice != nil,
		CreatedAt:     m.CreatedAt,
	}
	if m.Customer != nil {
		out.Customer = CustomerView{
			Name:  m.Customer.Name,
			Phone: m.Customer.Phone,
			Email: m.Customer.Email,
		}
	}
	return out
}

// DetailFromModel projects a loaded reservation row into the API shape.
func DetailFromModel(m *models.Reservation) *Detail {
	if m == nil {
		return nil
	}
	out := &Detail{
		ID:             m.ID,
		Status:         m.Status,
		KnifeQuantity:  m.KnifeQuantity,
		ActualQuantity: m.ActualQuantity,
		DropOffDate:    m.DropOffDate,
		DropOffTime:    m.DropOffTime,
		PickupDate:     m.PickupDate,
		Notes:          m.Notes,
		Photos:         append([]string(nil), m.Photos...),
		CheckInTime:    m.CheckInTime,
		Knives:         make([]KnifeView, 0, len(m.Knives)),
		Communications: make([]CommunicationView, 0, len(m.Communications)),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	if m.Customer != nil {
		out.Customer = CustomerView{
			Name:  m.Customer.Name,
			Phone: m.Customer.Phone,
			Email: m.Customer.Email,
		}
	}
	for _, k := range m.Knives {
		out.Knives = append(out.Knives, KnifeView{
			Position:  k.Position,
			KnifeType: k.KnifeType,
			Brand:     k.Brand,
			Price:     k.Price.StringFixed(2),
			Services:  append([]string(nil), k.Services...),
			Notes:     k.Notes,
		})
	}
	for _, c := range m.Communications {
		out.Communications = append(out.Communications, CommunicationView{
			Channel:   c.Channel.String(),
			Direction: c.Direction.String(),
			Summary:   c.Summary,
			Content:   c.Content,
			SentBy:    c.SentBy,
			CreatedAt: c.CreatedAt,
		})
	}
	if inv := m.Invoice; inv != nil {
		var method *string
		if inv.PaymentMethod != nil {
			m := inv.PaymentMethod.String()
			method = &m
		}
		out.Invoice = &InvoiceView{
			Subtotal:      inv.Subtotal.StringFixed(2),
			Total:         inv.Total.StringFixed(2),
			Status:        inv.Status.String(),
			PaymentMethod: method,
			PaymentLink:   inv.PaymentLink,
			Details:       inv.Details,
			PaidAt:        inv.PaidAt,
		}
	}
	return out
}
