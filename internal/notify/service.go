package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/chefknifeworks/crm-backend/internal/comms"
	"github.com/chefknifeworks/crm-backend/internal/reservations"
	"github.com/chefknifeworks/crm-backend/pkg/enums"
	pkgerrors "github.com/chefknifeworks/crm-backend/pkg/errors"
	"gorm.io/gorm"
)

// Kind names the canned reminder being sent.
type Kind string

const (
	KindDropOff Kind = "dropoff"
	KindPickup  Kind = "pickup"
)

// Service sends the canned drop-off and pickup reminders. There is no SMS
// gateway wired up; sending means logging the message so staff can read it
// out or paste it into their phone.
type Service interface {
	Send(ctx context.Context, reservationID string, kind Kind) (*comms.Entry, error)
}

type service struct {
	comms   comms.Service
	resRepo reservations.Repository
}

// NewService builds the notify service.
func NewService(commsSvc comms.Service, resRepo reservations.Repository) (Service, error) {
	if commsSvc == nil {
		return nil, fmt.Errorf("communications service required")
	}
	if resRepo == nil {
		return nil, fmt.Errorf("reservations repository required")
	}
	return &service{comms: commsSvc, resRepo: resRepo}, nil
}

func (s *service) Send(ctx context.Context, reservationID string, kind Kind) (*comms.Entry, error) {
	if reservationID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reservation id required")
	}

	row, err := s.resRepo.FindReservationByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reservation")
	}

	name := ""
	if row.Customer != nil {
		name = row.Customer.Name
	}

	var message string
	switch kind {
	case KindDropOff:
		message = fmt.Sprintf(
			"Hi %s! This is Chef Knife Works confirming your knife drop-off on %s at %s. Reservation code: %s.",
			name, row.DropOffDate, row.DropOffTime, row.ID,
		)
	case KindPickup:
		message = fmt.Sprintf(
			"Hi %s! Your knives are sharpened and ready for pickup at Chef Knife Works. Reservation code: %s.",
			name, row.ID,
		)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown notification kind").
			WithDetails(map[string]any{"kind": string(kind)})
	}

	return s.comms.Log(ctx, comms.LogInput{
		ReservationID: reservationID,
		Channel:       enums.CommChannelSMS,
		Direction:     enums.CommDirectionOutbound,
		Summary:       message,
	})
}
