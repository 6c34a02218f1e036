package reservations

import (
	"github.com/chefknifeworks/crm-backend/pkg/enums"
	pkgerrors "github.com/chefknifeworks/crm-backend/pkg/errors"
)

// workflowOrder is the usual forward path a reservation takes through the shop.
var workflowOrder = map[enums.ReservationStatus]int{
	enums.ReservationStatusBooked:     0,
	enums.ReservationStatusReceived:   1,
	enums.ReservationStatusSharpening: 2,
	enums.ReservationStatusFinished:   3,
	enums.ReservationStatusReady:      4,
	enums.ReservationStatusPickedUp:   5,
}

// ValidateTransition reports whether moving from one status to the next follows
// the forward workflow. The update endpoint does not call this: staff regularly
// jump statuses to fix mistakes (a knife logged as picked-up by accident, a
// rack re-counted after check-in), so any valid status is accepted there. The
// helper exists for clients that want to warn before an unusual jump.
func ValidateTransition(from, to enums.ReservationStatus) error {
	if !from.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown current status")
	}
	if !to.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown target status")
	}
	if workflowOrder[to] != workflowOrder[from]+1 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "status change skips workflow steps").
			WithDetails(map[string]any{"from": from.String(), "to": to.String()})
	}
	return nil
}
