package reservations

import (
	"testing"

	"github.com/chefknifeworks/crm-backend/pkg/enums"
	pkgerrors "github.com/chefknifeworks/crm-backend/pkg/errors"
)

func TestValidateTransitionForwardSteps(t *testing.T) {
	steps := enums.ReservationStatuses()
	for i := 0; i < len(steps)-1; i++ {
		if err := ValidateTransition(steps[i], steps[i+1]); err != nil {
			t.Fatalf("ValidateTransition(%s, %s) = %v, want nil", steps[i], steps[i+1], err)
		}
	}
}

func TestValidateTransitionRejectsSkipsAndReversals(t *testing.T) {
	cases := []struct {
		from enums.ReservationStatus
		to   enums.ReservationStatus
	}{
		{enums.ReservationStatusBooked, enums.ReservationStatusSharpening},
		{enums.ReservationStatusBooked, enums.ReservationStatusPickedUp},
		{enums.ReservationStatusReady, enums.ReservationStatusReceived},
		{enums.ReservationStatusFinished, enums.ReservationStatusFinished},
	}
	for _, tc := range cases {
		err := ValidateTransition(tc.from, tc.to)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
			t.Fatalf("ValidateTransition(%s, %s) = %v, want state conflict", tc.from, tc.to, err)
		}
	}
}

func TestValidateTransitionRejectsUnknownStatuses(t *testing.T) {
	err := ValidateTransition(enums.ReservationStatus("mystery"), enums.ReservationStatusReceived)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
