package booking

import (
	"psyconnect/internal/domain/availability"

	"github.com/google/uuid"
)

// ClassifiedSlot is one derived slot together with the lifecycle state of
// whichever reservation currently claims it. Reservation is nil exactly when
// the state is SlotFree.
type ClassifiedSlot struct {
	Slot        availability.Slot
	State       SlotState
	Reservation *Reservation
}

// ClassifySlots reconciles derived slots against a window's reservations.
// Terminal-negative reservations (refused, cancelled) are filtered out before
// matching, so a refused entry never shadows a newer pending one and never
// blocks rebooking. Among the survivors a slot's start time selects its
// claimant; should more than one survive on the same time (a server-side
// invariant violation), the status closest to completion wins so the result
// stays deterministic.
//
// Pure function of its inputs: no state is retained between calls and
// recomputing with refreshed reservations is always safe.
func ClassifySlots(slots []availability.Slot, reservations []*Reservation) []ClassifiedSlot {
	claims := make(map[int]*Reservation, len(reservations))
	for _, res := range reservations {
		if res == nil || res.Status().IsTerminalNegative() {
			continue
		}
		key := res.ConsultationAt().Minutes()
		if cur, ok := claims[key]; !ok || res.Status().precedence() > cur.Status().precedence() {
			claims[key] = res
		}
	}

	classified := make([]ClassifiedSlot, 0, len(slots))
	for _, slot := range slots {
		cs := ClassifiedSlot{Slot: slot, State: SlotFree}
		if res, ok := claims[slot.Start().Minutes()]; ok {
			cs.Reservation = res
			cs.State = stateFor(res.Status())
		}
		classified = append(classified, cs)
	}
	return classified
}

func stateFor(s Status) SlotState {
	switch s {
	case StatusAwaitingConfirmation:
		return SlotAwaitingConfirmation
	case StatusAwaitingPayment:
		return SlotAwaitingPayment
	case StatusPaid:
		return SlotTaken
	default:
		return SlotFree
	}
}

// ActionFor returns the single permitted next action on this slot for the
// given viewer. Free slots can be reserved by anyone; a slot awaiting payment
// is payable only by the patient who owns the reservation; everything else is
// informational.
func (cs ClassifiedSlot) ActionFor(viewerID uuid.UUID) Action {
	switch cs.State {
	case SlotFree:
		return ActionReserve
	case SlotAwaitingPayment:
		if cs.Reservation != nil && cs.Reservation.PatientID() == viewerID {
			return ActionPay
		}
		return ActionNone
	default:
		return ActionNone
	}
}
