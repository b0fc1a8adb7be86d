package booking

import "errors"

var ErrInvalidStatus = errors.New("invalid reservation status")

// Status is the reservation lifecycle state. The wire values are the
// platform's historical French labels and are stored as-is.
type Status string

const (
	// StatusAwaitingConfirmation: created by the patient, waiting for the
	// professional to confirm or refuse.
	StatusAwaitingConfirmation Status = "EN_ATTENTE"
	// StatusAwaitingPayment: confirmed by the professional, waiting for the
	// patient to pay.
	StatusAwaitingPayment Status = "EN_ATTENTE_PAIEMENT"
	// StatusPaid: paid and finalized.
	StatusPaid Status = "PAYEE"
	// StatusRefused: refused by the professional.
	StatusRefused Status = "REFUSE"
	// StatusCancelled: cancelled by the patient.
	StatusCancelled Status = "ANNULEE"
)

func NewStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusAwaitingConfirmation, StatusAwaitingPayment, StatusPaid, StatusRefused, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	switch s {
	case StatusPaid, StatusRefused, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminalNegative reports whether the status ends the reservation's claim
// on its slot. Refused and cancelled reservations free the slot for new
// booking and must never block it.
func (s Status) IsTerminalNegative() bool {
	return s == StatusRefused || s == StatusCancelled
}

// precedence orders colliding non-negative reservations on one slot time:
// the one closest to completion wins classification.
func (s Status) precedence() int {
	switch s {
	case StatusPaid:
		return 3
	case StatusAwaitingPayment:
		return 2
	case StatusAwaitingConfirmation:
		return 1
	default:
		return 0
	}
}

// SlotState is the classification of one derived slot against the window's
// reservations. Exactly one state applies to every slot.
type SlotState string

const (
	SlotFree                 SlotState = "FREE"
	SlotAwaitingConfirmation SlotState = "AWAITING_CONFIRMATION"
	SlotAwaitingPayment      SlotState = "AWAITING_PAYMENT"
	SlotTaken                SlotState = "TAKEN"
)

func (s SlotState) String() string {
	return string(s)
}

// Action is the single permitted next step for a slot, from the point of view
// of one viewer. The caller performs the corresponding side effect; the
// domain only names it.
type Action string

const (
	ActionReserve Action = "reserve"
	ActionPay     Action = "pay"
	ActionNone    Action = "none"
)

func (a Action) String() string {
	return string(a)
}
