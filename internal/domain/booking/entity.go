package booking

import (
	"errors"
	"time"

	"psyconnect/internal/domain/availability"

	"github.com/google/uuid"
)

var (
	ErrMissingSlotTime     = errors.New("consultation time is required")
	ErrNotAwaitingApproval = errors.New("reservation is not awaiting confirmation")
	ErrNotAwaitingPayment  = errors.New("reservation is not awaiting payment")
	ErrAlreadyTerminal     = errors.New("reservation is already finalized")
)

// Reservation ties a patient to one consultation slot of one availability
// window. At most one non-terminal-negative reservation may occupy a slot
// time within a window; that invariant is enforced by the store, the entity
// only governs its own lifecycle.
type Reservation struct {
	id             uuid.UUID
	windowID       uuid.UUID
	patientID      uuid.UUID
	professionalID uuid.UUID
	consultationAt availability.TimeOfDay
	status         Status
	createdAt      time.Time
	updatedAt      time.Time
}

func NewReservation(windowID, patientID, professionalID uuid.UUID, consultationAt availability.TimeOfDay) (*Reservation, error) {
	if consultationAt.IsZero() {
		return nil, ErrMissingSlotTime
	}

	return &Reservation{
		id:             uuid.New(),
		windowID:       windowID,
		patientID:      patientID,
		professionalID: professionalID,
		consultationAt: consultationAt,
		status:         StatusAwaitingConfirmation,
	}, nil
}

func ReconstructReservation(
	id, windowID, patientID, professionalID uuid.UUID,
	consultationAt availability.TimeOfDay,
	status Status,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:             id,
		windowID:       windowID,
		patientID:      patientID,
		professionalID: professionalID,
		consultationAt: consultationAt,
		status:         status,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// Confirm moves an awaiting reservation to the payable state. Professional
// action.
func (r *Reservation) Confirm() error {
	if r.status != StatusAwaitingConfirmation {
		return ErrNotAwaitingApproval
	}
	r.status = StatusAwaitingPayment
	return nil
}

// Refuse terminates an awaiting reservation and frees its slot. Professional
// action.
func (r *Reservation) Refuse() error {
	if r.status != StatusAwaitingConfirmation {
		return ErrNotAwaitingApproval
	}
	r.status = StatusRefused
	return nil
}

// Cancel terminates the reservation from either waiting state and frees its
// slot. Patient action.
func (r *Reservation) Cancel() error {
	if r.status.IsTerminal() {
		return ErrAlreadyTerminal
	}
	r.status = StatusCancelled
	return nil
}

// MarkPaid finalizes a confirmed reservation once payment settles.
func (r *Reservation) MarkPaid() error {
	if r.status != StatusAwaitingPayment {
		return ErrNotAwaitingPayment
	}
	r.status = StatusPaid
	return nil
}

func (r *Reservation) IsActive() bool {
	return !r.status.IsTerminal()
}

func (r *Reservation) ID() uuid.UUID                            { return r.id }
func (r *Reservation) WindowID() uuid.UUID                      { return r.windowID }
func (r *Reservation) PatientID() uuid.UUID                     { return r.patientID }
func (r *Reservation) ProfessionalID() uuid.UUID                { return r.professionalID }
func (r *Reservation) ConsultationAt() availability.TimeOfDay   { return r.consultationAt }
func (r *Reservation) Status() Status                           { return r.status }
func (r *Reservation) CreatedAt() time.Time                     { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time                     { return r.updatedAt }
