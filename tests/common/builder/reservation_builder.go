//go:build unit || e2e

package builder

import (
	"time"

	"psyconnect/internal/domain/availability"
	"psyconnect/internal/domain/booking"
	"psyconnect/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationBuilder struct {
	WindowID       uuid.UUID
	PatientID      uuid.UUID
	ProfessionalID uuid.UUID
	Time           string
	Status         booking.Status
}

func NewReservationBuilder() *ReservationBuilder {
	return &ReservationBuilder{
		WindowID:       uuid.New(),
		PatientID:      uuid.New(),
		ProfessionalID: uuid.New(),
		Time:           "09:00:00",
		Status:         booking.StatusAwaitingConfirmation,
	}
}

func (r *ReservationBuilder) BuildDomain() *booking.Reservation {
	at, _ := availability.ParseTimeOfDay(r.Time)
	now := time.Now()
	return booking.ReconstructReservation(
		uuid.New(), r.WindowID, r.PatientID, r.ProfessionalID,
		at, r.Status, now, now,
	)
}

func (r *ReservationBuilder) BuildReadModel() *queries.ReservationView {
	return &queries.ReservationView{
		ID:               uuid.New(),
		WindowID:         r.WindowID,
		PatientID:        r.PatientID,
		ProfessionalID:   r.ProfessionalID,
		Date:             "2026-09-14",
		ConsultationTime: r.Time,
		Status:           r.Status.String(),
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
}

func (r *ReservationBuilder) WithWindow(id uuid.UUID) *ReservationBuilder {
	r.WindowID = id
	return r
}

func (r *ReservationBuilder) WithPatient(id uuid.UUID) *ReservationBuilder {
	r.PatientID = id
	return r
}

func (r *ReservationBuilder) WithProfessional(id uuid.UUID) *ReservationBuilder {
	r.ProfessionalID = id
	return r
}

func (r *ReservationBuilder) WithTime(t string) *ReservationBuilder {
	r.Time = t
	return r
}

func (r *ReservationBuilder) WithStatus(s booking.Status) *ReservationBuilder {
	r.Status = s
	return r
}
