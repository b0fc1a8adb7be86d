package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)

// SlotView is one derived consultation slot, classified and annotated with
// the single action the viewer may take on it. Times use the canonical
// zero-padded HH:MM:SS form only here, at the presentation boundary.
type SlotView struct {
	StartTime     string     `json:"start_time"`
	EndTime       string     `json:"end_time"`
	State         string     `json:"state"`
	Action        string     `json:"action"`
	ReservationID *uuid.UUID `json:"reservation_id,omitempty"`
}

type WindowScheduleView struct {
	WindowID       uuid.UUID  `json:"window_id"`
	ProfessionalID uuid.UUID  `json:"professional_id"`
	Date           string     `json:"date"`
	StartTime      string     `json:"start_time"`
	EndTime        string     `json:"end_time"`
	Slots          []SlotView `json:"slots"`
}

type ReservationView struct {
	ID               uuid.UUID `json:"id"`
	WindowID         uuid.UUID `json:"window_id"`
	PatientID        uuid.UUID `json:"patient_id"`
	ProfessionalID   uuid.UUID `json:"professional_id"`
	Date             string    `json:"date"`
	ConsultationTime string    `json:"consultation_time"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type AvailabilityView struct {
	ID             uuid.UUID `json:"id"`
	ProfessionalID uuid.UUID `json:"professional_id"`
	Date           string    `json:"date"`
	StartTime      string    `json:"start_time"`
	EndTime        string    `json:"end_time"`
	CreatedAt      time.Time `json:"created_at"`
}

// CredentialView is the auth-side projection of a user row.
type CredentialView struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	DisplayName  string    `json:"display_name"`
	IsActive     bool      `json:"is_active"`
}
