package availability

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidWindow   = errors.New("window start must be before end")
	ErrMissingDate     = errors.New("window date is required")
	ErrWindowHasActive = errors.New("window has active reservations")
)

// Window is a professional's declared period of openness on one calendar
// date. Bookable consultation slots are derived from it on demand and never
// persisted.
type Window struct {
	id             uuid.UUID
	professionalID uuid.UUID
	date           time.Time
	start          TimeOfDay
	end            TimeOfDay
	createdAt      time.Time
	updatedAt      time.Time
}

func NewWindow(professionalID uuid.UUID, date time.Time, start, end TimeOfDay) (*Window, error) {
	if date.IsZero() {
		return nil, ErrMissingDate
	}
	if start.IsZero() || end.IsZero() || !start.Before(end) {
		return nil, ErrInvalidWindow
	}

	return &Window{
		id:             uuid.New(),
		professionalID: professionalID,
		date:           date.Truncate(24 * time.Hour),
		start:          start,
		end:            end,
	}, nil
}

// ReconstructWindow rebuilds a persisted window without re-validating.
// Malformed rows from external sources are represented with zero times and
// simply generate no slots.
func ReconstructWindow(
	id, professionalID uuid.UUID,
	date time.Time,
	start, end TimeOfDay,
	createdAt, updatedAt time.Time,
) *Window {
	return &Window{
		id:             id,
		professionalID: professionalID,
		date:           date,
		start:          start,
		end:            end,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (w *Window) ID() uuid.UUID             { return w.id }
func (w *Window) ProfessionalID() uuid.UUID { return w.professionalID }
func (w *Window) Date() time.Time           { return w.date }
func (w *Window) Start() TimeOfDay          { return w.start }
func (w *Window) End() TimeOfDay            { return w.end }
func (w *Window) CreatedAt() time.Time      { return w.createdAt }
func (w *Window) UpdatedAt() time.Time      { return w.updatedAt }
