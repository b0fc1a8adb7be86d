package request

import (
	"psyconnect/internal/domain/availability"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	WindowID  uuid.UUID `json:"window_id" binding:"required"`
	StartTime string    `json:"start_time" binding:"required"`
}

// SlotTime parses the requested consultation time; "14:00" and "14:00:00"
// are the same slot.
func (r *CreateReservationRequest) SlotTime() (availability.TimeOfDay, error) {
	return availability.ParseTimeOfDay(r.StartTime)
}
