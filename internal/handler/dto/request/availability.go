package request

import (
	"time"

	"psyconnect/internal/domain/availability"

	"github.com/google/uuid"
)

type CreateAvailabilityRequest struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

func (r *CreateAvailabilityRequest) ToDomain(professionalID uuid.UUID) (*availability.Window, error) {
	date, err := time.Parse(time.DateOnly, r.Date)
	if err != nil {
		return nil, availability.ErrMissingDate
	}
	start, err := availability.ParseTimeOfDay(r.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := availability.ParseTimeOfDay(r.EndTime)
	if err != nil {
		return nil, err
	}
	return availability.NewWindow(professionalID, date, start, end)
}
