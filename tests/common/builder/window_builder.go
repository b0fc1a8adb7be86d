//go:build unit || e2e

package builder

import (
	"time"

	"psyconnect/internal/domain/availability"

	"github.com/google/uuid"
)

type WindowBuilder struct {
	ProfessionalID uuid.UUID
	Date           time.Time
	Start          string
	End            string
}

func NewWindowBuilder() *WindowBuilder {
	return &WindowBuilder{
		ProfessionalID: uuid.New(),
		Date:           time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		Start:          "09:00:00",
		End:            "12:00:00",
	}
}

func (w *WindowBuilder) BuildDomain() (*availability.Window, error) {
	start, err := availability.ParseTimeOfDay(w.Start)
	if err != nil {
		return nil, err
	}
	end, err := availability.ParseTimeOfDay(w.End)
	if err != nil {
		return nil, err
	}
	return availability.NewWindow(w.ProfessionalID, w.Date, start, end)
}

// BuildReconstructed bypasses validation the way a row read from storage
// does. Unparseable times come back as zero values.
func (w *WindowBuilder) BuildReconstructed() *availability.Window {
	start, _ := availability.ParseTimeOfDay(w.Start)
	end, _ := availability.ParseTimeOfDay(w.End)
	now := time.Now()
	return availability.ReconstructWindow(uuid.New(), w.ProfessionalID, w.Date, start, end, now, now)
}

func (w *WindowBuilder) WithProfessional(id uuid.UUID) *WindowBuilder {
	w.ProfessionalID = id
	return w
}

func (w *WindowBuilder) WithDate(date time.Time) *WindowBuilder {
	w.Date = date
	return w
}

func (w *WindowBuilder) WithTimes(start, end string) *WindowBuilder {
	w.Start = start
	w.End = end
	return w
}
