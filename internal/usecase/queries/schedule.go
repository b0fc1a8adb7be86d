package queries

import (
	"context"
	"time"

	"psyconnect/internal/domain/availability"
	"psyconnect/internal/domain/booking"

	"github.com/google/uuid"
)

// WindowSnapshot is the read store's view of one availability window together
// with every reservation ever made against it, terminal ones included. The
// classifier decides which of those still claim a slot.
type WindowSnapshot struct {
	Window       *availability.Window
	Reservations []*booking.Reservation
}

type ScheduleReadStore interface {
	FindWindows(ctx context.Context, professionalID uuid.UUID, from, to time.Time) ([]*WindowSnapshot, error)
}

type ScheduleQueries interface {
	// ProfessionalSchedule derives and classifies the slot board of every
	// window the professional declared in [from, to]. The board is
	// recomputed from the snapshot on every call; nothing is retained
	// between invocations, so callers may poll freely.
	ProfessionalSchedule(ctx context.Context, viewerID, professionalID uuid.UUID, from, to time.Time) ([]*WindowScheduleView, error)
}

type scheduleQueriesImpl struct {
	store           ScheduleReadStore
	slotDurationMin int
}

func NewScheduleQueries(store ScheduleReadStore, slotDurationMin int) ScheduleQueries {
	return &scheduleQueriesImpl{
		store:           store,
		slotDurationMin: slotDurationMin,
	}
}

func (q *scheduleQueriesImpl) ProfessionalSchedule(ctx context.Context, viewerID, professionalID uuid.UUID, from, to time.Time) ([]*WindowScheduleView, error) {
	snapshots, err := q.store.FindWindows(ctx, professionalID, from, to)
	if err != nil {
		return nil, err
	}

	views := make([]*WindowScheduleView, 0, len(snapshots))
	for _, snap := range snapshots {
		views = append(views, q.buildBoard(snap, viewerID))
	}
	return views, nil
}

func (q *scheduleQueriesImpl) buildBoard(snap *WindowSnapshot, viewerID uuid.UUID) *WindowScheduleView {
	w := snap.Window
	slots := availability.GenerateSlots(w, q.slotDurationMin)
	classified := booking.ClassifySlots(slots, snap.Reservations)

	view := &WindowScheduleView{
		WindowID:       w.ID(),
		ProfessionalID: w.ProfessionalID(),
		Date:           w.Date().Format(time.DateOnly),
		StartTime:      w.Start().String(),
		EndTime:        w.End().String(),
		Slots:          make([]SlotView, 0, len(classified)),
	}

	for _, cs := range classified {
		sv := SlotView{
			StartTime: cs.Slot.Start().String(),
			EndTime:   cs.Slot.End().String(),
			State:     cs.State.String(),
			Action:    cs.ActionFor(viewerID).String(),
		}
		if cs.Reservation != nil {
			id := cs.Reservation.ID()
			sv.ReservationID = &id
		}
		view.Slots = append(view.Slots, sv)
	}

	return view
}
