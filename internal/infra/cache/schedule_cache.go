package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"psyconnect/internal/domain/availability"
	"psyconnect/internal/domain/booking"
	"psyconnect/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ScheduleCache is a read-through cache in front of the schedule read store.
// The slot board is polled by every viewer of a professional's page, so the
// raw windows+reservations snapshot is cached for a short TTL; classification
// stays per-request because the permitted action depends on the viewer.
//
// Keys embed a per-professional version counter. Booking and availability
// mutations bump the counter, which orphans every cached range for that
// professional at once. Redis being down degrades to direct reads.
type ScheduleCache struct {
	inner  queries.ScheduleReadStore
	client *redis.Client
	ttl    time.Duration
}

func NewScheduleCache(inner queries.ScheduleReadStore, client *redis.Client, ttl time.Duration) *ScheduleCache {
	return &ScheduleCache{
		inner:  inner,
		client: client,
		ttl:    ttl,
	}
}

type cachedReservation struct {
	ID             uuid.UUID `json:"id"`
	WindowID       uuid.UUID `json:"wid"`
	PatientID      uuid.UUID `json:"pid"`
	ProfessionalID uuid.UUID `json:"prid"`
	TimeMinutes    int       `json:"min"`
	TimeValid      bool      `json:"ok"`
	Status         string    `json:"st"`
	CreatedAt      time.Time `json:"ca"`
	UpdatedAt      time.Time `json:"ua"`
}

type cachedWindow struct {
	ID             uuid.UUID           `json:"id"`
	ProfessionalID uuid.UUID           `json:"prid"`
	Date           time.Time           `json:"date"`
	StartMinutes   int                 `json:"smin"`
	StartValid     bool                `json:"sok"`
	EndMinutes     int                 `json:"emin"`
	EndValid       bool                `json:"eok"`
	CreatedAt      time.Time           `json:"ca"`
	UpdatedAt      time.Time           `json:"ua"`
	Reservations   []cachedReservation `json:"res"`
}

func (c *ScheduleCache) FindWindows(ctx context.Context, professionalID uuid.UUID, from, to time.Time) ([]*queries.WindowSnapshot, error) {
	if c.client == nil {
		return c.inner.FindWindows(ctx, professionalID, from, to)
	}

	key, err := c.snapshotKey(ctx, professionalID, from, to)
	if err != nil {
		return c.inner.FindWindows(ctx, professionalID, from, to)
	}

	if payload, err := c.client.Get(ctx, key).Bytes(); err == nil {
		if snapshots, decodeErr := decodeSnapshots(payload); decodeErr == nil {
			return snapshots, nil
		}
	}

	snapshots, err := c.inner.FindWindows(ctx, professionalID, from, to)
	if err != nil {
		return nil, err
	}

	if payload, encodeErr := encodeSnapshots(snapshots); encodeErr == nil {
		if setErr := c.client.Set(ctx, key, payload, c.ttl).Err(); setErr != nil {
			slog.Debug("schedule cache set failed", "error", setErr)
		}
	}

	return snapshots, nil
}

// Invalidate bumps the professional's version counter so all cached ranges
// expire immediately. Called after every booking or availability mutation.
func (c *ScheduleCache) Invalidate(ctx context.Context, professionalID uuid.UUID) {
	if c.client == nil {
		return
	}
	if err := c.client.Incr(ctx, versionKey(professionalID)).Err(); err != nil {
		slog.Warn("schedule cache invalidation failed", "professional_id", professionalID, "error", err)
	}
}

func (c *ScheduleCache) snapshotKey(ctx context.Context, professionalID uuid.UUID, from, to time.Time) (string, error) {
	ver, err := c.client.Get(ctx, versionKey(professionalID)).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	return fmt.Sprintf("schedule:%s:%d:%s:%s",
		professionalID, ver, from.Format(time.DateOnly), to.Format(time.DateOnly)), nil
}

func versionKey(professionalID uuid.UUID) string {
	return "schedule:ver:" + professionalID.String()
}

func encodeSnapshots(snapshots []*queries.WindowSnapshot) ([]byte, error) {
	rows := make([]cachedWindow, 0, len(snapshots))
	for _, snap := range snapshots {
		w := snap.Window
		row := cachedWindow{
			ID:             w.ID(),
			ProfessionalID: w.ProfessionalID(),
			Date:           w.Date(),
			StartMinutes:   w.Start().Minutes(),
			StartValid:     !w.Start().IsZero(),
			EndMinutes:     w.End().Minutes(),
			EndValid:       !w.End().IsZero(),
			CreatedAt:      w.CreatedAt(),
			UpdatedAt:      w.UpdatedAt(),
		}
		for _, res := range snap.Reservations {
			row.Reservations = append(row.Reservations, cachedReservation{
				ID:             res.ID(),
				WindowID:       res.WindowID(),
				PatientID:      res.PatientID(),
				ProfessionalID: res.ProfessionalID(),
				TimeMinutes:    res.ConsultationAt().Minutes(),
				TimeValid:      !res.ConsultationAt().IsZero(),
				Status:         res.Status().String(),
				CreatedAt:      res.CreatedAt(),
				UpdatedAt:      res.UpdatedAt(),
			})
		}
		rows = append(rows, row)
	}
	return json.Marshal(rows)
}

func decodeSnapshots(payload []byte) ([]*queries.WindowSnapshot, error) {
	var rows []cachedWindow
	if err := json.Unmarshal(payload, &rows); err != nil {
		return nil, err
	}

	snapshots := make([]*queries.WindowSnapshot, 0, len(rows))
	for _, row := range rows {
		snap := &queries.WindowSnapshot{
			Window: availability.ReconstructWindow(
				row.ID, row.ProfessionalID, row.Date,
				timeOfDay(row.StartMinutes, row.StartValid),
				timeOfDay(row.EndMinutes, row.EndValid),
				row.CreatedAt, row.UpdatedAt,
			),
		}
		for _, res := range row.Reservations {
			status, err := booking.NewStatus(res.Status)
			if err != nil {
				return nil, err
			}
			snap.Reservations = append(snap.Reservations, booking.ReconstructReservation(
				res.ID, res.WindowID, res.PatientID, res.ProfessionalID,
				timeOfDay(res.TimeMinutes, res.TimeValid),
				status,
				res.CreatedAt, res.UpdatedAt,
			))
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, nil
}

func timeOfDay(minutes int, valid bool) availability.TimeOfDay {
	if !valid {
		return availability.TimeOfDay{}
	}
	tod, err := availability.TimeOfDayFromMinutes(minutes)
	if err != nil {
		return availability.TimeOfDay{}
	}
	return tod
}
