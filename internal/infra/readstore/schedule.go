package readstore

import (
	"context"
	"time"

	"psyconnect/internal/domain/availability"
	"psyconnect/internal/domain/booking"
	"psyconnect/internal/infra"
	"psyconnect/internal/pkg/pgconv"
	"psyconnect/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ScheduleReadStore struct {
	pool *pgxpool.Pool
}

func NewScheduleReadStore(pool *pgxpool.Pool) *ScheduleReadStore {
	return &ScheduleReadStore{pool: pool}
}

// FindWindows loads a professional's windows in [from, to] with all
// reservations attached, terminal ones included. Classification happens
// upstream in the domain; the store only reads.
func (s *ScheduleReadStore) FindWindows(ctx context.Context, professionalID uuid.UUID, from, to time.Time) ([]*queries.WindowSnapshot, error) {
	windowQuery := `
		SELECT id, professional_id, date, start_time, end_time, created_at, updated_at
		FROM availability_windows
		WHERE professional_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date, start_time
	`

	rows, err := s.pool.Query(ctx, windowQuery, professionalID, pgconv.DateToPg(from), pgconv.DateToPg(to))
	if err != nil {
		return nil, infra.NewRepoErr(infra.KindDBFailure, "failed to query availability windows", err)
	}
	defer rows.Close()

	var (
		snapshots []*queries.WindowSnapshot
		byWindow  = map[uuid.UUID]*queries.WindowSnapshot{}
		windowIDs []uuid.UUID
	)
	for rows.Next() {
		var (
			id, profID           uuid.UUID
			date                 pgtype.Date
			startTime, endTime   pgtype.Time
			createdAt, updatedAt pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &profID, &date, &startTime, &endTime, &createdAt, &updatedAt); err != nil {
			return nil, infra.NewRepoErr(infra.KindDBFailure, "failed to scan availability window", err)
		}

		snap := &queries.WindowSnapshot{
			Window: availability.ReconstructWindow(
				id, profID,
				pgconv.DateFromPg(date),
				pgconv.TimeOfDayFromPg(startTime),
				pgconv.TimeOfDayFromPg(endTime),
				pgconv.TimeFromPg(createdAt),
				pgconv.TimeFromPg(updatedAt),
			),
		}
		snapshots = append(snapshots, snap)
		byWindow[id] = snap
		windowIDs = append(windowIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.NewRepoErr(infra.KindDBFailure, "failed to read availability windows", err)
	}
	if len(snapshots) == 0 {
		return nil, nil
	}

	reservationQuery := `
		SELECT id, window_id, patient_id, professional_id, consultation_time, status, created_at, updated_at
		FROM reservations
		WHERE window_id = ANY($1)
		ORDER BY created_at
	`

	resRows, err := s.pool.Query(ctx, reservationQuery, windowIDs)
	if err != nil {
		return nil, infra.NewRepoErr(infra.KindDBFailure, "failed to query reservations", err)
	}
	defer resRows.Close()

	for resRows.Next() {
		var (
			id, windowID, patientID, profID uuid.UUID
			consultationTime                pgtype.Time
			statusStr                       string
			createdAt, updatedAt            pgtype.Timestamptz
		)
		if err := resRows.Scan(&id, &windowID, &patientID, &profID, &consultationTime, &statusStr, &createdAt, &updatedAt); err != nil {
			return nil, infra.NewRepoErr(infra.KindDBFailure, "failed to scan reservation", err)
		}

		status, err := booking.NewStatus(statusStr)
		if err != nil {
			return nil, infra.NewRepoErr(infra.KindDBFailure, "unknown reservation status", err)
		}

		snap, ok := byWindow[windowID]
		if !ok {
			continue
		}
		snap.Reservations = append(snap.Reservations, booking.ReconstructReservation(
			id, windowID, patientID, profID,
			pgconv.TimeOfDayFromPg(consultationTime),
			status,
			pgconv.TimeFromPg(createdAt),
			pgconv.TimeFromPg(updatedAt),
		))
	}
	if err := resRows.Err(); err != nil {
		return nil, infra.NewRepoErr(infra.KindDBFailure, "failed to read reservations", err)
	}

	return snapshots, nil
}
