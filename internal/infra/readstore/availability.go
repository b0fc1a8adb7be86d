package readstore

import (
	"context"
	"time"

	"psyconnect/internal/infra"
	"psyconnect/internal/pkg/pgconv"
	"psyconnect/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AvailabilityReadStore struct {
	pool *pgxpool.Pool
}

func NewAvailabilityReadStore(pool *pgxpool.Pool) *AvailabilityReadStore {
	return &AvailabilityReadStore{pool: pool}
}

func (s *AvailabilityReadStore) FindByProfessional(ctx context.Context, professionalID uuid.UUID) ([]*queries.AvailabilityView, error) {
	query := `
		SELECT id, professional_id, date, start_time, end_time, created_at
		FROM availability_windows
		WHERE professional_id = $1
		ORDER BY date, start_time
	`

	rows, err := s.pool.Query(ctx, query, professionalID)
	if err != nil {
		return nil, infra.NewRepoErr(infra.KindDBFailure, "failed to query availability windows", err)
	}
	defer rows.Close()

	var views []*queries.AvailabilityView
	for rows.Next() {
		var (
			view               queries.AvailabilityView
			date               pgtype.Date
			startTime, endTime pgtype.Time
			createdAt          pgtype.Timestamptz
		)
		if err := rows.Scan(&view.ID, &view.ProfessionalID, &date, &startTime, &endTime, &createdAt); err != nil {
			return nil, infra.NewRepoErr(infra.KindDBFailure, "failed to scan availability window", err)
		}

		view.Date = pgconv.DateFromPg(date).Format(time.DateOnly)
		view.StartTime = pgconv.TimeOfDayFromPg(startTime).String()
		view.EndTime = pgconv.TimeOfDayFromPg(endTime).String()
		view.CreatedAt = pgconv.TimeFromPg(createdAt)
		views = append(views, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.NewRepoErr(infra.KindDBFailure, "failed to read availability windows", err)
	}

	return views, nil
}
