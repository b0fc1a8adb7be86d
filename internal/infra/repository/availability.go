package repository

import (
	"context"

	"psyconnect/internal/domain/availability"
	"psyconnect/internal/infra"
	"psyconnect/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AvailabilityRepository struct {
	pool *pgxpool.Pool
}

func NewAvailabilityRepository(pool *pgxpool.Pool) *AvailabilityRepository {
	return &AvailabilityRepository{pool: pool}
}

func (r *AvailabilityRepository) Create(ctx context.Context, w *availability.Window) error {
	query := `
		INSERT INTO availability_windows (id, professional_id, date, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		w.ID(),
		w.ProfessionalID(),
		pgconv.DateToPg(w.Date()),
		pgconv.TimeOfDayToPg(w.Start()),
		pgconv.TimeOfDayToPg(w.End()),
	)
	if err != nil {
		return infra.NewRepoErr(infra.KindDBFailure, "failed to create availability window", err)
	}

	return nil
}

func (r *AvailabilityRepository) FindByID(ctx context.Context, id uuid.UUID) (*availability.Window, error) {
	query := `
		SELECT id, professional_id, date, start_time, end_time, created_at, updated_at
		FROM availability_windows
		WHERE id = $1
	`

	var (
		windowID, professionalID uuid.UUID
		date                     pgtype.Date
		startTime, endTime       pgtype.Time
		createdAt, updatedAt     pgtype.Timestamptz
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&windowID, &professionalID, &date, &startTime, &endTime, &createdAt, &updatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.NewRepoErr(infra.KindNotFound, "availability window not found", nil)
		}
		return nil, infra.NewRepoErr(infra.KindDBFailure, "failed to get availability window", err)
	}

	return availability.ReconstructWindow(
		windowID, professionalID,
		pgconv.DateFromPg(date),
		pgconv.TimeOfDayFromPg(startTime),
		pgconv.TimeOfDayFromPg(endTime),
		pgconv.TimeFromPg(createdAt),
		pgconv.TimeFromPg(updatedAt),
	), nil
}

// Delete removes a window owned by the given professional. Rows from other
// professionals are invisible to the delete, so a mismatched owner reads as
// not found.
func (r *AvailabilityRepository) Delete(ctx context.Context, id, professionalID uuid.UUID) error {
	query := `
		DELETE FROM availability_windows
		WHERE id = $1 AND professional_id = $2
	`

	tag, err := r.pool.Exec(ctx, query, id, professionalID)
	if err != nil {
		return infra.NewRepoErr(infra.KindDBFailure, "failed to delete availability window", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "availability window not found", nil)
	}

	return nil
}
