package repository

import (
	"context"

	"psyconnect/internal/domain/booking"
	"psyconnect/internal/infra"
	"psyconnect/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReservationRepository struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

// Create inserts a new reservation. The partial unique index over
// non-terminal reservations turns a concurrent double booking into
// KindConflict here.
func (r *ReservationRepository) Create(ctx context.Context, tx DBTX, res *booking.Reservation) (uuid.UUID, error) {
	query := `
		INSERT INTO reservations (id, window_id, patient_id, professional_id, consultation_time, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id uuid.UUID
	err := tx.QueryRow(ctx, query,
		res.ID(),
		res.WindowID(),
		res.PatientID(),
		res.ProfessionalID(),
		pgconv.TimeOfDayToPg(res.ConsultationAt()),
		res.Status().String(),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, infra.NewRepoErr(infra.KindConflict, "slot already reserved", err)
		}
		return uuid.Nil, infra.NewRepoErr(infra.KindDBFailure, "failed to create reservation", err)
	}

	return id, nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Reservation, error) {
	query := `
		SELECT id, window_id, patient_id, professional_id, consultation_time, status, created_at, updated_at
		FROM reservations
		WHERE id = $1
	`

	return r.scanReservation(r.pool.QueryRow(ctx, query, id))
}

// UpdateStatus persists a lifecycle transition already validated by the
// entity. The current status is part of the predicate so two concurrent
// transitions cannot both win.
func (r *ReservationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to booking.Status) error {
	query := `
		UPDATE reservations
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
	`

	tag, err := r.pool.Exec(ctx, query, to.String(), id, from.String())
	if err != nil {
		return infra.NewRepoErr(infra.KindDBFailure, "failed to update reservation status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindConflict, "reservation status changed concurrently", nil)
	}

	return nil
}

// CountActiveByWindow counts non-terminal-negative reservations attached to a
// window. Used to protect windows from deletion while bookings are in flight.
func (r *ReservationRepository) CountActiveByWindow(ctx context.Context, windowID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM reservations
		WHERE window_id = $1 AND status NOT IN ('REFUSE', 'ANNULEE')
	`

	var count int
	if err := r.pool.QueryRow(ctx, query, windowID).Scan(&count); err != nil {
		return 0, infra.NewRepoErr(infra.KindDBFailure, "failed to count active reservations", err)
	}

	return count, nil
}

func (r *ReservationRepository) scanReservation(row pgx.Row) (*booking.Reservation, error) {
	var (
		id, windowID, patientID, professionalID uuid.UUID
		consultationTime                        pgtype.Time
		statusStr                               string
		createdAt, updatedAt                    pgtype.Timestamptz
	)

	err := row.Scan(&id, &windowID, &patientID, &professionalID, &consultationTime, &statusStr, &createdAt, &updatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.NewRepoErr(infra.KindNotFound, "reservation not found", nil)
		}
		return nil, infra.NewRepoErr(infra.KindDBFailure, "failed to scan reservation", err)
	}

	status, err := booking.NewStatus(statusStr)
	if err != nil {
		return nil, infra.NewRepoErr(infra.KindDBFailure, "unknown reservation status", err)
	}

	return booking.ReconstructReservation(
		id, windowID, patientID, professionalID,
		pgconv.TimeOfDayFromPg(consultationTime),
		status,
		pgconv.TimeFromPg(createdAt),
		pgconv.TimeFromPg(updatedAt),
	), nil
}
