package readstore

import (
	"context"
	"time"

	"psyconnect/internal/infra"
	"psyconnect/internal/pkg/pgconv"
	"psyconnect/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReservationReadStore struct {
	pool *pgxpool.Pool
}

func NewReservationReadStore(pool *pgxpool.Pool) *ReservationReadStore {
	return &ReservationReadStore{pool: pool}
}

const reservationViewColumns = `
	r.id, r.window_id, r.patient_id, r.professional_id,
	w.date, r.consultation_time, r.status, r.created_at, r.updated_at
`

func (s *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	query := `
		SELECT ` + reservationViewColumns + `
		FROM reservations r
		JOIN availability_windows w ON w.id = r.window_id
		WHERE r.id = $1
	`

	view, err := scanReservationView(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *ReservationReadStore) FindByPatient(ctx context.Context, patientID uuid.UUID) ([]*queries.ReservationView, error) {
	query := `
		SELECT ` + reservationViewColumns + `
		FROM reservations r
		JOIN availability_windows w ON w.id = r.window_id
		WHERE r.patient_id = $1
		ORDER BY w.date DESC, r.consultation_time DESC
	`

	return s.findMany(ctx, query, patientID)
}

func (s *ReservationReadStore) FindByProfessional(ctx context.Context, professionalID uuid.UUID) ([]*queries.ReservationView, error) {
	query := `
		SELECT ` + reservationViewColumns + `
		FROM reservations r
		JOIN availability_windows w ON w.id = r.window_id
		WHERE r.professional_id = $1
		ORDER BY w.date DESC, r.consultation_time DESC
	`

	return s.findMany(ctx, query, professionalID)
}

func (s *ReservationReadStore) findMany(ctx context.Context, query string, arg any) ([]*queries.ReservationView, error) {
	rows, err := s.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, infra.NewRepoErr(infra.KindDBFailure, "failed to query reservations", err)
	}
	defer rows.Close()

	var views []*queries.ReservationView
	for rows.Next() {
		view, err := scanReservationView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.NewRepoErr(infra.KindDBFailure, "failed to read reservations", err)
	}

	return views, nil
}

func scanReservationView(row pgx.Row) (*queries.ReservationView, error) {
	var (
		view                 queries.ReservationView
		date                 pgtype.Date
		consultationTime     pgtype.Time
		createdAt, updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&view.ID, &view.WindowID, &view.PatientID, &view.ProfessionalID,
		&date, &consultationTime, &view.Status, &createdAt, &updatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.NewRepoErr(infra.KindNotFound, "reservation not found", nil)
		}
		return nil, infra.NewRepoErr(infra.KindDBFailure, "failed to scan reservation view", err)
	}

	view.Date = pgconv.DateFromPg(date).Format(time.DateOnly)
	view.ConsultationTime = pgconv.TimeOfDayFromPg(consultationTime).String()
	view.CreatedAt = pgconv.TimeFromPg(createdAt)
	view.UpdatedAt = pgconv.TimeFromPg(updatedAt)

	return &view, nil
}
