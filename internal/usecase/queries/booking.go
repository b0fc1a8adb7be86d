package queries

import (
	"context"

	"psyconnect/internal/infra"
	"psyconnect/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrReservationNotFound = errs.New("reservation not found")
	ErrNotReservationParty = errs.New("viewer is not a party to this reservation")
)

type ReservationReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	FindByPatient(ctx context.Context, patientID uuid.UUID) ([]*ReservationView, error)
	FindByProfessional(ctx context.Context, professionalID uuid.UUID) ([]*ReservationView, error)
}

type BookingQueries interface {
	GetByID(ctx context.Context, viewerID, id uuid.UUID) (*ReservationView, error)
	ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*ReservationView, error)
	ListForProfessional(ctx context.Context, professionalID uuid.UUID) ([]*ReservationView, error)
}

type bookingQueriesImpl struct {
	store ReservationReadStore
}

func NewBookingQueries(store ReservationReadStore) BookingQueries {
	return &bookingQueriesImpl{store: store}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, viewerID, id uuid.UUID) (*ReservationView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}

	// Only the two parties may read a reservation.
	if view.PatientID != viewerID && view.ProfessionalID != viewerID {
		return nil, ErrNotReservationParty
	}

	return view, nil
}

func (q *bookingQueriesImpl) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*ReservationView, error) {
	return q.store.FindByPatient(ctx, patientID)
}

func (q *bookingQueriesImpl) ListForProfessional(ctx context.Context, professionalID uuid.UUID) ([]*ReservationView, error) {
	return q.store.FindByProfessional(ctx, professionalID)
}
