package queries

import (
	"context"

	"github.com/google/uuid"
)

type AvailabilityReadStore interface {
	FindByProfessional(ctx context.Context, professionalID uuid.UUID) ([]*AvailabilityView, error)
}

type AvailabilityQueries interface {
	ListForProfessional(ctx context.Context, professionalID uuid.UUID) ([]*AvailabilityView, error)
}

type availabilityQueriesImpl struct {
	store AvailabilityReadStore
}

func NewAvailabilityQueries(store AvailabilityReadStore) AvailabilityQueries {
	return &availabilityQueriesImpl{store: store}
}

func (q *availabilityQueriesImpl) ListForProfessional(ctx context.Context, professionalID uuid.UUID) ([]*AvailabilityView, error) {
	return q.store.FindByProfessional(ctx, professionalID)
}
