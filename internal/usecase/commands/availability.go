package commands

import (
	"context"

	"psyconnect/internal/domain/availability"
	reqdto "psyconnect/internal/handler/dto/request"
	"psyconnect/internal/infra"
	"psyconnect/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrWindowNotFound  = errs.New("availability window not found")
	ErrInvalidWindow   = errs.New("invalid availability window")
	ErrWindowNotOwned  = errs.New("availability window belongs to another professional")
	ErrWindowHasActive = errs.New("availability window has active reservations")
)

type WindowRepository interface {
	Create(ctx context.Context, w *availability.Window) error
	FindByID(ctx context.Context, id uuid.UUID) (*availability.Window, error)
	Delete(ctx context.Context, id, professionalID uuid.UUID) error
}

type ActiveReservationCounter interface {
	CountActiveByWindow(ctx context.Context, windowID uuid.UUID) (int, error)
}

// ScheduleInvalidator drops cached slot boards after a mutation. Best effort;
// a stale board self-heals when the cache TTL lapses.
type ScheduleInvalidator interface {
	Invalidate(ctx context.Context, professionalID uuid.UUID)
}

type AvailabilityCommands interface {
	CreateWindow(ctx context.Context, professionalID uuid.UUID, req reqdto.CreateAvailabilityRequest) (uuid.UUID, error)
	DeleteWindow(ctx context.Context, professionalID, windowID uuid.UUID) error
}

type availabilityCommandsImpl struct {
	windowRepo  WindowRepository
	counter     ActiveReservationCounter
	invalidator ScheduleInvalidator
}

func NewAvailabilityCommands(
	windowRepo WindowRepository,
	counter ActiveReservationCounter,
	invalidator ScheduleInvalidator,
) AvailabilityCommands {
	return &availabilityCommandsImpl{
		windowRepo:  windowRepo,
		counter:     counter,
		invalidator: invalidator,
	}
}

func (a *availabilityCommandsImpl) CreateWindow(ctx context.Context, professionalID uuid.UUID, req reqdto.CreateAvailabilityRequest) (uuid.UUID, error) {
	window, err := req.ToDomain(professionalID)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidWindow)
	}

	if err := a.windowRepo.Create(ctx, window); err != nil {
		return uuid.Nil, err
	}

	a.invalidator.Invalidate(ctx, professionalID)
	return window.ID(), nil
}

func (a *availabilityCommandsImpl) DeleteWindow(ctx context.Context, professionalID, windowID uuid.UUID) error {
	count, err := a.counter.CountActiveByWindow(ctx, windowID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrWindowHasActive
	}

	if err := a.windowRepo.Delete(ctx, windowID, professionalID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrWindowNotFound
		}
		return err
	}

	a.invalidator.Invalidate(ctx, professionalID)
	return nil
}
