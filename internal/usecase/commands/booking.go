package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"psyconnect/internal/domain/availability"
	"psyconnect/internal/domain/booking"
	reqdto "psyconnect/internal/handler/dto/request"
	"psyconnect/internal/infra"
	"psyconnect/internal/infra/repository"
	"psyconnect/internal/pkg/clock"
	"psyconnect/internal/pkg/errs"
	"psyconnect/internal/usecase/queries"

	"github.com/google/uuid"
)

var (
	ErrReservationNotFound     = errs.New("reservation not found")
	ErrSlotNotInWindow         = errs.New("requested time is not a slot of this window")
	ErrSlotTaken               = errs.New("slot already reserved")
	ErrOwnWindow               = errs.New("professionals cannot book their own windows")
	ErrNotReservationOwner     = errs.New("actor is not a party to this reservation")
	ErrInvalidTransition       = errs.New("reservation state does not permit this action")
	ErrDuplicateRequest        = errs.New("idempotency key reused with a different request")
	ErrIdempotencyInProgress   = errs.New("request with this idempotency key is still processing")
	ErrIdempotencyCheckFailed  = errs.New("idempotency check failed")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type ReserveResult struct {
	Reservation *queries.ReservationView
	IsReplayed  bool
}

type ReservationRepository interface {
	Create(ctx context.Context, tx repository.DBTX, res *booking.Reservation) (uuid.UUID, error)
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Reservation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to booking.Status) error
}

type IdempotencyRepository interface {
	TryInsert(ctx context.Context, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error)
	Get(ctx context.Context, key, userID uuid.UUID) (*repository.IdempotencyRecord, error)
	UpdateStatusCompleted(ctx context.Context, tx repository.DBTX, key, userID uuid.UUID, responseBodyHash string, resultReservationID uuid.UUID) error
}

// Transactor scopes the reservation insert and its idempotency completion to
// a single transaction so a replayable key never points at a missing row.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx repository.DBTX) error) error
}

type BookingCommands interface {
	Reserve(ctx context.Context, req reqdto.CreateReservationRequest, patientID uuid.UUID, idempotencyKey uuid.UUID) (*ReserveResult, error)
	Confirm(ctx context.Context, actorID, reservationID uuid.UUID) error
	Refuse(ctx context.Context, actorID, reservationID uuid.UUID) error
	Cancel(ctx context.Context, actorID, reservationID uuid.UUID) error
}

type bookingCommandsImpl struct {
	reservationRepo ReservationRepository
	windowRepo      WindowRepository
	idempotencyRepo IdempotencyRepository
	bookingQueries  queries.BookingQueries
	invalidator     ScheduleInvalidator
	tx              Transactor
	clock           clock.Clock
	slotDurationMin int
}

func NewBookingCommands(
	reservationRepo ReservationRepository,
	windowRepo WindowRepository,
	idempotencyRepo IdempotencyRepository,
	bookingQueries queries.BookingQueries,
	invalidator ScheduleInvalidator,
	tx Transactor,
	clk clock.Clock,
	slotDurationMin int,
) BookingCommands {
	return &bookingCommandsImpl{
		reservationRepo: reservationRepo,
		windowRepo:      windowRepo,
		idempotencyRepo: idempotencyRepo,
		bookingQueries:  bookingQueries,
		invalidator:     invalidator,
		tx:              tx,
		clock:           clk,
		slotDurationMin: slotDurationMin,
	}
}

func (b *bookingCommandsImpl) Reserve(
	ctx context.Context,
	req reqdto.CreateReservationRequest,
	patientID uuid.UUID,
	idempotencyKey uuid.UUID,
) (*ReserveResult, error) {
	requestHash := b.calculateRequestHash(req)
	expiresAt := b.clock.Now().Add(24 * time.Hour)

	replayed, err := b.handleIdempotency(ctx, idempotencyKey, patientID, requestHash, expiresAt)
	if err != nil {
		return nil, err
	}
	if replayed != nil {
		return &ReserveResult{Reservation: replayed, IsReplayed: true}, nil
	}

	view, err := b.createReservation(ctx, req, patientID, idempotencyKey)
	if err != nil {
		return nil, err
	}
	return &ReserveResult{Reservation: view, IsReplayed: false}, nil
}

func (b *bookingCommandsImpl) handleIdempotency(
	ctx context.Context,
	idempotencyKey, patientID uuid.UUID,
	requestHash string,
	expiresAt time.Time,
) (*queries.ReservationView, error) {
	inserted, err := b.idempotencyRepo.TryInsert(ctx, idempotencyKey, patientID, "POST /reservations", requestHash, expiresAt)
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}
	if inserted {
		// Fresh key, proceed with the reservation itself.
		return nil, nil
	}

	existing, err := b.idempotencyRepo.Get(ctx, idempotencyKey, patientID)
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}

	switch existing.Status {
	case "completed":
		if existing.ResultReservationID == nil {
			return nil, errs.New("completed request missing result reservation ID")
		}
		return b.bookingQueries.GetByID(ctx, patientID, *existing.ResultReservationID)

	case "processing":
		if existing.RequestHash != requestHash {
			return nil, ErrDuplicateRequest
		}
		return nil, ErrIdempotencyInProgress

	default:
		return nil, errs.New("invalid idempotency key status")
	}
}

func (b *bookingCommandsImpl) createReservation(
	ctx context.Context,
	req reqdto.CreateReservationRequest,
	patientID, idempotencyKey uuid.UUID,
) (*queries.ReservationView, error) {
	slotTime, err := req.SlotTime()
	if err != nil {
		return nil, errs.Mark(err, ErrSlotNotInWindow)
	}

	window, err := b.windowRepo.FindByID(ctx, req.WindowID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrWindowNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if window.ProfessionalID() == patientID {
		return nil, ErrOwnWindow
	}
	if !slotStartsWithin(window, slotTime, b.slotDurationMin) {
		return nil, ErrSlotNotInWindow
	}

	reservation, err := booking.NewReservation(req.WindowID, patientID, window.ProfessionalID(), slotTime)
	if err != nil {
		return nil, errs.Mark(err, ErrSlotNotInWindow)
	}

	view, err := b.executeReservationTransaction(ctx, reservation, idempotencyKey, patientID)
	if err != nil {
		return nil, err
	}

	b.invalidator.Invalidate(ctx, window.ProfessionalID())
	return view, nil
}

func (b *bookingCommandsImpl) executeReservationTransaction(
	ctx context.Context,
	reservation *booking.Reservation,
	idempotencyKey, patientID uuid.UUID,
) (*queries.ReservationView, error) {
	var reservationID uuid.UUID
	err := b.tx.WithinTx(ctx, func(tx repository.DBTX) error {
		id, err := b.reservationRepo.Create(ctx, tx, reservation)
		if err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return ErrSlotTaken
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		reservationID = id

		responseHash := b.calculateIDHash(id)
		if err := b.idempotencyRepo.UpdateStatusCompleted(ctx, tx, idempotencyKey, patientID, responseHash, id); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	view, err := b.bookingQueries.GetByID(ctx, patientID, reservationID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}

// Confirm moves a pending reservation to awaiting payment. Professional only.
func (b *bookingCommandsImpl) Confirm(ctx context.Context, actorID, reservationID uuid.UUID) error {
	return b.transition(ctx, actorID, reservationID, actorProfessional, func(r *booking.Reservation) error {
		return r.Confirm()
	})
}

// Refuse terminates a pending reservation and frees its slot. Professional only.
func (b *bookingCommandsImpl) Refuse(ctx context.Context, actorID, reservationID uuid.UUID) error {
	return b.transition(ctx, actorID, reservationID, actorProfessional, func(r *booking.Reservation) error {
		return r.Refuse()
	})
}

// Cancel terminates any non-finalized reservation. Patient only.
func (b *bookingCommandsImpl) Cancel(ctx context.Context, actorID, reservationID uuid.UUID) error {
	return b.transition(ctx, actorID, reservationID, actorPatient, func(r *booking.Reservation) error {
		return r.Cancel()
	})
}

type actorKind int

const (
	actorPatient actorKind = iota
	actorProfessional
)

func (b *bookingCommandsImpl) transition(
	ctx context.Context,
	actorID, reservationID uuid.UUID,
	actor actorKind,
	apply func(*booking.Reservation) error,
) error {
	reservation, err := b.reservationRepo.FindByID(ctx, reservationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrReservationNotFound
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	owner := reservation.PatientID()
	if actor == actorProfessional {
		owner = reservation.ProfessionalID()
	}
	if owner != actorID {
		return ErrNotReservationOwner
	}

	from := reservation.Status()
	if err := apply(reservation); err != nil {
		return errs.Mark(err, ErrInvalidTransition)
	}

	if err := b.reservationRepo.UpdateStatus(ctx, reservationID, from, reservation.Status()); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return ErrInvalidTransition
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	b.invalidator.Invalidate(ctx, reservation.ProfessionalID())
	return nil
}

// slotStartsWithin reports whether t is the start of one of the window's
// derived slots. Booking anything else, aligned or not, is rejected.
func slotStartsWithin(w *availability.Window, t availability.TimeOfDay, durationMin int) bool {
	for _, slot := range availability.GenerateSlots(w, durationMin) {
		if slot.Start().Equal(t) {
			return true
		}
	}
	return false
}

func (b *bookingCommandsImpl) calculateRequestHash(req reqdto.CreateReservationRequest) string {
	data, _ := json.Marshal(req)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func (b *bookingCommandsImpl) calculateIDHash(id uuid.UUID) string {
	hash := sha256.Sum256([]byte(id.String()))
	return hex.EncodeToString(hash[:])
}
