//go:build unit

package commands_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"psyconnect/internal/domain/availability"
	"psyconnect/internal/domain/booking"
	reqdto "psyconnect/internal/handler/dto/request"
	"psyconnect/internal/infra"
	"psyconnect/internal/infra/repository"
	"psyconnect/internal/pkg/clock"
	"psyconnect/internal/usecase/commands"
	"psyconnect/internal/usecase/queries"
	"psyconnect/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReservationRepo struct {
	create       func(ctx context.Context, tx repository.DBTX, res *booking.Reservation) (uuid.UUID, error)
	findByID     func(ctx context.Context, id uuid.UUID) (*booking.Reservation, error)
	updateStatus func(ctx context.Context, id uuid.UUID, from, to booking.Status) error
}

func (s *stubReservationRepo) Create(ctx context.Context, tx repository.DBTX, res *booking.Reservation) (uuid.UUID, error) {
	if s.create == nil {
		return uuid.Nil, errors.New("not implemented")
	}
	return s.create(ctx, tx, res)
}

func (s *stubReservationRepo) FindByID(ctx context.Context, id uuid.UUID) (*booking.Reservation, error) {
	return s.findByID(ctx, id)
}

func (s *stubReservationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to booking.Status) error {
	return s.updateStatus(ctx, id, from, to)
}

type stubWindowRepo struct {
	findByID func(ctx context.Context, id uuid.UUID) (*availability.Window, error)
}

func (s *stubWindowRepo) Create(ctx context.Context, w *availability.Window) error {
	return errors.New("not implemented")
}

func (s *stubWindowRepo) FindByID(ctx context.Context, id uuid.UUID) (*availability.Window, error) {
	return s.findByID(ctx, id)
}

func (s *stubWindowRepo) Delete(ctx context.Context, id, professionalID uuid.UUID) error {
	return errors.New("not implemented")
}

type stubIdempotencyRepo struct {
	tryInsert       func(ctx context.Context, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error)
	get             func(ctx context.Context, key, userID uuid.UUID) (*repository.IdempotencyRecord, error)
	updateCompleted func(ctx context.Context, key, userID uuid.UUID, responseBodyHash string, resultReservationID uuid.UUID) error
}

func (s *stubIdempotencyRepo) TryInsert(ctx context.Context, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	return s.tryInsert(ctx, key, userID, endpoint, requestHash, expiresAt)
}

func (s *stubIdempotencyRepo) Get(ctx context.Context, key, userID uuid.UUID) (*repository.IdempotencyRecord, error) {
	return s.get(ctx, key, userID)
}

func (s *stubIdempotencyRepo) UpdateStatusCompleted(ctx context.Context, tx repository.DBTX, key, userID uuid.UUID, responseBodyHash string, resultReservationID uuid.UUID) error {
	if s.updateCompleted == nil {
		return errors.New("not implemented")
	}
	return s.updateCompleted(ctx, key, userID, responseBodyHash, resultReservationID)
}

// stubTransactor runs the body without a real transaction so the write path
// is exercisable in isolation.
type stubTransactor struct {
	committed int
}

func (s *stubTransactor) WithinTx(ctx context.Context, fn func(tx repository.DBTX) error) error {
	if err := fn(nil); err != nil {
		return err
	}
	s.committed++
	return nil
}

type stubBookingQueries struct {
	getByID func(ctx context.Context, viewerID, id uuid.UUID) (*queries.ReservationView, error)
}

func (s *stubBookingQueries) GetByID(ctx context.Context, viewerID, id uuid.UUID) (*queries.ReservationView, error) {
	return s.getByID(ctx, viewerID, id)
}

func (s *stubBookingQueries) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*queries.ReservationView, error) {
	return nil, errors.New("not implemented")
}

func (s *stubBookingQueries) ListForProfessional(ctx context.Context, professionalID uuid.UUID) ([]*queries.ReservationView, error) {
	return nil, errors.New("not implemented")
}

type spyInvalidator struct {
	invalidated []uuid.UUID
}

func (s *spyInvalidator) Invalidate(ctx context.Context, professionalID uuid.UUID) {
	s.invalidated = append(s.invalidated, professionalID)
}

func requestHashOf(t *testing.T, req reqdto.CreateReservationRequest) string {
	t.Helper()
	data, err := json.Marshal(req)
	require.NoError(t, err)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func freshKeyIdemRepo() *stubIdempotencyRepo {
	return &stubIdempotencyRepo{
		tryInsert: func(ctx context.Context, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
			return true, nil
		},
		get: func(ctx context.Context, key, userID uuid.UUID) (*repository.IdempotencyRecord, error) {
			return nil, infra.NewRepoErr(infra.KindNotFound, "idempotency key not found", nil)
		},
	}
}

func TestReserveIdempotency(t *testing.T) {
	ctx := context.Background()
	patientID := uuid.New()
	key := uuid.New()
	req := reqdto.CreateReservationRequest{WindowID: uuid.New(), StartTime: "09:45:00"}
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)

	newCommands := func(idemRepo *stubIdempotencyRepo, bq *stubBookingQueries, wr *stubWindowRepo) (commands.BookingCommands, *spyInvalidator) {
		inv := &spyInvalidator{}
		cmd := commands.NewBookingCommands(
			&stubReservationRepo{}, wr, idemRepo, bq, inv, &stubTransactor{}, clock.NewFrozenClock(now), 45,
		)
		return cmd, inv
	}

	t.Run("completed key replays the stored reservation", func(t *testing.T) {
		resultID := uuid.New()
		stored := builder.NewReservationBuilder().
			WithWindow(req.WindowID).
			WithPatient(patientID).
			BuildReadModel()

		idemRepo := &stubIdempotencyRepo{
			tryInsert: func(ctx context.Context, k, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
				assert.Equal(t, "POST /reservations", endpoint)
				assert.Equal(t, now.Add(24*time.Hour), expiresAt)
				return false, nil
			},
			get: func(ctx context.Context, k, userID uuid.UUID) (*repository.IdempotencyRecord, error) {
				return &repository.IdempotencyRecord{
					Key:                 k,
					UserID:              userID,
					Status:              "completed",
					RequestHash:         requestHashOf(t, req),
					ResultReservationID: &resultID,
				}, nil
			},
		}
		bq := &stubBookingQueries{
			getByID: func(ctx context.Context, viewerID, id uuid.UUID) (*queries.ReservationView, error) {
				assert.Equal(t, patientID, viewerID)
				assert.Equal(t, resultID, id)
				return stored, nil
			},
		}

		cmd, inv := newCommands(idemRepo, bq, &stubWindowRepo{})

		result, err := cmd.Reserve(ctx, req, patientID, key)
		require.NoError(t, err)
		assert.True(t, result.IsReplayed)
		assert.Equal(t, stored, result.Reservation)
		assert.Empty(t, inv.invalidated, "replay must not touch the cache")
	})

	t.Run("processing key with the same payload is still in flight", func(t *testing.T) {
		idemRepo := &stubIdempotencyRepo{
			tryInsert: func(ctx context.Context, k, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
				return false, nil
			},
			get: func(ctx context.Context, k, userID uuid.UUID) (*repository.IdempotencyRecord, error) {
				return &repository.IdempotencyRecord{Status: "processing", RequestHash: requestHashOf(t, req)}, nil
			},
		}

		cmd, _ := newCommands(idemRepo, &stubBookingQueries{}, &stubWindowRepo{})

		_, err := cmd.Reserve(ctx, req, patientID, key)
		assert.ErrorIs(t, err, commands.ErrIdempotencyInProgress)
	})

	t.Run("processing key with a different payload is rejected", func(t *testing.T) {
		idemRepo := &stubIdempotencyRepo{
			tryInsert: func(ctx context.Context, k, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
				return false, nil
			},
			get: func(ctx context.Context, k, userID uuid.UUID) (*repository.IdempotencyRecord, error) {
				return &repository.IdempotencyRecord{Status: "processing", RequestHash: "different-hash"}, nil
			},
		}

		cmd, _ := newCommands(idemRepo, &stubBookingQueries{}, &stubWindowRepo{})

		_, err := cmd.Reserve(ctx, req, patientID, key)
		assert.ErrorIs(t, err, commands.ErrDuplicateRequest)
	})

	t.Run("idempotency store failure surfaces as a check failure", func(t *testing.T) {
		idemRepo := &stubIdempotencyRepo{
			tryInsert: func(ctx context.Context, k, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
				return false, infra.NewRepoErr(infra.KindDBFailure, "insert failed", errors.New("connection refused"))
			},
		}

		cmd, _ := newCommands(idemRepo, &stubBookingQueries{}, &stubWindowRepo{})

		_, err := cmd.Reserve(ctx, req, patientID, key)
		assert.ErrorIs(t, err, commands.ErrIdempotencyCheckFailed)
	})
}

func TestReserveValidation(t *testing.T) {
	ctx := context.Background()
	patientID := uuid.New()
	key := uuid.New()
	professionalID := uuid.New()

	newCommands := func(wr *stubWindowRepo) commands.BookingCommands {
		return commands.NewBookingCommands(
			&stubReservationRepo{}, wr, freshKeyIdemRepo(), &stubBookingQueries{},
			&spyInvalidator{}, &stubTransactor{}, clock.NewRealClock(), 45,
		)
	}

	windowRepoReturning := func(w *availability.Window) *stubWindowRepo {
		return &stubWindowRepo{
			findByID: func(ctx context.Context, id uuid.UUID) (*availability.Window, error) {
				return w, nil
			},
		}
	}

	t.Run("unknown window yields ErrWindowNotFound", func(t *testing.T) {
		wr := &stubWindowRepo{
			findByID: func(ctx context.Context, id uuid.UUID) (*availability.Window, error) {
				return nil, infra.NewRepoErr(infra.KindNotFound, "window not found", nil)
			},
		}

		req := reqdto.CreateReservationRequest{WindowID: uuid.New(), StartTime: "09:00:00"}
		_, err := newCommands(wr).Reserve(ctx, req, patientID, key)
		assert.ErrorIs(t, err, commands.ErrWindowNotFound)
	})

	t.Run("professional cannot book their own window", func(t *testing.T) {
		window, err := builder.NewWindowBuilder().WithProfessional(professionalID).BuildDomain()
		require.NoError(t, err)

		req := reqdto.CreateReservationRequest{WindowID: uuid.New(), StartTime: "09:00:00"}
		_, err = newCommands(windowRepoReturning(window)).Reserve(ctx, req, professionalID, key)
		assert.ErrorIs(t, err, commands.ErrOwnWindow)
	})

	t.Run("time off the slot grid is rejected", func(t *testing.T) {
		window, err := builder.NewWindowBuilder().WithProfessional(professionalID).BuildDomain()
		require.NoError(t, err)
		repo := windowRepoReturning(window)

		// 09:00-12:00 tiled in 45min: 09:00, 09:45, 10:30, 11:15
		cases := []string{"09:30:00", "11:16:00", "12:00:00", "08:15:00"}
		for _, startTime := range cases {
			req := reqdto.CreateReservationRequest{WindowID: uuid.New(), StartTime: startTime}
			_, err := newCommands(repo).Reserve(ctx, req, patientID, key)
			assert.ErrorIs(t, err, commands.ErrSlotNotInWindow, "start_time %s", startTime)
		}
	})

	t.Run("unparseable time is rejected before any lookup", func(t *testing.T) {
		wr := &stubWindowRepo{
			findByID: func(ctx context.Context, id uuid.UUID) (*availability.Window, error) {
				t.Fatal("window repo must not be consulted")
				return nil, nil
			},
		}

		req := reqdto.CreateReservationRequest{WindowID: uuid.New(), StartTime: "25:99"}
		_, err := newCommands(wr).Reserve(ctx, req, patientID, key)
		assert.ErrorIs(t, err, commands.ErrSlotNotInWindow)
	})
}

func TestReserveWrite(t *testing.T) {
	ctx := context.Background()
	patientID := uuid.New()
	key := uuid.New()
	professionalID := uuid.New()
	req := reqdto.CreateReservationRequest{WindowID: uuid.New(), StartTime: "10:30:00"}

	newWindow := func(t *testing.T) *availability.Window {
		t.Helper()
		window, err := builder.NewWindowBuilder().WithProfessional(professionalID).BuildDomain()
		require.NoError(t, err)
		return window
	}

	windowRepoReturning := func(w *availability.Window) *stubWindowRepo {
		return &stubWindowRepo{
			findByID: func(ctx context.Context, id uuid.UUID) (*availability.Window, error) {
				return w, nil
			},
		}
	}

	t.Run("reservation is inserted and its key completed in one transaction", func(t *testing.T) {
		reservationID := uuid.New()
		stored := builder.NewReservationBuilder().
			WithWindow(req.WindowID).
			WithPatient(patientID).
			BuildReadModel()

		rr := &stubReservationRepo{
			create: func(ctx context.Context, tx repository.DBTX, res *booking.Reservation) (uuid.UUID, error) {
				assert.Equal(t, req.WindowID, res.WindowID())
				assert.Equal(t, patientID, res.PatientID())
				assert.Equal(t, professionalID, res.ProfessionalID())
				assert.Equal(t, booking.StatusAwaitingConfirmation, res.Status())
				assert.Equal(t, 10*60+30, res.ConsultationAt().Minutes())
				return reservationID, nil
			},
		}
		idemRepo := freshKeyIdemRepo()
		var completedWith uuid.UUID
		idemRepo.updateCompleted = func(ctx context.Context, k, userID uuid.UUID, responseBodyHash string, resultReservationID uuid.UUID) error {
			completedWith = resultReservationID
			return nil
		}
		bq := &stubBookingQueries{
			getByID: func(ctx context.Context, viewerID, id uuid.UUID) (*queries.ReservationView, error) {
				assert.Equal(t, reservationID, id)
				return stored, nil
			},
		}
		tx := &stubTransactor{}
		inv := &spyInvalidator{}
		cmd := commands.NewBookingCommands(
			rr, windowRepoReturning(newWindow(t)), idemRepo, bq, inv, tx, clock.NewRealClock(), 45,
		)

		result, err := cmd.Reserve(ctx, req, patientID, key)
		require.NoError(t, err)
		assert.False(t, result.IsReplayed)
		assert.Equal(t, stored, result.Reservation)
		assert.Equal(t, reservationID, completedWith)
		assert.Equal(t, 1, tx.committed)
		assert.Equal(t, []uuid.UUID{professionalID}, inv.invalidated)
	})

	t.Run("losing the slot race yields ErrSlotTaken", func(t *testing.T) {
		rr := &stubReservationRepo{
			create: func(ctx context.Context, tx repository.DBTX, res *booking.Reservation) (uuid.UUID, error) {
				return uuid.Nil, infra.NewRepoErr(infra.KindConflict, "slot already reserved", nil)
			},
		}
		tx := &stubTransactor{}
		inv := &spyInvalidator{}
		cmd := commands.NewBookingCommands(
			rr, windowRepoReturning(newWindow(t)), freshKeyIdemRepo(), &stubBookingQueries{},
			inv, tx, clock.NewRealClock(), 45,
		)

		_, err := cmd.Reserve(ctx, req, patientID, key)
		assert.ErrorIs(t, err, commands.ErrSlotTaken)
		assert.Zero(t, tx.committed, "a lost race must roll back")
		assert.Empty(t, inv.invalidated)
	})

	t.Run("insert failure other than a conflict is a database error", func(t *testing.T) {
		rr := &stubReservationRepo{
			create: func(ctx context.Context, tx repository.DBTX, res *booking.Reservation) (uuid.UUID, error) {
				return uuid.Nil, infra.NewRepoErr(infra.KindDBFailure, "insert failed", errors.New("connection reset"))
			},
		}
		cmd := commands.NewBookingCommands(
			rr, windowRepoReturning(newWindow(t)), freshKeyIdemRepo(), &stubBookingQueries{},
			&spyInvalidator{}, &stubTransactor{}, clock.NewRealClock(), 45,
		)

		_, err := cmd.Reserve(ctx, req, patientID, key)
		assert.ErrorIs(t, err, commands.ErrDatabaseOperationFailed)
	})
}

func TestTransitions(t *testing.T) {
	ctx := context.Background()
	patientID := uuid.New()
	professionalID := uuid.New()

	newCommands := func(rr *stubReservationRepo) (commands.BookingCommands, *spyInvalidator) {
		inv := &spyInvalidator{}
		cmd := commands.NewBookingCommands(
			rr, &stubWindowRepo{}, freshKeyIdemRepo(), &stubBookingQueries{},
			inv, &stubTransactor{}, clock.NewRealClock(), 45,
		)
		return cmd, inv
	}

	pendingReservation := func() *booking.Reservation {
		return builder.NewReservationBuilder().
			WithPatient(patientID).
			WithProfessional(professionalID).
			WithStatus(booking.StatusAwaitingConfirmation).
			BuildDomain()
	}

	t.Run("professional confirms a pending reservation", func(t *testing.T) {
		res := pendingReservation()
		var updatedFrom, updatedTo booking.Status
		rr := &stubReservationRepo{
			findByID: func(ctx context.Context, id uuid.UUID) (*booking.Reservation, error) {
				return res, nil
			},
			updateStatus: func(ctx context.Context, id uuid.UUID, from, to booking.Status) error {
				updatedFrom, updatedTo = from, to
				return nil
			},
		}
		cmd, inv := newCommands(rr)

		err := cmd.Confirm(ctx, professionalID, res.ID())
		require.NoError(t, err)
		assert.Equal(t, booking.StatusAwaitingConfirmation, updatedFrom)
		assert.Equal(t, booking.StatusAwaitingPayment, updatedTo)
		assert.Equal(t, []uuid.UUID{professionalID}, inv.invalidated)
	})

	t.Run("patient cannot confirm", func(t *testing.T) {
		res := pendingReservation()
		rr := &stubReservationRepo{
			findByID: func(ctx context.Context, id uuid.UUID) (*booking.Reservation, error) {
				return res, nil
			},
		}
		cmd, inv := newCommands(rr)

		err := cmd.Confirm(ctx, patientID, res.ID())
		assert.ErrorIs(t, err, commands.ErrNotReservationOwner)
		assert.Empty(t, inv.invalidated)
	})

	t.Run("professional cannot cancel, that is the patient's verb", func(t *testing.T) {
		res := pendingReservation()
		rr := &stubReservationRepo{
			findByID: func(ctx context.Context, id uuid.UUID) (*booking.Reservation, error) {
				return res, nil
			},
		}
		cmd, _ := newCommands(rr)

		err := cmd.Cancel(ctx, professionalID, res.ID())
		assert.ErrorIs(t, err, commands.ErrNotReservationOwner)
	})

	t.Run("patient cancels a confirmed reservation", func(t *testing.T) {
		res := builder.NewReservationBuilder().
			WithPatient(patientID).
			WithProfessional(professionalID).
			WithStatus(booking.StatusAwaitingPayment).
			BuildDomain()
		rr := &stubReservationRepo{
			findByID: func(ctx context.Context, id uuid.UUID) (*booking.Reservation, error) {
				return res, nil
			},
			updateStatus: func(ctx context.Context, id uuid.UUID, from, to booking.Status) error {
				return nil
			},
		}
		cmd, _ := newCommands(rr)

		err := cmd.Cancel(ctx, patientID, res.ID())
		require.NoError(t, err)
		assert.Equal(t, booking.StatusCancelled, res.Status())
	})

	t.Run("refusing a paid reservation is an invalid transition", func(t *testing.T) {
		res := builder.NewReservationBuilder().
			WithPatient(patientID).
			WithProfessional(professionalID).
			WithStatus(booking.StatusPaid).
			BuildDomain()
		rr := &stubReservationRepo{
			findByID: func(ctx context.Context, id uuid.UUID) (*booking.Reservation, error) {
				return res, nil
			},
		}
		cmd, inv := newCommands(rr)

		err := cmd.Refuse(ctx, professionalID, res.ID())
		assert.ErrorIs(t, err, commands.ErrInvalidTransition)
		assert.Empty(t, inv.invalidated)
	})

	t.Run("concurrent transition loses on the status precondition", func(t *testing.T) {
		res := pendingReservation()
		rr := &stubReservationRepo{
			findByID: func(ctx context.Context, id uuid.UUID) (*booking.Reservation, error) {
				return res, nil
			},
			updateStatus: func(ctx context.Context, id uuid.UUID, from, to booking.Status) error {
				return infra.NewRepoErr(infra.KindConflict, "status changed concurrently", nil)
			},
		}
		cmd, _ := newCommands(rr)

		err := cmd.Confirm(ctx, professionalID, res.ID())
		assert.ErrorIs(t, err, commands.ErrInvalidTransition)
	})

	t.Run("unknown reservation yields ErrReservationNotFound", func(t *testing.T) {
		rr := &stubReservationRepo{
			findByID: func(ctx context.Context, id uuid.UUID) (*booking.Reservation, error) {
				return nil, infra.NewRepoErr(infra.KindNotFound, "reservation not found", nil)
			},
		}
		cmd, _ := newCommands(rr)

		err := cmd.Confirm(ctx, professionalID, uuid.New())
		assert.ErrorIs(t, err, commands.ErrReservationNotFound)
	})
}
