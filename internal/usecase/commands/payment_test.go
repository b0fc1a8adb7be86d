//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"

	"psyconnect/internal/domain/booking"
	"psyconnect/internal/infra"
	"psyconnect/internal/infra/payment"
	"psyconnect/internal/infra/repository"
	"psyconnect/internal/usecase/commands"
	"psyconnect/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPaymentGateway struct {
	createSession func(ctx context.Context, reservationID uuid.UUID, description string) (*payment.CheckoutSession, error)
	verifyWebhook func(payload []byte, signature string) (string, bool, error)
}

func (s *stubPaymentGateway) CreateCheckoutSession(ctx context.Context, reservationID uuid.UUID, description string) (*payment.CheckoutSession, error) {
	return s.createSession(ctx, reservationID, description)
}

func (s *stubPaymentGateway) VerifyWebhook(payload []byte, signature string) (string, bool, error) {
	return s.verifyWebhook(payload, signature)
}

type stubSessionRepo struct {
	create        func(ctx context.Context, rec repository.PaymentSessionRecord) error
	findByID      func(ctx context.Context, id string) (*repository.PaymentSessionRecord, error)
	markCompleted func(ctx context.Context, id string) error
}

func (s *stubSessionRepo) Create(ctx context.Context, rec repository.PaymentSessionRecord) error {
	return s.create(ctx, rec)
}

func (s *stubSessionRepo) FindByID(ctx context.Context, id string) (*repository.PaymentSessionRecord, error) {
	return s.findByID(ctx, id)
}

func (s *stubSessionRepo) MarkCompleted(ctx context.Context, id string) error {
	return s.markCompleted(ctx, id)
}

func TestPay(t *testing.T) {
	ctx := context.Background()
	patientID := uuid.New()
	professionalID := uuid.New()

	reservationWith := func(status booking.Status) *booking.Reservation {
		return builder.NewReservationBuilder().
			WithPatient(patientID).
			WithProfessional(professionalID).
			WithStatus(status).
			BuildDomain()
	}

	repoReturning := func(res *booking.Reservation) *stubReservationRepo {
		return &stubReservationRepo{
			findByID: func(ctx context.Context, id uuid.UUID) (*booking.Reservation, error) {
				return res, nil
			},
		}
	}

	t.Run("success: opens a checkout session and records it", func(t *testing.T) {
		res := reservationWith(booking.StatusAwaitingPayment)

		gateway := &stubPaymentGateway{
			createSession: func(ctx context.Context, reservationID uuid.UUID, description string) (*payment.CheckoutSession, error) {
				assert.Equal(t, res.ID(), reservationID)
				assert.Contains(t, description, "Consultation at")
				return &payment.CheckoutSession{ID: "cs_test_123", URL: "https://checkout.example/cs_test_123"}, nil
			},
		}
		var recorded repository.PaymentSessionRecord
		sessions := &stubSessionRepo{
			create: func(ctx context.Context, rec repository.PaymentSessionRecord) error {
				recorded = rec
				return nil
			},
		}

		cmd := commands.NewPaymentCommands(gateway, sessions, repoReturning(res), &spyInvalidator{})

		result, err := cmd.Pay(ctx, patientID, res.ID())
		require.NoError(t, err)
		assert.Equal(t, "cs_test_123", result.SessionID)
		assert.Equal(t, "https://checkout.example/cs_test_123", result.CheckoutURL)
		assert.Equal(t, res.ID(), recorded.ReservationID)
	})

	t.Run("error: only the booking patient may pay", func(t *testing.T) {
		res := reservationWith(booking.StatusAwaitingPayment)
		cmd := commands.NewPaymentCommands(&stubPaymentGateway{}, &stubSessionRepo{}, repoReturning(res), &spyInvalidator{})

		_, err := cmd.Pay(ctx, uuid.New(), res.ID())
		assert.ErrorIs(t, err, commands.ErrNotReservationOwner)
	})

	t.Run("error: unconfirmed and finalized reservations are not payable", func(t *testing.T) {
		for _, status := range []booking.Status{
			booking.StatusAwaitingConfirmation,
			booking.StatusPaid,
			booking.StatusRefused,
			booking.StatusCancelled,
		} {
			res := reservationWith(status)
			cmd := commands.NewPaymentCommands(&stubPaymentGateway{}, &stubSessionRepo{}, repoReturning(res), &spyInvalidator{})

			_, err := cmd.Pay(ctx, patientID, res.ID())
			assert.ErrorIs(t, err, commands.ErrNotPayable, "status %s", status)
		}
	})

	t.Run("error: gateway failure surfaces as session failure", func(t *testing.T) {
		res := reservationWith(booking.StatusAwaitingPayment)
		gateway := &stubPaymentGateway{
			createSession: func(ctx context.Context, reservationID uuid.UUID, description string) (*payment.CheckoutSession, error) {
				return nil, errors.New("stripe unavailable")
			},
		}
		cmd := commands.NewPaymentCommands(gateway, &stubSessionRepo{}, repoReturning(res), &spyInvalidator{})

		_, err := cmd.Pay(ctx, patientID, res.ID())
		assert.ErrorIs(t, err, commands.ErrPaymentSessionFailed)
	})
}

func TestHandleWebhook(t *testing.T) {
	ctx := context.Background()
	patientID := uuid.New()
	professionalID := uuid.New()
	payload := []byte(`{"type":"checkout.session.completed"}`)

	verifiedGateway := func(sessionID string) *stubPaymentGateway {
		return &stubPaymentGateway{
			verifyWebhook: func(p []byte, signature string) (string, bool, error) {
				return sessionID, true, nil
			},
		}
	}

	t.Run("success: settles the reservation and completes the session", func(t *testing.T) {
		res := builder.NewReservationBuilder().
			WithPatient(patientID).
			WithProfessional(professionalID).
			WithStatus(booking.StatusAwaitingPayment).
			BuildDomain()

		var completed string
		sessions := &stubSessionRepo{
			findByID: func(ctx context.Context, id string) (*repository.PaymentSessionRecord, error) {
				return &repository.PaymentSessionRecord{ID: id, ReservationID: res.ID(), Status: "pending"}, nil
			},
			markCompleted: func(ctx context.Context, id string) error {
				completed = id
				return nil
			},
		}
		rr := &stubReservationRepo{
			findByID: func(ctx context.Context, id uuid.UUID) (*booking.Reservation, error) {
				return res, nil
			},
			updateStatus: func(ctx context.Context, id uuid.UUID, from, to booking.Status) error {
				assert.Equal(t, booking.StatusAwaitingPayment, from)
				assert.Equal(t, booking.StatusPaid, to)
				return nil
			},
		}
		inv := &spyInvalidator{}

		cmd := commands.NewPaymentCommands(verifiedGateway("cs_test_123"), sessions, rr, inv)

		err := cmd.HandleWebhook(ctx, payload, "sig")
		require.NoError(t, err)
		assert.Equal(t, "cs_test_123", completed)
		assert.Equal(t, booking.StatusPaid, res.Status())
		assert.Equal(t, []uuid.UUID{professionalID}, inv.invalidated)
	})

	t.Run("uninteresting event types are acknowledged without effect", func(t *testing.T) {
		gateway := &stubPaymentGateway{
			verifyWebhook: func(p []byte, signature string) (string, bool, error) {
				return "", false, nil
			},
		}
		cmd := commands.NewPaymentCommands(gateway, &stubSessionRepo{}, &stubReservationRepo{}, &spyInvalidator{})

		assert.NoError(t, cmd.HandleWebhook(ctx, payload, "sig"))
	})

	t.Run("error: bad signature rejects the delivery", func(t *testing.T) {
		gateway := &stubPaymentGateway{
			verifyWebhook: func(p []byte, signature string) (string, bool, error) {
				return "", false, errors.New("signature mismatch")
			},
		}
		cmd := commands.NewPaymentCommands(gateway, &stubSessionRepo{}, &stubReservationRepo{}, &spyInvalidator{})

		err := cmd.HandleWebhook(ctx, payload, "bad-sig")
		assert.ErrorIs(t, err, commands.ErrWebhookRejected)
	})

	t.Run("error: unknown session rejects the delivery", func(t *testing.T) {
		sessions := &stubSessionRepo{
			findByID: func(ctx context.Context, id string) (*repository.PaymentSessionRecord, error) {
				return nil, infra.NewRepoErr(infra.KindNotFound, "payment session not found", nil)
			},
		}
		cmd := commands.NewPaymentCommands(verifiedGateway("cs_unknown"), sessions, &stubReservationRepo{}, &spyInvalidator{})

		err := cmd.HandleWebhook(ctx, payload, "sig")
		assert.ErrorIs(t, err, commands.ErrWebhookRejected)
	})

	t.Run("replayed delivery on a completed session is absorbed", func(t *testing.T) {
		sessions := &stubSessionRepo{
			findByID: func(ctx context.Context, id string) (*repository.PaymentSessionRecord, error) {
				return &repository.PaymentSessionRecord{ID: id, ReservationID: uuid.New(), Status: "completed"}, nil
			},
		}
		inv := &spyInvalidator{}
		cmd := commands.NewPaymentCommands(verifiedGateway("cs_test_123"), sessions, &stubReservationRepo{}, inv)

		assert.NoError(t, cmd.HandleWebhook(ctx, payload, "sig"))
		assert.Empty(t, inv.invalidated)
	})

	t.Run("replayed delivery on an already paid reservation is absorbed", func(t *testing.T) {
		res := builder.NewReservationBuilder().
			WithPatient(patientID).
			WithProfessional(professionalID).
			WithStatus(booking.StatusPaid).
			BuildDomain()

		sessions := &stubSessionRepo{
			findByID: func(ctx context.Context, id string) (*repository.PaymentSessionRecord, error) {
				return &repository.PaymentSessionRecord{ID: id, ReservationID: res.ID(), Status: "pending"}, nil
			},
		}
		rr := &stubReservationRepo{
			findByID: func(ctx context.Context, id uuid.UUID) (*booking.Reservation, error) {
				return res, nil
			},
		}
		cmd := commands.NewPaymentCommands(verifiedGateway("cs_test_123"), sessions, rr, &spyInvalidator{})

		assert.NoError(t, cmd.HandleWebhook(ctx, payload, "sig"))
		assert.Equal(t, booking.StatusPaid, res.Status())
	})

	t.Run("losing the settlement race is absorbed", func(t *testing.T) {
		res := builder.NewReservationBuilder().
			WithPatient(patientID).
			WithProfessional(professionalID).
			WithStatus(booking.StatusAwaitingPayment).
			BuildDomain()

		sessions := &stubSessionRepo{
			findByID: func(ctx context.Context, id string) (*repository.PaymentSessionRecord, error) {
				return &repository.PaymentSessionRecord{ID: id, ReservationID: res.ID(), Status: "pending"}, nil
			},
		}
		rr := &stubReservationRepo{
			findByID: func(ctx context.Context, id uuid.UUID) (*booking.Reservation, error) {
				return res, nil
			},
			updateStatus: func(ctx context.Context, id uuid.UUID, from, to booking.Status) error {
				return infra.NewRepoErr(infra.KindConflict, "status changed concurrently", nil)
			},
		}
		cmd := commands.NewPaymentCommands(verifiedGateway("cs_test_123"), sessions, rr, &spyInvalidator{})

		assert.NoError(t, cmd.HandleWebhook(ctx, payload, "sig"))
	})
}
