package commands

import (
	"context"
	"fmt"

	"psyconnect/internal/domain/booking"
	"psyconnect/internal/infra"
	"psyconnect/internal/infra/payment"
	"psyconnect/internal/infra/repository"
	"psyconnect/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrNotPayable           = errs.New("reservation is not awaiting payment")
	ErrPaymentSessionFailed = errs.New("payment session creation failed")
	ErrWebhookRejected      = errs.New("webhook verification failed")
)

type CheckoutResult struct {
	SessionID   string
	CheckoutURL string
}

type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, reservationID uuid.UUID, description string) (*payment.CheckoutSession, error)
	VerifyWebhook(payload []byte, signature string) (sessionID string, ok bool, err error)
}

type PaymentSessionRepository interface {
	Create(ctx context.Context, rec repository.PaymentSessionRecord) error
	FindByID(ctx context.Context, id string) (*repository.PaymentSessionRecord, error)
	MarkCompleted(ctx context.Context, id string) error
}

type PaymentCommands interface {
	Pay(ctx context.Context, patientID, reservationID uuid.UUID) (*CheckoutResult, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type paymentCommandsImpl struct {
	gateway         PaymentGateway
	sessionRepo     PaymentSessionRepository
	reservationRepo ReservationRepository
	invalidator     ScheduleInvalidator
}

func NewPaymentCommands(
	gateway PaymentGateway,
	sessionRepo PaymentSessionRepository,
	reservationRepo ReservationRepository,
	invalidator ScheduleInvalidator,
) PaymentCommands {
	return &paymentCommandsImpl{
		gateway:         gateway,
		sessionRepo:     sessionRepo,
		reservationRepo: reservationRepo,
		invalidator:     invalidator,
	}
}

// Pay opens a checkout session for a confirmed reservation. Settlement is
// acknowledged later through the webhook; the reservation stays awaiting
// payment until then.
func (p *paymentCommandsImpl) Pay(ctx context.Context, patientID, reservationID uuid.UUID) (*CheckoutResult, error) {
	reservation, err := p.reservationRepo.FindByID(ctx, reservationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if reservation.PatientID() != patientID {
		return nil, ErrNotReservationOwner
	}
	if reservation.Status() != booking.StatusAwaitingPayment {
		return nil, ErrNotPayable
	}

	description := fmt.Sprintf("Consultation at %s", reservation.ConsultationAt().String())
	session, err := p.gateway.CreateCheckoutSession(ctx, reservationID, description)
	if err != nil {
		return nil, errs.Mark(err, ErrPaymentSessionFailed)
	}

	record := repository.PaymentSessionRecord{
		ID:            session.ID,
		ReservationID: reservationID,
		CheckoutURL:   session.URL,
	}
	if err := p.sessionRepo.Create(ctx, record); err != nil {
		return nil, errs.Mark(err, ErrPaymentSessionFailed)
	}

	return &CheckoutResult{SessionID: session.ID, CheckoutURL: session.URL}, nil
}

// HandleWebhook settles the reservation referenced by a completed checkout
// session. Replayed deliveries are absorbed: a session already completed or a
// reservation already paid leaves the state as is.
func (p *paymentCommandsImpl) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	sessionID, ok, err := p.gateway.VerifyWebhook(payload, signature)
	if err != nil {
		return errs.Mark(err, ErrWebhookRejected)
	}
	if !ok {
		return nil
	}

	session, err := p.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, ErrWebhookRejected)
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if session.Status == "completed" {
		return nil
	}

	reservation, err := p.reservationRepo.FindByID(ctx, session.ReservationID)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	from := reservation.Status()
	if err := reservation.MarkPaid(); err != nil {
		// Paid already or diverted to a terminal state meanwhile.
		return nil
	}

	if err := p.reservationRepo.UpdateStatus(ctx, reservation.ID(), from, reservation.Status()); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return nil
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := p.sessionRepo.MarkCompleted(ctx, sessionID); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	p.invalidator.Invalidate(ctx, reservation.ProfessionalID())
	return nil
}
