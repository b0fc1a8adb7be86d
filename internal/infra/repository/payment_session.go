package repository

import (
	"context"

	"psyconnect/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentSessionRecord struct {
	ID            string
	ReservationID uuid.UUID
	CheckoutURL   string
	Status        string
}

type PaymentSessionRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentSessionRepository(pool *pgxpool.Pool) *PaymentSessionRepository {
	return &PaymentSessionRepository{pool: pool}
}

func (r *PaymentSessionRepository) Create(ctx context.Context, rec PaymentSessionRecord) error {
	query := `
		INSERT INTO payment_sessions (id, reservation_id, checkout_url, status)
		VALUES ($1, $2, $3, 'open')
	`

	_, err := r.pool.Exec(ctx, query, rec.ID, rec.ReservationID, rec.CheckoutURL)
	if err != nil {
		return infra.NewRepoErr(infra.KindDBFailure, "failed to create payment session", err)
	}

	return nil
}

func (r *PaymentSessionRepository) FindByID(ctx context.Context, id string) (*PaymentSessionRecord, error) {
	query := `
		SELECT id, reservation_id, checkout_url, status
		FROM payment_sessions
		WHERE id = $1
	`

	var rec PaymentSessionRecord
	err := r.pool.QueryRow(ctx, query, id).Scan(&rec.ID, &rec.ReservationID, &rec.CheckoutURL, &rec.Status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.NewRepoErr(infra.KindNotFound, "payment session not found", nil)
		}
		return nil, infra.NewRepoErr(infra.KindDBFailure, "failed to get payment session", err)
	}

	return &rec, nil
}

func (r *PaymentSessionRepository) MarkCompleted(ctx context.Context, id string) error {
	query := `
		UPDATE payment_sessions
		SET status = 'completed', updated_at = now()
		WHERE id = $1 AND status = 'open'
	`

	_, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return infra.NewRepoErr(infra.KindDBFailure, "failed to complete payment session", err)
	}

	return nil
}
