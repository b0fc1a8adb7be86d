package repository

import (
	"context"
	"time"

	"psyconnect/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type IdempotencyRecord struct {
	Key                 uuid.UUID
	UserID              uuid.UUID
	Endpoint            string
	RequestHash         string
	ResponseBodyHash    *string
	Status              string
	ResultReservationID *uuid.UUID
	ExpiresAt           time.Time
}

type IdempotencyRepository struct {
	pool *pgxpool.Pool
}

func NewIdempotencyRepository(pool *pgxpool.Pool) *IdempotencyRepository {
	return &IdempotencyRepository{pool: pool}
}

// TryInsert claims the key if it is new and reports whether it did. An
// existing key is left untouched so the caller can inspect it with Get and
// replay or reject.
func (r *IdempotencyRepository) TryInsert(ctx context.Context, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	query := `
		INSERT INTO idempotency_keys (key, user_id, endpoint, request_hash, status, expires_at)
		VALUES ($1, $2, $3, $4, 'processing', $5)
		ON CONFLICT (key, user_id) DO NOTHING
	`

	tag, err := r.pool.Exec(ctx, query, key, userID, endpoint, requestHash, expiresAt)
	if err != nil {
		return false, infra.NewRepoErr(infra.KindDBFailure, "failed to insert idempotency key", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *IdempotencyRepository) Get(ctx context.Context, key, userID uuid.UUID) (*IdempotencyRecord, error) {
	query := `
		SELECT key, user_id, endpoint, request_hash, response_body_hash, status, result_reservation_id, expires_at
		FROM idempotency_keys
		WHERE key = $1 AND user_id = $2
	`

	var (
		rec              IdempotencyRecord
		responseBodyHash pgtype.Text
		resultID         pgtype.UUID
		expiresAt        pgtype.Timestamptz
	)
	err := r.pool.QueryRow(ctx, query, key, userID).Scan(
		&rec.Key, &rec.UserID, &rec.Endpoint, &rec.RequestHash,
		&responseBodyHash, &rec.Status, &resultID, &expiresAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.NewRepoErr(infra.KindNotFound, "idempotency key not found", nil)
		}
		return nil, infra.NewRepoErr(infra.KindDBFailure, "failed to get idempotency key", err)
	}

	if responseBodyHash.Valid {
		rec.ResponseBodyHash = &responseBodyHash.String
	}
	if resultID.Valid {
		id := uuid.UUID(resultID.Bytes)
		rec.ResultReservationID = &id
	}
	if expiresAt.Valid {
		rec.ExpiresAt = expiresAt.Time
	}

	return &rec, nil
}

func (r *IdempotencyRepository) UpdateStatusCompleted(ctx context.Context, tx DBTX, key, userID uuid.UUID, responseBodyHash string, resultReservationID uuid.UUID) error {
	query := `
		UPDATE idempotency_keys
		SET status = 'completed', response_body_hash = $1, result_reservation_id = $2, updated_at = now()
		WHERE key = $3 AND user_id = $4
	`

	_, err := tx.Exec(ctx, query, responseBodyHash, resultReservationID, key, userID)
	if err != nil {
		return infra.NewRepoErr(infra.KindDBFailure, "failed to complete idempotency key", err)
	}

	return nil
}
