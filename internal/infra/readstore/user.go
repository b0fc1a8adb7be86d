package readstore

import (
	"context"

	"psyconnect/internal/infra"
	"psyconnect/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserReadStore struct {
	pool *pgxpool.Pool
}

func NewUserReadStore(pool *pgxpool.Pool) *UserReadStore {
	return &UserReadStore{pool: pool}
}

func (s *UserReadStore) FindByEmail(ctx context.Context, email string) (*queries.CredentialView, error) {
	query := `
		SELECT id, email, password_hash, role, display_name, is_active
		FROM users
		WHERE email = $1
	`

	return scanCredential(s.pool.QueryRow(ctx, query, email))
}

func (s *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.CredentialView, error) {
	query := `
		SELECT id, email, password_hash, role, display_name, is_active
		FROM users
		WHERE id = $1
	`

	return scanCredential(s.pool.QueryRow(ctx, query, id))
}

func scanCredential(row pgx.Row) (*queries.CredentialView, error) {
	var view queries.CredentialView
	err := row.Scan(&view.ID, &view.Email, &view.PasswordHash, &view.Role, &view.DisplayName, &view.IsActive)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.NewRepoErr(infra.KindNotFound, "user not found", nil)
		}
		return nil, infra.NewRepoErr(infra.KindDBFailure, "failed to scan user", err)
	}

	return &view, nil
}
