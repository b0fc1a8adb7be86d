package repository

import (
	"context"

	"psyconnect/internal/domain/user"
	"psyconnect/internal/infra"

	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, role, display_name, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		u.ID(),
		u.Email().Value(),
		u.PasswordHash(),
		u.Role().String(),
		u.DisplayName(),
		u.IsActive(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.NewRepoErr(infra.KindDuplicateKey, "email already registered", err)
		}
		return infra.NewRepoErr(infra.KindDBFailure, "failed to create user", err)
	}

	return nil
}
