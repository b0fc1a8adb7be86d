package components

import (
	"psyconnect/internal/infra/cache"
	"psyconnect/internal/infra/payment"
	"psyconnect/internal/infra/readstore"
	repo_impl "psyconnect/internal/infra/repository"
	"psyconnect/internal/pkg/config"
	"psyconnect/internal/usecase/commands"
	"psyconnect/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repo_impl.NewUserRepository,
			fx.As(new(commands.UserRepository)),
		),
		fx.Annotate(
			repo_impl.NewAvailabilityRepository,
			fx.As(new(commands.WindowRepository)),
		),
		fx.Annotate(
			repo_impl.NewReservationRepository,
			fx.As(new(commands.ReservationRepository)),
			fx.As(new(commands.ActiveReservationCounter)),
		),
		fx.Annotate(
			repo_impl.NewIdempotencyRepository,
			fx.As(new(commands.IdempotencyRepository)),
		),
		fx.Annotate(
			repo_impl.NewPgxTransactor,
			fx.As(new(commands.Transactor)),
		),
		fx.Annotate(
			repo_impl.NewPaymentSessionRepository,
			fx.As(new(commands.PaymentSessionRepository)),
		),
		fx.Annotate(
			NewCachedScheduleStore,
			fx.As(new(queries.ScheduleReadStore)),
			fx.As(new(commands.ScheduleInvalidator)),
		),
		fx.Annotate(
			readstore.NewReservationReadStore,
			fx.As(new(queries.ReservationReadStore)),
		),
		fx.Annotate(
			readstore.NewAvailabilityReadStore,
			fx.As(new(queries.AvailabilityReadStore)),
		),
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(queries.UserReadStore)),
		),
		fx.Annotate(
			NewPaymentGateway,
			fx.As(new(commands.PaymentGateway)),
		),
	),
)

// NewCachedScheduleStore layers the versioned Redis cache over the Postgres
// schedule snapshot reads.
func NewCachedScheduleStore(pool *pgxpool.Pool, client *redis.Client, cfg config.Config) *cache.ScheduleCache {
	base := readstore.NewScheduleReadStore(pool)
	return cache.NewScheduleCache(base, client, cfg.Redis.CacheTTL)
}

func NewPaymentGateway(cfg config.Config) *payment.StripeGateway {
	return payment.NewStripeGateway(cfg.Stripe)
}
