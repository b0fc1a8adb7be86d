package components

import (
	"psyconnect/internal/pkg/clock"
	"psyconnect/internal/pkg/config"
	"psyconnect/internal/usecase"
	"psyconnect/internal/usecase/commands"
	"psyconnect/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		NewScheduleQueries,
		queries.NewBookingQueries,
		queries.NewAvailabilityQueries,
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewAvailabilityCommands,
		NewBookingCommands,
		commands.NewPaymentCommands,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

// The slot duration is plain config, not an injectable component, so the
// constructors that need it get thin wrappers.

func NewScheduleQueries(store queries.ScheduleReadStore, cfg config.Config) queries.ScheduleQueries {
	return queries.NewScheduleQueries(store, cfg.Booking.SlotDurationMin)
}

func NewBookingCommands(
	reservationRepo commands.ReservationRepository,
	windowRepo commands.WindowRepository,
	idempotencyRepo commands.IdempotencyRepository,
	bookingQueries queries.BookingQueries,
	invalidator commands.ScheduleInvalidator,
	tx commands.Transactor,
	clk clock.Clock,
	cfg config.Config,
) commands.BookingCommands {
	return commands.NewBookingCommands(
		reservationRepo,
		windowRepo,
		idempotencyRepo,
		bookingQueries,
		invalidator,
		tx,
		clk,
		cfg.Booking.SlotDurationMin,
	)
}
