package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"psyconnect/internal/domain/user"
	"psyconnect/internal/handler/api"
	"psyconnect/internal/handler/middleware"
	"psyconnect/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	authHandler *api.AuthHandler,
	availabilityHandler *api.AvailabilityHandler,
	scheduleHandler *api.ScheduleHandler,
	bookingHandler *api.BookingHandler,
	paymentHandler *api.PaymentHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, authHandler, availabilityHandler, scheduleHandler, bookingHandler, paymentHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	authHandler *api.AuthHandler,
	availabilityHandler *api.AvailabilityHandler,
	scheduleHandler *api.ScheduleHandler,
	bookingHandler *api.BookingHandler,
	paymentHandler *api.PaymentHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/register", Handler: authHandler.Register},
				{Method: http.MethodPost, Path: "/login", Handler: authHandler.Login},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodGet, Path: "/me", Handler: authHandler.Me},
			})
		}

		professionals := apiGroup.Group("/professionals")
		professionals.Use(authMiddleware.RequireAuth())
		{
			addRoutes(professionals, []route{
				{Method: http.MethodGet, Path: "/:id/schedule", Handler: scheduleHandler.ProfessionalSchedule},
			})
		}

		availabilities := apiGroup.Group("/availabilities")
		availabilities.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRole(user.RoleProfessional))
		{
			addRoutes(availabilities, []route{
				{Method: http.MethodPost, Path: "", Handler: availabilityHandler.Create},
				{Method: http.MethodGet, Path: "", Handler: availabilityHandler.List},
				{Method: http.MethodDelete, Path: "/:id", Handler: availabilityHandler.Delete},
			})
		}

		reservations := apiGroup.Group("/reservations")
		reservations.Use(authMiddleware.RequireAuth())
		{
			addRoutes(reservations, []route{
				{Method: http.MethodPost, Path: "", Handler: bookingHandler.Reserve, Mw: []gin.HandlerFunc{authMiddleware.RequireRole(user.RolePatient)}},
				{Method: http.MethodGet, Path: "", Handler: bookingHandler.ListReservations},
				{Method: http.MethodGet, Path: "/:id", Handler: bookingHandler.GetReservation},
				{Method: http.MethodPost, Path: "/:id/confirm", Handler: bookingHandler.Confirm, Mw: []gin.HandlerFunc{authMiddleware.RequireRole(user.RoleProfessional)}},
				{Method: http.MethodPost, Path: "/:id/refuse", Handler: bookingHandler.Refuse, Mw: []gin.HandlerFunc{authMiddleware.RequireRole(user.RoleProfessional)}},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: bookingHandler.Cancel, Mw: []gin.HandlerFunc{authMiddleware.RequireRole(user.RolePatient)}},
				{Method: http.MethodPost, Path: "/:id/pay", Handler: paymentHandler.Pay, Mw: []gin.HandlerFunc{authMiddleware.RequireRole(user.RolePatient)}},
			})
		}

		payments := apiGroup.Group("/payments")
		{
			addRoutes(payments, []route{
				{Method: http.MethodPost, Path: "/webhook", Handler: paymentHandler.Webhook},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
