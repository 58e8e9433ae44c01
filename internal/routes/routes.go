package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	"github.com/BruksfildServices01/booking-engine/internal/config"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/booking"
	"github.com/BruksfildServices01/booking-engine/internal/handlers"
	"github.com/BruksfildServices01/booking-engine/internal/middleware"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
	ucAvailability "github.com/BruksfildServices01/booking-engine/internal/usecase/availability"
	ucBooking "github.com/BruksfildServices01/booking-engine/internal/usecase/booking"
	"github.com/BruksfildServices01/booking-engine/internal/usecase/pricing"
	"github.com/BruksfildServices01/booking-engine/internal/usecase/schedule"
)

// Dependencies are the process-wide singletons built in main.
type Dependencies struct {
	Config *config.Config
	Store  domain.Store
	Audit  *audit.Dispatcher
	Clock  timezone.Clock
	Logger zerolog.Logger

	// Optional.
	DB          *gorm.DB
	Idempotency ucBooking.Idempotency
	Checks      map[string]handlers.Pinger
}

func RegisterRoutes(r *gin.Engine, deps Dependencies) {

	cfg := deps.Config
	store := deps.Store

	// ======================================================
	// USE CASES
	// ======================================================
	evaluator := ucAvailability.NewEvaluator(store)
	slotGenerator := ucAvailability.NewSlotGenerator(store, store, deps.Clock)
	priceResolver := pricing.NewResolver(store)

	createBookingUC := ucBooking.NewCreateBooking(
		store,
		evaluator,
		priceResolver,
		deps.Idempotency,
		deps.Audit,
		deps.Clock,
		deps.Logger,
	)
	rescheduleBookingUC := ucBooking.NewRescheduleBooking(store, evaluator, deps.Audit, deps.Clock)
	cancelBookingUC := ucBooking.NewCancelBooking(store, deps.Audit, deps.Clock)
	setStatusUC := ucBooking.NewSetBookingStatus(store, deps.Audit, deps.Clock)
	deleteBookingUC := ucBooking.NewDeleteBooking(store, deps.Audit)
	listBookingsUC := ucBooking.NewListBookings(store)

	scheduleManager := schedule.NewManager(store, deps.Audit)

	// ======================================================
	// HANDLERS
	// ======================================================
	healthHandler := handlers.NewHealthHandler(deps.Checks)
	availabilityHandler := handlers.NewAvailabilityHandler(evaluator, slotGenerator, cfg.SlotIntervalDefault)
	bookingHandler := handlers.NewBookingHandler(
		createBookingUC,
		rescheduleBookingUC,
		cancelBookingUC,
		setStatusUC,
		deleteBookingUC,
		listBookingsUC,
		deps.Clock,
	)
	scheduleHandler := handlers.NewScheduleHandler(scheduleManager, deps.Clock)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	// ======================================================
	// OPS
	// ======================================================
	r.GET("/health", healthHandler.Live)
	r.GET("/readyz", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(cfg.JWTSecret), limiter.Middleware())
	{
		// ------------------------------
		// Discovery
		// ------------------------------
		api.GET("/availability", availabilityHandler.Check)
		api.GET("/staff/:id/slots", availabilityHandler.StaffSlots)
		api.GET("/locations/:id/slots", availabilityHandler.LocationSlots)
		api.GET("/staff/:id/working-hours", scheduleHandler.GetWorkingHours)

		// ------------------------------
		// Bookings
		// ------------------------------
		api.POST("/bookings", bookingHandler.Create)
		api.GET("/bookings/:id", bookingHandler.Get)
		api.PUT("/bookings/:id", bookingHandler.Reschedule)
		api.POST("/bookings/:id/cancel", bookingHandler.Cancel)
		api.GET("/me/bookings", bookingHandler.ListMine)

		// ------------------------------
		// Provider side
		// ------------------------------
		staffSide := api.Group("/")
		staffSide.Use(middleware.RequireRole(middleware.RoleProvider, middleware.RoleAdmin))
		{
			staffSide.PATCH("/bookings/:id/status", bookingHandler.SetStatus)
			staffSide.GET("/locations/:id/bookings", bookingHandler.ListForLocation)
			staffSide.GET("/staff/:id/bookings", bookingHandler.ListForStaff)

			staffSide.PUT("/staff/:id/working-hours", scheduleHandler.UpdateWorkingHours)
			staffSide.GET("/staff/:id/internal-events", scheduleHandler.ListInternalEvents)
			staffSide.POST("/staff/:id/internal-events", scheduleHandler.CreateInternalEvent)
			staffSide.DELETE("/internal-events/:id", scheduleHandler.DeleteInternalEvent)
			staffSide.GET("/staff/:id/schedule", scheduleHandler.View)
		}

		// ------------------------------
		// Admin
		// ------------------------------
		admin := api.Group("/")
		admin.Use(middleware.RequireRole(middleware.RoleAdmin))
		{
			admin.DELETE("/bookings/:id", bookingHandler.Delete)

			if deps.DB != nil {
				auditLogsHandler := handlers.NewAuditLogsHandler(deps.DB)
				admin.GET("/admin/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
