package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BruksfildServices01/detailing-scheduler/internal/app"
	"github.com/BruksfildServices01/detailing-scheduler/internal/handlers"
	"github.com/BruksfildServices01/detailing-scheduler/internal/middleware"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	cfg := a.Config

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins...))

	// ======================================================
	// HANDLERS
	// ======================================================
	meHandler := handlers.NewMeHandler()

	appointmentHandler := handlers.NewAppointmentHandler(
		a.CreateAppointment,
		a.RescheduleAppointment,
		a.ChangeStatus,
		a.ListByUser,
		a.ListByDate,
		a.ListByMonth,
	)

	publicHandler := handlers.NewPublicHandler(a.GetAvailability, a.CreateAppointment)
	notificationHandler := handlers.NewNotificationHandler(a.Inbox)
	blockedSlotHandler := handlers.NewBlockedSlotHandler(a.BlockSlot, a.UnblockSlot, a.ListBlockedSlots)
	calendarSyncHandler := handlers.NewCalendarSyncHandler(a.CalendarSettings)
	auditLogsHandler := handlers.NewAuditLogsHandler(a.Stores.AuditLogs)
	debugHandler := handlers.NewDebugHandler(a.Scheduler, a.SendNotification)

	// ======================================================
	// INFRA
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		if err := a.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{})))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/availability", publicHandler.Availability)
			publicAPI.POST("/appointments", publicHandler.CreateAppointment)
		}

		// ------------------------------
		// SECURED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg.JWTSecret))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.POST("/me/appointments", appointmentHandler.Create)
			secured.GET("/me/appointments", appointmentHandler.ListMine)
			secured.PATCH("/me/appointments/:id/reschedule", appointmentHandler.Reschedule)
			secured.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)

			secured.GET("/me/notifications", notificationHandler.List)
			secured.GET("/me/notifications/unread-count", notificationHandler.UnreadCount)
			secured.PATCH("/me/notifications/:id/read", notificationHandler.MarkRead)
			secured.PATCH("/me/notifications/:id/unread", notificationHandler.MarkUnread)
			secured.DELETE("/me/notifications/:id", notificationHandler.Delete)
		}

		// ------------------------------
		// ADMIN
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(cfg.JWTSecret), middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/appointments", appointmentHandler.List)
			admin.PATCH("/appointments/:id/status", appointmentHandler.ChangeStatus)
			admin.PATCH("/appointments/:id/reschedule", appointmentHandler.Reschedule)

			admin.GET("/blocked-slots", blockedSlotHandler.List)
			admin.POST("/blocked-slots", blockedSlotHandler.Create)
			admin.DELETE("/blocked-slots/:id", blockedSlotHandler.Delete)

			admin.GET("/calendar-sync", calendarSyncHandler.Get)
			admin.PUT("/calendar-sync", calendarSyncHandler.Update)

			admin.GET("/audit-logs", auditLogsHandler.List)
		}

		// ------------------------------
		// DEBUG
		// ------------------------------
		if cfg.Debug.Enabled {
			debug := api.Group("/debug")
			debug.Use(middleware.DebugToken(cfg.Debug.TokenHash))
			{
				debug.POST("/jobs/:name/run", debugHandler.RunJob)
				debug.POST("/notifications", debugHandler.SendNotification)
			}
		}
	}
}
