// Package routes defines the HTTP routes for the conversation service.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/supporthub/conversation-service/internal/api/handlers"
	"github.com/supporthub/conversation-service/internal/api/middleware"
)

// Config holds the dependencies for setting up routes.
type Config struct {
	HealthHandler   *handlers.HealthHandler
	SessionsHandler *handlers.SessionsHandler
	MessagesHandler *handlers.MessagesHandler
	FlowsHandler    *handlers.FlowsHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// Setup configures all routes on the Gin engine.
func Setup(r *gin.Engine, cfg *Config) {
	// Probe routes stay at the root, unauthenticated.
	r.GET("/health", cfg.HealthHandler.Health)
	r.GET("/ready", cfg.HealthHandler.Ready)
	r.GET("/live", cfg.HealthHandler.Live)

	v1 := r.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(cfg.AuthMiddleware.Authenticate())

		protected.GET("/stats", cfg.SessionsHandler.Stats)

		sessions := protected.Group("/sessions")
		{
			sessions.POST("", cfg.SessionsHandler.CreateSession)
			sessions.GET("", cfg.SessionsHandler.ListSessions)
			sessions.POST("/sweep", cfg.SessionsHandler.Sweep)

			session := sessions.Group("/:id")
			{
				session.GET("", cfg.SessionsHandler.GetSession)
				session.DELETE("", cfg.SessionsHandler.DeleteSession)
				session.POST("/touch", cfg.SessionsHandler.TouchSession)

				// Message intake and context
				session.POST("/messages", cfg.MessagesHandler.SendMessage)
				session.GET("/context", cfg.MessagesHandler.GetContext)
				session.DELETE("/context", cfg.MessagesHandler.ClearContext)
				session.PATCH("/preferences", cfg.MessagesHandler.UpdatePreferences)

				// Guided flows
				flows := session.Group("/flows")
				{
					flows.GET("", cfg.FlowsHandler.FlowStatus)
					flows.POST("/onboarding", cfg.FlowsHandler.StartOnboarding)
					flows.POST("/onboarding/advance", cfg.FlowsHandler.AdvanceOnboarding)
					flows.PUT("/onboarding/step", cfg.FlowsHandler.SetOnboardingStep)
					flows.POST("/troubleshooting", cfg.FlowsHandler.StartTroubleshooting)
					flows.POST("/troubleshooting/outcome", cfg.FlowsHandler.ReportOutcome)
					flows.PATCH("/troubleshooting", cfg.FlowsHandler.UpdateTroubleshooting)
					flows.POST("/transition", cfg.FlowsHandler.Transition)
					flows.POST("/recover", cfg.FlowsHandler.Recover)
					flows.POST("/preserve", cfg.FlowsHandler.Preserve)
				}
			}
		}
	}
}

// SetupWithMiddleware sets up routes with common middleware.
func SetupWithMiddleware(r *gin.Engine, cfg *Config, loggingMw *middleware.LoggingMiddleware, errorMw *middleware.ErrorMiddleware) {
	r.Use(loggingMw.Logger())
	r.Use(errorMw.Recovery())
	r.Use(gin.Recovery())

	Setup(r, cfg)
}
