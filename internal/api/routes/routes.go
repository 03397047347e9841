package routes

import (
	"net/http"

	"github.com/REHANAMD/InternGenie/internal/api/handlers"
	"github.com/REHANAMD/InternGenie/internal/api/middleware"
	"github.com/REHANAMD/InternGenie/internal/auth"
	"github.com/REHANAMD/InternGenie/internal/chatbot"
	"github.com/REHANAMD/InternGenie/internal/config"
	"github.com/REHANAMD/InternGenie/internal/insights"
	"github.com/REHANAMD/InternGenie/internal/recommender"
	"github.com/REHANAMD/InternGenie/internal/storage"
	"github.com/REHANAMD/InternGenie/pkg/utils"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// Deps bundles the services the HTTP layer dispatches into
type Deps struct {
	Config   *config.Config
	Store    *storage.Store
	Auth     *auth.Manager
	Engine   *recommender.Engine
	Bot      *chatbot.Service
	Insights *insights.Service
	Redis    *utils.RedisClient
}

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, deps Deps) {
	// Global middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig())
	e.Use(middleware.RequestValidation())
	e.Use(middleware.TimeoutConfig(deps.Config.Server.ReadTimeout))

	requireAuth := middleware.RequireAuth(deps.Auth)

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler(deps.Store, deps.Redis))
		health.GET("/ready", handlers.ReadinessHandler(deps.Store))
		health.GET("/live", handlers.LivenessHandler)
	}

	// Public auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", handlers.RegisterHandler(deps.Auth))
		authGroup.POST("/login", handlers.LoginHandler(deps.Auth))
		authGroup.POST("/forgot-password", handlers.ForgotPasswordHandler(deps.Auth))
		authGroup.POST("/verify-otp", handlers.VerifyOTPHandler(deps.Auth))
		authGroup.POST("/reset-password", handlers.ResetPasswordHandler(deps.Auth))
		authGroup.POST("/refresh", handlers.RefreshTokenHandler(deps.Auth, deps.Store), requireAuth)
		authGroup.POST("/password/update", handlers.UpdatePasswordHandler(deps.Auth), requireAuth)
	}

	// Candidate profile
	candidates := e.Group("/candidates", requireAuth)
	{
		candidates.GET("/profile", handlers.GetProfileHandler(deps.Store))
		candidates.PUT("/profile", handlers.UpdateProfileHandler(deps.Store, deps.Engine))
		candidates.PUT("/privacy", handlers.UpdatePrivacyHandler(deps.Store))
		candidates.DELETE("/account", handlers.DeleteAccountHandler(deps.Store, deps.Engine))
	}

	// Catalog
	internships := e.Group("/internships", requireAuth)
	{
		internships.GET("", handlers.ListInternshipsHandler(deps.Store))
		internships.GET("/:id", handlers.GetInternshipHandler(deps.Store))
		internships.GET("/:id/match", handlers.ExplainMatchHandler(deps.Engine))
		internships.GET("/:id/applied", handlers.HasAppliedHandler(deps.Store))
		internships.POST("/:id/apply", handlers.ApplyHandler(deps.Store, deps.Engine))
		internships.POST("/:id/save", handlers.SaveInternshipHandler(deps.Store))
		internships.DELETE("/:id/save", handlers.UnsaveInternshipHandler(deps.Store))
	}

	// Recommendations
	e.GET("/recommendations", handlers.RecommendationsHandler(deps.Engine), requireAuth)

	// Applications and bookmarks
	applications := e.Group("/applications", requireAuth)
	{
		applications.GET("", handlers.ListApplicationsHandler(deps.Store))
		applications.POST("/:id/withdraw", handlers.WithdrawApplicationHandler(deps.Store, deps.Engine))
	}
	e.GET("/saved", handlers.ListSavedHandler(deps.Store), requireAuth)

	// Assistant
	chat := e.Group("/chat", requireAuth)
	{
		chat.POST("/message", handlers.ChatMessageHandler(deps.Store, deps.Bot))
		chat.POST("/feedback", handlers.ChatFeedbackHandler(deps.Bot))
		chat.GET("/history", handlers.ChatHistoryHandler(deps.Bot))
		chat.DELETE("/history", handlers.ClearChatHistoryHandler(deps.Bot))
	}

	// Analytics
	insightsGroup := e.Group("/insights", requireAuth)
	{
		insightsGroup.GET("/trending-skills", handlers.TrendingSkillsHandler(deps.Insights))
		insightsGroup.GET("/market", handlers.MarketInsightsHandler(deps.Insights))
		insightsGroup.GET("/me", handlers.UserInsightsHandler(deps.Insights))
	}
	e.POST("/track-behavior", handlers.TrackBehaviorHandler(deps.Store), requireAuth)

	// Demo bootstrap
	e.POST("/seed-data", handlers.SeedDataHandler(deps.Store, deps.Engine), requireAuth)

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "InternGenie API",
			"version": "1.0.0",
			"status":  "running",
		})
	})
}
