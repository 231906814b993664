package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/placementportal/internal/app/controllers"
	"github.com/yigit/placementportal/internal/middleware"
	"github.com/yigit/placementportal/internal/pkg/websocket"
)

// Handlers groups everything the route table dispatches to
type Handlers struct {
	Auth    *controllers.AuthController
	DSA     *controllers.DSAController
	Company *controllers.CompanyController
	Session *controllers.SessionController
	Marquee *controllers.MarqueeController
	Resume  *controllers.ResumeController
	Profile *controllers.ProfileController
	Health  *controllers.HealthController

	MarqueeSocket *websocket.Handler
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	api := router.Group("/api")

	api.GET("/health", h.Health.Health)

	// --- Public Auth routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
	}

	// Only the websocket upgrade accepts ?token=
	api.GET("/marquee/ws", authMiddleware.SocketAuth(), h.MarqueeSocket.HandleConnection)

	// --- Authenticated Routes Group ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	admin := authMiddleware.AdminRequired()

	authenticated.GET("/auth/me", h.Auth.Me)
	authenticated.POST("/auth/make-admin", admin, h.Auth.MakeAdmin)

	dsa := authenticated.Group("/dsa")
	{
		dsa.GET("/topics", h.DSA.ListTopics)
		dsa.GET("/topics/:topicId/questions", h.DSA.ListQuestions)
		dsa.GET("/progress", h.DSA.GetProgress)

		dsa.POST("/questions/:id/notes", h.DSA.AddNote)
		dsa.POST("/questions/:id/star", h.DSA.ToggleStar)
		dsa.POST("/questions/:id/solve", h.DSA.MarkSolved)
		dsa.DELETE("/questions/:id/solve", h.DSA.UnmarkSolved)

		dsaAdmin := dsa.Group("", admin)
		{
			dsaAdmin.POST("/topics", h.DSA.CreateTopic)
			dsaAdmin.PUT("/topics/:topicId", h.DSA.UpdateTopic)
			dsaAdmin.DELETE("/topics/:topicId", h.DSA.DeleteTopic)
			dsaAdmin.POST("/questions", h.DSA.CreateQuestion)
			dsaAdmin.POST("/questions/bulk", h.DSA.BulkCreateQuestions)
		}
	}

	companies := authenticated.Group("/companies")
	{
		companies.GET("", h.Company.ListCompanies)
		companies.GET("/:id", h.Company.GetCompany)

		companies.POST("", admin, h.Company.CreateCompany)
		companies.PUT("/:id", admin, h.Company.UpdateCompany)
		companies.DELETE("/:id", admin, h.Company.DeleteCompany)
	}

	sessions := authenticated.Group("/sessions")
	{
		sessions.GET("", h.Session.ListSessions)
		sessions.GET("/:id", h.Session.GetSession)

		sessions.POST("", admin, h.Session.CreateSession)
		sessions.PUT("/:id", admin, h.Session.UpdateSession)
		sessions.DELETE("/:id", admin, h.Session.DeleteSession)
	}

	marquee := authenticated.Group("/marquee")
	{
		marquee.GET("/active", h.Marquee.GetActive)

		marquee.GET("", admin, h.Marquee.List)
		marquee.POST("", admin, h.Marquee.Create)
		marquee.PUT("/:id", admin, h.Marquee.Update)
		marquee.DELETE("/:id", admin, h.Marquee.Delete)
	}

	authenticated.POST("/resume/analyze", h.Resume.Analyze)

	profile := authenticated.Group("/profile/leetcode")
	{
		profile.GET("", h.Profile.GetOwnProfile)
		profile.GET("/:username", h.Profile.GetProfile)
	}
}
