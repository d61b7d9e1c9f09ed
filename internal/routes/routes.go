package routes

import (
	"github.com/gin-gonic/gin"

	"siteworks/internal/handlers"
	"siteworks/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	jwtSecret []byte,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	projectHandler *handlers.ProjectHandler,
	partyHandler *handlers.PartyHandler,
) *gin.Engine {

	// ---- public
	auth := r.Group("/auth")
	{
		auth.POST("/send-otp", authHandler.SendOTP)
		auth.POST("/verify-otp", authHandler.VerifyOTP)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
	}

	// ---- protected
	r.Use(middleware.AuthMiddleware(jwtSecret))

	r.GET("/auth/me", authHandler.Me)
	r.PUT("/users/me", userHandler.UpdateProfile)

	projects := r.Group("/projects")
	{
		projects.POST("", projectHandler.Create)
		projects.GET("", projectHandler.List)
		projects.GET("/:id", projectHandler.Get)
		projects.PUT("/:id", projectHandler.Update)
		projects.DELETE("/:id", projectHandler.Delete)
		projects.POST("/:id/members", projectHandler.AddMember)
		projects.GET("/:id/members", projectHandler.ListMembers)
		projects.GET("/:id/export", projectHandler.Export)
	}

	parties := r.Group("/parties")
	{
		parties.POST("", partyHandler.Create)
		parties.GET("", partyHandler.List)
		parties.GET("/:id", partyHandler.Get)
		parties.PUT("/:id", partyHandler.Update)
		parties.DELETE("/:id", partyHandler.Delete)
	}

	return r
}
