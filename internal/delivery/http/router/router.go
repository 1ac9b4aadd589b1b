// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"passport/internal/delivery/http/middleware"
	"passport/internal/delivery/http/router/handler"
)

type RouterParams struct {
	fx.In

	AccountHandler *handler.AccountHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	accountHandler *handler.AccountHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		accountHandler: params.AccountHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/api/auth")
	{
		authGroup.POST("/login", r.accountHandler.Login)
	}

	// Account routes
	accountGroup := e.Group("/api/accounts")
	{
		accountGroup.POST("", r.accountHandler.Register)
		// Activation lands here straight from the email link, so it
		// must stay reachable without a session.
		accountGroup.GET("/activate", r.accountHandler.Activate)
	}

	// Account routes that require authentication
	protectedGroup := e.Group("/api/accounts")
	protectedGroup.Use(r.authMiddleware.Authenticate)
	{
		protectedGroup.GET("", r.accountHandler.ListAccounts)
		protectedGroup.GET("/me", r.accountHandler.GetMyProfile)
		protectedGroup.GET("/:id", r.accountHandler.GetProfile)
		protectedGroup.PUT("/password", r.accountHandler.ChangePassword)
	}
}
