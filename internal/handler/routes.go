package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/prompttracker/prompttracker-backend/internal/middleware"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, userHandler *UserHandler, workspaceHandler *WorkspaceHandler, promptHandler *PromptHandler, collectionHandler *CollectionHandler, wsHandler *WebSocketHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// User routes (protected)
	users := api.Group("/users")
	users.Use(authMiddleware.Authenticate(), rateLimiter.Limit())
	users.POST("/sync", userHandler.SyncUser)
	users.GET("/me", userHandler.GetMe)
	users.POST("/me/avatar", userHandler.UploadAvatar)

	// Workspace routes (protected)
	workspaces := api.Group("/workspaces")
	workspaces.Use(authMiddleware.Authenticate(), rateLimiter.Limit())
	workspaces.POST("", workspaceHandler.CreateWorkspace)
	workspaces.GET("", workspaceHandler.ListWorkspaces)
	workspaces.GET("/:id", workspaceHandler.GetWorkspace)
	workspaces.PATCH("/:id", workspaceHandler.UpdateWorkspace)
	workspaces.DELETE("/:id", workspaceHandler.DeleteWorkspace)

	// Prompt routes (protected)
	prompts := api.Group("/prompts")
	prompts.Use(authMiddleware.Authenticate(), rateLimiter.Limit())
	prompts.POST("", promptHandler.CreatePrompt)
	prompts.GET("", promptHandler.ListPrompts)
	prompts.GET("/:id", promptHandler.GetPrompt)
	prompts.PATCH("/:id", promptHandler.UpdatePrompt)
	prompts.DELETE("/:id", promptHandler.DeletePrompt)
	prompts.POST("/:id/versions", promptHandler.CreateVersion)
	prompts.POST("/versions/:id/run", promptHandler.LogRun)

	// Collection routes (protected)
	collections := api.Group("/collections")
	collections.Use(authMiddleware.Authenticate(), rateLimiter.Limit())
	collections.POST("", collectionHandler.CreateCollection)
	collections.GET("", collectionHandler.ListCollections)
	collections.GET("/:id", collectionHandler.GetCollection)
	collections.PATCH("/:id", collectionHandler.UpdateCollection)
	collections.DELETE("/:id", collectionHandler.DeleteCollection)

	// WebSocket endpoint (token validated in the handler, not the middleware)
	e.GET("/ws", wsHandler.HandleWS)
}
