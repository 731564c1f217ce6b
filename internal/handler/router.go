// internal/handler/router.go
package handler

import (
	"net/http"

	"savings-tracker/internal/auth"
	"savings-tracker/internal/logger"
	"savings-tracker/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterDeps struct {
	Savings SavingsService
	Hub     SessionServer
	Tokens  *auth.TokenService
	Log     *zap.Logger
}

func SetupRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(logger.GinMiddleware(deps.Log), gin.Recovery(), middleware.CORS())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := NewAuthHandler(deps.Tokens)
	router.POST("/api/auth/login", authHandler.Login)

	savingsHandler := NewSavingsHandler(deps.Savings, deps.Hub, deps.Log)
	authMiddleware := middleware.NewAuthMiddleware(deps.Tokens, deps.Log)

	api := router.Group("/api/savings")
	api.Use(authMiddleware.RequireAuth())
	{
		api.POST("", savingsHandler.AddSaving)
		api.GET("", savingsHandler.GetSavings)
		api.GET("/badges", savingsHandler.GetBadges)
		api.GET("/summary", savingsHandler.GetSummary)
		api.GET("/ws", savingsHandler.Stream)
	}

	return router
}
