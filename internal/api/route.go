package api

import (
	"Mastosync/internal/api/middleware"
	"Mastosync/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup, allowOrigins ...string) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware(allowOrigins))
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"code":    200,
				"message": "pong",
				"data":    nil,
			})
		})

		accountGroup := apiGroup.Group("/account")
		{
			accountGroup.POST("/login", group.AccountHandler.Login)
			accountGroup.GET("", group.AccountHandler.GetActive)
			accountGroup.PUT("/preferences", group.AccountHandler.UpdatePreferences)
		}

		settingsGroup := apiGroup.Group("/settings")
		{
			settingsGroup.GET("/domain", group.SettingsHandler.GetDomain)
			settingsGroup.PUT("/domain", group.SettingsHandler.SetDomain)
			settingsGroup.GET("/proxy", group.SettingsHandler.GetProxy)
			settingsGroup.PUT("/proxy", group.SettingsHandler.SetProxy)
		}

		conversationGroup := apiGroup.Group("/conversations")
		{
			conversationGroup.GET("", group.ConversationHandler.List)
			conversationGroup.POST("/refresh", group.ConversationHandler.Refresh)
			conversationGroup.POST("/load-more", group.ConversationHandler.LoadMore)
			conversationGroup.DELETE("/:id", group.ConversationHandler.Delete)
			conversationGroup.POST("/:id/read", group.ConversationHandler.MarkRead)
			conversationGroup.PUT("/:id/flags", group.ConversationHandler.UpdateFlags)
		}

		apiGroup.POST("/media", group.MediaHandler.Upload)
	}

	return r
}
