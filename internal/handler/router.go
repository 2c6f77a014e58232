package handler

import (
	"bankcore/internal/config"
	"bankcore/internal/repository"
	"bankcore/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRouter builds the gin engine with the full route table.
func SetupRouter(store repository.Store, tokens service.TokenStore, locks service.OperationLock, cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(RecoveryMiddleware())
	r.Use(LoggerMiddleware())
	r.Use(CORSMiddleware())

	h := NewHandler(store, tokens, locks, cfg)

	api := r.Group("/api/v1")
	{
		api.POST("/accounts/register", h.Register)
		api.POST("/auth/login", h.Login)
		api.POST("/auth/logout", h.Logout)

		authed := api.Group("")
		authed.Use(AuthMiddleware(h.authService))
		{
			authed.GET("/account", h.GetAccount)
			authed.GET("/accounts", h.ListAccounts)
			authed.POST("/accounts/status", h.UpdateAccountStatus)

			authed.GET("/transactions", h.History)
			authed.POST("/transactions/deposit", h.Deposit)
			authed.POST("/transactions/withdraw", h.Withdraw)
			authed.POST("/transactions/transfer", h.Transfer)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
