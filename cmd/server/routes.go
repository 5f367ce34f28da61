package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"remittease.backend/internal/interfaces/http/handlers"
	"remittease.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler     *handlers.AuthHandler
	walletHandler   *handlers.WalletHandler
	transferHandler *handlers.TransferHandler
	userHandler     *handlers.UserHandler
	configHandler   *handlers.ConfigHandler
	sessionAuth     gin.HandlerFunc
}

// applyCORSMiddleware allows the browser front-end to call the API with
// its session cookie. Credentialed requests forbid a wildcard origin, so
// the request origin is echoed back.
func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Idempotency-Key, X-Request-ID")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

func registerOpsRoutes(r *gin.Engine, healthHandler *handlers.HealthHandler) {
	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.authHandler.Register)
			auth.POST("/login", d.authHandler.Login)
			auth.GET("/login", d.authHandler.GetSession)
			auth.GET("/session", d.authHandler.GetSession)
			auth.DELETE("/login", d.authHandler.Logout)
		}

		// Client bootstrap config (public)
		v1.GET("/config", d.configHandler.ClientConfig)

		// Wallet routes (protected)
		wallet := v1.Group("/wallet")
		wallet.Use(d.sessionAuth)
		{
			wallet.GET("/balance", d.walletHandler.GetBalance)
			wallet.GET("/rates", d.walletHandler.GetRates)
			wallet.GET("/send", d.walletHandler.EstimateSend)
			wallet.POST("/send", middleware.IdempotencyMiddleware(), d.walletHandler.Send)
			wallet.GET("/transactions", d.walletHandler.ListTransactions)
		}

		// Send-money wizard routes (protected)
		drafts := v1.Group("/transfers/drafts")
		drafts.Use(d.sessionAuth)
		{
			drafts.POST("", d.transferHandler.CreateDraft)
			drafts.GET("/:id", d.transferHandler.GetDraft)
			drafts.PUT("/:id/amount", d.transferHandler.SetAmount)
			drafts.PUT("/:id/recipient", d.transferHandler.SetRecipient)
			drafts.POST("/:id/back", d.transferHandler.Back)
			drafts.POST("/:id/confirm", middleware.IdempotencyMiddleware(), d.transferHandler.Confirm)
		}

		// Profile and dashboard routes (protected)
		user := v1.Group("/user")
		user.Use(d.sessionAuth)
		{
			user.GET("/profile", d.userHandler.GetProfile)
			user.PUT("/profile", d.userHandler.UpdateProfile)
		}
		v1.GET("/dashboard", d.sessionAuth, d.userHandler.Dashboard)
	}
}
