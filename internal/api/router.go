package api

import (
	"card_service/internal/middleware" // Auth and timeout middleware
	"card_service/internal/service"    // Application services
	"card_service/internal/utils"      // Token codec
	"time"

	"github.com/gin-contrib/cors" // CORS middleware
	"github.com/gin-gonic/gin"    // Gin web framework
)

// Services bundles what the routes need
type Services struct {
	Auth           *service.AuthService
	Cards          *service.CardService
	Transactions   *service.TransactionService
	Tokens         *utils.TokenCodec
	RequestTimeout time.Duration
	CORSOrigins    []string // Empty disables CORS
}

// RegisterRoutes mounts the public auth routes and the JWT-protected resource routes on r
func RegisterRoutes(r *gin.Engine, s Services) {
	// Browser frontends get any method and header from the allowed origins
	if len(s.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: s.CORSOrigins,
			AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
			AllowHeaders: []string{"*"},
			MaxAge:       12 * time.Hour,
		}))
	}
	r.Use(middleware.TimeoutMiddleware(s.RequestTimeout))

	// Auth routes
	auth := r.Group("/auth")
	auth.POST("/register", RegisterHandler(s.Auth)) // Registration endpoint
	auth.POST("/login", LoginHandler(s.Auth))       // Login endpoint
	auth.POST("/refresh", RefreshHandler(s.Auth))   // Refresh endpoint

	// Card routes (protected by JWT)
	cards := r.Group("/cards")
	cards.Use(middleware.JWTAuthMiddleware(s.Tokens))
	cards.GET("", ListCardsHandler(s.Cards))
	cards.POST("", CreateCardHandler(s.Cards))
	cards.DELETE("/:id", DeleteCardHandler(s.Cards))
	cards.GET("/:id/transactions", CardTransactionsHandler(s.Transactions))

	// Transaction routes (protected by JWT)
	txs := r.Group("/transactions")
	txs.Use(middleware.JWTAuthMiddleware(s.Tokens))
	txs.POST("", CreateTransactionHandler(s.Transactions))
	txs.GET("", TransactionHistoryHandler(s.Transactions))
	txs.GET("/:id", GetTransactionHandler(s.Transactions))
	txs.POST("/:id/reverse", ReverseTransactionHandler(s.Transactions))
}
