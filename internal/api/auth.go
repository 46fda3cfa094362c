package api

import (
	"card_service/internal/service" // Auth service
	"net/http"                      // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
)

// Request struct for registration
type RegisterRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// Request struct for login
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// Request struct for refresh. Blank fields are rejected as an invalid token.
type RefreshRequest struct {
	AccessToken  string `json:"access_token"`  // Possibly expired access token
	RefreshToken string `json:"refresh_token"` // Current refresh secret
}

// RegisterHandler creates a user account
func RegisterHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		user, err := auth.Register(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": user.ID, "username": user.Username})
	}
}

// LoginHandler authenticates a user and returns an access token and refresh secret
func LoginHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		pair, err := auth.Login(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, pair) // Return the token pair
	}
}

// RefreshHandler rotates the refresh secret and issues a new pair
func RefreshHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		pair, err := auth.Refresh(c.Request.Context(), req.AccessToken, req.RefreshToken)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, pair)
	}
}
