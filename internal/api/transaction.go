package api

import (
	"card_service/internal/domain"  // Validation errors
	"card_service/internal/service" // Transaction service
	"net/http"                      // HTTP status codes
	"strings"
	"time" // Range bounds

	"github.com/gin-gonic/gin" // Gin web framework
)

// CreateTransactionHandler charges one of the caller's cards
func CreateTransactionHandler(txs *service.TransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Get userID from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req service.CreateTransactionRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		tx, err := txs.Pay(c.Request.Context(), userID, req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, tx)
	}
}

// TransactionHistoryHandler returns the caller's transactions, optionally bounded by from/to
func TransactionHistoryHandler(txs *service.TransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		from, err := queryTime(c, "from", false) // Inclusive lower bound
		if err != nil {
			respondError(c, err)
			return
		}
		to, err := queryTime(c, "to", true) // Inclusive upper bound
		if err != nil {
			respondError(c, err)
			return
		}
		list, err := txs.History(c.Request.Context(), userID, from, to)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"transactions": list})
	}
}

// GetTransactionHandler returns one of the caller's transactions
func GetTransactionHandler(txs *service.TransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		txID, ok := pathID(c)
		if !ok {
			return
		}
		tx, err := txs.Get(c.Request.Context(), userID, txID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, tx)
	}
}

// ReverseTransactionHandler reverses an approved transaction
func ReverseTransactionHandler(txs *service.TransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		txID, ok := pathID(c)
		if !ok {
			return
		}
		tx, err := txs.Reverse(c.Request.Context(), userID, txID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, tx)
	}
}

// queryTime parses an RFC3339 timestamp or a YYYY-MM-DD date in UTC. A date
// covers the whole day: its start for a lower bound, its last instant for an
// upper one. A non-empty value that parses as neither is a validation error.
func queryTime(c *gin.Context, key string, upper bool) (*time.Time, error) {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		t = t.UTC()
		return &t, nil
	}
	day, err := time.ParseInLocation(time.DateOnly, v, time.UTC)
	if err != nil {
		return nil, &domain.ValidationError{Field: key, Reason: "must be an RFC3339 timestamp or a YYYY-MM-DD date"}
	}
	if upper {
		day = day.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &day, nil
}
