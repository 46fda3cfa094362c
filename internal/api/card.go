package api

import (
	"card_service/internal/service" // Card and transaction services
	"net/http"                      // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
)

// ListCardsHandler returns the caller's active cards
func ListCardsHandler(cards *service.CardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Get userID from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		list, err := cards.List(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"cards": list})
	}
}

// CreateCardHandler registers a card for the caller
func CreateCardHandler(cards *service.CardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req service.CreateCardRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		card, err := cards.Create(c.Request.Context(), userID, req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, card)
	}
}

// DeleteCardHandler soft-deletes one of the caller's cards
func DeleteCardHandler(cards *service.CardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		cardID, ok := pathID(c)
		if !ok {
			return
		}
		if err := cards.Delete(c.Request.Context(), userID, cardID); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// CardTransactionsHandler lists the transactions made with one of the caller's cards
func CardTransactionsHandler(txs *service.TransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		cardID, ok := pathID(c)
		if !ok {
			return
		}
		list, err := txs.HistoryByCard(c.Request.Context(), userID, cardID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"transactions": list})
	}
}
