package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// History returns a player's recent finished games.
func (h *Handler) History(c *gin.Context) {
	if h.HistoryRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "match history disabled"})
		return
	}

	player := c.Query("player")
	if player == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "player query parameter required"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	records, err := h.HistoryRepo.ListByPlayer(c.Request.Context(), player, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": records})
}

// Top returns the monthly leaderboard.
func (h *Handler) Top(c *gin.Context) {
	if h.HistoryRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "match history disabled"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	entries, err := h.HistoryRepo.Top(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load leaderboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"top": entries})
}
