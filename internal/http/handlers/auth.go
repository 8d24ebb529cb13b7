package handlers

import (
	"net/http"
	"strings"

	"matchpairs/internal/service"

	"github.com/gin-gonic/gin"
)

const maxPlayerNameLen = 32

type authRequest struct {
	PlayerName string `json:"playerName"`
}

// Auth issues a guest token for a chosen display name. The token is the
// only credential the websocket endpoint accepts.
func (h *Handler) Auth(c *gin.Context) {
	var req authRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	name := strings.TrimSpace(req.PlayerName)
	if name == "" || len(name) > maxPlayerNameLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "playerName required, at most 32 characters"})
		return
	}

	token, err := service.GenerateJWT(name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "playerName": name})
}
