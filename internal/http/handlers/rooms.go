package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Rooms lists live rooms for the lobby. Passwords are never exposed,
// only whether one is required.
func (h *Handler) Rooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": h.Manager.Rooms()})
}
