package handlers

import (
	"matchpairs/internal/game"
	"matchpairs/internal/repository"
)

// Handler bundles the dependencies shared by the API endpoints.
// HistoryRepo is nil when no database is configured.
type Handler struct {
	Manager     *game.Manager
	HistoryRepo *repository.MatchHistoryRepository
}

func NewHandler(manager *game.Manager, history *repository.MatchHistoryRepository) *Handler {
	return &Handler{Manager: manager, HistoryRepo: history}
}
