package session

import (
	"log/slog"
	"net/http"

	"teamsort/internal/assessment"
	"teamsort/internal/grouping"
	"teamsort/internal/session/handler"
	"teamsort/internal/session/models"
	"teamsort/internal/session/service"
)

// Controller owns one session's state machine.
type Controller = service.Controller

// Handler wires HTTP endpoints to the session controller.
type Handler = handler.Handler

// View is the read-only session picture handed to renderers.
type View = models.View

// SnapshotStore persists the finalized result.
type SnapshotStore = service.SnapshotStore

// Narration returns the lines shown while an individual is distributed.
var Narration = models.Narration

// New constructs a session controller with its collaborators.
func New(bank assessment.Bank, partitioner *grouping.Partitioner, store SnapshotStore, opts ...service.Option) (*Controller, error) {
	return service.New(bank, partitioner, store, opts...)
}

// NewHandler constructs the HTTP bridge. operatorGuard protects operator
// routes.
func NewHandler(c *Controller, logger *slog.Logger, operatorGuard func(http.Handler) http.Handler) *Handler {
	return handler.New(c, logger, operatorGuard)
}
