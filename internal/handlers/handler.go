// Package handlers implements the HTTP endpoints. Service errors are
// returned unchanged and rendered by middleware.ErrorHandler.
package handlers

import (
	"github.com/soltixdb/rainflow/internal/logging"
	"github.com/soltixdb/rainflow/internal/services"
)

// Handler contains all HTTP handlers
type Handler struct {
	logger          *logging.Logger
	countingService *services.CountingService
}

// New creates a new handler instance
func New(logger *logging.Logger, countingService *services.CountingService) *Handler {
	return &Handler{
		logger:          logger,
		countingService: countingService,
	}
}
