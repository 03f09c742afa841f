package handlers

import (
	"fmt"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/iuh-ecommerce/poli/internal/services/reindex"
)

// ReindexHandler serves the POST /reindex/ endpoint
type ReindexHandler struct {
	orchestrator *reindex.Orchestrator
	logger       arbor.ILogger
}

// NewReindexHandler creates a new reindex handler
func NewReindexHandler(orchestrator *reindex.Orchestrator, logger arbor.ILogger) *ReindexHandler {
	return &ReindexHandler{
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// TriggerReindexHandler rebuilds the vector index from the FAQ store
func (h *ReindexHandler) TriggerReindexHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	result, err := h.orchestrator.ReindexAll(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Reindex run failed")
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Reindex failed: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, result)
}
