package handlers

import (
	"fmt"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/iuh-ecommerce/poli/internal/services/ingest"
)

// IngestHandler serves the POST /load-faq/ endpoint
type IngestHandler struct {
	orchestrator *ingest.Orchestrator
	logger       arbor.ILogger
}

// NewIngestHandler creates a new ingest handler
func NewIngestHandler(orchestrator *ingest.Orchestrator, logger arbor.ILogger) *IngestHandler {
	return &IngestHandler{
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// LoadFAQHandler runs an ingestion sweep over the staging directory.
// A missing staging directory is a successful no-op scan, not an error.
func (h *IngestHandler) LoadFAQHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	result, err := h.orchestrator.IngestFolder(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Ingestion run failed")
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Ingestion failed: %v", err))
		return
	}

	var message string
	switch {
	case result.StagingMissing:
		message = "Staging directory not found, nothing to ingest"
	case result.DocumentsProcessed == 0:
		message = "Staging directory is empty, nothing to ingest"
	default:
		message = fmt.Sprintf("Processed %d document(s), persisted %d QA pair(s)",
			result.DocumentsProcessed, result.QAPairsPersisted)
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"message": message,
	})
}
