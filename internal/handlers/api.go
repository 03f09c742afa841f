package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/iuh-ecommerce/poli/internal/common"
	"github.com/iuh-ecommerce/poli/internal/interfaces"
)

// APIHandler serves the operational endpoints under /api/
type APIHandler struct {
	config  *common.Config
	storage interfaces.FAQStorage
	index   interfaces.VectorIndex
	llm     interfaces.LLMService
	logger  arbor.ILogger
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(
	config *common.Config,
	storage interfaces.FAQStorage,
	index interfaces.VectorIndex,
	llmService interfaces.LLMService,
	logger arbor.ILogger,
) *APIHandler {
	return &APIHandler{
		config:  config,
		storage: storage,
		index:   index,
		llm:     llmService,
		logger:  logger,
	}
}

// VersionHandler returns version information
func (h *APIHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version":    common.GetVersion(),
		"build":      common.GetBuild(),
		"git_commit": common.GetGitCommit(),
	})
}

// HealthHandler returns health check status
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// StatusHandler reports store and index counts plus backend reachability.
// Counts are best-effort: a backend failure shows up as -1 rather than
// failing the whole status call.
func (h *APIHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	faqCount := int64(-1)
	if count, err := h.storage.Count(r.Context()); err == nil {
		faqCount = count
	} else {
		h.logger.Warn().Err(err).Msg("Failed to count stored FAQs")
	}

	vectorCount := int64(-1)
	if count, err := h.index.Count(r.Context()); err == nil {
		vectorCount = count
	} else {
		h.logger.Warn().Err(err).Msg("Failed to count vector points")
	}

	llmHealthy := h.llm.HealthCheck(r.Context()) == nil

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment":  h.config.Environment,
		"llm_provider": string(h.config.LLM.Provider),
		"llm_healthy":  llmHealthy,
		"faq_count":    faqCount,
		"vector_count": vectorCount,
		"collection":   h.config.Qdrant.Collection,
		"staging_dir":  h.config.Staging.Dir,
		"ingest_cron":  h.config.Ingest.Schedule,
	})
}

// NotFoundHandler handles 404 errors with JSON response
func (h *APIHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusNotFound, map[string]interface{}{
		"error":   "Not Found",
		"path":    r.URL.Path,
		"message": "The requested endpoint does not exist",
	})
}
