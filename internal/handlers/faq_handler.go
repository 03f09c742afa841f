package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/iuh-ecommerce/poli/internal/interfaces"
	"github.com/iuh-ecommerce/poli/internal/models"
	"github.com/iuh-ecommerce/poli/internal/services/pdf"
)

// defaultSearchK is the top-k used when the search endpoint gets no k param
const defaultSearchK = 5

// FAQHandler serves the FAQ CRUD, search, and export endpoints
type FAQHandler struct {
	storage  interfaces.FAQStorage
	embedder interfaces.EmbeddingService
	index    interfaces.VectorIndex
	report   *pdf.ReportService
	logger   arbor.ILogger
}

// NewFAQHandler creates a new FAQ handler
func NewFAQHandler(
	storage interfaces.FAQStorage,
	embedder interfaces.EmbeddingService,
	index interfaces.VectorIndex,
	report *pdf.ReportService,
	logger arbor.ILogger,
) *FAQHandler {
	return &FAQHandler{
		storage:  storage,
		embedder: embedder,
		index:    index,
		report:   report,
		logger:   logger,
	}
}

// CreateFAQHandler handles POST /fqas/ requests. The pair is persisted and
// indexed; an index failure leaves the record stored only, to be picked up
// by the next reindex.
func (h *FAQHandler) CreateFAQHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var pair models.QAPair
	if err := json.NewDecoder(r.Body).Decode(&pair); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	pair.Question = strings.TrimSpace(pair.Question)
	pair.Answer = strings.TrimSpace(pair.Answer)
	if pair.Question == "" || pair.Answer == "" {
		WriteError(w, http.StatusBadRequest, "Question and answer must be non-empty")
		return
	}

	faq, err := h.storage.Insert(r.Context(), pair.Question, pair.Answer)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to insert FAQ")
		WriteError(w, http.StatusInternalServerError, "Failed to insert FAQ")
		return
	}

	h.indexFAQ(r, faq)

	WriteJSON(w, http.StatusOK, models.QAPair{
		Question: faq.Question,
		Answer:   faq.Answer,
	})
}

// ListFAQsHandler handles GET /fqas/ requests
func (h *FAQHandler) ListFAQsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	faqs, err := h.storage.ListAll(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list FAQs")
		WriteError(w, http.StatusInternalServerError, "Failed to list FAQs")
		return
	}

	pairs := make([]models.QAPair, 0, len(faqs))
	for _, faq := range faqs {
		pairs = append(pairs, models.QAPair{Question: faq.Question, Answer: faq.Answer})
	}

	WriteJSON(w, http.StatusOK, pairs)
}

// GetFAQHandler handles GET /fqas/{id} requests
func (h *FAQHandler) GetFAQHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	idStr := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/fqas/"), "/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, http.StatusBadRequest, "Invalid FAQ id")
		return
	}

	faq, err := h.storage.Get(r.Context(), id)
	if err != nil {
		h.logger.Error().Err(err).Int64("faq_id", id).Msg("Failed to fetch FAQ")
		WriteError(w, http.StatusInternalServerError, "Failed to fetch FAQ")
		return
	}
	if faq == nil {
		WriteError(w, http.StatusNotFound, "FAQ not found")
		return
	}

	WriteJSON(w, http.StatusOK, models.QAPair{
		Question: faq.Question,
		Answer:   faq.Answer,
	})
}

// SearchFAQsHandler handles GET /fqas/search?q=...&k=... requests
func (h *FAQHandler) SearchFAQsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		WriteError(w, http.StatusBadRequest, "Query parameter 'q' is required")
		return
	}

	k := defaultSearchK
	if kStr := r.URL.Query().Get("k"); kStr != "" {
		if parsed, err := strconv.Atoi(kStr); err == nil && parsed > 0 {
			k = parsed
		}
	}

	vector, err := h.embedder.GenerateEmbedding(r.Context(), query)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to embed search query")
		WriteError(w, http.StatusServiceUnavailable, "Embedding backend unavailable")
		return
	}

	hits, err := h.index.Search(r.Context(), vector, k)
	if err != nil {
		h.logger.Error().Err(err).Msg("Vector search failed")
		WriteError(w, http.StatusInternalServerError, "Search failed")
		return
	}

	WriteJSON(w, http.StatusOK, hits)
}

// ExportFAQsHandler handles GET /fqas/export requests, returning a PDF
// report of every stored FAQ.
func (h *FAQHandler) ExportFAQsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	faqs, err := h.storage.ListAll(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list FAQs for export")
		WriteError(w, http.StatusInternalServerError, "Failed to list FAQs")
		return
	}

	title := fmt.Sprintf("IUH-Ecommerce Policy FAQ - %s", time.Now().UTC().Format("2006-01-02"))
	data, err := h.report.RenderFAQReport(title, faqs)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to render FAQ report")
		WriteError(w, http.StatusInternalServerError, "Failed to render report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="faq-report.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// indexFAQ mirrors a newly created FAQ into the vector index, best effort
func (h *FAQHandler) indexFAQ(r *http.Request, faq *models.FAQ) {
	vector, err := h.embedder.EmbedFAQ(r.Context(), faq)
	if err != nil || len(vector) == 0 {
		h.logger.Warn().Err(err).Int64("faq_id", faq.ID).Msg("FAQ stored without vector")
		return
	}

	payload := models.VectorPayload{FAQID: faq.ID, Question: faq.Question, Answer: faq.Answer}
	if err := h.index.Upsert(r.Context(), faq.ID, vector, payload); err != nil {
		h.logger.Warn().Err(err).Int64("faq_id", faq.ID).Msg("FAQ stored without vector")
	}
}
