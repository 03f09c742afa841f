package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/iuh-ecommerce/poli/internal/interfaces"
	"github.com/iuh-ecommerce/poli/internal/models"
	"github.com/iuh-ecommerce/poli/internal/services/chunker"
	"github.com/iuh-ecommerce/poli/internal/services/llm"
)

// Orchestrator drives the ingestion pipeline: scan staging, extract text,
// chunk, synthesize QA pairs, persist, embed, and index. Documents are
// processed sequentially; failures are contained per the error taxonomy so
// one bad document or chunk never aborts the run.
//
// A document is deleted from staging only when no unrecoverable failure
// occurred while processing it. Extraction failures and store commit
// failures are unrecoverable (the document stays for a retry run); skipped
// chunks and stored-only records are not, since their data is either never
// produced or already safe in the store.
type Orchestrator struct {
	staging     interfaces.Staging
	extractor   interfaces.DocumentExtractor
	chunker     *chunker.Chunker
	synthesizer interfaces.QASynthesizer
	storage     interfaces.FAQStorage
	embedder    interfaces.EmbeddingService
	index       interfaces.VectorIndex
	retry       *llm.RetryConfig
	logger      arbor.ILogger
}

// NewOrchestrator wires the ingestion pipeline
func NewOrchestrator(
	staging interfaces.Staging,
	extractor interfaces.DocumentExtractor,
	textChunker *chunker.Chunker,
	synth interfaces.QASynthesizer,
	storage interfaces.FAQStorage,
	embedder interfaces.EmbeddingService,
	index interfaces.VectorIndex,
	retry *llm.RetryConfig,
	logger arbor.ILogger,
) *Orchestrator {
	if retry == nil {
		retry = llm.NewDefaultRetryConfig()
	}
	return &Orchestrator{
		staging:     staging,
		extractor:   extractor,
		chunker:     textChunker,
		synthesizer: synth,
		storage:     storage,
		embedder:    embedder,
		index:       index,
		retry:       retry,
		logger:      logger,
	}
}

// IngestFolder processes every stageable document in the staging directory
// and returns cumulative counts. A missing staging directory is a no-op
// scan, not an error.
func (o *Orchestrator) IngestFolder(ctx context.Context) (*models.IngestResult, error) {
	runID := strings.Split(uuid.New().String(), "-")[0]
	start := time.Now()

	paths, exists, err := o.staging.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list staging directory: %w", err)
	}

	result := &models.IngestResult{}
	if !exists {
		result.StagingMissing = true
		o.logger.Info().
			Str("run_id", runID).
			Msg("Staging directory not found, nothing to ingest")
		return result, nil
	}

	o.logger.Info().
		Str("run_id", runID).
		Int("document_count", len(paths)).
		Msg("Starting ingestion run")

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		persisted, docFailed := o.processDocument(ctx, runID, path)
		result.DocumentsProcessed++
		result.QAPairsPersisted += persisted

		if docFailed {
			o.logger.Warn().
				Str("run_id", runID).
				Str("document", filepath.Base(path)).
				Msg("Document kept in staging for retry")
			continue
		}

		if err := o.staging.Delete(ctx, path); err != nil {
			o.logger.Error().
				Err(err).
				Str("run_id", runID).
				Str("document", filepath.Base(path)).
				Msg("Failed to delete ingested document from staging")
		}
	}

	o.logger.Info().
		Str("run_id", runID).
		Int("documents_processed", result.DocumentsProcessed).
		Int("qa_pairs_persisted", result.QAPairsPersisted).
		Dur("duration", time.Since(start)).
		Msg("Ingestion run complete")

	return result, nil
}

// processDocument runs the extract/chunk/synthesize/persist/index pipeline
// for one document. It returns the number of QA pairs persisted and whether
// an unrecoverable failure occurred.
func (o *Orchestrator) processDocument(ctx context.Context, runID, path string) (int, bool) {
	doc := filepath.Base(path)

	text, err := o.extractor.ExtractText(ctx, path)
	if err != nil {
		o.logger.Warn().
			Err(err).
			Str("run_id", runID).
			Str("document", doc).
			Msg("Failed to extract document text, skipping")
		return 0, true
	}

	chunks := o.chunker.Chunk(text)
	o.logger.Debug().
		Str("run_id", runID).
		Str("document", doc).
		Int("chunk_count", len(chunks)).
		Msg("Chunked document text")

	persisted := 0
	docFailed := false

	for i, chunk := range chunks {
		if ctx.Err() != nil {
			return persisted, true
		}

		var pairs []models.QAPair
		err := o.retry.Do(ctx, func(ctx context.Context) error {
			var synthErr error
			pairs, synthErr = o.synthesizer.Synthesize(ctx, chunk)
			return synthErr
		})
		if err != nil {
			o.logger.Warn().
				Err(err).
				Str("run_id", runID).
				Str("document", doc).
				Int("chunk_index", i).
				Msg("QA synthesis retry budget exhausted, skipping chunk")
			continue
		}

		for _, pair := range pairs {
			faq, err := o.storage.Insert(ctx, pair.Question, pair.Answer)
			if err != nil {
				o.logger.Error().
					Err(err).
					Str("run_id", runID).
					Str("document", doc).
					Msg("Failed to persist QA pair")
				docFailed = true
				continue
			}
			persisted++

			o.indexFAQ(ctx, runID, doc, faq)
		}
	}

	return persisted, docFailed
}

// indexFAQ embeds and upserts one FAQ. Failures leave the record stored
// only; a later reindex picks it up.
func (o *Orchestrator) indexFAQ(ctx context.Context, runID, doc string, faq *models.FAQ) {
	vector, err := o.embedder.EmbedFAQ(ctx, faq)
	if err != nil || len(vector) == 0 {
		o.logger.Warn().
			Err(err).
			Str("run_id", runID).
			Str("document", doc).
			Int64("faq_id", faq.ID).
			Msg("Embedding unavailable, FAQ stored without vector")
		return
	}

	payload := models.VectorPayload{
		FAQID:    faq.ID,
		Question: faq.Question,
		Answer:   faq.Answer,
	}

	err = o.retry.Do(ctx, func(ctx context.Context) error {
		return o.index.Upsert(ctx, faq.ID, vector, payload)
	})
	if err != nil {
		o.logger.Warn().
			Err(err).
			Str("run_id", runID).
			Str("document", doc).
			Int64("faq_id", faq.ID).
			Msg("Vector upsert retry budget exhausted, FAQ stored without vector")
	}
}
