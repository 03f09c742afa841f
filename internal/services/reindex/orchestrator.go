package reindex

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/iuh-ecommerce/poli/internal/interfaces"
	"github.com/iuh-ecommerce/poli/internal/models"
	"github.com/iuh-ecommerce/poli/internal/services/workers"
)

// Orchestrator rebuilds the vector index from the authoritative FAQ store.
// Every stored record is re-embedded and upserted by its FAQ ID, so the
// operation is idempotent: running it twice leaves the same set of points
// as running it once.
type Orchestrator struct {
	storage    interfaces.FAQStorage
	embedder   interfaces.EmbeddingService
	index      interfaces.VectorIndex
	maxWorkers int
	logger     arbor.ILogger
}

// NewOrchestrator creates a reindex orchestrator with the given worker bound
func NewOrchestrator(
	storage interfaces.FAQStorage,
	embedder interfaces.EmbeddingService,
	index interfaces.VectorIndex,
	maxWorkers int,
	logger arbor.ILogger,
) *Orchestrator {
	if maxWorkers <= 0 {
		maxWorkers = 10
	}
	return &Orchestrator{
		storage:    storage,
		embedder:   embedder,
		index:      index,
		maxWorkers: maxWorkers,
		logger:     logger,
	}
}

// ReindexAll ensures the collection exists, then embeds and upserts every
// stored FAQ on a bounded worker pool. Per-record failures are counted, not
// fatal; a collection schema mismatch aborts before any work is queued.
func (o *Orchestrator) ReindexAll(ctx context.Context) (*models.ReindexResult, error) {
	start := time.Now()

	if err := o.index.EnsureCollection(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure vector collection: %w", err)
	}

	faqs, err := o.storage.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list FAQ records: %w", err)
	}

	o.logger.Info().
		Int("faq_count", len(faqs)).
		Int("max_workers", o.maxWorkers).
		Msg("Starting full reindex")

	pool := workers.NewPool(ctx, o.maxWorkers, o.logger)
	pool.Start()

	for _, faq := range faqs {
		faq := faq
		if err := pool.Submit(func(ctx context.Context) error {
			return o.reindexOne(ctx, faq)
		}); err != nil {
			pool.Shutdown()
			return nil, fmt.Errorf("failed to queue reindex task: %w", err)
		}
	}

	errs := pool.Wait()

	result := &models.ReindexResult{
		FAQsIndexed: len(faqs) - len(errs),
		FAQsFailed:  len(errs),
	}

	o.logger.Info().
		Int("faqs_indexed", result.FAQsIndexed).
		Int("faqs_failed", result.FAQsFailed).
		Dur("duration", time.Since(start)).
		Msg("Reindex complete")

	return result, nil
}

func (o *Orchestrator) reindexOne(ctx context.Context, faq *models.FAQ) error {
	vector, err := o.embedder.EmbedFAQ(ctx, faq)
	if err != nil {
		return fmt.Errorf("failed to embed faq %d: %w", faq.ID, err)
	}

	payload := models.VectorPayload{
		FAQID:    faq.ID,
		Question: faq.Question,
		Answer:   faq.Answer,
	}

	if err := o.index.Upsert(ctx, faq.ID, vector, payload); err != nil {
		return fmt.Errorf("failed to upsert faq %d: %w", faq.ID, err)
	}

	return nil
}
