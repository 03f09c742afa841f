package interfaces

import (
	"context"

	"github.com/iuh-ecommerce/poli/internal/models"
)

// EmbeddingService produces dense vectors for FAQ entries.
// Failures are reported as errors and the caller decides whether to
// skip or retry; the FAQ record stays in the store either way and a
// later reindex picks it up.
type EmbeddingService interface {
	// GenerateEmbedding creates a vector embedding for text.
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)

	// EmbedFAQ creates the embedding for an FAQ entry from its question
	// text alone; answers only travel in the index payload.
	EmbedFAQ(ctx context.Context, faq *models.FAQ) ([]float32, error)

	// Dimension returns the configured embedding dimension.
	Dimension() int

	// IsAvailable reports whether the underlying backend answers a health probe.
	IsAvailable(ctx context.Context) bool
}
