package interfaces

import (
	"context"

	"github.com/iuh-ecommerce/poli/internal/models"
)

// VectorIndex is the derived mirror of the FAQ store: one point per FAQ,
// keyed by the FAQ ID, carrying the question embedding and the QA payload.
// Its contents must be reconstructible from the store alone.
type VectorIndex interface {
	// EnsureCollection creates the collection when absent and verifies
	// dimension and distance when present. A mismatch is fatal and is
	// reported as vector.ErrCollectionMismatch.
	EnsureCollection(ctx context.Context) error

	// Upsert replaces any prior point with the same FAQ ID.
	Upsert(ctx context.Context, faqID int64, vector []float32, payload models.VectorPayload) error

	// Search returns the top-k points by cosine similarity with payloads.
	Search(ctx context.Context, vector []float32, k int) ([]models.SearchHit, error)

	// Count returns the number of points in the collection.
	Count(ctx context.Context) (int64, error)
}
