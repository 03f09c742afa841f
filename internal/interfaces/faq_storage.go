package interfaces

import (
	"context"

	"github.com/iuh-ecommerce/poli/internal/models"
)

// FAQStorage is the authoritative store for FAQ records. IDs are assigned
// by the store in commit order and are monotonically increasing; on commit
// failure the record does not exist (sequence gaps are permitted).
type FAQStorage interface {
	// Insert persists a QA pair in its own transaction and returns the
	// committed record with its assigned ID and UTC creation time.
	Insert(ctx context.Context, question, answer string) (*models.FAQ, error)

	// Get returns the record with the given ID, or (nil, nil) when absent.
	Get(ctx context.Context, id int64) (*models.FAQ, error)

	// ListAll returns every record ordered by ID ascending.
	ListAll(ctx context.Context) ([]*models.FAQ, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int64, error)

	// Close releases the underlying database handle.
	Close() error
}
