package interfaces

import (
	"context"

	"github.com/iuh-ecommerce/poli/internal/models"
)

// QASynthesizer extracts question/answer pairs from a chunk of policy text
// via an LLM. Malformed model output is a soft failure: the synthesizer
// returns an empty list and never an error for it. Transport failures are
// returned as errors so the caller can retry with backoff.
type QASynthesizer interface {
	Synthesize(ctx context.Context, chunk string) ([]models.QAPair, error)
}
