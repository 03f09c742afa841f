package embeddings

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/iuh-ecommerce/poli/internal/interfaces"
	"github.com/iuh-ecommerce/poli/internal/models"
)

// Service implements EmbeddingService on top of an embedding-capable LLM
// backend. FAQ entries are embedded by question alone; the answer travels
// in the index payload, not the vector.
type Service struct {
	llmService interfaces.LLMService
	dimension  int
	logger     arbor.ILogger
}

var _ interfaces.EmbeddingService = (*Service)(nil)

// NewService creates a new embedding service
func NewService(llmService interfaces.LLMService, dimension int, logger arbor.ILogger) *Service {
	return &Service{
		llmService: llmService,
		dimension:  dimension,
		logger:     logger,
	}
}

// GenerateEmbedding creates a vector embedding for text
func (s *Service) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	start := time.Now()
	embedding, err := s.llmService.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if len(embedding) == 0 {
		return nil, fmt.Errorf("LLM service returned empty embedding")
	}

	s.logger.Debug().
		Str("mode", string(s.llmService.GetMode())).
		Int("embedding_dim", len(embedding)).
		Dur("duration", time.Since(start)).
		Msg("Generated embedding")

	return embedding, nil
}

// EmbedFAQ generates the embedding for an FAQ entry from its question text
func (s *Service) EmbedFAQ(ctx context.Context, faq *models.FAQ) ([]float32, error) {
	if faq == nil {
		return nil, fmt.Errorf("faq cannot be nil")
	}
	return s.GenerateEmbedding(ctx, faq.Question)
}

// Dimension returns the embedding dimension
func (s *Service) Dimension() int {
	return s.dimension
}

// IsAvailable checks if the embedding backend is reachable
func (s *Service) IsAvailable(ctx context.Context) bool {
	if s.llmService == nil {
		return false
	}

	if err := s.llmService.HealthCheck(ctx); err != nil {
		s.logger.Debug().Err(err).Msg("Embedding backend not available")
		return false
	}

	return true
}
