package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/iuh-ecommerce/poli/internal/common"
	"github.com/iuh-ecommerce/poli/internal/interfaces"
)

// NewLLMService creates the chat backend selected by llm.provider in config.
// Embeddings always come from the Gemini backend; callers that need both
// should construct the Gemini service separately when the chat provider is
// Claude (see the embeddings service wiring in internal/app).
func NewLLMService(ctx context.Context, config *common.Config, logger arbor.ILogger) (interfaces.LLMService, error) {
	switch config.LLM.Provider {
	case "claude":
		return NewClaudeService(&config.Claude, logger)
	case "gemini", "":
		return NewGeminiService(ctx, &config.Gemini, logger)
	default:
		return nil, fmt.Errorf("unknown LLM provider '%s' (expected 'gemini' or 'claude')", config.LLM.Provider)
	}
}

// newLimiter builds a rate limiter from a minimum-interval duration string.
// An empty or unparsable interval disables rate limiting.
func newLimiter(interval string) *rate.Limiter {
	if interval == "" {
		return rate.NewLimiter(rate.Inf, 1)
	}
	d, err := time.ParseDuration(interval)
	if err != nil || d <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(d), 1)
}
