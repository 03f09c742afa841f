package interfaces

import (
	"context"
)

// LLMMode identifies the backend family serving LLM operations
type LLMMode string

const (
	// LLMModeClaude indicates the Anthropic Claude API backend
	LLMModeClaude LLMMode = "claude"

	// LLMModeGemini indicates the Google Gemini API backend
	LLMModeGemini LLMMode = "gemini"
)

// Message represents a single message in a chat conversation
type Message struct {
	// Role identifies the message sender: "user", "assistant", or "system"
	Role string

	// Content contains the text content of the message
	Content string
}

// LLMService defines the interface for language model operations.
// The QA synthesizer uses Chat to extract question/answer pairs from
// document chunks; the embedding service uses Embed to produce dense
// vectors for the FAQ index. A backend that does not support one of the
// operations returns an error from it (e.g. Claude has no embedding API).
type LLMService interface {
	// Embed generates an embedding vector for the given text. The vector
	// length equals the configured embedding dimension; callers must not
	// assume a fixed size beyond that configuration.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Chat generates a completion response based on the conversation history.
	// The messages slice contains the full conversation context in
	// chronological order, including system prompts.
	Chat(ctx context.Context, messages []Message) (string, error)

	// HealthCheck verifies the service is operational and can handle requests.
	HealthCheck(ctx context.Context) error

	// GetMode returns the backend family serving this service.
	GetMode() LLMMode

	// Close releases resources held by the backend client.
	Close() error
}
