package embeddings

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/iuh-ecommerce/poli/internal/interfaces"
	"github.com/iuh-ecommerce/poli/internal/models"
)

type fakeLLM struct {
	vector    []float32
	embedErr  error
	healthErr error
	lastText  string
}

func (f *fakeLLM) Embed(ctx context.Context, text string) ([]float32, error) {
	f.lastText = text
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	return f.vector, nil
}

func (f *fakeLLM) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeLLM) HealthCheck(ctx context.Context) error { return f.healthErr }
func (f *fakeLLM) GetMode() interfaces.LLMMode           { return interfaces.LLMModeGemini }
func (f *fakeLLM) Close() error                          { return nil }

func TestGenerateEmbedding(t *testing.T) {
	logger := arbor.NewLogger()

	t.Run("returns backend vector", func(t *testing.T) {
		llm := &fakeLLM{vector: []float32{0.1, 0.2, 0.3}}
		service := NewService(llm, 3, logger)

		embedding, err := service.GenerateEmbedding(context.Background(), "chinh sach doi tra")
		require.NoError(t, err)
		assert.Equal(t, []float32{0.1, 0.2, 0.3}, embedding)
	})

	t.Run("rejects empty text", func(t *testing.T) {
		llm := &fakeLLM{vector: []float32{0.1}}
		service := NewService(llm, 1, logger)

		_, err := service.GenerateEmbedding(context.Background(), "")
		require.Error(t, err)
		assert.Empty(t, llm.lastText)
	})

	t.Run("rejects empty backend result", func(t *testing.T) {
		llm := &fakeLLM{vector: []float32{}}
		service := NewService(llm, 3, logger)

		_, err := service.GenerateEmbedding(context.Background(), "text")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty embedding")
	})

	t.Run("wraps backend errors", func(t *testing.T) {
		llm := &fakeLLM{embedErr: errors.New("quota exceeded")}
		service := NewService(llm, 3, logger)

		_, err := service.GenerateEmbedding(context.Background(), "text")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "quota exceeded")
	})
}

func TestEmbedFAQ(t *testing.T) {
	logger := arbor.NewLogger()

	t.Run("embeds the question alone", func(t *testing.T) {
		llm := &fakeLLM{vector: []float32{0.5}}
		service := NewService(llm, 1, logger)

		faq := &models.FAQ{
			ID:       7,
			Question: "Toi co the doi tra hang khong?",
			Answer:   "Ban co the doi tra trong vong 30 ngay.",
		}

		_, err := service.EmbedFAQ(context.Background(), faq)
		require.NoError(t, err)
		assert.Equal(t, faq.Question, llm.lastText)
	})

	t.Run("rejects nil faq", func(t *testing.T) {
		llm := &fakeLLM{vector: []float32{0.5}}
		service := NewService(llm, 1, logger)

		_, err := service.EmbedFAQ(context.Background(), nil)
		require.Error(t, err)
	})
}

func TestIsAvailable(t *testing.T) {
	logger := arbor.NewLogger()

	t.Run("healthy backend", func(t *testing.T) {
		service := NewService(&fakeLLM{}, 3, logger)
		assert.True(t, service.IsAvailable(context.Background()))
	})

	t.Run("unhealthy backend", func(t *testing.T) {
		service := NewService(&fakeLLM{healthErr: errors.New("unreachable")}, 3, logger)
		assert.False(t, service.IsAvailable(context.Background()))
	})

	t.Run("nil backend", func(t *testing.T) {
		service := NewService(nil, 3, logger)
		assert.False(t, service.IsAvailable(context.Background()))
	})
}

func TestDimension(t *testing.T) {
	service := NewService(&fakeLLM{}, 3072, arbor.NewLogger())
	assert.Equal(t, 3072, service.Dimension())
}
