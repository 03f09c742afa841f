package synthesizer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/iuh-ecommerce/poli/internal/interfaces"
)

// fakeLLM returns a canned response or error for every Chat call
type fakeLLM struct {
	response string
	err      error
	calls    int
}

func (f *fakeLLM) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	f.calls++
	return f.response, f.err
}

func (f *fakeLLM) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, errors.New("not supported")
}

func (f *fakeLLM) HealthCheck(ctx context.Context) error { return nil }

func (f *fakeLLM) GetMode() interfaces.LLMMode { return interfaces.LLMModeGemini }

func (f *fakeLLM) Close() error { return nil }

func newTestService(llm interfaces.LLMService) *Service {
	return NewService(llm, arbor.NewLogger())
}

func TestSynthesizeParsesJSONArray(t *testing.T) {
	llm := &fakeLLM{response: `Here are the FAQ pairs:
[
  {"question": "Tôi được đổi trả trong bao lâu?", "answer": "Trong vòng 30 ngày kể từ ngày nhận hàng."},
  {"question": "Phí vận chuyển là bao nhiêu?", "answer": "Miễn phí cho đơn hàng trên 500.000đ."}
]
Let me know if you need more.`}

	pairs, err := newTestService(llm).Synthesize(context.Background(), "policy text")
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, "Tôi được đổi trả trong bao lâu?", pairs[0].Question)
	assert.Equal(t, "Miễn phí cho đơn hàng trên 500.000đ.", pairs[1].Answer)
}

func TestSynthesizeSubstitutesBrand(t *testing.T) {
	llm := &fakeLLM{response: `[
  {"question": "Tiki có hỗ trợ trả góp không?", "answer": "TIKI hỗ trợ trả góp qua thẻ tín dụng, liên hệ tiki để biết thêm."}
]`}

	pairs, err := newTestService(llm).Synthesize(context.Background(), "policy text")
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "IUH-Ecommerce có hỗ trợ trả góp không?", pairs[0].Question)
	assert.Equal(t, "IUH-Ecommerce hỗ trợ trả góp qua thẻ tín dụng, liên hệ IUH-Ecommerce để biết thêm.", pairs[0].Answer)
}

func TestSynthesizeMalformedResponses(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"no array at all", "I could not generate any questions for this text."},
		{"broken json", `[{"question": "q", "answer": }]`},
		{"array of scalars", `[1, 2, 3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &fakeLLM{response: tt.response}
			pairs, err := newTestService(llm).Synthesize(context.Background(), "policy text")
			require.NoError(t, err)
			assert.Empty(t, pairs)
		})
	}
}

func TestSynthesizeSkipsIncompleteElements(t *testing.T) {
	llm := &fakeLLM{response: `[
  {"question": "Hợp lệ?", "answer": "Có."},
  {"question": "", "answer": "thiếu câu hỏi"},
  {"question": "thiếu câu trả lời"},
  {"question": 42, "answer": "câu hỏi không phải chuỗi"}
]`}

	pairs, err := newTestService(llm).Synthesize(context.Background(), "policy text")
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "Hợp lệ?", pairs[0].Question)
}

func TestSynthesizePropagatesTransportErrors(t *testing.T) {
	llm := &fakeLLM{err: errors.New("connection reset by peer")}

	pairs, err := newTestService(llm).Synthesize(context.Background(), "policy text")
	require.Error(t, err)
	assert.Nil(t, pairs)
}

func TestSynthesizeSkipsEmptyChunks(t *testing.T) {
	llm := &fakeLLM{response: `[]`}

	pairs, err := newTestService(llm).Synthesize(context.Background(), "   \n\t ")
	require.NoError(t, err)
	assert.Nil(t, pairs)
	assert.Zero(t, llm.calls)
}
