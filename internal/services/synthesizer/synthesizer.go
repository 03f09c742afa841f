package synthesizer

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/iuh-ecommerce/poli/internal/interfaces"
	"github.com/iuh-ecommerce/poli/internal/models"
)

// systemInstruction frames the model as an e-commerce policy FAQ writer.
// Questions and answers come back in Vietnamese since the policy documents
// and the customer base are Vietnamese.
const systemInstruction = `Bạn là trợ lý tạo câu hỏi thường gặp (FAQ) cho sàn thương mại điện tử IUH-Ecommerce.
Từ đoạn văn bản chính sách được cung cấp, hãy tạo các cặp câu hỏi và câu trả lời mà khách hàng có thể hỏi.
Chỉ trả về một mảng JSON hợp lệ, mỗi phần tử có dạng {"question": "...", "answer": "..."}.
Không thêm lời giải thích hay văn bản nào khác ngoài mảng JSON.`

// jsonArrayRegex captures the outermost JSON array in the model response,
// tolerating prose or code fences around it.
var jsonArrayRegex = regexp.MustCompile(`(?s)\[.*\]`)

// brandRegex rewrites mentions of the source marketplace in generated text.
var brandRegex = regexp.MustCompile(`(?i)tiki`)

const brandName = "IUH-Ecommerce"

// Service generates question/answer pairs from policy text chunks using a
// chat LLM backend. Malformed model output is a soft failure: the chunk
// yields an empty list and processing continues. Transport failures are
// returned to the caller for retry.
type Service struct {
	llmService interfaces.LLMService
	logger     arbor.ILogger
}

var _ interfaces.QASynthesizer = (*Service)(nil)

// NewService creates a new QA synthesizer
func NewService(llmService interfaces.LLMService, logger arbor.ILogger) *Service {
	return &Service{
		llmService: llmService,
		logger:     logger,
	}
}

// Synthesize generates QA pairs for a single text chunk
func (s *Service) Synthesize(ctx context.Context, chunk string) ([]models.QAPair, error) {
	if strings.TrimSpace(chunk) == "" {
		return nil, nil
	}

	response, err := s.llmService.Chat(ctx, []interfaces.Message{
		{Role: "system", Content: systemInstruction},
		{Role: "user", Content: buildPrompt(chunk)},
	})
	if err != nil {
		return nil, fmt.Errorf("qa synthesis chat failed: %w", err)
	}

	pairs := s.parseResponse(response)

	s.logger.Debug().
		Int("chunk_length", len(chunk)).
		Int("pair_count", len(pairs)).
		Msg("Synthesized QA pairs from chunk")

	return pairs, nil
}

// buildPrompt wraps the chunk in the generation request
func buildPrompt(chunk string) string {
	var b strings.Builder
	b.WriteString("Đoạn văn bản chính sách:\n\n")
	b.WriteString(chunk)
	b.WriteString("\n\nHãy tạo mảng JSON các cặp câu hỏi và câu trả lời dựa trên đoạn văn bản trên.")
	return b.String()
}

// parseResponse extracts the JSON array from the model response and keeps
// the elements that carry non-empty question and answer strings. Any
// malformed payload degrades to an empty list.
func (s *Service) parseResponse(response string) []models.QAPair {
	match := jsonArrayRegex.FindString(response)
	if match == "" {
		s.logger.Warn().
			Int("response_length", len(response)).
			Msg("No JSON array found in synthesizer response, skipping chunk")
		return nil
	}

	var raw []map[string]any
	if err := json.Unmarshal([]byte(match), &raw); err != nil {
		s.logger.Warn().
			Err(err).
			Int("response_length", len(response)).
			Msg("Failed to parse synthesizer response as JSON array, skipping chunk")
		return nil
	}

	pairs := make([]models.QAPair, 0, len(raw))
	for _, item := range raw {
		question, _ := item["question"].(string)
		answer, _ := item["answer"].(string)
		question = strings.TrimSpace(question)
		answer = strings.TrimSpace(answer)
		if question == "" || answer == "" {
			continue
		}
		pairs = append(pairs, models.QAPair{
			Question: substituteBrand(question),
			Answer:   substituteBrand(answer),
		})
	}

	return pairs
}

// substituteBrand rewrites source-marketplace mentions in generated text
func substituteBrand(text string) string {
	return brandRegex.ReplaceAllString(text, brandName)
}
