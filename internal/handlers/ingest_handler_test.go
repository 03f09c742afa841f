package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/iuh-ecommerce/poli/internal/models"
	"github.com/iuh-ecommerce/poli/internal/services/chunker"
	"github.com/iuh-ecommerce/poli/internal/services/ingest"
	"github.com/iuh-ecommerce/poli/internal/services/llm"
)

type fakeStaging struct {
	files   map[string]string
	missing bool
}

func (f *fakeStaging) List(ctx context.Context) ([]string, bool, error) {
	if f.missing {
		return nil, false, nil
	}
	paths := make([]string, 0, len(f.files))
	for path := range f.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, true, nil
}

func (f *fakeStaging) Delete(ctx context.Context, path string) error {
	delete(f.files, path)
	return nil
}

type fakeExtractor struct {
	staging *fakeStaging
}

func (f *fakeExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	return f.staging.files[path], nil
}

type fakeSynthesizer struct {
	pairs []models.QAPair
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, chunk string) ([]models.QAPair, error) {
	return f.pairs, nil
}

func newIngestHandler(t *testing.T, staging *fakeStaging, pairs []models.QAPair) *IngestHandler {
	t.Helper()
	logger := arbor.NewLogger()
	textChunker, err := chunker.NewChunker(1000, 100, logger)
	require.NoError(t, err)

	orch := ingest.NewOrchestrator(
		staging,
		&fakeExtractor{staging: staging},
		textChunker,
		&fakeSynthesizer{pairs: pairs},
		&fakeStorage{},
		&fakeEmbedder{vector: []float32{0.1, 0.2}},
		newFakeIndex(),
		&llm.RetryConfig{MaxAttempts: 1, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond, BackoffMultiplier: 1},
		logger,
	)
	return NewIngestHandler(orch, logger)
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body["message"]
}

func TestLoadFAQHandler(t *testing.T) {
	t.Run("ingests staged documents", func(t *testing.T) {
		staging := &fakeStaging{files: map[string]string{"/staging/policy.pdf": "policy text"}}
		handler := newIngestHandler(t, staging, []models.QAPair{{Question: "q", Answer: "a"}})

		req := httptest.NewRequest("POST", "/load-faq/", nil)
		rec := httptest.NewRecorder()
		handler.LoadFAQHandler(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, decodeMessage(t, rec), "Processed 1 document(s), persisted 1 QA pair(s)")
		assert.Empty(t, staging.files)
	})

	t.Run("200 when staging directory is missing", func(t *testing.T) {
		handler := newIngestHandler(t, &fakeStaging{missing: true}, nil)

		req := httptest.NewRequest("POST", "/load-faq/", nil)
		rec := httptest.NewRecorder()
		handler.LoadFAQHandler(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, decodeMessage(t, rec), "not found")
	})

	t.Run("200 when staging directory is empty", func(t *testing.T) {
		handler := newIngestHandler(t, &fakeStaging{files: map[string]string{}}, nil)

		req := httptest.NewRequest("POST", "/load-faq/", nil)
		rec := httptest.NewRecorder()
		handler.LoadFAQHandler(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, decodeMessage(t, rec), "empty")
	})

	t.Run("rejects GET", func(t *testing.T) {
		handler := newIngestHandler(t, &fakeStaging{missing: true}, nil)

		req := httptest.NewRequest("GET", "/load-faq/", nil)
		rec := httptest.NewRecorder()
		handler.LoadFAQHandler(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}
