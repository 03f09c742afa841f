package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/iuh-ecommerce/poli/internal/common"
	"github.com/iuh-ecommerce/poli/internal/interfaces"
	"github.com/iuh-ecommerce/poli/internal/models"
)

// ErrCollectionMismatch indicates the existing Qdrant collection was created
// with a different dimension or distance metric than configured. This is
// fatal: writing vectors of the wrong shape would corrupt the index, so the
// caller must fail startup instead of proceeding.
var ErrCollectionMismatch = errors.New("qdrant collection schema mismatch")

// vectorName is the named vector slot used for all points
const vectorName = "default"

const distanceCosine = "Cosine"

// QdrantIndex is a minimal REST client for a Qdrant collection holding one
// point per FAQ, keyed by the FAQ's numeric ID.
type QdrantIndex struct {
	baseURL    string
	apiKey     string
	collection string
	dimension  int
	client     *http.Client
	logger     arbor.ILogger
}

var _ interfaces.VectorIndex = (*QdrantIndex)(nil)

// NewQdrantIndex creates a Qdrant-backed vector index from config
func NewQdrantIndex(cfg *common.QdrantConfig, logger arbor.ILogger) (*QdrantIndex, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("qdrant URL is required")
	}
	if cfg.Collection == "" {
		return nil, fmt.Errorf("qdrant collection name is required")
	}
	if cfg.Dimension <= 0 {
		return nil, fmt.Errorf("qdrant dimension must be positive, got %d", cfg.Dimension)
	}

	timeout := 5 * time.Second
	if cfg.Timeout != "" {
		parsed, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid qdrant timeout '%s': %w", cfg.Timeout, err)
		}
		timeout = parsed
	}

	return &QdrantIndex{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		dimension:  cfg.Dimension,
		client:     &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// collectionInfo mirrors the subset of Qdrant's GET collection response
// needed to verify the named vector schema.
type collectionInfo struct {
	Result struct {
		Config struct {
			Params struct {
				Vectors map[string]struct {
					Size     int    `json:"size"`
					Distance string `json:"distance"`
				} `json:"vectors"`
			} `json:"params"`
		} `json:"config"`
	} `json:"result"`
}

// EnsureCollection creates the collection when absent and verifies its
// schema when present. Safe to call repeatedly.
func (q *QdrantIndex) EnsureCollection(ctx context.Context) error {
	status, body, err := q.doJSON(ctx, http.MethodGet, q.collectionURL(), nil)
	if err != nil {
		return fmt.Errorf("qdrant collection lookup failed: %w", err)
	}

	switch {
	case status == http.StatusNotFound:
		return q.createCollection(ctx)
	case status >= 300:
		return fmt.Errorf("qdrant collection lookup returned status %d", status)
	}

	var info collectionInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return fmt.Errorf("failed to parse qdrant collection info: %w", err)
	}

	vec, ok := info.Result.Config.Params.Vectors[vectorName]
	if !ok {
		return fmt.Errorf("%w: collection '%s' has no vector named '%s'", ErrCollectionMismatch, q.collection, vectorName)
	}
	if vec.Size != q.dimension {
		return fmt.Errorf("%w: collection '%s' has dimension %d, expected %d", ErrCollectionMismatch, q.collection, vec.Size, q.dimension)
	}
	if !strings.EqualFold(vec.Distance, distanceCosine) {
		return fmt.Errorf("%w: collection '%s' uses distance '%s', expected '%s'", ErrCollectionMismatch, q.collection, vec.Distance, distanceCosine)
	}

	q.logger.Debug().
		Str("collection", q.collection).
		Int("dimension", q.dimension).
		Msg("Qdrant collection verified")

	return nil
}

func (q *QdrantIndex) createCollection(ctx context.Context) error {
	body := map[string]any{
		"vectors": map[string]any{
			vectorName: map[string]any{
				"size":     q.dimension,
				"distance": distanceCosine,
			},
		},
	}

	status, _, err := q.doJSON(ctx, http.MethodPut, q.collectionURL(), body)
	if err != nil {
		return fmt.Errorf("qdrant collection create failed: %w", err)
	}
	if status >= 300 {
		return fmt.Errorf("qdrant collection create returned status %d", status)
	}

	q.logger.Info().
		Str("collection", q.collection).
		Int("dimension", q.dimension).
		Msg("Created Qdrant collection")

	return nil
}

// Upsert writes the point for an FAQ, replacing any prior vector with the
// same ID.
func (q *QdrantIndex) Upsert(ctx context.Context, faqID int64, vector []float32, payload models.VectorPayload) error {
	if faqID <= 0 {
		return fmt.Errorf("faq id must be positive, got %d", faqID)
	}
	if len(vector) != q.dimension {
		return fmt.Errorf("vector has dimension %d, collection expects %d", len(vector), q.dimension)
	}

	body := map[string]any{
		"points": []map[string]any{
			{
				"id":     faqID,
				"vector": map[string]any{vectorName: vector},
				"payload": map[string]any{
					"faq_id":   payload.FAQID,
					"question": payload.Question,
					"answer":   payload.Answer,
				},
			},
		},
	}

	status, _, err := q.doJSON(ctx, http.MethodPut, q.collectionURL()+"/points?wait=true", body)
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	if status >= 300 {
		return fmt.Errorf("qdrant upsert returned status %d", status)
	}

	return nil
}

// Search returns the top-k closest points with payloads
func (q *QdrantIndex) Search(ctx context.Context, vector []float32, k int) ([]models.SearchHit, error) {
	if len(vector) != q.dimension {
		return nil, fmt.Errorf("query vector has dimension %d, collection expects %d", len(vector), q.dimension)
	}
	if k <= 0 {
		k = 5
	}

	body := map[string]any{
		"vector": map[string]any{
			"name":   vectorName,
			"vector": vector,
		},
		"limit":        k,
		"with_payload": true,
	}

	status, respBody, err := q.doJSON(ctx, http.MethodPost, q.collectionURL()+"/points/search", body)
	if err != nil {
		return nil, fmt.Errorf("qdrant search failed: %w", err)
	}
	if status >= 300 {
		return nil, fmt.Errorf("qdrant search returned status %d", status)
	}

	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse qdrant search response: %w", err)
	}

	hits := make([]models.SearchHit, 0, len(resp.Result))
	for _, r := range resp.Result {
		var payload models.VectorPayload
		if v, ok := r.Payload["faq_id"].(float64); ok {
			payload.FAQID = int64(v)
		}
		if v, ok := r.Payload["question"].(string); ok {
			payload.Question = v
		}
		if v, ok := r.Payload["answer"].(string); ok {
			payload.Answer = v
		}
		hits = append(hits, models.SearchHit{Payload: payload, Score: r.Score})
	}

	return hits, nil
}

// Count returns the exact number of points in the collection
func (q *QdrantIndex) Count(ctx context.Context) (int64, error) {
	body := map[string]any{"exact": true}

	status, respBody, err := q.doJSON(ctx, http.MethodPost, q.collectionURL()+"/points/count", body)
	if err != nil {
		return 0, fmt.Errorf("qdrant count failed: %w", err)
	}
	if status >= 300 {
		return 0, fmt.Errorf("qdrant count returned status %d", status)
	}

	var resp struct {
		Result struct {
			Count int64 `json:"count"`
		} `json:"result"`
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return 0, fmt.Errorf("failed to parse qdrant count response: %w", err)
	}

	return resp.Result.Count, nil
}

func (q *QdrantIndex) collectionURL() string {
	return fmt.Sprintf("%s/collections/%s", q.baseURL, q.collection)
}

// doJSON issues an HTTP request with an optional JSON body and returns the
// status code and response body.
func (q *QdrantIndex) doJSON(ctx context.Context, method, url string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if q.apiKey != "" {
		req.Header.Set("api-key", q.apiKey)
	}

	resp, err := q.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return resp.StatusCode, respBody, nil
}
