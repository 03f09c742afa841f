package reindex

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/iuh-ecommerce/poli/internal/models"
)

type fakeStorage struct {
	faqs []*models.FAQ
}

func (f *fakeStorage) Insert(ctx context.Context, question, answer string) (*models.FAQ, error) {
	faq := &models.FAQ{ID: int64(len(f.faqs) + 1), Question: question, Answer: answer, CreatedAt: time.Now().UTC()}
	f.faqs = append(f.faqs, faq)
	return faq, nil
}

func (f *fakeStorage) Get(ctx context.Context, id int64) (*models.FAQ, error) { return nil, nil }

func (f *fakeStorage) ListAll(ctx context.Context) ([]*models.FAQ, error) { return f.faqs, nil }

func (f *fakeStorage) Count(ctx context.Context) (int64, error) { return int64(len(f.faqs)), nil }

func (f *fakeStorage) Close() error { return nil }

type fakeEmbedder struct {
	mu      sync.Mutex
	failIDs map[int64]bool
}

func (f *fakeEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.1, 0.2}, nil
}

func (f *fakeEmbedder) EmbedFAQ(ctx context.Context, faq *models.FAQ) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failIDs[faq.ID] {
		return nil, errors.New("embedding backend unavailable")
	}
	return []float32{0.1, 0.2}, nil
}

func (f *fakeEmbedder) Dimension() int { return 2 }

func (f *fakeEmbedder) IsAvailable(ctx context.Context) bool { return true }

type fakeIndex struct {
	mu          sync.Mutex
	points      map[int64]models.VectorPayload
	ensureErr   error
	ensureCalls int
	upserts     int
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{points: make(map[int64]models.VectorPayload)}
}

func (f *fakeIndex) EnsureCollection(ctx context.Context) error {
	f.ensureCalls++
	return f.ensureErr
}

func (f *fakeIndex) Upsert(ctx context.Context, faqID int64, vector []float32, payload models.VectorPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.points[faqID] = payload
	f.upserts++
	return nil
}

func (f *fakeIndex) Search(ctx context.Context, vector []float32, k int) ([]models.SearchHit, error) {
	return nil, nil
}

func (f *fakeIndex) Count(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.points)), nil
}

func seedStorage(n int) *fakeStorage {
	storage := &fakeStorage{}
	for i := 0; i < n; i++ {
		storage.Insert(context.Background(), "question", "answer")
	}
	return storage
}

func TestReindexAllIndexesEveryRecord(t *testing.T) {
	storage := seedStorage(25)
	index := newFakeIndex()
	orch := NewOrchestrator(storage, &fakeEmbedder{}, index, 5, arbor.NewLogger())

	result, err := orch.ReindexAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 25, result.FAQsIndexed)
	assert.Zero(t, result.FAQsFailed)
	assert.Len(t, index.points, 25)
	for _, faq := range storage.faqs {
		assert.Contains(t, index.points, faq.ID)
	}
}

func TestReindexAllIdempotent(t *testing.T) {
	storage := seedStorage(10)
	index := newFakeIndex()
	orch := NewOrchestrator(storage, &fakeEmbedder{}, index, 3, arbor.NewLogger())

	first, err := orch.ReindexAll(context.Background())
	require.NoError(t, err)
	second, err := orch.ReindexAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.FAQsIndexed, second.FAQsIndexed)
	assert.Len(t, index.points, 10, "running twice leaves the same set of points")
	assert.Equal(t, 20, index.upserts)
}

func TestReindexAllCountsPerRecordFailures(t *testing.T) {
	storage := seedStorage(5)
	index := newFakeIndex()
	embedder := &fakeEmbedder{failIDs: map[int64]bool{2: true, 4: true}}
	orch := NewOrchestrator(storage, embedder, index, 2, arbor.NewLogger())

	result, err := orch.ReindexAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.FAQsIndexed)
	assert.Equal(t, 2, result.FAQsFailed)
	assert.Len(t, index.points, 3)
	assert.NotContains(t, index.points, int64(2))
	assert.NotContains(t, index.points, int64(4))
}

func TestReindexAllAbortsOnCollectionError(t *testing.T) {
	storage := seedStorage(3)
	index := newFakeIndex()
	index.ensureErr = errors.New("qdrant collection schema mismatch")
	orch := NewOrchestrator(storage, &fakeEmbedder{}, index, 2, arbor.NewLogger())

	result, err := orch.ReindexAll(context.Background())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Empty(t, index.points, "no work is queued when the collection is unusable")
}

func TestReindexAllEmptyStore(t *testing.T) {
	orch := NewOrchestrator(&fakeStorage{}, &fakeEmbedder{}, newFakeIndex(), 4, arbor.NewLogger())

	result, err := orch.ReindexAll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.FAQsIndexed)
	assert.Zero(t, result.FAQsFailed)
}

func TestReindexRecoversStoredOnlyRecords(t *testing.T) {
	// A record stored during ingestion while the embedder was down gets its
	// vector on the next reindex run.
	storage := seedStorage(1)
	index := newFakeIndex()
	embedder := &fakeEmbedder{failIDs: map[int64]bool{1: true}}
	orch := NewOrchestrator(storage, embedder, index, 1, arbor.NewLogger())

	result, err := orch.ReindexAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.FAQsFailed)
	assert.Empty(t, index.points)

	embedder.mu.Lock()
	embedder.failIDs = nil
	embedder.mu.Unlock()

	result, err = orch.ReindexAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.FAQsIndexed)
	require.Contains(t, index.points, int64(1))
}
