package models

import "time"

// QAPair is a question/answer tuple extracted from a document chunk.
// Both fields are non-empty after trimming; duplicates within a chunk
// are persisted as distinct records.
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FAQ is a persisted QA pair. The FAQ store is the authoritative record;
// the vector index only mirrors it.
type FAQ struct {
	ID        int64     `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

// VectorPayload is stored alongside each point in the vector index so
// search results carry the full QA pair without a store lookup.
type VectorPayload struct {
	FAQID    int64  `json:"faq_id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// SearchHit is a single vector search result with its cosine similarity score.
type SearchHit struct {
	Payload VectorPayload `json:"payload"`
	Score   float64       `json:"score"`
}

// ReindexResult summarizes one full rebuild of the vector index from the
// authoritative FAQ store.
type ReindexResult struct {
	FAQsIndexed int `json:"faqs_indexed"`
	FAQsFailed  int `json:"faqs_failed"`
}

// IngestResult summarizes one ingestion run over the staging directory.
// StagingMissing is set when the staging directory does not exist; this is
// a successful no-op scan, not an error.
type IngestResult struct {
	DocumentsProcessed int  `json:"documents_processed"`
	QAPairsPersisted   int  `json:"qa_pairs_persisted"`
	StagingMissing     bool `json:"staging_missing,omitempty"`
}
