package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/iuh-ecommerce/poli/internal/interfaces"
	"github.com/iuh-ecommerce/poli/internal/models"
)

// FAQStorage implements interfaces.FAQStorage over the faqs table
type FAQStorage struct {
	db     *DB
	logger arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.FAQStorage = (*FAQStorage)(nil)

// NewFAQStorage creates a FAQ storage backed by the given database
func NewFAQStorage(db *DB, logger arbor.ILogger) *FAQStorage {
	return &FAQStorage{
		db:     db,
		logger: logger,
	}
}

// Insert persists a QA pair in its own transaction. The ID is assigned by
// SQLite in commit order; on failure no record exists (sequence gaps are
// permitted).
func (s *FAQStorage) Insert(ctx context.Context, question, answer string) (*models.FAQ, error) {
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if question == "" || answer == "" {
		return nil, fmt.Errorf("question and answer must be non-empty")
	}

	now := time.Now().UTC()

	tx, err := s.db.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO faqs (question, answer, created_at) VALUES (?, ?, ?)`,
		question, answer, now.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to insert FAQ: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read inserted FAQ id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit FAQ insert: %w", err)
	}

	s.logger.Debug().
		Int64("faq_id", id).
		Int("question_length", len(question)).
		Msg("FAQ inserted")

	return &models.FAQ{
		ID:        id,
		Question:  question,
		Answer:    answer,
		CreatedAt: now,
	}, nil
}

// Get returns the FAQ with the given ID, or (nil, nil) when absent
func (s *FAQStorage) Get(ctx context.Context, id int64) (*models.FAQ, error) {
	row := s.db.db.QueryRowContext(ctx,
		`SELECT id, question, answer, created_at FROM faqs WHERE id = ?`, id)

	faq, err := scanFAQ(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get FAQ %d: %w", id, err)
	}
	return faq, nil
}

// ListAll returns every FAQ ordered by ID ascending
func (s *FAQStorage) ListAll(ctx context.Context) ([]*models.FAQ, error) {
	rows, err := s.db.db.QueryContext(ctx,
		`SELECT id, question, answer, created_at FROM faqs ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list FAQs: %w", err)
	}
	defer rows.Close()

	var faqs []*models.FAQ
	for rows.Next() {
		faq, err := scanFAQ(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan FAQ row: %w", err)
		}
		faqs = append(faqs, faq)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate FAQ rows: %w", err)
	}

	return faqs, nil
}

// Count returns the number of stored FAQs
func (s *FAQStorage) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM faqs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count FAQs: %w", err)
	}
	return count, nil
}

// Close closes the underlying database
func (s *FAQStorage) Close() error {
	return s.db.Close()
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanFAQ(row scanner) (*models.FAQ, error) {
	var faq models.FAQ
	var createdAt int64
	if err := row.Scan(&faq.ID, &faq.Question, &faq.Answer, &createdAt); err != nil {
		return nil, err
	}
	faq.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &faq, nil
}
