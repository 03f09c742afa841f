package sqlite

const schemaSQL = `
-- FAQ table: the authoritative record for all question/answer pairs.
-- IDs are assigned by SQLite in commit order; the vector index mirrors
-- this table and is rebuilt from it after index loss.
CREATE TABLE IF NOT EXISTS faqs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	question TEXT NOT NULL,
	answer TEXT NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_faqs_question ON faqs(question);
CREATE INDEX IF NOT EXISTS idx_faqs_created ON faqs(created_at);
`

// initSchema initializes the database schema
func (s *DB) initSchema() error {
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return err
	}
	s.logger.Info().Msg("Database schema initialized")
	return nil
}
