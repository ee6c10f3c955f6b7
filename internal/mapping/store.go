package mapping

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Store persists committed mapping lists per template key. The key is the
// template's filename, not a content hash: two templates uploaded under the
// same filename share mapping state, which keeps re-analysis caching simple.
type Store interface {
	// Has reports whether a mapping list exists for the template key.
	Has(ctx context.Context, templateKey string) (bool, error)
	// Get returns the committed list, or ok=false when none exists.
	Get(ctx context.Context, templateKey string) ([]FieldMapping, bool, error)
	// Put overwrites the whole list for the template key. Last writer wins;
	// there is never a partial merge.
	Put(ctx context.Context, templateKey string, entries []FieldMapping) error
}

// SQLStore is a Store backed by a SQL database, one row per template key
// holding the JSON-encoded entry list.
type SQLStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLStore creates a mapping store over db.
func NewSQLStore(db *sql.DB, logger *slog.Logger) *SQLStore {
	return &SQLStore{db: db, logger: logger}
}

// InitSchema creates the mapping table if it does not exist.
func (s *SQLStore) InitSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS field_mappings (
			template_key TEXT PRIMARY KEY,
			entries      TEXT NOT NULL,
			updated_at   TIMESTAMP NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create field_mappings table: %w", err)
	}
	return nil
}

func (s *SQLStore) Has(ctx context.Context, templateKey string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM field_mappings WHERE template_key = ?`, templateKey).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query field_mappings: %w", err)
	}
	return true, nil
}

func (s *SQLStore) Get(ctx context.Context, templateKey string) ([]FieldMapping, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT entries FROM field_mappings WHERE template_key = ?`, templateKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query field_mappings: %w", err)
	}
	var entries []FieldMapping
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, false, fmt.Errorf("decode stored mapping for %q: %w", templateKey, err)
	}
	return entries, true, nil
}

func (s *SQLStore) Put(ctx context.Context, templateKey string, entries []FieldMapping) error {
	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			return fmt.Errorf("refusing to commit mapping for %q: %w", templateKey, err)
		}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode mapping for %q: %w", templateKey, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO field_mappings (template_key, entries, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(template_key) DO UPDATE SET
			entries = excluded.entries,
			updated_at = excluded.updated_at`,
		templateKey, string(raw), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("store mapping for %q: %w", templateKey, err)
	}
	s.logger.Info("mapping committed", "template_key", templateKey, "entries", len(entries))
	return nil
}
