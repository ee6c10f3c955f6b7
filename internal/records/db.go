package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a record id resolves to nothing.
var ErrNotFound = errors.New("record not found")

// Open connects to the SQLite database at path and applies pragmas suited to
// a single-process web application.
func Open(path string, logger *slog.Logger) (*sql.DB, error) {
	logger.Info("opening database", "path", path)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// modernc sqlite serializes access itself; a single connection avoids
	// SQLITE_BUSY under concurrent writes.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{`PRAGMA journal_mode = WAL`, `PRAGMA foreign_keys = ON`} {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("apply pragma: %w", err)
		}
	}
	return db, nil
}

// InitSchema creates all record tables and join tables if missing.
func InitSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS players (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			last_name TEXT NOT NULL,
			first_name TEXT NOT NULL,
			license_number TEXT NOT NULL DEFAULT '',
			can_play_forward INTEGER NOT NULL DEFAULT 0,
			can_referee INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS coaches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			last_name TEXT NOT NULL,
			first_name TEXT NOT NULL,
			license_number TEXT NOT NULL DEFAULT '',
			diploma TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS age_categories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS tournaments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			location TEXT NOT NULL,
			date TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS templates (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			file_location TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS match_sheets (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tournament_id INTEGER NOT NULL REFERENCES tournaments(id),
			template_id INTEGER NOT NULL REFERENCES templates(id),
			referent_coach_id INTEGER NOT NULL REFERENCES coaches(id),
			filename TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS coach_categories (
			coach_id INTEGER NOT NULL REFERENCES coaches(id) ON DELETE CASCADE,
			category_id INTEGER NOT NULL REFERENCES age_categories(id) ON DELETE CASCADE,
			PRIMARY KEY (coach_id, category_id)
		)`,
		`CREATE TABLE IF NOT EXISTS tournament_categories (
			tournament_id INTEGER NOT NULL REFERENCES tournaments(id) ON DELETE CASCADE,
			category_id INTEGER NOT NULL REFERENCES age_categories(id) ON DELETE CASCADE,
			PRIMARY KEY (tournament_id, category_id)
		)`,
		`CREATE TABLE IF NOT EXISTS template_categories (
			template_id INTEGER NOT NULL REFERENCES templates(id) ON DELETE CASCADE,
			category_id INTEGER NOT NULL REFERENCES age_categories(id) ON DELETE CASCADE,
			PRIMARY KEY (template_id, category_id)
		)`,
		`CREATE TABLE IF NOT EXISTS match_sheet_players (
			sheet_id INTEGER NOT NULL REFERENCES match_sheets(id) ON DELETE CASCADE,
			player_id INTEGER NOT NULL REFERENCES players(id),
			position INTEGER NOT NULL,
			PRIMARY KEY (sheet_id, player_id)
		)`,
		`CREATE TABLE IF NOT EXISTS match_sheet_coaches (
			sheet_id INTEGER NOT NULL REFERENCES match_sheets(id) ON DELETE CASCADE,
			coach_id INTEGER NOT NULL REFERENCES coaches(id),
			position INTEGER NOT NULL,
			PRIMARY KEY (sheet_id, coach_id)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// linkIDs loads the ids on the far side of a join table, ordered for
// deterministic output.
func linkIDs(ctx context.Context, db *sql.DB, query string, ownerID int64) ([]int64, error) {
	rows, err := db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// replaceLinks rewrites a join table for one owner inside a transaction.
func replaceLinks(ctx context.Context, tx *sql.Tx, deleteStmt, insertStmt string, ownerID int64, ids []int64) error {
	if _, err := tx.ExecContext(ctx, deleteStmt, ownerID); err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, insertStmt, ownerID, id); err != nil {
			return err
		}
	}
	return nil
}
