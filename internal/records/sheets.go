package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

type MatchSheetRepository interface {
	Create(ctx context.Context, s *MatchSheet) (*MatchSheet, error)
	List(ctx context.Context) ([]*MatchSheet, error)
	GetByID(ctx context.Context, id int64) (*MatchSheet, error)
	Delete(ctx context.Context, id int64) error
}

type matchSheetRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewMatchSheetRepository(db *sql.DB, logger *slog.Logger) MatchSheetRepository {
	return &matchSheetRepository{db: db, logger: logger}
}

func (r *matchSheetRepository) Create(ctx context.Context, s *MatchSheet) (*MatchSheet, error) {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create match sheet: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO match_sheets (tournament_id, template_id, referent_coach_id, filename, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		s.TournamentID, s.TemplateID, s.ReferentCoachID, s.Filename, s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create match sheet: %w", err)
	}
	s.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create match sheet: %w", err)
	}
	// Position preserves roster order.
	for i, playerID := range s.PlayerIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO match_sheet_players (sheet_id, player_id, position) VALUES (?, ?, ?)`,
			s.ID, playerID, i); err != nil {
			return nil, fmt.Errorf("link sheet player: %w", err)
		}
	}
	for i, coachID := range s.CoachIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO match_sheet_coaches (sheet_id, coach_id, position) VALUES (?, ?, ?)`,
			s.ID, coachID, i); err != nil {
			return nil, fmt.Errorf("link sheet coach: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create match sheet: %w", err)
	}
	return s, nil
}

func (r *matchSheetRepository) List(ctx context.Context) ([]*MatchSheet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, tournament_id, template_id, referent_coach_id, filename, created_at
		FROM match_sheets ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list match sheets: %w", err)
	}
	defer rows.Close()
	var sheets []*MatchSheet
	for rows.Next() {
		s := &MatchSheet{}
		if err := rows.Scan(&s.ID, &s.TournamentID, &s.TemplateID, &s.ReferentCoachID,
			&s.Filename, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan match sheet: %w", err)
		}
		sheets = append(sheets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, s := range sheets {
		if err := r.loadLinks(ctx, s); err != nil {
			return nil, err
		}
	}
	return sheets, nil
}

func (r *matchSheetRepository) GetByID(ctx context.Context, id int64) (*MatchSheet, error) {
	s := &MatchSheet{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, tournament_id, template_id, referent_coach_id, filename, created_at
		FROM match_sheets WHERE id = ?`, id).
		Scan(&s.ID, &s.TournamentID, &s.TemplateID, &s.ReferentCoachID, &s.Filename, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("match sheet %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get match sheet %d: %w", id, err)
	}
	if err := r.loadLinks(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *matchSheetRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM match_sheets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete match sheet %d: %w", id, err)
	}
	return nil
}

func (r *matchSheetRepository) loadLinks(ctx context.Context, s *MatchSheet) error {
	var err error
	s.PlayerIDs, err = linkIDs(ctx, r.db,
		`SELECT player_id FROM match_sheet_players WHERE sheet_id = ? ORDER BY position`, s.ID)
	if err != nil {
		return fmt.Errorf("sheet %d players: %w", s.ID, err)
	}
	s.CoachIDs, err = linkIDs(ctx, r.db,
		`SELECT coach_id FROM match_sheet_coaches WHERE sheet_id = ? ORDER BY position`, s.ID)
	if err != nil {
		return fmt.Errorf("sheet %d coaches: %w", s.ID, err)
	}
	return nil
}
