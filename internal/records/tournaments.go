package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

type TournamentRepository interface {
	Create(ctx context.Context, t *Tournament) (*Tournament, error)
	List(ctx context.Context) ([]*Tournament, error)
	GetByID(ctx context.Context, id int64) (*Tournament, error)
	Update(ctx context.Context, t *Tournament) error
	Delete(ctx context.Context, id int64) error
}

type tournamentRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewTournamentRepository(db *sql.DB, logger *slog.Logger) TournamentRepository {
	return &tournamentRepository{db: db, logger: logger}
}

func (r *tournamentRepository) Create(ctx context.Context, t *Tournament) (*Tournament, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create tournament: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO tournaments (location, date) VALUES (?, ?)`, t.Location, t.Date)
	if err != nil {
		return nil, fmt.Errorf("create tournament: %w", err)
	}
	t.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create tournament: %w", err)
	}
	if err := replaceLinks(ctx, tx,
		`DELETE FROM tournament_categories WHERE tournament_id = ?`,
		`INSERT INTO tournament_categories (tournament_id, category_id) VALUES (?, ?)`,
		t.ID, t.CategoryIDs); err != nil {
		return nil, fmt.Errorf("link tournament categories: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create tournament: %w", err)
	}
	return t, nil
}

func (r *tournamentRepository) List(ctx context.Context) ([]*Tournament, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, location, date FROM tournaments ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}
	defer rows.Close()
	var tournaments []*Tournament
	for rows.Next() {
		t := &Tournament{}
		if err := rows.Scan(&t.ID, &t.Location, &t.Date); err != nil {
			return nil, fmt.Errorf("scan tournament: %w", err)
		}
		tournaments = append(tournaments, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, t := range tournaments {
		if t.CategoryIDs, err = r.categories(ctx, t.ID); err != nil {
			return nil, err
		}
	}
	return tournaments, nil
}

func (r *tournamentRepository) GetByID(ctx context.Context, id int64) (*Tournament, error) {
	t := &Tournament{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, location, date FROM tournaments WHERE id = ?`, id).
		Scan(&t.ID, &t.Location, &t.Date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tournament %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get tournament %d: %w", id, err)
	}
	if t.CategoryIDs, err = r.categories(ctx, id); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *tournamentRepository) Update(ctx context.Context, t *Tournament) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update tournament %d: %w", t.ID, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE tournaments SET location = ?, date = ? WHERE id = ?`, t.Location, t.Date, t.ID)
	if err != nil {
		return fmt.Errorf("update tournament %d: %w", t.ID, err)
	}
	if err := requireRow(res, t.ID); err != nil {
		return err
	}
	if err := replaceLinks(ctx, tx,
		`DELETE FROM tournament_categories WHERE tournament_id = ?`,
		`INSERT INTO tournament_categories (tournament_id, category_id) VALUES (?, ?)`,
		t.ID, t.CategoryIDs); err != nil {
		return fmt.Errorf("link tournament categories: %w", err)
	}
	return tx.Commit()
}

func (r *tournamentRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete tournament %d: %w", id, err)
	}
	return nil
}

func (r *tournamentRepository) categories(ctx context.Context, tournamentID int64) ([]int64, error) {
	ids, err := linkIDs(ctx, r.db,
		`SELECT category_id FROM tournament_categories WHERE tournament_id = ? ORDER BY category_id`,
		tournamentID)
	if err != nil {
		return nil, fmt.Errorf("tournament %d categories: %w", tournamentID, err)
	}
	return ids, nil
}
