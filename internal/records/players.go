package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

type PlayerRepository interface {
	Create(ctx context.Context, p *Player) (*Player, error)
	List(ctx context.Context) ([]*Player, error)
	GetByID(ctx context.Context, id int64) (*Player, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*Player, error)
	Update(ctx context.Context, p *Player) error
	Delete(ctx context.Context, id int64) error
}

type playerRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewPlayerRepository(db *sql.DB, logger *slog.Logger) PlayerRepository {
	return &playerRepository{db: db, logger: logger}
}

func (r *playerRepository) Create(ctx context.Context, p *Player) (*Player, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO players (last_name, first_name, license_number, can_play_forward, can_referee)
		VALUES (?, ?, ?, ?, ?)`,
		p.LastName, p.FirstName, p.LicenseNumber, p.CanPlayForward, p.CanReferee)
	if err != nil {
		return nil, fmt.Errorf("create player: %w", err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create player: %w", err)
	}
	return p, nil
}

func (r *playerRepository) List(ctx context.Context) ([]*Player, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, last_name, first_name, license_number, can_play_forward, can_referee
		FROM players ORDER BY last_name, first_name`)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()
	var players []*Player
	for rows.Next() {
		p := &Player{}
		if err := rows.Scan(&p.ID, &p.LastName, &p.FirstName, &p.LicenseNumber,
			&p.CanPlayForward, &p.CanReferee); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (r *playerRepository) GetByID(ctx context.Context, id int64) (*Player, error) {
	p := &Player{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, last_name, first_name, license_number, can_play_forward, can_referee
		FROM players WHERE id = ?`, id).
		Scan(&p.ID, &p.LastName, &p.FirstName, &p.LicenseNumber, &p.CanPlayForward, &p.CanReferee)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get player %d: %w", id, err)
	}
	return p, nil
}

// GetByIDs loads players preserving the order of ids, which is the roster
// order of a fill request.
func (r *playerRepository) GetByIDs(ctx context.Context, ids []int64) ([]*Player, error) {
	players := make([]*Player, 0, len(ids))
	for _, id := range ids {
		p, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, nil
}

func (r *playerRepository) Update(ctx context.Context, p *Player) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE players SET last_name = ?, first_name = ?, license_number = ?,
			can_play_forward = ?, can_referee = ?
		WHERE id = ?`,
		p.LastName, p.FirstName, p.LicenseNumber, p.CanPlayForward, p.CanReferee, p.ID)
	if err != nil {
		return fmt.Errorf("update player %d: %w", p.ID, err)
	}
	return requireRow(res, p.ID)
}

func (r *playerRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM players WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete player %d: %w", id, err)
	}
	return nil
}

func requireRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("record %d: %w", id, ErrNotFound)
	}
	return nil
}
