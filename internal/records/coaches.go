package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

type CoachRepository interface {
	Create(ctx context.Context, c *Coach) (*Coach, error)
	List(ctx context.Context) ([]*Coach, error)
	GetByID(ctx context.Context, id int64) (*Coach, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*Coach, error)
	Update(ctx context.Context, c *Coach) error
	Delete(ctx context.Context, id int64) error
}

type coachRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewCoachRepository(db *sql.DB, logger *slog.Logger) CoachRepository {
	return &coachRepository{db: db, logger: logger}
}

func (r *coachRepository) Create(ctx context.Context, c *Coach) (*Coach, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create coach: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO coaches (last_name, first_name, license_number, diploma)
		VALUES (?, ?, ?, ?)`,
		c.LastName, c.FirstName, c.LicenseNumber, c.Diploma)
	if err != nil {
		return nil, fmt.Errorf("create coach: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create coach: %w", err)
	}
	if err := replaceLinks(ctx, tx,
		`DELETE FROM coach_categories WHERE coach_id = ?`,
		`INSERT INTO coach_categories (coach_id, category_id) VALUES (?, ?)`,
		c.ID, c.CategoryIDs); err != nil {
		return nil, fmt.Errorf("link coach categories: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create coach: %w", err)
	}
	return c, nil
}

func (r *coachRepository) List(ctx context.Context) ([]*Coach, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, last_name, first_name, license_number, diploma
		FROM coaches ORDER BY last_name, first_name`)
	if err != nil {
		return nil, fmt.Errorf("list coaches: %w", err)
	}
	defer rows.Close()
	var coaches []*Coach
	for rows.Next() {
		c := &Coach{}
		if err := rows.Scan(&c.ID, &c.LastName, &c.FirstName, &c.LicenseNumber, &c.Diploma); err != nil {
			return nil, fmt.Errorf("scan coach: %w", err)
		}
		coaches = append(coaches, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, c := range coaches {
		if c.CategoryIDs, err = r.categories(ctx, c.ID); err != nil {
			return nil, err
		}
	}
	return coaches, nil
}

func (r *coachRepository) GetByID(ctx context.Context, id int64) (*Coach, error) {
	c := &Coach{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, last_name, first_name, license_number, diploma
		FROM coaches WHERE id = ?`, id).
		Scan(&c.ID, &c.LastName, &c.FirstName, &c.LicenseNumber, &c.Diploma)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("coach %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get coach %d: %w", id, err)
	}
	if c.CategoryIDs, err = r.categories(ctx, id); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *coachRepository) GetByIDs(ctx context.Context, ids []int64) ([]*Coach, error) {
	coaches := make([]*Coach, 0, len(ids))
	for _, id := range ids {
		c, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		coaches = append(coaches, c)
	}
	return coaches, nil
}

func (r *coachRepository) Update(ctx context.Context, c *Coach) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update coach %d: %w", c.ID, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE coaches SET last_name = ?, first_name = ?, license_number = ?, diploma = ?
		WHERE id = ?`,
		c.LastName, c.FirstName, c.LicenseNumber, c.Diploma, c.ID)
	if err != nil {
		return fmt.Errorf("update coach %d: %w", c.ID, err)
	}
	if err := requireRow(res, c.ID); err != nil {
		return err
	}
	if err := replaceLinks(ctx, tx,
		`DELETE FROM coach_categories WHERE coach_id = ?`,
		`INSERT INTO coach_categories (coach_id, category_id) VALUES (?, ?)`,
		c.ID, c.CategoryIDs); err != nil {
		return fmt.Errorf("link coach categories: %w", err)
	}
	return tx.Commit()
}

func (r *coachRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM coaches WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete coach %d: %w", id, err)
	}
	return nil
}

func (r *coachRepository) categories(ctx context.Context, coachID int64) ([]int64, error) {
	ids, err := linkIDs(ctx, r.db,
		`SELECT category_id FROM coach_categories WHERE coach_id = ? ORDER BY category_id`, coachID)
	if err != nil {
		return nil, fmt.Errorf("coach %d categories: %w", coachID, err)
	}
	return ids, nil
}
