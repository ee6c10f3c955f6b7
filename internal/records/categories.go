package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

type AgeCategoryRepository interface {
	Create(ctx context.Context, c *AgeCategory) (*AgeCategory, error)
	List(ctx context.Context) ([]*AgeCategory, error)
	GetByID(ctx context.Context, id int64) (*AgeCategory, error)
	Delete(ctx context.Context, id int64) error
}

type ageCategoryRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewAgeCategoryRepository(db *sql.DB, logger *slog.Logger) AgeCategoryRepository {
	return &ageCategoryRepository{db: db, logger: logger}
}

func (r *ageCategoryRepository) Create(ctx context.Context, c *AgeCategory) (*AgeCategory, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO age_categories (name) VALUES (?)`, c.Name)
	if err != nil {
		return nil, fmt.Errorf("create age category: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create age category: %w", err)
	}
	return c, nil
}

func (r *ageCategoryRepository) List(ctx context.Context) ([]*AgeCategory, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM age_categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list age categories: %w", err)
	}
	defer rows.Close()
	var categories []*AgeCategory
	for rows.Next() {
		c := &AgeCategory{}
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan age category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *ageCategoryRepository) GetByID(ctx context.Context, id int64) (*AgeCategory, error) {
	c := &AgeCategory{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name FROM age_categories WHERE id = ?`, id).Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("age category %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get age category %d: %w", id, err)
	}
	return c, nil
}

func (r *ageCategoryRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM age_categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete age category %d: %w", id, err)
	}
	return nil
}
