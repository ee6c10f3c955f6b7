package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

type TemplateRepository interface {
	Create(ctx context.Context, t *Template) (*Template, error)
	List(ctx context.Context) ([]*Template, error)
	GetByID(ctx context.Context, id int64) (*Template, error)
	Update(ctx context.Context, t *Template) error
	Delete(ctx context.Context, id int64) error
}

type templateRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewTemplateRepository(db *sql.DB, logger *slog.Logger) TemplateRepository {
	return &templateRepository{db: db, logger: logger}
}

func (r *templateRepository) Create(ctx context.Context, t *Template) (*Template, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO templates (name, description, file_location) VALUES (?, ?, ?)`,
		t.Name, t.Description, t.FileLocation)
	if err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}
	t.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}
	if err := replaceLinks(ctx, tx,
		`DELETE FROM template_categories WHERE template_id = ?`,
		`INSERT INTO template_categories (template_id, category_id) VALUES (?, ?)`,
		t.ID, t.CategoryIDs); err != nil {
		return nil, fmt.Errorf("link template categories: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}
	return t, nil
}

func (r *templateRepository) List(ctx context.Context) ([]*Template, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, file_location FROM templates ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()
	var templates []*Template
	for rows.Next() {
		t := &Template{}
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.FileLocation); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, t := range templates {
		if t.CategoryIDs, err = r.categories(ctx, t.ID); err != nil {
			return nil, err
		}
	}
	return templates, nil
}

func (r *templateRepository) GetByID(ctx context.Context, id int64) (*Template, error) {
	t := &Template{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, file_location FROM templates WHERE id = ?`, id).
		Scan(&t.ID, &t.Name, &t.Description, &t.FileLocation)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("template %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get template %d: %w", id, err)
	}
	if t.CategoryIDs, err = r.categories(ctx, id); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *templateRepository) Update(ctx context.Context, t *Template) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update template %d: %w", t.ID, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE templates SET name = ?, description = ?, file_location = ? WHERE id = ?`,
		t.Name, t.Description, t.FileLocation, t.ID)
	if err != nil {
		return fmt.Errorf("update template %d: %w", t.ID, err)
	}
	if err := requireRow(res, t.ID); err != nil {
		return err
	}
	if err := replaceLinks(ctx, tx,
		`DELETE FROM template_categories WHERE template_id = ?`,
		`INSERT INTO template_categories (template_id, category_id) VALUES (?, ?)`,
		t.ID, t.CategoryIDs); err != nil {
		return fmt.Errorf("link template categories: %w", err)
	}
	return tx.Commit()
}

func (r *templateRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete template %d: %w", id, err)
	}
	return nil
}

func (r *templateRepository) categories(ctx context.Context, templateID int64) ([]int64, error) {
	ids, err := linkIDs(ctx, r.db,
		`SELECT category_id FROM template_categories WHERE template_id = ? ORDER BY category_id`,
		templateID)
	if err != nil {
		return nil, fmt.Errorf("template %d categories: %w", templateID, err)
	}
	return ids, nil
}
