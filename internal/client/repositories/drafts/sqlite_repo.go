package drafts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/akhmads/adscli/internal/client/models"
	"github.com/akhmads/adscli/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Save(ctx context.Context, d *models.Draft) error {
	form, err := json.Marshal(d.Form)
	if err != nil {
		return fmt.Errorf("failed to encode draft form: %w", err)
	}
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = time.Now()
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO drafts (id, name, form, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, form = excluded.form, updated_at = excluded.updated_at
	`, d.ID, d.Name, form, d.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Draft, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, form, updated_at FROM drafts ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select drafts: %w", err)
	}
	defer rows.Close()

	result := []models.Draft{}
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate drafts: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.Draft, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, form, updated_at FROM drafts WHERE id = ?`, id)
	d, err := scanDraft(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDraft(s scanner) (*models.Draft, error) {
	var (
		d         models.Draft
		form      []byte
		updatedAt int64
	)
	if err := s.Scan(&d.ID, &d.Name, &form, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan draft: %w", err)
	}
	if err := json.Unmarshal(form, &d.Form); err != nil {
		return nil, fmt.Errorf("failed to decode draft %s: %w", d.ID, err)
	}
	d.UpdatedAt = time.UnixMilli(updatedAt)
	return &d, nil
}
