package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"music-chat-pipeline/internal/model"
)

// CreateTerm registers a new excluded term for the owner.
func (d *DB) CreateTerm(ctx context.Context, req model.CreateExcludedTermRequest) (model.ExcludedTerm, error) {
	term := model.ExcludedTerm{
		OwnerID:   req.OwnerID,
		Term:      strings.TrimSpace(req.Term),
		Category:  strings.TrimSpace(req.Category),
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	if term.Term == "" {
		return model.ExcludedTerm{}, fmt.Errorf("term must not be empty")
	}
	if term.Category == "" {
		term.Category = "general"
	}

	res, err := d.conn.ExecContext(ctx,
		`INSERT INTO excluded_terms (owner_id, term, category, is_active, created_at) VALUES (?, ?, ?, 1, ?)`,
		term.OwnerID, term.Term, term.Category, term.CreatedAt)
	if err != nil {
		return model.ExcludedTerm{}, fmt.Errorf("insert term: %w", err)
	}
	term.ID, err = res.LastInsertId()
	if err != nil {
		return model.ExcludedTerm{}, fmt.Errorf("term id: %w", err)
	}
	return term, nil
}

// GetTerm fetches a single excluded term by id.
func (d *DB) GetTerm(ctx context.Context, id int64) (model.ExcludedTerm, error) {
	row := d.conn.QueryRowContext(ctx,
		`SELECT id, owner_id, term, category, is_active, created_at, updated_at FROM excluded_terms WHERE id = ?`, id)
	return scanTerm(row)
}

// ListTerms returns every term of an owner, active or not.
func (d *DB) ListTerms(ctx context.Context, ownerID string) ([]model.ExcludedTerm, error) {
	return d.queryTerms(ctx,
		`SELECT id, owner_id, term, category, is_active, created_at, updated_at
		 FROM excluded_terms WHERE owner_id = ? ORDER BY category, term`, ownerID)
}

// GetActiveTerms returns only the active terms of an owner, the set the
// redaction stage works with.
func (d *DB) GetActiveTerms(ctx context.Context, ownerID string) ([]model.ExcludedTerm, error) {
	return d.queryTerms(ctx,
		`SELECT id, owner_id, term, category, is_active, created_at, updated_at
		 FROM excluded_terms WHERE owner_id = ? AND is_active = 1 ORDER BY category, term`, ownerID)
}

// UpdateTerm patches term text, category and/or active flag.
func (d *DB) UpdateTerm(ctx context.Context, id int64, req model.UpdateExcludedTermRequest) (model.ExcludedTerm, error) {
	current, err := d.GetTerm(ctx, id)
	if err != nil {
		return model.ExcludedTerm{}, err
	}
	if v := strings.TrimSpace(req.Term); v != "" {
		current.Term = v
	}
	if v := strings.TrimSpace(req.Category); v != "" {
		current.Category = v
	}
	if req.IsActive != nil {
		current.IsActive = *req.IsActive
	}
	now := time.Now().UTC()
	current.UpdatedAt = &now

	_, err = d.conn.ExecContext(ctx,
		`UPDATE excluded_terms SET term = ?, category = ?, is_active = ?, updated_at = ? WHERE id = ?`,
		current.Term, current.Category, current.IsActive, now, id)
	if err != nil {
		return model.ExcludedTerm{}, fmt.Errorf("update term: %w", err)
	}
	return current, nil
}

// DeleteTerm removes a term permanently.
func (d *DB) DeleteTerm(ctx context.Context, id int64) error {
	res, err := d.conn.ExecContext(ctx, `DELETE FROM excluded_terms WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete term: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (d *DB) queryTerms(ctx context.Context, query string, args ...any) ([]model.ExcludedTerm, error) {
	rows, err := d.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query terms: %w", err)
	}
	defer rows.Close()

	var terms []model.ExcludedTerm
	for rows.Next() {
		t, err := scanTerm(rows)
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	return terms, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTerm(row rowScanner) (model.ExcludedTerm, error) {
	var t model.ExcludedTerm
	var updated sql.NullTime
	if err := row.Scan(&t.ID, &t.OwnerID, &t.Term, &t.Category, &t.IsActive, &t.CreatedAt, &updated); err != nil {
		return model.ExcludedTerm{}, fmt.Errorf("scan term: %w", err)
	}
	if updated.Valid {
		t.UpdatedAt = &updated.Time
	}
	return t, nil
}
