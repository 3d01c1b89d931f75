package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"music-chat-pipeline/internal/model"
)

// SaveTurn appends a turn to the session, creating the session row if needed.
// The assigned ordinal is returned.
func (d *DB) SaveTurn(ctx context.Context, sessionID, userID, role, text string) (int, error) {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin save turn: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, created_at, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET updated_at = excluded.updated_at`,
		sessionID, userID, now, now)
	if err != nil {
		return 0, fmt.Errorf("upsert session: %w", err)
	}

	var ordinal int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(ordinal), 0) + 1 FROM conversation_turns WHERE session_id = ?`,
		sessionID).Scan(&ordinal)
	if err != nil {
		return 0, fmt.Errorf("next ordinal: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO conversation_turns (session_id, ordinal, role, text, created_at) VALUES (?, ?, ?, ?, ?)`,
		sessionID, ordinal, role, text, now)
	if err != nil {
		return 0, fmt.Errorf("insert turn: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit save turn: %w", err)
	}
	d.log.Debug("turn saved", zap.String("session", sessionID), zap.Int("ordinal", ordinal))
	return ordinal, nil
}

// GetRecentTurns returns the most recent limit turns of the session in
// chronological order. A limit of zero or less returns the whole session.
func (d *DB) GetRecentTurns(ctx context.Context, sessionID string, limit int) ([]model.ConversationTurn, error) {
	query := `SELECT ordinal, role, text, created_at FROM conversation_turns WHERE session_id = ? ORDER BY ordinal DESC`
	args := []any{sessionID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	var turns []model.ConversationTurn
	for rows.Next() {
		var t model.ConversationTurn
		if err := rows.Scan(&t.Ordinal, &t.Role, &t.Text, &t.Timestamp); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w", err)
	}

	// Rows came newest first, flip back to chronological order.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// GetTurns returns every turn of a session in chronological order.
func (d *DB) GetTurns(ctx context.Context, sessionID string) ([]model.ConversationTurn, error) {
	return d.GetRecentTurns(ctx, sessionID, 0)
}

// ListSessions returns all known sessions, most recently active first.
func (d *DB) ListSessions(ctx context.Context) ([]model.ConversationSession, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT s.id, s.user_id, s.created_at, s.updated_at, COUNT(t.ordinal)
		FROM sessions s
		LEFT JOIN conversation_turns t ON t.session_id = s.id
		GROUP BY s.id
		ORDER BY s.updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.ConversationSession
	for rows.Next() {
		var s model.ConversationSession
		var userID sql.NullString
		if err := rows.Scan(&s.SessionID, &userID, &s.CreatedAt, &s.UpdatedAt, &s.TurnCount); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		s.UserID = userID.String
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// DeleteSession removes a session and all of its turns.
func (d *DB) DeleteSession(ctx context.Context, sessionID string) error {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete session: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM conversation_turns WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("delete turns: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}

// SearchTurns finds turns whose text contains the query, newest first.
func (d *DB) SearchTurns(ctx context.Context, query string, limit int) ([]model.SearchHit, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.conn.QueryContext(ctx, `
		SELECT session_id, ordinal, role, text, created_at
		FROM conversation_turns
		WHERE text LIKE '%' || ? || '%'
		ORDER BY created_at DESC
		LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search turns: %w", err)
	}
	defer rows.Close()

	var hits []model.SearchHit
	for rows.Next() {
		var h model.SearchHit
		if err := rows.Scan(&h.SessionID, &h.Ordinal, &h.Role, &h.Text, &h.Timestamp); err != nil {
			return nil, fmt.Errorf("scan search hit: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}
