// ABOUTME: Verdict cache operations on SQLite
// ABOUTME: Stores one row per cache key with suggestions as a JSON array
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/harper/fluency-checker/internal/models"
)

// Get returns the cached verdict for key, if any
func (db *DB) Get(ctx context.Context, key string) (models.Verdict, bool, error) {
	var (
		v           models.Verdict
		suggestions string
	)
	err := db.conn.QueryRowContext(ctx,
		`SELECT grammatical, natural, suggestions FROM verdicts WHERE key = ?`, key,
	).Scan(&v.Grammatical, &v.Natural, &suggestions)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Verdict{}, false, nil
	}
	if err != nil {
		return models.Verdict{}, false, fmt.Errorf("failed to read verdict: %w", err)
	}

	if err := json.Unmarshal([]byte(suggestions), &v.Suggestions); err != nil {
		return models.Verdict{}, false, fmt.Errorf("failed to decode suggestions: %w", err)
	}
	if v.Suggestions == nil {
		v.Suggestions = []string{}
	}
	return v, true, nil
}

// Put stores v under key, replacing any previous entry
func (db *DB) Put(ctx context.Context, key string, v models.Verdict) error {
	suggestions := v.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	data, err := json.Marshal(suggestions)
	if err != nil {
		return fmt.Errorf("failed to encode suggestions: %w", err)
	}

	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO verdicts (key, grammatical, natural, suggestions)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			grammatical = excluded.grammatical,
			natural = excluded.natural,
			suggestions = excluded.suggestions,
			created_at = CURRENT_TIMESTAMP`,
		key, v.Grammatical, v.Natural, string(data))
	if err != nil {
		return fmt.Errorf("failed to store verdict: %w", err)
	}
	return nil
}

// Count returns the number of cached verdicts
func (db *DB) Count(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM verdicts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count verdicts: %w", err)
	}
	return n, nil
}

// Clear removes every cached verdict
func (db *DB) Clear(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM verdicts`); err != nil {
		return fmt.Errorf("failed to clear verdicts: %w", err)
	}
	return nil
}
