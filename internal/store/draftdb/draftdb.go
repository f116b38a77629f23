package draftdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"spacebook/internal/metrics"
	"spacebook/internal/model"
)

// DB wraps the sqlite database that owns the draft list and the
// session key-value state. Every mutation is a single statement, so
// the database serializes writers; there is no read-modify-write of a
// serialized blob anywhere.
type DB struct{ sql *sql.DB }

// Open opens (or creates) the database at path and runs migrations.
// ":memory:" is accepted for tests.
func Open(path string) (*DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := d.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;`); err != nil {
		return nil, err
	}
	db := &DB{sql: d}
	if err := db.migrate(); err != nil {
		_ = d.Close()
		return nil, err
	}
	return db, nil
}

func (d *DB) Close() error { return d.sql.Close() }

func (d *DB) migrate() error {
	_, err := d.sql.Exec(`
	CREATE TABLE IF NOT EXISTS drafts (
	  id INTEGER PRIMARY KEY AUTOINCREMENT,
	  user_id TEXT NOT NULL,
	  text TEXT NOT NULL,
	  created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_drafts_user ON drafts(user_id);
	CREATE TABLE IF NOT EXISTS kv (
	  key TEXT PRIMARY KEY,
	  value TEXT NOT NULL
	);
	`)
	return err
}

// SaveDraft appends a draft for the user and returns it with its
// assigned ID. Listing order is insertion order, so a new draft
// always appears at the end.
func (d *DB) SaveDraft(ctx context.Context, userID, text string) (model.Draft, error) {
	now := time.Now().UTC()
	res, err := d.sql.ExecContext(ctx,
		`INSERT INTO drafts(user_id, text, created_at) VALUES(?,?,?)`,
		userID, text, now.Unix())
	if err != nil {
		metrics.StoreErrors.Inc()
		return model.Draft{}, &model.StoreError{Op: "save draft", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		metrics.StoreErrors.Inc()
		return model.Draft{}, &model.StoreError{Op: "save draft", Err: err}
	}
	return model.Draft{ID: id, UserID: userID, Text: text, CreatedAt: now}, nil
}

// ListDrafts returns the user's drafts in insertion order. No drafts
// is an empty slice, never an error.
func (d *DB) ListDrafts(ctx context.Context, userID string) ([]model.Draft, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT id, user_id, text, created_at FROM drafts WHERE user_id=? ORDER BY id`, userID)
	if err != nil {
		metrics.StoreErrors.Inc()
		return nil, &model.StoreError{Op: "list drafts", Err: err}
	}
	defer rows.Close()
	out := []model.Draft{}
	for rows.Next() {
		var dr model.Draft
		var created int64
		if err := rows.Scan(&dr.ID, &dr.UserID, &dr.Text, &created); err != nil {
			metrics.StoreErrors.Inc()
			return nil, &model.StoreError{Op: "list drafts", Err: err}
		}
		dr.CreatedAt = time.Unix(created, 0).UTC()
		out = append(out, dr)
	}
	if err := rows.Err(); err != nil {
		metrics.StoreErrors.Inc()
		return nil, &model.StoreError{Op: "list drafts", Err: err}
	}
	return out, nil
}

// GetDraft returns the draft with the given ID.
func (d *DB) GetDraft(ctx context.Context, id int64) (model.Draft, error) {
	row := d.sql.QueryRowContext(ctx,
		`SELECT id, user_id, text, created_at FROM drafts WHERE id=?`, id)
	var dr model.Draft
	var created int64
	err := row.Scan(&dr.ID, &dr.UserID, &dr.Text, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Draft{}, model.ErrDraftNotFound
	}
	if err != nil {
		metrics.StoreErrors.Inc()
		return model.Draft{}, &model.StoreError{Op: "get draft", Err: err}
	}
	dr.CreatedAt = time.Unix(created, 0).UTC()
	return dr, nil
}

// DeleteDraft removes exactly the identified draft. Deleting an ID
// that does not exist returns ErrDraftNotFound; it can never remove a
// different row, so repeating a delete is safe.
func (d *DB) DeleteDraft(ctx context.Context, id int64) error {
	res, err := d.sql.ExecContext(ctx, `DELETE FROM drafts WHERE id=?`, id)
	if err != nil {
		metrics.StoreErrors.Inc()
		return &model.StoreError{Op: "delete draft", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		metrics.StoreErrors.Inc()
		return &model.StoreError{Op: "delete draft", Err: err}
	}
	if n == 0 {
		return model.ErrDraftNotFound
	}
	return nil
}

// UpdateDraft rewrites the stored text of the identified draft.
func (d *DB) UpdateDraft(ctx context.Context, id int64, text string) error {
	res, err := d.sql.ExecContext(ctx, `UPDATE drafts SET text=? WHERE id=?`, text, id)
	if err != nil {
		metrics.StoreErrors.Inc()
		return &model.StoreError{Op: "update draft", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		metrics.StoreErrors.Inc()
		return &model.StoreError{Op: "update draft", Err: err}
	}
	if n == 0 {
		return model.ErrDraftNotFound
	}
	return nil
}

// ErrNoValue is returned by GetValue for a missing key.
var ErrNoValue = errors.New("no value")

// SetValue stores a session key-value pair, replacing any prior value.
func (d *DB) SetValue(ctx context.Context, key, value string) error {
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO kv(key, value) VALUES(?,?) ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		key, value)
	if err != nil {
		metrics.StoreErrors.Inc()
		return &model.StoreError{Op: "set " + key, Err: err}
	}
	return nil
}

// GetValue returns the stored value for key, or ErrNoValue.
func (d *DB) GetValue(ctx context.Context, key string) (string, error) {
	row := d.sql.QueryRowContext(ctx, `SELECT value FROM kv WHERE key=?`, key)
	var v string
	err := row.Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoValue
	}
	if err != nil {
		metrics.StoreErrors.Inc()
		return "", &model.StoreError{Op: "get " + key, Err: err}
	}
	return v, nil
}

// DeleteValue removes a session key. Missing keys are a no-op.
func (d *DB) DeleteValue(ctx context.Context, key string) error {
	_, err := d.sql.ExecContext(ctx, `DELETE FROM kv WHERE key=?`, key)
	if err != nil {
		metrics.StoreErrors.Inc()
		return &model.StoreError{Op: "delete " + key, Err: err}
	}
	return nil
}
