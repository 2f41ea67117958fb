package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when a document id does not exist in its
// container. It is the only store error callers are expected to branch on.
var ErrNotFound = errors.New("document not found")

// documents provides id-keyed JSON document access to one container.
type documents struct {
	db        *sql.DB
	container string
}

// Create inserts a new document. Fails if the id already exists.
func (d *documents) Create(ctx context.Context, id string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	return d.exec(ctx,
		fmt.Sprintf("INSERT INTO %s (id, doc) VALUES (?, ?)", d.container),
		id, string(body))
}

// Upsert inserts or replaces the document at id.
func (d *documents) Upsert(ctx context.Context, id string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	return d.exec(ctx,
		fmt.Sprintf("INSERT INTO %s (id, doc) VALUES (?, ?) "+
			"ON CONFLICT(id) DO UPDATE SET doc = excluded.doc", d.container),
		id, string(body))
}

// FindOne loads the document at id into out. Returns ErrNotFound when the
// id is absent.
func (d *documents) FindOne(ctx context.Context, id string, out any) error {
	var body string
	err := d.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT doc FROM %s WHERE id = ?", d.container), id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s/%s: %w", d.container, id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("query %s/%s: %w", d.container, id, err)
	}
	if err := json.Unmarshal([]byte(body), out); err != nil {
		return fmt.Errorf("decode %s/%s: %w", d.container, id, err)
	}
	return nil
}

// Patch merges the given top-level fields into the stored document,
// preserving fields the patch does not name. Returns ErrNotFound when the
// id is absent.
func (d *documents) Patch(ctx context.Context, id string, fields map[string]any) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin patch: %w", err)
	}
	defer tx.Rollback()

	var body string
	err = tx.QueryRowContext(ctx,
		fmt.Sprintf("SELECT doc FROM %s WHERE id = ?", d.container), id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s/%s: %w", d.container, id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("query %s/%s: %w", d.container, id, err)
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return fmt.Errorf("decode %s/%s: %w", d.container, id, err)
	}
	for k, v := range fields {
		doc[k] = v
	}

	merged, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal patched document: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET doc = ? WHERE id = ?", d.container),
		string(merged), id); err != nil {
		return fmt.Errorf("update %s/%s: %w", d.container, id, err)
	}
	return tx.Commit()
}

// exec runs a write statement, retrying briefly on lock contention. WAL
// mode keeps these windows short; anything persistent surfaces as an error.
func (d *documents) exec(ctx context.Context, stmt string, args ...any) error {
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		_, err = d.db.ExecContext(ctx, stmt, args...)
		if err == nil || !isBusy(err) {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * 50 * time.Millisecond):
		}
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", d.container, err)
	}
	return nil
}

func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "SQLITE_BUSY")
}
