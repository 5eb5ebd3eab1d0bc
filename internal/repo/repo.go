package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"stashline/internal/domain"
)

type Repo struct {
	DB *sql.DB
}

var ErrNotFound = errors.New("not found")

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func loadSnapshot(ctx context.Context, q querier) (*domain.Snapshot, error) {
	var doc string
	err := q.QueryRowContext(ctx, `SELECT document FROM snapshots WHERE id=1`).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	snap := domain.NewSnapshot()
	if err := json.Unmarshal([]byte(doc), snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	snap.Normalize()
	return snap, nil
}

// GetSnapshot reads the stored snapshot outside a transaction.
func (r Repo) GetSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	return loadSnapshot(ctx, r.DB)
}

// GetSnapshotTx reads the stored snapshot inside tx.
func (r Repo) GetSnapshotTx(ctx context.Context, tx *sql.Tx) (*domain.Snapshot, error) {
	return loadSnapshot(ctx, tx)
}

// SaveSnapshotTx overwrites the stored snapshot document.
func (r Repo) SaveSnapshotTx(ctx context.Context, tx *sql.Tx, snap *domain.Snapshot, now time.Time) error {
	snap.Normalize()
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO snapshots(id,document,updated_at) VALUES (1,?,?)
ON CONFLICT(id) DO UPDATE SET document=excluded.document, updated_at=excluded.updated_at`,
		string(data), now.UTC().Format(time.RFC3339))
	return err
}

// SnapshotUpdatedAt returns when the snapshot was last written.
func (r Repo) SnapshotUpdatedAt(ctx context.Context) (string, error) {
	var ts string
	err := r.DB.QueryRowContext(ctx, `SELECT updated_at FROM snapshots WHERE id=1`).Scan(&ts)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return ts, err
}

type EventFilters struct {
	Type       string
	EntityKind string
	EntityID   string
	Limit      int
	Cursor     int64
}

// LatestEvents returns journal rows newest first. A positive cursor
// restricts to ids below it.
func (r Repo) LatestEvents(ctx context.Context, f EventFilters) ([]domain.Event, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	clauses := []string{"1=1"}
	var args []any
	if f.Type != "" {
		clauses = append(clauses, "type=?")
		args = append(args, f.Type)
	}
	if f.EntityKind != "" {
		clauses = append(clauses, "entity_kind=?")
		args = append(args, f.EntityKind)
	}
	if f.EntityID != "" {
		clauses = append(clauses, "entity_id=?")
		args = append(args, f.EntityID)
	}
	if f.Cursor > 0 {
		clauses = append(clauses, "id<?")
		args = append(args, f.Cursor)
	}
	where := "WHERE " + strings.Join(clauses, " AND ")
	query := fmt.Sprintf(`SELECT id,ts,type,entity_kind,entity_id,payload_json FROM events %s ORDER BY id DESC LIMIT ?`, where)
	args = append(args, f.Limit)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Event
	for rows.Next() {
		var e domain.Event
		var entityID sql.NullString
		if err := rows.Scan(&e.ID, &e.TS, &e.Type, &e.EntityKind, &entityID, &e.Payload); err != nil {
			return nil, err
		}
		e.EntityID = entityID.String
		res = append(res, e)
	}
	return res, rows.Err()
}

// CountEvents returns the journal size.
func (r Repo) CountEvents(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n)
	return n, err
}
