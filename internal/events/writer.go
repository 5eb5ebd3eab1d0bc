package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Journal event types.
const (
	SnapshotInit    = "snapshot.init"
	SnapshotImport  = "snapshot.import"
	Refresh         = "snapshot.refresh"
	Reset           = "snapshot.reset"
	StatusChange    = "status.change"
	StatusRecursive = "status.recursive"
	TrackChange     = "track.change"
	Allocate        = "resource.allocate"
	BarterDefine    = "barter.define"
	BarterRemove    = "barter.remove"
	BarterReset     = "barter.reset"
	LevelChange     = "level.change"
)

type Writer struct {
	Now func() time.Time
}

type EventPayload map[string]any

// Append writes one journal row inside the caller's transaction.
func (w Writer) Append(ctx context.Context, tx *sql.Tx, evtType, entityKind, entityID string, payload EventPayload) error {
	now := w.Now
	if now == nil {
		now = time.Now
	}
	ts := now().UTC().Format(time.RFC3339)
	if payload == nil {
		payload = EventPayload{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO events(ts,type,entity_kind,entity_id,payload_json) VALUES (?,?,?,?,?)`,
		ts, evtType, entityKind, nullable(entityID), string(data))
	return err
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
