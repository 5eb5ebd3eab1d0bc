package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"stashline/internal/domain"
	"stashline/internal/events"
	"stashline/internal/refresh"
)

// Refresh re-materializes catalog templates in scope, carrying progress
// forward.
func (e Engine) Refresh(ctx context.Context, scope domain.Scope) (refresh.Report, error) {
	return e.rebuild(ctx, scope, false)
}

// Reset discards progress in scope: templates start fresh, barters are
// deleted and a full reset zeroes the level.
func (e Engine) Reset(ctx context.Context, scope domain.Scope) (refresh.Report, error) {
	return e.rebuild(ctx, scope, true)
}

func (e Engine) rebuild(ctx context.Context, scope domain.Scope, wipe bool) (refresh.Report, error) {
	needsTemplates := scope.Covers(domain.ScopeQuests) || scope.Covers(domain.ScopeHideout)
	if needsTemplates && e.Catalog.IsEmpty() {
		return refresh.Report{}, ErrEmptyCatalog
	}
	var rep refresh.Report
	err := e.mutate(ctx, func(snap *domain.Snapshot) (*change, error) {
		rep = refresh.Apply(e.Catalog, snap, scope, wipe)
		typ := events.Refresh
		if wipe {
			typ = events.Reset
		}
		return &change{Type: typ, EntityKind: "snapshot", Payload: events.EventPayload{
			"scope":   scope,
			"catalog": e.Catalog.Version,
			"carried": rep.Carried,
			"dropped": rep.Dropped,
		}}, nil
	})
	if err != nil {
		return refresh.Report{}, err
	}
	e.log().Info("snapshot rebuilt", "scope", scope, "wipe", wipe, "quests", rep.Quests, "modules", rep.Modules, "dropped", rep.Dropped)
	return rep, nil
}

func compressed(path string) bool {
	return strings.HasSuffix(path, ".zst")
}

// Export writes the snapshot document to path as indented JSON, zstd
// compressed when path ends in .zst.
func (e Engine) Export(ctx context.Context, path string) error {
	snap, err := e.LoadSnapshot(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	if compressed(path) {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return err
		}
		data = enc.EncodeAll(data, nil)
		enc.Close()
	}
	return os.WriteFile(path, data, 0o644)
}

// Import replaces the stored snapshot with the document at path after
// checking its counter bounds.
func (e Engine) Import(ctx context.Context, path string) (*domain.Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if compressed(path) {
		dec, err := zstd.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		raw, err = io.ReadAll(dec)
		dec.Close()
		if err != nil {
			return nil, fmt.Errorf("decompress %s: %w", path, err)
		}
	}
	in := domain.NewSnapshot()
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(in); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	err = e.mutate(ctx, func(snap *domain.Snapshot) (*change, error) {
		*snap = *in
		return &change{Type: events.SnapshotImport, EntityKind: "snapshot", Payload: events.EventPayload{
			"source":  path,
			"quests":  len(in.Quests),
			"modules": len(in.Hideout),
			"barters": len(in.Barters),
		}}, nil
	})
	if err != nil {
		return nil, err
	}
	e.log().Info("snapshot imported", "source", path)
	return in, nil
}
