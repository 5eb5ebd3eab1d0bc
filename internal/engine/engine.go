package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"stashline/internal/catalog"
	"stashline/internal/config"
	"stashline/internal/domain"
	"stashline/internal/events"
	"stashline/internal/graph"
	"stashline/internal/logger"
	"stashline/internal/repo"
	"stashline/internal/resolve"
)

// ErrEmptyCatalog is returned by operations that materialize templates when
// no catalog has been loaded.
var ErrEmptyCatalog = errors.New("catalog is empty; point catalog.path at a catalog document")

type Engine struct {
	DB      *sql.DB
	Repo    repo.Repo
	Events  events.Writer
	Catalog *catalog.Catalog
	Config  *config.Config
	Log     *slog.Logger
	Now     func() time.Time
}

func New(db *sql.DB, cat *catalog.Catalog, cfg *config.Config, log *slog.Logger) Engine {
	if cat == nil {
		cat = catalog.Empty()
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = slog.Default()
	}
	return Engine{
		DB:      db,
		Repo:    repo.Repo{DB: db},
		Events:  events.Writer{Now: time.Now},
		Catalog: cat,
		Config:  cfg,
		Log:     log,
		Now:     time.Now,
	}
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Engine) log() *slog.Logger {
	if e.Log != nil {
		return e.Log
	}
	return slog.Default()
}

func (e Engine) journal() events.Writer {
	w := e.Events
	w.Now = e.now
	return w
}

// Ref names an entity by free text. Pick selects among ambiguous exact
// matches (1-based); zero returns the ambiguity to the caller.
type Ref struct {
	Kind  domain.EntityKind
	Query string
	Pick  int
}

// change is the journal entry a successful mutation appends.
type change struct {
	Type       string
	EntityKind string
	EntityID   string
	Payload    events.EventPayload
}

// LoadSnapshot returns the stored snapshot, writing the empty one on first use.
func (e Engine) LoadSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	snap, err := e.Repo.GetSnapshot(ctx)
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if err := e.mutate(ctx, func(s *domain.Snapshot) (*change, error) {
		snap = s
		return nil, nil
	}); err != nil {
		return nil, err
	}
	return snap, nil
}

// mutate runs fn against the stored snapshot inside one transaction. A nil
// change means nothing moved and nothing is written; an error rolls back.
func (e Engine) mutate(ctx context.Context, fn func(*domain.Snapshot) (*change, error)) error {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	initialized := false
	snap, err := e.Repo.GetSnapshotTx(ctx, tx)
	if errors.Is(err, repo.ErrNotFound) {
		snap = domain.NewSnapshot()
		if err := e.Repo.SaveSnapshotTx(ctx, tx, snap, e.now()); err != nil {
			return fmt.Errorf("init snapshot: %w", err)
		}
		if err := e.journal().Append(ctx, tx, events.SnapshotInit, "snapshot", "", nil); err != nil {
			return err
		}
		initialized = true
	} else if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	ch, err := fn(snap)
	if err != nil {
		if !errors.Is(err, domain.ErrNothingToDo) {
			logger.WithError(e.log(), err).Debug("mutation rolled back")
		}
		return err
	}
	if ch == nil {
		if initialized {
			return tx.Commit()
		}
		return nil
	}
	if err := snap.Validate(); err != nil {
		return fmt.Errorf("refusing to persist invalid snapshot: %w", err)
	}
	if err := e.Repo.SaveSnapshotTx(ctx, tx, snap, e.now()); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	if err := e.journal().Append(ctx, tx, ch.Type, ch.EntityKind, ch.EntityID, ch.Payload); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	e.log().Debug("snapshot updated", "event", ch.Type, "kind", ch.EntityKind, "id", ch.EntityID)
	return nil
}

func (e Engine) resolver(snap *domain.Snapshot) resolve.Resolver {
	return resolve.Resolver{Catalog: e.Catalog, Snapshot: snap, Suggestions: e.Config.Search.Suggestions}
}

func (e Engine) graph(snap *domain.Snapshot) graph.Graph {
	return graph.Graph{Catalog: e.Catalog, Snapshot: snap}
}

func (e Engine) lookup(snap *domain.Snapshot, ref Ref) (domain.Candidate, error) {
	if ref.Kind == "" {
		return domain.Candidate{}, fmt.Errorf("entity kind is required")
	}
	return e.resolver(snap).One(ref.Kind, ref.Query, ref.Pick)
}
