package app

import (
	"database/sql"
	"fmt"
	"log/slog"

	"stashline/internal/catalog"
	"stashline/internal/config"
	"stashline/internal/db"
	"stashline/internal/engine"
	"stashline/internal/logger"
	"stashline/internal/migrate"
)

// Options are the per-invocation overrides layered on top of stashline.yml.
type Options struct {
	Workspace   string
	CatalogPath string
	LogLevel    string
}

// Context is everything a command needs against one workspace.
type Context struct {
	Workspace   string
	Config      *config.Config
	ConfigFound bool
	Catalog     *catalog.Catalog
	CatalogPath string
	Log         *slog.Logger
	DB          *sql.DB
	Engine      engine.Engine
}

// Open loads config and catalog, opens and migrates the workspace database
// and builds the engine. Callers must Close the context.
func Open(opts Options) (*Context, error) {
	cfg, found, err := config.LoadOptional(opts.Workspace)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.CatalogPath != "" {
		cfg.Catalog.Path = opts.CatalogPath
	}
	if opts.LogLevel != "" {
		if _, err := logger.ParseLevel(opts.LogLevel); err != nil {
			return nil, err
		}
		cfg.Log.Level = opts.LogLevel
	}
	log := logger.Setup(cfg)

	catPath := cfg.CatalogPath(opts.Workspace)
	cat, ok, err := catalog.LoadOptional(catPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if !ok {
		log.Debug("no catalog document", "path", catPath)
	}

	conn, err := db.Open(db.Config{Workspace: opts.Workspace})
	if err != nil {
		return nil, err
	}
	version, err := migrate.Migrate(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	latest, err := migrate.Latest()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if version > latest {
		conn.Close()
		return nil, fmt.Errorf("workspace schema %d is newer than this build supports (%d)", version, latest)
	}
	log.Debug("workspace ready", "db", db.Path(opts.Workspace), "schema", version, "catalog", cat.Version)

	return &Context{
		Workspace:   opts.Workspace,
		Config:      cfg,
		ConfigFound: found,
		Catalog:     cat,
		CatalogPath: catPath,
		Log:         log,
		DB:          conn,
		Engine:      engine.New(conn, cat, cfg, log),
	}, nil
}

func (c *Context) Close() error {
	if c == nil || c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
