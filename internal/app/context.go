package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"helpdesk/internal/config"
	"helpdesk/internal/db"
	"helpdesk/internal/domain"
	"helpdesk/internal/engine"
	"helpdesk/internal/migrate"
	"helpdesk/internal/observability"
	"helpdesk/internal/session"
	"helpdesk/internal/state"
)

// Options carries overrides resolved from flags and the environment. Empty
// fields fall back to helpdesk.yml.
type Options struct {
	Workspace   string
	Driver      string
	StoragePath string
	LogLevel    string
}

// Context is everything one command needs: the loaded store, its config,
// a logger and the session of the current operator.
type Context struct {
	Workspace string
	Config    *config.Config
	Logger    *zap.Logger
	Engine    *engine.Engine
	Session   session.Store
	// DB is set only for the sqlite driver.
	DB *sql.DB
}

// LoadDotEnv reads <workspace>/.env into the process environment. Variables
// that are already set win. A missing file is not an error.
func LoadDotEnv(workspace string) error {
	path := EnvPath(workspace)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// EnvPath returns the .env path for a workspace.
func EnvPath(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, ".env")
}

// SessionStore returns the session file of a workspace.
func SessionStore(workspace string) session.Store {
	return session.Store{Path: filepath.Join(db.Dir(workspace), session.FileName)}
}

// ResolveConfig loads helpdesk.yml (or the defaults) and applies overrides.
func ResolveConfig(opts Options) (*config.Config, error) {
	cfg, err := config.LoadOptional(opts.Workspace)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(opts.Driver); v != "" {
		cfg.Storage.Driver = v
	}
	if v := strings.TrimSpace(opts.StoragePath); v != "" {
		cfg.Storage.Path = v
	}
	if v := strings.TrimSpace(opts.LogLevel); v != "" {
		cfg.Log.Level = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// StatePath returns where the file driver keeps the state document.
// Relative paths live in the workspace data directory.
func StatePath(workspace string, cfg *config.Config) string {
	if filepath.IsAbs(cfg.Storage.Path) {
		return cfg.Storage.Path
	}
	return filepath.Join(db.Dir(workspace), cfg.Storage.Path)
}

// Open resolves config, builds the configured backend and loads the store.
func Open(ctx context.Context, opts Options) (*Context, error) {
	if _, err := db.EnsureWorkspace(opts.Workspace); err != nil {
		return nil, err
	}
	cfg, err := ResolveConfig(opts)
	if err != nil {
		return nil, err
	}
	logger, err := observability.NewLogger(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	c := &Context{
		Workspace: opts.Workspace,
		Config:    cfg,
		Logger:    logger,
		Session:   SessionStore(opts.Workspace),
	}

	var backend state.Backend
	switch cfg.Storage.Driver {
	case config.DriverFile:
		backend = state.FileBackend{Path: StatePath(opts.Workspace, cfg)}
	case config.DriverSQLite:
		conn, err := db.Open(db.Config{Workspace: opts.Workspace})
		if err != nil {
			return nil, err
		}
		if _, err := migrate.Migrate(ctx, conn); err != nil {
			conn.Close()
			return nil, err
		}
		c.DB = conn
		backend = state.NewSQLiteBackend(conn)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	logger.Debug("opening store", zap.String("driver", cfg.Storage.Driver), zap.String("workspace", opts.Workspace))

	e, err := engine.Open(ctx, backend, cfg, logger)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Engine = e
	return c, nil
}

// CurrentUser returns the logged-in operator, or nil when nobody is.
func (c *Context) CurrentUser() (*domain.User, error) {
	u, err := c.Session.Current()
	if errors.Is(err, session.ErrNoSession) {
		return nil, nil
	}
	return u, err
}

// Close releases the database connection and flushes the logger.
func (c *Context) Close() error {
	_ = c.Logger.Sync()
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
