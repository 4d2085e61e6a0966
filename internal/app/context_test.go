package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"helpdesk/internal/config"
	"helpdesk/internal/engine"
	"helpdesk/internal/events"
)

func TestOpenFileDriverPersistsAcrossInvocations(t *testing.T) {
	ws := t.TempDir()
	ctx := context.Background()

	c, err := Open(ctx, Options{Workspace: ws})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if c.Config.Storage.Driver != config.DriverFile {
		t.Fatalf("default driver = %s", c.Config.Storage.Driver)
	}
	if _, err := c.Engine.CreateTicket(ctx, engine.CreateOptions{Description: "printer jam"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	c.Close()

	if _, err := os.Stat(StatePath(ws, c.Config)); err != nil {
		t.Fatalf("state file missing: %v", err)
	}

	again, err := Open(ctx, Options{Workspace: ws})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer again.Close()
	if _, ok := again.Engine.Get(1); !ok {
		t.Fatalf("ticket 1 not reloaded")
	}
	if again.Engine.NextID() != 2 {
		t.Fatalf("next id = %d", again.Engine.NextID())
	}
}

func TestOpenSQLiteDriverJournalsSaves(t *testing.T) {
	ws := t.TempDir()
	ctx := context.Background()

	c, err := Open(ctx, Options{Workspace: ws, Driver: config.DriverSQLite})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer c.Close()
	if c.DB == nil {
		t.Fatalf("expected a database handle")
	}
	if _, err := c.Engine.CreateTicket(ctx, engine.CreateOptions{Description: "vpn down", Priority: "high"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	evts, err := events.Latest(ctx, c.DB, 10, "")
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(evts) != 1 || evts[0].Type != "ticket.create" || evts[0].Ref != "1" {
		t.Fatalf("unexpected journal: %+v", evts)
	}
}

func TestResolveConfigOverridesAndValidates(t *testing.T) {
	ws := t.TempDir()
	cfg, err := ResolveConfig(Options{Workspace: ws, Driver: "sqlite", LogLevel: "debug"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Storage.Driver != config.DriverSQLite || cfg.Log.Level != "debug" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if _, err := ResolveConfig(Options{Workspace: ws, Driver: "postgres"}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestOpenRejectsMemoryDriver(t *testing.T) {
	ws := t.TempDir()
	if _, err := ResolveConfig(Options{Workspace: ws, Driver: "memory"}); err == nil {
		t.Fatalf("expected memory driver to be rejected")
	}
	if c, err := Open(context.Background(), Options{Workspace: ws, Driver: "memory"}); err == nil {
		c.Close()
		t.Fatalf("expected open to fail for the memory driver")
	}
}

func TestStatePathKeepsAbsolutePaths(t *testing.T) {
	cfg := config.Default()
	abs := filepath.Join(t.TempDir(), "elsewhere.json")
	cfg.Storage.Path = abs
	if got := StatePath("ws", cfg); got != abs {
		t.Fatalf("got %s", got)
	}
	cfg.Storage.Path = "helpdesk_state.json"
	if got := StatePath("ws", cfg); got != filepath.Join("ws", ".helpdesk", "helpdesk_state.json") {
		t.Fatalf("got %s", got)
	}
}

func TestLoadDotEnv(t *testing.T) {
	ws := t.TempDir()
	if err := LoadDotEnv(ws); err != nil {
		t.Fatalf("missing .env should be ignored: %v", err)
	}
	const key = "HELPDESK_DOTENV_PROBE"
	t.Setenv(key, "")
	os.Unsetenv(key)
	if err := os.WriteFile(EnvPath(ws), []byte(key+"=sqlite\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := LoadDotEnv(ws); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := os.Getenv(key); got != "sqlite" {
		t.Fatalf("%s = %q", key, got)
	}
}

func TestCurrentUserWithoutSession(t *testing.T) {
	c := &Context{Session: SessionStore(t.TempDir())}
	u, err := c.CurrentUser()
	if err != nil || u != nil {
		t.Fatalf("expected no user, got %+v, %v", u, err)
	}
}
