package main

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/RohithDharshan/campusflow/internal/config"
)

func TestNewServer(t *testing.T) {
	srv, err := newServer(config.Config{ListenAddr: "127.0.0.1:9999"})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	if srv.Addr != "127.0.0.1:9999" {
		t.Fatalf("expected addr, got %s", srv.Addr)
	}
	if srv.Handler == nil {
		t.Fatalf("expected handler to be set")
	}
}

func TestOpenStoreMemoryDefault(t *testing.T) {
	store, err := openStore(config.DBConfig{})
	if err != nil || store == nil {
		t.Fatalf("expected in-memory store, err=%v", err)
	}
}

func TestOpenStoreUnknownDriver(t *testing.T) {
	if _, err := openStore(config.DBConfig{Driver: "oracle"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRunDefaults(t *testing.T) {
	factory := func(cfg config.Config) (*http.Server, error) {
		if cfg.ListenAddr != ":8080" {
			t.Fatalf("expected default addr, got %s", cfg.ListenAddr)
		}
		if cfg.DB.Driver != "memory" {
			t.Fatalf("expected memory driver, got %s", cfg.DB.Driver)
		}
		return &http.Server{Addr: cfg.ListenAddr}, nil
	}

	listen := func(_ *http.Server) error {
		return http.ErrServerClosed
	}

	getenv := func(string) string { return "" }
	if err := run(nil, getenv, listen, factory); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunError(t *testing.T) {
	listenErr := errors.New("listen failed")
	listen := func(_ *http.Server) error {
		return listenErr
	}

	factory := func(cfg config.Config) (*http.Server, error) {
		return &http.Server{Addr: cfg.ListenAddr}, nil
	}

	getenv := func(key string) string {
		if key == "CAMPUSFLOW_LISTEN_ADDR" {
			return "127.0.0.1:1234"
		}
		return ""
	}

	if err := run(nil, getenv, listen, factory); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRunLoadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "campusflow.yaml")
	data := "listen_addr: \":9999\"\ndb:\n  driver: \"sqlite\"\n  dsn: \"file:test.db\"\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	factory := func(cfg config.Config) (*http.Server, error) {
		if cfg.ListenAddr != ":9999" {
			t.Fatalf("expected addr from config, got %s", cfg.ListenAddr)
		}
		if cfg.DB.Driver != "sqlite" || cfg.DB.DSN != "file:test.db" {
			t.Fatalf("expected db config from file, got %+v", cfg.DB)
		}
		return &http.Server{Addr: cfg.ListenAddr}, nil
	}

	listen := func(_ *http.Server) error { return http.ErrServerClosed }
	getenv := func(key string) string {
		if key == "CAMPUSFLOW_CONFIG_PATH" {
			return path
		}
		return ""
	}

	if err := run(nil, getenv, listen, factory); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", "a", "b"); got != "a" {
		t.Fatalf("expected a, got %s", got)
	}
	if got := firstNonEmpty("", ""); got != "" {
		t.Fatalf("expected empty, got %s", got)
	}
}

func TestListenAndServeInvalidAddr(t *testing.T) {
	err := listenAndServe(&http.Server{Addr: "127.0.0.1"})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestMainNoError(t *testing.T) {
	oldRun := runFn
	oldFatal := fatalf
	defer func() {
		runFn = oldRun
		fatalf = oldFatal
	}()

	runFn = func(args []string, getenv envFn, listen listenFn, factory serverFactory) error {
		return nil
	}

	called := false
	fatalf = func(string, ...any) {
		called = true
	}

	main()
	if called {
		t.Fatalf("unexpected fatal call")
	}
}

func TestMainError(t *testing.T) {
	oldRun := runFn
	oldFatal := fatalf
	defer func() {
		runFn = oldRun
		fatalf = oldFatal
	}()

	runFn = func(args []string, getenv envFn, listen listenFn, factory serverFactory) error {
		return errors.New("boom")
	}

	called := false
	fatalf = func(string, ...any) {
		called = true
	}

	main()
	if !called {
		t.Fatalf("expected fatal call")
	}
}
