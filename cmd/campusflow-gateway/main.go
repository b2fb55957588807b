package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/RohithDharshan/campusflow/internal/api"
	"github.com/RohithDharshan/campusflow/internal/auth"
	"github.com/RohithDharshan/campusflow/internal/config"
	"github.com/RohithDharshan/campusflow/internal/ledger"
	"github.com/RohithDharshan/campusflow/internal/ledger/pgstore"
	"github.com/RohithDharshan/campusflow/internal/ledger/sqlstore"
	"github.com/RohithDharshan/campusflow/internal/notify"
	"github.com/RohithDharshan/campusflow/internal/policy"
)

func main() {
	if err := runFn(os.Args[1:], os.Getenv, listenAndServe, newServer); err != nil {
		fatalf("server error: %v", err)
	}
}

var runFn = run
var fatalf = log.Fatalf

func newServer(cfg config.Config) (*http.Server, error) {
	tables := policy.Defaults()
	if cfg.PolicyPath != "" {
		loaded, err := policy.Load(cfg.PolicyPath)
		if err != nil {
			return nil, fmt.Errorf("load policy tables: %w", err)
		}
		tables = loaded
	}

	store, err := openStore(cfg.DB)
	if err != nil {
		return nil, err
	}

	var poster notify.Poster = notify.LogPoster{}
	if cfg.SMTP.Enabled {
		poster = notify.NewSMTPPoster(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	}
	interval := time.Duration(cfg.Outbox.PollIntervalSeconds) * time.Second
	go notify.RunOutboxWorker(context.Background(), store, poster, interval)

	h := &api.Handler{
		Auth:    auth.NewAuthenticatorFromEnv(),
		Service: api.NewWorkflowService(store, tables),
	}
	return &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.NewRouter(h),
		ReadHeaderTimeout: 5 * time.Second,
	}, nil
}

func openStore(db config.DBConfig) (ledger.Store, error) {
	switch db.Driver {
	case "", "memory":
		return ledger.NewInMemoryStore(), nil
	case "sqlite":
		s, err := sqlstore.OpenSQLite(db.DSN)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(); err != nil {
			return nil, err
		}
		return s, nil
	case "postgres":
		s, err := pgstore.OpenPostgres(db.DSN)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown db driver %q", db.Driver)
	}
}

type envFn func(string) string
type listenFn func(*http.Server) error
type serverFactory func(cfg config.Config) (*http.Server, error)

func run(args []string, getenv envFn, listen listenFn, factory serverFactory) error {
	fs := flag.NewFlagSet("campusflow-gateway", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to campusflow config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfgFile := *configPath
	if cfgFile == "" {
		cfgFile = getenv("CAMPUSFLOW_CONFIG_PATH")
	}

	var cfg config.Config
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	cfg.ListenAddr = firstNonEmpty(getenv("CAMPUSFLOW_LISTEN_ADDR"), cfg.ListenAddr, ":8080")
	cfg.PolicyPath = firstNonEmpty(getenv("CAMPUSFLOW_POLICY_PATH"), cfg.PolicyPath)
	cfg.DB.Driver = firstNonEmpty(getenv("CAMPUSFLOW_DB_DRIVER"), cfg.DB.Driver, "memory")
	cfg.DB.DSN = firstNonEmpty(getenv("CAMPUSFLOW_DB_DSN"), cfg.DB.DSN)

	server, err := factory(cfg)
	if err != nil {
		return err
	}

	log.Printf("campusflow-gateway listening on %s", cfg.ListenAddr)
	if err := listen(server); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func listenAndServe(server *http.Server) error {
	return server.ListenAndServe()
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
