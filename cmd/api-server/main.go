package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/protomem/resource-tracker/internal/database"
	"github.com/protomem/resource-tracker/internal/env"
	"github.com/protomem/resource-tracker/internal/lifecycle"
	"github.com/protomem/resource-tracker/internal/metrics"
	"github.com/protomem/resource-tracker/internal/query"
	"github.com/protomem/resource-tracker/internal/version"
	"golang.org/x/time/rate"
)

var (
	_cfgFile     = flag.String("cfg", "", "path to config file")
	_showVersion = flag.Bool("version", false, "display version and exit")
)

func main() {
	flag.Parse()

	if *_showVersion {
		fmt.Printf("version: %s\n", version.Get())
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	err := run(logger)
	if err != nil {
		trace := string(debug.Stack())
		logger.Error(err.Error(), "trace", trace)
		os.Exit(1)
	}
}

type config struct {
	httpHost  string
	httpPort  int
	logLevel  string
	rateLimit struct {
		rps   float64
		burst int
	}
	db database.Config
}

type application struct {
	config    config
	db        *database.DB
	store     *database.EntityStore
	lifecycle *lifecycle.Manager
	query     *query.Service
	metrics   *metrics.Metrics
	registry  *prometheus.Registry
	limiter   *rate.Limiter
	logger    *slog.Logger
	wg        sync.WaitGroup
}

func loadConfig() (config, error) {
	var cfg config

	if *_cfgFile != "" {
		err := env.Load(*_cfgFile)
		if err != nil {
			return cfg, err
		}
	}

	driver, err := database.ParseDriver(env.GetString("DB_DRIVER", string(database.DriverPostgres)))
	if err != nil {
		return cfg, err
	}

	cfg.httpHost = env.GetString("HTTP_HOST", "localhost")
	cfg.httpPort = env.GetInt("HTTP_PORT", 8080)
	cfg.logLevel = env.GetString("LOG_LEVEL", "debug")
	cfg.rateLimit.rps = env.GetFloat("HTTP_RATE_LIMIT", 0)
	cfg.rateLimit.burst = env.GetInt("HTTP_RATE_BURST", 20)
	cfg.db.Driver = driver
	cfg.db.DSN = env.GetString("DB_DSN", "postgres:postgres@localhost:5432/postgres")
	cfg.db.Automigrate = env.GetBool("DB_AUTOMIGRATE", true)
	cfg.db.ConnectTimeout = env.GetDuration("DB_CONNECT_TIMEOUT", 10*time.Second)

	return cfg, nil
}

func run(logger *slog.Logger) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.logLevel)); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	db, err := database.New(context.Background(), logger, cfg.db)
	if err != nil {
		return err
	}
	defer db.Close()

	app := newApplication(logger, cfg, db)

	return app.serveHTTP()
}

func newApplication(logger *slog.Logger, cfg config, db *database.DB) *application {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	store := database.NewEntityStore(logger, db)

	app := &application{
		config:    cfg,
		db:        db,
		store:     store,
		lifecycle: lifecycle.NewManager(logger, store, lifecycle.WithMetrics(m)),
		query:     query.NewService(logger, store),
		metrics:   m,
		registry:  registry,
		logger:    logger,
	}

	if cfg.rateLimit.rps > 0 {
		app.limiter = rate.NewLimiter(rate.Limit(cfg.rateLimit.rps), cfg.rateLimit.burst)
	}

	return app
}
