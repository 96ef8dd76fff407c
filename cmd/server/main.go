// Command server runs the dashboard API over the stored reports, with
// optional Redis caching and on-demand re-analysis.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/adscope/meta-ads-monitor/internal/api"
	"github.com/adscope/meta-ads-monitor/internal/cache"
	"github.com/adscope/meta-ads-monitor/internal/config"
	"github.com/adscope/meta-ads-monitor/internal/pipeline"
	"github.com/adscope/meta-ads-monitor/internal/pkg/logger"
	"github.com/adscope/meta-ads-monitor/internal/repository/postgres"
	"github.com/adscope/meta-ads-monitor/internal/storage"
)

type dbPinger struct{ db *sql.DB }

func (p dbPinger) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Error("loading configuration failed", "error", err.Error())
			os.Exit(1)
		}
		logger.Warn("config file not found, using defaults", "path", *configPath)
		cfg = config.Default()
	}

	if cfg.History.DatabaseURL == "" {
		logger.Error("the dashboard server requires DATABASE_URL")
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.History.DatabaseURL)
	if err != nil {
		logger.Error("opening database failed", "error", err.Error())
		os.Exit(1)
	}
	defer db.Close()

	repo := postgres.NewReportRepo(db)
	handlers := api.NewHandlers(repo)
	handlers.AddCheck("postgres", dbPinger{db: db})

	if cfg.Cache.Enabled {
		reportCache := cache.New(cfg.Cache)
		handlers.SetCache(reportCache)
		handlers.AddCheck("redis", reportCache)
	}

	// On-demand analysis shares the batch pipeline and its sinks.
	p := pipeline.New(cfg)
	p.SetHistory(repo)
	if archiver, err := storage.New(cfg); err == nil {
		p.SetArchiver(archiver)
	} else {
		logger.Warn("storage unavailable, archive disabled", "error", err.Error())
	}
	handlers.SetRunner(p)

	server := api.NewServer(cfg.Server, handlers)
	addr := fmt.Sprintf("%s:%d", cfg.Server.GetHost(), cfg.Server.Port)

	go func() {
		logger.Info("dashboard listening", "addr", addr)
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", "error", err.Error())
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "error", err.Error())
	}
	logger.Info("dashboard stopped")
}
