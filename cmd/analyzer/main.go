// Command analyzer runs the batch analysis: every client found in the
// raw directory gets enriched, scored and written out as reports.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "github.com/lib/pq"

	"github.com/adscope/meta-ads-monitor/internal/cache"
	"github.com/adscope/meta-ads-monitor/internal/config"
	"github.com/adscope/meta-ads-monitor/internal/pipeline"
	"github.com/adscope/meta-ads-monitor/internal/pkg/logger"
	"github.com/adscope/meta-ads-monitor/internal/repository/postgres"
	"github.com/adscope/meta-ads-monitor/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	client := flag.String("client", "", "analyze a single client instead of all")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	if *verbose {
		logger.SetLevel(logger.DEBUG)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Error("loading configuration failed", "error", err.Error())
		os.Exit(1)
	}

	p := pipeline.New(cfg)

	archiver, err := storage.New(cfg)
	if err != nil {
		logger.Error("initializing storage failed", "error", err.Error())
		os.Exit(1)
	}
	p.SetArchiver(archiver)

	if cfg.History.Enabled && cfg.History.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.History.DatabaseURL)
		if err != nil {
			logger.Error("opening history database failed", "error", err.Error())
			os.Exit(1)
		}
		defer db.Close()
		p.SetHistory(postgres.NewReportRepo(db))
	}

	if cfg.Cache.Enabled {
		p.SetCache(cache.New(cfg.Cache))
	}

	ctx := context.Background()
	if *client != "" {
		rep, err := p.RunClient(ctx, *client)
		if err != nil {
			logger.Error("analysis failed", "client", *client, "error", err.Error())
			os.Exit(1)
		}
		fmt.Printf("analyzed %s: %d ads, %d actions, %d candidates\n",
			rep.Client, rep.Summary.TotalAds, len(rep.Actions), len(rep.Candidates))
		return
	}

	reports, err := p.RunAll(ctx)
	if err != nil {
		logger.Error("analysis failed", "error", err.Error())
		os.Exit(1)
	}
	for _, rep := range reports {
		fmt.Printf("analyzed %s: %d ads, %d actions, %d candidates\n",
			rep.Client, rep.Summary.TotalAds, len(rep.Actions), len(rep.Candidates))
	}
}

func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Warn("config file not found, using defaults", "path", path)
		return config.Default(), nil
	}
	return config.LoadFromEnv(path)
}
