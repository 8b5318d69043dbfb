package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/trading-system/backend/internal/infrastructure/config"
	"github.com/trading-system/backend/internal/infrastructure/logger"
	"github.com/trading-system/backend/internal/infrastructure/persistence"
	"github.com/trading-system/backend/internal/infrastructure/seed"
	"go.uber.org/zap"
)

func main() {
	var (
		file     string
		migrate  bool
		logLevel string
		timeout  time.Duration
	)
	flag.StringVar(&file, "file", "", "YAML seed document to load (required)")
	flag.BoolVar(&migrate, "migrate", false, "Auto-migrate the schema before seeding")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.DurationVar(&timeout, "timeout", 2*time.Minute, "Abort the seed after this duration")
	flag.Parse()

	log, err := logger.New(logger.Config{Level: logLevel, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if file == "" {
		flag.Usage()
		os.Exit(2)
	}

	doc, err := seed.Load(file)
	if err != nil {
		log.Fatal("Failed to read seed document", zap.String("file", file), zap.Error(err))
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabase(cfg.Database, logger.NewGormLogger(log, logger.GormLevel(logLevel), cfg.Telemetry.DBSlowQueryThresh))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	if migrate {
		if err := db.Migrate(); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	res, err := seed.Apply(ctx, db.DB, doc)
	if err != nil {
		log.Fatal("Seed failed", zap.Error(err))
	}
	log.Info("Seed applied",
		zap.String("file", file),
		zap.Int("lines", res.Lines),
		zap.Int("groups", res.Groups),
		zap.Int("articles", res.Articles),
		zap.Int("price_lists", res.PriceLists),
		zap.Int("prices", res.Prices),
		zap.Int("rules", res.Rules),
		zap.Int("authorizations", res.Authorizations),
	)
}
