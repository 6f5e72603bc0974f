package main

import (
	"context"
	"fmt"
	"os"

	"quiz-learn/internal/config"
	"quiz-learn/internal/database"
	"quiz-learn/internal/logger"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: migrate [up|down]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	dir := database.Up
	if arg := flag.Arg(0); arg != "" {
		dir = database.Direction(arg)
	}
	if dir != database.Up && dir != database.Down {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	db, err := database.Open(context.Background(), cfg.DB)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.DB.Driver, dir); err != nil {
		log.Fatal("Migration failed", zap.String("direction", string(dir)), zap.Error(err))
	}
	log.Info("Migration finished", zap.String("direction", string(dir)))
}
