// cmd/migrate/main.go
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"savings-tracker/internal/config"
	"savings-tracker/internal/logger"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

func main() {
	dir := flag.String("dir", "migrations", "migrations directory, relative to the working directory")
	flag.Parse()
	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	cfg := config.MustLoad()
	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	db, err := sql.Open("pgx", cfg.DBConn)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	wd, err := os.Getwd()
	if err != nil {
		log.Fatal("failed to get working directory", zap.Error(err))
	}
	migrationsDir := filepath.Join(wd, *dir)

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal("failed to set dialect", zap.Error(err))
	}

	log.Info("running migrations", zap.String("command", command), zap.String("dir", migrationsDir))
	if err := goose.Run(command, db, migrationsDir, flag.Args()[min(1, flag.NArg()):]...); err != nil {
		log.Fatal("migrations failed", zap.Error(err))
	}
	log.Info("✅ migrations done")
}
