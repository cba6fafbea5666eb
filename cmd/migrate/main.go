package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gravadigital/huddle-api/internal/config"
	"github.com/gravadigital/huddle-api/internal/logger"
	"github.com/gravadigital/huddle-api/internal/storage/migrations"
	"github.com/gravadigital/huddle-api/internal/storage/postgres"
)

func main() {
	cfg := config.Load()

	logger.Initialize(cfg.Log.Level)
	log := logger.Migration()

	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	status := flag.Bool("status", false, "List applied migrations and exit")
	flag.Parse()

	db, err := postgres.Connect(cfg)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = postgres.Close(db)
	}()

	switch {
	case *status:
		applied, err := migrations.Applied(db)
		if err != nil {
			log.Error("Failed to read migration status", "error", err)
			os.Exit(1)
		}
		done := make(map[string]bool, len(applied))
		for _, id := range applied {
			done[id] = true
		}
		for _, m := range migrations.GetMigrations() {
			state := "pending"
			if done[m.ID] {
				state = "applied"
			}
			fmt.Printf("%s  %-20s %s\n", m.ID, m.Name, state)
		}
		return

	case *rollback:
		log.Info("Rolling back migrations...")
		if err := migrations.RollbackMigration(db); err != nil {
			log.Error("Migration rollback failed", "error", err)
			os.Exit(1)
		}
		log.Info("Migration rollback completed successfully")

	default:
		log.Info("Running migrations...")
		if err := migrations.RunMigrations(db); err != nil {
			log.Error("Migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("Migrations completed successfully")
	}

	fmt.Println("Migration process completed!")
}
