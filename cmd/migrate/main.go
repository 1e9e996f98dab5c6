package main

import (
	"log"
	"os"

	"design-team-be/internal/model"
	"design-team-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Starting GORM migration")

	// gen_random_uuid() needs pgcrypto.
	color.Yellow("Step 1: extensions")
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Printf("Warn: failed to create extension: %v. Continuing...", err)
	}

	color.Yellow("Step 2: AutoMigrate")
	models := []interface{}{
		&model.Session{},
		&model.Event{},
		&model.AppState{},
		&model.UserState{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		color.Red("Migration failed: %v", err)
		os.Exit(1)
	}

	color.Green("Migration complete: %d tables", len(models))
}
