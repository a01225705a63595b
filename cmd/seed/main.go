package main

import (
	"log"

	"github.com/gtiq/config"
	"github.com/gtiq/database"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database connection
	if err := database.Initialize(&cfg.Database); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	if err := database.AutoMigrate(database.DB); err != nil {
		log.Fatalf("Failed to run migration: %v", err)
	}

	if err := database.SeedData(database.DB); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	log.Println("Seed completed")
}
