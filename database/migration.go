package database

import (
	"fmt"
	"log"

	"github.com/gtiq/models"
	"gorm.io/gorm"
)

// AutoMigrate runs auto migration for all models
func AutoMigrate(db *gorm.DB) error {
	log.Println("Starting GORM AutoMigrate...")

	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}

	// Postgres-only constraints; sqlite (tests) skips these
	if db.Dialector.Name() == "postgres" {
		if err := createPostgresConstraints(db); err != nil {
			log.Printf("Warning: some constraints could not be created: %v", err)
		}
	}

	log.Println("GORM AutoMigrate completed successfully")
	return nil
}

// createPostgresConstraints adds constraints GORM tags cannot express.
// The partial unique index is the backstop for the one-active-session
// invariant; the service path checks it first and reports a clean conflict.
func createPostgresConstraints(db *gorm.DB) error {
	statements := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_work_sessions_one_active
		 ON work_sessions (user_id, company_id) WHERE is_active`,
		`ALTER TABLE work_sessions ADD CONSTRAINT chk_work_sessions_status
		 CHECK (status IN ('open', 'closed', 'auto_closed'))`,
		`ALTER TABLE memberships ADD CONSTRAINT chk_memberships_role
		 CHECK (role IN ('owner', 'admin', 'manager', 'worker'))`,
		`ALTER TABLE companies ADD CONSTRAINT chk_companies_status
		 CHECK (status IN ('active', 'suspended'))`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			// Re-running migration hits "already exists" on the ALTERs
			log.Printf("  constraint skipped: %v", err)
		}
	}
	return nil
}

// DropAllTables drops every application table, children first
func DropAllTables(db *gorm.DB) error {
	all := models.AllModels()
	for i := len(all) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(all[i]); err != nil {
			log.Printf("  Warning: failed to drop table for %T: %v", all[i], err)
		}
	}
	return nil
}
