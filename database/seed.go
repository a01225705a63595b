package database

import (
	"fmt"
	"log"
	"time"

	"github.com/gtiq/auth"
	"github.com/gtiq/models"
	"gorm.io/gorm"
)

// SeedData seeds demo data into empty tables
func SeedData(db *gorm.DB) error {
	log.Println("Checking if database needs seeding...")

	// Check if data already exists
	var count int64
	db.Model(&models.Company{}).Count(&count)
	if count > 0 {
		log.Println("Database already has data. Skipping seed.")
		return nil
	}

	log.Println("Database is empty. Starting seed process...")

	return db.Transaction(func(tx *gorm.DB) error {
		company, err := seedCompany(tx)
		if err != nil {
			return fmt.Errorf("failed to seed company: %w", err)
		}

		users, err := seedUsers(tx)
		if err != nil {
			return fmt.Errorf("failed to seed users: %w", err)
		}

		if err := seedMemberships(tx, company, users); err != nil {
			return fmt.Errorf("failed to seed memberships: %w", err)
		}

		if err := seedComplianceSettings(tx, company); err != nil {
			return fmt.Errorf("failed to seed compliance settings: %w", err)
		}

		if err := seedWorkSessions(tx, company, users["worker"]); err != nil {
			return fmt.Errorf("failed to seed work sessions: %w", err)
		}

		log.Println("Seed completed successfully")
		return nil
	})
}

func seedCompany(tx *gorm.DB) (*models.Company, error) {
	pin := "4321"
	company := models.Company{
		Name:     "Acme Logistics",
		Status:   models.CompanyStatusActive,
		KioskPIN: &pin,
	}
	if err := tx.Create(&company).Error; err != nil {
		return nil, err
	}
	log.Printf("  ✓ Created company: %s", company.Name)
	return &company, nil
}

func seedUsers(tx *gorm.DB) (map[string]*models.User, error) {
	hash, err := auth.HashPassword("changeme123")
	if err != nil {
		return nil, err
	}

	seedUsers := []struct {
		key        string
		email      string
		name       string
		superadmin bool
	}{
		{"superadmin", "root@gtiq.app", "GTiQ Support", true},
		{"owner", "owner@acme.test", "Olivia Owner", false},
		{"manager", "manager@acme.test", "Marta Manager", false},
		{"worker", "worker@acme.test", "Walt Worker", false},
	}

	users := make(map[string]*models.User, len(seedUsers))
	for _, su := range seedUsers {
		user := models.User{
			Email:        su.email,
			FullName:     su.name,
			PasswordHash: hash,
			IsSuperadmin: su.superadmin,
			IsActive:     true,
		}
		if err := tx.Create(&user).Error; err != nil {
			return nil, err
		}
		users[su.key] = &user
	}
	log.Printf("  ✓ Created %d users", len(users))
	return users, nil
}

func seedMemberships(tx *gorm.DB, company *models.Company, users map[string]*models.User) error {
	roles := map[string]string{
		"owner":   models.RoleOwner,
		"manager": models.RoleManager,
		"worker":  models.RoleWorker,
	}
	for key, role := range roles {
		membership := models.Membership{
			UserID:    users[key].UserID,
			CompanyID: company.CompanyID,
			Role:      role,
		}
		if err := tx.Create(&membership).Error; err != nil {
			return err
		}
	}
	log.Printf("  ✓ Created %d memberships", len(roles))
	return nil
}

func seedComplianceSettings(tx *gorm.DB, company *models.Company) error {
	start, end := "06:00", "22:00"
	settings := models.ComplianceSettings{
		CompanyID:           company.CompanyID,
		MaxWeeklyHours:      40,
		MaxMonthlyHours:     160,
		CheckinWindowStart:  &start,
		CheckinWindowEnd:    &end,
		AllowSunday:         false,
		AllowHolidays:       false,
		AutoCloseAfterHours: 16,
	}
	return tx.Create(&settings).Error
}

// seedWorkSessions creates a week of closed sessions with matching events
// so the review and report screens have something to show.
func seedWorkSessions(tx *gorm.DB, company *models.Company, worker *models.User) error {
	day := time.Now().UTC().Truncate(24 * time.Hour)

	for i := 1; i <= 5; i++ {
		clockIn := day.AddDate(0, 0, -i).Add(9 * time.Hour)
		clockOut := clockIn.Add(8*time.Hour + 30*time.Minute)
		pause := int64(30 * 60)
		normal := models.ReviewStatusNormal

		session := models.WorkSession{
			UserID:             worker.UserID,
			CompanyID:          company.CompanyID,
			ClockInTime:        clockIn,
			ClockOutTime:       &clockOut,
			IsActive:           false,
			Status:             models.SessionStatusClosed,
			ReviewStatus:       &normal,
			TotalPauseDuration: pause,
			TotalWorkDuration:  models.WorkDurationBetween(clockIn, clockOut, pause),
		}
		if err := tx.Create(&session).Error; err != nil {
			return err
		}

		events := []models.TimeEvent{
			{UserID: worker.UserID, CompanyID: company.CompanyID, EventType: models.EventClockIn, Source: models.SourceWeb, EventTime: clockIn},
			{UserID: worker.UserID, CompanyID: company.CompanyID, EventType: models.EventPauseStart, Source: models.SourceWeb, EventTime: clockIn.Add(3 * time.Hour)},
			{UserID: worker.UserID, CompanyID: company.CompanyID, EventType: models.EventPauseEnd, Source: models.SourceWeb, EventTime: clockIn.Add(3*time.Hour + 30*time.Minute)},
			{UserID: worker.UserID, CompanyID: company.CompanyID, EventType: models.EventClockOut, Source: models.SourceWeb, EventTime: clockOut},
		}
		if err := tx.Create(&events).Error; err != nil {
			return err
		}
	}

	log.Println("  ✓ Created demo work sessions")
	return nil
}
