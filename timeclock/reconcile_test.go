package timeclock

import (
	"context"
	"testing"
	"time"

	"github.com/gtiq/compliance"
	"github.com/gtiq/models"
)

func TestSweepStaleAutoCloses(t *testing.T) {
	db := openTestDB(t)
	company, worker := seedCompanyAndWorker(t, db)
	svc := NewService(db, nil)

	settings := models.ComplianceSettings{CompanyID: company.CompanyID, AutoCloseAfterHours: 16}
	if err := db.Create(&settings).Error; err != nil {
		t.Fatalf("failed to create settings: %v", err)
	}

	now := time.Date(2026, 3, 4, 8, 0, 0, 0, time.UTC)

	stale := models.WorkSession{
		UserID: worker.UserID, CompanyID: company.CompanyID,
		ClockInTime: now.Add(-20 * time.Hour), IsActive: true, Status: models.SessionStatusOpen,
	}
	fresh := models.WorkSession{
		UserID: worker.UserID + 100, CompanyID: company.CompanyID,
		ClockInTime: now.Add(-2 * time.Hour), IsActive: true, Status: models.SessionStatusOpen,
	}
	if err := db.Create(&stale).Error; err != nil {
		t.Fatalf("failed to seed stale session: %v", err)
	}
	if err := db.Create(&fresh).Error; err != nil {
		t.Fatalf("failed to seed fresh session: %v", err)
	}

	closed, err := svc.SweepStale(context.Background(), now)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if closed != 1 {
		t.Fatalf("closed = %d, want 1", closed)
	}

	var got models.WorkSession
	if err := db.First(&got, stale.SessionID).Error; err != nil {
		t.Fatalf("failed to reload session: %v", err)
	}
	if got.IsActive {
		t.Error("stale session still active")
	}
	if got.Status != models.SessionStatusAutoClosed {
		t.Errorf("status = %q, want auto_closed", got.Status)
	}
	if got.ReviewStatus == nil || *got.ReviewStatus != models.ReviewStatusPendingReview {
		t.Errorf("review_status = %v, want pending_review", got.ReviewStatus)
	}
	// Closed at clock_in + threshold, not at sweep time
	wantOut := stale.ClockInTime.Add(16 * time.Hour)
	if got.ClockOutTime == nil || !got.ClockOutTime.Equal(wantOut) {
		t.Errorf("clock_out = %v, want %v", got.ClockOutTime, wantOut)
	}

	var event models.TimeEvent
	err = db.Where("user_id = ? AND event_type = ?", worker.UserID, models.EventClockOut).First(&event).Error
	if err != nil {
		t.Fatalf("synthetic clock_out event missing: %v", err)
	}
	if event.Source != models.SourceSystem {
		t.Errorf("event source = %q, want system", event.Source)
	}

	var freshAfter models.WorkSession
	if err := db.First(&freshAfter, fresh.SessionID).Error; err != nil {
		t.Fatalf("failed to reload fresh session: %v", err)
	}
	if !freshAfter.IsActive {
		t.Error("fresh session was closed by the sweep")
	}
}

func TestFlagLimitBreaches(t *testing.T) {
	db := openTestDB(t)
	company, worker := seedCompanyAndWorker(t, db)
	svc := NewService(db, nil)

	settings := models.ComplianceSettings{
		CompanyID: company.CompanyID, MaxWeeklyHours: 40, MaxMonthlyHours: 160, AutoCloseAfterHours: 16,
	}
	if err := db.Create(&settings).Error; err != nil {
		t.Fatalf("failed to create settings: %v", err)
	}

	// A Wednesday; seed 48h of closed work Mon-Tue of the same week
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	weekStart, _ := compliance.WeekRange(now)

	for i := 0; i < 2; i++ {
		day := weekStart.AddDate(0, 0, i)
		seedClosedSession(t, db, worker.UserID, company.CompanyID,
			day.Add(6*time.Hour), day.Add(30*time.Hour), 0) // 24h each
	}

	flagged, err := svc.FlagLimitBreaches(context.Background(), now)
	if err != nil {
		t.Fatalf("flag failed: %v", err)
	}
	if flagged != 1 {
		t.Fatalf("flagged = %d, want 1", flagged)
	}

	var latest models.WorkSession
	err = db.Where("user_id = ?", worker.UserID).Order("clock_in_time DESC").First(&latest).Error
	if err != nil {
		t.Fatalf("failed to load latest session: %v", err)
	}
	if latest.ReviewStatus == nil || *latest.ReviewStatus != models.ReviewStatusExceededLimit {
		t.Errorf("review_status = %v, want exceeded_limit", latest.ReviewStatus)
	}

	var incidents []models.Incident
	if err := db.Where("user_id = ?", worker.UserID).Find(&incidents).Error; err != nil {
		t.Fatalf("failed to load incidents: %v", err)
	}
	if len(incidents) != 1 {
		t.Fatalf("incident count = %d, want 1", len(incidents))
	}
	if incidents[0].IncidentType != models.IncidentHourLimitExceeded {
		t.Errorf("incident_type = %q", incidents[0].IncidentType)
	}
	if incidents[0].Status != models.IncidentStatusPending {
		t.Errorf("incident status = %q, want pending", incidents[0].Status)
	}

	// A second run must not file a duplicate incident
	if _, err := svc.FlagLimitBreaches(context.Background(), now); err != nil {
		t.Fatalf("second flag run failed: %v", err)
	}
	var count int64
	db.Model(&models.Incident{}).Where("user_id = ?", worker.UserID).Count(&count)
	if count != 1 {
		t.Errorf("incident count after second run = %d, want 1", count)
	}
}

func TestFlagLimitBreachesWorkerRuleOverride(t *testing.T) {
	db := openTestDB(t)
	company, worker := seedCompanyAndWorker(t, db)
	svc := NewService(db, nil)

	settings := models.ComplianceSettings{
		CompanyID: company.CompanyID, MaxWeeklyHours: 40, MaxMonthlyHours: 160, AutoCloseAfterHours: 16,
	}
	if err := db.Create(&settings).Error; err != nil {
		t.Fatalf("failed to create settings: %v", err)
	}
	ten := 10.0
	rule := models.WorkerDayRule{CompanyID: company.CompanyID, UserID: worker.UserID, MaxWeeklyHours: &ten}
	if err := db.Create(&rule).Error; err != nil {
		t.Fatalf("failed to create rule: %v", err)
	}

	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	weekStart, _ := compliance.WeekRange(now)

	// 12h worked: under the company's 40 but over the worker's 10
	day := weekStart.AddDate(0, 0, 1)
	seedClosedSession(t, db, worker.UserID, company.CompanyID,
		day.Add(6*time.Hour), day.Add(18*time.Hour), 0)

	flagged, err := svc.FlagLimitBreaches(context.Background(), now)
	if err != nil {
		t.Fatalf("flag failed: %v", err)
	}
	if flagged != 1 {
		t.Errorf("flagged = %d, want 1 (worker rule should override)", flagged)
	}
}

func TestFlagLimitBreachesMonthlyOnly(t *testing.T) {
	db := openTestDB(t)
	company, worker := seedCompanyAndWorker(t, db)
	svc := NewService(db, nil)

	// Weekly cap disabled; only the monthly cap can trip
	settings := models.ComplianceSettings{
		CompanyID: company.CompanyID, MaxWeeklyHours: 0, MaxMonthlyHours: 160, AutoCloseAfterHours: 16,
	}
	if err := db.Create(&settings).Error; err != nil {
		t.Fatalf("failed to create settings: %v", err)
	}

	// 170h spread over the first ten days of the month; the sweep runs weeks
	// later with no session in its own week.
	for i := 0; i < 10; i++ {
		day := time.Date(2026, 3, 1+i, 0, 0, 0, 0, time.UTC)
		seedClosedSession(t, db, worker.UserID, company.CompanyID,
			day.Add(5*time.Hour), day.Add(22*time.Hour), 0) // 17h each
	}

	now := time.Date(2026, 3, 25, 12, 0, 0, 0, time.UTC)
	flagged, err := svc.FlagLimitBreaches(context.Background(), now)
	if err != nil {
		t.Fatalf("flag failed: %v", err)
	}
	if flagged != 1 {
		t.Fatalf("flagged = %d, want 1 (170h > 160h monthly cap)", flagged)
	}

	var incidents int64
	db.Model(&models.Incident{}).
		Where("user_id = ? AND incident_type = ?", worker.UserID, models.IncidentHourLimitExceeded).
		Count(&incidents)
	if incidents != 1 {
		t.Errorf("incident count = %d, want 1", incidents)
	}
}

func TestFlagScheduleViolations(t *testing.T) {
	db := openTestDB(t)
	company, worker := seedCompanyAndWorker(t, db)
	svc := NewService(db, nil)

	start, end := "06:00", "22:00"
	settings := models.ComplianceSettings{
		CompanyID:          company.CompanyID,
		CheckinWindowStart: &start,
		CheckinWindowEnd:   &end,
		AllowSunday:        false,
	}
	if err := db.Create(&settings).Error; err != nil {
		t.Fatalf("failed to create settings: %v", err)
	}

	// Tuesday 23:30 is outside the window; Sunday 10:00 is inside it but on a
	// disallowed day.
	lateNight := time.Date(2026, 3, 3, 23, 30, 0, 0, time.UTC)
	sunday := time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC)
	seedClosedSession(t, db, worker.UserID, company.CompanyID, lateNight, lateNight.Add(4*time.Hour), 0)
	seedClosedSession(t, db, worker.UserID, company.CompanyID, sunday, sunday.Add(4*time.Hour), 0)

	now := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	filed, err := svc.FlagScheduleViolations(context.Background(), now, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("schedule check failed: %v", err)
	}
	if filed != 2 {
		t.Fatalf("filed = %d, want 2", filed)
	}

	for _, incidentType := range []string{models.IncidentCheckinOutsideWindow, models.IncidentSundayWork} {
		var count int64
		db.Model(&models.Incident{}).
			Where("user_id = ? AND incident_type = ? AND status = ?",
				worker.UserID, incidentType, models.IncidentStatusPending).
			Count(&count)
		if count != 1 {
			t.Errorf("%s incident count = %d, want 1", incidentType, count)
		}
	}

	// Re-running while the incidents are still pending files nothing new
	filed, err = svc.FlagScheduleViolations(context.Background(), now, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("second schedule check failed: %v", err)
	}
	if filed != 0 {
		t.Errorf("filed on rerun = %d, want 0", filed)
	}
}
