package timeclock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gtiq/models"
	"gorm.io/gorm"
)

func seedClosedSession(t *testing.T, db *gorm.DB, userID, companyID uint, clockIn, clockOut time.Time, pauseSeconds int64) *models.WorkSession {
	t.Helper()

	session := models.WorkSession{
		UserID:             userID,
		CompanyID:          companyID,
		ClockInTime:        clockIn,
		ClockOutTime:       &clockOut,
		Status:             models.SessionStatusClosed,
		TotalPauseDuration: pauseSeconds,
		TotalWorkDuration:  models.WorkDurationBetween(clockIn, clockOut, pauseSeconds),
	}
	if err := db.Create(&session).Error; err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}
	return &session
}

func TestAdjustSession(t *testing.T) {
	db := openTestDB(t)
	company, worker := seedCompanyAndWorker(t, db)
	svc := NewService(db, nil)

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	session := seedClosedSession(t, db, worker.UserID, company.CompanyID,
		day.Add(9*time.Hour), day.Add(17*time.Hour), 1800)

	reason := "forgot checkout"
	newIn := day.Add(9*time.Hour + 15*time.Minute)
	newOut := day.Add(17*time.Hour + 10*time.Minute)

	adjusted, err := svc.Adjust(context.Background(), AdjustInput{
		SessionID: session.SessionID,
		CompanyID: company.CompanyID,
		ClockIn:   &newIn,
		ClockOut:  newOut,
		Reason:    &reason,
		ActorID:   42,
	})
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}

	if !adjusted.IsCorrected {
		t.Error("is_corrected not set")
	}
	if adjusted.CorrectedBy == nil || *adjusted.CorrectedBy != 42 {
		t.Errorf("corrected_by = %v, want 42", adjusted.CorrectedBy)
	}
	if adjusted.ReviewStatus == nil || *adjusted.ReviewStatus != models.ReviewStatusResolved {
		t.Errorf("review_status = %v, want resolved", adjusted.ReviewStatus)
	}
	if !adjusted.ClockInTime.Equal(newIn) || adjusted.ClockOutTime == nil || !adjusted.ClockOutTime.Equal(newOut) {
		t.Errorf("times not overwritten: in=%v out=%v", adjusted.ClockInTime, adjusted.ClockOutTime)
	}
	// (17:10 - 09:15) - 30m stored pause
	if want := int64(7*3600 + 55*60 - 1800); adjusted.TotalWorkDuration != want {
		t.Errorf("total_work_duration = %d, want %d", adjusted.TotalWorkDuration, want)
	}

	var logs []models.TimeEntryLog
	if err := db.Where("work_session_id = ?", session.SessionID).Find(&logs).Error; err != nil {
		t.Fatalf("failed to load logs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("time entry log count = %d, want 1", len(logs))
	}
	entry := logs[0]
	if !entry.OldClockIn.Equal(day.Add(9 * time.Hour)) {
		t.Errorf("old_clock_in = %v", entry.OldClockIn)
	}
	if !entry.NewClockIn.Equal(newIn) || !entry.NewClockOut.Equal(newOut) {
		t.Errorf("new values not logged: in=%v out=%v", entry.NewClockIn, entry.NewClockOut)
	}
	if entry.EditedBy != 42 {
		t.Errorf("edited_by = %d, want 42", entry.EditedBy)
	}
	if entry.Reason == nil || *entry.Reason != reason {
		t.Errorf("reason = %v, want %q", entry.Reason, reason)
	}
	if entry.OldDuration == entry.NewDuration {
		t.Error("old and new durations are identical, expected a change")
	}
}

func TestAdjustRejectsInvalidRange(t *testing.T) {
	db := openTestDB(t)
	company, worker := seedCompanyAndWorker(t, db)
	svc := NewService(db, nil)

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	session := seedClosedSession(t, db, worker.UserID, company.CompanyID,
		day.Add(9*time.Hour), day.Add(17*time.Hour), 0)

	for _, out := range []time.Time{day.Add(9 * time.Hour), day.Add(8 * time.Hour)} {
		_, err := svc.Adjust(context.Background(), AdjustInput{
			SessionID: session.SessionID,
			CompanyID: company.CompanyID,
			ClockOut:  out,
			ActorID:   1,
		})
		if !errors.Is(err, ErrInvalidRange) {
			t.Errorf("clock_out %v: got %v, want ErrInvalidRange", out, err)
		}
	}
}

func TestAdjustScopedToCompany(t *testing.T) {
	db := openTestDB(t)
	company, worker := seedCompanyAndWorker(t, db)
	svc := NewService(db, nil)

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	session := seedClosedSession(t, db, worker.UserID, company.CompanyID,
		day.Add(9*time.Hour), day.Add(17*time.Hour), 0)

	_, err := svc.Adjust(context.Background(), AdjustInput{
		SessionID: session.SessionID,
		CompanyID: company.CompanyID + 1,
		ClockOut:  day.Add(18 * time.Hour),
		ActorID:   1,
	})
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("foreign company adjust: got %v, want ErrSessionNotFound", err)
	}
}

func TestAdjustIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	company, worker := seedCompanyAndWorker(t, db)
	svc := NewService(db, nil)

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	session := seedClosedSession(t, db, worker.UserID, company.CompanyID,
		day.Add(9*time.Hour), day.Add(17*time.Hour), 0)

	in := AdjustInput{
		SessionID: session.SessionID,
		CompanyID: company.CompanyID,
		ClockOut:  day.Add(18 * time.Hour),
		ActorID:   7,
	}

	first, err := svc.Adjust(context.Background(), in)
	if err != nil {
		t.Fatalf("first adjust failed: %v", err)
	}
	second, err := svc.Adjust(context.Background(), in)
	if err != nil {
		t.Fatalf("second adjust failed: %v", err)
	}

	if first.TotalWorkDuration != second.TotalWorkDuration {
		t.Errorf("durations differ after re-apply: %d vs %d", first.TotalWorkDuration, second.TotalWorkDuration)
	}
	if !second.ClockOutTime.Equal(day.Add(18 * time.Hour)) {
		t.Errorf("clock_out drifted after re-apply: %v", second.ClockOutTime)
	}
}

func TestReviewQueueSelection(t *testing.T) {
	db := openTestDB(t)
	company, worker := seedCompanyAndWorker(t, db)
	svc := NewService(db, nil)

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	setStatus := func(s *models.WorkSession, status, review string) {
		s.Status = status
		if review == "" {
			s.ReviewStatus = nil
		} else {
			s.ReviewStatus = &review
		}
		if err := db.Save(s).Error; err != nil {
			t.Fatalf("failed to update session: %v", err)
		}
	}

	mk := func(offset time.Duration) *models.WorkSession {
		return seedClosedSession(t, db, worker.UserID, company.CompanyID,
			day.Add(offset), day.Add(offset+8*time.Hour), 0)
	}

	exceeded := mk(0)
	setStatus(exceeded, models.SessionStatusClosed, models.ReviewStatusExceededLimit)
	pending := mk(24 * time.Hour)
	setStatus(pending, models.SessionStatusClosed, models.ReviewStatusPendingReview)
	unclassified := mk(48 * time.Hour)
	setStatus(unclassified, models.SessionStatusClosed, "")
	autoClosed := mk(72 * time.Hour)
	setStatus(autoClosed, models.SessionStatusAutoClosed, models.ReviewStatusPendingReview)
	normal := mk(96 * time.Hour)
	setStatus(normal, models.SessionStatusClosed, models.ReviewStatusNormal)
	resolved := mk(120 * time.Hour)
	setStatus(resolved, models.SessionStatusClosed, models.ReviewStatusResolved)

	queue, err := svc.ReviewQueue(context.Background(), company.CompanyID)
	if err != nil {
		t.Fatalf("review queue failed: %v", err)
	}

	got := map[uint]bool{}
	for _, s := range queue {
		got[s.SessionID] = true
	}

	for _, want := range []*models.WorkSession{exceeded, pending, unclassified, autoClosed} {
		if !got[want.SessionID] {
			t.Errorf("session %d missing from review queue", want.SessionID)
		}
	}
	for _, skip := range []*models.WorkSession{normal, resolved} {
		if got[skip.SessionID] {
			t.Errorf("session %d unexpectedly in review queue", skip.SessionID)
		}
	}
}
