package timeclock

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gtiq/compliance"
	"github.com/gtiq/events"
	"github.com/gtiq/models"
	"gorm.io/gorm"
)

// SweepStale auto-closes open sessions older than the owning company's
// auto-close threshold. The session is closed at clock_in + threshold, marked
// auto_closed/pending_review and a synthetic clock_out event (source=system)
// is appended. Returns the number of sessions closed.
func (s *Service) SweepStale(ctx context.Context, now time.Time) (int, error) {
	var open []models.WorkSession
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("clock_in_time").
		Find(&open).Error
	if err != nil {
		return 0, fmt.Errorf("failed to load open sessions: %w", err)
	}

	policies := map[uint]compliance.Effective{}
	closed := 0

	for i := range open {
		session := &open[i]

		eff, ok := policies[session.CompanyID]
		if !ok {
			eff = s.effectivePolicy(ctx, session.CompanyID, 0)
			policies[session.CompanyID] = eff
		}

		cutoff := session.ClockInTime.Add(time.Duration(eff.AutoCloseAfterHours) * time.Hour)
		if !now.After(cutoff) {
			continue
		}

		if err := s.autoClose(ctx, session, cutoff); err != nil {
			log.Printf("sweep: failed to auto-close session %d: %v", session.SessionID, err)
			continue
		}
		closed++

		events.PublishJSON(s.publisher, "review_flag", events.ReviewFlagMessage{
			SessionID:    session.SessionID,
			UserID:       session.UserID,
			CompanyID:    session.CompanyID,
			ReviewStatus: models.ReviewStatusPendingReview,
		})
	}

	return closed, nil
}

func (s *Service) autoClose(ctx context.Context, session *models.WorkSession, at time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if session.IsOnBreak && session.BreakStartedAt != nil {
			session.TotalPauseDuration += int64(at.Sub(*session.BreakStartedAt).Seconds())
		}

		pending := models.ReviewStatusPendingReview
		out := at
		session.ClockOutTime = &out
		session.IsActive = false
		session.IsOnBreak = false
		session.BreakStartedAt = nil
		session.Status = models.SessionStatusAutoClosed
		session.ReviewStatus = &pending
		session.TotalWorkDuration = models.WorkDurationBetween(session.ClockInTime, out, session.TotalPauseDuration)

		if err := tx.Save(session).Error; err != nil {
			return err
		}

		event := models.TimeEvent{
			UserID:    session.UserID,
			CompanyID: session.CompanyID,
			EventType: models.EventClockOut,
			Source:    models.SourceSystem,
			EventTime: at,
		}
		return tx.Create(&event).Error
	})
}

// FlagLimitBreaches checks every worker's closed hours in the current week
// and month against the effective policy and flags offenders: their most
// recent closed session gets review_status=exceeded_limit and one pending
// incident is recorded per worker. A worker with no session this week is
// still checked against the monthly cap. Returns the number of workers
// flagged.
func (s *Service) FlagLimitBreaches(ctx context.Context, now time.Time) (int, error) {
	weekStart, _ := compliance.WeekRange(now)
	monthStart, monthEnd := compliance.MonthRange(now)

	weekly, err := s.aggregateWorked(ctx, weekStart, weekStart.AddDate(0, 0, 7))
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate weekly hours: %w", err)
	}
	monthly, err := s.aggregateWorked(ctx, monthStart, monthEnd)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate monthly hours: %w", err)
	}

	// The week can straddle a month boundary, so neither set contains the other
	workers := make(map[workerKey]struct{}, len(monthly))
	for key := range weekly {
		workers[key] = struct{}{}
	}
	for key := range monthly {
		workers[key] = struct{}{}
	}

	flagged := 0
	for key := range workers {
		eff := s.effectivePolicy(ctx, key.CompanyID, key.UserID)

		if !eff.ExceedsWeekly(weekly[key]) && !eff.ExceedsMonthly(monthly[key]) {
			continue
		}

		if err := s.flagWorker(ctx, key.UserID, key.CompanyID); err != nil {
			log.Printf("sweep: failed to flag user %d in company %d: %v", key.UserID, key.CompanyID, err)
			continue
		}
		flagged++
	}

	return flagged, nil
}

type workerKey struct {
	UserID    uint
	CompanyID uint
}

// aggregateWorked sums closed-session durations per worker over the
// half-open window [from, to).
func (s *Service) aggregateWorked(ctx context.Context, from, to time.Time) (map[workerKey]int64, error) {
	type workerTotal struct {
		UserID    uint
		CompanyID uint
		Total     int64
	}

	var rows []workerTotal
	err := s.db.WithContext(ctx).
		Model(&models.WorkSession{}).
		Select("user_id, company_id, SUM(total_work_duration) AS total").
		Where("status IN ?", []string{models.SessionStatusClosed, models.SessionStatusAutoClosed}).
		Where("clock_in_time >= ? AND clock_in_time < ?", from, to).
		Group("user_id, company_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make(map[workerKey]int64, len(rows))
	for _, row := range rows {
		totals[workerKey{UserID: row.UserID, CompanyID: row.CompanyID}] = row.Total
	}
	return totals, nil
}

// FlagScheduleViolations scans sessions clocked in during the lookback window
// ending at now and files incidents for clock-ins outside the company's
// check-in window or on a disallowed Sunday. One pending incident per worker
// and type. Returns the number of incidents filed.
func (s *Service) FlagScheduleViolations(ctx context.Context, now time.Time, lookback time.Duration) (int, error) {
	var sessions []models.WorkSession
	err := s.db.WithContext(ctx).
		Where("clock_in_time >= ? AND clock_in_time <= ?", now.Add(-lookback), now).
		Order("clock_in_time").
		Find(&sessions).Error
	if err != nil {
		return 0, fmt.Errorf("failed to load recent sessions: %w", err)
	}

	filed := 0
	for i := range sessions {
		session := &sessions[i]
		eff := s.effectivePolicy(ctx, session.CompanyID, session.UserID)

		if !eff.InCheckinWindow(session.ClockInTime) {
			n, err := s.fileIncident(ctx, session.UserID, session.CompanyID,
				models.IncidentCheckinOutsideWindow, "clock-in outside the allowed check-in window")
			if err != nil {
				log.Printf("sweep: failed to file window incident for user %d: %v", session.UserID, err)
			} else {
				filed += n
			}
		}

		if !eff.SundayAllowed(session.ClockInTime) {
			n, err := s.fileIncident(ctx, session.UserID, session.CompanyID,
				models.IncidentSundayWork, "work on a disallowed Sunday")
			if err != nil {
				log.Printf("sweep: failed to file sunday incident for user %d: %v", session.UserID, err)
			} else {
				filed += n
			}
		}
	}

	return filed, nil
}

// fileIncident records one pending incident per (worker, company, type).
// Returns 1 when a new incident was created.
func (s *Service) fileIncident(ctx context.Context, userID, companyID uint, incidentType, description string) (int, error) {
	created := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pending int64
		err := tx.Model(&models.Incident{}).
			Where("user_id = ? AND company_id = ? AND incident_type = ? AND status = ?",
				userID, companyID, incidentType, models.IncidentStatusPending).
			Count(&pending).Error
		if err != nil {
			return err
		}
		if pending > 0 {
			return nil
		}

		incident := models.Incident{
			UserID:       userID,
			CompanyID:    companyID,
			IncidentType: incidentType,
			Description:  &description,
			Status:       models.IncidentStatusPending,
		}
		if err := tx.Create(&incident).Error; err != nil {
			return err
		}
		created = 1
		return nil
	})
	return created, err
}

func (s *Service) flagWorker(ctx context.Context, userID, companyID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var latest models.WorkSession
		err := tx.Where("user_id = ? AND company_id = ?", userID, companyID).
			Where("status IN ?", []string{models.SessionStatusClosed, models.SessionStatusAutoClosed}).
			Order("clock_in_time DESC").
			First(&latest).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		// Resolved corrections stay resolved
		if latest.ReviewStatus == nil || *latest.ReviewStatus != models.ReviewStatusResolved {
			exceeded := models.ReviewStatusExceededLimit
			latest.ReviewStatus = &exceeded
			if err := tx.Save(&latest).Error; err != nil {
				return err
			}
		}

		// One pending incident per worker, not one per sweep run
		var pending int64
		err = tx.Model(&models.Incident{}).
			Where("user_id = ? AND company_id = ? AND incident_type = ? AND status = ?",
				userID, companyID, models.IncidentHourLimitExceeded, models.IncidentStatusPending).
			Count(&pending).Error
		if err != nil {
			return err
		}
		if pending > 0 {
			return nil
		}

		desc := "configured hour limit exceeded"
		incident := models.Incident{
			UserID:       userID,
			CompanyID:    companyID,
			IncidentType: models.IncidentHourLimitExceeded,
			Description:  &desc,
			Status:       models.IncidentStatusPending,
		}
		return tx.Create(&incident).Error
	})
}

// effectivePolicy merges company settings with a worker rule; userID 0 skips
// the worker lookup.
func (s *Service) effectivePolicy(ctx context.Context, companyID, userID uint) compliance.Effective {
	var settings *models.ComplianceSettings
	var found models.ComplianceSettings
	err := s.db.WithContext(ctx).Where("company_id = ?", companyID).First(&found).Error
	if err == nil {
		settings = &found
	}

	var rule *models.WorkerDayRule
	if userID != 0 {
		var foundRule models.WorkerDayRule
		err := s.db.WithContext(ctx).
			Where("company_id = ? AND user_id = ?", companyID, userID).
			First(&foundRule).Error
		if err == nil {
			rule = &foundRule
		}
	}

	return compliance.Merge(settings, rule)
}
