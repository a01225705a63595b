package timeclock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gtiq/models"
	"gorm.io/gorm"
)

// ReviewQueue returns the sessions a manager needs to look at: flagged by the
// sweep, never classified, or auto-closed.
func (s *Service) ReviewQueue(ctx context.Context, companyID uint) ([]models.WorkSession, error) {
	var sessions []models.WorkSession
	err := s.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("review_status IN ? OR review_status IS NULL OR status = ?",
			[]string{models.ReviewStatusExceededLimit, models.ReviewStatusPendingReview},
			models.SessionStatusAutoClosed).
		Order("clock_in_time DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load review queue: %w", err)
	}
	return sessions, nil
}

// AdjustInput is a manager correction of a session's recorded times
type AdjustInput struct {
	SessionID uint
	CompanyID uint
	ClockIn   *time.Time // nil keeps the stored clock-in
	ClockOut  time.Time
	Reason    *string
	ActorID   uint
	// MarkNormal selects the owner-adjust path: the session ends up
	// review_status=normal instead of resolved.
	MarkNormal     bool
	ImpersonatorID *uint
}

// Adjust overwrites a session's times, recomputes its duration from the
// stored pause total and appends a TimeEntryLog row with the before/after
// values. Re-applying the same correction is safe: the write is an overwrite,
// not an increment.
func (s *Service) Adjust(ctx context.Context, in AdjustInput) (*models.WorkSession, error) {
	var adjusted *models.WorkSession
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session models.WorkSession
		err := tx.Where("session_id = ? AND company_id = ?", in.SessionID, in.CompanyID).
			First(&session).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}

		newClockIn := session.ClockInTime
		if in.ClockIn != nil {
			newClockIn = *in.ClockIn
		}
		if !in.ClockOut.After(newClockIn) {
			return ErrInvalidRange
		}

		logRow := models.TimeEntryLog{
			WorkSessionID:  session.SessionID,
			CompanyID:      session.CompanyID,
			EditedBy:       in.ActorID,
			OldClockIn:     session.ClockInTime,
			NewClockIn:     newClockIn,
			OldClockOut:    session.ClockOutTime,
			NewClockOut:    in.ClockOut,
			OldDuration:    session.TotalWorkDuration,
			Reason:         in.Reason,
			ImpersonatorID: in.ImpersonatorID,
		}

		now := time.Now().UTC()
		out := in.ClockOut
		status := models.ReviewStatusResolved
		if in.MarkNormal {
			status = models.ReviewStatusNormal
		}

		session.ClockInTime = newClockIn
		session.ClockOutTime = &out
		session.IsActive = false
		session.IsOnBreak = false
		session.BreakStartedAt = nil
		session.Status = models.SessionStatusClosed
		session.TotalWorkDuration = models.WorkDurationBetween(newClockIn, out, session.TotalPauseDuration)
		session.ReviewStatus = &status
		session.IsCorrected = true
		session.CorrectedBy = &in.ActorID
		session.CorrectedAt = &now
		session.CorrectionReason = in.Reason

		if err := tx.Save(&session).Error; err != nil {
			return fmt.Errorf("failed to save correction: %w", err)
		}

		logRow.NewDuration = session.TotalWorkDuration
		if err := tx.Create(&logRow).Error; err != nil {
			return fmt.Errorf("failed to append correction log: %w", err)
		}

		adjusted = &session
		return nil
	})
	if err != nil {
		return nil, err
	}
	return adjusted, nil
}
