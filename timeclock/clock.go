// Package timeclock implements the clock state machine and the session
// review workflow. Per worker and company the states are
// OFF -> WORKING -> (PAUSED <-> WORKING) -> OFF; clocking out closes the
// session.
package timeclock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gtiq/events"
	"github.com/gtiq/models"
	"gorm.io/gorm"
)

// Clock actions accepted by Punch
const (
	ActionIn         = "in"
	ActionOut        = "out"
	ActionBreakStart = "break_start"
	ActionBreakEnd   = "break_end"
)

// Logical worker statuses reported back to the client
const (
	StatusWorking = "working"
	StatusPaused  = "paused"
	StatusOff     = "off"
)

// Service carries the clock and review operations
type Service struct {
	db        *gorm.DB
	publisher events.Publisher
}

// NewService creates a Service. publisher may be nil.
func NewService(db *gorm.DB, publisher events.Publisher) *Service {
	return &Service{db: db, publisher: publisher}
}

// PunchInput is one clock action with its evidence fields
type PunchInput struct {
	UserID    uint
	CompanyID uint
	Action    string
	Latitude  *float64
	Longitude *float64
	PhotoURL  *string
	DeviceID  *string
	Source    string
	At        time.Time // zero value means now
}

// PunchResult reports the outcome of a clock action
type PunchResult struct {
	Status    string              `json:"status"`
	EventType string              `json:"event_type"`
	Timestamp time.Time           `json:"timestamp"`
	Session   *models.WorkSession `json:"session,omitempty"`
}

// Punch validates the action against the worker's current session state,
// appends a TimeEvent and mutates the session row. Event append and session
// mutation run in one transaction so a crash cannot leave an event without
// its session change.
func (s *Service) Punch(ctx context.Context, in PunchInput) (*PunchResult, error) {
	if in.At.IsZero() {
		in.At = time.Now().UTC()
	}
	if in.Source == "" {
		in.Source = models.SourceWeb
	}

	var company models.Company
	err := s.db.WithContext(ctx).First(&company, in.CompanyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCompanyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load company: %w", err)
	}
	if company.IsSuspended() {
		return nil, ErrCompanySuspended
	}

	var result *PunchResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, err := activeSession(tx, in.UserID, in.CompanyID)
		if err != nil {
			return err
		}

		switch in.Action {
		case ActionIn:
			result, err = punchIn(tx, in, session)
		case ActionOut:
			result, err = punchOut(tx, in, session)
		case ActionBreakStart:
			result, err = breakStart(tx, in, session)
		case ActionBreakEnd:
			result, err = breakEnd(tx, in, session)
		default:
			err = ErrInvalidAction
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	events.PublishJSON(s.publisher, "time_event", events.TimeEventMessage{
		UserID:    in.UserID,
		CompanyID: in.CompanyID,
		EventType: result.EventType,
		Source:    in.Source,
		EventTime: in.At,
	})

	return result, nil
}

// ActiveSession returns the worker's open session, or nil if off the clock
func (s *Service) ActiveSession(ctx context.Context, userID, companyID uint) (*models.WorkSession, error) {
	return activeSession(s.db.WithContext(ctx), userID, companyID)
}

func activeSession(tx *gorm.DB, userID, companyID uint) (*models.WorkSession, error) {
	var session models.WorkSession
	err := tx.Where("user_id = ? AND company_id = ? AND is_active = ?", userID, companyID, true).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load active session: %w", err)
	}
	return &session, nil
}

func punchIn(tx *gorm.DB, in PunchInput, session *models.WorkSession) (*PunchResult, error) {
	if session != nil {
		return nil, ErrAlreadyActive
	}

	created := models.WorkSession{
		UserID:      in.UserID,
		CompanyID:   in.CompanyID,
		ClockInTime: in.At,
		IsActive:    true,
		Status:      models.SessionStatusOpen,
	}
	if err := tx.Create(&created).Error; err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if err := appendEvent(tx, in, models.EventClockIn); err != nil {
		return nil, err
	}

	return &PunchResult{Status: StatusWorking, EventType: models.EventClockIn, Timestamp: in.At, Session: &created}, nil
}

func punchOut(tx *gorm.DB, in PunchInput, session *models.WorkSession) (*PunchResult, error) {
	if session == nil {
		return nil, ErrNoActiveSession
	}

	// Clocking out while paused implicitly ends the break first
	if session.IsOnBreak && session.BreakStartedAt != nil {
		session.TotalPauseDuration += int64(in.At.Sub(*session.BreakStartedAt).Seconds())
	}

	out := in.At
	session.ClockOutTime = &out
	session.IsActive = false
	session.IsOnBreak = false
	session.BreakStartedAt = nil
	session.Status = models.SessionStatusClosed
	session.TotalWorkDuration = models.WorkDurationBetween(session.ClockInTime, out, session.TotalPauseDuration)
	if session.ReviewStatus == nil {
		normal := models.ReviewStatusNormal
		session.ReviewStatus = &normal
	}

	if err := tx.Save(session).Error; err != nil {
		return nil, fmt.Errorf("failed to close session: %w", err)
	}
	if err := appendEvent(tx, in, models.EventClockOut); err != nil {
		return nil, err
	}

	return &PunchResult{Status: StatusOff, EventType: models.EventClockOut, Timestamp: in.At, Session: session}, nil
}

func breakStart(tx *gorm.DB, in PunchInput, session *models.WorkSession) (*PunchResult, error) {
	if session == nil {
		return nil, ErrNoActiveSession
	}
	if session.IsOnBreak {
		return nil, ErrAlreadyOnBreak
	}

	at := in.At
	session.IsOnBreak = true
	session.BreakStartedAt = &at
	if err := tx.Save(session).Error; err != nil {
		return nil, fmt.Errorf("failed to start break: %w", err)
	}
	if err := appendEvent(tx, in, models.EventPauseStart); err != nil {
		return nil, err
	}

	return &PunchResult{Status: StatusPaused, EventType: models.EventPauseStart, Timestamp: in.At, Session: session}, nil
}

func breakEnd(tx *gorm.DB, in PunchInput, session *models.WorkSession) (*PunchResult, error) {
	if session == nil {
		return nil, ErrNoActiveSession
	}
	if !session.IsOnBreak {
		return nil, ErrNotOnBreak
	}

	if session.BreakStartedAt != nil {
		session.TotalPauseDuration += int64(in.At.Sub(*session.BreakStartedAt).Seconds())
	}
	session.IsOnBreak = false
	session.BreakStartedAt = nil
	if err := tx.Save(session).Error; err != nil {
		return nil, fmt.Errorf("failed to end break: %w", err)
	}
	if err := appendEvent(tx, in, models.EventPauseEnd); err != nil {
		return nil, err
	}

	return &PunchResult{Status: StatusWorking, EventType: models.EventPauseEnd, Timestamp: in.At, Session: session}, nil
}

func appendEvent(tx *gorm.DB, in PunchInput, eventType string) error {
	event := models.TimeEvent{
		UserID:    in.UserID,
		CompanyID: in.CompanyID,
		EventType: eventType,
		Source:    in.Source,
		DeviceID:  in.DeviceID,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		PhotoURL:  in.PhotoURL,
		EventTime: in.At,
	}
	if err := tx.Create(&event).Error; err != nil {
		return fmt.Errorf("failed to append time event: %w", err)
	}
	return nil
}
