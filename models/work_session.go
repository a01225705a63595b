package models

import "time"

// WorkSession represents work_sessions table: one clock-in-to-clock-out span.
// At most one session with is_active=true may exist per (user_id, company_id);
// the service layer checks this on every clock-in and a partial unique index
// backs it up on Postgres.
type WorkSession struct {
	SessionID          uint       `gorm:"primaryKey;column:session_id" json:"session_id"`
	UserID             uint       `gorm:"not null;index:idx_work_sessions_user_company" json:"user_id"`
	CompanyID          uint       `gorm:"not null;index:idx_work_sessions_user_company" json:"company_id"`
	ClockInTime        time.Time  `gorm:"not null" json:"clock_in_time"`
	ClockOutTime       *time.Time `json:"clock_out_time,omitempty"`
	IsActive           bool       `gorm:"not null;default:false;index" json:"is_active"`
	IsOnBreak          bool       `gorm:"not null;default:false" json:"is_on_break"`
	BreakStartedAt     *time.Time `json:"break_started_at,omitempty"`
	Status             string     `gorm:"type:varchar(20);not null;default:open" json:"status"`
	ReviewStatus       *string    `gorm:"type:varchar(20);index" json:"review_status,omitempty"`
	TotalPauseDuration int64      `gorm:"not null;default:0" json:"total_pause_duration"`
	TotalWorkDuration  int64      `gorm:"not null;default:0" json:"total_work_duration"`
	IsCorrected        bool       `gorm:"not null;default:false" json:"is_corrected"`
	CorrectedBy        *uint      `json:"corrected_by,omitempty"`
	CorrectedAt        *time.Time `json:"corrected_at,omitempty"`
	CorrectionReason   *string    `gorm:"type:text" json:"correction_reason,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// TableName specifies the table name for WorkSession
func (WorkSession) TableName() string {
	return "work_sessions"
}

// Session status constants
const (
	SessionStatusOpen       = "open"
	SessionStatusClosed     = "closed"
	SessionStatusAutoClosed = "auto_closed"
)

// Review status constants. A nil ReviewStatus means the session has not been
// classified yet and still shows up in the review queue.
const (
	ReviewStatusNormal        = "normal"
	ReviewStatusExceededLimit = "exceeded_limit"
	ReviewStatusPendingReview = "pending_review"
	ReviewStatusResolved      = "resolved"
)

// Durations are stored in whole seconds.

// WorkDurationBetween computes the net worked seconds for a span after
// subtracting accumulated pause time, clamped to zero.
func WorkDurationBetween(clockIn, clockOut time.Time, pauseSeconds int64) int64 {
	worked := int64(clockOut.Sub(clockIn).Seconds()) - pauseSeconds
	if worked < 0 {
		return 0
	}
	return worked
}
