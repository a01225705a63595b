package models

import "time"

// TimeEntryLog represents time_entry_logs table: one row per manager
// correction capturing before/after values for the audit trail.
type TimeEntryLog struct {
	LogID          uint       `gorm:"primaryKey;column:log_id" json:"log_id"`
	WorkSessionID  uint       `gorm:"not null;index" json:"work_session_id"`
	CompanyID      uint       `gorm:"not null;index" json:"company_id"`
	EditedBy       uint       `gorm:"not null" json:"edited_by"`
	OldClockIn     time.Time  `json:"old_clock_in"`
	NewClockIn     time.Time  `json:"new_clock_in"`
	OldClockOut    *time.Time `json:"old_clock_out,omitempty"`
	NewClockOut    time.Time  `json:"new_clock_out"`
	OldDuration    int64      `json:"old_duration"`
	NewDuration    int64      `json:"new_duration"`
	Reason         *string    `gorm:"type:text" json:"reason,omitempty"`
	ImpersonatorID *uint      `json:"impersonator_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// TableName specifies the table name for TimeEntryLog
func (TimeEntryLog) TableName() string {
	return "time_entry_logs"
}
