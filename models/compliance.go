package models

import "time"

// ComplianceSettings represents compliance_settings table: company-level
// policy consulted by the reconciliation sweep, not enforced inside the
// clock path itself.
type ComplianceSettings struct {
	SettingsID          uint      `gorm:"primaryKey;column:settings_id" json:"settings_id"`
	CompanyID           uint      `gorm:"not null;unique" json:"company_id"`
	MaxWeeklyHours      float64   `gorm:"not null;default:40" json:"max_weekly_hours"`
	MaxMonthlyHours     float64   `gorm:"not null;default:160" json:"max_monthly_hours"`
	CheckinWindowStart  *string   `gorm:"type:varchar(5)" json:"checkin_window_start,omitempty"`
	CheckinWindowEnd    *string   `gorm:"type:varchar(5)" json:"checkin_window_end,omitempty"`
	AllowSunday         bool      `gorm:"not null;default:false" json:"allow_sunday"`
	AllowHolidays       bool      `gorm:"not null;default:false" json:"allow_holidays"`
	AutoCloseAfterHours int       `gorm:"not null;default:16" json:"auto_close_after_hours"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// TableName specifies the table name for ComplianceSettings
func (ComplianceSettings) TableName() string {
	return "compliance_settings"
}

// WorkerDayRule represents worker_day_rules table: per-worker policy override.
// Nil fields inherit the company-level setting.
type WorkerDayRule struct {
	RuleID             uint      `gorm:"primaryKey;column:rule_id" json:"rule_id"`
	CompanyID          uint      `gorm:"not null;uniqueIndex:idx_worker_day_rules_company_user" json:"company_id"`
	UserID             uint      `gorm:"not null;uniqueIndex:idx_worker_day_rules_company_user" json:"user_id"`
	MaxWeeklyHours     *float64  `json:"max_weekly_hours,omitempty"`
	MaxMonthlyHours    *float64  `json:"max_monthly_hours,omitempty"`
	CheckinWindowStart *string   `gorm:"type:varchar(5)" json:"checkin_window_start,omitempty"`
	CheckinWindowEnd   *string   `gorm:"type:varchar(5)" json:"checkin_window_end,omitempty"`
	AllowSunday        *bool     `json:"allow_sunday,omitempty"`
	AllowHolidays      *bool     `json:"allow_holidays,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TableName specifies the table name for WorkerDayRule
func (WorkerDayRule) TableName() string {
	return "worker_day_rules"
}
