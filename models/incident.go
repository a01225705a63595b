package models

import "time"

// Incident represents incidents table: anomaly tracking independent of the
// session rows themselves.
type Incident struct {
	IncidentID   uint       `gorm:"primaryKey;column:incident_id" json:"incident_id"`
	UserID       uint       `gorm:"not null;index" json:"user_id"`
	CompanyID    uint       `gorm:"not null;index" json:"company_id"`
	IncidentType string     `gorm:"type:varchar(50);not null" json:"incident_type"`
	Description  *string    `gorm:"type:text" json:"description,omitempty"`
	Status       string     `gorm:"type:varchar(20);not null;default:pending" json:"status"`
	ResolvedBy   *uint      `json:"resolved_by,omitempty"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName specifies the table name for Incident
func (Incident) TableName() string {
	return "incidents"
}

// Incident status constants
const (
	IncidentStatusPending   = "pending"
	IncidentStatusResolved  = "resolved"
	IncidentStatusDismissed = "dismissed"
)

// Incident type constants
const (
	IncidentHourLimitExceeded    = "hour_limit_exceeded"
	IncidentAutoClosed           = "session_auto_closed"
	IncidentMissedCheckout       = "missed_checkout"
	IncidentCheckinOutsideWindow = "checkin_outside_window"
	IncidentSundayWork           = "sunday_work"
)
