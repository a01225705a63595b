package models

import "time"

// TimeEvent represents time_events table: the append-only clock audit trail.
// Rows are never updated or deleted.
type TimeEvent struct {
	EventID   uint      `gorm:"primaryKey;column:event_id" json:"event_id"`
	UserID    uint      `gorm:"not null;index:idx_time_events_user_company" json:"user_id"`
	CompanyID uint      `gorm:"not null;index:idx_time_events_user_company" json:"company_id"`
	EventType string    `gorm:"type:varchar(20);not null" json:"event_type"`
	Source    string    `gorm:"type:varchar(20);not null;default:web" json:"source"`
	DeviceID  *string   `gorm:"type:varchar(100)" json:"device_id,omitempty"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	PhotoURL  *string   `gorm:"type:text" json:"photo_url,omitempty"`
	EventTime time.Time `gorm:"not null;index" json:"event_time"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for TimeEvent
func (TimeEvent) TableName() string {
	return "time_events"
}

// Event type constants
const (
	EventClockIn    = "clock_in"
	EventClockOut   = "clock_out"
	EventPauseStart = "pause_start"
	EventPauseEnd   = "pause_end"
)

// Event source constants
const (
	SourceWeb    = "web"
	SourceMobile = "mobile"
	SourceKiosk  = "kiosk"
	SourceSystem = "system"
)
