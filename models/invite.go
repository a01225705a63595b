package models

import "time"

// Invite represents invites table: a pending offer to join a company
type Invite struct {
	InviteID  uint       `gorm:"primaryKey;column:invite_id" json:"invite_id"`
	CompanyID uint       `gorm:"not null;index" json:"company_id"`
	Email     string     `gorm:"type:varchar(150);not null" json:"email"`
	Role      string     `gorm:"type:varchar(20);not null" json:"role"`
	Token     string     `gorm:"type:varchar(40);not null;unique" json:"token"`
	Status    string     `gorm:"type:varchar(20);not null;default:pending" json:"status"`
	InvitedBy uint       `gorm:"not null" json:"invited_by"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Relationships
	Company Company `gorm:"foreignKey:CompanyID;references:CompanyID" json:"company,omitempty"`
}

// TableName specifies the table name for Invite
func (Invite) TableName() string {
	return "invites"
}

// Invite status constants
const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
	InviteStatusRevoked  = "revoked"
)
