package models

import "time"

// User represents users table (authentication principal)
type User struct {
	UserID       uint      `gorm:"primaryKey;column:user_id" json:"user_id"`
	Email        string    `gorm:"type:varchar(150);not null;unique" json:"email"`
	FullName     string    `gorm:"type:varchar(150);not null" json:"full_name"`
	PasswordHash string    `gorm:"type:varchar(100);not null" json:"-"`
	IsSuperadmin bool      `gorm:"default:false" json:"is_superadmin"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	AvatarURL    *string   `gorm:"type:text" json:"avatar_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
