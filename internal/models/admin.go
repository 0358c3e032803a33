package models

import "time"

// Admin roles.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleModerator  = "moderator"
)

// AdminUser represents a back-office user of the store.
type AdminUser struct {
	ID           string     `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email        string     `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	PasswordHash string     `json:"-" gorm:"type:varchar(255)"`
	FullName     string     `json:"full_name" validate:"required,min=2,max=100"`
	Role         string     `json:"role" validate:"required,oneof=super_admin admin moderator"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
