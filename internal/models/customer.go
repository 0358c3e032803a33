package models

import "time"

// Customer represents a storefront customer. A record is created the first
// time an email address completes a checkout; guest orders reference it so
// repeat buyers keep a single customer row.
type Customer struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	FullName  string    `json:"full_name" validate:"required,min=2,max=100"`
	Phone     string    `json:"phone" validate:"required,min=7,max=20"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
