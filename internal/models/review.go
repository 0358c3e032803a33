package models

import "time"

// Review is a customer product review. Reviews are created unapproved and
// only show on the storefront once an admin approves them.
type Review struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID  string    `json:"product_id" gorm:"index;type:varchar(36)" validate:"required"`
	CustomerID *string   `json:"customer_id" gorm:"type:varchar(36)"`
	Rating     int       `json:"rating" validate:"required,gte=1,lte=5"`
	Comment    string    `json:"comment" validate:"omitempty,max=2000"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
