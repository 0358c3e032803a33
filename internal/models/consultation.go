package models

import "time"

// ConsultationRequest is a customer's request for a skincare consultation.
// Requests are persisted and forwarded to the email worker over the
// message queue.
type ConsultationRequest struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" validate:"required,min=2,max=100"`
	Email     string    `json:"email" validate:"required,email"`
	Phone     string    `json:"phone" validate:"required,min=7,max=20"`
	Reason    string    `json:"reason" validate:"required,max=2000"`
	CreatedAt time.Time `json:"created_at"`
}
