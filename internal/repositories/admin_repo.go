package repositories

import (
	"deeskinstore/internal/models"
)

// AdminRepository defines the interface for back-office user data access.
type AdminRepository interface {
	GetByEmail(email string) (*models.AdminUser, error)
	GetByID(id string) (*models.AdminUser, error)
	Create(admin *models.AdminUser) error
	TouchLastLogin(id string) error
}
