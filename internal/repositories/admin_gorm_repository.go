package repositories

import (
	"errors"
	"fmt"
	"time"

	"deeskinstore/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMAdminRepository is a GORM implementation of AdminRepository.
type GORMAdminRepository struct {
	db *gorm.DB
}

// NewGORMAdminRepository creates a new instance of GORMAdminRepository.
func NewGORMAdminRepository(db *gorm.DB) *GORMAdminRepository {
	return &GORMAdminRepository{
		db: db,
	}
}

// GetByEmail retrieves an admin by their email from the database.
func (r *GORMAdminRepository) GetByEmail(email string) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := r.db.First(&admin, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("admin with email %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get admin by email %s: %w", email, err)
	}
	return &admin, nil
}

// GetByID retrieves an admin by their ID from the database.
func (r *GORMAdminRepository) GetByID(id string) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := r.db.First(&admin, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("admin with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get admin by ID %s: %w", id, err)
	}
	return &admin, nil
}

// Create creates a new admin in the database.
func (r *GORMAdminRepository) Create(admin *models.AdminUser) error {
	if admin.ID == "" {
		admin.ID = uuid.New().String()
	}
	if err := r.db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

// TouchLastLogin stamps the admin's last login time.
func (r *GORMAdminRepository) TouchLastLogin(id string) error {
	res := r.db.Model(&models.AdminUser{}).Where("id = ?", id).Update("last_login", time.Now())
	if res.Error != nil {
		return fmt.Errorf("failed to update last login for admin %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("admin with ID %s: %w", id, ErrNotFound)
	}
	return nil
}
