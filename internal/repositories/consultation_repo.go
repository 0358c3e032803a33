package repositories

import (
	"fmt"

	"deeskinstore/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConsultationRepository defines the interface for consultation requests.
type ConsultationRepository interface {
	GetAll() ([]models.ConsultationRequest, error)
	Create(request *models.ConsultationRequest) error
}

// GORMConsultationRepository is a GORM implementation of ConsultationRepository.
type GORMConsultationRepository struct {
	db *gorm.DB
}

// NewGORMConsultationRepository creates a new instance of GORMConsultationRepository.
func NewGORMConsultationRepository(db *gorm.DB) *GORMConsultationRepository {
	return &GORMConsultationRepository{
		db: db,
	}
}

// GetAll retrieves all consultation requests, newest first.
func (r *GORMConsultationRepository) GetAll() ([]models.ConsultationRequest, error) {
	var requests []models.ConsultationRequest
	if err := r.db.Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to get consultation requests: %w", err)
	}
	return requests, nil
}

// Create creates a new consultation request in the database.
func (r *GORMConsultationRepository) Create(request *models.ConsultationRequest) error {
	if request.ID == "" {
		request.ID = uuid.New().String()
	}
	if err := r.db.Create(request).Error; err != nil {
		return fmt.Errorf("failed to create consultation request: %w", err)
	}
	return nil
}
