package services

import (
	"context"
	"fmt"

	"deeskinstore/internal/metrics"
	"deeskinstore/internal/models"
	"deeskinstore/internal/repositories"
	"deeskinstore/pkg/rabbitmq"

	"github.com/rs/zerolog"
)

// ConsultationService persists consultation requests and hands them to the
// email worker over the message queue.
type ConsultationService struct {
	repo    repositories.ConsultationRepository
	events  EventPublisher
	metrics *metrics.StoreMetrics
	logger  zerolog.Logger
}

// NewConsultationService creates a new ConsultationService.
func NewConsultationService(repo repositories.ConsultationRepository, events EventPublisher, m *metrics.StoreMetrics, logger zerolog.Logger) *ConsultationService {
	return &ConsultationService{
		repo:    repo,
		events:  events,
		metrics: m,
		logger:  logger,
	}
}

// SubmitRequest persists the request and publishes it for the email worker.
func (s *ConsultationService) SubmitRequest(ctx context.Context, request *models.ConsultationRequest) error {
	if err := s.repo.Create(request); err != nil {
		return fmt.Errorf("failed to submit consultation request: %w", err)
	}

	s.metrics.RecordConsultation(ctx)

	if s.events != nil {
		payload := map[string]interface{}{
			"request_id": request.ID,
			"name":       request.Name,
			"email":      request.Email,
			"phone":      request.Phone,
			"reason":     request.Reason,
		}
		if err := s.events.Publish(rabbitmq.EventConsultationRequested, payload); err != nil {
			// The request is saved; the email can be sent from a later sweep.
			s.logger.Warn().Err(err).Str("request_id", request.ID).Msg("failed to publish consultation event")
		}
	}
	return nil
}

// GetAllRequests lists consultation requests for the back office.
func (s *ConsultationService) GetAllRequests() ([]models.ConsultationRequest, error) {
	return s.repo.GetAll()
}
