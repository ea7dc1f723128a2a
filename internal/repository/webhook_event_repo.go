package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aliounendiaye221/J-ngatub-sub000/internal/model"
)

type WebhookEventRepository struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) *WebhookEventRepository {
	return &WebhookEventRepository{db: db}
}

// Record stores a delivery for audit. A replayed delivery hits the unique
// (provider, event_id) index and is silently skipped; recording is never
// allowed to fail a webhook.
func (r *WebhookEventRepository) Record(event *model.WebhookEvent) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(event).Error
}

func (r *WebhookEventRepository) GetByEventID(provider, eventID string) (*model.WebhookEvent, error) {
	var event model.WebhookEvent
	err := r.db.Where("provider = ? AND event_id = ?", provider, eventID).First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// SetProcessingError annotates the audit row with what went wrong, for the
// operator digging into a stuck activation.
func (r *WebhookEventRepository) SetProcessingError(provider, eventID, message string) error {
	return r.db.Model(&model.WebhookEvent{}).
		Where("provider = ? AND event_id = ?", provider, eventID).
		Update("processing_error", message).Error
}
