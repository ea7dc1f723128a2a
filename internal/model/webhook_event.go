package model

import (
	"time"
)

// WebhookEvent is an audit row for every webhook delivery we accepted the
// signature of. The unique (provider, event_id) index makes replays visible
// without making them errors.
type WebhookEvent struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	Provider        string    `gorm:"size:20;not null;uniqueIndex:ux_webhook_events_provider_event" json:"provider"`
	EventID         string    `gorm:"size:100;not null;uniqueIndex:ux_webhook_events_provider_event" json:"event_id"`
	EventType       string    `gorm:"size:100;not null;index" json:"event_type"`
	Payload         string    `gorm:"type:text" json:"-"`
	SignatureValid  bool      `gorm:"default:false" json:"signature_valid"`
	ProcessingError string    `gorm:"size:500" json:"processing_error,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func (WebhookEvent) TableName() string {
	return "webhook_events"
}
