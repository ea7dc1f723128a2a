package model

import (
	"time"
)

const (
	SubscriptionStatusPending   = "pending"
	SubscriptionStatusActive    = "active"
	SubscriptionStatusCancelled = "cancelled"
)

const ProviderWave = "wave"

// Subscription is one row of the subscription ledger: a single checkout
// attempt identified by its external transaction reference. A renewal is a
// new row; activation of a new row cancels the previous active one.
type Subscription struct {
	ID        int64      `gorm:"primaryKey" json:"id"`
	UserID    int64      `gorm:"not null;index" json:"user_id"`
	Plan      string     `gorm:"size:20;not null" json:"plan"` // monthly, annual
	Status    string     `gorm:"size:20;default:pending;index" json:"status"` // pending, active, cancelled
	TxRef     string     `gorm:"size:100;uniqueIndex;not null" json:"tx_ref"`
	Provider  string     `gorm:"size:20;not null;default:wave" json:"provider"`
	Amount    string     `gorm:"size:20" json:"amount,omitempty"`
	Currency  string     `gorm:"size:10" json:"currency,omitempty"`
	StartAt   *time.Time `json:"start_at,omitempty"`
	EndAt     *time.Time `gorm:"index" json:"end_at,omitempty"` // nil = unbounded
	CreatedAt time.Time  `json:"created_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive
}

// CurrentAt reports whether the subscription grants premium access at t.
func (s *Subscription) CurrentAt(t time.Time) bool {
	if s.Status != SubscriptionStatusActive {
		return false
	}
	return s.EndAt == nil || !s.EndAt.Before(t)
}
