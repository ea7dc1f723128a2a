package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/aliounendiaye221/J-ngatub-sub000/internal/model"
)

// ErrAlreadyActivated means the conditional pending→active update touched
// zero rows: another delivery won the race. Callers treat it as idempotent
// success, not a failure.
var ErrAlreadyActivated = errors.New("subscription already activated")

// SubscriptionRepository is the ledger of checkout attempts. All subscription
// writes in the system go through it.
type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(sub *model.Subscription) error {
	return r.db.Create(sub).Error
}

func (r *SubscriptionRepository) GetByID(id int64) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.Where("id = ?", id).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// FindPendingByTxRef returns the pending ledger row for a checkout attempt,
// or nil when none exists.
func (r *SubscriptionRepository) FindPendingByTxRef(txRef, provider string) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.Where("tx_ref = ? AND provider = ? AND status = ?",
		txRef, provider, model.SubscriptionStatusPending).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// FindActiveByTxRef is the idempotency check for replayed webhooks.
func (r *SubscriptionRepository) FindActiveByTxRef(txRef string) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.Where("tx_ref = ? AND status = ?",
		txRef, model.SubscriptionStatusActive).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// CancelPendingByTxRef marks the pending attempt cancelled after a failed or
// abandoned payment. Cancelling an attempt that is no longer pending is a
// no-op.
func (r *SubscriptionRepository) CancelPendingByTxRef(txRef string) error {
	return r.db.Model(&model.Subscription{}).
		Where("tx_ref = ? AND status = ?", txRef, model.SubscriptionStatusPending).
		Update("status", model.SubscriptionStatusCancelled).Error
}

// FindCurrentActive returns the subscription granting premium access right
// now: active and not past its end date. nil when the user has none.
func (r *SubscriptionRepository) FindCurrentActive(userID int64) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.Where("user_id = ? AND status = ? AND (end_at IS NULL OR end_at >= ?)",
		userID, model.SubscriptionStatusActive, time.Now()).
		Order("created_at DESC").First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// ActivateTransaction performs the one multi-statement write of the billing
// flow atomically: cancel the user's other active subscriptions, flip the
// target row pending→active, and set the cached premium flag. The pending
// check in the UPDATE's WHERE clause is the compare-and-swap that makes two
// concurrent deliveries for the same txRef safe: the loser sees zero rows
// affected and gets ErrAlreadyActivated.
func (r *SubscriptionRepository) ActivateTransaction(subID, userID int64, endAt time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Subscription{}).
			Where("user_id = ? AND status = ? AND id <> ?",
				userID, model.SubscriptionStatusActive, subID).
			Update("status", model.SubscriptionStatusCancelled).Error; err != nil {
			return err
		}

		now := time.Now()
		res := tx.Model(&model.Subscription{}).
			Where("id = ? AND status = ?", subID, model.SubscriptionStatusPending).
			Updates(map[string]interface{}{
				"status":   model.SubscriptionStatusActive,
				"start_at": now,
				"end_at":   endAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyActivated
		}

		return tx.Model(&model.User{}).Where("id = ?", userID).
			Update("is_premium", true).Error
	})
}

// CancelStalePending cancels pending attempts older than cutoff whose
// checkout session can no longer complete. Used by the cleanup job.
func (r *SubscriptionRepository) CancelStalePending(cutoff time.Time) (int64, error) {
	res := r.db.Model(&model.Subscription{}).
		Where("status = ? AND created_at < ?", model.SubscriptionStatusPending, cutoff).
		Update("status", model.SubscriptionStatusCancelled)
	return res.RowsAffected, res.Error
}

// ListByUserID returns the user's subscription history, newest first.
func (r *SubscriptionRepository) ListByUserID(userID int64) ([]*model.Subscription, error) {
	var subs []*model.Subscription
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&subs).Error
	return subs, err
}

// CountActiveByUserID exists for the ledger invariant checks in tests and
// the admin dashboard: it must never exceed 1.
func (r *SubscriptionRepository) CountActiveByUserID(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Subscription{}).
		Where("user_id = ? AND status = ?", userID, model.SubscriptionStatusActive).
		Count(&count).Error
	return count, err
}
