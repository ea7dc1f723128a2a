package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/aliounendiaye221/J-ngatub-sub000/config"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/model"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/model/dto"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/pkg/email"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/pkg/wave"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/repository"
)

var (
	ErrPlanNotConfigured   = errors.New("formule d'abonnement non configurée")
	ErrSubscriptionMissing = errors.New("aucun abonnement ne correspond à ce paiement")
	ErrPaymentNotVerified  = errors.New("le paiement n'a pas pu être confirmé")
)

// CheckoutProvider is what the billing flow needs from the payment provider.
// Satisfied by *wave.Client; tests substitute their own.
type CheckoutProvider interface {
	CreateSession(ctx context.Context, amount, currency, clientReference string) (*wave.Session, error)
	GetSession(ctx context.Context, sessionID string) (*wave.Session, error)
}

// ActivationResult reports what a reconciliation actually did, so the webhook
// handler can distinguish a fresh activation from a replayed delivery.
type ActivationResult struct {
	Activated  bool
	Idempotent bool
	UserID     int64
	Plan       string
	EndAt      *time.Time
}

// BillingService owns the checkout flow and the payment-to-entitlement
// reconciliation. The subscription ledger is the single source of truth;
// users.is_premium is a cache it maintains.
type BillingService struct {
	subRepo  *repository.SubscriptionRepository
	userRepo *repository.UserRepository
	provider CheckoutProvider
	emailSvc *email.Service
	cfg      *config.Config
}

func NewBillingService(
	subRepo *repository.SubscriptionRepository,
	userRepo *repository.UserRepository,
	provider CheckoutProvider,
	emailSvc *email.Service,
	cfg *config.Config,
) *BillingService {
	return &BillingService{
		subRepo:  subRepo,
		userRepo: userRepo,
		provider: provider,
		emailSvc: emailSvc,
		cfg:      cfg,
	}
}

// CreateCheckout opens a Wave checkout session for the plan and records the
// attempt as a pending ledger row keyed by the session ID. Pending rows that
// never complete are swept by the cleanup job.
func (s *BillingService) CreateCheckout(ctx context.Context, userID int64, plan string) (*dto.CheckoutResponse, error) {
	if !model.ValidPlan(plan) {
		return nil, model.ErrUnknownPlan
	}
	planCfg, ok := s.cfg.Plans[plan]
	if !ok {
		return nil, ErrPlanNotConfigured
	}

	clientReference := fmt.Sprintf("sub-%d-%d", userID, time.Now().UnixNano())
	session, err := s.provider.CreateSession(ctx, planCfg.Amount, planCfg.Currency, clientReference)
	if err != nil {
		return nil, err
	}

	sub := &model.Subscription{
		UserID:   userID,
		Plan:     plan,
		Status:   model.SubscriptionStatusPending,
		TxRef:    session.ID,
		Provider: model.ProviderWave,
		Amount:   planCfg.Amount,
		Currency: planCfg.Currency,
	}
	if err := s.subRepo.Create(sub); err != nil {
		return nil, err
	}

	resp := &dto.CheckoutResponse{
		TxRef:     session.ID,
		LaunchURL: session.WaveLaunchURL,
		Plan:      plan,
		Amount:    planCfg.Amount,
		Currency:  planCfg.Currency,
	}
	if session.WhenExpires != nil {
		resp.ExpiresAt = session.WhenExpires.Format(time.RFC3339)
	}
	return resp, nil
}

// ReconcileSession advances the ledger row for txRef based on the payment
// status the provider reported.
//
// succeeded   → re-fetch the session from the provider, then activate
//               (compare-and-swap; a lost race on a replayed delivery is
//               reported as Idempotent success)
// processing  → leave the row pending, the provider will call again
// any other   → cancel the pending row: cancelled, failed and statuses this
//               version does not know are all terminal without a payment
//
// A succeeded payment with no matching ledger row at all returns
// ErrSubscriptionMissing so the caller can make the provider retry later.
func (s *BillingService) ReconcileSession(ctx context.Context, txRef, paymentStatus string) (*ActivationResult, error) {
	switch paymentStatus {
	case wave.PaymentStatusSucceeded:
		if err := s.confirmSucceeded(ctx, txRef); err != nil {
			return nil, err
		}
		return s.activate(ctx, txRef)
	case wave.PaymentStatusProcessing:
		return &ActivationResult{}, nil
	default:
		// Cancelling the pending row here means a redelivery of the same
		// terminal status gets acknowledged instead of retried forever.
		if err := s.subRepo.CancelPendingByTxRef(txRef); err != nil {
			return nil, err
		}
		return &ActivationResult{}, nil
	}
}

// confirmSucceeded asks the provider for the session before any activation.
// A provider that answers and disagrees blocks the activation with
// ErrPaymentNotVerified; a provider that cannot be reached does not block
// it, the signed delivery already vouches for the payment.
func (s *BillingService) confirmSucceeded(ctx context.Context, txRef string) error {
	session, err := s.provider.GetSession(ctx, txRef)
	if err != nil {
		log.Printf("independent check of session %s failed, proceeding: %v", txRef, err)
		return nil
	}
	if session.PaymentStatus != wave.PaymentStatusSucceeded {
		return ErrPaymentNotVerified
	}
	return nil
}

func (s *BillingService) activate(ctx context.Context, txRef string) (*ActivationResult, error) {
	sub, err := s.subRepo.FindPendingByTxRef(txRef, model.ProviderWave)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		// Already activated by an earlier delivery? Then this one is a
		// replay and must succeed without touching anything.
		active, err := s.subRepo.FindActiveByTxRef(txRef)
		if err != nil {
			return nil, err
		}
		if active != nil {
			return &ActivationResult{
				Idempotent: true,
				UserID:     active.UserID,
				Plan:       active.Plan,
				EndAt:      active.EndAt,
			}, nil
		}
		return nil, ErrSubscriptionMissing
	}

	days, err := model.PlanDurationDays(sub.Plan)
	if err != nil {
		return nil, err
	}
	endAt := time.Now().AddDate(0, 0, days)

	if err := s.subRepo.ActivateTransaction(sub.ID, sub.UserID, endAt); err != nil {
		if errors.Is(err, repository.ErrAlreadyActivated) {
			return &ActivationResult{
				Idempotent: true,
				UserID:     sub.UserID,
				Plan:       sub.Plan,
			}, nil
		}
		return nil, err
	}

	s.sendConfirmation(sub.UserID, sub.Plan, endAt)

	return &ActivationResult{
		Activated: true,
		UserID:    sub.UserID,
		Plan:      sub.Plan,
		EndAt:     &endAt,
	}, nil
}

// CheckSessionStatus is the manual poll path for when a webhook never
// arrived: ask the provider directly, then reconcile exactly as the webhook
// would have.
func (s *BillingService) CheckSessionStatus(ctx context.Context, userID int64, txRef string) (*dto.PremiumStatus, error) {
	sub, err := s.subRepo.FindPendingByTxRef(txRef, model.ProviderWave)
	if err != nil {
		return nil, err
	}
	if sub != nil && sub.UserID != userID {
		return nil, ErrSubscriptionMissing
	}

	session, err := s.provider.GetSession(ctx, txRef)
	if err != nil {
		return nil, err
	}

	if _, err := s.ReconcileSession(ctx, txRef, session.PaymentStatus); err != nil &&
		!errors.Is(err, ErrSubscriptionMissing) {
		return nil, err
	}

	return s.premiumStatus(userID)
}

// ListSubscriptions returns the user's full subscription history.
func (s *BillingService) ListSubscriptions(userID int64) ([]*model.Subscription, error) {
	return s.subRepo.ListByUserID(userID)
}

// CancelStalePending sweeps pending checkout attempts older than maxAge.
func (s *BillingService) CancelStalePending(maxAge time.Duration) (int64, error) {
	return s.subRepo.CancelStalePending(time.Now().Add(-maxAge))
}

func (s *BillingService) premiumStatus(userID int64) (*dto.PremiumStatus, error) {
	sub, err := s.subRepo.FindCurrentActive(userID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return &dto.PremiumStatus{IsPremium: false}, nil
	}
	status := &dto.PremiumStatus{IsPremium: true, Plan: sub.Plan}
	if sub.EndAt != nil {
		endAt := sub.EndAt.Format(time.RFC3339)
		status.EndAt = &endAt
	}
	return status, nil
}

func (s *BillingService) sendConfirmation(userID int64, plan string, endAt time.Time) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil || user.Email == nil {
		return
	}
	if err := s.emailSvc.SendPremiumConfirmation(*user.Email, plan, endAt.Format("02/01/2006")); err != nil {
		log.Printf("send premium confirmation to user %d failed: %v", userID, err)
	}
}
