package service

import (
	"log"
	"time"

	"github.com/aliounendiaye221/J-ngatub-sub000/internal/model/dto"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/repository"
)

// PremiumService answers "does this user have premium access right now".
// It always consults the subscription ledger, never the cached flag: the
// flag can be stale after an expiry, and the ledger cannot.
type PremiumService struct {
	subRepo  *repository.SubscriptionRepository
	userRepo *repository.UserRepository
}

func NewPremiumService(subRepo *repository.SubscriptionRepository, userRepo *repository.UserRepository) *PremiumService {
	return &PremiumService{subRepo: subRepo, userRepo: userRepo}
}

// IsPremium re-derives premium access from the ledger. When the cached
// users.is_premium flag disagrees with the answer it is repaired in place,
// so an expired subscription heals on the first gated request after expiry.
func (s *PremiumService) IsPremium(userID int64) (bool, error) {
	sub, err := s.subRepo.FindCurrentActive(userID)
	if err != nil {
		return false, err
	}
	isPremium := sub != nil && sub.CurrentAt(time.Now())

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		// The access decision stands even if the cache repair cannot run.
		return isPremium, nil
	}
	if user.IsPremium != isPremium {
		if err := s.userRepo.SetPremiumFlag(userID, isPremium); err != nil {
			log.Printf("repair premium flag for user %d failed: %v", userID, err)
		}
	}

	return isPremium, nil
}

// Status returns the full premium status for the profile page.
func (s *PremiumService) Status(userID int64) (*dto.PremiumStatus, error) {
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
