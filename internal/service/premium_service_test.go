package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/aliounendiaye221/J-ngatub-sub000/internal/model"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/repository"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/testutil"
)

func setupPremiumService(t *testing.T) (*PremiumService, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	service := NewPremiumService(
		repository.NewSubscriptionRepository(db),
		repository.NewUserRepository(db),
	)
	return service, db, func() { testutil.CleanupTestDB(t, db) }
}

func TestPremiumService_IsPremium_NoSubscription(t *testing.T) {
	service, db, cleanup := setupPremiumService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)

	isPremium, err := service.IsPremium(user.ID)
	require.NoError(t, err)
	assert.False(t, isPremium)
}

func TestPremiumService_IsPremium_ActiveSubscription(t *testing.T) {
	service, db, cleanup := setupPremiumService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	end := time.Now().AddDate(0, 0, 15)
	testutil.TestSubscription(t, db, user.ID,
		testutil.WithStatus(model.SubscriptionStatusActive),
		testutil.WithPeriod(time.Now().AddDate(0, 0, -15), &end),
	)

	isPremium, err := service.IsPremium(user.ID)
	require.NoError(t, err)
	assert.True(t, isPremium)
}

func TestPremiumService_IsPremium_ExpiredHealsFlag(t *testing.T) {
	service, db, cleanup := setupPremiumService(t)
	defer cleanup()

	// The flag says premium but the only subscription expired yesterday.
	user := testutil.TestUser(t, db, testutil.WithPremiumFlag(true))
	end := time.Now().AddDate(0, 0, -1)
	testutil.TestSubscription(t, db, user.ID,
		testutil.WithStatus(model.SubscriptionStatusActive),
		testutil.WithPeriod(time.Now().AddDate(0, 0, -31), &end),
	)

	isPremium, err := service.IsPremium(user.ID)
	require.NoError(t, err)
	assert.False(t, isPremium)

	// The stale cached flag was repaired on the way out.
	userRepo := repository.NewUserRepository(db)
	got, err := userRepo.GetByID(user.ID)
	require.NoError(t, err)
	assert.False(t, got.IsPremium)
}

func TestPremiumService_IsPremium_HealsFlagUpward(t *testing.T) {
	service, db, cleanup := setupPremiumService(t)
	defer cleanup()

	// Ledger says active but the flag was never set, e.g. a crash between
	// the two writes before they were put in one transaction.
	user := testutil.TestUser(t, db)
	end := time.Now().AddDate(0, 0, 20)
	testutil.TestSubscription(t, db, user.ID,
		testutil.WithStatus(model.SubscriptionStatusActive),
		testutil.WithPeriod(time.Now(), &end),
	)

	isPremium, err := service.IsPremium(user.ID)
	require.NoError(t, err)
	assert.True(t, isPremium)

	userRepo := repository.NewUserRepository(db)
	got, err := userRepo.GetByID(user.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPremium)
}

func TestPremiumService_IsPremium_PendingDoesNotCount(t *testing.T) {
	service, db, cleanup := setupPremiumService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	testutil.TestSubscription(t, db, user.ID)

	isPremium, err := service.IsPremium(user.ID)
	require.NoError(t, err)
	assert.False(t, isPremium)
}

func TestPremiumService_Status(t *testing.T) {
	service, db, cleanup := setupPremiumService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	end := time.Now().AddDate(0, 0, 300)
	testutil.TestSubscription(t, db, user.ID,
		testutil.WithPlan(model.PlanAnnual),
		testutil.WithStatus(model.SubscriptionStatusActive),
		testutil.WithPeriod(time.Now().AddDate(0, 0, -65), &end),
	)

	status, err := service.Status(user.ID)
	require.NoError(t, err)
	assert.True(t, status.IsPremium)
	assert.Equal(t, model.PlanAnnual, status.Plan)
	require.NotNil(t, status.EndAt)
	assert.Equal(t, end.Format(time.RFC3339), *status.EndAt)
}

func TestPremiumService_Status_Free(t *testing.T) {
	service, db, cleanup := setupPremiumService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)

	status, err := service.Status(user.ID)
	require.NoError(t, err)
	assert.False(t, status.IsPremium)
	assert.Empty(t, status.Plan)
	assert.Nil(t, status.EndAt)
}
