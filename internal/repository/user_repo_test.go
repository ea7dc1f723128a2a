package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliounendiaye221/J-ngatub-sub000/internal/model"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/testutil"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)

	hash := "hashed"
	email := "aminata@example.com"
	user := &model.User{
		Username:     "aminata",
		Email:        &email,
		PasswordHash: &hash,
		Role:         model.RoleStudent,
	}
	require.NoError(t, repo.Create(user))
	assert.NotZero(t, user.ID)

	byID, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "aminata", byID.Username)

	byEmail, err := repo.GetByEmail("aminata@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byName, err := repo.GetByUsername("aminata")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
}

func TestUserRepository_GetByGoogleID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)
	user := testutil.TestUser(t, db)

	require.NoError(t, repo.UpdateFields(user.ID, map[string]interface{}{
		"google_id": "google-12345",
	}))

	got, err := repo.GetByGoogleID("google-12345")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestUserRepository_SetPremiumFlag(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)
	user := testutil.TestUser(t, db)
	assert.False(t, user.IsPremium)

	require.NoError(t, repo.SetPremiumFlag(user.ID, true))

	got, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPremium)

	require.NoError(t, repo.SetPremiumFlag(user.ID, false))

	got, err = repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.False(t, got.IsPremium)
}

func TestUserRepository_Exists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)
	testutil.TestUser(t, db,
		testutil.WithUsername("moussa"),
		testutil.WithEmail("moussa@example.com"),
	)

	exists, err := repo.ExistsByEmail("moussa@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail("autre@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ExistsByUsername("moussa")
	require.NoError(t, err)
	assert.True(t, exists)
}
