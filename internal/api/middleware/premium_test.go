package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/aliounendiaye221/J-ngatub-sub000/config"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/model"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/pkg/response"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/repository"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/service"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/testutil"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{Secret: testJWTSecret, ExpireHours: 24},
	}
}

func setupPremiumRouter(t *testing.T, db *gorm.DB, userID int64) *gin.Engine {
	t.Helper()

	premiumService := service.NewPremiumService(
		repository.NewSubscriptionRepository(db),
		repository.NewUserRepository(db),
	)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(UserIDKey, userID)
		c.Next()
	})
	router.Use(RequirePremium(premiumService))
	router.GET("/api/v1/quizzes", func(c *gin.Context) {
		response.Success(c, gin.H{"ok": true})
	})
	return router
}

func TestRequirePremium_Subscriber(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	user := testutil.TestUser(t, db)
	end := time.Now().AddDate(0, 0, 10)
	testutil.TestSubscription(t, db, user.ID,
		testutil.WithStatus(model.SubscriptionStatusActive),
		testutil.WithPeriod(time.Now(), &end),
	)

	router := setupPremiumRouter(t, db, user.ID)

	req := httptest.NewRequest("GET", "/api/v1/quizzes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeSuccess, resp.Code)
}

func TestRequirePremium_FreeUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	user := testutil.TestUser(t, db)
	router := setupPremiumRouter(t, db, user.ID)

	req := httptest.NewRequest("GET", "/api/v1/quizzes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodePremiumRequired, resp.Code)
}

func TestRequirePremium_StaleFlagDenied(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	// Flag says premium, ledger says the subscription expired. The gate
	// trusts the ledger.
	user := testutil.TestUser(t, db, testutil.WithPremiumFlag(true))
	end := time.Now().AddDate(0, 0, -5)
	testutil.TestSubscription(t, db, user.ID,
		testutil.WithStatus(model.SubscriptionStatusActive),
		testutil.WithPeriod(time.Now().AddDate(0, 0, -35), &end),
	)

	router := setupPremiumRouter(t, db, user.ID)

	req := httptest.NewRequest("GET", "/api/v1/quizzes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodePremiumRequired, resp.Code)
}

func TestRequireRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	teacher := testutil.TestUser(t, db,
		testutil.WithUsername("prof"),
		testutil.WithRole(model.RoleTeacher),
	)
	student := testutil.TestUser(t, db, testutil.WithUsername("eleve"))

	authService := service.NewAuthService(
		repository.NewUserRepository(db), nil,
		testAuthConfig(),
	)

	newRouter := func(userID int64) *gin.Engine {
		router := gin.New()
		router.Use(func(c *gin.Context) {
			c.Set(UserIDKey, userID)
			c.Next()
		})
		router.Use(RequireRole(authService, model.RoleTeacher, model.RoleAdmin))
		router.POST("/documents", func(c *gin.Context) {
			response.Success(c, nil)
		})
		return router
	}

	w := httptest.NewRecorder()
	newRouter(teacher.ID).ServeHTTP(w, httptest.NewRequest("POST", "/documents", nil))
	assert.Equal(t, response.CodeSuccess, parseResponse(t, w).Code)

	w = httptest.NewRecorder()
	newRouter(student.ID).ServeHTTP(w, httptest.NewRequest("POST", "/documents", nil))
	assert.Equal(t, response.CodePermissionDenied, parseResponse(t, w).Code)
}

func TestIsPremiumRoute(t *testing.T) {
	assert.True(t, IsPremiumRoute("/api/v1/quizzes"))
	assert.True(t, IsPremiumRoute("/api/v1/quizzes/42"))
	assert.False(t, IsPremiumRoute("/api/v1/documents"))
	assert.False(t, IsPremiumRoute("/api/v1/billing/premium"))
	assert.False(t, IsPremiumRoute(""))
}
