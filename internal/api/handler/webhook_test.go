package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/aliounendiaye221/J-ngatub-sub000/config"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/model"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/pkg/email"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/pkg/wave"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/repository"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/service"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/testutil"
)

const testWebhookSecret = "wave_sec_test_123"

func setupWebhookHandler(t *testing.T) (*gin.Engine, *stubProvider, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)

	cfg := &config.Config{
		Plans: map[string]config.PlanConfig{
			model.PlanMonthly: {Amount: "2500", Currency: "XOF"},
			model.PlanAnnual:  {Amount: "25000", Currency: "XOF"},
		},
	}

	// Succeeded deliveries are re-checked against the provider before
	// activating; the stub confirms them unless a test says otherwise.
	provider := &stubProvider{session: &wave.Session{PaymentStatus: wave.PaymentStatusSucceeded}}

	billingService := service.NewBillingService(
		repository.NewSubscriptionRepository(db),
		repository.NewUserRepository(db),
		provider,
		email.NewService(&cfg.Email),
		cfg,
	)

	handler := NewWebhookHandler(billingService, repository.NewWebhookEventRepository(db), testWebhookSecret)

	router := gin.New()
	router.POST("/webhooks/wave", handler.HandleWave)

	return router, provider, db, func() { testutil.CleanupTestDB(t, db) }
}

func waveEventBody(t *testing.T, eventID, eventType, sessionID, paymentStatus string) []byte {
	t.Helper()
	body, err := json.Marshal(wave.WebhookEvent{
		ID:   eventID,
		Type: eventType,
		Data: wave.Session{
			ID:            sessionID,
			PaymentStatus: paymentStatus,
		},
	})
	require.NoError(t, err)
	return body
}

func postWebhook(router *gin.Engine, body []byte, signed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/webhooks/wave", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signed {
		req.Header.Set(wave.SignatureHeader, wave.Sign(testWebhookSecret, body))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestWebhookHandler_SucceededPayment_Activates(t *testing.T) {
	router, _, db, cleanup := setupWebhookHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	testutil.TestSubscription(t, db, user.ID, testutil.WithTxRef("cos-wh-1"))

	body := waveEventBody(t, "evt-1", wave.EventCheckoutCompleted, "cos-wh-1", wave.PaymentStatusSucceeded)
	w := postWebhook(router, body, true)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["activated"])
	assert.Equal(t, false, resp["idempotent"])

	userRepo := repository.NewUserRepository(db)
	u, err := userRepo.GetByID(user.ID)
	require.NoError(t, err)
	assert.True(t, u.IsPremium)
}

func TestWebhookHandler_Replay_Idempotent(t *testing.T) {
	router, _, db, cleanup := setupWebhookHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	testutil.TestSubscription(t, db, user.ID, testutil.WithTxRef("cos-wh-2"))

	body := waveEventBody(t, "evt-2", wave.EventCheckoutCompleted, "cos-wh-2", wave.PaymentStatusSucceeded)

	first := postWebhook(router, body, true)
	assert.Equal(t, http.StatusOK, first.Code)

	second := postWebhook(router, body, true)
	assert.Equal(t, http.StatusOK, second.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["activated"])
	assert.Equal(t, true, resp["idempotent"])

	subRepo := repository.NewSubscriptionRepository(db)
	count, err := subRepo.CountActiveByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestWebhookHandler_BadSignature(t *testing.T) {
	router, _, db, cleanup := setupWebhookHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	sub := testutil.TestSubscription(t, db, user.ID, testutil.WithTxRef("cos-wh-3"))

	body := waveEventBody(t, "evt-3", wave.EventCheckoutCompleted, "cos-wh-3", wave.PaymentStatusSucceeded)
	w := postWebhook(router, body, false)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	// A well-formed body with a bad signature is rejected as a signature
	// failure, not a payload one.
	var errResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "invalid signature", errResp["error"])

	// Nothing was activated.
	subRepo := repository.NewSubscriptionRepository(db)
	got, err := subRepo.GetByID(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionStatusPending, got.Status)

	// But the delivery is in the audit trail, marked unverified.
	webhookRepo := repository.NewWebhookEventRepository(db)
	event, err := webhookRepo.GetByEventID(model.ProviderWave, "evt-3")
	require.NoError(t, err)
	assert.False(t, event.SignatureValid)
}

func TestWebhookHandler_TamperedBody(t *testing.T) {
	router, _, _, cleanup := setupWebhookHandler(t)
	defer cleanup()

	body := waveEventBody(t, "evt-4", wave.EventCheckoutCompleted, "cos-wh-4", wave.PaymentStatusSucceeded)
	signature := wave.Sign(testWebhookSecret, body)

	tampered := bytes.Replace(body, []byte("cos-wh-4"), []byte("cos-wh-X"), 1)
	req := httptest.NewRequest("POST", "/webhooks/wave", bytes.NewReader(tampered))
	req.Header.Set(wave.SignatureHeader, signature)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookHandler_UnknownSession(t *testing.T) {
	router, _, _, cleanup := setupWebhookHandler(t)
	defer cleanup()

	body := waveEventBody(t, "evt-5", wave.EventCheckoutCompleted, "cos-ghost", wave.PaymentStatusSucceeded)
	w := postWebhook(router, body, true)

	// 404 makes the provider retry: the checkout row may still be on its
	// way into the ledger.
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWebhookHandler_CancelledPayment(t *testing.T) {
	router, _, db, cleanup := setupWebhookHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	sub := testutil.TestSubscription(t, db, user.ID, testutil.WithTxRef("cos-wh-6"))

	body := waveEventBody(t, "evt-6", wave.EventCheckoutCompleted, "cos-wh-6", wave.PaymentStatusCancelled)
	w := postWebhook(router, body, true)

	assert.Equal(t, http.StatusOK, w.Code)

	subRepo := repository.NewSubscriptionRepository(db)
	got, err := subRepo.GetByID(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionStatusCancelled, got.Status)
}

func TestWebhookHandler_FailedPayment_CancelsPending(t *testing.T) {
	router, _, db, cleanup := setupWebhookHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	sub := testutil.TestSubscription(t, db, user.ID, testutil.WithTxRef("cos-wh-9"))

	body := waveEventBody(t, "evt-9", wave.EventCheckoutCompleted, "cos-wh-9", "failed")
	w := postWebhook(router, body, true)

	// Received and settled: the provider must not retry a failed payment.
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["activated"])

	subRepo := repository.NewSubscriptionRepository(db)
	got, err := subRepo.GetByID(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionStatusCancelled, got.Status)
}

func TestWebhookHandler_ProviderDisagrees_Rejected(t *testing.T) {
	router, provider, db, cleanup := setupWebhookHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	sub := testutil.TestSubscription(t, db, user.ID, testutil.WithTxRef("cos-wh-10"))

	// The delivery claims succeeded, the provider queried directly says
	// cancelled. The delivery is rejected and nothing activates.
	provider.session.PaymentStatus = wave.PaymentStatusCancelled

	body := waveEventBody(t, "evt-10", wave.EventCheckoutCompleted, "cos-wh-10", wave.PaymentStatusSucceeded)
	w := postWebhook(router, body, true)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	subRepo := repository.NewSubscriptionRepository(db)
	got, err := subRepo.GetByID(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionStatusPending, got.Status)

	userRepo := repository.NewUserRepository(db)
	u, err := userRepo.GetByID(user.ID)
	require.NoError(t, err)
	assert.False(t, u.IsPremium)
}

func TestWebhookHandler_UnknownEventType_Acked(t *testing.T) {
	router, _, _, cleanup := setupWebhookHandler(t)
	defer cleanup()

	body := waveEventBody(t, "evt-7", "merchant.updated", "", "")
	w := postWebhook(router, body, true)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookHandler_MalformedBody(t *testing.T) {
	router, _, _, cleanup := setupWebhookHandler(t)
	defer cleanup()

	body := []byte("pas du json")
	w := postWebhook(router, body, true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookHandler_AuditTrail(t *testing.T) {
	router, _, db, cleanup := setupWebhookHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	testutil.TestSubscription(t, db, user.ID, testutil.WithTxRef("cos-wh-8"))

	body := waveEventBody(t, "evt-8", wave.EventCheckoutCompleted, "cos-wh-8", wave.PaymentStatusSucceeded)
	postWebhook(router, body, true)

	webhookRepo := repository.NewWebhookEventRepository(db)
	event, err := webhookRepo.GetByEventID(model.ProviderWave, "evt-8")
	require.NoError(t, err)
	assert.Equal(t, wave.EventCheckoutCompleted, event.EventType)
	assert.True(t, event.SignatureValid)
	assert.JSONEq(t, string(body), event.Payload)
}
