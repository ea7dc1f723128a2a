package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aliounendiaye221/J-ngatub-sub000/internal/model"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/pkg/wave"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/repository"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/service"
)

const maxWebhookBody = 1 << 20 // 1 MiB

// WebhookHandler receives payment notifications from Wave. Unlike the rest
// of the API it answers with plain HTTP status codes: the provider retries
// any non-2xx response, so the codes are the retry protocol.
//
//	200: processed (fresh activation or idempotent replay)
//	400: bad signature or a payload we will never be able to process
//	404: no ledger row for this session yet; retry may succeed later
//	500: transient failure on our side; retry
type WebhookHandler struct {
	billingService *service.BillingService
	webhookRepo    *repository.WebhookEventRepository
	webhookSecret  string
}

func NewWebhookHandler(billingService *service.BillingService, webhookRepo *repository.WebhookEventRepository, webhookSecret string) *WebhookHandler {
	return &WebhookHandler{
		billingService: billingService,
		webhookRepo:    webhookRepo,
		webhookSecret:  webhookSecret,
	}
}

// HandleWave
// POST /api/v1/webhooks/wave
func (h *WebhookHandler) HandleWave(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "read body failed"})
		return
	}

	signatureValid := wave.VerifySignature(h.webhookSecret, body, c.GetHeader(wave.SignatureHeader))

	// The HMAC is computed on the raw bytes above; the body is parsed
	// before the signature rejection only because the audit row needs the
	// event id.
	var event wave.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	// Audit every delivery, valid or not. Replays hit the unique index and
	// are skipped; a failed insert never blocks processing.
	if err := h.webhookRepo.Record(&model.WebhookEvent{
		Provider:       model.ProviderWave,
		EventID:        event.ID,
		EventType:      event.Type,
		Payload:        string(body),
		SignatureValid: signatureValid,
	}); err != nil {
		log.Printf("record webhook event %s failed: %v", event.ID, err)
	}

	if !signatureValid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	if event.Type != wave.EventCheckoutCompleted {
		// Unknown event types are acknowledged so the provider stops
		// retrying something we will never handle.
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	result, err := h.billingService.ReconcileSession(c.Request.Context(), event.Data.ID, event.Data.PaymentStatus)
	if err != nil {
		h.recordError(event.ID, err)
		switch {
		case errors.Is(err, service.ErrSubscriptionMissing):
			// The checkout row may not be committed yet; the provider's
			// retry gives it time to appear.
			c.JSON(http.StatusNotFound, gin.H{"error": "subscription not found"})
		case errors.Is(err, service.ErrPaymentNotVerified):
			c.JSON(http.StatusBadRequest, gin.H{"error": "payment not verified"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "processing failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"received":   true,
		"activated":  result.Activated,
		"idempotent": result.Idempotent,
	})
}

func (h *WebhookHandler) recordError(eventID string, err error) {
	if dbErr := h.webhookRepo.SetProcessingError(model.ProviderWave, eventID, err.Error()); dbErr != nil {
		log.Printf("record webhook processing error for %s failed: %v", eventID, dbErr)
	}
}
