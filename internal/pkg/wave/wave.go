package wave

import (
	"errors"
	"fmt"
	"time"
)

// Checkout session statuses as reported by the Wave API.
const (
	CheckoutStatusOpen     = "open"
	CheckoutStatusComplete = "complete"
	CheckoutStatusExpired  = "expired"

	PaymentStatusProcessing = "processing"
	PaymentStatusSucceeded  = "succeeded"
	PaymentStatusCancelled  = "cancelled"
)

const EventCheckoutCompleted = "checkout.session.completed"

// ErrMissingAPIKey means no provider credential is configured. Not retryable.
var ErrMissingAPIKey = errors.New("wave: api key not configured")

// ProviderError is a non-success response from the Wave API. The caller may
// retry at its own discretion; the client never retries session creation on
// its own since that could duplicate an external payment session.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("wave: provider returned %d: %s", e.StatusCode, e.Body)
}

// Session is a Wave checkout session as returned by the API and embedded in
// webhook payloads.
type Session struct {
	ID              string     `json:"id"`
	Amount          string     `json:"amount"`
	Currency        string     `json:"currency"`
	CheckoutStatus  string     `json:"checkout_status"`
	PaymentStatus   string     `json:"payment_status"`
	ClientReference string     `json:"client_reference"`
	WaveLaunchURL   string     `json:"wave_launch_url"`
	TransactionID   string     `json:"transaction_id,omitempty"`
	WhenCreated     *time.Time `json:"when_created,omitempty"`
	WhenCompleted   *time.Time `json:"when_completed,omitempty"`
	WhenExpires     *time.Time `json:"when_expires,omitempty"`
}

// WebhookEvent is the envelope Wave POSTs to the webhook endpoint.
type WebhookEvent struct {
	ID   string  `json:"id"`
	Type string  `json:"type"`
	Data Session `json:"data"`
}
