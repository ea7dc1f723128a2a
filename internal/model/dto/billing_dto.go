package dto

type CreateCheckoutRequest struct {
	Plan string `json:"plan" binding:"required"`
}

// CheckoutResponse carries everything the client needs to hand the user off
// to the Wave payment page.
type CheckoutResponse struct {
	TxRef     string `json:"tx_ref"`
	LaunchURL string `json:"launch_url"`
	Plan      string `json:"plan"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

// PremiumStatus is the premium gate's answer, re-derived from the ledger.
type PremiumStatus struct {
	IsPremium bool    `json:"is_premium"`
	Plan      string  `json:"plan,omitempty"`
	EndAt     *string `json:"end_at,omitempty"` // RFC3339, nil = unbounded
}
