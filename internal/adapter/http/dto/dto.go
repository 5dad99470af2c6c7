package dto

import "time"

// RegisterWebhookRequest is the request body for webhook registration.
type RegisterWebhookRequest struct {
	URL    string   `json:"url" binding:"required"`
	Secret string   `json:"secret" binding:"required"`
	Events []string `json:"events,omitempty"`
}

// WebhookResponse is the registration as returned to the merchant. The
// secret is always masked.
type WebhookResponse struct {
	MerchantID string   `json:"merchant_id"`
	URL        string   `json:"url"`
	Secret     string   `json:"secret"`
	Events     []string `json:"events"`
}

// TransactionResponse is the latest known state of a transaction.
type TransactionResponse struct {
	TransactionID string    `json:"transaction_id"`
	MerchantID    string    `json:"merchant_id"`
	Status        string    `json:"status"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DeliveryLogEntryResponse is one webhook delivery attempt.
type DeliveryLogEntryResponse struct {
	ID           string    `json:"id"`
	Attempt      int       `json:"attempt"`
	HTTPStatus   *int      `json:"http_status"`
	ResponseBody *string   `json:"response_body,omitempty"`
	Error        *string   `json:"error,omitempty"`
	Succeeded    bool      `json:"succeeded"`
	Timestamp    time.Time `json:"timestamp"`
}

// VerifyRequest is the request body for inbound signature verification.
type VerifyRequest struct {
	Payload   string `json:"payload" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

// VerifyResponse reports the outcome of a signature check.
type VerifyResponse struct {
	Valid bool `json:"valid"`
}
