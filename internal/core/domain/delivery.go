package domain

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryLogEntry records one webhook delivery attempt. Entries are
// append-only and form the full audit trail for a transaction; the same
// transaction accumulates entries across every webhook-triggering event.
type DeliveryLogEntry struct {
	ID            uuid.UUID `json:"id"`
	TransactionID string    `json:"transaction_id"`
	MerchantID    string    `json:"merchant_id"`
	Attempt       int       `json:"attempt"` // 1-based
	HTTPStatus    *int      `json:"http_status"`    // nil on network-level failure
	ResponseBody  *string   `json:"response_body"`  // best-effort capture
	Error         *string   `json:"error"`          // set only on network-level failure
	Timestamp     time.Time `json:"timestamp"`
}

// Succeeded reports whether the attempt got a 2xx response.
func (e *DeliveryLogEntry) Succeeded() bool {
	return e.HTTPStatus != nil && *e.HTTPStatus >= 200 && *e.HTTPStatus < 300
}
