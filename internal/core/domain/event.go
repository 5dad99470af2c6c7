package domain

import (
	"fmt"
	"time"
)

// EventStatus is the lifecycle status carried by a payment event.
// The set is closed; anything else is rejected at the ingestion boundary.
type EventStatus string

const (
	StatusInitiated EventStatus = "initiated"
	StatusPending   EventStatus = "pending"
	StatusCompleted EventStatus = "completed"
	StatusFailed    EventStatus = "failed"
	StatusRefunded  EventStatus = "refunded"
)

// EventTypePrefix prefixes every derived event type ("payment.completed", ...).
const EventTypePrefix = "payment."

// Valid reports whether s belongs to the closed status set.
func (s EventStatus) Valid() bool {
	switch s {
	case StatusInitiated, StatusPending, StatusCompleted, StatusFailed, StatusRefunded:
		return true
	}
	return false
}

// Terminal reports whether s is a terminal lifecycle status.
func (s EventStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusRefunded:
		return true
	}
	return false
}

// PaymentEvent is an immutable fact about one status transition of a
// payment transaction. Multiple events may exist per transaction, one per
// transition.
type PaymentEvent struct {
	TransactionID string            `json:"transactionId"`
	MerchantID    string            `json:"merchantId"`
	Status        EventStatus       `json:"status"`
	Amount        float64           `json:"amount"`
	Currency      string            `json:"currency"`
	OccurredAt    time.Time         `json:"occurredAt"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// EventType derives the subscription/topic type for the event,
// e.g. "payment.completed".
func (e *PaymentEvent) EventType() string {
	return EventTypePrefix + string(e.Status)
}

// Validate checks the event against the PaymentEvent schema.
func (e *PaymentEvent) Validate() error {
	if e.TransactionID == "" {
		return fmt.Errorf("transactionId is required")
	}
	if e.MerchantID == "" {
		return fmt.Errorf("merchantId is required")
	}
	if !e.Status.Valid() {
		return fmt.Errorf("unknown status %q", e.Status)
	}
	if e.Amount < 0 {
		return fmt.Errorf("amount must be non-negative, got %v", e.Amount)
	}
	if len(e.Currency) < 3 || len(e.Currency) > 10 {
		return fmt.Errorf("currency must be 3-10 characters, got %q", e.Currency)
	}
	if e.OccurredAt.IsZero() {
		return fmt.Errorf("occurredAt is required")
	}
	return nil
}
