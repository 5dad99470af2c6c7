package domain

import "time"

// TxnState is the latest known projection of a transaction. It mirrors
// the most recently ingested event (last write wins by ingestion order,
// not by OccurredAt) and is overwritten on each subsequent event.
type TxnState struct {
	TransactionID string       `json:"transaction_id"`
	MerchantID    string       `json:"merchant_id"`
	Status        EventStatus  `json:"status"`
	UpdatedAt     time.Time    `json:"updated_at"`
	LastEvent     PaymentEvent `json:"last_event"`
}

// NewTxnState projects an event into transaction state. now is the
// ingestion timestamp, distinct from the event's OccurredAt.
func NewTxnState(event PaymentEvent, now time.Time) *TxnState {
	return &TxnState{
		TransactionID: event.TransactionID,
		MerchantID:    event.MerchantID,
		Status:        event.Status,
		UpdatedAt:     now,
		LastEvent:     event,
	}
}
