package ports

import (
	"context"

	"payment-webhook-relay/internal/core/domain"
)

// RegistrationStore is the durable keyed store for webhook registrations.
// Single-key writes are atomic at the storage layer; no further locking is
// required for one merchant's key.
type RegistrationStore interface {
	// Set unconditionally overwrites the registration for its merchant.
	Set(ctx context.Context, reg *domain.WebhookRegistration) error
	// Get returns nil, nil when no registration exists — absence is an
	// expected condition, not an error.
	Get(ctx context.Context, merchantID string) (*domain.WebhookRegistration, error)
	// Delete removes the registration; deleting a missing key succeeds.
	Delete(ctx context.Context, merchantID string) error
}

// TxnStateStore persists the per-transaction projection. Last write wins
// by ingestion order; no compare-and-set is applied.
type TxnStateStore interface {
	Persist(ctx context.Context, state *domain.TxnState) error
	// Get returns nil, nil when the transaction is unknown.
	Get(ctx context.Context, transactionID string) (*domain.TxnState, error)
}

// DeliveryLogStore is the append-only audit trail of delivery attempts.
type DeliveryLogStore interface {
	Append(ctx context.Context, entry *domain.DeliveryLogEntry) error
	// ListByTransaction returns entries newest-first, capped at limit.
	ListByTransaction(ctx context.Context, transactionID string, limit int) ([]domain.DeliveryLogEntry, error)
}
