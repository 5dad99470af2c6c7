package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"payment-webhook-relay/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// TxnStateStore implements ports.TxnStateStore on Redis. Latest state per
// transaction under "txn:{transactionId}"; each write overwrites the
// previous snapshot.
type TxnStateStore struct {
	client *goredis.Client
	prefix string
}

// NewTxnStateStore creates a Redis-backed transaction state store.
func NewTxnStateStore(client *goredis.Client) *TxnStateStore {
	return &TxnStateStore{
		client: client,
		prefix: "txn:",
	}
}

// Persist writes the transaction's latest state.
func (s *TxnStateStore) Persist(ctx context.Context, state *domain.TxnState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshaling transaction state: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+state.TransactionID, data, 0).Err(); err != nil {
		return fmt.Errorf("redis transaction state set: %w", err)
	}
	return nil
}

// Get retrieves the latest state for a transaction.
// Returns nil, nil if the transaction is unknown.
func (s *TxnStateStore) Get(ctx context.Context, transactionID string) (*domain.TxnState, error) {
	data, err := s.client.Get(ctx, s.prefix+transactionID).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis transaction state get: %w", err)
	}

	var state domain.TxnState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("unmarshaling transaction state: %w", err)
	}
	return &state, nil
}
