package integration

import (
	"context"
	"sort"
	"sync"

	"payment-webhook-relay/internal/core/domain"
)

// inMemoryDeliveryLogStore stands in for the PostgreSQL audit table so the
// full relay pipeline runs without a database.
type inMemoryDeliveryLogStore struct {
	mu      sync.RWMutex
	entries []domain.DeliveryLogEntry
}

func newInMemoryDeliveryLogStore() *inMemoryDeliveryLogStore {
	return &inMemoryDeliveryLogStore{}
}

func (s *inMemoryDeliveryLogStore) Append(ctx context.Context, entry *domain.DeliveryLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *inMemoryDeliveryLogStore) ListByTransaction(ctx context.Context, transactionID string, limit int) ([]domain.DeliveryLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.DeliveryLogEntry
	for _, e := range s.entries {
		if e.TransactionID == transactionID {
			out = append(out, e)
		}
	}
	// Newest first, attempt number breaking timestamp ties.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].Attempt > out[j].Attempt
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *inMemoryDeliveryLogStore) all(transactionID string) []domain.DeliveryLogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.DeliveryLogEntry
	for _, e := range s.entries {
		if e.TransactionID == transactionID {
			out = append(out, e)
		}
	}
	return out
}
