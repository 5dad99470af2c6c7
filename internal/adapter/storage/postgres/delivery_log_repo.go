package postgres

import (
	"context"
	"fmt"

	"payment-webhook-relay/internal/core/domain"
	"payment-webhook-relay/internal/core/ports"
)

type deliveryLogRepo struct {
	pool Pool
}

// NewDeliveryLogRepo creates a PostgreSQL-backed DeliveryLogStore. The
// delivery_log_entries table is append-only: attempts are never updated
// or deleted.
func NewDeliveryLogRepo(pool Pool) ports.DeliveryLogStore {
	return &deliveryLogRepo{pool: pool}
}

func (r *deliveryLogRepo) Append(ctx context.Context, entry *domain.DeliveryLogEntry) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO delivery_log_entries
		 (id, transaction_id, merchant_id, attempt, http_status, response_body, error, timestamp)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		entry.ID, entry.TransactionID, entry.MerchantID, entry.Attempt,
		entry.HTTPStatus, entry.ResponseBody, entry.Error, entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert delivery log entry: %w", err)
	}
	return nil
}

// ListByTransaction returns up to limit entries for a transaction, newest
// first. Attempt number breaks ties between entries logged in the same
// instant.
func (r *deliveryLogRepo) ListByTransaction(ctx context.Context, transactionID string, limit int) ([]domain.DeliveryLogEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, transaction_id, merchant_id, attempt, http_status, response_body, error, timestamp
		 FROM delivery_log_entries
		 WHERE transaction_id=$1
		 ORDER BY timestamp DESC, attempt DESC
		 LIMIT $2`, transactionID, limit)
	if err != nil {
		return nil, fmt.Errorf("query delivery log entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.DeliveryLogEntry
	for rows.Next() {
		var e domain.DeliveryLogEntry
		if err := rows.Scan(
			&e.ID, &e.TransactionID, &e.MerchantID, &e.Attempt,
			&e.HTTPStatus, &e.ResponseBody, &e.Error, &e.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan delivery log entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
