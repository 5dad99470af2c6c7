package service

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"

	"payment-webhook-relay/internal/core/domain"
	"payment-webhook-relay/internal/core/ports"

	"github.com/rs/zerolog"
)

// ErrDispatcherClosed is returned when Dispatch is called after Stop.
var ErrDispatcherClosed = errors.New("dispatcher: closed")

type deliveryJob struct {
	reg   *domain.WebhookRegistration
	event *domain.PaymentEvent
}

// Dispatcher fans deliveries out to a bounded worker pool keyed by
// merchant id. Events for one merchant always land on the same worker
// queue, so per-merchant delivery order matches ingestion order while one
// merchant's slow endpoint cannot stall the rest.
type Dispatcher struct {
	deliverer ports.DeliveryService
	queues    []chan deliveryJob
	wg        sync.WaitGroup
	log       zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher creates a dispatcher with the given pool size and
// per-worker queue depth. Workers run after Start.
func NewDispatcher(deliverer ports.DeliveryService, workers, queueSize int, log zerolog.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	queues := make([]chan deliveryJob, workers)
	for i := range queues {
		queues[i] = make(chan deliveryJob, queueSize)
	}
	return &Dispatcher{
		deliverer: deliverer,
		queues:    queues,
		log:       log,
	}
}

// Start launches the worker goroutines. ctx bounds in-flight deliveries;
// cancelling it aborts backoff sleeps.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, q := range d.queues {
		d.wg.Add(1)
		go d.worker(ctx, i, q)
	}
}

func (d *Dispatcher) worker(ctx context.Context, id int, queue <-chan deliveryJob) {
	defer d.wg.Done()
	for job := range queue {
		err := d.deliverer.Deliver(ctx, job.reg, job.event)
		if err != nil && !errors.Is(err, context.Canceled) {
			// Exhausted deliveries are terminal for this event; the
			// delivery log is the recovery path.
			d.log.Error().Err(err).
				Int("worker", id).
				Str("transaction_id", job.event.TransactionID).
				Str("merchant_id", job.event.MerchantID).
				Msg("delivery failed")
		}
	}
}

// Dispatch enqueues a delivery on the merchant's worker. It blocks while
// the queue is full, applying backpressure to the consumer rather than
// dropping work.
func (d *Dispatcher) Dispatch(ctx context.Context, reg *domain.WebhookRegistration, event *domain.PaymentEvent) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDispatcherClosed
	}

	queue := d.queues[d.workerFor(event.MerchantID)]
	select {
	case queue <- deliveryJob{reg: reg, event: event}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop closes the queues and waits for the workers to drain them.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	for _, q := range d.queues {
		close(q)
	}
	d.wg.Wait()
}

func (d *Dispatcher) workerFor(merchantID string) int {
	h := fnv.New32a()
	h.Write([]byte(merchantID))
	return int(h.Sum32() % uint32(len(d.queues)))
}
