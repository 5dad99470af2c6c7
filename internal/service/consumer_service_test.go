package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"payment-webhook-relay/internal/core/domain"
	"payment-webhook-relay/internal/core/ports/mocks"
	"payment-webhook-relay/internal/metrics"
	"payment-webhook-relay/pkg/logger"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testTopic = "payments.completed"

type consumerFixture struct {
	states   *mocks.MockTxnStateStore
	registry *mocks.MockRegistrationStore
	dispatch *mocks.MockDeliveryDispatcher
	metrics  *metrics.Metrics
	svc      *consumerService
}

func newConsumerFixture(t *testing.T, ctrl *gomock.Controller) *consumerFixture {
	t.Helper()

	f := &consumerFixture{
		states:   mocks.NewMockTxnStateStore(ctrl),
		registry: mocks.NewMockRegistrationStore(ctrl),
		dispatch: mocks.NewMockDeliveryDispatcher(ctrl),
		metrics:  metrics.New(),
	}
	f.svc = NewConsumerService(f.states, f.registry, f.dispatch, f.metrics, logger.Nop()).(*consumerService)
	f.svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return f
}

func eventPayload(t *testing.T, event *domain.PaymentEvent) []byte {
	t.Helper()
	b, err := json.Marshal(event)
	require.NoError(t, err)
	return b
}

func TestConsumerService_MalformedJSONDropped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newConsumerFixture(t, ctrl)

	// No store or dispatcher calls; the message is acknowledged anyway.
	err := f.svc.HandleMessage(context.Background(), testTopic, []byte("{not json"))
	assert.NoError(t, err)
	assert.Equal(t, float64(1),
		testutil.ToFloat64(f.metrics.EventsConsumed.WithLabelValues(testTopic, metrics.ResultInvalid)))
}

func TestConsumerService_SchemaViolationDropped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newConsumerFixture(t, ctrl)

	ev := testEvent()
	ev.Amount = -1
	err := f.svc.HandleMessage(context.Background(), testTopic, eventPayload(t, ev))
	assert.NoError(t, err)
	assert.Equal(t, float64(1),
		testutil.ToFloat64(f.metrics.EventsConsumed.WithLabelValues(testTopic, metrics.ResultInvalid)))
}

func TestConsumerService_PersistFailurePropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newConsumerFixture(t, ctrl)

	f.states.EXPECT().Persist(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	// The error must surface so the message is redelivered.
	err := f.svc.HandleMessage(context.Background(), testTopic, eventPayload(t, testEvent()))
	assert.Error(t, err)
	assert.Equal(t, float64(1),
		testutil.ToFloat64(f.metrics.EventsConsumed.WithLabelValues(testTopic, metrics.ResultStorageError)))
}

func TestConsumerService_StateRecordedBeforeLookup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newConsumerFixture(t, ctrl)

	var persisted *domain.TxnState
	gomock.InOrder(
		f.states.EXPECT().Persist(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, s *domain.TxnState) error {
				persisted = s
				return nil
			}),
		f.registry.EXPECT().Get(gomock.Any(), "m1").Return(nil, nil),
	)

	err := f.svc.HandleMessage(context.Background(), testTopic, eventPayload(t, testEvent()))
	require.NoError(t, err)

	require.NotNil(t, persisted)
	assert.Equal(t, "TXN1", persisted.TransactionID)
	assert.Equal(t, "m1", persisted.MerchantID)
	assert.Equal(t, domain.StatusCompleted, persisted.Status)
	assert.Equal(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), persisted.UpdatedAt)
}

func TestConsumerService_NoRegistrationSkipsDelivery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newConsumerFixture(t, ctrl)

	f.states.EXPECT().Persist(gomock.Any(), gomock.Any()).Return(nil)
	f.registry.EXPECT().Get(gomock.Any(), "m1").Return(nil, nil)

	err := f.svc.HandleMessage(context.Background(), testTopic, eventPayload(t, testEvent()))
	assert.NoError(t, err)
	assert.Equal(t, float64(1),
		testutil.ToFloat64(f.metrics.DeliveriesSkipped.WithLabelValues(metrics.SkipNoRegistration)))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(f.metrics.EventsConsumed.WithLabelValues(testTopic, metrics.ResultOK)))
}

func TestConsumerService_NotSubscribedSkipsDelivery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newConsumerFixture(t, ctrl)

	f.states.EXPECT().Persist(gomock.Any(), gomock.Any()).Return(nil)
	f.registry.EXPECT().Get(gomock.Any(), "m1").Return(&domain.WebhookRegistration{
		MerchantID: "m1",
		URL:        "https://example.com/hook",
		Secret:     "ciphertext",
		Events:     []string{"payment.failed"},
	}, nil)

	err := f.svc.HandleMessage(context.Background(), testTopic, eventPayload(t, testEvent()))
	assert.NoError(t, err)
	assert.Equal(t, float64(1),
		testutil.ToFloat64(f.metrics.DeliveriesSkipped.WithLabelValues(metrics.SkipNotSubscribed)))
}

func TestConsumerService_SubscribedEventDispatched(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newConsumerFixture(t, ctrl)

	reg := testRegistration()
	f.states.EXPECT().Persist(gomock.Any(), gomock.Any()).Return(nil)
	f.registry.EXPECT().Get(gomock.Any(), "m1").Return(reg, nil)
	f.dispatch.EXPECT().Dispatch(gomock.Any(), reg, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *domain.WebhookRegistration, ev *domain.PaymentEvent) error {
			assert.Equal(t, "TXN1", ev.TransactionID)
			assert.Equal(t, "payment.completed", ev.EventType())
			return nil
		})

	err := f.svc.HandleMessage(context.Background(), testTopic, eventPayload(t, testEvent()))
	assert.NoError(t, err)
	assert.Equal(t, float64(1),
		testutil.ToFloat64(f.metrics.EventsConsumed.WithLabelValues(testTopic, metrics.ResultOK)))
}

type gatedDeliverer struct {
	release   chan struct{}
	delivered atomic.Int32
}

func (d *gatedDeliverer) Deliver(ctx context.Context, reg *domain.WebhookRegistration, event *domain.PaymentEvent) error {
	<-d.release
	d.delivered.Add(1)
	return nil
}

// An event is acknowledged once queued for delivery, not once the webhook
// lands. Graceful shutdown drains the queue; the audit log makes any
// hard-crash gap visible.
func TestConsumerService_AcceptedOnceEnqueued(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	states := mocks.NewMockTxnStateStore(ctrl)
	registry := mocks.NewMockRegistrationStore(ctrl)
	states.EXPECT().Persist(gomock.Any(), gomock.Any()).Return(nil)
	registry.EXPECT().Get(gomock.Any(), "m1").Return(testRegistration(), nil)

	deliverer := &gatedDeliverer{release: make(chan struct{})}
	disp := NewDispatcher(deliverer, 1, 1, logger.Nop())
	disp.Start(context.Background())

	svc := NewConsumerService(states, registry, disp, metrics.New(), logger.Nop())

	err := svc.HandleMessage(context.Background(), testTopic, eventPayload(t, testEvent()))
	require.NoError(t, err)
	assert.Equal(t, int32(0), deliverer.delivered.Load())

	close(deliverer.release)
	disp.Stop()
	assert.Equal(t, int32(1), deliverer.delivered.Load())
}

func TestConsumerService_RegistryFailurePropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newConsumerFixture(t, ctrl)

	f.states.EXPECT().Persist(gomock.Any(), gomock.Any()).Return(nil)
	f.registry.EXPECT().Get(gomock.Any(), "m1").Return(nil, errors.New("redis down"))

	err := f.svc.HandleMessage(context.Background(), testTopic, eventPayload(t, testEvent()))
	assert.Error(t, err)
}
