package notifications

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/diwinters/tradewind-backend/pkg/enums"
	"github.com/diwinters/tradewind-backend/pkg/logger"
	"github.com/diwinters/tradewind-backend/pkg/outbox"
	"github.com/diwinters/tradewind-backend/pkg/outbox/idempotency"
)

type memIdempotencyStore struct {
	seen map[string]bool
}

func (m *memIdempotencyStore) Get(context.Context, string) (string, error) { return "", nil }

func (m *memIdempotencyStore) Set(context.Context, string, any, time.Duration) error { return nil }

func (m *memIdempotencyStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if m.seen == nil {
		m.seen = map[string]bool{}
	}
	if m.seen[key] {
		return false, nil
	}
	m.seen[key] = true
	return true, nil
}

func (m *memIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "tw:idempotency:" + scope + ":" + id
}

func (m *memIdempotencyStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.seen, key)
	}
	return nil
}

func newTestConsumer(t *testing.T) (*Consumer, *fakeRepo) {
	t.Helper()
	repo := &fakeRepo{}
	manager, err := idempotency.NewManager(&memIdempotencyStore{}, time.Hour)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	return &Consumer{repo: repo, idempotency: manager, logg: logg}, repo
}

func encodeEnvelope(t *testing.T, payload any) []byte {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	envelope := outbox.PayloadEnvelope{
		Version:    1,
		EventID:    uuid.NewString(),
		OccurredAt: time.Now().UTC(),
		Data:       raw,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return data
}

func TestConsumerOrderPaidNotifiesSeller(t *testing.T) {
	consumer, repo := newTestConsumer(t)
	sellerID := uuid.New()

	data := encodeEnvelope(t, orderEventPayload{
		OrderID:     uuid.New(),
		OrderNumber: "TW-20260801-AAAA0001",
		BuyerID:     uuid.New(),
		SellerID:    sellerID,
		Status:      enums.OrderStatusPaid,
		TotalCents:  5000,
	})

	result := consumer.process(context.Background(), string(enums.EventOrderPaid), "m1", data)
	if !result.ack || result.nack {
		t.Fatalf("expected ack, got %+v", result)
	}
	if len(repo.rows) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(repo.rows))
	}
	row := repo.rows[0]
	if row.UserID != sellerID || row.Type != enums.NotificationTypeOrder {
		t.Fatalf("unexpected notification: %+v", row)
	}
}

func TestConsumerShippedNotifiesBuyer(t *testing.T) {
	consumer, repo := newTestConsumer(t)
	buyerID := uuid.New()

	data := encodeEnvelope(t, orderEventPayload{
		OrderID:     uuid.New(),
		OrderNumber: "TW-20260801-AAAA0002",
		BuyerID:     buyerID,
		SellerID:    uuid.New(),
		Status:      enums.OrderStatusShipped,
	})

	result := consumer.process(context.Background(), string(enums.EventOrderShipped), "m1", data)
	if !result.ack {
		t.Fatalf("expected ack, got %+v", result)
	}
	if len(repo.rows) != 1 || repo.rows[0].UserID != buyerID {
		t.Fatalf("expected buyer notification, got %+v", repo.rows)
	}
}

func TestConsumerCancelledNotifiesBothParties(t *testing.T) {
	consumer, repo := newTestConsumer(t)

	data := encodeEnvelope(t, orderEventPayload{
		OrderID:     uuid.New(),
		OrderNumber: "TW-20260801-AAAA0003",
		BuyerID:     uuid.New(),
		SellerID:    uuid.New(),
		Status:      enums.OrderStatusCancelled,
	})

	result := consumer.process(context.Background(), string(enums.EventOrderCancelled), "m1", data)
	if !result.ack {
		t.Fatalf("expected ack, got %+v", result)
	}
	if len(repo.rows) != 2 {
		t.Fatalf("expected notifications for both parties, got %d", len(repo.rows))
	}
}

func TestConsumerDisputeOpenedNotifiesCounterparty(t *testing.T) {
	consumer, repo := newTestConsumer(t)
	buyerID, sellerID := uuid.New(), uuid.New()

	data := encodeEnvelope(t, disputeEventPayload{
		OrderID:    uuid.New(),
		DisputeID:  uuid.New(),
		BuyerID:    buyerID,
		SellerID:   sellerID,
		OpenedByID: buyerID,
		Reason:     "damaged on arrival",
	})

	result := consumer.process(context.Background(), string(enums.EventDisputeOpened), "m1", data)
	if !result.ack {
		t.Fatalf("expected ack, got %+v", result)
	}
	if len(repo.rows) != 1 || repo.rows[0].UserID != sellerID {
		t.Fatalf("expected seller to be notified, got %+v", repo.rows)
	}
	if repo.rows[0].Type != enums.NotificationTypeDispute {
		t.Fatalf("unexpected type: %s", repo.rows[0].Type)
	}
}

func TestConsumerSkipsDuplicateEvent(t *testing.T) {
	consumer, repo := newTestConsumer(t)

	data := encodeEnvelope(t, orderEventPayload{
		OrderID:     uuid.New(),
		OrderNumber: "TW-20260801-AAAA0004",
		BuyerID:     uuid.New(),
		SellerID:    uuid.New(),
		Status:      enums.OrderStatusPaid,
	})

	first := consumer.process(context.Background(), string(enums.EventOrderPaid), "m1", data)
	second := consumer.process(context.Background(), string(enums.EventOrderPaid), "m1", data)
	if !first.ack || !second.ack {
		t.Fatalf("expected both deliveries acked: %+v %+v", first, second)
	}
	if len(repo.rows) != 1 {
		t.Fatalf("expected a single notification after redelivery, got %d", len(repo.rows))
	}
}

func TestConsumerSkipsUnknownEvent(t *testing.T) {
	consumer, repo := newTestConsumer(t)

	result := consumer.process(context.Background(), "unknown.event", "m1", []byte("{}"))
	if !result.ack {
		t.Fatalf("expected ack for unknown event, got %+v", result)
	}
	if len(repo.rows) != 0 {
		t.Fatalf("expected no notifications, got %d", len(repo.rows))
	}
}

func TestConsumerAcksMalformedEnvelope(t *testing.T) {
	consumer, repo := newTestConsumer(t)

	result := consumer.process(context.Background(), string(enums.EventOrderPaid), "m1", []byte("not json"))
	if !result.ack {
		t.Fatalf("expected malformed envelope to be acked, got %+v", result)
	}
	if len(repo.rows) != 0 {
		t.Fatalf("expected no notifications, got %d", len(repo.rows))
	}
}
