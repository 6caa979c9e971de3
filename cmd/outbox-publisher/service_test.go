package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/diwinters/tradewind-backend/pkg/config"
	"github.com/diwinters/tradewind-backend/pkg/db/models"
	"github.com/diwinters/tradewind-backend/pkg/enums"
	"github.com/diwinters/tradewind-backend/pkg/logger"
	"github.com/diwinters/tradewind-backend/pkg/outbox"
)

type fakeRepo struct {
	events    []models.OutboxEvent
	fetchErr  error
	published []uuid.UUID
	failed    []uuid.UUID
}

func (r *fakeRepo) FetchUnpublished(limit, maxAttempts int) ([]models.OutboxEvent, error) {
	if r.fetchErr != nil {
		return nil, r.fetchErr
	}
	if len(r.events) > limit {
		return r.events[:limit], nil
	}
	return r.events, nil
}

func (r *fakeRepo) MarkPublished(id uuid.UUID) error {
	r.published = append(r.published, id)
	return nil
}

func (r *fakeRepo) MarkFailed(id uuid.UUID, err error) error {
	r.failed = append(r.failed, id)
	return nil
}

type fakePublisher struct {
	results  []publishResult
	messages []*gcppubsub.Message
}

func (p *fakePublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	p.messages = append(p.messages, msg)
	if len(p.results) == 0 {
		return fakePublishResult{}
	}
	result := p.results[0]
	p.results = p.results[1:]
	return result
}

type fakePublishResult struct {
	err error
}

func (r fakePublishResult) Get(ctx context.Context) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return "server-id", nil
}

func newTestService(t *testing.T, repo outboxRepository, pub publisher) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Config:    &config.Config{},
		Logger:    logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Repo:      repo,
		Publisher: pub,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func envelopePayload(t *testing.T, eventID string) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(outbox.PayloadEnvelope{
		Version:    1,
		EventID:    eventID,
		OccurredAt: time.Now().UTC(),
		Data:       json.RawMessage(`{}`),
	})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return raw
}

func seedEvent(t *testing.T, eventType enums.OutboxEventType, eventID string) models.OutboxEvent {
	t.Helper()
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     eventType,
		AggregateType: enums.AggregateOrder,
		AggregateID:   uuid.New(),
		Payload:       envelopePayload(t, eventID),
		CreatedAt:     time.Now().UTC(),
	}
}

func TestProcessBatchContinuesAfterFailure(t *testing.T) {
	repo := &fakeRepo{
		events: []models.OutboxEvent{
			seedEvent(t, enums.EventOrderPaid, "event-one"),
			seedEvent(t, enums.EventOrderShipped, "event-two"),
		},
	}
	pub := &fakePublisher{
		results: []publishResult{
			fakePublishResult{err: errors.New("transient")},
			fakePublishResult{},
		},
	}
	service := newTestService(t, repo, pub)

	processed, err := service.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch: %v", err)
	}
	if !processed {
		t.Fatal("expected batch to report processed")
	}
	if len(repo.failed) != 1 || repo.failed[0] != repo.events[0].ID {
		t.Fatalf("unexpected failed rows %v", repo.failed)
	}
	if len(repo.published) != 1 || repo.published[0] != repo.events[1].ID {
		t.Fatalf("unexpected published rows %v", repo.published)
	}
}

func TestProcessBatchSetsMessageAttributes(t *testing.T) {
	event := seedEvent(t, enums.EventOrderCompleted, "evt-42")
	repo := &fakeRepo{events: []models.OutboxEvent{event}}
	pub := &fakePublisher{}
	service := newTestService(t, repo, pub)

	if _, err := service.processBatch(context.Background()); err != nil {
		t.Fatalf("process batch: %v", err)
	}
	if len(pub.messages) != 1 {
		t.Fatalf("expected one message got %d", len(pub.messages))
	}
	attrs := pub.messages[0].Attributes
	if attrs["event_type"] != "order.completed" {
		t.Fatalf("unexpected event_type %q", attrs["event_type"])
	}
	if attrs["event_id"] != "evt-42" {
		t.Fatalf("unexpected event_id %q", attrs["event_id"])
	}
	if attrs["aggregate_id"] != event.AggregateID.String() {
		t.Fatalf("unexpected aggregate_id %q", attrs["aggregate_id"])
	}
}

func TestProcessBatchReportsIdleWhenEmpty(t *testing.T) {
	service := newTestService(t, &fakeRepo{}, &fakePublisher{})
	processed, err := service.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch: %v", err)
	}
	if processed {
		t.Fatal("expected idle batch")
	}
}

func TestProcessBatchPropagatesFetchError(t *testing.T) {
	repo := &fakeRepo{fetchErr: errors.New("db down")}
	service := newTestService(t, repo, &fakePublisher{})
	if _, err := service.processBatch(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestNextBackoffCapsAtMax(t *testing.T) {
	base := 500 * time.Millisecond
	current := base
	for i := 0; i < 10; i++ {
		current = nextBackoff(current, base, maxBackoff)
	}
	if current != maxBackoff {
		t.Fatalf("expected cap %s got %s", maxBackoff, current)
	}
}
