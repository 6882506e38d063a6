package outcomes

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"roomrelease/pkg/logger"
	"roomrelease/pkg/model"
)

type mockProducer struct {
	publishF  func(ctx context.Context, key string, value []byte, headers map[string]string) error
	published []publishedMessage
}

type publishedMessage struct {
	key     string
	value   []byte
	headers map[string]string
}

func (m *mockProducer) Publish(ctx context.Context, key string, value []byte, headers map[string]string) error {
	m.published = append(m.published, publishedMessage{key, value, headers})
	if m.publishF != nil {
		return m.publishF(ctx, key, value, headers)
	}
	return nil
}

func testRecord() model.ReleaseRecord {
	return model.ReleaseRecord{
		ID:         "r1",
		Outcome:    model.OutcomeReleased,
		Trigger:    model.TriggerExpiry,
		BookingID:  "B1",
		OccurredAt: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
	}
}

func TestRecordOutcomePublishes(t *testing.T) {
	producer := &mockProducer{}
	publisher := NewPublisher(producer, "room-alpha", logger.Discard())

	publisher.RecordOutcome(context.Background(), testRecord())

	if len(producer.published) != 1 {
		t.Fatalf("expected one published message, got %d", len(producer.published))
	}
	msg := producer.published[0]
	if msg.key != "B1" {
		t.Errorf("expected messages keyed by booking id, got %q", msg.key)
	}
	if msg.headers[HeaderEventID] != "r1" {
		t.Errorf("unexpected event-id header: %q", msg.headers[HeaderEventID])
	}
	if msg.headers[HeaderSource] != "room-alpha" {
		t.Errorf("unexpected source header: %q", msg.headers[HeaderSource])
	}

	var decoded model.ReleaseRecord
	if err := json.Unmarshal(msg.value, &decoded); err != nil {
		t.Fatalf("published value is not valid JSON: %v", err)
	}
	if decoded.Outcome != model.OutcomeReleased || decoded.BookingID != "B1" {
		t.Errorf("unexpected payload: %+v", decoded)
	}
}

func TestRecordOutcomeSurvivesPublishFailure(t *testing.T) {
	producer := &mockProducer{
		publishF: func(context.Context, string, []byte, map[string]string) error {
			return errors.New("broker unreachable")
		},
	}
	publisher := NewPublisher(producer, "room-alpha", logger.Discard())

	// Must not panic or propagate: publishing is best-effort.
	publisher.RecordOutcome(context.Background(), testRecord())
}
