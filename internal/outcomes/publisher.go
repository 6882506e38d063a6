// Package outcomes fans release results out to the event bus for fleet-level
// reporting.
package outcomes

import (
	"context"
	"encoding/json"

	"roomrelease/pkg/logger"
	"roomrelease/pkg/model"
)

// Header keys on published outcome events.
const (
	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
	HeaderSource    = "source"
)

const eventType = "room.release.outcome"

// producer is the slice of pkg/kafka.Producer the publisher depends on.
type producer interface {
	Publish(ctx context.Context, key string, value []byte, headers map[string]string) error
}

// Publisher implements the release core's outcome sink on top of Kafka.
// Publishing is best-effort, non-critical: a failed publish is logged and
// the release flow continues.
type Publisher struct {
	producer producer
	source   string
	log      *logger.Logger
}

func NewPublisher(p producer, source string, log *logger.Logger) *Publisher {
	return &Publisher{
		producer: p,
		source:   source,
		log:      log,
	}
}

func (p *Publisher) RecordOutcome(ctx context.Context, record model.ReleaseRecord) {
	value, err := json.Marshal(record)
	if err != nil {
		p.log.Warn("failed to encode release record", "record_id", record.ID, "error", err)
		return
	}

	headers := map[string]string{
		HeaderEventID:   record.ID,
		HeaderEventType: eventType,
		HeaderSource:    p.source,
	}
	if err := p.producer.Publish(ctx, record.BookingID, value, headers); err != nil {
		p.log.Warn("failed to publish release record",
			"record_id", record.ID,
			"booking_id", record.BookingID,
			"outcome", string(record.Outcome),
			"error", err,
		)
		return
	}
	p.log.Debug("release record published", "record_id", record.ID, "outcome", string(record.Outcome))
}
