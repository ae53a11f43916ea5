package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/segmentio/kafka-go"
	"gopkg.in/yaml.v3"

	"github.com/TheOneWhoCameBefore/fsy-navigator-sub000/internal/roster"
)

// snapshotKey routes every snapshot to the same partition.
const snapshotKey = "roster"

// MessageWriter is satisfied by KafkaProducer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, topic string, msgs ...kafka.Message) error
}

// Publisher sends full roster snapshots to one topic.
type Publisher struct {
	writer MessageWriter
	topic  string
	now    func() time.Time
}

// NewPublisher constructs a Publisher.
func NewPublisher(writer MessageWriter, topic string) *Publisher {
	return &Publisher{writer: writer, topic: topic, now: time.Now}
}

// Publish encodes payload and writes it as a snapshot message. It returns
// the revision consumers will store it under.
func (p *Publisher) Publish(ctx context.Context, payload roster.Payload) (string, error) {
	value, err := roster.EncodePayload(payload)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	revision := roster.Revision(value)

	msg := kafka.Message{
		Key:   []byte(snapshotKey),
		Value: value,
		Time:  p.now().UTC(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(roster.SnapshotEventType)},
			{Key: "snapshot_id", Value: []byte(revision)},
		},
	}
	if err := p.writer.WriteMessages(ctx, p.topic, msg); err != nil {
		return "", fmt.Errorf("write snapshot to %s: %w", p.topic, err)
	}
	return revision, nil
}

// ReadYAML parses a roster file with top-level events and roleAssignments keys.
func ReadYAML(r io.Reader) (roster.Payload, error) {
	var payload roster.Payload
	if err := yaml.NewDecoder(r).Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return roster.Payload{}, errors.New("roster file is empty")
		}
		return roster.Payload{}, fmt.Errorf("decode roster yaml: %w", err)
	}
	return payload, nil
}
