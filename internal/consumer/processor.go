// Package consumer reacts to activity-change events by scheduling
// leaderboard recomputes.
package consumer

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// Reader exposes the minimal kafka.Reader interface needed by the processor.
type Reader interface {
	FetchMessage(context.Context) (kafka.Message, error)
	CommitMessages(context.Context, ...kafka.Message) error
	Close() error
}

// Handler receives decoded messages from Kafka.
type Handler interface {
	Handle(context.Context, Message) error
}

// Message is the decoded representation of an activity event record.
type Message struct {
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	EventType string
	Payload   json.RawMessage
}

// Option configures optional behaviour for the Processor.
type Option func(*Processor)

// WithLogger overrides the logger used to report errors.
func WithLogger(logger *log.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// Processor pulls messages from Kafka, decodes them, and dispatches to a Handler.
type Processor struct {
	reader  Reader
	handler Handler
	logger  *log.Logger
}

// NewProcessor constructs a Processor with the provided reader and handler.
func NewProcessor(reader Reader, handler Handler, opts ...Option) *Processor {
	p := &Processor{
		reader:  reader,
		handler: handler,
		logger:  log.New(log.Writer(), "[consumer] ", log.LstdFlags|log.Lshortfile),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run starts a blocking loop that processes Kafka messages until the context is cancelled.
func (p *Processor) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		msg, err := p.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			p.logger.Printf("fetch error: %v", err)
			continue
		}

		decoded, err := decode(msg)
		if err != nil {
			p.logger.Printf("decode error at %s/%d@%d: %v", msg.Topic, msg.Partition, msg.Offset, err)
			// Undecodable records are committed: replaying them cannot
			// succeed later, and the next pass rebuilds everything anyway.
			if commitErr := p.reader.CommitMessages(ctx, msg); commitErr != nil {
				p.logger.Printf("commit error: %v", commitErr)
			}
			continue
		}

		if err := p.handler.Handle(ctx, decoded); err != nil {
			p.logger.Printf("handler error for %s: %v", decoded.EventType, err)
			continue
		}

		if err := p.reader.CommitMessages(ctx, msg); err != nil {
			p.logger.Printf("commit error: %v", err)
		}
	}
}

// decode strips the optional schema-registry framing (magic byte + 4-byte
// schema id) and extracts the event type header.
func decode(msg kafka.Message) (Message, error) {
	payload := msg.Value
	if len(payload) >= 5 && payload[0] == 0 {
		_ = binary.BigEndian.Uint32(payload[1:5])
		payload = payload[5:]
	}
	if !json.Valid(payload) {
		return Message{}, errors.New("payload is not valid JSON")
	}

	decoded := Message{
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Timestamp: msg.Time,
		Payload:   payload,
	}
	for _, header := range msg.Headers {
		if header.Key == "event_type" {
			decoded.EventType = string(header.Value)
		}
	}
	if decoded.EventType == "" {
		return Message{}, errors.New("missing event_type header")
	}
	return decoded, nil
}
