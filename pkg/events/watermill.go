// Package events carries product lifecycle events between the API, the CLI
// and the cache-sync worker over PostgreSQL, using Watermill's SQL transport.
//
// Every process sharing cfg.ServiceName joins one consumer group, so each
// event is handled by a single worker instance. The API publishes through
// the Forwarder outbox; the CLI publishes directly.
//
// A handler that keeps failing is retried with exponential backoff per
// RetryPolicy. After the last attempt the message is copied to
// <topic>.poison and acked, so one bad event cannot stall its topic.
//
// Trace context travels in message metadata: Publish injects it and
// Subscribe restores it before calling the handler.
package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/10037-kasarango1/Conjunta/pkg/config"
	"github.com/10037-kasarango1/Conjunta/pkg/logger"
)

// PoisonSuffix is appended to a topic to name its dead-letter topic.
const PoisonSuffix = ".poison"

// Metadata keys set on messages.
const (
	MetaEventID      = "event_id"
	MetaEventVersion = "event_version"
	MetaPoisonTopic  = "poison_topic"
	MetaPoisonReason = "poison_reason"
)

const (
	shutdownTimeout = 30 * time.Second
	forwarderTopic  = "_inventory_outbox"
	errChanSize     = 100
)

// RetryPolicy bounds how often a failing handler is called for one message.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.Attempts < 1 {
		p.Attempts = 1
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = time.Second
	}
	return p
}

// HandlerFunc processes one message. A nil return acks it.
type HandlerFunc func(context.Context, *message.Message) error

// EventBus publishes and consumes inventory events.
type EventBus struct {
	publisher  message.Publisher // direct SQL publisher or forwarder-decorated
	poisonPub  message.Publisher // always direct, so poisoned copies skip the outbox
	subscriber message.Subscriber
	fwd        *forwarder.Forwarder
	db         *sql.DB
	log        logger.Logger
	retry      RetryPolicy
	wg         sync.WaitGroup

	useForwarder bool
}

// NewEventBus opens cfg.DefinitionDatabaseURL and publishes straight to the
// target topics. Schema tables are created on first use.
func NewEventBus(cfg *config.Config, log logger.Logger) (*EventBus, error) {
	return newEventBus(cfg, log, false)
}

// NewEventBusWithForwarder publishes into a durable outbox topic; the
// Forwarder started by StartForwarder moves each envelope to its target
// topic. An event accepted by Publish survives a crash right after it.
func NewEventBusWithForwarder(cfg *config.Config, log logger.Logger) (*EventBus, error) {
	return newEventBus(cfg, log, true)
}

func newEventBus(cfg *config.Config, log logger.Logger, useForwarder bool) (*EventBus, error) {
	db, err := sql.Open("pgx", cfg.DefinitionDatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("events: open db: %w", err)
	}

	wlog := &slogAdapter{log: log}

	pub, err := newSQLPublisher(db, wlog)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	var publisher message.Publisher = pub
	if useForwarder {
		publisher = forwarder.NewPublisher(pub, forwarder.PublisherConfig{
			ForwarderTopic: forwarderTopic,
		})
	}

	sub, err := newSQLSubscriber(db, cfg.ServiceName+"-consumer", wlog)
	if err != nil {
		_ = pub.Close()
		_ = db.Close()
		return nil, err
	}

	bus := newBus(publisher, sub, log, RetryPolicy{
		Attempts:  cfg.EventMaxAttempts,
		BaseDelay: cfg.EventRetryDelay,
	})
	bus.poisonPub = pub
	bus.db = db
	bus.useForwarder = useForwarder
	return bus, nil
}

// newBus assembles a bus over any Watermill transport.
func newBus(pub message.Publisher, sub message.Subscriber, log logger.Logger, retry RetryPolicy) *EventBus {
	return &EventBus{
		publisher:  pub,
		poisonPub:  pub,
		subscriber: sub,
		log:        log,
		retry:      retry.normalized(),
	}
}

func newSQLPublisher(db *sql.DB, wlog watermill.LoggerAdapter) (*watermillsql.Publisher, error) {
	pub, err := watermillsql.NewPublisher(db, watermillsql.PublisherConfig{
		SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
		AutoInitializeSchema: true,
	}, wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new publisher: %w", err)
	}
	return pub, nil
}

func newSQLSubscriber(db *sql.DB, group string, wlog watermill.LoggerAdapter) (*watermillsql.Subscriber, error) {
	sub, err := watermillsql.NewSubscriber(db, watermillsql.SubscriberConfig{
		SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
		ConsumerGroup:    group,
	}, wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new subscriber %s: %w", group, err)
	}
	return sub, nil
}

// StartForwarder runs the outbox Forwarder until ctx ends. It returns once
// the Forwarder is consuming. Only valid on a bus from NewEventBusWithForwarder.
func (q *EventBus) StartForwarder(ctx context.Context) error {
	if !q.useForwarder {
		return errors.New("events: StartForwarder called on non-forwarder EventBus")
	}
	if q.fwd != nil {
		return errors.New("events: forwarder already started")
	}

	wlog := &slogAdapter{log: q.log}

	fwdSub, err := newSQLSubscriber(q.db, "inventory-outbox", wlog)
	if err != nil {
		return err
	}
	targetPub, err := newSQLPublisher(q.db, wlog)
	if err != nil {
		_ = fwdSub.Close()
		return err
	}

	fwd, err := forwarder.NewForwarder(fwdSub, targetPub, wlog, forwarder.Config{
		ForwarderTopic: forwarderTopic,
	})
	if err != nil {
		_ = targetPub.Close()
		_ = fwdSub.Close()
		return fmt.Errorf("events: create forwarder: %w", err)
	}
	q.fwd = fwd

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		q.log.InfoContext(ctx, "events: forwarder started", "outbox", forwarderTopic)
		if err := fwd.Run(ctx); err != nil {
			q.log.ErrorContext(ctx, "events: forwarder stopped with error", "error", err)
			return
		}
		q.log.InfoContext(ctx, "events: forwarder stopped")
	}()

	select {
	case <-fwd.Running():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("events: waiting for forwarder: %w", ctx.Err())
	}
}

// Publish sends msgs to topic with ctx's trace context in their metadata.
func (q *EventBus) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for _, msg := range msgs {
		for k, v := range carrier {
			msg.Metadata.Set(k, v)
		}
	}
	if err := q.publisher.Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s: %w", topic, err)
	}
	return nil
}

// PublishJSON marshals payload into one message keyed by eventID and
// publishes it to topic.
func (q *EventBus) PublishJSON(ctx context.Context, topic, eventID string, version int, payload any) error {
	msg, err := NewJSONMessage(eventID, version, payload)
	if err != nil {
		return err
	}
	return q.Publish(ctx, topic, msg)
}

// NewJSONMessage builds the message PublishJSON sends. The event id and
// schema version are also set as metadata so consumers can deduplicate and
// skip versions they do not understand without decoding the payload.
func NewJSONMessage(eventID string, version int, payload any) (*message.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("events: marshal payload: %w", err)
	}
	msg := message.NewMessage(eventID, data)
	msg.Metadata.Set(MetaEventID, eventID)
	msg.Metadata.Set(MetaEventVersion, strconv.Itoa(version))
	return msg, nil
}

// EventVersion returns the schema version in msg's metadata, or 0 when it
// is missing or malformed.
func EventVersion(msg *message.Message) int {
	v, err := strconv.Atoi(msg.Metadata.Get(MetaEventVersion))
	if err != nil {
		return 0
	}
	return v
}

// DecodeJSON unmarshals a message payload produced by PublishJSON.
func DecodeJSON[T any](msg *message.Message) (T, error) {
	var v T
	if err := json.Unmarshal(msg.Payload, &v); err != nil {
		return v, fmt.Errorf("events: decode %s: %w", msg.UUID, err)
	}
	return v, nil
}

// Subscribe consumes topic in the background until ctx ends or the bus is
// closed. Each message gets the publisher's trace context restored.
//
// A message whose handler still fails after the retry policy is copied to
// topic+PoisonSuffix and acked; the handler error is sent on the returned
// channel. If the poison copy cannot be written the message is nacked for
// redelivery instead. The channel is buffered and must be drained.
func (q *EventBus) Subscribe(ctx context.Context, topic string, handler HandlerFunc) (<-chan error, error) {
	ch, err := q.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe to %s: %w", topic, err)
	}

	errCh := make(chan error, errChanSize)
	propagator := otel.GetTextMapPropagator()

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		defer close(errCh)

		for msg := range ch {
			carrier := propagation.MapCarrier{}
			for k, v := range msg.Metadata {
				carrier[k] = v
			}
			msgCtx := propagator.Extract(ctx, carrier)

			herr := retryWithBackoff(msgCtx, msg, handler, q.retry, q.log)
			if herr == nil {
				msg.Ack()
				continue
			}

			if perr := q.poison(msgCtx, topic, msg, herr); perr != nil {
				msg.Nack()
				herr = errors.Join(herr, perr)
			} else {
				msg.Ack()
			}

			select {
			case errCh <- fmt.Errorf("%s %s: %w", topic, msg.UUID, herr):
			default:
				q.log.ErrorContext(msgCtx, "events: error channel full, dropping error",
					"error", herr, "topic", topic)
			}
		}
	}()

	return errCh, nil
}

func (q *EventBus) poison(ctx context.Context, topic string, msg *message.Message, reason error) error {
	dead := msg.Copy()
	dead.Metadata.Set(MetaPoisonTopic, topic)
	dead.Metadata.Set(MetaPoisonReason, reason.Error())

	if err := q.poisonPub.Publish(topic+PoisonSuffix, dead); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: poison %s: %w", msg.UUID, err)
	}
	q.log.WarnContext(ctx, "events: message moved to poison topic",
		"topic", topic,
		"message_id", msg.UUID,
		"error", reason,
	)
	return nil
}

// retryWithBackoff calls handler up to p.Attempts times, doubling the delay
// after each failure. It returns the last error once attempts run out.
func retryWithBackoff(ctx context.Context, msg *message.Message, handler HandlerFunc, p RetryPolicy, log logger.Logger) error {
	p = p.normalized()
	delay := p.BaseDelay
	var err error
	for attempt := 1; attempt <= p.Attempts; attempt++ {
		if err = handler(ctx, msg); err == nil {
			return nil
		}
		if attempt == p.Attempts {
			break
		}
		log.WarnContext(ctx, "events: handler failed, retrying",
			"message_id", msg.UUID,
			"attempt", attempt,
			"max_attempts", p.Attempts,
			"next_delay", delay,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("events: handler failed after %d attempts: %w", p.Attempts, err)
}

// Ping checks the event store connection.
func (q *EventBus) Ping(ctx context.Context) error {
	if err := q.db.PingContext(ctx); err != nil {
		return fmt.Errorf("events: ping db: %w", err)
	}
	return nil
}

// Close stops consuming, waits up to 30s for in-flight handlers, then
// closes the publisher and the database handle.
func (q *EventBus) Close() error {
	if err := q.subscriber.Close(); err != nil {
		return fmt.Errorf("events: close subscriber: %w", err)
	}
	if q.fwd != nil {
		if err := q.fwd.Close(); err != nil {
			return fmt.Errorf("events: close forwarder: %w", err)
		}
	}

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		q.log.Error("events: timed out waiting for in-flight handlers")
	}

	if err := q.publisher.Close(); err != nil {
		return fmt.Errorf("events: close publisher: %w", err)
	}
	if q.db == nil {
		return nil
	}
	return q.db.Close()
}

// slogAdapter bridges logger.Logger to watermill.LoggerAdapter. Watermill's
// trace level maps to debug.
type slogAdapter struct{ log logger.Logger }

func (a *slogAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.log.Error(msg, append(fieldsToArgs(fields), "error", err)...)
}
func (a *slogAdapter) Info(msg string, fields watermill.LogFields) {
	a.log.Info(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) Debug(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) Trace(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &slogAdapter{log: a.log.With(fieldsToArgs(fields)...)}
}

func fieldsToArgs(fields watermill.LogFields) []any {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}
