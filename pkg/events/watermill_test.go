package events

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/10037-kasarango1/Conjunta/pkg/config"
	"github.com/10037-kasarango1/Conjunta/pkg/logger"
)

func setupTracer() *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp
}

var testPolicy = RetryPolicy{Attempts: 3, BaseDelay: time.Millisecond}

func nopLogger() logger.Logger {
	return logger.New(&config.Config{LogLevel: "error"})
}

// TestRetryWithBackoff_SuccessOnFirstAttempt verifies no retry occurs on success.
func TestRetryWithBackoff_SuccessOnFirstAttempt(t *testing.T) {
	calls := 0
	handler := func(_ context.Context, _ *message.Message) error {
		calls++
		return nil
	}
	msg := message.NewMessage("id", nil)
	err := retryWithBackoff(context.Background(), msg, handler, testPolicy, nopLogger())
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

// TestRetryWithBackoff_SuccessAfterRetries verifies retry continues until success.
func TestRetryWithBackoff_SuccessAfterRetries(t *testing.T) {
	calls := 0
	handler := func(_ context.Context, _ *message.Message) error {
		calls++
		if calls < 3 {
			return errors.New("transient error")
		}
		return nil
	}
	msg := message.NewMessage("id", nil)
	err := retryWithBackoff(context.Background(), msg, handler, testPolicy, nopLogger())
	if err != nil {
		t.Fatalf("expected nil after eventual success, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

// TestRetryWithBackoff_ExhaustsRetries verifies an error is returned after all retries fail.
func TestRetryWithBackoff_ExhaustsRetries(t *testing.T) {
	calls := 0
	handler := func(_ context.Context, _ *message.Message) error {
		calls++
		return errors.New("permanent error")
	}
	msg := message.NewMessage("id", nil)
	err := retryWithBackoff(context.Background(), msg, handler, testPolicy, nopLogger())
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if calls != testPolicy.Attempts {
		t.Errorf("expected %d calls, got %d", testPolicy.Attempts, calls)
	}
}

// TestRetryWithBackoff_ContextCancelled verifies retry stops when context is canceled.
func TestRetryWithBackoff_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	calls := 0
	handler := func(_ context.Context, _ *message.Message) error {
		calls++
		return errors.New("error")
	}
	msg := message.NewMessage("id", nil)
	err := retryWithBackoff(ctx, msg, handler, RetryPolicy{Attempts: 3, BaseDelay: time.Second}, nopLogger())
	if err == nil {
		t.Fatal("expected error from canceled context")
	}
	// Should have called handler once then exited on ctx.Done
	if calls != 1 {
		t.Errorf("expected 1 call before context cancel, got %d", calls)
	}
}

// TestStartForwarder_NonForwarderMode verifies StartForwarder returns an error
// when called on an EventBus not configured with forwarder mode.
func TestStartForwarder_NonForwarderMode(t *testing.T) {
	bus := &EventBus{useForwarder: false}
	err := bus.StartForwarder(context.Background())
	if err == nil {
		t.Fatal("expected error for non-forwarder EventBus")
	}
}

// TestOTelPropagation_InjectExtract verifies that trace context injected via
// the same propagation path used by Publish/Subscribe round-trips correctly.
func TestOTelPropagation_InjectExtract(t *testing.T) {
	tp := setupTracer()
	defer tp.Shutdown(context.Background()) //nolint:errcheck

	ctx, span := otel.Tracer("test").Start(context.Background(), "publish-span")
	defer span.End()
	wantTraceID := span.SpanContext().TraceID()

	// Simulate Publish: inject trace context into message metadata.
	msg := message.NewMessage("id", nil)
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for k, v := range carrier {
		msg.Metadata.Set(k, v)
	}

	// Simulate Subscribe: extract trace context from message metadata.
	extractCarrier := propagation.MapCarrier{}
	for k, v := range msg.Metadata {
		extractCarrier[k] = v
	}
	msgCtx := otel.GetTextMapPropagator().Extract(context.Background(), extractCarrier)

	gotSpan := trace.SpanFromContext(msgCtx)
	if !gotSpan.SpanContext().IsValid() {
		t.Fatal("extracted span context is not valid")
	}
	if gotSpan.SpanContext().TraceID() != wantTraceID {
		t.Errorf("trace ID mismatch: want %s, got %s", wantTraceID, gotSpan.SpanContext().TraceID())
	}
}

func TestNewJSONMessage_SetsMetadataAndDecodes(t *testing.T) {
	type payload struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}

	msg, err := NewJSONMessage("evt-1", 2, payload{ID: 7, Name: "Martillo"})
	if err != nil {
		t.Fatalf("NewJSONMessage: %v", err)
	}
	if msg.UUID != "evt-1" {
		t.Errorf("UUID: got %q, want %q", msg.UUID, "evt-1")
	}
	if got := EventVersion(msg); got != 2 {
		t.Errorf("event_version: got %d, want 2", got)
	}
	if got := msg.Metadata.Get(MetaEventID); got != "evt-1" {
		t.Errorf("event_id: got %q", got)
	}

	got, err := DecodeJSON[payload](msg)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if got.ID != 7 || got.Name != "Martillo" {
		t.Errorf("unexpected payload: %+v", got)
	}
}

func TestDecodeJSON_InvalidPayload(t *testing.T) {
	msg := message.NewMessage("bad", []byte("{not json"))
	if _, err := DecodeJSON[map[string]any](msg); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestEventVersion_MissingOrMalformed(t *testing.T) {
	msg := message.NewMessage("id", nil)
	if got := EventVersion(msg); got != 0 {
		t.Errorf("missing: got %d", got)
	}
	msg.Metadata.Set(MetaEventVersion, "v1")
	if got := EventVersion(msg); got != 0 {
		t.Errorf("malformed: got %d", got)
	}
}

func TestRetryPolicy_Normalized(t *testing.T) {
	p := RetryPolicy{}.normalized()
	if p.Attempts != 1 || p.BaseDelay != time.Second {
		t.Errorf("unexpected defaults: %+v", p)
	}
}

func newChannelBus(t *testing.T, retry RetryPolicy) (*EventBus, *gochannel.GoChannel) {
	t.Helper()
	ps := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 16}, watermill.NopLogger{})
	bus := newBus(ps, ps, nopLogger(), retry)
	t.Cleanup(func() { _ = bus.Close() })
	return bus, ps
}

func TestSubscribe_AcksHandledMessages(t *testing.T) {
	bus, _ := newChannelBus(t, testPolicy)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got := make(chan string, 1)
	_, err := bus.Subscribe(ctx, "inventory.product.deleted", func(_ context.Context, msg *message.Message) error {
		got <- msg.UUID
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if err := bus.PublishJSON(ctx, "inventory.product.deleted", "evt-9", 1, map[string]int64{"product_id": 9}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case id := <-got:
		if id != "evt-9" {
			t.Errorf("got message %q", id)
		}
	case <-ctx.Done():
		t.Fatal("handler was not called")
	}
}

func TestSubscribe_MovesExhaustedMessageToPoisonTopic(t *testing.T) {
	const topic = "inventory.product.updated"
	bus, ps := newChannelBus(t, RetryPolicy{Attempts: 2, BaseDelay: time.Millisecond})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	poisoned, err := ps.Subscribe(ctx, topic+PoisonSuffix)
	if err != nil {
		t.Fatalf("subscribe poison: %v", err)
	}

	var calls atomic.Int32
	errCh, err := bus.Subscribe(ctx, topic, func(context.Context, *message.Message) error {
		calls.Add(1)
		return errors.New("redis unavailable")
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if err := bus.PublishJSON(ctx, topic, "evt-3", 1, map[string]int64{"id": 3}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case dead := <-poisoned:
		dead.Ack()
		if dead.UUID != "evt-3" {
			t.Errorf("poisoned %q", dead.UUID)
		}
		if dead.Metadata.Get(MetaPoisonTopic) != topic {
			t.Errorf("poison_topic: %q", dead.Metadata.Get(MetaPoisonTopic))
		}
		if !strings.Contains(dead.Metadata.Get(MetaPoisonReason), "redis unavailable") {
			t.Errorf("poison_reason: %q", dead.Metadata.Get(MetaPoisonReason))
		}
	case <-ctx.Done():
		t.Fatal("message never reached the poison topic")
	}

	select {
	case herr := <-errCh:
		if !strings.Contains(herr.Error(), "evt-3") {
			t.Errorf("unexpected error %v", herr)
		}
	case <-ctx.Done():
		t.Fatal("handler error was not reported")
	}

	if got := calls.Load(); got != 2 {
		t.Errorf("expected 2 attempts, got %d", got)
	}
}
