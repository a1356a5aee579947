package telemetry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/10037-kasarango1/Conjunta/pkg/config"
)

func baseConfig() *config.Config {
	return &config.Config{
		ServiceName:    "inventory-test",
		ServiceVersion: "test",
		Environment:    "testing",
	}
}

func setup(t *testing.T) *Providers {
	t.Helper()
	p, err := Setup(context.Background(), baseConfig())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })
	return p
}

func scrape(t *testing.T, h http.Handler) string {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	return rr.Body.String()
}

func TestSetup_ServesInventoryCountersAndRuntime(t *testing.T) {
	p := setup(t)

	p.Metrics.ProductCreated(context.Background())
	p.Metrics.ChangeRecorded(context.Background(), "outflow")

	// Dots may survive name translation depending on the exporter's scheme.
	body := strings.ReplaceAll(scrape(t, p.MetricsHandler), ".", "_")
	for _, want := range []string{
		"inventory_products_created",
		"inventory_changes_recorded",
		`change_type="outflow"`,
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in scrape output", want)
		}
	}
}

func TestSetup_IsRepeatable(t *testing.T) {
	// Each call owns its registry, so a second Setup does not collide.
	setup(t)
	setup(t)
}

func TestSetup_InstallsTraceContextPropagator(t *testing.T) {
	setup(t)

	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background()) //nolint:errcheck
	ctx, span := tp.Tracer("test").Start(context.Background(), "publish")
	defer span.End()

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	if carrier.Get("traceparent") == "" {
		t.Fatal("expected traceparent to be injected")
	}
}

func TestEndSpan_RecordsError(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	_, span := StartSpan(context.Background(), "inventory.update")
	EndSpan(span, errors.New("store down"))
	_, span = StartSpan(context.Background(), "inventory.delete")
	EndSpan(span, nil)

	ended := rec.Ended()
	if len(ended) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(ended))
	}
	if ended[0].Status().Description != "store down" || len(ended[0].Events()) == 0 {
		t.Errorf("expected failed span with error event, got %+v", ended[0].Status())
	}
	if ended[1].Status().Description != "" {
		t.Errorf("expected clean span, got %+v", ended[1].Status())
	}
}
