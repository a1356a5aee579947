package httpx_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/10037-kasarango1/Conjunta/pkg/httpx"
)

type stubChecker struct{ err error }

func (s *stubChecker) Ping(context.Context) error { return s.err }

// blockingChecker waits for the probe deadline.
type blockingChecker struct{}

func (blockingChecker) Ping(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func checkHealth(t *testing.T, checks httpx.HealthChecks) (int, map[string]string) {
	t.Helper()
	rr := httptest.NewRecorder()
	httpx.HealthHandler(checks).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
	var body map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return rr.Code, body
}

func TestHealthHandler(t *testing.T) {
	down := &stubChecker{err: errors.New("conn refused")}

	tests := []struct {
		name       string
		checks     httpx.HealthChecks
		wantStatus int
		want       map[string]string
	}{
		{
			name:       "postgres deployment healthy",
			checks:     httpx.HealthChecks{Store: "postgres", Database: &stubChecker{}, Redis: &stubChecker{}, EventBus: &stubChecker{}},
			wantStatus: http.StatusOK,
			want:       map[string]string{"status": "ok", "store": "postgres", "database": "ok", "redis": "ok", "event_bus": "ok"},
		},
		{
			name:       "memory backend without redis",
			checks:     httpx.HealthChecks{Store: "memory"},
			wantStatus: http.StatusOK,
			want:       map[string]string{"status": "ok", "store": "memory", "database": "disabled", "redis": "disabled", "event_bus": "disabled"},
		},
		{
			name:       "database down",
			checks:     httpx.HealthChecks{Database: down, Redis: &stubChecker{}, EventBus: &stubChecker{}},
			wantStatus: http.StatusServiceUnavailable,
			want:       map[string]string{"status": "degraded", "database": "unreachable", "redis": "ok"},
		},
		{
			name:       "cache down",
			checks:     httpx.HealthChecks{Database: &stubChecker{}, Redis: down},
			wantStatus: http.StatusServiceUnavailable,
			want:       map[string]string{"status": "degraded", "redis": "unreachable", "event_bus": "disabled"},
		},
		{
			name:       "event store down",
			checks:     httpx.HealthChecks{Database: &stubChecker{}, EventBus: down},
			wantStatus: http.StatusServiceUnavailable,
			want:       map[string]string{"status": "degraded", "event_bus": "unreachable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := checkHealth(t, tt.checks)
			assert.Equal(t, tt.wantStatus, code)
			for k, v := range tt.want {
				assert.Equal(t, v, body[k], k)
			}
		})
	}
}

func TestHealthHandler_ReportsVersion(t *testing.T) {
	_, body := checkHealth(t, httpx.HealthChecks{Version: "1.4.0"})
	assert.Equal(t, "1.4.0", body["version"])
}

func TestHealthHandler_ProbesInParallel(t *testing.T) {
	start := time.Now()
	code, body := checkHealth(t, httpx.HealthChecks{
		Database: blockingChecker{},
		Redis:    blockingChecker{},
		EventBus: blockingChecker{},
	})

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unreachable", body["database"])
	assert.Less(t, time.Since(start), 5*time.Second, "three hanging probes share one deadline")
}
