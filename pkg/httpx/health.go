package httpx

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

const healthTimeout = 2 * time.Second

// HealthChecker is any dependency with a Ping: *database.Database,
// *cache.RedisClient and *events.EventBus all qualify.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthChecks lists what /health probes. A nil checker is reported as
// "disabled" and does not degrade the status; that is how the memory
// backend and a deployment without Redis show up.
type HealthChecks struct {
	// Store names the product store backend, reported as-is.
	Store   string
	Version string

	Database HealthChecker
	Redis    HealthChecker
	EventBus HealthChecker
}

type healthResponse struct {
	Status   string `json:"status"`
	Store    string `json:"store,omitempty"`
	Version  string `json:"version,omitempty"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
	EventBus string `json:"event_bus"`
}

// HealthHandler probes every checker in parallel, each bounded by the same
// deadline, and answers 503 when any of them is unreachable.
func HealthHandler(checks HealthChecks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		resp := healthResponse{Status: "ok", Store: checks.Store, Version: checks.Version}
		targets := []struct {
			checker HealthChecker
			result  *string
		}{
			{checks.Database, &resp.Database},
			{checks.Redis, &resp.Redis},
			{checks.EventBus, &resp.EventBus},
		}

		var g errgroup.Group
		for _, t := range targets {
			g.Go(func() error {
				*t.result = probe(ctx, t.checker)
				return nil
			})
		}
		_ = g.Wait()

		for _, t := range targets {
			if *t.result == "unreachable" {
				resp.Status = "degraded"
			}
		}

		status := http.StatusOK
		if resp.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		JSON(w, status, resp)
	}
}

func probe(ctx context.Context, c HealthChecker) string {
	if c == nil {
		return "disabled"
	}
	if err := c.Ping(ctx); err != nil {
		return "unreachable"
	}
	return "ok"
}
