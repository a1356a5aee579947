package app

import (
	"github.com/10037-kasarango1/Conjunta/pkg/cache"
	"github.com/10037-kasarango1/Conjunta/pkg/config"
	"github.com/10037-kasarango1/Conjunta/pkg/database"
	"github.com/10037-kasarango1/Conjunta/pkg/events"
	"github.com/10037-kasarango1/Conjunta/pkg/logger"
	"github.com/10037-kasarango1/Conjunta/pkg/telemetry"
)

// Application holds shared infrastructure dependencies for all services.
// Pass to every service's Routes call during server initialization.
//
// Logging: app.Logger is backed by a trace-aware handler. Use slog's context
// methods and trace_id, span_id, and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "product created", "product_id", id)
//	app.Logger.ErrorContext(ctx, "failed to save", "error", err)
//
// Db and EventBus are nil when STORE_BACKEND=memory; Redis is nil when
// REDIS_URL is empty.
type Application struct {
	Config   *config.Config
	Db       *database.Database
	Logger   logger.Logger
	EventBus *events.EventBus
	Redis    *cache.RedisClient
	Metrics  *telemetry.InventoryMetrics
}
