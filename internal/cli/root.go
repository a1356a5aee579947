// Package cli implements inventoryctl, the operator command line for the
// inventory.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/10037-kasarango1/Conjunta/pkg/app"
	"github.com/10037-kasarango1/Conjunta/pkg/cache"
	"github.com/10037-kasarango1/Conjunta/pkg/config"
	"github.com/10037-kasarango1/Conjunta/pkg/database"
	"github.com/10037-kasarango1/Conjunta/pkg/events"
	"github.com/10037-kasarango1/Conjunta/pkg/logger"
	appsvcs "github.com/10037-kasarango1/Conjunta/services/inventory/application/services"
)

var version = "dev"

// opener wires the inventory services for one command invocation. The
// returned func releases whatever the services hold.
type opener func(ctx context.Context) (*appsvcs.Services, func(), error)

func newRootCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "inventoryctl",
		Short:         "Manage the product inventory",
		Long:          "inventoryctl registers, searches, edits and removes products and inspects their quantity change history.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newSearchCmd(open))
	cmd.AddCommand(newCreateCmd(open))
	cmd.AddCommand(newUpdateCmd(open))
	cmd.AddCommand(newDeleteCmd(open))
	cmd.AddCommand(newChangesCmd(open))
	cmd.AddCommand(newExportCmd(open))
	cmd.AddCommand(newShellCmd(open))
	return cmd
}

// NewRootCmdForTest returns the root command bound to svcs.
func NewRootCmdForTest(svcs *appsvcs.Services) *cobra.Command {
	return newRootCmd(func(context.Context) (*appsvcs.Services, func(), error) {
		return svcs, func() {}, nil
	})
}

// Execute runs inventoryctl against the store selected by the environment.
func Execute() error {
	return newRootCmd(openFromEnv).Execute()
}

// openFromEnv builds the same service graph as the API server. Events are
// published directly so the worker still sees CLI edits.
func openFromEnv(ctx context.Context) (*appsvcs.Services, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	// stdout carries tables; logs go to stderr and only problems by default.
	level := "warn"
	if cfg.LogLevel == "debug" {
		level = "debug"
	}
	log := logger.NewWithOptions(logger.Options{Level: level, Format: logger.FormatText, Output: os.Stderr})

	a := &app.Application{Config: cfg, Logger: log}
	var closers []func()
	release := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if !cfg.UsesMemoryStore() {
		pool, err := database.NewPool(ctx, cfg.DefinitionDatabaseURL, log)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		closers = append(closers, pool.Close)
		a.Db = pool

		bus, err := events.NewEventBus(cfg, log)
		if err != nil {
			release()
			return nil, nil, fmt.Errorf("setup event bus: %w", err)
		}
		closers = append(closers, func() { _ = bus.Close() })
		a.EventBus = bus
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	if redisClient != nil {
		closers = append(closers, func() { _ = redisClient.Close() })
		a.Redis = redisClient
	}

	return appsvcs.New(a), release, nil
}

// withServices opens the services around run.
func withServices(cmd *cobra.Command, open opener, run func(ctx context.Context, svcs *appsvcs.Services) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svcs, release, err := open(ctx)
	if err != nil {
		return err
	}
	defer release()
	return run(ctx, svcs)
}
