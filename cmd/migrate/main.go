package main

import (
	"context"
	"os"

	"github.com/10037-kasarango1/Conjunta/migrations/inventory"
	"github.com/10037-kasarango1/Conjunta/pkg/config"
	"github.com/10037-kasarango1/Conjunta/pkg/logger"
	"github.com/10037-kasarango1/Conjunta/pkg/migrator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg)

	ctx := context.Background()
	if err := migrator.RunMigrations(ctx, cfg.DefinitionDatabaseURL, inventory.FS, log); err != nil {
		log.Error("migrations failed", "error", err)
		os.Exit(1)
	}
}
