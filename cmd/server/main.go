package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/chatop/internal/logging"
	"github.com/dmitrijs2005/chatop/internal/server"
	"github.com/dmitrijs2005/chatop/internal/server/config"
)

func main() {

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		os.Exit(1)
	}
}
