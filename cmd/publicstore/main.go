package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/timemore/publicstore/app"
	"github.com/timemore/publicstore/logger"
)

var log = logger.NewPkgLogger()

var (
	revisionID = "unknown"
	buildTime  = "unknown"
)

func main() {
	app.SetBuildInfo(revisionID, buildTime)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("publicstore")
		stop()
		os.Exit(1)
	}
}
