package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "pathways",
	})

	if err := newRootCmd(logger, os.Stdout).ExecuteContext(ctx); err != nil {
		logger.Error("failed", "err", err)
		stop()
		os.Exit(1)
	}
}
