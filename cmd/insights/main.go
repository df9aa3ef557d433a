package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"insights/internal/cli"
	"insights/internal/config"
)

// Set by -ldflags at build time
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(version, config.Load).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
