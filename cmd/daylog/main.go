package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"daylog/internal/api"
	"daylog/internal/cli"
	"daylog/internal/config"
)

func main() {
	// Cancelled on interrupt so that serve shuts down gracefully
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(config.NewLoader(), api.New)
	if err := root.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
