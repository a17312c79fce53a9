// Package main provides the CLI entrypoint for unifier.
//
// unifier reads transaction exports of several banks (CSV, TSV or JSON),
// recognizes which bank produced each record and writes them all as one
// CSV file in a canonical schema.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := RootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
