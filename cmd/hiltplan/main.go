// Package main is the entry point for hiltplan, which orders and renders graph
// snapshots exported by hilt containers.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go.trai.ch/zerr"

	"github.com/danpasecinic/hilt/cmd/hiltplan/commands"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cli := commands.New()
	cli.SetArgs(args)

	if err := cli.Execute(ctx); err != nil {
		zerr.Log(ctx, logger, err)
		return 1
	}
	return 0
}
