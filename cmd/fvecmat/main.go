package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hupe1980/fvecmat/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rc := cmd.NewRootCommand(os.Stdin, os.Stdout, os.Stderr)
	if err := rc.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
