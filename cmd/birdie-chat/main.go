package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/oddshoes/birdie/internal/brand"
	"github.com/oddshoes/birdie/internal/config"
	"github.com/oddshoes/birdie/internal/console"
	"github.com/oddshoes/birdie/internal/dispatch"
	"github.com/oddshoes/birdie/internal/logging"
	"github.com/oddshoes/birdie/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// Keep the terminal clean: only warnings and above, human-readable.
	logger := logging.New("warn", "console")
	defer logger.Sync()

	kb, err := brand.Load(cfg.BrandFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "brand: %v\n", err)
		os.Exit(1)
	}

	svc := dispatch.New(cfg, dispatch.Options{
		Sessions:  session.NewManager(0),
		Knowledge: kb,
		Logger:    logger,
	})

	var render console.Renderer = console.Plain{}
	if console.IsTerminal() {
		render = console.NewMarkdown()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := console.NewREPL(svc, os.Stdout, render).Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "birdie-chat: %v\n", err)
		os.Exit(1)
	}
}
