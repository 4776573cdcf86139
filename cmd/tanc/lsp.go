package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/gops/agent"
	"github.com/scott-cotton/cli"

	"github.com/leeola/tanc/docindex"
	"github.com/leeola/tanc/lsp"
)

func lspMain(cfg *LSPConfig, cc *cli.Context, args []string) error {
	args, err := cfg.LSP.Parse(cc, args)
	if err != nil {
		cfg.LSP.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: lsp takes no arguments, got %v", cli.ErrUsage, args)
	}
	if cfg.Gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			cfg.Log.Warn("gops agent failed", "err", err)
		} else {
			defer agent.Close()
		}
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	idx := docindex.New(docindex.WithLogger(cfg.Log))
	srv := lsp.NewServer(idx, cfg.Log)
	cfg.Log.Info("serving", "pid", os.Getpid())
	err = srv.Serve(ctx, lsp.Stdio(os.Stdin, os.Stdout))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
