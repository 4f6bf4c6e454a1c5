// 12 Oct 2026

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/andrew-torda/pdbnear/pkg/config"
	"github.com/andrew-torda/pdbnear/pkg/logger"
	"github.com/andrew-torda/pdbnear/pkg/server"
)

const (
	ExitSuccess = iota
	ExitFailure
	ExitUsageError
)

func mymain() int {
	fs := flag.NewFlagSet("nearsrv", flag.ContinueOnError)
	cfg, err := config.Load(fs, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitUsageError
	}
	if err := logger.InitLogger(logger.ParseLevel(cfg.LogLevel)); err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		return ExitFailure
	}
	defer logger.Sync()
	if !cfg.DotEnv {
		logger.Debug("no .env found, using environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := server.Run(ctx, cfg, logger.L()); err != nil {
		logger.Error("server", zap.Error(err))
		return ExitFailure
	}
	return ExitSuccess
}

func main() { os.Exit(mymain()) }
