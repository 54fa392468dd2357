package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/transfer-client/internal/config"
	"github.com/samvad-hq/transfer-client/internal/logger"
	"github.com/samvad-hq/transfer-client/pkg/httpclient"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "transfer failed: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.DebugObj("transfer starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return newRootCmd(cfg, log, os.Stdout).ExecuteContext(ctx)
}

// exitCode is the completion code of the first failed transfer in err, or 1
// when err did not come from a transfer.
func exitCode(err error) int {
	var te *httpclient.Error
	if errors.As(err, &te) && te.Code != httpclient.CodeOK {
		return int(te.Code)
	}
	return 1
}
