package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/studyflow/adapter/cli"
	"github.com/felixgeelhaar/studyflow/adapter/cli/schedule"
	cliSettings "github.com/felixgeelhaar/studyflow/adapter/cli/settings"
	"github.com/felixgeelhaar/studyflow/adapter/cli/task"
	"github.com/felixgeelhaar/studyflow/internal/app"
	"github.com/felixgeelhaar/studyflow/pkg/config"
	"github.com/felixgeelhaar/studyflow/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.IsDevelopment() {
		logCfg := observability.DefaultLogConfig()
		logCfg.Level = observability.LogLevelDebug
		logger = observability.NewLogger(logCfg)
	}
	cli.SetLogger(logger)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	cli.SetApp(cli.NewAppFromContainer(container))

	cli.AddCommand(task.Cmd)
	cli.AddCommand(schedule.Cmd)
	cli.AddCommand(cliSettings.Cmd)

	cli.Execute()
}
