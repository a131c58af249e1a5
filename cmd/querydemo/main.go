// querydemo runs a handful of lazy queries over a configured integer range
// and prints the results.
//
// Usage:
//
//	querydemo                       # search ./cmd/querydemo/config.yml etc.
//	querydemo -config demo.yml      # explicit config file
//	querydemo -version              # print build info
//
// Any setting can be overridden from the environment, e.g.
// QUERYDEMO_SOURCE_CHUNK_SIZE=4.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/kbukum/querykit/logger"
	"github.com/kbukum/querykit/version"
)

func main() {
	configFlag := flag.String("config", "", "path to config file")
	versionFlag := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Println(version.Get())
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configFlag, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, out io.Writer) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger.SetGlobalLogger(logger.New(&cfg.Logger, cfg.Name))
	logger.RegisterDefaults("query", "observability")
	log := logger.Get("query")
	logger.Info("starting", version.Get().Fields())

	metrics, shutdown, err := setupTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		if err := shutdown(); err != nil {
			logger.Warn("telemetry shutdown failed", logger.Fields(logger.FieldError, err.Error()))
		}
	}()

	d := &demo{out: out, log: log, ctx: ctx, metrics: metrics}
	if err := d.run(cfg.Source); err != nil {
		logger.Error("query failed", logger.ErrorFields("demo", err))
		return err
	}
	logger.Info("done")
	return nil
}
