// Command fanlogdemo exercises the fanlog core: it registers sinks from flags
// or a TOML file, runs a passing check, then has several goroutines log
// concurrently so their lines can be inspected for interleaving. With
// --fail-check it finishes with a failed check, which aborts the process.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/sivaosorg/fanlog"
	"github.com/spf13/cobra"
)

type options struct {
	configPath string
	workers    int
	count      int
	failCheck  bool
	watch      bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		opts  options
		flags = fanlog.Config{Files: []string{"sct.log"}}
	)

	cmd := &cobra.Command{
		Use:   "fanlogdemo",
		Short: "Log concurrently to every configured sink",
		Long: `fanlogdemo registers the configured sinks, runs a passing check and
starts a number of goroutines that each log a fixed number of lines. Every
line is delivered and flushed to all sinks before the next one starts, so
the output files never contain interleaved lines.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := flags
			if opts.configPath != "" {
				fileCfg, err := fanlog.LoadConfig(opts.configPath)
				if err != nil {
					return err
				}
				cfg = fileCfg.Overlay(cmd.Flags(), flags)
			}
			return run(cmd.Context(), cfg, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "TOML file with a [logging] table")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 2, "number of logging goroutines")
	cmd.Flags().IntVarP(&opts.count, "count", "n", 1000, "lines logged by each goroutine")
	cmd.Flags().BoolVar(&opts.failCheck, "fail-check", false, "end with a failed check, aborting the process")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "reload verbosity when the config file changes (requires --config)")
	flags.AddFlags(cmd.Flags())

	return cmd
}

func run(ctx context.Context, cfg fanlog.Config, opts options) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := fanlog.New(cfg.Options()...)
	if err := cfg.Apply(logger); err != nil {
		fmt.Fprintln(os.Stderr, "fanlogdemo:", err)
	}

	if opts.watch && opts.configPath != "" {
		w := fanlog.NewWatcher(logger, opts.configPath, 0)
		if err := w.Start(ctx); err != nil {
			logger.Log(fanlog.WARNING, "Cannot watch config: ", err)
		}
	}

	logger.Check(true, "true", "check")
	logger.Logf(fanlog.INFO, "starting %d workers, %d lines each", opts.workers, opts.count)

	var wg sync.WaitGroup
	for i := 1; i <= opts.workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for n := 0; n < opts.count; n++ {
				if ctx.Err() != nil {
					return
				}
				logger.Log(fanlog.INFO, "f", id)
				logger.Log(1, "f", id, " line ", n)
			}
		}(i)
	}
	wg.Wait()

	logger.Log(fanlog.INFO, "done; dropped lines: ", logger.Dropped())
	logger.Check(!opts.failCheck, "!opts.failCheck", "fail-check requested")
	return nil
}
