package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/quarry/pkg/catalog"
	"mercator-hq/quarry/pkg/cli"
	"mercator-hq/quarry/pkg/config"
	"mercator-hq/quarry/pkg/scheduler"
	"mercator-hq/quarry/pkg/server"
	"mercator-hq/quarry/pkg/telemetry/health"
	"mercator-hq/quarry/pkg/telemetry/logging"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		listenAddress string
		watch         bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog API over HTTP",
		Long: `Start the HTTP server with the catalog API, Prometheus metrics and
health probes.

The schema is migrated on start when datasource.auto_migrate is set and the
sample catalog inserted when datasource.seed is set. With --watch, or on
SIGHUP, the configuration file is reloaded and the new log level applied;
other settings need a restart.

Examples:
  # Start with defaults (./quarry.db on 127.0.0.1:8080)
  quarry serve

  # Start with a config file and reload it on change
  quarry serve --config /etc/quarry/quarry.yaml --watch

  # Override the listen address
  quarry serve --listen 0.0.0.0:9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts, listenAddress, watch)
		},
	}

	cmd.Flags().StringVarP(&listenAddress, "listen", "l", "", "override listen address")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the config file when it changes")
	return cmd
}

func runServe(cmd *cobra.Command, opts *rootOptions, listenAddress string, watch bool) error {
	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()
	ctx = logging.WithCommand(ctx, "serve")

	if watch && opts.configFile == "" {
		return cli.NewConfigError("watch", "requires --config")
	}

	a, err := opts.openApp(ctx, cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.cfg
	if listenAddress != "" {
		cfg.Server.ListenAddress = listenAddress
	}

	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
	checker.RegisterCheck("database", health.DatabaseCheck(a.db))
	checker.RegisterCheck("schema", health.SchemaCheck(a.db, catalog.ProductsTable, catalog.CategoriesTable))

	handler := server.NewHandler(server.Options{
		API:       server.NewAPI(a.repo, cfg.Query, a.logger.Slog()),
		Collector: a.collector,
		Tracer:    a.tracer.Tracer(),
		Checker:   checker,
		Telemetry: cfg.Telemetry,
		Version:   versionInfo(),
		Logger:    a.logger.Slog(),
	})
	srv := server.New(&cfg.Server, handler, a.logger.Slog())

	refresh := scheduler.New("catalog.stats", cfg.Server.StatsSchedule, a.refreshCatalog, a.logger.Slog())
	if err := refresh.RunNow(ctx); err != nil {
		a.logger.WarnContext(ctx, "Catalog stats refresh failed", "error", err)
	}
	if err := refresh.Start(ctx); err != nil {
		return cli.NewCommandError("serve", err)
	}
	defer refresh.Stop()

	applyReload := func(next *config.Config) {
		if err := a.logger.SetLevel(next.Telemetry.Logging.Level); err != nil {
			a.logger.WarnContext(ctx, "Ignoring reloaded log level", "error", err)
			return
		}
		a.logger.InfoContext(ctx, "Configuration reloaded", "log_level", next.Telemetry.Logging.Level)
	}

	if watch {
		watcher, err := config.NewWatcher(opts.configFile, config.DefaultWatchDebounce, a.logger.Slog())
		if err != nil {
			return cli.NewCommandError("serve", err)
		}
		go func() {
			if err := watcher.Watch(ctx, applyReload); err != nil {
				a.logger.ErrorContext(ctx, "Config watcher stopped", "error", err)
			}
		}()
	}

	reloads, stopReloads := cli.ReloadSignals()
	defer stopReloads()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-reloads:
				if opts.configFile == "" {
					continue
				}
				if err := config.ReloadConfig(opts.configFile); err != nil {
					a.logger.ErrorContext(ctx, "Reload failed", "error", err)
					continue
				}
				applyReload(config.GetConfig())
			}
		}
	}()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Quarry v%s\n", Version)
	fmt.Fprintf(out, "✓ Data source opened (%s)\n", cfg.DataSource.Driver)
	fmt.Fprintf(out, "✓ Listening on %s\n", cfg.Server.ListenAddress)
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Fprintf(out, "✓ Metrics endpoint: http://%s%s\n", cfg.Server.ListenAddress, cfg.Telemetry.Metrics.Path)
	}
	if cfg.Telemetry.Health.Enabled {
		fmt.Fprintf(out, "✓ Health endpoint: http://%s%s\n", cfg.Server.ListenAddress, cfg.Telemetry.Health.LivenessPath)
	}
	if next := refresh.NextRun(); next != nil {
		fmt.Fprintf(out, "✓ Catalog stats refresh (%s), next at %s\n", cfg.Server.StatsSchedule, next.Format(time.RFC3339))
	}

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("serve", err)
	}
	fmt.Fprintln(out, "✓ Server stopped")
	return nil
}
