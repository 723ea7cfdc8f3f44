package main

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"mercator-hq/quarry/pkg/catalog"
	"mercator-hq/quarry/pkg/catalog/queries"
	"mercator-hq/quarry/pkg/cli"
	"mercator-hq/quarry/pkg/config"
	"mercator-hq/quarry/pkg/datasource"
	"mercator-hq/quarry/pkg/repository"
	"mercator-hq/quarry/pkg/telemetry/logging"
	"mercator-hq/quarry/pkg/telemetry/metrics"
	"mercator-hq/quarry/pkg/telemetry/tracing"
)

// app is the set of components a command runs against.
type app struct {
	cfg       *config.Config
	logger    *logging.Logger
	collector *metrics.Collector
	tracer    *tracing.Tracer
	db        *datasource.DB
	repo      *repository.Repository
}

// loadConfig initializes the global configuration from --config and the
// environment, then applies flag overrides.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	if err := config.Initialize(o.configFile); err != nil {
		return nil, cli.NewConfigError(o.configFile, err.Error())
	}
	cfg := config.GetConfig()
	if o.logLevel != "" {
		cfg.Telemetry.Logging.Level = o.logLevel
	}
	return cfg, nil
}

// newLogger builds the command's logger. Logs go to stderr so that stdout
// carries only command output.
func newLogger(cfg *config.Config, w io.Writer) (*logging.Logger, error) {
	lc := logging.FromConfig(cfg.Telemetry.Logging)
	lc.Writer = w
	logger, err := logging.New(lc)
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	return logger, nil
}

// formatter resolves --output for the command's stdout.
func (o *rootOptions) formatter(cmd *cobra.Command) (cli.Formatter, error) {
	format, err := cli.ParseFormat(o.output)
	if err != nil {
		return nil, err
	}
	return cli.NewFormatter(cli.Resolve(format, cmd.OutOrStdout())), nil
}

// openApp loads the configuration and opens the data source with logging,
// metrics and tracing attached. When prepare is set the catalog schema is
// migrated and seeded as configured. The caller must close the app.
func (o *rootOptions) openApp(ctx context.Context, cmd *cobra.Command, prepare bool) (*app, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	logger = logger.With("command", cmd.Name())

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, prometheus.NewRegistry())

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, tracing.WithServiceVersion(Version), tracing.WithGlobal())
	if err != nil {
		return nil, cli.NewConfigError("telemetry.tracing", err.Error())
	}

	db, err := datasource.Open(ctx, cfg.DataSource.Options(),
		datasource.WithLogger(logger.Slog()),
		datasource.WithStatementObserver(collector),
	)
	if err != nil {
		_ = tracer.Shutdown(context.Background())
		return nil, cli.NewCommandError(cmd.Name(), err)
	}
	if err := collector.RegisterDBStats(db.SQL(), db.Driver().String()); err != nil {
		logger.Warn("Failed to register connection pool metrics", "error", err)
	}

	a := &app{
		cfg:       cfg,
		logger:    logger,
		collector: collector,
		tracer:    tracer,
		db:        db,
		repo: repository.New(db,
			repository.WithLogger(logger.Slog()),
			repository.WithRecorder(collector),
			repository.WithTracer(tracer.Tracer()),
			repository.WithTimeout(cfg.Query.Timeout),
		),
	}

	if prepare {
		if err := a.prepare(ctx); err != nil {
			a.Close()
			return nil, cli.NewCommandError(cmd.Name(), err)
		}
	}
	return a, nil
}

// prepare applies the auto_migrate and seed settings.
func (a *app) prepare(ctx context.Context) error {
	if a.cfg.DataSource.AutoMigrate {
		if err := catalog.Migrate(ctx, a.db); err != nil {
			return err
		}
	}
	if a.cfg.DataSource.Seed {
		return a.seed(ctx)
	}
	return nil
}

// seed inserts the sample catalog in one transaction.
func (a *app) seed(ctx context.Context) error {
	return a.repo.InTx(ctx, a.cfg.Query.TxOptions(), func(r *repository.Repository) error {
		return catalog.Seed(ctx, r.Source())
	})
}

// refreshCatalog publishes the current catalog size to the collector.
func (a *app) refreshCatalog(ctx context.Context) error {
	stats, err := repository.GetContext(ctx, a.repo, queries.CatalogStats{})
	if err != nil {
		return err
	}
	a.collector.SetCatalogSize(map[string]int64{
		catalog.ProductsTable:   stats.Products,
		catalog.CategoriesTable: stats.Categories,
	}, time.Now())
	return nil
}

// Close flushes spans and closes the data source.
func (a *app) Close() error {
	return errors.Join(
		a.tracer.Shutdown(context.Background()),
		a.db.Close(),
	)
}
