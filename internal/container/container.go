package container

import (
	"context"
	"fmt"
	"time"

	"autostat/adapters/payment"
	"autostat/adapters/postgres"
	"autostat/adapters/tabular"
	"autostat/app"
	"autostat/internal"
	"autostat/internal/config"
	"autostat/internal/diagnostics"
	"autostat/internal/dispatch"
	"autostat/internal/migration"
	"autostat/internal/profiling"
	"autostat/internal/report"
	"autostat/internal/session"
	"autostat/ports"
	"autostat/ui"

	"github.com/coder/quartz"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// JanitorInterval is how often expired submissions are purged
const JanitorInterval = time.Minute

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger
	Clock  quartz.Clock

	// Infrastructure; DB is nil with the in-memory session store
	DB *sqlx.DB

	// Ports
	Submissions ports.SubmissionRepository
	Decoder     ports.DatasetDecoder
	Payments    ports.PaymentGateway

	// Services
	Reports *app.ReportService

	// Servers
	Server      *ui.Server
	Diagnostics *diagnostics.Server

	memory *session.MemoryStore
}

// New builds the analysis pipeline. Storage and servers are set up by Init.
func New(cfg *config.Config, logger *internal.Logger, clock quartz.Clock) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewDiscardLogger()
	}
	if clock == nil {
		clock = quartz.NewReal()
	}

	c := &Container{Config: cfg, Logger: logger, Clock: clock}

	renderer, err := report.NewRenderer(report.DefaultContactURL)
	if err != nil {
		return nil, fmt.Errorf("failed to load report templates: %w", err)
	}
	profiler, err := profiling.NewDataProfiler()
	if err != nil {
		return nil, fmt.Errorf("failed to load profile templates: %w", err)
	}
	dispatcher := dispatch.New(dispatch.Options{
		IncludeOrdinal: cfg.Analysis.IncludeOrdinal,
		Workers:        cfg.Analysis.Workers,
	}, logger.With("component", "dispatch"))

	c.Reports = app.NewReportService(dispatcher, renderer, profiler, logger.With("component", "report"))
	c.Decoder = tabular.NewDataReader(logger.With("component", "reader"))

	if cfg.Payment.Enabled() {
		c.Payments = payment.NewStripeGateway(cfg.Payment.StripeAPIKey)
	} else {
		logger.Warn("STRIPE_API_KEY is not set; payment endpoints will answer 500")
	}
	return c, nil
}

// Init connects the configured session store and builds the servers
func (c *Container) Init(ctx context.Context) error {
	switch c.Config.Session.Store {
	case config.SessionStorePostgres:
		db, err := sqlx.ConnectContext(ctx, "postgres", c.Config.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := c.InitWithDatabase(ctx, db); err != nil {
			db.Close()
			return err
		}
	default:
		c.memory = session.NewMemoryStore(c.Clock, c.Logger.With("component", "session"))
		c.Submissions = c.memory
	}

	server, err := ui.NewServer(ui.Deps{
		Config:      c.Config,
		Decoder:     c.Decoder,
		Submissions: c.Submissions,
		Payments:    c.Payments,
		Reports:     c.Reports,
		Clock:       c.Clock,
		Logger:      c.Logger.With("component", "http"),
	})
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}
	c.Server = server

	if c.Config.Profiling.Enabled {
		c.Diagnostics = diagnostics.NewServer(c.Config.Profiling.Port, c.readinessChecks(), c.Logger.With("component", "diagnostics"))
	}
	return nil
}

// InitWithDatabase runs migrations and stores submissions in PostgreSQL
func (c *Container) InitWithDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	runner := migration.NewRunner()
	if err := runner.Run(ctx, db); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}

	c.DB = db
	c.Submissions = postgres.NewSubmissionRepository(db, c.Clock)
	c.Logger.Info("submissions stored in PostgreSQL (schema %s)", runner.Version())
	return nil
}

func (c *Container) readinessChecks() map[string]diagnostics.Check {
	checks := map[string]diagnostics.Check{}
	if c.DB != nil {
		checks["database"] = c.DB.PingContext
	}
	return checks
}

// StartJanitor purges expired submissions every JanitorInterval until ctx is done
func (c *Container) StartJanitor(ctx context.Context) quartz.Waiter {
	if c.memory != nil {
		return c.memory.StartJanitor(ctx, JanitorInterval)
	}
	return c.Clock.TickerFunc(ctx, JanitorInterval, func() error {
		n, err := c.Submissions.PurgeExpired(ctx)
		if err != nil {
			c.Logger.Warn("purging expired submissions failed: %v", err)
			return nil
		}
		if n > 0 {
			c.Logger.Debug("purged %d expired submissions", n)
		}
		return nil
	}, "container", "janitor")
}

// Shutdown releases the database connection
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
