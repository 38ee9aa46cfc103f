package cmd

import (
	"context"
	"fmt"
	"log/slog"

	httpadapter "reconciler/internal/adapters/in/http"
	"reconciler/internal/adapters/out/couriers/acs"
	"reconciler/internal/adapters/out/couriers/geniki"
	"reconciler/internal/adapters/out/sqlstore/orderrepo"
	"reconciler/internal/core/application/usecases/commands"
	"reconciler/internal/core/application/usecases/queries"
	"reconciler/internal/core/ports"
	"reconciler/internal/jobs"
	"reconciler/internal/metrics"
	"reconciler/internal/pkg/httpclient"

	"go.opentelemetry.io/otel/trace"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenDatabase connects to the order store selected by cfg.DBDriver and
// verifies it with a ping.
func OpenDatabase(ctx context.Context, cfg Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN())
	default:
		dialector = mysql.Open(cfg.DSN())
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", cfg.DBDriver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Workers + 2)
	sqlDB.SetMaxIdleConns(cfg.Workers)

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping %s: %w", cfg.DBDriver, err)
	}
	return db, nil
}

type CompositionRoot struct {
	cfg       Config
	gormDB    *gorm.DB
	metrics   *metrics.Metrics
	logger    *slog.Logger
	store     *orderrepo.GormOrderRepository
	providers []ports.TrackingProvider
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, tracer trace.Tracer, logger *slog.Logger) CompositionRoot {
	m := metrics.New()
	client := httpclient.NewClient(tracer, cfg.ProviderTimeout)

	var providers []ports.TrackingProvider
	if cfg.ACS.Enabled() {
		providers = append(providers, acs.NewProvider(acs.Config{
			APIURL:          cfg.ACS.APIURL,
			CompanyID:       cfg.ACS.CompanyID,
			CompanyPassword: cfg.ACS.CompanyPassword,
			UserID:          cfg.ACS.UserID,
			UserPassword:    cfg.ACS.UserPassword,
			APIKey:          cfg.ACS.APIKey,
			RateLimit:       cfg.ACS.RateLimit,
		}, client, m, logger))
	}
	if cfg.Geniki.Enabled() {
		providers = append(providers, geniki.NewProvider(geniki.Config{
			APIURL:    cfg.Geniki.APIURL,
			Username:  cfg.Geniki.Username,
			Password:  cfg.Geniki.Password,
			APIKey:    cfg.Geniki.APIKey,
			RateLimit: cfg.Geniki.RateLimit,
		}, client, m))
	}

	return CompositionRoot{
		cfg:       cfg,
		gormDB:    gormDB,
		metrics:   m,
		logger:    logger,
		store:     orderrepo.NewGormOrderRepository(gormDB, cfg.OrdersTable, logger),
		providers: providers,
	}
}

// CheckOrderStore verifies the orders table layout before any run starts.
func (c *CompositionRoot) CheckOrderStore(ctx context.Context) error {
	return c.store.CheckSchema(ctx)
}

func (c *CompositionRoot) Metrics() *metrics.Metrics {
	return c.metrics
}

func (c *CompositionRoot) CreateConfirmCODSettlementsCommandHandler() commands.ConfirmCODSettlementsCommandHandler {
	return commands.NewConfirmCODSettlementsCommandHandler(c.store, c.providers, c.logger)
}

func (c *CompositionRoot) CreateReconcileDeliveriesCommandHandler() commands.ReconcileDeliveriesCommandHandler {
	return commands.NewReconcileDeliveriesCommandHandler(c.store, c.providers, c.cfg.Workers, c.logger)
}

func (c *CompositionRoot) CreateGetPendingOrdersQueryHandler() queries.GetPendingOrdersQueryHandler {
	table := c.cfg.OrdersTable
	if table == "" {
		table = orderrepo.DefaultTable
	}
	return queries.NewGetPendingOrdersQueryHandler(c.gormDB, table)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.store)
}

func (c *CompositionRoot) CreateReconciliationJob() *jobs.ReconciliationJob {
	return jobs.NewReconciliationJob(
		c.CreateConfirmCODSettlementsCommandHandler(),
		c.CreateReconcileDeliveriesCommandHandler(),
		c.metrics,
		jobs.Options{
			Schedule:       c.cfg.Schedule,
			RunTimeout:     c.cfg.RunTimeout,
			SettlementDate: c.cfg.SettlementDate,
		},
		c.logger,
	)
}

func (c *CompositionRoot) CreateHTTPServer(job *jobs.ReconciliationJob) *httpadapter.Server {
	return httpadapter.NewServer(
		c.CreateGetPendingOrdersQueryHandler(),
		c.CreateGetOrderQueryHandler(),
		job,
		c.ping,
		c.metrics.Handler(),
	)
}

func (c *CompositionRoot) ping(ctx context.Context) error {
	sqlDB, err := c.gormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
