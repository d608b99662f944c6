package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	// Domains
	"github.com/synapse/server/internal/domain/integration"
	"github.com/synapse/server/internal/domain/sales"
	"github.com/synapse/server/internal/domain/webhook"

	// Inbound adapters (HTTP handlers)
	integrationhttp "github.com/synapse/server/internal/adapter/inbound/http/integration"
	webhookhttp "github.com/synapse/server/internal/adapter/inbound/http/webhook"

	// Ports
	"github.com/synapse/server/internal/port/inbound"
	"github.com/synapse/server/internal/port/outbound"

	// Outbound adapters
	"github.com/synapse/server/internal/adapter/outbound/memory"
	"github.com/synapse/server/internal/adapter/outbound/postgres"
	redisadapter "github.com/synapse/server/internal/adapter/outbound/redis"

	// Shared infrastructure
	_ "github.com/synapse/server/cmd/server/docs" // swagger docs
	"github.com/synapse/server/internal/infra/retention"
	sharedcache "github.com/synapse/server/internal/shared/cache"
	"github.com/synapse/server/internal/shared/config"
	"github.com/synapse/server/internal/shared/database"
	"github.com/synapse/server/internal/shared/logger"
	"github.com/synapse/server/internal/shared/metrics"
	"github.com/synapse/server/internal/shared/middleware"
)

// Stores groups the persistence ports the domains are built on.
type Stores struct {
	Integrations outbound.IntegrationDatabasePort
	Products     outbound.ProductDatabasePort
	Sales        outbound.SaleDatabasePort
	WebhookLogs  outbound.WebhookLogDatabasePort
}

// PostgresStores returns the gorm-backed stores.
func PostgresStores(db *gorm.DB) Stores {
	return Stores{
		Integrations: postgres.NewIntegrationAdapter(db),
		Products:     postgres.NewProductAdapter(db),
		Sales:        postgres.NewSaleAdapter(db),
		WebhookLogs:  postgres.NewWebhookLogAdapter(db),
	}
}

// MemoryStores returns stores backed by a single in-process store.
func MemoryStores(s *memory.Store) Stores {
	return Stores{
		Integrations: s.Integrations(),
		Products:     s.Products(),
		Sales:        s.Sales(),
		WebhookLogs:  s.WebhookLogs(),
	}
}

// App is the webhook ingestion service.
type App struct {
	config   *config.Config
	db       *gorm.DB
	redis    goredis.UniversalClient
	router   *gin.Engine
	logger   *zap.Logger
	metrics  *metrics.Metrics
	registry *prometheus.Registry

	stores Stores
	locker outbound.KeyLockerPort

	// Domain services
	webhookDomain     inbound.WebhookDomain
	integrationDomain inbound.IntegrationDomain
	salesQuery        inbound.SalesQueryDomain

	purger *retention.Purger

	// Cleanup functions
	cleanupFuncs []func()
}

// New creates the application, connecting to the configured infrastructure.
func New(cfg *config.Config) (*App, error) {
	log := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	app := &App{config: cfg, logger: log}

	if err := app.initInfrastructure(); err != nil {
		return nil, fmt.Errorf("init infrastructure: %w", err)
	}

	app.build()
	return app, nil
}

// NewWithStores creates the application on caller-provided stores. Redis is not used.
func NewWithStores(cfg *config.Config, stores Stores, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	app := &App{config: cfg, logger: log, stores: stores}
	app.build()
	return app
}

func (a *App) build() {
	a.initMetrics()
	a.initLocker()
	a.initDomains()
	a.router = a.setupRouter()
	a.registerRoutes()
	a.initRetention()
}

// initInfrastructure opens the database and, when configured, Redis.
func (a *App) initInfrastructure() error {
	if a.config.Database.InMemory() {
		a.logger.Warn("Using in-memory store; data is lost on restart")
		a.stores = MemoryStores(memory.NewStore())
	} else {
		db, err := database.New(&a.config.Database)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		a.db = db

		if a.config.Database.AutoMigrate {
			if err := database.Migrate(db); err != nil {
				return err
			}
		}
		a.stores = PostgresStores(db)
	}

	if a.config.Redis.Address != "" {
		client, err := sharedcache.NewRedisClient(&a.config.Redis)
		if err != nil {
			a.logger.Warn("Redis connection failed, continuing with in-process locks", zap.Error(err))
		} else {
			a.redis = client
		}
	}

	return nil
}

func (a *App) initMetrics() {
	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.metrics = metrics.New(a.config.Metrics.Namespace, a.registry)
}

// initLocker serializes work per sale and per product name.
// Redis locks span replicas; the in-process locker is the fallback.
func (a *App) initLocker() {
	local := memory.NewKeyLocker()
	if a.redis == nil {
		a.locker = local
		return
	}

	a.locker = redisadapter.NewKeyLocker(
		a.redis,
		local,
		a.metrics,
		redisadapter.KeyLockConfig{
			TTL:  a.config.Webhook.LockTTL,
			Wait: a.config.Webhook.LockWait,
		},
		a.logger,
	)
}

func (a *App) initDomains() {
	audit := webhook.NewAuditLog(a.stores.WebhookLogs, a.logger)
	resolver := sales.NewProductResolver(a.stores.Products, a.locker, a.logger)
	ledger := sales.NewSaleLedger(a.stores.Sales, a.locker, a.metrics, a.logger)

	a.webhookDomain = webhook.NewWebhookDomain(
		a.stores.Integrations,
		webhook.DefaultRegistry(),
		resolver,
		ledger,
		audit,
		a.metrics,
		webhook.Config{
			RequireSignature: a.config.Webhook.RequireSignature,
			MaxBodyBytes:     a.config.Webhook.MaxBodyBytes,
		},
		a.logger,
	)
	a.integrationDomain = integration.NewIntegrationDomain(a.stores.Integrations, a.logger)
	a.salesQuery = sales.NewSalesQuery(a.stores.Sales)
}

func (a *App) initRetention() {
	a.purger = retention.NewPurger(
		a.webhookDomain.PurgeLogs,
		a.metrics.RecordLogsPurged,
		&retention.Config{
			Retention: a.config.Webhook.LogRetention,
			Interval:  a.config.Webhook.PurgeInterval,
			Timeout:   time.Minute,
		},
		a.logger,
	)
	a.cleanupFuncs = append(a.cleanupFuncs, a.purger.Stop)
}

// setupRouter creates and configures the Gin router.
func (a *App) setupRouter() *gin.Engine {
	if a.config.Server.Mode != "" {
		gin.SetMode(a.config.Server.Mode)
	}

	r := gin.New()

	r.Use(middleware.Recovery(a.logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(a.logger))
	r.Use(middleware.Metrics(a.metrics))

	r.GET("/health", a.health)

	if a.config.Metrics.Enabled {
		path := a.config.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	return r
}

func (a *App) health(c *gin.Context) {
	if a.db != nil {
		if err := database.Ping(a.db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// registerRoutes registers all HTTP routes.
func (a *App) registerRoutes() {
	webhookhttp.NewWebhookHandler(a.webhookDomain, a.config.Webhook.MaxBodyBytes).RegisterRoutes(a.router)

	if a.config.Admin.Token == "" {
		a.logger.Info("Admin token not configured, admin API disabled")
		return
	}

	admin := a.router.Group("/admin")
	admin.Use(middleware.AdminCORS(a.config.CORS.AllowOrigins))
	// Preflights carry no token; the CORS middleware answers them.
	admin.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	admin.Use(middleware.AdminToken(a.config.Admin.Token))

	integrationhttp.NewHandler(a.integrationDomain, a.salesQuery).RegisterRoutes(admin)
	webhookhttp.NewAdminHandler(a.webhookDomain).RegisterRoutes(admin)
}

// Start starts background work.
func (a *App) Start() {
	a.purger.Start()
}

// Router returns the HTTP router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Logger returns the application logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// PurgeLogs runs one retention pass immediately.
func (a *App) PurgeLogs(ctx context.Context) (int64, error) {
	return a.purger.RunOnce(ctx)
}

// Stop stops the application and releases resources.
func (a *App) Stop() {
	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	if a.logger != nil {
		_ = a.logger.Sync()
	}

	if a.redis != nil {
		_ = a.redis.Close()
	}

	if a.db != nil {
		_ = database.Close(a.db)
	}
}
