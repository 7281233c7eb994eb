package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	_ "github.com/lib/pq" // PostgreSQL driver

	"reportfilter/internal/config"
	"reportfilter/internal/constants"
	"reportfilter/internal/db"
	"reportfilter/internal/filtering"
	"reportfilter/internal/logger"
	"reportfilter/internal/options"
	"reportfilter/internal/report"
	"reportfilter/internal/session"
	"reportfilter/pkg/bootstrap"
	"reportfilter/pkg/circuitbreaker"
	"reportfilter/pkg/health"
	"reportfilter/pkg/metrics"
	"reportfilter/pkg/middleware"
	"reportfilter/pkg/migrations"
	"reportfilter/pkg/ratelimit"
	"reportfilter/pkg/tracing"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type App struct {
	*bootstrap.Base

	dbConnector    *bootstrap.DatabaseConnector
	db             *sql.DB
	redis          *redis.Client
	mongoClient    *mongo.Client
	provider       options.Provider
	sessions       session.Store
	health         *health.CheckerRegistry
	limiter        *ratelimit.Limiter
	server         *http.Server
	router         *gin.Engine
	tracerProvider *tracing.TracerProvider
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	return &App{
		Base:        bootstrap.NewBase(cfg, log),
		dbConnector: bootstrap.NewDatabaseConnector(cfg, log),
		health:      health.NewCheckerRegistry(),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	tp, err := tracing.Init(a.Config.Tracing)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.tracerProvider = tp

	initCtx, cancel := context.WithTimeout(ctx, constants.ConnectTimeout)
	defer cancel()

	if err := a.initDatabases(initCtx); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := a.initProvider(initCtx); err != nil {
		return fmt.Errorf("failed to initialize option source: %w", err)
	}

	if err := a.initSessions(); err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}

	if err := a.InitBroker(); err != nil {
		return err
	}
	if a.Config.Broker.Type == "kafka" {
		a.health.RegisterOptional(health.NewKafkaChecker(a.Config.Broker.Kafka.Brokers))
	}

	if err := a.initRouter(); err != nil {
		return fmt.Errorf("failed to initialize router: %w", err)
	}

	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  a.Config.Server.ReadTimeout(),
		WriteTimeout: a.Config.Server.WriteTimeout(),
	}

	return nil
}

// initDatabases connects only the stores the configured source and session
// store need.
func (a *App) initDatabases(ctx context.Context) error {
	switch a.Config.Options.Source {
	case constants.SourceTypePostgreSQL:
		pg, err := a.dbConnector.InitPostgreSQL(ctx)
		if err != nil {
			return err
		}
		if pg == nil {
			return fmt.Errorf("options source %q requires database.postgres.host", constants.SourceTypePostgreSQL)
		}
		a.db = pg
		a.health.Register(health.NewPostgreSQLChecker(pg))

		if a.Config.Database.RunMigrations {
			version, err := db.Migrate(pg)
			if err != nil {
				return err
			}
			a.Logger.InfowCtx(ctx, "PostgreSQL migrations applied", "version", version)
		}

	case constants.SourceTypeMongoDB:
		client, err := a.dbConnector.InitMongoDB(ctx)
		if err != nil {
			return err
		}
		if client == nil {
			return fmt.Errorf("options source %q requires database.mongodb.uri", constants.SourceTypeMongoDB)
		}
		a.mongoClient = client
		a.health.Register(health.NewMongoDBChecker(client))

		if a.Config.Database.RunMigrations {
			collections := options.DefaultCatalog().Collections()
			if err := migrations.EnsureEntityIndexes(ctx, a.dbConnector.MongoDatabase(client), collections); err != nil {
				return err
			}
		}
	}

	if a.Config.Sessions.Store == constants.StoreTypeRedis {
		rdb, err := a.dbConnector.InitRedis(ctx)
		if err != nil {
			return err
		}
		a.redis = rdb
		a.health.Register(health.NewRedisChecker(rdb))
	}

	return nil
}

func (a *App) initProvider(ctx context.Context) error {
	catalog := options.DefaultCatalog()

	var provider options.Provider
	switch a.Config.Options.Source {
	case constants.SourceTypePostgreSQL:
		provider = options.NewPostgresProvider(a.db, catalog)
	case constants.SourceTypeMongoDB:
		provider = options.NewMongoProvider(a.dbConnector.MongoDatabase(a.mongoClient), catalog)
	case constants.SourceTypeMemory:
		mem, err := options.NewMemoryProvider(catalog)
		if err != nil {
			return err
		}
		if path := a.Config.Options.FixturesFile; path != "" {
			if err := mem.LoadFixturesFile(path); err != nil {
				return err
			}
			a.Logger.InfowCtx(ctx, "Loaded option fixtures", "path", path)
		}
		provider = mem
	default:
		return fmt.Errorf("unknown options source: %s", a.Config.Options.Source)
	}

	if cbCfg := a.Config.CircuitBreaker; cbCfg.Enabled {
		cfg := circuitbreaker.DefaultConfig("")
		if cbCfg.MaxRequests > 0 {
			cfg.MaxRequests = cbCfg.MaxRequests
		}
		if cbCfg.Interval > 0 {
			cfg.Interval = cbCfg.Interval
		}
		if cbCfg.Timeout > 0 {
			cfg.Timeout = cbCfg.Timeout
		}
		if cbCfg.FailureRatio > 0 {
			cfg.FailureRatio = cbCfg.FailureRatio
		}
		if cbCfg.MinRequests > 0 {
			cfg.MinRequests = cbCfg.MinRequests
		}
		provider = options.NewCircuitBreakerProvider(provider, cfg)
		a.Logger.InfowCtx(ctx, "Circuit breaker enabled for option source", "source", provider.Name())
	}

	a.provider = provider
	return nil
}

func (a *App) initSessions() error {
	ttl := a.Config.Sessions.TTL()
	switch a.Config.Sessions.Store {
	case constants.StoreTypeRedis:
		a.sessions = session.NewRedisStore(a.redis, ttl)
	case constants.StoreTypeMemory, "":
		a.sessions = session.NewMemoryStore(ttl)
	default:
		return fmt.Errorf("unknown session store: %s", a.Config.Sessions.Store)
	}
	return nil
}

func (a *App) initRouter() error {
	registry, err := report.NewBuiltinRegistry()
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	if a.Config.Tracing.Enabled {
		router.Use(tracing.GinMiddleware(constants.ServiceName))
	}

	router.Use(middleware.Recovery(a.Logger))
	router.Use(middleware.Logger(a.Logger))
	router.Use(middleware.RequestID())

	if rl := a.Config.Server.RateLimit; rl.Enabled {
		a.limiter = ratelimit.NewLimiter(ratelimit.Config{
			RPS:             rl.RPS,
			Burst:           rl.Burst,
			CleanupInterval: time.Duration(rl.CleanupInterval) * time.Second,
			MaxAge:          time.Duration(rl.MaxAge) * time.Second,
		})
		router.Use(a.limiter.Middleware())
		a.Logger.InfowCtx(context.Background(), "Rate limiting enabled", "rps", rl.RPS, "burst", rl.Burst)
	}

	svc := filtering.NewService(registry, a.provider, a.sessions,
		filtering.WithPublisher(a.Publisher),
		filtering.WithLogger(a.Logger),
		filtering.WithDefaultLimit(a.Config.Options.DefaultLimit),
		filtering.WithPublishTimeout(a.Config.Broker.Kafka.PublishTimeout),
	)
	filtering.NewHandler(svc, a.Logger).RegisterRoutes(router)

	metrics.Register()

	router.GET("/health", a.health.Handler())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	a.router = router
	return nil
}

func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfowCtx(ctx, "Server listening", "port", a.Config.Server.Port)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	if a.limiter != nil {
		g.Go(func() error {
			a.limiter.Run(ctx)
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		return a.Shutdown(context.Background())
	})

	return g.Wait()
}

func (a *App) Shutdown(ctx context.Context) error {
	return a.Base.Shutdown(ctx, func(ctx context.Context) []error {
		shutdownCtx, cancel := context.WithTimeout(ctx, constants.ShutdownTimeout)
		defer cancel()

		var errs []error

		if a.server != nil {
			if err := a.server.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
			}
		}

		if a.tracerProvider != nil {
			if err := a.tracerProvider.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("tracer provider shutdown error: %w", err))
			}
		}

		return append(errs, a.dbConnector.ShutdownDatabases(shutdownCtx, a.redis, a.db, a.mongoClient)...)
	})
}
