// Package container wires the client together with Uber FX
package container

import (
	"context"
	"fmt"

	appai "github.com/alchemorsel/recipeweb/internal/application/ai"
	apprecipe "github.com/alchemorsel/recipeweb/internal/application/recipe"
	appuser "github.com/alchemorsel/recipeweb/internal/application/user"
	"github.com/alchemorsel/recipeweb/internal/infrastructure/config"
	"github.com/alchemorsel/recipeweb/internal/infrastructure/http/gateway"
	"github.com/alchemorsel/recipeweb/internal/infrastructure/monitoring"
	"github.com/alchemorsel/recipeweb/internal/infrastructure/persistence/memory"
	redisstore "github.com/alchemorsel/recipeweb/internal/infrastructure/persistence/redis"
	"github.com/alchemorsel/recipeweb/internal/infrastructure/persistence/sqlite"
	"github.com/alchemorsel/recipeweb/internal/infrastructure/session"
	"github.com/alchemorsel/recipeweb/internal/ports/inbound"
	"github.com/alchemorsel/recipeweb/internal/ports/outbound"
	"github.com/alchemorsel/recipeweb/pkg/healthcheck"
	"github.com/alchemorsel/recipeweb/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	gormLogger "gorm.io/gorm/logger"
)

// ConfigFile is the path handed to config.Load; empty searches the defaults
type ConfigFile string

// Module provides everything but the Navigator, which belongs to the front-end
var Module = fx.Options(
	ConfigModule,
	AppModule,
)

// AppModule is Module without configuration loading, for callers that supply
// their own *config.Config
var AppModule = fx.Options(
	LoggerModule,
	MonitoringModule,
	StoreModule,
	GatewayModule,
	ServiceModule,
	SessionModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func(path ConfigFile) (*config.Config, error) {
		return config.Load(string(path))
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// MonitoringModule provides metrics and tracing
var MonitoringModule = fx.Provide(
	func() *prometheus.Registry {
		return prometheus.NewRegistry()
	},
	func(reg *prometheus.Registry) (*monitoring.GatewayMetrics, error) {
		return monitoring.NewGatewayMetrics(reg)
	},
	NewTracing,
	func(tp *monitoring.TracingProvider) trace.Tracer {
		return tp.Tracer()
	},
)

// NewTracing creates the tracing provider and flushes it on shutdown
func NewTracing(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*monitoring.TracingProvider, error) {
	tp, err := monitoring.NewTracingProvider(context.Background(), monitoring.TracingConfig{
		ServiceName:    cfg.App.Name,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		OTLPEndpoint:   cfg.Monitoring.OTLPEndpoint,
		SamplingRate:   cfg.Monitoring.SamplingRate,
		Enabled:        cfg.Monitoring.EnableTracing,
	}, log)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{OnStop: tp.Shutdown})
	return tp, nil
}

// StoreModule provides the session store selected by session.driver
var StoreModule = fx.Provide(NewSessionStore)

// NewSessionStore opens the configured session store
func NewSessionStore(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (outbound.SessionStore, error) {
	switch cfg.Session.Driver {
	case config.SessionDriverMemory:
		log.Debug("Using in-memory session store")
		return memory.NewSessionStore(), nil

	case config.SessionDriverRedis:
		client, err := redisstore.NewClient(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.Database)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{OnStop: func(ctx context.Context) error {
			return client.Close()
		}})
		log.Debug("Using Redis session store", zap.String("addr", cfg.Redis.Addr))
		return redisstore.NewSessionStore(client, log), nil

	case config.SessionDriverSQLite:
		logLevel := gormLogger.Silent
		if cfg.App.Debug {
			logLevel = gormLogger.Info
		}
		db, err := sqlite.SetupDatabase(cfg.Session.SQLitePath, logLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to open session database: %w", err)
		}
		lc.Append(fx.Hook{OnStop: func(ctx context.Context) error {
			return sqlite.Close(db)
		}})
		log.Debug("Using SQLite session store", zap.String("path", cfg.Session.SQLitePath))
		return sqlite.NewSessionStore(db, log), nil

	default:
		return nil, fmt.Errorf("unknown session driver %q", cfg.Session.Driver)
	}
}

// GatewayModule provides the backend client and the health report built on it
var GatewayModule = fx.Provide(NewGateway, NewHealthCheck)

// NewGateway creates the backend client with metrics and, if enabled, tracing
func NewGateway(cfg *config.Config, metrics *monitoring.GatewayMetrics, tp *monitoring.TracingProvider, log *zap.Logger) *gateway.Client {
	opts := []gateway.Option{}
	if cfg.Monitoring.EnableMetrics {
		opts = append(opts, gateway.WithObserver(metrics))
	}
	if tp.Enabled() {
		opts = append(opts, gateway.WithTracing())
	}

	return gateway.New(gateway.Config{
		BaseURL:           cfg.API.BaseURL,
		Timeout:           cfg.API.Timeout,
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		Burst:             cfg.API.Burst,
		Retry: gateway.RetryPolicy{
			MaxAttempts:     cfg.API.Retry.MaxAttempts,
			InitialInterval: cfg.API.Retry.InitialInterval,
			MaxInterval:     cfg.API.Retry.MaxInterval,
		},
	}, log, opts...)
}

// NewHealthCheck registers the backend and session store checks
func NewHealthCheck(cfg *config.Config, gw *gateway.Client, store outbound.SessionStore, log *zap.Logger) *healthcheck.HealthCheck {
	hc := healthcheck.New(cfg.App.Version, log)
	hc.Register("backend", healthcheck.NewServiceChecker(gw.BaseURL(), gw))
	hc.Register("session_store", healthcheck.NewCustomChecker("session_store", func(ctx context.Context) (healthcheck.Status, string, interface{}) {
		metadata := map[string]interface{}{"driver": cfg.Session.Driver}
		if _, _, err := store.Get(ctx, outbound.TokenKey); err != nil {
			return healthcheck.StatusUnhealthy, err.Error(), metadata
		}
		return healthcheck.StatusHealthy, "", metadata
	}))

	if rs, ok := store.(*redisstore.SessionStore); ok {
		hc.Register("redis", healthcheck.NewRedisChecker(rs.Client()))
	}
	return hc
}

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	appuser.NewAuthService,
	func(s *appuser.AuthService) inbound.AuthService { return s },
	func(s *appuser.AuthService) outbound.Authorizer { return s },

	fx.Annotate(
		apprecipe.NewRecipeService,
		fx.As(new(inbound.RecipeService)),
	),
	fx.Annotate(
		appai.NewAssistantService,
		fx.As(new(inbound.AssistantService)),
	),
)

// SessionModule provides the session monitor and runs it for the app's lifetime
var SessionModule = fx.Options(
	fx.Provide(NewMonitor),
	fx.Invoke(RegisterLifecycleHooks),
)

// NewMonitor creates the session monitor from configuration
func NewMonitor(cfg *config.Config, store outbound.SessionStore, nav session.Navigator, metrics *monitoring.GatewayMetrics, log *zap.Logger) *session.Monitor {
	return session.NewMonitor(store, nav, log,
		session.WithInterval(cfg.Session.CheckInterval),
		session.WithProtectedMarker(cfg.Session.ProtectedMarker),
		session.WithLoginPath(cfg.Session.LoginPath),
		session.WithClearHook(metrics.SessionCleared),
	)
}

// RegisterLifecycleHooks starts the session monitor and dumps metrics on stop
func RegisterLifecycleHooks(lc fx.Lifecycle, cfg *config.Config, monitor *session.Monitor, reg *prometheus.Registry, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Debug("Starting recipeweb",
				zap.String("version", cfg.App.Version),
				zap.String("api", cfg.API.BaseURL),
				zap.String("session_driver", cfg.Session.Driver),
			)

			// ctx only covers startup; the monitor lives until OnStop
			monitor.Start(context.Background())
			return nil
		},
		OnStop: func(ctx context.Context) error {
			monitor.Stop()

			if cfg.Monitoring.EnableMetrics && cfg.Monitoring.MetricsFile != "" {
				if err := prometheus.WriteToTextfile(cfg.Monitoring.MetricsFile, reg); err != nil {
					log.Warn("Failed to write metrics", zap.String("path", cfg.Monitoring.MetricsFile), zap.Error(err))
				}
			}

			_ = log.Sync()
			return nil
		},
	})
}
