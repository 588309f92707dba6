package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/cache"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/config"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/db"
	httpx "github.com/opengig-mvps/tmt-izsb0sdo3/internal/http"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/http/handlers"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/observability"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/redisclient"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/repo/postgres"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/repo/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.OTelEnabled {
		shutdownTracer, err := observability.InitTracer(ctx, observability.ServiceName, cfg.OTelEndpoint, cfg.Env)
		if err != nil {
			log.Error("tracer init failed, continuing without tracing", "err", err)
		} else {
			defer func() {
				tctx, cancel := config.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = shutdownTracer(tctx)
			}()
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	deps := httpx.Deps{
		Config:   cfg,
		Prom:     prom,
		Gatherer: reg,
		Checks:   map[string]handlers.Pinger{},
	}

	// persistence
	switch cfg.DBDriver {
	case config.DriverSQLite:
		sqlDB, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			log.Error("sqlite open failed", "path", cfg.SQLitePath, "err", err)
			os.Exit(1)
		}
		defer sqlDB.Close()

		users := sqlite.NewUsersRepo(sqlDB, prom)
		deps.Users = users
		deps.WorkLogs = sqlite.NewWorkLogsRepo(sqlDB, prom)
		deps.Checks["db"] = pingSQL(sqlDB)

		seedAdmin(ctx, log, users, cfg)

	case config.DriverPostgres:
		pool, err := db.NewPool(ctx, cfg.DBURL)
		if err != nil {
			log.Error("db connect failed", "err", err)
			os.Exit(1)
		}
		defer pool.Close()

		users := postgres.NewUsersRepo(pool, prom)
		deps.Users = users
		deps.WorkLogs = postgres.NewWorkLogsRepo(pool, prom)
		deps.Checks["db"] = pool.Ping

		seedAdmin(ctx, log, users, cfg)

	default:
		log.Error("unknown DB_DRIVER", "driver", cfg.DBDriver)
		os.Exit(1)
	}

	// read cache: redis when configured, otherwise in-process
	deps.Cache = cache.New(cfg.CacheTTL)
	if cfg.RedisAddr != "" {
		rdb, err := redisclient.New(ctx, redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Warn("redis unavailable, using in-process cache", "err", err)
		} else {
			defer rdb.Close()

			deps.Cache = cache.NewRedisStore(rdb.Raw(), cfg.CacheTTL)
			deps.Checks["redis"] = rdb.Ping
		}
	}

	router := httpx.NewRouter(deps)

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "db_driver", cfg.DBDriver)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	<-ctx.Done()
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		sctx, cancel := config.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(sctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}

func pingSQL(d *sql.DB) handlers.Pinger {
	return func(ctx context.Context) error {
		return d.PingContext(ctx)
	}
}

func seedAdmin(ctx context.Context, log *slog.Logger, users db.AdminSeeder, cfg config.Config) {
	sctx, cancel := config.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.EnsureAdminUser(sctx, users, cfg); err != nil {
		log.Error("admin seed failed", "err", err)
		return
	}
	if cfg.AdminEmail != "" {
		log.Info("admin user ensured", "email", cfg.AdminEmail)
	}
}
