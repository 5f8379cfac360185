package main

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"sambo-academy-admin/internal/apiclient"
	"sambo-academy-admin/internal/bot"
	"sambo-academy-admin/internal/models/config"
	"sambo-academy-admin/internal/session"
	"sambo-academy-admin/internal/web"
	database "sambo-academy-admin/pkg"
)

const connectTimeout = 10 * time.Second

func newLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
	var (
		log *zap.Logger
		err error
	)
	if cfg.IsProduction() {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, errors.Wrap(err, "create logger")
	}

	lc.Append(fx.Hook{OnStop: func(context.Context) error {
		_ = log.Sync()
		return nil
	}})
	log.Info("🚀 Запуск в окружении", zap.String("env", cfg.Environment))
	return log, nil
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func newAPIMetrics(reg *prometheus.Registry) *apiclient.Metrics {
	return apiclient.NewMetrics(reg)
}

func newMetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// newSessionStore opens the store selected by SESSION_BACKEND.
func newSessionStore(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (session.Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	var store session.Store
	switch cfg.Session.Backend {
	case "postgres":
		db, err := database.NewPostgres(ctx, cfg.Database, log)
		if err != nil {
			return nil, err
		}
		if err := session.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, errors.Wrap(err, "prepare session table")
		}
		store = session.NewPostgresStore(db)

	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, errors.Wrap(err, "ping redis")
		}
		store = session.NewRedisStore(rdb)

	default:
		store = session.NewMemoryStore()
	}

	lc.Append(fx.Hook{OnStop: func(context.Context) error {
		return store.Close()
	}})
	log.Info("хранилище сессий готово", zap.String("backend", cfg.Session.Backend))
	return store, nil
}

func newAPIClient(cfg *config.Config, log *zap.Logger, metrics *apiclient.Metrics, store session.Store) *apiclient.Client {
	return apiclient.New(cfg.API.BaseURL,
		apiclient.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		apiclient.WithLogger(log.Named("api")),
		apiclient.WithMetrics(metrics),
		apiclient.OnUnauthorized(web.DropSession(store, log)),
	)
}

func newHTTPServer(cfg *config.Config, h *web.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func startHTTPServer(lc fx.Lifecycle, srv *http.Server, cfg *config.Config, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return errors.Wrapf(err, "listen %s", srv.Addr)
			}
			log.Info("HTTP сервер запущен", zap.String("addr", srv.Addr), zap.String("api", cfg.API.BaseURL))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("HTTP сервер остановился с ошибкой", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("🛑 Остановка HTTP сервера")
			return srv.Shutdown(ctx)
		},
	})
}

func registerBot(lc fx.Lifecycle, b *bot.Bot) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error { return b.Start() },
		OnStop:  b.Stop,
	})
}
