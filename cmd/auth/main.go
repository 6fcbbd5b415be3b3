package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/victorgmp/SGPC-auth/internal/config"
	"github.com/victorgmp/SGPC-auth/internal/events"
	"github.com/victorgmp/SGPC-auth/internal/httpserver"
	"github.com/victorgmp/SGPC-auth/internal/models"
	"github.com/victorgmp/SGPC-auth/internal/repo"
	"github.com/victorgmp/SGPC-auth/internal/rpcserver"
	"github.com/victorgmp/SGPC-auth/internal/service"
	"github.com/victorgmp/SGPC-auth/internal/userclient"
	"github.com/victorgmp/SGPC-auth/pkg/db"
	"github.com/victorgmp/SGPC-auth/pkg/logging"
	loggingmw "github.com/victorgmp/SGPC-auth/pkg/middleware/logging"
)

type publisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
	Close() error
}

func newEcho(logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Server.IdleTimeout = 60 * time.Second

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))
	return e
}

func start(e *echo.Echo, addr, name string, logger *slog.Logger) {
	go func() {
		logger.Info("listening", "server", name, "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("%s server error: %v", name, err)
		}
	}()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DatabaseURL, &models.Auth{}, &models.RefreshToken{})
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	var prod publisher = events.LogPublisher{Logger: logger}
	if len(cfg.KafkaBrokers) > 0 {
		topicsCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		topics := append(append([]string{}, events.PublishedTopics...), events.ConsumedTopics...)
		if err := events.EnsureTopics(topicsCtx, cfg.KafkaBrokers[0], topics...); err != nil {
			logger.Warn("kafka_topics_not_ensured", "error", err)
		}
		cancel()
		prod = events.NewProducer(cfg.KafkaBrokers)
	}

	gormRepo := &repo.GormRepo{DB: gdb}
	authSvc := service.NewAuthService(gormRepo, cfg.Secret(), cfg.AccessTokenTTL)
	refreshSvc := service.NewRefreshTokenService(gormRepo)

	api := newEcho(logger)
	api.Use(middleware.CORS())
	httpserver.Register(api, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{
			Auth:    authSvc,
			Refresh: refreshSvc,
			Users:   userclient.New(cfg.UserServiceURL),
			Events:  prod,
		},
		Ready: func(ctx context.Context) error { return db.Ping(ctx, gdb) },
	})

	rpc := newEcho(logger)
	rpcserver.Register(rpc, &rpcserver.Deps{Handler: &rpcserver.AuthRPC{Svc: authSvc}})

	start(api, cfg.HTTPAddr, "http", logger)
	start(rpc, cfg.RPCAddr, "rpc", logger)

	consumeCtx, stopConsumers := context.WithCancel(context.Background())
	var consumers sync.WaitGroup
	var consumer *events.Consumer
	if len(cfg.KafkaBrokers) > 0 {
		consumer = events.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, &events.Dispatcher{
			Service: cfg.ServiceName,
			Events:  prod,
			Auth:    authSvc,
		}, logger)
		consumers.Add(1)
		go func() {
			defer consumers.Done()
			consumer.Run(consumeCtx)
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	go func() {
		<-quit
		log.Println("force exit")
		os.Exit(1)
	}()

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := api.Shutdown(ctx); err != nil {
		logger.Error("http shutdown error", "error", err)
	}
	if err := rpc.Shutdown(ctx); err != nil {
		logger.Error("rpc shutdown error", "error", err)
	}

	stopConsumers()
	consumers.Wait()
	if consumer != nil {
		if err := consumer.Close(); err != nil {
			logger.Error("kafka consumer close error", "error", err)
		}
	}

	if err := prod.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	if err := db.Close(gdb); err != nil {
		logger.Error("db close error", "error", err)
	}

	logger.Info("shutdown complete")
}
