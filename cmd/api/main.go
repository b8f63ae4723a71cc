package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aminekb/bebeshop/internal/catalog"
	"github.com/aminekb/bebeshop/internal/config"
	"github.com/aminekb/bebeshop/internal/contact"
	"github.com/aminekb/bebeshop/internal/coupons"
	"github.com/aminekb/bebeshop/internal/httpx"
	kafkax "github.com/aminekb/bebeshop/internal/kafka"
	"github.com/aminekb/bebeshop/internal/notify"
	"github.com/aminekb/bebeshop/internal/orders"
	"github.com/aminekb/bebeshop/internal/postgres"
	"github.com/aminekb/bebeshop/internal/redisx"
	"github.com/aminekb/bebeshop/internal/reviews"
	"github.com/aminekb/bebeshop/internal/shipping"
	"github.com/aminekb/bebeshop/internal/staff"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers
	prodCreate := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024)
	prodCreate.Start(ctx)
	prodStatus := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderStatusChanged, 1024)
	prodStatus.Start(ctx)

	// Repos & handlers
	staffRepo := &staff.Repo{DB: db}
	gate := &httpx.Gate{Staff: staffRepo}
	router := httpx.NewRouter()

	oh := &httpx.OrdersHandler{
		Store:          &orders.Repo{DB: db},
		ProducerCreate: prodCreate,
		ProducerStatus: prodStatus,
		Redis:          rdb,
		Service:        cfg.ServiceName,
		Log:            logger,
	}
	oh.Register(router, gate)

	(&httpx.ProductsHandler{Repo: &catalog.Repo{DB: db}}).Register(router, gate)
	(&httpx.ShippingHandler{Repo: &shipping.Repo{DB: db}}).Register(router, gate)
	(&httpx.CouponsHandler{Repo: &coupons.Repo{DB: db}}).Register(router, gate)
	(&httpx.ReviewsHandler{Repo: &reviews.Repo{DB: db}}).Register(router, gate)
	(&httpx.ContactHandler{Repo: &contact.Repo{DB: db}}).Register(router, gate)
	(&httpx.StaffHandler{Repo: staffRepo}).Register(router, gate)
	(&httpx.NotificationsHandler{Feed: &notify.Service{Redis: rdb, Log: logger}}).Register(router, gate)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		logger.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prodCreate.Close()
	prodStatus.Close()
	cancel()
	prodCreate.WaitClosed()
	prodStatus.WaitClosed()
}
