package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/skoushik/storefront-orders/internal/app"
	"github.com/skoushik/storefront-orders/internal/config"
	"github.com/skoushik/storefront-orders/internal/entities"
	"github.com/skoushik/storefront-orders/internal/handler"
	"github.com/skoushik/storefront-orders/internal/notifier"
	"github.com/skoushik/storefront-orders/internal/postgres"
	"github.com/skoushik/storefront-orders/internal/repo"
	"github.com/skoushik/storefront-orders/internal/service"
	"github.com/skoushik/storefront-orders/pkg/cache"
	"github.com/skoushik/storefront-orders/pkg/trm"

	"github.com/joho/godotenv"

	_ "github.com/skoushik/storefront-orders/docs"
)

// @title           Storefront Orders API
// @version         1.0
// @description     Order intake and sales reporting service
// @BasePath        /api
func main() {
	conf := config.New()
	logger := newLogger(conf.Env)
	panicIfErr("invalid config", conf.Validate())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	db, err := postgres.New(ctx, conf.Postgres)
	panicIfErr("failed to connect to db", err)
	defer db.Close()
	logger.Info("postgres connected")

	orderRepo := repo.NewPostgresRepo(db)
	txManager := trm.NewManager(db)
	orderCache := cache.NewLRU[entities.Order](conf.Cache.Capacity, conf.Cache.TTL)

	publisher := notifier.NewKafkaPublisher(conf.Kafka)
	dispatcher := notifier.NewDispatcher(logger, publisher, conf.Store.AdminEmail, conf.Notify)

	orderService := service.NewOrderService(logger, txManager, orderRepo, orderCache, dispatcher, service.StoreConfig{
		Name:          conf.Store.Name,
		WhatsAppPhone: conf.Store.WhatsAppPhone,
	})

	application := app.New(logger, conf)
	application.SetHTTPHandlers(
		handler.NewHTTPHandler(logger, orderService),
		handler.NewReportsHandler(logger, orderService),
	)
	application.SetBackground(dispatcher, publisher)
	application.SetHealthCheck(db.PingContext)

	orderCache.StartJanitor(ctx)

	application.Start()
	<-ctx.Done()
	application.Stop()
}

func init() {
	godotenv.Load()
}

func newLogger(env string) *slog.Logger {
	switch env {
	case "production":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

func panicIfErr(prefix string, err error) {
	if err != nil {
		panic(prefix + ": " + err.Error())
	}
}
