package cli

import (
	"context"
	"totaro-checkout/internal/client"
	"totaro-checkout/internal/config"
	"totaro-checkout/internal/event"
	"totaro-checkout/internal/idempotency"
	"totaro-checkout/internal/repository"
	"totaro-checkout/internal/sender"
	"totaro-checkout/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// app holds the wired clients and services shared by the commands.
type app struct {
	cfg    *config.Config
	db     *gorm.DB
	rdb    *redis.Client
	writer *kafka.Writer

	checkoutService service.CheckoutService
	paymentService  service.PaymentService
	webhookService  service.WebhookService
	reconciler      *service.Reconciler
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	db, err := client.InitDBClient(&cfg.Database)
	if err != nil {
		return nil, err
	}

	rdb, err := client.InitRedisClient(ctx, &cfg.Redis)
	if err != nil {
		return nil, err
	}
	if rdb == nil {
		log.Warn("REDIS_ADDR is not set, confirm requests are not deduplicated across instances")
	}

	writer := client.NewKafkaWriter(&cfg.Kafka)
	if writer == nil {
		log.Info("KAFKA_BROKERS is not set, order events are not published")
	}

	tossClient := client.NewTossClient(&cfg.Toss)

	orderRepo := repository.NewOrderRepository(db)
	cancelRepo := repository.NewCancelRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)

	guard := idempotency.New(rdb, cfg.Redis.ConfirmLockTTL)
	publisher := event.New(writer)
	notifier := sender.New(&cfg.SMTP)

	return &app{
		cfg:    cfg,
		db:     db,
		rdb:    rdb,
		writer: writer,

		checkoutService: service.NewCheckoutService(orderRepo, cfg.Toss.ClientKey, cfg.BaseURL),
		paymentService:  service.NewPaymentService(db, tossClient, orderRepo, cancelRepo, guard, publisher, notifier),
		webhookService:  service.NewWebhookService(db, cfg.Toss.WebhookSecret, orderRepo, cancelRepo, webhookEventRepo, publisher, notifier),
		reconciler:      service.NewReconciler(db, cfg.Reconcile, tossClient, orderRepo, cancelRepo, publisher, notifier),
	}, nil
}

func (a *app) Close() {
	if a.writer != nil {
		if err := a.writer.Close(); err != nil {
			log.WithError(err).Warn("Failed to close kafka writer")
		}
	}
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			log.WithError(err).Warn("Failed to close redis client")
		}
	}
	if sqlDB, err := a.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.WithError(err).Warn("Failed to close database")
		}
	}
}
