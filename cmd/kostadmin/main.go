package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	contractapp "kostadmin/internal/app/handlers/contracts"
	promoapp "kostadmin/internal/app/handlers/promotions"
	usersapp "kostadmin/internal/app/handlers/users"
	appoutbox "kostadmin/internal/app/outbox"
	domaincontract "kostadmin/internal/domain/contract"
	domainpromo "kostadmin/internal/domain/promotion"
	"kostadmin/internal/infra/broker/kafka"
	"kostadmin/internal/infra/config"
	mongodb "kostadmin/internal/infra/db/mongo"
	ginserver "kostadmin/internal/infra/http/gin"
	"kostadmin/internal/infra/obs"
	outboxworker "kostadmin/internal/infra/outbox"
	"kostadmin/internal/infra/security"
	"kostadmin/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("using fallback configuration", "error", err)
		cfg.Env = env
		cfg.HTTPAddr = getenv("HTTP_ADDR", ":8080")
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	app, cleanup, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	if app.worker != nil {
		go func() {
			if err := app.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	worker   *outboxworker.Worker
	ready    func() error
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, func(), error) {
	cleanup := func() {}

	buildingsRepo := memory.NewBuildingRepository()
	roomsRepo := memory.NewRoomRepository()
	roomTypesRepo := memory.NewRoomTypeRepository()
	usersRepo := memory.NewUserRepository()
	usageStore := memory.NewUsageStore()
	outboxStore := memory.NewOutbox()

	var contractsRepo domaincontract.Repository = memory.NewContractRepository()
	memPromos := memory.NewPromotionRepository()
	var promotionsRepo domainpromo.Repository = memPromos
	var redeemer domainpromo.CouponRedeemer = memPromos
	ready := func() error { return nil }

	if cfg.MongoURI != "" {
		client, err := mongodb.New(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, cleanup, err
		}
		cleanup = func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Close(closeCtx); err != nil {
				logger.Error("mongo disconnect failed", "error", err)
			}
		}
		contractsRepo = mongodb.NewContractRepository(client.DB)
		mongoPromos := mongodb.NewPromotionRepository(client.DB)
		promotionsRepo = mongoPromos
		redeemer = mongoPromos
		ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
		logger.Info("mongo storage enabled", "database", cfg.MongoDB)
	}

	var worker *outboxworker.Worker
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return application{}, cleanup, err
		}
		prev := cleanup
		cleanup = func() {
			if err := producer.Close(); err != nil {
				logger.Error("kafka producer close failed", "error", err)
			}
			prev()
		}
		worker = &outboxworker.Worker{
			Store:       outboxStore,
			Producer:    producer,
			Logger:      logger,
			Interval:    cfg.OutboxPollInterval,
			TopicPrefix: cfg.KafkaTopicPrefix,
		}
		logger.Info("kafka event publishing enabled", "brokers", cfg.KafkaBrokers)
	}

	quoter := &contractapp.QuoteTermHandler{
		Settings: cfg.Contract,
		Billing:  cfg.Billing,
	}
	creator := &contractapp.CreateContractHandler{
		Contracts:  contractsRepo,
		Rooms:      roomsRepo,
		Promotions: promotionsRepo,
		Redeemer:   redeemer,
		Usage:      usageStore,
		UsageLog:   usageStore,
		Users:      usersRepo,
		Settings:   cfg.Contract,
		Billing:    cfg.Billing,
		Outbox:     outboxStore,
		Encoder:    appoutbox.JSONEventEncoder{},
	}
	resolver := &promoapp.ResolveHandler{
		Promotions: promotionsRepo,
		Rooms:      roomsRepo,
		Users:      usersRepo,
		Usage:      usageStore,
	}
	manager := &promoapp.ManageHandler{
		Promotions: promotionsRepo,
	}
	register := &usersapp.RegisterHandler{
		Users:  usersRepo,
		Hasher: security.BcryptHasher{},
	}

	return application{
		handlers: ginserver.Handlers{
			Contract: ginserver.ContractHandler{
				Quoter:    quoter,
				Creator:   creator,
				Contracts: contractsRepo,
			},
			Promotion: ginserver.PromotionHandler{
				Resolver: resolver,
				Manager:  manager,
			},
			Catalog: ginserver.CatalogHandler{
				Buildings: buildingsRepo,
				Rooms:     roomsRepo,
				RoomTypes: roomTypesRepo,
			},
			User: ginserver.UserHandler{
				Register: register,
				Users:    usersRepo,
			},
		},
		worker: worker,
		ready:  ready,
	}, cleanup, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
