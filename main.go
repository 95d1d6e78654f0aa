package main

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"fleet-api/internal/auth"
	"fleet-api/internal/chat"
	"fleet-api/internal/guard"
	"fleet-api/internal/identity"
	"fleet-api/internal/notification"
	"fleet-api/internal/realtime"
	"fleet-api/pkg/broker"
	"fleet-api/pkg/config"
	"fleet-api/pkg/jwt_generator"
	"fleet-api/pkg/logger"
	"fleet-api/pkg/ratelimit"
	"fleet-api/pkg/server"
	"fleet-api/pkg/storage"
)

func main() {
	isAtRemote := os.Getenv(config.IsAtRemote)
	if isAtRemote == "" {
		if err := godotenv.Load(); err != nil {
			_, _ = os.Stderr.WriteString("no .env file loaded, using process environment\n")
		}
	}

	cfg, err := config.ReadConfig()
	if err != nil {
		panic(err)
	}
	cfg.Print()

	log, err := logger.NewLogger(cfg.IsProduction())
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = log.Sync()
	}()

	jwtGenerator, err := jwt_generator.NewJwtGenerator(cfg.Jwt)
	if err != nil {
		log.Fatalw("failed to create jwt generator", zap.Error(err))
	}

	ctx := logger.InjectContext(context.Background(), log)
	mongodbClient, err := setupMongodbClient(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to setup mongodb client", zap.Error(err))
	}

	identityRepository := identity.NewRepository(mongodbClient, cfg.Mongodb)
	chatRepository := chat.NewRepository(mongodbClient, cfg.Mongodb)
	notificationRepository := notification.NewRepository(mongodbClient, cfg.Mongodb)
	for name, ensure := range map[string]func(context.Context) error{
		"identity":     identityRepository.EnsureIndexes,
		"chat":         chatRepository.EnsureIndexes,
		"notification": notificationRepository.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatalw("failed to ensure indexes", zap.String("repository", name), zap.Error(err))
		}
	}

	var (
		redisClient   *redis.Client
		rateLimiter   ratelimit.Limiter
		gateOptions   []auth.Option
		presenceStore realtime.PresenceStore
	)
	if cfg.Redis.Enabled() {
		redisClient, err = setupRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatalw("failed to setup redis client", zap.Error(err))
		}
		rateLimiter = ratelimit.NewLimiter(redisClient, cfg.RateLimit, "auth")
		gateOptions = append(gateOptions, auth.WithCache(auth.NewRedisIdentityCache(redisClient), cfg.Redis.CacheTtl))
		presenceStore = realtime.NewRedisPresenceStore(redisClient)
	} else {
		log.Warnw("redis is not configured, rate limiting and identity cache are disabled")
		presenceStore = realtime.NewMemoryPresenceStore()
	}

	publisher := broker.NewNopPublisher()
	if cfg.RabbitMq.Enabled() {
		publisher, err = broker.NewPublisher(ctx, cfg.RabbitMq.Url)
		if err != nil {
			log.Fatalw("failed to connect message broker", zap.Error(err))
		}
	}

	attachmentStore := storage.NewAttachmentStore(afero.NewOsFs(), cfg.Storage)

	gate := auth.NewGate(jwtGenerator, identityRepository, gateOptions...)
	identityService := identity.NewService(identityRepository, jwtGenerator, identity.WithEvictor(gate))
	chatService := chat.NewService(
		chatRepository,
		identityRepository,
		attachmentStore,
		publisher,
		cfg.RabbitMq.ChatMessageQueue,
	)

	hub := realtime.NewHub(realtime.NewRegistry(), chatService, presenceStore, log)
	notificationService := notification.NewService(notificationRepository, hub)

	consumerCtx, stopConsumer := context.WithCancel(ctx)
	if cfg.RabbitMq.Enabled() {
		consumer := broker.NewConsumer(cfg.RabbitMq.Url)
		go func() {
			err := consumer.Consume(
				consumerCtx,
				cfg.RabbitMq.ChatMessageQueue,
				notification.NewMessageCreatedHandler(notificationService),
			)
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Errorw("message consumer stopped", zap.Error(err))
			}
		}()
	}

	handlers := []server.Handler{
		identity.NewHandler(identityService, gate, ratelimit.Middleware(rateLimiter, cfg.RateLimit.Max)),
		chat.NewHandler(chatService, gate, hub, presenceStore),
		notification.NewHandler(notificationService, gate),
		realtime.NewHandler(hub, gate),
		// must stay last, it answers every unmatched route
		guard.NewHandler(gate),
	}
	srv := server.NewServer(cfg, handlers, logger.Middleware(log))

	srv.OnShutdown(stopConsumer)
	srv.OnShutdown(func() {
		if err := publisher.Close(); err != nil {
			log.Warnw("failed to close publisher", zap.Error(err))
		}
	})
	if redisClient != nil {
		srv.OnShutdown(func() {
			if err := redisClient.Close(); err != nil {
				log.Warnw("failed to close redis client", zap.Error(err))
			}
		})
	}
	srv.OnShutdown(func() {
		if err := mongodbClient.Disconnect(context.Background()); err != nil {
			log.Errorw("failed to disconnect mongodb client", zap.Error(err))
		}
	})

	srv.GetFiberInstance().Static(strings.TrimSuffix(storage.PublicPrefix, "/"), attachmentStore.Directory())
	srv.RegisterRoutes()

	if isAtRemote == "" {
		log.Infow("server is starting", zap.String("port", cfg.ServerPort), zap.String("environment", cfg.Environment))
		if err := srv.Start(); err != nil {
			log.Fatalw("server stopped", zap.Error(err))
		}
	} else {
		lambda.Start(srv.LambdaProxyHandler)
	}
}

func setupMongodbClient(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	mongodbServerAPIOptions := options.ServerAPI(options.ServerAPIVersion1)
	clientOptions := options.Client().
		ApplyURI(cfg.Mongodb.Uri).
		SetServerAPIOptions(mongodbServerAPIOptions)
	if cfg.Mongodb.Username != "" {
		clientOptions.SetAuth(options.Credential{
			Username: cfg.Mongodb.Username,
			Password: cfg.Mongodb.Password,
		})
	}

	mongodbClient, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	return mongodbClient, nil
}

func setupRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.Db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}
