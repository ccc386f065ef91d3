package bootstrap

import (
	"context"
	"log"

	"ai-photostudio-be/internal/config"
	"ai-photostudio-be/internal/controller"
	"ai-photostudio-be/internal/handler"
	"ai-photostudio-be/internal/pkg/logger"
	"ai-photostudio-be/internal/pkg/mailer"
	"ai-photostudio-be/internal/repository/implementation"
	"ai-photostudio-be/internal/repository/unitofwork"
	"ai-photostudio-be/internal/service"
	"ai-photostudio-be/internal/websocket"
	"ai-photostudio-be/pkg/blobstore"
	"ai-photostudio-be/pkg/imagegen"

	pktNats "ai-photostudio-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController       controller.IAuthController
	OAuthController      controller.IOAuthController
	UserController       controller.IUserController
	WalletController     controller.IWalletController
	PaymentController    controller.IPaymentController
	GenerationController controller.IGenerationController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Provider Clients & Storage
	genClient := imagegen.NewClient(cfg.ImageGen.APIKey, cfg.ImageGen.BaseURL, cfg.ImageGen.Model)

	store, err := blobstore.NewLocalStore(cfg.Storage.Dir, cfg.Storage.BaseURL)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize blob storage: %v", err)
	}

	// 4. Services
	authService := service.NewAuthService(uowFactory, natsPub)
	oauthService := service.NewOAuthService(uowFactory)
	userService := service.NewUserService(uowFactory)
	walletService := service.NewWalletService(uowFactory)
	paymentService := service.NewPaymentService(uowFactory, natsPub, emailService, sysLogger)
	generationService := service.NewGenerationService(
		uowFactory,
		genClient,
		pubSub,
		cfg.App.PersistImageTopic,
		natsPub,
		emailService,
		sysLogger,
	)

	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.PersistImageTopic,
		uowFactory,
		genClient,
		store,
	)

	// 5. Notification System
	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(notifRepo, natsSub, wsHub, wsLogger)

	if natsSub != nil {
		go notifService.Start()
	}

	notifHandler := handler.NewNotificationHandler(notifService, wsHub, wsLogger)

	return &Container{
		NotificationHandler:  notifHandler,
		WebSocketHub:         wsHub,
		AuthController:       controller.NewAuthController(authService),
		OAuthController:      controller.NewOAuthController(oauthService),
		UserController:       controller.NewUserController(userService),
		WalletController:     controller.NewWalletController(walletService),
		PaymentController:    controller.NewPaymentController(paymentService),
		GenerationController: controller.NewGenerationController(generationService),

		ConsumerService: consumerService,
	}
}
