package bootstrap

import (
	"context"
	"log"

	"physical-ai-textbook-be/internal/config"
	"physical-ai-textbook-be/internal/controller"
	"physical-ai-textbook-be/internal/pkg/logger"
	"physical-ai-textbook-be/internal/pkg/mailer"
	"physical-ai-textbook-be/internal/pkg/security"
	"physical-ai-textbook-be/internal/pkg/serverutils"
	"physical-ai-textbook-be/internal/repository/memory"
	"physical-ai-textbook-be/internal/repository/unitofwork"
	"physical-ai-textbook-be/internal/service"
	"physical-ai-textbook-be/pkg/events"
	pktNats "physical-ai-textbook-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController      controller.IAuthController
	UserController      controller.IUserController
	ChatController      controller.IChatController
	RateLimitController controller.IRateLimitController

	// Background Services (Exposed for main.go to run)
	ConsumerService      service.IConsumerService
	RateLimitService     service.IRateLimitService
	SecurityAlertService service.ISecurityAlertService

	Logger logger.ILogger

	closers []func()
}

func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.IsProduction())
	auditLogger := logger.NewIsolatedLogger(cfg.App.AuditLogFilePath)

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.App.FrontendURL,
		sysLogger,
	)

	c := &Container{Logger: sysLogger}

	// 2. Event Bus
	// In-process queue for async ingestion jobs.
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// Domain events go to NATS when it is reachable; without it they are dropped.
	var eventPublisher events.Publisher
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		eventPublisher = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}

	// 3. RAG core
	engine := NewRAGEngine(ctx, db, cfg, sysLogger)

	// 4. Rate limiting
	limiter := NewRateLimiter(ctx, db, cfg)

	// 5. Services
	tokens := security.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	blocklist := memory.NewTokenBlocklist()
	jwtAuth := serverutils.NewJwtAuth(tokens, blocklist)
	cookies := serverutils.CookieOptions{
		Secure:     cfg.Auth.CookieSecure,
		AccessTTL:  cfg.Auth.AccessTokenTTL,
		RefreshTTL: cfg.Auth.RefreshTokenTTL,
	}

	auditService := service.NewAuditService(uowFactory, auditLogger, sysLogger)
	authService := service.NewAuthService(
		uowFactory,
		tokens,
		blocklist,
		auditService,
		eventPublisher,
		service.AuthConfig{
			BcryptCost:        cfg.Auth.BcryptCost,
			MaxFailedAttempts: cfg.Auth.MaxFailedAttempts,
			LockoutDuration:   cfg.Auth.LockoutDuration,
		},
		sysLogger,
	)
	userService := service.NewUserService(uowFactory, auditService, eventPublisher, sysLogger)
	rateLimitService := service.NewRateLimitService(limiter, eventPublisher, sysLogger)

	publisherService := service.NewPublisherService(cfg.Content.IngestTopic, pubSub)
	chatService := service.NewChatService(engine, userService, publisherService, eventPublisher, sysLogger)
	consumerService := service.NewConsumerService(pubSub, cfg.Content.IngestTopic, chatService, sysLogger)

	// 6. Security alerts
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	} else {
		securityLogger := logger.NewIsolatedLogger("logs/security.log")
		c.SecurityAlertService = service.NewSecurityAlertService(natsSub, emailService, securityLogger)
		c.closers = append(c.closers, natsSub.Close)
	}

	// 7. Controllers
	c.AuthController = controller.NewAuthController(authService, jwtAuth, cookies)
	c.UserController = controller.NewUserController(userService, jwtAuth)
	c.ChatController = controller.NewChatController(chatService, rateLimitService, jwtAuth)
	c.RateLimitController = controller.NewRateLimitController(rateLimitService, jwtAuth)

	c.ConsumerService = consumerService
	c.RateLimitService = rateLimitService

	return c
}

// Close releases broker connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
