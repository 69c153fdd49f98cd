package bootstrap

import (
	"log"
	"time"

	"ai-chat-be/internal/config"
	"ai-chat-be/internal/controller"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/pkg/mailer"
	"ai-chat-be/internal/pkg/ratelimit"
	"ai-chat-be/internal/repository/memory"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/internal/service"
	"ai-chat-be/pkg/events"
	"ai-chat-be/pkg/llm"
	"ai-chat-be/pkg/llm/factory"

	pktNats "ai-chat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController controller.IChatController
	UserController controller.IUserController

	// Services used outside HTTP (cmd tools, background workers)
	UserService     service.IUserService
	HistoryService  service.IHistoryService
	SessionService  service.ISessionService
	ConsumerService service.IConsumerService

	// AskLimiter is nil when REDIS_URL is empty.
	AskLimiter *ratelimit.FixedWindowLimiter
	Logger     logger.ILogger

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	userCache := memory.NewUserCache(cfg.Chat.UserCacheTTL)

	c := &Container{Logger: sysLogger}

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Job Queue (in-process)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure
	// NATS is optional; without it domain events are simply not emitted.
	var eventPublisher events.Publisher
	if cfg.Nats.URL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.Nats.URL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			eventPublisher = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	if cfg.Redis.URL != "" {
		limiter, err := ratelimit.NewRedisFixedWindowLimiter(cfg.Redis.URL, "aichat:ask", cfg.Chat.AskRateLimitPerMinute, time.Minute)
		if err != nil {
			log.Printf("[WARN] Rate limiter disabled: %v", err)
		} else {
			c.AskLimiter = limiter
			c.closers = append(c.closers, func() { _ = limiter.Close() })
		}
	}

	llmProvider, err := factory.NewLLMProvider(factory.Options{
		Provider:      cfg.Ai.LLMProvider,
		Model:         cfg.Ai.LLMModel,
		OllamaBaseURL: cfg.Ai.OllamaBaseURL,
		OpenAIBaseURL: cfg.Ai.OpenAIBaseURL,
		OpenAIAPIKey:  cfg.Ai.OpenAIAPIKey,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	completer := llm.NewChatCompleter(llmProvider, cfg.Ai.Timeout)

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Chat.TranscriptTopic, pubSub)
	c.ConsumerService = service.NewConsumerService(pubSub, cfg.Chat.TranscriptTopic, uowFactory, emailService, sysLogger)

	conversationService := service.NewConversationService(
		uowFactory,
		completer,
		userCache,
		eventPublisher,
		sysLogger,
		service.ConversationOptions{
			DefaultSystemPrompt:  cfg.Chat.DefaultSystemPrompt,
			KeepSessionOnFailure: cfg.Chat.KeepSessionOnFailure,
		},
	)
	c.HistoryService = service.NewHistoryService(uowFactory, userCache, sysLogger)
	c.SessionService = service.NewSessionService(uowFactory, userCache, publisherService, eventPublisher, sysLogger)
	c.UserService = service.NewUserService(uowFactory, userCache, sysLogger)

	// 5. Controllers
	c.ChatController = controller.NewChatController(conversationService, c.HistoryService, c.SessionService, cfg.Chat.EnforceSessionOwner)
	c.UserController = controller.NewUserController(c.UserService)

	return c
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
