package bootstrap

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"

	"github.com/changzhiho/mini-chatgpt/internal/config"
	"github.com/changzhiho/mini-chatgpt/internal/controller"
	"github.com/changzhiho/mini-chatgpt/internal/pkg/logger"
	"github.com/changzhiho/mini-chatgpt/internal/repository/unitofwork"
	"github.com/changzhiho/mini-chatgpt/internal/service"
	"github.com/changzhiho/mini-chatgpt/pkg/chat/command"
	"github.com/changzhiho/mini-chatgpt/pkg/chat/prompt"
	"github.com/changzhiho/mini-chatgpt/pkg/chat/title"
	"github.com/changzhiho/mini-chatgpt/pkg/llm/openrouter"
	"github.com/changzhiho/mini-chatgpt/pkg/weather"
)

type Container struct {
	// Controllers
	AskController          *controller.AskController
	ConversationController *controller.ConversationController
	SettingsController     *controller.SettingsController
	SharedController       *controller.SharedController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. External Clients
	llmProvider := openrouter.NewProvider(
		cfg.OpenRouter.BaseURL,
		cfg.OpenRouter.APIKey,
		cfg.OpenRouter.DefaultModel,
		sysLogger,
	)
	weatherClient := weather.NewClient(cfg.Weather.APIKey)

	// 4. Chat Pipeline Components
	commandProcessor := command.NewProcessor(weatherClient)
	promptBuilder := prompt.NewBuilder()
	titleGenerator := title.NewGenerator(llmProvider, sysLogger)

	// 5. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Topics.TurnCompleted, sysLogger)
	consumerService := service.NewConsumerService(pubSub, cfg.Topics.TurnCompleted, uowFactory, sysLogger)

	chatService := service.NewChatService(
		uowFactory,
		llmProvider,
		llmProvider.Catalog(),
		commandProcessor,
		promptBuilder,
		titleGenerator,
		publisherService,
		sysLogger,
	)
	conversationService := service.NewConversationService(
		uowFactory,
		llmProvider.Catalog(),
		cfg.App.BaseURL,
		sysLogger,
	)
	settingsService := service.NewSettingsService(uowFactory, llmProvider.Catalog())

	// 6. Controllers
	return &Container{
		AskController:          controller.NewAskController(chatService, sysLogger),
		ConversationController: controller.NewConversationController(conversationService),
		SettingsController:     controller.NewSettingsController(settingsService),
		SharedController:       controller.NewSharedController(conversationService),

		ConsumerService: consumerService,
		Logger:          sysLogger,
	}
}
