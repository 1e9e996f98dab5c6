package bootstrap

import (
	"context"
	"log"

	"design-team-be/internal/config"
	"design-team-be/internal/constant"
	"design-team-be/internal/controller"
	"design-team-be/internal/handler"
	"design-team-be/internal/pkg/logger"
	"design-team-be/internal/repository/unitofwork"
	"design-team-be/internal/service"
	"design-team-be/internal/websocket"
	"design-team-be/pkg/contributor"
	"design-team-be/pkg/llm/factory"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SessionController controller.ISessionController
	StateController   controller.IStateController
	AdminController   controller.IAdminController

	// WebSocket stream
	StreamHandler *handler.StreamHandler
	WebSocketHub  *websocket.Hub

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Contributor backend
	llmProvider, err := factory.NewProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM provider: %v", err)
	}
	log.Printf("[INFO] Using LLM provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	stageContributor := contributor.NewLLMContributor(llmProvider)

	plan := constant.DefaultDesignPlan()

	// WebSocket hub, fed by the bus
	wsHub := websocket.NewHub(pubSub, cfg.App.WorkflowTopic, sysLogger)
	go wsHub.Run(context.Background())

	// Services
	publisherService := service.NewPublisherService(pubSub, cfg.App.WorkflowTopic)
	sessionService := service.NewSessionService(uowFactory, plan, publisherService, sysLogger)
	sequencerService := service.NewSequencerService(uowFactory, plan, stageContributor, publisherService, sysLogger)
	stateService := service.NewStateService(uowFactory)
	adminService := service.NewAdminService(uowFactory, sysLogger)

	// Controllers
	sessionController := controller.NewSessionController(sessionService, sequencerService)
	stateController := controller.NewStateController(stateService)
	adminController := controller.NewAdminController(adminService)
	streamHandler := handler.NewStreamHandler(sequencerService, wsHub, sysLogger)

	return &Container{
		SessionController: sessionController,
		StateController:   stateController,
		AdminController:   adminController,
		StreamHandler:     streamHandler,
		WebSocketHub:      wsHub,
		Logger:            sysLogger,
	}
}
