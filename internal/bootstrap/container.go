package bootstrap

import (
	"context"

	"agri-assistant-be/internal/config"
	"agri-assistant-be/internal/controller"
	"agri-assistant-be/internal/pkg/logger"
	"agri-assistant-be/internal/service"
	"agri-assistant-be/internal/websocket"
	"agri-assistant-be/pkg/events"
	"agri-assistant-be/pkg/genai"
	"agri-assistant-be/pkg/resilience"
	"agri-assistant-be/pkg/retrieval"
	"agri-assistant-be/pkg/session"
	"agri-assistant-be/pkg/speech"
	"agri-assistant-be/pkg/vision"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	// Controllers
	AssistantController controller.IAssistantController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService
	HealthMonitor   *resilience.HealthMonitor

	// WebSockets
	WebSocketHub *websocket.Hub

	Logger logger.ILogger
}

// SpeechHandles carries the platform speech implementations. Deployments
// without an attached speech stack pass the zero value; the assistant then
// reports both capabilities as absent and works text-only.
type SpeechHandles struct {
	Recognizer  speech.Recognizer
	Synthesizer speech.Synthesizer
}

func NewContainer(cfg *config.Config, handles SpeechHandles) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	publisher := events.NewPublisher(pubSub)

	// 3. Outbound clients
	generator := genai.NewHTTPProvider(cfg.Ai.GenerativeBaseURL, cfg.Ai.GenerateTimeout, cfg.Ai.ProbeTimeout)
	analyzer := vision.NewClient(cfg.Ai.VisionBaseURL, cfg.Ai.VisionTimeout)
	retrievalClient := retrieval.NewClient(cfg.Retrieval.BaseURL, cfg.Retrieval.IngestTimeout)

	// 4. Resilience
	guard := resilience.NewGuard(resilience.Timeouts{
		Generate: cfg.Ai.GenerateTimeout,
		Vision:   cfg.Ai.VisionTimeout,
		Ingest:   cfg.Retrieval.IngestTimeout,
		Probe:    cfg.Ai.ProbeTimeout,
	})
	healthMonitor := resilience.NewHealthMonitor(
		func(ctx context.Context) error { return generator.Probe(ctx) },
		cfg.Ai.HealthInterval,
		cfg.Ai.ProbeTimeout,
	)

	// 5. Session state
	sessionStore := session.NewStore()

	// 6. WebSocket hub
	wsHub := websocket.NewHub(sysLogger)
	go wsHub.Run()

	// 7. Services
	newSpeech := func() *speech.Controller {
		return speech.NewController(handles.Recognizer, handles.Synthesizer)
	}

	assistantService := service.NewAssistantService(
		sessionStore,
		generator,
		retrievalClient,
		retrievalClient,
		analyzer,
		guard,
		healthMonitor,
		publisher,
		wsHub,
		newSpeech,
		cfg.Retrieval.TopK,
		cfg.Retrieval.Timeout,
		sysLogger,
	)

	consumerService := service.NewConsumerService(pubSub, wsHub, sysLogger)

	// 8. Controllers
	return &Container{
		AssistantController: controller.NewAssistantController(assistantService, wsHub, sysLogger),
		ConsumerService:     consumerService,
		HealthMonitor:       healthMonitor,
		WebSocketHub:        wsHub,
		Logger:              sysLogger,
	}
}
