package usecase

import (
	"rental-autotest/internal/config"
	"rental-autotest/internal/ports"
	"rental-autotest/internal/usecase/adapters"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	Automation adapters.AutomationService
}

type Params struct {
	fx.In

	Logger      *zap.Logger
	Config      *config.Config
	LLM         ports.LLMClient
	Extractor   ports.IntentExtractor
	Launcher    ports.BrowserLauncher
	Screenshots ports.ScreenshotCapturer
	Wait        ports.WaitPolicy
}

func NewUsecase(params Params) *Service {
	factory := newServiceFactory(params)
	orchestrator := factory.CreateOrchestrator()

	return &Service{
		Automation: factory.CreateAutomationService(orchestrator),
	}
}
