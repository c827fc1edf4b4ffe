package usecase

type serviceFactory struct {
	deps Params
}

func newServiceFactory(deps Params) *serviceFactory {
	return &serviceFactory{
		deps: deps,
	}
}

func (f *serviceFactory) CreateOrchestrator() *Orchestrator {
	return NewOrchestrator(OrchestratorParams{
		Config:      f.deps.Config,
		Logger:      f.deps.Logger,
		Launcher:    f.deps.Launcher,
		Screenshots: f.deps.Screenshots,
		Wait:        f.deps.Wait,
	})
}

func (f *serviceFactory) CreateAutomationService(orchestrator *Orchestrator) *AutomationService {
	return NewAutomationService(AutomationServiceParams{
		Logger:       f.deps.Logger,
		LLM:          f.deps.LLM,
		Extractor:    f.deps.Extractor,
		Orchestrator: orchestrator,
	})
}
