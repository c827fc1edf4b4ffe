package adapters

import (
	"context"
	"rental-autotest/internal/entity"
)

type AutomationService interface {
	Execute(ctx context.Context, prompt string) (*entity.ExecutionResult, error)
	ExecuteRaw(ctx context.Context, raw string) *entity.ExecutionResult
}
