package bootstrap

import (
	"rental-autotest/internal/config"
	"rental-autotest/internal/console"
	"rental-autotest/internal/usecase"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func TestGraphIsComplete(t *testing.T) {
	var (
		svc *usecase.Service
		con *console.Interface
	)

	err := fx.ValidateApp(append(options(), fx.Populate(&svc, &con))...)

	require.NoError(t, err)
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level string
		debug bool
		want  zap.AtomicLevel
	}{
		{level: "debug", want: zap.NewAtomicLevelAt(zap.DebugLevel)},
		{level: "warn", want: zap.NewAtomicLevelAt(zap.WarnLevel)},
		{level: "error", debug: true, want: zap.NewAtomicLevelAt(zap.ErrorLevel)},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, err := newLogger(&config.Config{AppConfig: &config.AppConfig{LogLevel: tt.level, Debug: tt.debug}})

			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.want.Level()))
			assert.False(t, logger.Core().Enabled(tt.want.Level()-1))
		})
	}
}
