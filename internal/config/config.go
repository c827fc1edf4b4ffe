package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	AppConfig        *AppConfig
	LLMConfig        *LLMConfig
	BrowserConfig    *BrowserConfig
	WaitConfig       *WaitConfig
	ScreenshotConfig *ScreenshotConfig
}

type AppConfig struct {
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	Debug       bool   `envconfig:"DEBUG" default:"false"`
	TraceStdout bool   `envconfig:"TRACE_STDOUT" default:"false"`
}

type LLMConfig struct {
	Host        string        `envconfig:"OLLAMA_HOST" default:"http://localhost:11434"`
	Model       string        `envconfig:"OLLAMA_MODEL" default:"tinyllama"`
	Timeout     time.Duration `envconfig:"OLLAMA_TIMEOUT" default:"120s"`
	Temperature float64       `envconfig:"OLLAMA_TEMPERATURE" default:"0"`
}

type BrowserConfig struct {
	Headless  bool   `envconfig:"BROWSER_HEADLESS" default:"false"`
	SlowMo    int    `envconfig:"BROWSER_SLOW_MO" default:"0"`
	Timeout   int    `envconfig:"BROWSER_TIMEOUT" default:"30000"`
	Install   bool   `envconfig:"BROWSER_INSTALL" default:"true"`
	TargetURL string `envconfig:"TARGET_URL" default:"https://automationdemo.vercel.app/"`
}

// WaitConfig holds the fixed settle delays used between browser steps.
type WaitConfig struct {
	Initial time.Duration `envconfig:"WAIT_INITIAL" default:"2s"`
	Short   time.Duration `envconfig:"WAIT_SHORT" default:"500ms"`
	Section time.Duration `envconfig:"WAIT_SECTION" default:"1s"`
	Spawned time.Duration `envconfig:"WAIT_SPAWNED" default:"2s"`
}

type ScreenshotConfig struct {
	MaxWidth int    `envconfig:"SCREENSHOT_MAX_WIDTH" default:"1200"`
	FullPage bool   `envconfig:"SCREENSHOT_FULL_PAGE" default:"true"`
	Dir      string `envconfig:"SCREENSHOT_DIR" default:""`
}

func GetConfig() (*Config, error) {
	_ = godotenv.Load()

	var conf Config

	if err := envconfig.Process("", &conf); err != nil {
		return nil, fmt.Errorf("read config from env vars: %w", err)
	}

	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &conf, nil
}

func (c *Config) Validate() error {
	if c.ScreenshotConfig.MaxWidth <= 0 {
		return errors.New("SCREENSHOT_MAX_WIDTH must be positive")
	}

	target, err := url.Parse(c.BrowserConfig.TargetURL)
	if err != nil {
		return fmt.Errorf("TARGET_URL: %w", err)
	}

	if target.Scheme == "" || target.Host == "" {
		return fmt.Errorf("TARGET_URL must be absolute, got %q", c.BrowserConfig.TargetURL)
	}

	if c.BrowserConfig.Timeout <= 0 {
		return errors.New("BROWSER_TIMEOUT must be positive")
	}

	return nil
}
