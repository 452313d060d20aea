package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "WEBMANCER"

// Config holds the whole application configuration.
type Config struct {
	Logger      LoggerConfig      `mapstructure:"logger" yaml:"logger"`
	Browser     BrowserConfig     `mapstructure:"browser" yaml:"browser"`
	LLM         LLMConfig         `mapstructure:"llm" yaml:"llm"`
	Credentials CredentialsConfig `mapstructure:"credentials" yaml:"credentials"`
}

type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

type BrowserConfig struct {
	// Type is one of chromium, firefox or webkit.
	Type              string        `mapstructure:"type" yaml:"type"`
	Headless          bool          `mapstructure:"headless" yaml:"headless"`
	ViewportWidth     int           `mapstructure:"viewport_width" yaml:"viewport_width"`
	ViewportHeight    int           `mapstructure:"viewport_height" yaml:"viewport_height"`
	DefaultTimeout    time.Duration `mapstructure:"default_timeout" yaml:"default_timeout"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	WaitUntil         string        `mapstructure:"wait_until" yaml:"wait_until"`
	TypeDelay         time.Duration `mapstructure:"type_delay" yaml:"type_delay"`
	KeyPressDelay     time.Duration `mapstructure:"key_press_delay" yaml:"key_press_delay"`
}

type LLMConfig struct {
	// Provider is openai or azure.
	Provider      string  `mapstructure:"provider" yaml:"provider"`
	APIKey        string  `mapstructure:"api_key" yaml:"api_key"`
	Endpoint      string  `mapstructure:"endpoint" yaml:"endpoint"`
	APIVersion    string  `mapstructure:"api_version" yaml:"api_version"`
	Model         string  `mapstructure:"model" yaml:"model"`
	MaxTokens     int     `mapstructure:"max_tokens" yaml:"max_tokens"`
	Temperature   float32 `mapstructure:"temperature" yaml:"temperature"`
	MaxToolRounds int     `mapstructure:"max_tool_rounds" yaml:"max_tool_rounds"`
	// MaxRetryElapsed bounds retries of rate-limited requests.
	MaxRetryElapsed time.Duration `mapstructure:"max_retry_elapsed" yaml:"max_retry_elapsed"`
}

// CredentialsConfig carries secrets handed to the model on request. It is
// passed explicitly to the components that need it.
type CredentialsConfig struct {
	GithubUsername string `mapstructure:"github_username" yaml:"github_username"`
	GithubPassword string `mapstructure:"github_password" yaml:"github_password"`
}

// SetDefaults initializes default values for every configuration key.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "webmancer")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)

	// -- Browser --
	v.SetDefault("browser.type", "chromium")
	v.SetDefault("browser.headless", false)
	v.SetDefault("browser.viewport_width", 1280)
	v.SetDefault("browser.viewport_height", 720)
	v.SetDefault("browser.default_timeout", "10s")
	v.SetDefault("browser.navigation_timeout", "30s")
	v.SetDefault("browser.wait_until", "load")
	v.SetDefault("browser.type_delay", "100ms")
	v.SetDefault("browser.key_press_delay", "500ms")

	// -- LLM --
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model", "gpt-4o")
	v.SetDefault("llm.api_version", "2024-06-01")
	v.SetDefault("llm.max_tokens", 2500)
	v.SetDefault("llm.temperature", 0)
	v.SetDefault("llm.max_tool_rounds", 20)
	v.SetDefault("llm.max_retry_elapsed", "2m")

	// -- Credentials --
	v.SetDefault("credentials.github_username", "")
	v.SetDefault("credentials.github_password", "")
}

// NewDefaultConfig returns a configuration populated only with defaults.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewViper prepares a viper instance: defaults, optional config file, a
// .env file in the working directory, then WEBMANCER_* environment
// variables and the well-known secret variables.
func NewViper(cfgFile string) (*viper.Viper, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}

	v := viper.New()
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("llm.api_key", envPrefix+"_LLM_API_KEY", "OPENAI_API_KEY", "OPEN_AI_AZURE_KEY")
	_ = v.BindEnv("llm.endpoint", envPrefix+"_LLM_ENDPOINT", "OPEN_AI_AZURE_ENDPOINT")
	_ = v.BindEnv("credentials.github_username", envPrefix+"_CREDENTIALS_GITHUB_USERNAME", "GITHUB_USERNAME")
	_ = v.BindEnv("credentials.github_password", envPrefix+"_CREDENTIALS_GITHUB_PASSWORD", "GITHUB_PASSWORD")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return v, nil
}

// NewConfigFromViper unmarshals and validates a configuration.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Load is NewViper followed by NewConfigFromViper.
func Load(cfgFile string) (*Config, error) {
	v, err := NewViper(cfgFile)
	if err != nil {
		return nil, err
	}
	return NewConfigFromViper(v)
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	switch c.Browser.Type {
	case "chromium", "firefox", "webkit":
	default:
		return fmt.Errorf("browser.type must be chromium, firefox or webkit, got %q", c.Browser.Type)
	}
	switch c.Browser.WaitUntil {
	case "load", "domcontentloaded", "networkidle", "commit":
	default:
		return fmt.Errorf("browser.wait_until %q is not a navigation wait condition", c.Browser.WaitUntil)
	}
	if c.Browser.NavigationTimeout <= 0 {
		return fmt.Errorf("browser.navigation_timeout must be positive")
	}
	if c.Browser.TypeDelay < 0 || c.Browser.KeyPressDelay < 0 {
		return fmt.Errorf("browser delays must not be negative")
	}
	switch c.LLM.Provider {
	case "openai":
	case "azure":
		if c.LLM.Endpoint == "" {
			return fmt.Errorf("llm.endpoint is required for the azure provider")
		}
	default:
		return fmt.Errorf("llm.provider must be openai or azure, got %q", c.LLM.Provider)
	}
	if c.LLM.MaxToolRounds <= 0 {
		return fmt.Errorf("llm.max_tool_rounds must be a positive integer")
	}
	if c.LLM.MaxRetryElapsed <= 0 {
		return fmt.Errorf("llm.max_retry_elapsed must be positive")
	}
	return nil
}
