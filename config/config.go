package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything the example programs need: provider credentials,
// search API access, storage backends and runner settings.
type Config struct {
	Providers ProvidersConfig `mapstructure:"providers"`
	Search    SearchConfig    `mapstructure:"search"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ProvidersConfig holds LLM provider credentials and the default model.
type ProvidersConfig struct {
	OpenAIKey    string `mapstructure:"openai_key"`
	AnthropicKey string `mapstructure:"anthropic_key"`
	Model        string `mapstructure:"model"`
}

// SearchConfig holds web search credentials.
type SearchConfig struct {
	SerperKey string `mapstructure:"serper_key"`
}

// StorageConfig holds connection settings for the optional backends.
type StorageConfig struct {
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	PostgresDSN   string `mapstructure:"postgres_dsn"`
}

// ServerConfig holds settings for the HTTP runner.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from an optional config.yaml, a .env file and the
// process environment. Environment variables win, using underscore-delimited
// keys such as PROVIDERS_OPENAI_KEY.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	bindKeys(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideFromWellKnownEnv(&cfg)

	return &cfg, nil
}

// bindKeys registers every key with viper so AutomaticEnv picks them up even
// when no config file mentions them.
func bindKeys(v *viper.Viper) {
	for _, key := range []string{
		"providers.openai_key",
		"providers.anthropic_key",
		"providers.model",
		"search.serper_key",
		"storage.redis_addr",
		"storage.redis_password",
		"storage.redis_db",
		"storage.postgres_dsn",
		"server.port",
		"logging.level",
		"logging.format",
	} {
		_ = v.BindEnv(key)
	}
}

func loadEnvFile() {
	paths := []string{".env", "../.env", "../../.env"}
	if root := findProjectRoot(); root != "" {
		paths = append(paths, filepath.Join(root, ".env"))
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if godotenv.Load(path) == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Storage.RedisAddr == "" {
		cfg.Storage.RedisAddr = "localhost:6379"
	}
}

// overrideFromWellKnownEnv honors the conventional variable names the
// provider SDKs document, so exports like OPENAI_API_KEY just work.
func overrideFromWellKnownEnv(cfg *Config) {
	if cfg.Providers.OpenAIKey == "" {
		cfg.Providers.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Providers.AnthropicKey == "" {
		cfg.Providers.AnthropicKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if cfg.Search.SerperKey == "" {
		cfg.Search.SerperKey = os.Getenv("SERPER_API_KEY")
	}
	if cfg.Storage.PostgresDSN == "" {
		cfg.Storage.PostgresDSN = os.Getenv("DATABASE_URL")
	}
}

// RequireOpenAI returns an error when no OpenAI key is configured. Examples
// call this up front so the failure happens before any agent work.
func (c *Config) RequireOpenAI() error {
	if c.Providers.OpenAIKey == "" {
		return fmt.Errorf("missing OpenAI API key: set OPENAI_API_KEY or providers.openai_key")
	}
	return nil
}

// RequireAnthropic returns an error when no Anthropic key is configured.
func (c *Config) RequireAnthropic() error {
	if c.Providers.AnthropicKey == "" {
		return fmt.Errorf("missing Anthropic API key: set ANTHROPIC_API_KEY or providers.anthropic_key")
	}
	return nil
}

// RequireSerper returns an error when no Serper key is configured.
func (c *Config) RequireSerper() error {
	if c.Search.SerperKey == "" {
		return fmt.Errorf("missing Serper API key: set SERPER_API_KEY or search.serper_key")
	}
	return nil
}
