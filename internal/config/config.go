package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Qdrant    QdrantConfig    `mapstructure:"qdrant"`
	OpenAI    ModelConfig     `mapstructure:"openai"` // embeddings
	LLM       LLMConfig       `mapstructure:"llm"`    // generation
	Tuvi      TuviConfig      `mapstructure:"tuvi"`
	Chat      ChatConfig      `mapstructure:"chat"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug | release | test
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// SlogLevel maps the configured name to a slog level, defaulting to info.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(l.Level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // mysql | sqlite
	DSN    string `mapstructure:"dsn"`
}

type QdrantConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	CollectionName string `mapstructure:"collection_name"`
	VectorSize     uint64 `mapstructure:"vector_size"`
}

type ModelConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type LLMConfig struct {
	ModelConfig `mapstructure:",squash"`
	Temperature float32       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type TuviConfig struct {
	BaseURL string        `mapstructure:"base_url"` // empty disables the horoscope chart
	Timeout time.Duration `mapstructure:"timeout"`
}

type ChatConfig struct {
	HistoryLimit        int `mapstructure:"history_limit"`
	RetrievalTopK       int `mapstructure:"retrieval_top_k"`
	TimezoneOffsetHours int `mapstructure:"timezone_offset_hours"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"` // empty disables auth on the chat route
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"` // 0 disables
	Burst             int     `mapstructure:"burst"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("log.level", "info")
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.dsn", "")
	v.SetDefault("qdrant.host", "localhost")
	v.SetDefault("qdrant.port", 6334)
	v.SetDefault("qdrant.collection_name", "sorcerer_knowledge")
	v.SetDefault("qdrant.vector_size", 1536)
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "text-embedding-3-small")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "https://api.deepseek.com/v1")
	v.SetDefault("llm.model", "deepseek-chat")
	v.SetDefault("llm.temperature", 0.6)
	v.SetDefault("llm.max_tokens", 2000)
	v.SetDefault("llm.timeout", 30*time.Second)
	v.SetDefault("tuvi.base_url", "")
	v.SetDefault("tuvi.timeout", 5*time.Second)
	v.SetDefault("chat.history_limit", 6)
	v.SetDefault("chat.retrieval_top_k", 3)
	v.SetDefault("chat.timezone_offset_hours", 7)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("rate_limit.requests_per_second", 0)
	v.SetDefault("rate_limit.burst", 10)
}

// LoadConfig reads config.yaml from the working directory (or the explicit path when
// given) and lets SORCERER_* environment variables override it, e.g.
// SORCERER_LLM_API_KEY overrides llm.api_key. A missing config file is fine: the
// service can run on environment variables alone.
func LoadConfig(path ...string) (*Config, error) {
	// .env is a convenience for local runs, absence is normal
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if len(path) > 0 && path[0] != "" {
		v.SetConfigFile(path[0])
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SORCERER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	return &cfg, nil
}

// Location is the fixed zone used to tell the model what day it is.
func (c ChatConfig) Location() *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", c.TimezoneOffsetHours), c.TimezoneOffsetHours*3600)
}
