// Package config 负责加载和管理应用程序的配置。
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// 全局配置变量，存储从配置文件加载的所有设置。
var Conf Config

// Config 是整个应用程序的配置结构体，与 config.yaml 文件结构对应。
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Log          LogConfig          `mapstructure:"log"`
	Conversation ConversationConfig `mapstructure:"conversation"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Emotion      EmotionConfig      `mapstructure:"emotion"`
	Inference    InferenceConfig    `mapstructure:"inference"`
	LLM          LLMConfig          `mapstructure:"llm"`
	Response     ResponseConfig     `mapstructure:"response"`
	RateLimit    RateLimitConfig    `mapstructure:"rate_limit"`
	CORS         CORSConfig         `mapstructure:"cors"`
	Metrics      MetricsConfig      `mapstructure:"metrics"`
	Kafka        KafkaConfig        `mapstructure:"kafka"`
}

// ServerConfig 存储服务器相关的配置。
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// LogConfig 存储日志相关的配置。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// ConversationConfig 控制会话日志的存储方式和容量。
type ConversationConfig struct {
	Store    string        `mapstructure:"store"` // "memory" 或 "redis"
	MaxTurns int           `mapstructure:"max_turns"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RedisConfig 存储 Redis 的配置。
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// EmotionConfig 控制情绪识别的来源与外部调用的时限。
type EmotionConfig struct {
	Provider      string        `mapstructure:"provider"` // "keyword"、"inference" 或 "llm"
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxInputChars int           `mapstructure:"max_input_chars"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
}

// InferenceConfig 存储文本分类推理服务的配置。
type InferenceConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

// LLMConfig 存储大语言模型相关的配置。
type LLMConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// ResponseConfig 存储回复风格相关的配置。
type ResponseConfig struct {
	DefaultStyle string `mapstructure:"default_style"`
}

// RateLimitConfig 存储按客户端限流的配置。
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
	Burst             int  `mapstructure:"burst"`
}

// CORSConfig 存储跨域相关的配置。
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MetricsConfig 存储 Prometheus 指标暴露的配置。
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// KafkaConfig 存储 Kafka 相关的配置，用于投递安全告警。
type KafkaConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.mode", "release")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("conversation.store", "memory")
	v.SetDefault("conversation.max_turns", 20)
	v.SetDefault("conversation.ttl", 7*24*time.Hour)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("inference.api_key", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("kafka.brokers", "")
	v.SetDefault("log.output_path", "")
	v.SetDefault("emotion.provider", "keyword")
	v.SetDefault("emotion.timeout", 2*time.Second)
	v.SetDefault("emotion.max_input_chars", 512)
	v.SetDefault("emotion.cache_ttl", 10*time.Minute)
	v.SetDefault("inference.base_url", "https://api-inference.huggingface.co")
	v.SetDefault("inference.model", "j-hartmann/emotion-english-distilroberta-base")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("response.default_style", "empathetic")
	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.requests_per_minute", 60)
	v.SetDefault("rate_limit.burst", 10)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.topic", "safety-alerts")
}

// Load 从指定路径读取 YAML 配置；路径为空或文件不存在时仅使用默认值和环境变量。
// 环境变量按 "section.key" → "SECTION_KEY" 的规则覆盖配置项。
func Load(configPath string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("无法将配置解析到结构体中: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return Config{}, fmt.Errorf("配置校验失败: %w", err)
	}
	return cfg, nil
}

// Init 初始化配置加载，并将结果写入全局 Conf 变量。
func Init(configPath string) {
	cfg, err := Load(configPath)
	if err != nil {
		panic(err)
	}
	Conf = cfg
}

func validate(cfg *Config) error {
	switch cfg.Conversation.Store {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported conversation store: %s", cfg.Conversation.Store)
	}
	if cfg.Conversation.MaxTurns <= 0 {
		return fmt.Errorf("conversation.max_turns must be positive, got %d", cfg.Conversation.MaxTurns)
	}
	switch cfg.Emotion.Provider {
	case "keyword", "inference", "llm":
	default:
		return fmt.Errorf("unsupported emotion provider: %s", cfg.Emotion.Provider)
	}
	if cfg.Emotion.Provider == "llm" && cfg.LLM.APIKey == "" {
		return fmt.Errorf("llm.api_key is required when emotion.provider is llm")
	}
	if cfg.Emotion.MaxInputChars <= 0 {
		cfg.Emotion.MaxInputChars = 512
	}
	// 外部模型调用必须有时限
	if cfg.Emotion.Timeout <= 0 {
		cfg.Emotion.Timeout = 2 * time.Second
	}
	if cfg.Kafka.Enabled && cfg.Kafka.Brokers == "" {
		return fmt.Errorf("kafka.brokers is required when kafka is enabled")
	}
	return nil
}
