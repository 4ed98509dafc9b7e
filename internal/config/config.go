package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration. It is constructed once at
// startup and passed by reference into each component constructor; nothing
// reads ambient global state.
type Config struct {
	Backend   BackendConfig   `yaml:"backend" mapstructure:"backend"`
	OpenAI    OpenAIConfig    `yaml:"openai" mapstructure:"openai"`
	Redis     RedisConfig     `yaml:"redis" mapstructure:"redis"`
	Queue     QueueConfig     `yaml:"queue" mapstructure:"queue"`
	Scheduler SchedulerConfig `yaml:"scheduler" mapstructure:"scheduler"`
	Qualifier QualifierConfig `yaml:"qualifier" mapstructure:"qualifier"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// BackendConfig holds the lead backend base URL and shared secret.
type BackendConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	InternalKey string `yaml:"internal_key" mapstructure:"internal_key"`
}

// OpenAIConfig holds OpenAI API settings.
type OpenAIConfig struct {
	Key          string `yaml:"key" mapstructure:"key"`
	Model        string `yaml:"model" mapstructure:"model"`
	WhisperModel string `yaml:"whisper_model" mapstructure:"whisper_model"`
	Language     string `yaml:"language" mapstructure:"language"`
}

// RedisConfig holds the queue backing store connection.
type RedisConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
	DB   int    `yaml:"db" mapstructure:"db"`
}

// Addr returns the host:port address for the Redis client.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// QueueConfig names the work queue.
type QueueConfig struct {
	Name string `yaml:"name" mapstructure:"name"`
}

// SchedulerConfig configures the periodic trigger.
type SchedulerConfig struct {
	IntervalMinutes int  `yaml:"interval_minutes" mapstructure:"interval_minutes"`
	RunOnStartup    bool `yaml:"run_on_startup" mapstructure:"run_on_startup"`
}

// Interval returns the cycle interval as a duration.
func (c SchedulerConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

// QualifierConfig tunes the qualification cycle.
type QualifierConfig struct {
	MessageLimit       int `yaml:"message_limit" mapstructure:"message_limit"`
	DequeueTimeoutSecs int `yaml:"dequeue_timeout_secs" mapstructure:"dequeue_timeout_secs"`
}

// DequeueTimeout returns the per-pop blocking timeout as a duration.
func (c QualifierConfig) DequeueTimeout() time.Duration {
	return time.Duration(c.DequeueTimeoutSecs) * time.Second
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("backend.base_url", "http://backend:8080")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.whisper_model", "whisper-1")
	v.SetDefault("openai.language", "pt")
	v.SetDefault("redis.host", "redis")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("queue.name", "lead-qualification")
	v.SetDefault("scheduler.interval_minutes", 30)
	v.SetDefault("scheduler.run_on_startup", true)
	v.SetDefault("qualifier.message_limit", 20)
	v.SetDefault("qualifier.dequeue_timeout_secs", 2)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
