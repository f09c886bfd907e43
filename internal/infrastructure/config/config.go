package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Reports  ReportsConfig  `mapstructure:"reports"`
}

// AppConfig represents application-specific configuration
type AppConfig struct {
	Env            string `mapstructure:"env"`
	LogLevel       string `mapstructure:"log_level"`
	HTTPPort       int    `mapstructure:"http_port"`
	WorkerPoolSize int    `mapstructure:"worker_pool_size"`
	BatchSize      int    `mapstructure:"batch_size"`
}

// TelegramConfig represents the bot transport configuration
type TelegramConfig struct {
	Token        string  `mapstructure:"token"`
	AllowedUsers []int64 `mapstructure:"allowed_users"`
	PollTimeout  int     `mapstructure:"poll_timeout"`
	Enabled      bool    `mapstructure:"enabled"`
}

// MongoConfig represents MongoDB configuration
type MongoConfig struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	MaxPoolSize    uint64        `mapstructure:"max_pool_size"`
}

// NATSConfig represents NATS configuration for log-event ingestion
type NATSConfig struct {
	URL                string        `mapstructure:"url"`
	StreamName         string        `mapstructure:"stream_name"`
	SubjectPrefix      string        `mapstructure:"subject_prefix"`
	ConsumerGroup      string        `mapstructure:"consumer_group"`
	DurableName        string        `mapstructure:"durable_name"`
	ConnectTimeout     time.Duration `mapstructure:"connect_timeout"`
	ReconnectAttempts  int           `mapstructure:"reconnect_attempts"`
	ReconnectDelay     time.Duration `mapstructure:"reconnect_delay"`
	MaxPendingMessages int           `mapstructure:"max_pending_messages"`
	Enabled            bool          `mapstructure:"enabled"`
}

// ReportsConfig represents report output configuration
type ReportsConfig struct {
	Dir string `mapstructure:"dir"`
}

// Load loads configuration from environment variables and files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/mongolog-report-bot")

	// Environment variables
	viper.AutomaticEnv()
	viper.SetEnvPrefix("")

	// Map environment variables to nested config keys
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Default values
	setDefaults()

	// Read config file if exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// App defaults
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.http_port", 8080)
	viper.SetDefault("app.worker_pool_size", 4)
	viper.SetDefault("app.batch_size", 100)

	// Telegram defaults
	viper.SetDefault("telegram.poll_timeout", 60)
	viper.SetDefault("telegram.enabled", true)

	// Mongo defaults
	viper.SetDefault("mongo.uri", "mongodb://localhost:27017")
	viper.SetDefault("mongo.database", "mongolog")
	viper.SetDefault("mongo.connect_timeout", "10s")
	viper.SetDefault("mongo.max_pool_size", 50)

	// NATS defaults
	viper.SetDefault("nats.url", "nats://localhost:4222")
	viper.SetDefault("nats.stream_name", "LOGS")
	viper.SetDefault("nats.subject_prefix", "logs")
	viper.SetDefault("nats.consumer_group", "mongolog-report-bot")
	viper.SetDefault("nats.durable_name", "mongolog-report-bot")
	viper.SetDefault("nats.connect_timeout", "10s")
	viper.SetDefault("nats.reconnect_attempts", 5)
	viper.SetDefault("nats.reconnect_delay", "2s")
	viper.SetDefault("nats.max_pending_messages", 10000)
	viper.SetDefault("nats.enabled", true)

	// Reports defaults
	viper.SetDefault("reports.dir", "./reports")

	// Bind env for secrets and endpoints
	viper.BindEnv("telegram.token", "TELEGRAM_TOKEN")
	viper.BindEnv("mongo.uri", "MONGO_URI")
	viper.BindEnv("nats.url", "NATS_URL")
}
