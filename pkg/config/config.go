package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"roomrelease/pkg/logger"
)

type Config struct {
	Port string

	DeviceBaseURL  string
	DeviceUsername string
	DevicePassword string
	DeviceTimeout  time.Duration

	CountdownSeconds int
	SettleDelay      time.Duration
	TickInterval     time.Duration

	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	RequestTimeout time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log *logger.Logger
}

func Load(serviceName string) *Config {
	cfg := &Config{
		Port: getEnvStr(EnvPort, DefaultPort),

		DeviceBaseURL:  getEnvStr(EnvDeviceBaseURL, DefaultDeviceBaseURL),
		DeviceUsername: getEnvStr(EnvDeviceUsername, ""),
		DevicePassword: getEnvStr(EnvDevicePassword, ""),
		DeviceTimeout:  getEnvDuration(EnvDeviceTimeout, DefaultDeviceTimeout),

		CountdownSeconds: getEnvNum(EnvCountdownSeconds, DefaultCountdownSeconds),
		SettleDelay:      getEnvDuration(EnvSettleDelay, DefaultSettleDelay),
		TickInterval:     getEnvDuration(EnvTickInterval, DefaultTickInterval),

		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		KafkaBrokers: splitBrokers(getEnvStr(EnvKafkaBrokers, DefaultKafkaBrokers)),
		KafkaTopic:   getEnvStr(EnvKafkaTopic, DefaultKafkaTopic),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	return cfg
}

// HistoryEnabled reports whether the release history store is configured.
func (cfg *Config) HistoryEnabled() bool {
	return cfg.MongoURI != ""
}

// PublishingEnabled reports whether outcome publishing is configured.
func (cfg *Config) PublishingEnabled() bool {
	return len(cfg.KafkaBrokers) > 0
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.DeviceBaseURL == "" {
		errors = append(errors, "DeviceBaseURL cannot be empty")
	} else if !regexp.MustCompile(`^https?://`).MatchString(cfg.DeviceBaseURL) {
		errors = append(errors, fmt.Sprintf("DeviceBaseURL must start with 'http://' or 'https://', got: %s", cfg.DeviceBaseURL))
	}
	if cfg.DeviceTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("DeviceTimeout must be positive, got: %s", cfg.DeviceTimeout))
	}

	if cfg.CountdownSeconds <= 0 {
		errors = append(errors, fmt.Sprintf("CountdownSeconds must be positive, got: %d", cfg.CountdownSeconds))
	}
	if cfg.SettleDelay < 0 {
		errors = append(errors, fmt.Sprintf("SettleDelay cannot be negative, got: %s", cfg.SettleDelay))
	}
	if cfg.TickInterval <= 0 {
		errors = append(errors, fmt.Sprintf("TickInterval must be positive, got: %s", cfg.TickInterval))
	}

	if cfg.MongoURI != "" && !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}
	if cfg.MongoURI != "" && cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty when MongoURI is set")
	}
	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		errors = append(errors, "KafkaTopic cannot be empty when KafkaBrokers is set")
	}

	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"port", cfg.Port,
		"device_base_url", cfg.DeviceBaseURL,
		"device_credentials_set", cfg.DeviceUsername != "",
		"device_timeout", cfg.DeviceTimeout,
		"countdown_seconds", cfg.CountdownSeconds,
		"settle_delay", cfg.SettleDelay,
		"tick_interval", cfg.TickInterval,
		"history_enabled", cfg.HistoryEnabled(),
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"publishing_enabled", cfg.PublishingEnabled(),
		"kafka_brokers", strings.Join(cfg.KafkaBrokers, ","),
		"kafka_topic", cfg.KafkaTopic,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func splitBrokers(s string) []string {
	if s == "" {
		return nil
	}
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
