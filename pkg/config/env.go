package config

const (
	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvDeviceBaseURL  = "DEVICE_BASE_URL"
	EnvDeviceUsername = "DEVICE_USERNAME"
	EnvDevicePassword = "DEVICE_PASSWORD"
	EnvDeviceTimeout  = "DEVICE_REQUEST_TIMEOUT"

	EnvCountdownSeconds = "COUNTDOWN_SECONDS"
	EnvSettleDelay      = "SETTLE_DELAY"
	EnvTickInterval     = "TICK_INTERVAL"

	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvKafkaBrokers = "KAFKA_BROKERS"
	EnvKafkaTopic   = "KAFKA_TOPIC"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
