package config

import "time"

const (
	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultDeviceBaseURL = "https://localhost:443"
	DefaultDeviceTimeout = 10 * time.Second

	DefaultCountdownSeconds = 180
	DefaultSettleDelay      = 2 * time.Second
	DefaultTickInterval     = 1 * time.Second

	// Empty Mongo URI disables the release history store.
	DefaultMongoURI          = ""
	DefaultMongoDatabaseName = "roomrelease"
	DefaultMongoConnTimeout  = 10 * time.Second

	// Empty broker list disables outcome publishing.
	DefaultKafkaBrokers = ""
	DefaultKafkaTopic   = "room.release.outcome"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 64 * 1024 // 64KB, device events are tiny

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)
