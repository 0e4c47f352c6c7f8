package config

import "time"

// Application constants shared across commands.
const (
	// Application info
	AppName   = "Superstore Analytics"
	AppVendor = "Superstore"

	// EnvPrefix namespaces all environment variables, e.g. SUPERSTORE_SERVER_PORT.
	EnvPrefix = "SUPERSTORE"

	// ConfigFileName is the YAML file searched for when --config is not given.
	ConfigFileName = "config.yaml"

	// Network timeouts
	DefaultHTTPTimeout    = 30 * time.Second
	DefaultRequestTimeout = 60 * time.Second

	// Rate limiting
	DefaultRateLimitRPS   = 50
	DefaultRateLimitBurst = 100

	// Dataset handling
	MaxDatasetFileSize = 256 * 1024 * 1024

	// Log settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	MaxLogFileSize   = 100 * 1024 * 1024
	MaxLogFileAge    = 30
	MaxLogBackups    = 10
)
