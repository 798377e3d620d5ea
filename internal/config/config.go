// Package config provides configuration management using Viper.
// It loads configuration from environment variables, .env files, and config files.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends
const (
	StorageBackendFile   = "file"
	StorageBackendSQLite = "sqlite"
)

const (
	defaultServerPort         = 8080
	defaultServerHost         = "0.0.0.0"
	defaultReadTimeout        = 30 * time.Second
	defaultWriteTimeout       = 30 * time.Second
	defaultLogLevel           = "info"
	defaultLogPretty          = false
	defaultStorageBackend     = StorageBackendFile
	defaultCatalogDir         = "playlists"
	defaultIndexPath          = "data.json"
	defaultDatabasePath       = "./data/khelwa.db"
	defaultMigrationsPath     = "file://./migrations"
	defaultVideoDelay         = 1 * time.Second
	defaultMaxConcurrentJobs  = 0
	defaultExtractTimeout     = 60 * time.Second
	defaultListTimeout        = 60 * time.Second
	defaultYTDLPPath          = "yt-dlp"
	defaultBatchRetention     = 1 * time.Hour
	envPrefix                 = "KHELWA"
	maxAllowedConcurrentJobs  = 256
	defaultConfigName         = "config"
	defaultConfigType         = "yaml"
	defaultSystemConfigFolder = "/etc/khelwa"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Logging LoggingConfig
	Storage StorageConfig
	Ingest  IngestConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Pretty bool
}

// StorageConfig selects where catalogs and the section index are persisted
type StorageConfig struct {
	Backend        string
	CatalogDir     string
	IndexPath      string
	DatabasePath   string
	MigrationsPath string
}

// IngestConfig tunes playlist ingestion
type IngestConfig struct {
	// VideoDelay is the pause between consecutive video lookups of one playlist
	VideoDelay time.Duration
	// MaxConcurrentJobs caps parallel playlist jobs; 0 runs one goroutine per playlist
	MaxConcurrentJobs int
	ExtractTimeout    time.Duration
	ListTimeout       time.Duration
	YTDLPPath         string
	BatchRetention    time.Duration
}

// Load reads configuration from .env file, config files, environment variables, and defaults
func Load() (*Config, error) {
	// .env files are optional in production and CI where env vars are set directly
	_ = godotenv.Load() // nolint:errcheck // .env file is optional

	v := viper.New()
	setDefaults(v)

	v.SetConfigName(defaultConfigName)
	v.SetConfigType(defaultConfigType)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath(defaultSystemConfigFolder)

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.host", defaultServerHost)
	v.SetDefault("server.readtimeout", defaultReadTimeout)
	v.SetDefault("server.writetimeout", defaultWriteTimeout)

	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.pretty", defaultLogPretty)

	v.SetDefault("storage.backend", defaultStorageBackend)
	v.SetDefault("storage.catalogdir", defaultCatalogDir)
	v.SetDefault("storage.indexpath", defaultIndexPath)
	v.SetDefault("storage.databasepath", defaultDatabasePath)
	v.SetDefault("storage.migrationspath", defaultMigrationsPath)

	v.SetDefault("ingest.videodelay", defaultVideoDelay)
	v.SetDefault("ingest.maxconcurrentjobs", defaultMaxConcurrentJobs)
	v.SetDefault("ingest.extracttimeout", defaultExtractTimeout)
	v.SetDefault("ingest.listtimeout", defaultListTimeout)
	v.SetDefault("ingest.ytdlppath", defaultYTDLPPath)
	v.SetDefault("ingest.batchretention", defaultBatchRetention)
}

// Validate checks that configuration values are valid
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("invalid read timeout: %v (must be > 0)", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("invalid write timeout: %v (must be > 0)", c.Server.WriteTimeout)
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.Logging.Level, strings.Join(validLevels, ", "))
	}

	validBackends := []string{StorageBackendFile, StorageBackendSQLite}
	if !contains(validBackends, c.Storage.Backend) {
		return fmt.Errorf("invalid storage backend: %s (must be one of: %s)", c.Storage.Backend, strings.Join(validBackends, ", "))
	}
	switch c.Storage.Backend {
	case StorageBackendFile:
		if c.Storage.CatalogDir == "" || c.Storage.IndexPath == "" {
			return errors.New("file storage requires catalog dir and index path")
		}
	case StorageBackendSQLite:
		if c.Storage.DatabasePath == "" {
			return errors.New("sqlite storage requires a database path")
		}
	}

	if c.Ingest.VideoDelay < 0 {
		return fmt.Errorf("invalid video delay: %v (must be >= 0)", c.Ingest.VideoDelay)
	}
	if c.Ingest.MaxConcurrentJobs < 0 || c.Ingest.MaxConcurrentJobs > maxAllowedConcurrentJobs {
		return fmt.Errorf("invalid max concurrent jobs: %d (must be between 0 and %d)", c.Ingest.MaxConcurrentJobs, maxAllowedConcurrentJobs)
	}
	if c.Ingest.ExtractTimeout <= 0 {
		return fmt.Errorf("invalid extract timeout: %v (must be > 0)", c.Ingest.ExtractTimeout)
	}
	if c.Ingest.ListTimeout <= 0 {
		return fmt.Errorf("invalid list timeout: %v (must be > 0)", c.Ingest.ListTimeout)
	}

	return nil
}

// contains checks if a string slice contains a specific value
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
