package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Default values
	DefaultPort          = 8080
	DefaultHost          = "127.0.0.1"
	DefaultLogLevel      = "info"
	DefaultMaxUploadSize = 50 * 1024 * 1024 // 50MB
	DefaultClubName      = "Mon Club"

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the match-sheet server.
type Config struct {
	// Server configuration
	Host string
	Port int

	// Storage configuration
	DataDir      string // root of the blob store (templates, generated PDFs)
	DatabasePath string // SQLite file for records and mappings

	// Classification service (mapping proposals)
	ClassifierURL     string
	ClassifierAPIKey  string
	ClassifierTimeout time.Duration

	// Application configuration
	ClubName      string
	LogLevel      string
	MaxUploadSize int64
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}
	return &Config{
		Host:              DefaultHost,
		Port:              DefaultPort,
		DataDir:           filepath.Join(currentDir, "data"),
		DatabasePath:      filepath.Join(currentDir, "data", "matchsheet.db"),
		ClassifierURL:     "",
		ClassifierTimeout: 60 * time.Second,
		ClubName:          DefaultClubName,
		LogLevel:          DefaultLogLevel,
		MaxUploadSize:     DefaultMaxUploadSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration.
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()

	pflag.Parse()

	populateConfigFromViper(cfg)

	if cfg.DataDir != "" {
		if expandedPath, err := filepath.Abs(cfg.DataDir); err == nil {
			cfg.DataDir = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults.
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("MATCHSHEET")
	viper.AutomaticEnv()

	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("datadir", cfg.DataDir)
	viper.SetDefault("db", cfg.DatabasePath)
	viper.SetDefault("classifierurl", cfg.ClassifierURL)
	viper.SetDefault("classifierkey", cfg.ClassifierAPIKey)
	viper.SetDefault("classifiertimeout", cfg.ClassifierTimeout)
	viper.SetDefault("clubname", cfg.ClubName)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxuploadsize", cfg.MaxUploadSize)
}

// defineCommandLineFlags sets up all command line flags.
func defineCommandLineFlags(cfg *Config) {
	pflag.String("host", cfg.Host, "Server host address")
	pflag.Int("port", cfg.Port, "Server port")
	pflag.String("datadir", cfg.DataDir, "Directory for stored templates and generated PDFs")
	pflag.String("db", cfg.DatabasePath, "Path to the SQLite database file")
	pflag.String("classifierurl", cfg.ClassifierURL, "Base URL of the field classification service")
	pflag.String("classifierkey", cfg.ClassifierAPIKey, "API key for the classification service")
	pflag.Duration("classifiertimeout", cfg.ClassifierTimeout, "Timeout for classification calls")
	pflag.String("clubname", cfg.ClubName, "Club name written into generated sheets")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxuploadsize", cfg.MaxUploadSize, "Maximum template upload size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration.
func bindFlagsToViper() {
	for _, name := range []string{
		"host", "port", "datadir", "db", "classifierurl", "classifierkey",
		"classifiertimeout", "clubname", "loglevel", "maxuploadsize",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// populateConfigFromViper fills the config struct with values from viper.
func populateConfigFromViper(cfg *Config) {
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.DataDir = viper.GetString("datadir")
	cfg.DatabasePath = viper.GetString("db")
	cfg.ClassifierURL = viper.GetString("classifierurl")
	cfg.ClassifierAPIKey = viper.GetString("classifierkey")
	cfg.ClassifierTimeout = viper.GetDuration("classifiertimeout")
	cfg.ClubName = viper.GetString("clubname")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxUploadSize = viper.GetInt64("maxuploadsize")
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return errors.New("port must be between 1 and 65535")
	}
	if c.DataDir == "" {
		return errors.New("data directory cannot be empty")
	}
	if _, err := os.Stat(c.DataDir); os.IsNotExist(err) {
		if err := os.MkdirAll(c.DataDir, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create data directory %s: %w", c.DataDir, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access data directory %s: %w", c.DataDir, err)
	}
	if c.DatabasePath == "" {
		return errors.New("database path cannot be empty")
	}
	if c.MaxUploadSize <= 0 {
		return errors.New("maximum upload size must be positive")
	}
	if c.ClassifierTimeout <= 0 {
		return errors.New("classifier timeout must be positive")
	}
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}
	return nil
}
