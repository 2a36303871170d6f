// Package config provides configuration management for zoonet.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var AppVersion = "-unset-" // will be set at build time

const (
	// DefaultPageSize is the number of posts per feed page
	DefaultPageSize = 10

	// DefaultFeedCacheEntries bounds the feed response cache
	DefaultFeedCacheEntries = 1024
	// DefaultFeedCacheExpiry is the cache TTL backstop in minutes
	DefaultFeedCacheExpiry = 5
)

// MainConfig holds the main configuration for zoonet
type MainConfig struct {
	// Database settings
	Database DatabaseConfig `json:"database"`

	// Web interface settings
	Web WebConfig `json:"web"`

	AppVersion string `json:"app_version"` // Application version, set at build time
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	DBPath string `json:"db_path"` // Path to the sqlite database file
}

// WebConfig holds web interface configuration
type WebConfig struct {
	ListenPort  int    `json:"listen_port"`
	SSL         bool   `json:"ssl"`
	CertFile    string `json:"cert_file,omitempty"`
	KeyFile     string `json:"key_file,omitempty"`
	TemplateDir string `json:"template_dir"`
	UploadsDir  string `json:"uploads_dir"` // Directory for post images
	PageSize    int    `json:"page_size"`
	Debug       bool   `json:"debug"` // Enable debug logging for sessions/auth
}

// NewDefaultConfig returns a config with built-in defaults applied
func NewDefaultConfig() *MainConfig {
	return &MainConfig{
		Database: DatabaseConfig{
			DBPath: "./data/zoonet.db3",
		},
		Web: WebConfig{
			ListenPort:  8080,
			TemplateDir: "./web/templates",
			UploadsDir:  "./data/uploads",
			PageSize:    DefaultPageSize,
		},
		AppVersion: AppVersion,
	}
}

// LoadFromEnv overlays environment variables onto the config.
// A .env file next to the binary is loaded first if present.
func (cfg *MainConfig) LoadFromEnv() {
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded environment from .env file")
	}

	if v := os.Getenv("ZOONET_DB_PATH"); v != "" {
		cfg.Database.DBPath = v
	}
	if v := os.Getenv("ZOONET_LISTEN_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			cfg.Web.ListenPort = port
		} else {
			log.Printf("Ignoring invalid ZOONET_LISTEN_PORT=%q", v)
		}
	}
	if v := os.Getenv("ZOONET_TEMPLATE_DIR"); v != "" {
		cfg.Web.TemplateDir = v
	}
	if v := os.Getenv("ZOONET_UPLOADS_DIR"); v != "" {
		cfg.Web.UploadsDir = v
	}
	if v := os.Getenv("ZOONET_SSL_CERT"); v != "" {
		cfg.Web.CertFile = v
		cfg.Web.SSL = true
	}
	if v := os.Getenv("ZOONET_SSL_KEY"); v != "" {
		cfg.Web.KeyFile = v
	}
	if v := os.Getenv("ZOONET_DEBUG"); v == "1" || v == "true" {
		cfg.Web.Debug = true
	}
}
