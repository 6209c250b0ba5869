// Package config handles application configuration management.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	// Base directory for all SQLGram data ($XDG_DATA_HOME/sqlgram)
	BaseDir string

	// Embedded SQL engine settings
	Engine EngineConfig

	// MCP server settings
	MCP MCPConfig
}

// EngineConfig holds settings for the in-memory SQL engine.
type EngineConfig struct {
	// QueryTimeout bounds a single playground or grading execution (0 disables)
	QueryTimeout time.Duration
	// Debug enables GORM statement logging
	Debug bool
}

// MCPConfig holds settings for the sqlgram-mcp server.
type MCPConfig struct {
	// QueriesPerSecond throttles tools that execute SQL
	QueriesPerSecond float64
	// Burst is the number of queries allowed above the steady rate
	Burst int
}

// Load reads configuration from the environment and an optional config.yaml
// in the base directory. Environment variables use the SQLGRAM_ prefix with
// dots replaced by underscores (SQLGRAM_ENGINE_QUERY_TIMEOUT).
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if home := os.Getenv("SQLGRAM_HOME"); home != "" {
		cfg.BaseDir = home
	}

	v := viper.New()
	setDefaults(v, cfg)

	v.SetEnvPrefix("SQLGRAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(cfg.BaseDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg.Engine = EngineConfig{
		QueryTimeout: v.GetDuration("engine.query_timeout"),
		Debug:        v.GetBool("engine.debug"),
	}
	cfg.MCP = MCPConfig{
		QueriesPerSecond: v.GetFloat64("mcp.queries_per_second"),
		Burst:            v.GetInt("mcp.burst"),
	}

	// Ensure directories exist
	if err := ensureDirectories(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults seeds viper with the values from DefaultConfig.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("engine.query_timeout", cfg.Engine.QueryTimeout)
	v.SetDefault("engine.debug", cfg.Engine.Debug)
	v.SetDefault("mcp.queries_per_second", cfg.MCP.QueriesPerSecond)
	v.SetDefault("mcp.burst", cfg.MCP.Burst)
}

// ensureDirectories creates required directories if they don't exist.
func ensureDirectories(cfg *Config) error {
	if err := os.MkdirAll(cfg.BaseDir, 0755); err != nil {
		return fmt.Errorf("create base directory: %w", err)
	}
	return nil
}
