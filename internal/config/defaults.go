package config

import "time"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseDir: DefaultBaseDir(),

		Engine: EngineConfig{
			QueryTimeout: 5 * time.Second,
			Debug:        false,
		},

		MCP: MCPConfig{
			QueriesPerSecond: 5,
			Burst:            10,
		},
	}
}
