package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Paths contains commonly used file paths.
type Paths struct {
	Database string // SQLite database holding persisted progress and history
	Config   string // Optional config file
	Log      string // Log file
}

// GetPaths returns all commonly used paths based on config.
func GetPaths(cfg *Config) Paths {
	return Paths{
		Database: filepath.Join(cfg.BaseDir, "sqlgram.db"),
		Config:   filepath.Join(cfg.BaseDir, "config.yaml"),
		Log:      filepath.Join(cfg.BaseDir, "sqlgram.log"),
	}
}

// DefaultBaseDir returns the default base directory ($XDG_DATA_HOME/sqlgram).
func DefaultBaseDir() string {
	return filepath.Join(xdg.DataHome, "sqlgram")
}
