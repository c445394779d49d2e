// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"tolltariff/internal/errors"
	"tolltariff/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version" yaml:"version"`

	// Data contains data directory and store settings
	Data DataConfig `json:"data" yaml:"data"`

	// Directory contains country-group directory sources
	Directory DirectoryConfig `json:"directory" yaml:"directory"`

	// Server contains HTTP API settings
	Server ServerConfig `json:"server" yaml:"server"`

	// Output contains output configuration
	Output OutputConfig `json:"output" yaml:"output"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" yaml:"logging"`
}

// DataConfig contains storage settings
type DataConfig struct {
	// Dir holds raw downloads, override files and the SQLite database
	Dir string `json:"dir" yaml:"dir"`

	// Driver is the store backend (sqlite, postgres, memory)
	Driver string `json:"driver" yaml:"driver"`

	// DatabaseURL is the SQLite path or the Postgres connection string
	DatabaseURL string `json:"database_url" yaml:"database_url"`

	// FTAIndex is the per-commodity trade agreement index file
	FTAIndex string `json:"fta_index" yaml:"fta_index"`
}

// DirectoryConfig contains directory source files
type DirectoryConfig struct {
	// LandgroupsMap is the JSON group override file
	LandgroupsMap string `json:"landgroups_map" yaml:"landgroups_map"`

	// CountryNames is the JSON ISO-2 to name file
	CountryNames string `json:"country_names" yaml:"country_names"`

	// GroupsHCL is an optional hand-maintained HCL group file
	GroupsHCL string `json:"groups_hcl,omitempty" yaml:"groups_hcl,omitempty"`

	// ReloadSchedule is a cron schedule for re-reading the files; empty disables
	ReloadSchedule string `json:"reload_schedule,omitempty" yaml:"reload_schedule,omitempty"`
}

// ServerConfig contains HTTP API settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr" yaml:"addr"`

	// UIDir is a static frontend directory served at /ui when present
	UIDir string `json:"ui_dir,omitempty" yaml:"ui_dir,omitempty"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format (text, json)
	DefaultFormat string `json:"default_format" yaml:"default_format"`
}

// Default returns a default configuration
func Default() *Config {
	return defaultFor("data")
}

func defaultFor(dataDir string) *Config {
	return &Config{
		Version: "1.0",
		Data: DataConfig{
			Dir:         dataDir,
			Driver:      "sqlite",
			DatabaseURL: filepath.Join(dataDir, "tolltariff.db"),
			FTAIndex:    filepath.Join(dataDir, "ratetradeagreements_index.json"),
		},
		Directory: DirectoryConfig{
			LandgroupsMap: filepath.Join(dataDir, "landgroups_map.json"),
			CountryNames:  filepath.Join(dataDir, "country_names.json"),
		},
		Server: ServerConfig{
			Addr: ":8000",
		},
		Output: OutputConfig{
			DefaultFormat: "text",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a JSON or YAML file
func Load(path string) (*Config, error) {
	config := Default()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, errors.Config("failed to read config", err).WithContext("path", path)
	}

	if isYAML(path) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, errors.Parsing("invalid config file", err).WithContext("path", path)
	}

	return config, nil
}

// Save saves configuration to a file; the extension selects YAML or JSON
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Config("failed to create config directory", err)
	}

	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return errors.Internal("failed to encode config", err)
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyEnv loads .env when present and overlays environment variables
func (c *Config) ApplyEnv() {
	_ = godotenv.Load()

	if dir := os.Getenv("TOLLTARIFF_DATA_DIR"); dir != "" && dir != c.Data.Dir {
		c.rebase(dir)
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		c.Data.DatabaseURL = url
		if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
			c.Data.Driver = "postgres"
		}
	}
	if addr := os.Getenv("TOLLTARIFF_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if lvl := os.Getenv("TOLLTARIFF_LOG_LEVEL"); lvl != "" {
		c.Logging.Level = lvl
	}
}

// rebase moves every path still under the old data dir to dir
func (c *Config) rebase(dir string) {
	old := c.Data.Dir
	move := func(p *string) {
		if rel, err := filepath.Rel(old, *p); err == nil && !strings.HasPrefix(rel, "..") {
			*p = filepath.Join(dir, rel)
		}
	}
	if c.Data.Driver == "sqlite" {
		move(&c.Data.DatabaseURL)
	}
	move(&c.Data.FTAIndex)
	move(&c.Directory.LandgroupsMap)
	move(&c.Directory.CountryNames)
	if c.Directory.GroupsHCL != "" {
		move(&c.Directory.GroupsHCL)
	}
	c.Data.Dir = dir
}

// RawDir is where downloaded source files are kept
func (c *Config) RawDir() string {
	return filepath.Join(c.Data.Dir, "raw")
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
