package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the current directory when no path is given.
const DefaultFile = "freshstart.yaml"

// Config represents the application configuration.
type Config struct {
	DataDir     string        `yaml:"data_dir"`
	TablePrefix string        `yaml:"table_prefix"`
	Verbose     bool          `yaml:"verbose"`
	LogFormat   string        `yaml:"log_format"`
	Options     OptionsConfig `yaml:"options"`
	Server      ServerConfig  `yaml:"server"`
}

// OptionsConfig selects where persisted options live.
type OptionsConfig struct {
	Backend string      `yaml:"backend"` // sqlite | redis
	Redis   RedisConfig `yaml:"redis"`
}

// RedisConfig holds connection settings for the redis option backend.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	Namespace string `yaml:"namespace"`
}

// ServerConfig holds the listen ports for `app serve`.
type ServerConfig struct {
	Port      int `yaml:"port"`
	AdminPort int `yaml:"admin_port"`
}

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		DataDir:     ".",
		TablePrefix: "goob_",
		LogFormat:   "text",
		Options: OptionsConfig{
			Backend: BackendSQLite,
			Redis: RedisConfig{
				Addr:      "127.0.0.1:6379",
				Namespace: "freshstart",
			},
		},
		Server: ServerConfig{
			Port:      8080,
			AdminPort: 8383,
		},
	}
}

// Load reads configuration from file, falling back to defaults, then applies
// environment overrides. If configPath is empty, freshstart.yaml in the
// current directory is used. A missing file is not an error.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath == "" {
		configPath = DefaultFile
	}

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// no config file, use defaults
	case err != nil:
		return nil, err
	default:
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", configPath, err)
		}
		cfg.Merge(&fileCfg)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromDir loads configuration from the specified directory.
func LoadFromDir(dir string) (*Config, error) {
	return Load(filepath.Join(dir, DefaultFile))
}

// Merge combines another config into this one, with other taking precedence
// for every non-zero field.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.DataDir != "" {
		c.DataDir = other.DataDir
	}
	if other.TablePrefix != "" {
		c.TablePrefix = other.TablePrefix
	}
	if other.Verbose {
		c.Verbose = true
	}
	if other.LogFormat != "" {
		c.LogFormat = other.LogFormat
	}
	if other.Options.Backend != "" {
		c.Options.Backend = other.Options.Backend
	}
	if other.Options.Redis.Addr != "" {
		c.Options.Redis.Addr = other.Options.Redis.Addr
	}
	if other.Options.Redis.Password != "" {
		c.Options.Redis.Password = other.Options.Redis.Password
	}
	if other.Options.Redis.DB != 0 {
		c.Options.Redis.DB = other.Options.Redis.DB
	}
	if other.Options.Redis.Namespace != "" {
		c.Options.Redis.Namespace = other.Options.Redis.Namespace
	}
	if other.Server.Port != 0 {
		c.Server.Port = other.Server.Port
	}
	if other.Server.AdminPort != 0 {
		c.Server.AdminPort = other.Server.AdminPort
	}
}

// ApplyEnv applies FRESHSTART_* overrides using lookup (normally os.LookupEnv).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("FRESHSTART_VERBOSE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("FRESHSTART_VERBOSE: %w", err)
		}
		c.Verbose = b
	}
	if v, ok := lookup("FRESHSTART_TABLE_PREFIX"); ok {
		c.TablePrefix = v
	}
	if v, ok := lookup("FRESHSTART_REDIS_ADDR"); ok && v != "" {
		c.Options.Redis.Addr = v
	}
	return nil
}

// Validate checks for values the rest of the application cannot work with.
func (c *Config) Validate() error {
	switch c.Options.Backend {
	case BackendSQLite, BackendRedis:
	default:
		return fmt.Errorf("unknown options backend %q", c.Options.Backend)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}
