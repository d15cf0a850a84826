package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/pipewright/pkg/persistence/middleware"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment overrides, e.g. PIPEWRIGHT_STORE_BACKEND.
const EnvPrefix = "PIPEWRIGHT"

// Config is the process configuration shared by the CLI, HTTP and MCP servers.
type Config struct {
	Store   StoreConfig   `mapstructure:"store"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// StoreConfig selects and configures the document store.
type StoreConfig struct {
	// Backend is one of memory, file, redis or sqlite.
	Backend string      `mapstructure:"backend"`
	Dir     string      `mapstructure:"dir"`
	SQLite  string      `mapstructure:"sqlite_path"`
	Redis   RedisConfig `mapstructure:"redis"`
	// LockTTL bounds distributed publish locks (redis backend only).
	LockTTL    time.Duration    `mapstructure:"lock_ttl"`
	Encryption EncryptionConfig `mapstructure:"encryption"`
}

// EncryptionConfig enables AES-256 sealing of stored documents. Keys are
// base64 encoded. An empty Key disables encryption.
type EncryptionConfig struct {
	Key          string   `mapstructure:"key"`
	FallbackKeys []string `mapstructure:"fallback_keys"`
}

// Enabled reports whether documents are encrypted at rest.
func (e EncryptionConfig) Enabled() bool {
	return e.Key != ""
}

// Keys decodes the active and fallback keys.
func (e EncryptionConfig) Keys() ([]byte, [][]byte, error) {
	active, err := middleware.ParseKey(e.Key)
	if err != nil {
		return nil, nil, fmt.Errorf("store.encryption.key: %w", err)
	}
	var fallback [][]byte
	for i, k := range e.FallbackKeys {
		key, err := middleware.ParseKey(k)
		if err != nil {
			return nil, nil, fmt.Errorf("store.encryption.fallback_keys[%d]: %w", i, err)
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LoggingConfig configures the slog logger.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: "file",
			Dir:     filepath.Join(".pipewright", "documents"),
			SQLite:  filepath.Join(".pipewright", "pipewright.db"),
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "pipewright:document:",
			},
			LockTTL: 30 * time.Second,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// SetDefaults registers Default() values on v.
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("store.backend", defaults.Store.Backend)
	v.SetDefault("store.dir", defaults.Store.Dir)
	v.SetDefault("store.sqlite_path", defaults.Store.SQLite)
	v.SetDefault("store.lock_ttl", defaults.Store.LockTTL)
	v.SetDefault("store.redis.addr", defaults.Store.Redis.Addr)
	v.SetDefault("store.redis.password", defaults.Store.Redis.Password)
	v.SetDefault("store.redis.db", defaults.Store.Redis.DB)
	v.SetDefault("store.redis.prefix", defaults.Store.Redis.Prefix)
	v.SetDefault("store.redis.ttl", defaults.Store.Redis.TTL)
	v.SetDefault("store.encryption.key", defaults.Store.Encryption.Key)
	v.SetDefault("store.encryption.fallback_keys", defaults.Store.Encryption.FallbackKeys)

	v.SetDefault("server.addr", defaults.Server.Addr)

	v.SetDefault("logging.level", defaults.Logging.Level)
}

// Init prepares v: defaults, config file lookup and PIPEWRIGHT_* environment overrides.
// A missing config file is not an error.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("pipewright")
		v.SetConfigType("yaml")
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	// PIPEWRIGHT_STORE_REDIS_ADDR for store.redis.addr
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && cfgFile == "" {
			return nil
		}
		return err
	}
	return nil
}

// Load reads the configuration from v into a Config struct and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the path to the user's config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pipewright")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pipewright"
	}
	return filepath.Join(home, ".config", "pipewright")
}
