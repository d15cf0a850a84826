package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 32 zero bytes, base64 encoded.
const testKey = "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA="

func TestDefault_IsValid(t *testing.T) {
	assert.Empty(t, Default().Validate())
}

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestInit_ConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipewright.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store:
  backend: redis
  redis:
    addr: redis.internal:6379
    ttl: 1h
server:
  addr: ":9090"
`), 0644))

	t.Setenv("PIPEWRIGHT_LOGGING_LEVEL", "debug")
	t.Setenv("PIPEWRIGHT_STORE_REDIS_DB", "2")

	v := viper.New()
	require.NoError(t, Init(v, path))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, "redis.internal:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, time.Hour, cfg.Store.Redis.TTL)
	assert.Equal(t, 2, cfg.Store.Redis.DB)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "pipewright:document:", cfg.Store.Redis.Prefix)
}

func TestInit_MissingExplicitFile(t *testing.T) {
	v := viper.New()
	err := Init(v, filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestInit_NoFileFound(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	v := viper.New()
	require.NoError(t, Init(v, ""))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "file", cfg.Store.Backend)
}

func TestLoad_Invalid(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("store.backend", "etcd")
	v.Set("logging.level", "loud")

	_, err := Load(v)
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
	assert.Contains(t, err.Error(), "2 validation errors")
	assert.Contains(t, err.Error(), "store.backend")
	assert.Contains(t, err.Error(), "logging.level")
}

func TestValidate_BackendRequirements(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(*Config)
		field string
	}{
		{"file without dir", func(c *Config) { c.Store.Dir = "" }, "store.dir"},
		{"sqlite without path", func(c *Config) { c.Store.Backend = "sqlite"; c.Store.SQLite = "" }, "store.sqlite_path"},
		{"redis without addr", func(c *Config) { c.Store.Backend = "redis"; c.Store.Redis.Addr = "" }, "store.redis.addr"},
		{"redis negative db", func(c *Config) { c.Store.Backend = "redis"; c.Store.Redis.DB = -1 }, "store.redis.db"},
		{"zero lock ttl", func(c *Config) { c.Store.LockTTL = 0 }, "store.lock_ttl"},
		{"empty server addr", func(c *Config) { c.Server.Addr = "" }, "server.addr"},
		{"short encryption key", func(c *Config) { c.Store.Encryption.Key = "c2hvcnQ=" }, "store.encryption"},
		{"fallback without key", func(c *Config) { c.Store.Encryption.FallbackKeys = []string{testKey} }, "store.encryption.fallback_keys"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mut(cfg)
			errs := cfg.Validate()
			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
		})
	}
}

func TestValidate_MemoryNeedsNothing(t *testing.T) {
	cfg := Default()
	cfg.Store.Backend = "memory"
	cfg.Store.Dir = ""
	assert.Empty(t, cfg.Validate())
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, filepath.Join("/custom/config", "pipewright"), ConfigDir())
}

func TestEncryptionKeys(t *testing.T) {
	enc := EncryptionConfig{}
	assert.False(t, enc.Enabled())

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())
	t.Setenv("PIPEWRIGHT_STORE_ENCRYPTION_KEY", testKey)
	v := viper.New()
	require.NoError(t, Init(v, ""))
	cfg, err := Load(v)
	require.NoError(t, err)
	require.True(t, cfg.Store.Encryption.Enabled())

	cfg.Store.Encryption.FallbackKeys = []string{testKey}
	active, fallback, err := cfg.Store.Encryption.Keys()
	require.NoError(t, err)
	assert.Len(t, active, 32)
	assert.Len(t, fallback, 1)

	cfg.Store.Encryption.FallbackKeys = []string{"nope"}
	_, _, err = cfg.Store.Encryption.Keys()
	assert.ErrorContains(t, err, "fallback_keys[0]")
}
