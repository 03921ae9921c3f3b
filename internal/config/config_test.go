package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	def := Default()
	require.NoError(t, def.ApplyEnv(os.LookupEnv))
	assert.Equal(t, def, cfg)
}

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()
	content := `
data_dir: /var/lib/freshstart
table_prefix: wp_goob_
log_format: json
options:
  backend: redis
  redis:
    addr: redis:6379
    db: 2
server:
  admin_port: 9000
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFile), []byte(content), 0644))

	t.Setenv("FRESHSTART_TABLE_PREFIX", "wp_goob_")
	cfg, err := LoadFromDir(dir)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/freshstart", cfg.DataDir)
	assert.Equal(t, "wp_goob_", cfg.TablePrefix)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, BackendRedis, cfg.Options.Backend)
	assert.Equal(t, "redis:6379", cfg.Options.Redis.Addr)
	assert.Equal(t, 2, cfg.Options.Redis.DB)
	// unset fields keep their defaults
	assert.Equal(t, "freshstart", cfg.Options.Redis.Namespace)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 9000, cfg.Server.AdminPort)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "options: [unclosed"},
		{"unknown backend", "options:\n  backend: memcached\n"},
		{"unknown log format", "log_format: xml\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), DefaultFile)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"FRESHSTART_VERBOSE":      "true",
		"FRESHSTART_TABLE_PREFIX": "site2_",
		"FRESHSTART_REDIS_ADDR":   "10.0.0.5:6379",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(lookup))
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "site2_", cfg.TablePrefix)
	assert.Equal(t, "10.0.0.5:6379", cfg.Options.Redis.Addr)

	env["FRESHSTART_VERBOSE"] = "sometimes"
	assert.Error(t, cfg.ApplyEnv(lookup))

	cfg = Default()
	require.NoError(t, cfg.ApplyEnv(noEnv))
	assert.Equal(t, Default(), cfg)
}

func TestMergeNil(t *testing.T) {
	cfg := Default()
	cfg.Merge(nil)
	assert.Equal(t, Default(), cfg)
}
