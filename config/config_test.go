package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FUNPASS_DB_DRIVER", "")
	t.Setenv("FUNPASS_DB_URL", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "funpass.db", cfg.Database.URL)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "funpass.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  driver: postgres
  url: postgres://localhost/funpass
log:
  level: debug
`), 0o600))
	t.Setenv("FUNPASS_HTTP_ADDR", ":9090")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/funpass", cfg.Database.URL)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, level)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Database.Driver = "mysql"
	cfg.Database.URL = ""
	cfg.Log.Level = "loud"

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
	assert.Contains(t, err.Error(), "database url is required")
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	env := map[string]string{
		"FUNPASS_DB_URL":  "/var/lib/funpass/funpass.db",
		"JAEGER_ENDPOINT": "http://jaeger:14268/api/traces",
	}

	cfg.ApplyEnv(func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	})

	assert.Equal(t, "/var/lib/funpass/funpass.db", cfg.Database.URL)
	assert.Equal(t, "http://jaeger:14268/api/traces", cfg.Tracing.JaegerEndpoint)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
}
