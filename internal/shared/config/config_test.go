package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  address: \":9090\"\n"), 0o600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "synapse", cfg.Database.Database)
	assert.False(t, cfg.Database.InMemory())
	assert.Equal(t, "", cfg.Redis.Address)
	assert.False(t, cfg.Webhook.RequireSignature)
	assert.Equal(t, int64(1<<20), cfg.Webhook.MaxBodyBytes)
	assert.Equal(t, 90*24*time.Hour, cfg.Webhook.LogRetention)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowOrigins)
}

func TestLoadFrom_FileValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
webhook:
  require_signature: true
  lock_wait: 2s
  log_retention: 720h
redis:
  address: "redis:6379"
admin:
  token: from-file
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.True(t, cfg.Webhook.RequireSignature)
	assert.Equal(t, 2*time.Second, cfg.Webhook.LockWait)
	assert.Equal(t, 720*time.Hour, cfg.Webhook.LogRetention)
	assert.Equal(t, "redis:6379", cfg.Redis.Address)
	assert.Equal(t, "from-file", cfg.Admin.Token)
}

func TestLoadFrom_SecretOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("admin:\n  token: from-file\n"), 0o600))

	t.Setenv("SYNAPSE_ADMIN_TOKEN", "from-env")
	t.Setenv("SYNAPSE_DB_PASSWORD", "s3cret")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Admin.Token)
	assert.Equal(t, "s3cret", cfg.Database.Password)
}

func TestLoadFrom_MissingExplicitFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "synapse", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=synapse sslmode=disable", cfg.DSN())
}

func TestLoadFrom_NestedEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: info\n"), 0o600))

	t.Setenv("SYNAPSE_DATABASE_DRIVER", "memory")
	t.Setenv("SYNAPSE_WEBHOOK_REQUIRE_SIGNATURE", "true")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.True(t, cfg.Database.InMemory())
	assert.True(t, cfg.Webhook.RequireSignature)
}
