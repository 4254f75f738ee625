package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
api:
  port: "9090"
  environment: test
  jwt_signing_key: secret
  allowed_cors_domains:
    - http://localhost:5173
postgres:
  driver: sqlite
  sqlite_path: test.db
ledger:
  lock_timeout: 2s
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	conf, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, "9090", conf.API.Port)
	assert.Equal(t, "test", conf.API.Environment)
	assert.Equal(t, []string{"http://localhost:5173"}, conf.API.AllowedCORSDomains)
	assert.Equal(t, "sqlite", conf.Postgres.Driver)
	assert.Equal(t, 2*time.Second, conf.Ledger.LockTimeout)

	// defaults
	assert.Equal(t, 5, conf.Ledger.CodeAttempts)
	assert.Equal(t, "debug", conf.Gin.Mode)
	assert.Equal(t, 24*time.Hour, conf.API.JWTExpiration)
	assert.False(t, conf.Redis.Enabled())
	assert.False(t, conf.RabbitMQ.Enabled())
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("MINTLY_API_PORT", "7070")
	t.Setenv("MINTLY_LEDGER_CODE_ATTEMPTS", "9")

	conf, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, "7070", conf.API.Port)
	assert.Equal(t, 9, conf.Ledger.CodeAttempts)
}

func TestLoad_MissingSigningKey(t *testing.T) {
	_, err := Load(writeConfig(t, "api:\n  port: \"8080\"\n"))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestPostgresConfig_DSN(t *testing.T) {
	c := &PostgresConfig{Host: "db", Port: "5432", User: "u", Password: "p", DB: "mintly"}
	assert.Equal(t, "host=db user=u password=p dbname=mintly port=5432 sslmode=disable", c.DSN())
}
