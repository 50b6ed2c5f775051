package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestRead_FileAndDefaults(t *testing.T) {
	p := writeYAML(t, `
app:
  env: production
  http:
    port: 9090
jwt:
  secret: s3cret
db:
  driver: memory
`)
	c, err := Read(p)
	require.NoError(t, err)

	assert.Equal(t, 9090, c.App.HTTP.Port)
	assert.True(t, c.App.IsProduction())
	assert.Equal(t, "s3cret", c.JWT.Secret)
	assert.Equal(t, "memory", c.DB.Driver)
	assert.Equal(t, 48, c.JWT.TTLHours)
	assert.Equal(t, "gistsync.sh", c.Gist.MarkerFile)
	assert.Equal(t, "http://localhost:3000", c.App.CORSOrigin)
	assert.Equal(t, "1ee370d1-2ef3-4c0e-b0f3-6ffccc697dd0", c.Demo.UserID)
	assert.EqualValues(t, 300, c.App.HTTP.MaxInFlight)
}

func TestRead_EnvOverrides(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "from-env")
	t.Setenv("APP_GIST_TIMEOUT_SEC", "2")
	t.Setenv("APP_URL", "https://gistsync.example")

	c, err := Read(writeYAML(t, "jwt:\n  secret: from-file\n"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.JWT.Secret)
	assert.Equal(t, 2, c.Gist.TimeoutSec)
	assert.Equal(t, "https://gistsync.example", c.App.CORSOrigin)
}

func TestRead_LegacyJWTKey(t *testing.T) {
	t.Setenv("JWT_KEY", "legacy")
	c, err := Read(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "legacy", c.JWT.Secret)
}

func TestRead_RequiresSecret(t *testing.T) {
	_, err := Read(writeYAML(t, "app:\n  name: x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret")
}

func TestRead_BadYAML(t *testing.T) {
	_, err := Read(writeYAML(t, "app: [unclosed"))
	require.Error(t, err)
}
