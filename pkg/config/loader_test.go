package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadConfig_BaseOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", `
db:
  host: localhost
  port: 5432
server:
  port: ":8080"
`)

	cfg, err := LoadConfig("", dir)
	require.NoError(t, err)

	db, ok := cfg["db"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "localhost", db["host"])
	assert.Equal(t, 5432, db["port"])
}

func TestLoadConfig_EnvOverlayMergesDeep(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", `
db:
  host: localhost
  port: 5432
scheduler:
  interval: 1h
  catch_up: false
`)
	writeFile(t, dir, "production.yaml", `
db:
  host: db.internal
scheduler:
  catch_up: true
`)

	cfg, err := LoadConfig("production", dir)
	require.NoError(t, err)

	db := cfg["db"].(map[string]interface{})
	assert.Equal(t, "db.internal", db["host"])
	// Keys absent from the overlay survive from base.
	assert.Equal(t, 5432, db["port"])

	sched := cfg["scheduler"].(map[string]interface{})
	assert.Equal(t, true, sched["catch_up"])
	assert.Equal(t, "1h", sched["interval"])
}

func TestLoadConfig_MissingOverlayIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "server:\n  port: \":8080\"\n")

	cfg, err := LoadConfig("staging", dir)
	require.NoError(t, err)
	assert.NotNil(t, cfg["server"])
}

func TestLoadConfig_SecretsSubstitution(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", `
db:
  password: ${DB_PASSWORD}
jwt:
  secret: ${JWT_SECRET}
`)
	writeFile(t, dir, "secrets.env", `
# comment lines are skipped
DB_PASSWORD=s3cret
JWT_SECRET="quoted-secret"
`)

	cfg, err := LoadConfig("", dir)
	require.NoError(t, err)

	db := cfg["db"].(map[string]interface{})
	assert.Equal(t, "s3cret", db["password"])

	jwt := cfg["jwt"].(map[string]interface{})
	assert.Equal(t, "quoted-secret", jwt["secret"])
}

func TestLoadConfig_MissingBaseFails(t *testing.T) {
	_, err := LoadConfig("", t.TempDir())
	assert.Error(t, err)
}

func TestOverrideSchedulerFromEnv(t *testing.T) {
	cfg := SchedulerConfig{}
	t.Setenv("SCHEDULER_INTERVAL", "30m")
	t.Setenv("SCHEDULER_CATCH_UP", "true")

	OverrideSchedulerFromEnv(&cfg)
	assert.Equal(t, "30m0s", cfg.Interval.String())
	assert.True(t, cfg.CatchUp)
}
