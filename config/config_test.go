package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allstake/payrecon/config"
)

func setFullEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_NAME", "staging")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "recon")
	t.Setenv("DB_PWD", "secret")
	t.Setenv("INSPECT_FROM", "2025-03-01")
	t.Setenv("INSPECT_TO", "2025-03-31")
	t.Setenv("PAYSHEET_DIR", "/data/paysheets")
	t.Setenv("SNAPSHOT_DIR", "/data/snapshots")
}

func TestLoad_FullEnvironment(t *testing.T) {
	setFullEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.DBName)
	assert.Equal(t, "/data/paysheets", cfg.PaysheetDir)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), cfg.InspectFrom)
	assert.Equal(t, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), cfg.InspectTo)

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "dbname=staging")
	assert.Contains(t, dsn, "host=db.internal")
	assert.Contains(t, dsn, "port=5433")
	assert.Contains(t, dsn, "sslmode=disable")
}

func TestLoad_MissingRequiredVarsAllNamed(t *testing.T) {
	setFullEnv(t)
	t.Setenv("DB_NAME", "")
	t.Setenv("INSPECT_TO", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_NAME")
	assert.Contains(t, err.Error(), "INSPECT_TO")
	assert.False(t, strings.Contains(err.Error(), "DB_USER"))
}

func TestLoad_InvertedWindowRejected(t *testing.T) {
	setFullEnv(t)
	t.Setenv("INSPECT_FROM", "2025-04-01")
	t.Setenv("INSPECT_TO", "2025-03-01")

	_, err := config.Load()
	require.Error(t, err)
}

func TestLoad_BadDateRejected(t *testing.T) {
	setFullEnv(t)
	t.Setenv("INSPECT_FROM", "March 1st")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INSPECT_FROM")
}
