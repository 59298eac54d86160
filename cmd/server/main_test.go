package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrapReportsConfigError(t *testing.T) {
	t.Setenv("ENV_PATH", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("PRESENCE_TTL", "soon")

	cfg, log, err := bootstrap()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get config")
	assert.Nil(t, cfg)
	assert.Nil(t, log)
}

func TestBootstrap(t *testing.T) {
	t.Setenv("ENV_PATH", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("APP_ENV", "dev")

	cfg, log, err := bootstrap()
	require.NoError(t, err)
	require.NotNil(t, log)
	assert.Equal(t, "dev", cfg.AppEnv)
}
