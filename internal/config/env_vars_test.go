package config_test

import (
	"testing"
	"time"

	"github.com/e3nupj2j1/Django-Oauth2-Provider/internal/config"
	"github.com/stretchr/testify/require"
)

func TestEnvVarsFallsBackToDefaults(t *testing.T) {
	cfg := config.EnvVars{}
	require.Equal(t, 10*time.Minute, cfg.GetCodeExpiryDelta())
	require.Equal(t, 365*24*time.Hour, cfg.GetTokenExpiryDelta())
	require.Equal(t, 30*24*time.Hour, cfg.GetPublicTokenExpiryDelta())
	require.Equal(t, 20, cfg.GetShortTokenLength())
	require.Equal(t, 32, cfg.GetLongTokenLength())
	require.Empty(t, cfg.GetSandboxUserID())
}

func TestEnvVarsOverrides(t *testing.T) {
	t.Setenv("OAUTH_CODE_EXPIRY_SECONDS", "120")
	t.Setenv("OAUTH_LONG_TOKEN_LENGTH", "64")
	t.Setenv("OAUTH_SANDBOX_USER_ID", "sandbox-1")

	cfg := config.EnvVars{}
	require.Equal(t, 2*time.Minute, cfg.GetCodeExpiryDelta())
	require.Equal(t, 64, cfg.GetLongTokenLength())
	require.Equal(t, "sandbox-1", cfg.GetSandboxUserID())
}

func TestEnvVarsIgnoresMalformedValues(t *testing.T) {
	t.Setenv("OAUTH_TOKEN_EXPIRY_SECONDS", "not-a-number")
	t.Setenv("OAUTH_SHORT_TOKEN_LENGTH", "")

	cfg := config.EnvVars{}
	require.Equal(t, 365*24*time.Hour, cfg.GetTokenExpiryDelta())
	require.Equal(t, 20, cfg.GetShortTokenLength())
}
