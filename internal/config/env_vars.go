package config

import (
	"os"
	"strconv"
	"time"
)

const (
	codeExpiryVar        = "OAUTH_CODE_EXPIRY_SECONDS"
	tokenExpiryVar       = "OAUTH_TOKEN_EXPIRY_SECONDS"
	publicTokenExpiryVar = "OAUTH_PUBLIC_TOKEN_EXPIRY_SECONDS"
	shortTokenLengthVar  = "OAUTH_SHORT_TOKEN_LENGTH"
	longTokenLengthVar   = "OAUTH_LONG_TOKEN_LENGTH"
	sandboxUserVar       = "OAUTH_SANDBOX_USER_ID"
)

// EnvVars is a ProviderConfig that reads overrides from the environment,
// falling back to the Provider defaults.
type EnvVars struct {
	defaults Provider
}

var _ ProviderConfig = EnvVars{}

func (e EnvVars) GetCodeExpiryDelta() time.Duration {
	return getEnvDuration(codeExpiryVar, e.defaults.GetCodeExpiryDelta())
}

func (e EnvVars) GetTokenExpiryDelta() time.Duration {
	return getEnvDuration(tokenExpiryVar, e.defaults.GetTokenExpiryDelta())
}

func (e EnvVars) GetPublicTokenExpiryDelta() time.Duration {
	return getEnvDuration(publicTokenExpiryVar, e.defaults.GetPublicTokenExpiryDelta())
}

func (e EnvVars) GetShortTokenLength() int {
	return getEnvInt(shortTokenLengthVar, e.defaults.GetShortTokenLength())
}

func (e EnvVars) GetLongTokenLength() int {
	return getEnvInt(longTokenLengthVar, e.defaults.GetLongTokenLength())
}

func (e EnvVars) GetSandboxUserID() string {
	return GetEnv(sandboxUserVar, e.defaults.GetSandboxUserID())
}

// GetEnv returns the value of envVar, or defaultValue if it is unset or empty.
func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(envVar string, defaultValue int) int {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvDuration(envVar string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return time.Duration(seconds) * time.Second
}
