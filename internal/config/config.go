package config

import "time"

// ProviderConfig supplies the tunable policy values for the provider core:
// expiry deltas for codes and tokens, generated identifier lengths, and the
// sandbox user. Passed explicitly into constructors at startup; nothing in
// the module reads ambient global state.
type ProviderConfig interface {
	GetCodeExpiryDelta() time.Duration
	GetTokenExpiryDelta() time.Duration
	GetPublicTokenExpiryDelta() time.Duration
	GetShortTokenLength() int
	GetLongTokenLength() int
	GetSandboxUserID() string
}

// Provider is the default ProviderConfig implementation.
type Provider struct{}

var _ ProviderConfig = Provider{}

// GetCodeExpiryDelta returns the lifetime of an authorization code.
func (Provider) GetCodeExpiryDelta() time.Duration {
	return 10 * time.Minute
}

// GetTokenExpiryDelta returns the access token lifetime for confidential
// clients.
func (Provider) GetTokenExpiryDelta() time.Duration {
	return 365 * 24 * time.Hour
}

// GetPublicTokenExpiryDelta returns the access token lifetime for public
// clients.
func (Provider) GetPublicTokenExpiryDelta() time.Duration {
	return 30 * 24 * time.Hour
}

func (Provider) GetShortTokenLength() int {
	return 20 // hex characters, used for client IDs
}

func (Provider) GetLongTokenLength() int {
	return 32 // hex characters, used for secrets, codes and tokens
}

func (Provider) GetSandboxUserID() string {
	return ""
}
