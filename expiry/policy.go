// Package expiry centralizes expiration computation for authorization codes
// and access tokens so TTL policy cannot diverge between entity types.
package expiry

import (
	"time"

	"github.com/e3nupj2j1/Django-Oauth2-Provider/internal/config"
)

// Policy computes expiry timestamps from a single injectable time source.
// All returned timestamps are in UTC to avoid ambiguous comparisons with
// values round-tripped through storage.
type Policy struct {
	codeDelta        time.Duration
	tokenDelta       time.Duration
	publicTokenDelta time.Duration
	nowFunc          func() time.Time
}

// PolicyOption modifies a Policy instance.
type PolicyOption func(*Policy)

// WithNowFunc sets the time source (primarily for testing).
func WithNowFunc(now func() time.Time) PolicyOption {
	return func(p *Policy) {
		p.nowFunc = now
	}
}

// NewPolicy returns a Policy using the deltas from cfg.
func NewPolicy(cfg config.ProviderConfig, options ...PolicyOption) *Policy {
	p := &Policy{
		codeDelta:        cfg.GetCodeExpiryDelta(),
		tokenDelta:       cfg.GetTokenExpiryDelta(),
		publicTokenDelta: cfg.GetPublicTokenExpiryDelta(),
		nowFunc:          time.Now,
	}

	for _, opt := range options {
		opt(p)
	}

	return p
}

// Now returns the policy's current time in UTC.
func (p *Policy) Now() time.Time {
	return p.nowFunc().UTC()
}

// CodeExpiry returns the expiration timestamp for a newly issued
// authorization code.
func (p *Policy) CodeExpiry() time.Time {
	return p.Now().Add(p.codeDelta)
}

// TokenExpiry returns the expiration timestamp for a newly issued access
// token. Public clients may be configured with a shorter lifetime than
// confidential clients.
func (p *Policy) TokenExpiry(public bool) time.Time {
	if public {
		return p.Now().Add(p.publicTokenDelta)
	}
	return p.Now().Add(p.tokenDelta)
}
