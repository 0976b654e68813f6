// Package grants holds authorization grants: short-lived, single-use codes
// that bind a user, client, redirect URI, and scope, and are swapped for an
// access token / refresh token pair (RFC 6749 section 4.1.2).
package grants

import (
	"time"

	"github.com/e3nupj2j1/Django-Oauth2-Provider/scope"
)

// Grant is an issued authorization code. It is consumed exactly once on
// exchange or swept after expiry; there is no other state.
type Grant struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	ClientID    string      `json:"clientId"` // Client identifier (natural key)
	Code        string      `json:"code"`     // Unique long token, single use
	Expires     time.Time   `json:"expires"`
	RedirectURI string      `json:"redirectUri"`
	Scope       scope.Scope `json:"scope"`
}

// IsExpired reports whether the grant can no longer be exchanged at the
// given reference time.
func (g *Grant) IsExpired(reference time.Time) bool {
	return !reference.UTC().Before(g.Expires.UTC())
}
