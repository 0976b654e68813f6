// Package token holds access tokens: time-limited bearer credentials bound
// to a user and client, per RFC 6749 section 5.
package token

import (
	"time"

	"github.com/e3nupj2j1/Django-Oauth2-Provider/scope"
)

// AccessToken is a bearer credential for a user's resources. Validity is a
// pure function of wall-clock time and the logout marker; revocation is soft
// (LoggedOut is set, the row is kept for audit).
type AccessToken struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	ClientID  string      `json:"clientId"` // Client identifier (natural key), not record ID
	Token     string      `json:"token"`    // Unique, indexed for lookup
	Expires   time.Time   `json:"expires"`
	Scope     scope.Scope `json:"scope"`
	LoggedOut *time.Time  `json:"loggedOut,omitempty"`
	DeviceID  *string     `json:"deviceId,omitempty"` // Multi-device session tracking
	Created   time.Time   `json:"created"`
	Modified  time.Time   `json:"modified"`
}

// IsValid reports whether the token can be accepted at the given reference
// time: not yet expired and not logged out.
func (t *AccessToken) IsValid(reference time.Time) bool {
	return reference.UTC().Before(t.Expires.UTC()) && t.LoggedOut == nil
}

// ExpireDelta returns the whole seconds until the token expires, truncated
// toward zero (negative once expired). Both timestamps are normalized to UTC
// before subtracting so values stored without zone information compare
// correctly against zone-aware references.
func (t *AccessToken) ExpireDelta(reference time.Time) int {
	return int(t.Expires.UTC().Sub(reference.UTC()) / time.Second)
}
