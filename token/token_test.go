package token_test

import (
	"testing"
	"time"

	"github.com/e3nupj2j1/Django-Oauth2-Provider/internal/utils"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/token"
	"github.com/stretchr/testify/require"
)

func TestIsValid(t *testing.T) {
	expires := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	accessToken := &token.AccessToken{Expires: expires}

	require.True(t, accessToken.IsValid(expires.Add(-time.Second)))
	require.False(t, accessToken.IsValid(expires), "a token is invalid at its exact expiry instant")
	require.False(t, accessToken.IsValid(expires.Add(time.Hour)))
}

func TestIsValidAfterLogout(t *testing.T) {
	expires := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	accessToken := &token.AccessToken{
		Expires:   expires,
		LoggedOut: utils.Ptr(expires.Add(-time.Hour)),
	}

	// Logout invalidates regardless of expiry.
	require.False(t, accessToken.IsValid(expires.Add(-30*time.Minute)))
}

func TestExpireDelta(t *testing.T) {
	expires := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	accessToken := &token.AccessToken{Expires: expires}

	require.Equal(t, 3600, accessToken.ExpireDelta(expires.Add(-time.Hour)))
	require.Equal(t, 0, accessToken.ExpireDelta(expires))
	require.Equal(t, -60, accessToken.ExpireDelta(expires.Add(time.Minute)))
}

func TestExpireDeltaTruncatesTowardZero(t *testing.T) {
	expires := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	accessToken := &token.AccessToken{Expires: expires}

	require.Equal(t, 1, accessToken.ExpireDelta(expires.Add(-1500*time.Millisecond)))
	require.Equal(t, -1, accessToken.ExpireDelta(expires.Add(1500*time.Millisecond)))
}

func TestExpireDeltaMixedZones(t *testing.T) {
	// Same instant represented in UTC and in a fixed offset zone; the delta
	// must match the all-UTC computation with the correct sign.
	utcExpiry := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	est := time.FixedZone("EST", -5*60*60)
	reference := time.Date(2024, 3, 1, 6, 0, 0, 0, est) // 11:00 UTC

	aware := &token.AccessToken{Expires: utcExpiry}
	require.Equal(t, 3600, aware.ExpireDelta(reference))

	zoned := &token.AccessToken{Expires: utcExpiry.In(est)}
	require.Equal(t, 3600, zoned.ExpireDelta(reference.UTC()))
	require.Equal(t, aware.ExpireDelta(reference.UTC()), zoned.ExpireDelta(reference))
}
