package token_test

import (
	"testing"
	"time"

	"github.com/e3nupj2j1/Django-Oauth2-Provider/clients"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/expiry"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/internal/config"
	oautherrors "github.com/e3nupj2j1/Django-Oauth2-Provider/internal/errors"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/internal/utils"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/scope"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/token"
	tokenrepofake "github.com/e3nupj2j1/Django-Oauth2-Provider/token/repofake"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/tokengen"
	"github.com/stretchr/testify/require"
)

type managerFixture struct {
	repo    *tokenrepofake.FakeTokenRepo
	manager *token.Manager
	now     time.Time
}

func newManagerFixture(t *testing.T) *managerFixture {
	t.Helper()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	nowFunc := func() time.Time { return now }

	repo := tokenrepofake.NewFakeTokenRepo()
	policy := expiry.NewPolicy(config.Provider{}, expiry.WithNowFunc(nowFunc))
	manager, err := token.NewManager(repo, tokengen.NewGenerator(config.Provider{}), policy, token.WithNowFunc(nowFunc))
	require.NoError(t, err)

	return &managerFixture{repo: repo, manager: manager, now: now}
}

func confidentialClient() *clients.Client {
	return &clients.Client{ClientID: "client-1", Type: clients.ClientTypeConfidential}
}

func TestIssueDefaultExpiryFromClientPolicy(t *testing.T) {
	f := newManagerFixture(t)

	accessToken, err := f.manager.Issue("user-1", confidentialClient(), scope.Read, nil)
	require.NoError(t, err)
	require.Equal(t, f.now.Add(365*24*time.Hour), accessToken.Expires)

	public := &clients.Client{ClientID: "client-2", Type: clients.ClientTypePublic}
	publicToken, err := f.manager.Issue("user-1", public, scope.Read, nil)
	require.NoError(t, err)
	require.Equal(t, f.now.Add(30*24*time.Hour), publicToken.Expires)
}

func TestIssueExplicitExpiry(t *testing.T) {
	f := newManagerFixture(t)

	expires := f.now.Add(90 * time.Minute)
	accessToken, err := f.manager.Issue("user-1", confidentialClient(), scope.Read, &expires)
	require.NoError(t, err)
	require.Equal(t, expires, accessToken.Expires)
}

func TestIssueWithDeviceID(t *testing.T) {
	f := newManagerFixture(t)

	accessToken, err := f.manager.Issue("user-1", confidentialClient(), scope.Read, nil, token.WithDeviceID("device-42"))
	require.NoError(t, err)
	require.Equal(t, utils.Ptr("device-42"), accessToken.DeviceID)
}

func TestValidate(t *testing.T) {
	f := newManagerFixture(t)

	issued, err := f.manager.Issue("user-1", confidentialClient(), scope.Read, nil)
	require.NoError(t, err)

	found, err := f.manager.Validate(issued.Token)
	require.NoError(t, err)
	require.Equal(t, issued.Token, found.Token)

	_, err = f.manager.Validate("unknown-token")
	require.ErrorIs(t, err, oautherrors.ErrInvalidToken)
}

func TestValidateExpired(t *testing.T) {
	f := newManagerFixture(t)

	expires := f.now.Add(-time.Second)
	issued, err := f.manager.Issue("user-1", confidentialClient(), scope.Read, &expires)
	require.NoError(t, err)

	_, err = f.manager.Validate(issued.Token)
	require.ErrorIs(t, err, oautherrors.ErrTokenExpired)
}

func TestLogoutSoftRevokes(t *testing.T) {
	f := newManagerFixture(t)

	issued, err := f.manager.Issue("user-1", confidentialClient(), scope.Read, nil)
	require.NoError(t, err)

	require.NoError(t, f.manager.Logout(issued))
	require.Equal(t, utils.Ptr(f.now), issued.LoggedOut)

	_, err = f.manager.Validate(issued.Token)
	require.ErrorIs(t, err, oautherrors.ErrInvalidToken)

	// Soft revoke: the row is still there for audit.
	stored, err := f.repo.Get(issued.Token)
	require.NoError(t, err)
	require.NotNil(t, stored.LoggedOut)

	// Idempotent.
	require.NoError(t, f.manager.Logout(issued))
}

func TestCleanupExpired(t *testing.T) {
	f := newManagerFixture(t)

	longGone := f.now.Add(-48 * time.Hour)
	_, err := f.manager.Issue("user-1", confidentialClient(), scope.Read, &longGone)
	require.NoError(t, err)

	live, err := f.manager.Issue("user-1", confidentialClient(), scope.Read, nil)
	require.NoError(t, err)

	removed, err := f.manager.CleanupExpired(24 * time.Hour)
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	_, err = f.repo.Get(live.Token)
	require.NoError(t, err)
}
