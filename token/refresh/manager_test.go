package refresh_test

import (
	"sync"
	"testing"
	"time"

	"github.com/e3nupj2j1/Django-Oauth2-Provider/clients"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/expiry"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/internal/config"
	oautherrors "github.com/e3nupj2j1/Django-Oauth2-Provider/internal/errors"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/scope"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/token"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/token/refresh"
	refreshrepofake "github.com/e3nupj2j1/Django-Oauth2-Provider/token/refresh/repofake"
	tokenrepofake "github.com/e3nupj2j1/Django-Oauth2-Provider/token/repofake"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/tokengen"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	tokenRepo    *tokenrepofake.FakeTokenRepo
	refreshRepo  *refreshrepofake.FakeRefreshTokenRepo
	tokenManager *token.Manager
	manager      *refresh.Manager
	client       *clients.Client
	now          time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	nowFunc := func() time.Time { return now }

	gen := tokengen.NewGenerator(config.Provider{})
	policy := expiry.NewPolicy(config.Provider{}, expiry.WithNowFunc(nowFunc))

	tokenRepo := tokenrepofake.NewFakeTokenRepo()
	tokenManager, err := token.NewManager(tokenRepo, gen, policy, token.WithNowFunc(nowFunc))
	require.NoError(t, err)

	refreshRepo := refreshrepofake.NewFakeRefreshTokenRepo()
	manager, err := refresh.NewManager(refreshRepo, tokenManager, gen)
	require.NoError(t, err)

	return &fixture{
		tokenRepo:    tokenRepo,
		refreshRepo:  refreshRepo,
		tokenManager: tokenManager,
		manager:      manager,
		client:       &clients.Client{ClientID: "client-1", Type: clients.ClientTypeConfidential},
		now:          now,
	}
}

func (f *fixture) issuePair(t *testing.T) (*token.AccessToken, *refresh.RefreshToken) {
	t.Helper()

	accessToken, err := f.tokenManager.Issue("user-1", f.client, scope.ReadWrite, nil)
	require.NoError(t, err)
	refreshToken, err := f.manager.Issue(accessToken)
	require.NoError(t, err)
	return accessToken, refreshToken
}

func TestIssueBindsToAccessToken(t *testing.T) {
	f := newFixture(t)

	accessToken, refreshToken := f.issuePair(t)
	require.Equal(t, accessToken.Token, refreshToken.AccessToken)
	require.Equal(t, accessToken.UserID, refreshToken.UserID)
	require.Equal(t, accessToken.ClientID, refreshToken.ClientID)
	require.False(t, refreshToken.Expired)
}

func TestIssueSecondLiveTokenForSameAccessToken(t *testing.T) {
	f := newFixture(t)

	accessToken, _ := f.issuePair(t)
	_, err := f.manager.Issue(accessToken)
	require.ErrorIs(t, err, oautherrors.ErrUniqueConstraint)
}

func TestExchangeRotatesCredentials(t *testing.T) {
	f := newFixture(t)

	oldAccessToken, oldRefreshToken := f.issuePair(t)

	newAccessToken, newRefreshToken, err := f.manager.Exchange(oldRefreshToken.Token, f.client)
	require.NoError(t, err)

	// Same user, client, and scope; fresh credentials.
	require.Equal(t, oldAccessToken.UserID, newAccessToken.UserID)
	require.Equal(t, oldAccessToken.ClientID, newAccessToken.ClientID)
	require.Equal(t, oldAccessToken.Scope, newAccessToken.Scope)
	require.NotEqual(t, oldAccessToken.Token, newAccessToken.Token)
	require.NotEqual(t, oldRefreshToken.Token, newRefreshToken.Token)
	require.Equal(t, newAccessToken.Token, newRefreshToken.AccessToken)

	// The old access token is logged out, not deleted.
	stored, err := f.tokenRepo.Get(oldAccessToken.Token)
	require.NoError(t, err)
	require.NotNil(t, stored.LoggedOut)

	// The old refresh token is spent.
	spent, err := f.refreshRepo.Get(oldRefreshToken.Token)
	require.NoError(t, err)
	require.True(t, spent.Expired)
}

func TestExchangeReplayFails(t *testing.T) {
	f := newFixture(t)

	_, refreshToken := f.issuePair(t)

	_, _, err := f.manager.Exchange(refreshToken.Token, f.client)
	require.NoError(t, err)

	_, _, err = f.manager.Exchange(refreshToken.Token, f.client)
	require.ErrorIs(t, err, oautherrors.ErrInvalidGrant)
}

func TestExchangeUnknownToken(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.manager.Exchange("unknown-token", f.client)
	require.ErrorIs(t, err, oautherrors.ErrInvalidGrant)
}

func TestExchangeClientMismatch(t *testing.T) {
	f := newFixture(t)

	_, refreshToken := f.issuePair(t)

	other := &clients.Client{ClientID: "client-2", Type: clients.ClientTypeConfidential}
	_, _, err := f.manager.Exchange(refreshToken.Token, other)
	require.ErrorIs(t, err, oautherrors.ErrInvalidGrant)

	// The token survives a failed exchange by the wrong client.
	stored, err := f.refreshRepo.Get(refreshToken.Token)
	require.NoError(t, err)
	require.False(t, stored.Expired)
}

func TestExchangeExactlyOnceUnderConcurrency(t *testing.T) {
	f := newFixture(t)

	_, refreshToken := f.issuePair(t)

	const attempts = 32

	var wg sync.WaitGroup
	winners := make(chan *token.AccessToken, attempts)
	losers := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			accessToken, _, err := f.manager.Exchange(refreshToken.Token, f.client)
			if err != nil {
				losers <- err
				return
			}
			winners <- accessToken
		}()
	}
	wg.Wait()
	close(winners)
	close(losers)

	require.Len(t, winners, 1)
	require.Len(t, losers, attempts-1)
	for err := range losers {
		require.ErrorIs(t, err, oautherrors.ErrInvalidGrant)
	}

	// The surviving access token is the winner's.
	winner := <-winners
	stored, err := f.tokenRepo.Get(winner.Token)
	require.NoError(t, err)
	require.Nil(t, stored.LoggedOut)
}

func TestExchangeAfterAccessTokenSwept(t *testing.T) {
	f := newFixture(t)

	longGone := f.now.Add(-48 * time.Hour)
	accessToken, err := f.tokenManager.Issue("user-1", f.client, scope.Read, &longGone)
	require.NoError(t, err)
	refreshToken, err := f.manager.Issue(accessToken)
	require.NoError(t, err)

	removed, err := f.tokenManager.CleanupExpired(24 * time.Hour)
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	_, _, err = f.manager.Exchange(refreshToken.Token, f.client)
	require.ErrorIs(t, err, oautherrors.ErrInvalidGrant)

	// The failed exchange left the refresh token unspent.
	stored, err := f.refreshRepo.Get(refreshToken.Token)
	require.NoError(t, err)
	require.False(t, stored.Expired)
}

func TestInvalidate(t *testing.T) {
	f := newFixture(t)

	_, refreshToken := f.issuePair(t)

	f.manager.Invalidate(refreshToken.Token)

	_, _, err := f.manager.Exchange(refreshToken.Token, f.client)
	require.ErrorIs(t, err, oautherrors.ErrInvalidGrant)

	// Unknown tokens are ignored.
	f.manager.Invalidate("unknown-token")
}
