package refresh

import (
	"github.com/e3nupj2j1/Django-Oauth2-Provider/clients"
	oautherrors "github.com/e3nupj2j1/Django-Oauth2-Provider/internal/errors"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/token"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/tokengen"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const maxGenerationAttempts = 3

// Manager handles refresh token issuance and the rotation exchange.
type Manager struct {
	repo         Repo
	tokenManager *token.Manager
	gen          *tokengen.Generator
}

// NewManager creates a refresh token Manager.
func NewManager(repo Repo, tokenManager *token.Manager, gen *tokengen.Generator) (*Manager, error) {
	if repo == nil {
		return nil, errors.New("[refresh.NewManager] repo is required")
	}
	if tokenManager == nil {
		return nil, errors.New("[refresh.NewManager] token manager is required")
	}
	if gen == nil {
		return nil, errors.New("[refresh.NewManager] token generator is required")
	}

	return &Manager{
		repo:         repo,
		tokenManager: tokenManager,
		gen:          gen,
	}, nil
}

// Issue creates a refresh token bound 1:1 to the given access token.
func (m *Manager) Issue(accessToken *token.AccessToken) (*RefreshToken, error) {
	if accessToken == nil {
		return nil, errors.New("[Manager.Issue] access token is required")
	}

	refreshToken := &RefreshToken{
		ID:          uuid.New().String(),
		UserID:      accessToken.UserID,
		ClientID:    accessToken.ClientID,
		AccessToken: accessToken.Token,
	}

	for attempt := 0; ; attempt++ {
		refreshToken.Token = m.gen.LongToken()
		err := m.repo.Create(refreshToken)
		if err == nil {
			break
		}
		if !oautherrors.Is(err, oautherrors.ErrUniqueConstraint) || attempt+1 >= maxGenerationAttempts {
			return nil, errors.Wrap(err, "[Manager.Issue] create refresh token")
		}
	}

	return refreshToken, nil
}

// Exchange rotates credentials: the presented refresh token is marked
// expired, its access token is logged out, and a fresh access token /
// refresh token pair is issued for the same user, client, and scope.
//
// The repo's conditional MarkExpired serializes concurrent exchanges of the
// same token string; exactly one wins, the rest fail with ErrInvalidGrant.
func (m *Manager) Exchange(tokenString string, client *clients.Client) (*token.AccessToken, *RefreshToken, error) {
	if client == nil {
		return nil, nil, errors.Wrap(oautherrors.ErrInvalidClient, "[Manager.Exchange]")
	}

	refreshToken, err := m.repo.Get(tokenString)
	if err != nil {
		return nil, nil, errors.Wrap(oautherrors.ErrInvalidGrant, "unknown refresh token")
	}
	if refreshToken.ClientID != client.ClientID {
		return nil, nil, errors.Wrap(oautherrors.ErrInvalidGrant, "client mismatch")
	}
	if refreshToken.Expired {
		return nil, nil, errors.Wrap(oautherrors.ErrInvalidGrant, "refresh token already used")
	}

	// The paired access token may have been swept after expiring; such a
	// refresh token is unusable and must not be spent by the failed attempt.
	oldAccessToken, err := m.tokenManager.Get(refreshToken.AccessToken)
	if err != nil {
		return nil, nil, errors.Wrap(oautherrors.ErrInvalidGrant, "paired access token missing")
	}

	// Winner takes the token; concurrent losers surface as invalid grant.
	if err := m.repo.MarkExpired(tokenString); err != nil {
		return nil, nil, errors.Wrap(oautherrors.ErrInvalidGrant, "refresh token already used")
	}

	if err := m.tokenManager.Logout(oldAccessToken); err != nil {
		return nil, nil, errors.Wrap(err, "[Manager.Exchange] logout old access token")
	}

	newAccessToken, err := m.tokenManager.Issue(refreshToken.UserID, client, oldAccessToken.Scope, nil)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[Manager.Exchange] issue access token")
	}

	newRefreshToken, err := m.Issue(newAccessToken)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[Manager.Exchange] issue refresh token")
	}

	log.Debug().
		Str("client_id", client.ClientID).
		Str("user_id", refreshToken.UserID).
		Msg("refresh token exchanged")

	return newAccessToken, newRefreshToken, nil
}

// Invalidate marks a refresh token expired without rotating, for explicit
// revocation. Unknown tokens are ignored.
func (m *Manager) Invalidate(tokenString string) {
	if err := m.repo.MarkExpired(tokenString); err != nil && !oautherrors.Is(err, oautherrors.ErrNotFound) && !oautherrors.Is(err, oautherrors.ErrConflict) {
		log.Err(err).Msg("failed to invalidate refresh token")
	}
}
