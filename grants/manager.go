package grants

import (
	"time"

	"github.com/e3nupj2j1/Django-Oauth2-Provider/clients"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/expiry"
	oautherrors "github.com/e3nupj2j1/Django-Oauth2-Provider/internal/errors"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/scope"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/token"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/token/refresh"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/tokengen"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const maxGenerationAttempts = 3

// Manager handles the grant state machine: issued, then either exchanged
// (consumed) or expired (swept).
type Manager struct {
	repo           Repo
	gen            *tokengen.Generator
	policy         *expiry.Policy
	tokenManager   *token.Manager
	refreshManager *refresh.Manager
	nowFunc        func() time.Time
}

// ManagerOption modifies a Manager instance.
type ManagerOption func(*Manager)

// WithNowFunc sets the time source (primarily for testing).
func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

// NewManager creates a grant Manager.
func NewManager(repo Repo, gen *tokengen.Generator, policy *expiry.Policy, tokenManager *token.Manager, refreshManager *refresh.Manager, options ...ManagerOption) (*Manager, error) {
	if repo == nil {
		return nil, errors.New("[grants.NewManager] repo is required")
	}
	if gen == nil {
		return nil, errors.New("[grants.NewManager] token generator is required")
	}
	if policy == nil {
		return nil, errors.New("[grants.NewManager] expiry policy is required")
	}
	if tokenManager == nil {
		return nil, errors.New("[grants.NewManager] token manager is required")
	}
	if refreshManager == nil {
		return nil, errors.New("[grants.NewManager] refresh manager is required")
	}

	m := &Manager{
		repo:           repo,
		gen:            gen,
		policy:         policy,
		tokenManager:   tokenManager,
		refreshManager: refreshManager,
		nowFunc:        time.Now,
	}

	for _, opt := range options {
		opt(m)
	}

	return m, nil
}

// Issue creates and persists a grant for an approved authorization request.
// The code comes from the token generator and the expiry from the policy's
// code delta.
func (m *Manager) Issue(userID string, client *clients.Client, redirectURI string, sc scope.Scope) (*Grant, error) {
	if client == nil {
		return nil, errors.Wrap(oautherrors.ErrInvalidClient, "[Manager.Issue]")
	}

	grant := &Grant{
		ID:          uuid.New().String(),
		UserID:      userID,
		ClientID:    client.ClientID,
		RedirectURI: redirectURI,
		Scope:       sc,
	}

	for attempt := 0; ; attempt++ {
		grant.Code = m.gen.LongToken()
		grant.Expires = m.policy.CodeExpiry()

		err := m.repo.Create(grant)
		if err == nil {
			break
		}
		if !oautherrors.Is(err, oautherrors.ErrUniqueConstraint) || attempt+1 >= maxGenerationAttempts {
			return nil, errors.Wrap(err, "[Manager.Issue] create grant")
		}
	}

	log.Debug().Str("client_id", client.ClientID).Str("user_id", userID).Msg("grant issued")
	return grant, nil
}

// Exchange swaps a grant code for an access token / refresh token pair. It
// fails with ErrInvalidGrant when the code is unknown or already exchanged,
// the client or redirect URI does not match the one used at issuance, or the
// grant has expired.
//
// A failed validation does not consume the code; success consumes it via the
// repo's atomic Consume, so concurrent exchanges of the same code produce
// exactly one winner.
func (m *Manager) Exchange(code string, client *clients.Client, redirectURI string) (*token.AccessToken, *refresh.RefreshToken, error) {
	if client == nil {
		return nil, nil, errors.Wrap(oautherrors.ErrInvalidClient, "[Manager.Exchange]")
	}

	grant, err := m.repo.Get(code)
	if err != nil {
		return nil, nil, errors.Wrap(oautherrors.ErrInvalidGrant, "unknown code")
	}
	if grant.ClientID != client.ClientID {
		return nil, nil, errors.Wrap(oautherrors.ErrInvalidGrant, "client mismatch")
	}
	if grant.RedirectURI != redirectURI {
		return nil, nil, errors.Wrap(oautherrors.ErrInvalidGrant, "redirect URI mismatch")
	}
	if grant.IsExpired(m.nowFunc()) {
		return nil, nil, errors.Wrap(oautherrors.ErrInvalidGrant, "code expired")
	}

	// Single winner: whoever consumes the row gets to mint the tokens.
	grant, err = m.repo.Consume(code)
	if err != nil {
		return nil, nil, errors.Wrap(oautherrors.ErrInvalidGrant, "code already exchanged")
	}

	accessToken, err := m.tokenManager.Issue(grant.UserID, client, grant.Scope, nil)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[Manager.Exchange] issue access token")
	}

	refreshToken, err := m.refreshManager.Issue(accessToken)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[Manager.Exchange] issue refresh token")
	}

	log.Debug().Str("client_id", client.ClientID).Str("user_id", grant.UserID).Msg("grant exchanged")
	return accessToken, refreshToken, nil
}

// CleanupExpired sweeps grants that are past their expiry.
func (m *Manager) CleanupExpired() (int, error) {
	cutoff := m.nowFunc().UTC()
	removed, err := m.repo.DeleteExpiredBefore(cutoff)
	if err != nil {
		return 0, errors.Wrap(err, "[Manager.CleanupExpired]")
	}
	if removed > 0 {
		log.Info().Int("removed", removed).Msg("expired grants removed")
	}
	return removed, nil
}
