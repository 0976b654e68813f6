package token

import (
	"time"

	"github.com/e3nupj2j1/Django-Oauth2-Provider/clients"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/expiry"
	oautherrors "github.com/e3nupj2j1/Django-Oauth2-Provider/internal/errors"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/scope"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/tokengen"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const maxGenerationAttempts = 3

// Manager handles access token issuance, validation, and soft revocation.
type Manager struct {
	repo    Repo
	gen     *tokengen.Generator
	policy  *expiry.Policy
	nowFunc func() time.Time
}

// ManagerOption modifies a Manager instance.
type ManagerOption func(*Manager)

// WithNowFunc sets the time source (primarily for testing).
func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

// NewManager creates an access token Manager.
func NewManager(repo Repo, gen *tokengen.Generator, policy *expiry.Policy, options ...ManagerOption) (*Manager, error) {
	if repo == nil {
		return nil, errors.New("[token.NewManager] repo is required")
	}
	if gen == nil {
		return nil, errors.New("[token.NewManager] token generator is required")
	}
	if policy == nil {
		return nil, errors.New("[token.NewManager] expiry policy is required")
	}

	m := &Manager{
		repo:    repo,
		gen:     gen,
		policy:  policy,
		nowFunc: time.Now,
	}

	for _, opt := range options {
		opt(m)
	}

	return m, nil
}

// IssueOption modifies a token being issued.
type IssueOption func(*AccessToken)

// WithDeviceID tags the token with a device identifier for multi-device
// session tracking.
func WithDeviceID(deviceID string) IssueOption {
	return func(t *AccessToken) {
		t.DeviceID = &deviceID
	}
}

// Issue creates and persists an access token for the user and client. When
// expires is nil the expiry is computed from the client's default policy at
// save time, so client policy changes apply up to the moment of persistence.
func (m *Manager) Issue(userID string, client *clients.Client, sc scope.Scope, expires *time.Time, options ...IssueOption) (*AccessToken, error) {
	if client == nil {
		return nil, errors.Wrap(oautherrors.ErrInvalidClient, "[Manager.Issue]")
	}

	now := m.nowFunc().UTC()
	accessToken := &AccessToken{
		ID:       uuid.New().String(),
		UserID:   userID,
		ClientID: client.ClientID,
		Scope:    sc,
		Created:  now,
		Modified: now,
	}

	for _, opt := range options {
		opt(accessToken)
	}

	for attempt := 0; ; attempt++ {
		accessToken.Token = m.gen.LongToken()
		if expires != nil {
			accessToken.Expires = expires.UTC()
		} else {
			accessToken.Expires = client.DefaultTokenExpiry(m.policy)
		}

		err := m.repo.Create(accessToken)
		if err == nil {
			break
		}
		if !oautherrors.Is(err, oautherrors.ErrUniqueConstraint) || attempt+1 >= maxGenerationAttempts {
			return nil, errors.Wrap(err, "[Manager.Issue] create access token")
		}
	}

	log.Debug().
		Str("client_id", client.ClientID).
		Str("user_id", userID).
		Time("expires", accessToken.Expires).
		Msg("access token issued")

	return accessToken, nil
}

// Get looks up a token string without checking validity.
func (m *Manager) Get(tokenString string) (*AccessToken, error) {
	accessToken, err := m.repo.Get(tokenString)
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.Get]")
	}
	return accessToken, nil
}

// Validate looks up a token string and checks it can be accepted now.
func (m *Manager) Validate(tokenString string) (*AccessToken, error) {
	accessToken, err := m.repo.Get(tokenString)
	if err != nil {
		return nil, errors.Wrap(oautherrors.ErrInvalidToken, err.Error())
	}

	now := m.nowFunc()
	if accessToken.LoggedOut != nil {
		return nil, errors.Wrap(oautherrors.ErrInvalidToken, "token is logged out")
	}
	if !accessToken.IsValid(now) {
		return nil, errors.Wrap(oautherrors.ErrTokenExpired, "[Manager.Validate]")
	}

	return accessToken, nil
}

// Logout soft-revokes the token: the logout timestamp is set and the row is
// kept. Logging out an already logged-out token is a no-op.
func (m *Manager) Logout(accessToken *AccessToken) error {
	if accessToken.LoggedOut != nil {
		return nil
	}

	now := m.nowFunc().UTC()
	accessToken.LoggedOut = &now
	accessToken.Modified = now

	if err := m.repo.Update(accessToken); err != nil {
		return errors.Wrap(err, "[Manager.Logout] update access token")
	}

	log.Debug().Str("client_id", accessToken.ClientID).Str("user_id", accessToken.UserID).Msg("access token logged out")
	return nil
}

// CleanupExpired hard-deletes tokens that expired before the retention
// window. Soft-revoked but unexpired tokens are kept.
func (m *Manager) CleanupExpired(retention time.Duration) (int, error) {
	cutoff := m.nowFunc().UTC().Add(-retention)
	removed, err := m.repo.DeleteExpiredBefore(cutoff)
	if err != nil {
		return 0, errors.Wrap(err, "[Manager.CleanupExpired]")
	}
	if removed > 0 {
		log.Info().Int("removed", removed).Time("cutoff", cutoff).Msg("expired access tokens removed")
	}
	return removed, nil
}
