// Package auth composes the entity managers into the provider's produced
// interface: client registration, grant issuance and exchange, token
// validation, logout, and refresh-token rotation. An HTTP layer wrapping
// this service maps its error kinds onto RFC 6749 error responses.
package auth

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/e3nupj2j1/Django-Oauth2-Provider/clients"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/expiry"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/grants"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/internal/config"
	oautherrors "github.com/e3nupj2j1/Django-Oauth2-Provider/internal/errors"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/oauth2"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/scope"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/token"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/token/refresh"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/tokengen"
)

// Repos holds all repository dependencies for the Service.
type Repos struct {
	Clients       clients.Repo
	Grants        grants.Repo
	Tokens        token.Repo
	RefreshTokens refresh.Repo
}

// Service wires the client, grant, access token, and refresh token
// lifecycles together over a set of repositories.
type Service struct {
	repos          Repos
	clientService  *clients.Service
	grantManager   *grants.Manager
	tokenManager   *token.Manager
	refreshManager *refresh.Manager
	policy         *expiry.Policy
	logger         zerolog.Logger
	nowFunc        func() time.Time
	secretHasher   clients.SecretHasher
}

// ServiceOption modifies a Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowFunc = nowFunc
	}
}

// WithLogger sets the logger (default: the global zerolog logger).
func WithLogger(logger zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithSecretHasher sets how client secrets are stored at rest.
func WithSecretHasher(hasher clients.SecretHasher) ServiceOption {
	return func(s *Service) {
		s.secretHasher = hasher
	}
}

// NewService initializes the provider core with its repositories and
// configuration. Optional behavior is provided via options (e.g. WithNowTime
// for testing).
func NewService(cfg config.ProviderConfig, repos Repos, options ...ServiceOption) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("[NewService] config is required")
	}
	if repos.Clients == nil {
		return nil, errors.New("[NewService] Clients repo is required")
	}
	if repos.Grants == nil {
		return nil, errors.New("[NewService] Grants repo is required")
	}
	if repos.Tokens == nil {
		return nil, errors.New("[NewService] Tokens repo is required")
	}
	if repos.RefreshTokens == nil {
		return nil, errors.New("[NewService] RefreshTokens repo is required")
	}

	s := &Service{
		repos:   repos,
		logger:  log.Logger,
		nowFunc: time.Now,
	}

	for _, opt := range options {
		opt(s)
	}

	gen := tokengen.NewGenerator(cfg)
	s.policy = expiry.NewPolicy(cfg, expiry.WithNowFunc(s.nowFunc))

	clientOptions := []clients.ServiceOption{}
	if s.secretHasher != nil {
		clientOptions = append(clientOptions, clients.WithSecretHasher(s.secretHasher))
	}

	var err error
	if s.clientService, err = clients.NewService(repos.Clients, gen, clientOptions...); err != nil {
		return nil, errors.Wrap(err, "[NewService] client service")
	}
	if s.tokenManager, err = token.NewManager(repos.Tokens, gen, s.policy, token.WithNowFunc(s.nowFunc)); err != nil {
		return nil, errors.Wrap(err, "[NewService] token manager")
	}
	if s.refreshManager, err = refresh.NewManager(repos.RefreshTokens, s.tokenManager, gen); err != nil {
		return nil, errors.Wrap(err, "[NewService] refresh manager")
	}
	if s.grantManager, err = grants.NewManager(repos.Grants, gen, s.policy, s.tokenManager, s.refreshManager, grants.WithNowFunc(s.nowFunc)); err != nil {
		return nil, errors.Wrap(err, "[NewService] grant manager")
	}

	return s, nil
}

// RegisterClient registers a new client application, generating its
// identifier and secret when not supplied.
func (s *Service) RegisterClient(reg clients.Registration) (*clients.Client, error) {
	client, err := s.clientService.Register(reg)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.RegisterClient]")
	}
	s.logger.Info().Str("client_id", client.ClientID).Str("type", string(client.Type)).Msg("client registered")
	return client, nil
}

// AuthenticateClient resolves a client and verifies its secret.
func (s *Service) AuthenticateClient(clientID, secret string) (*clients.Client, error) {
	return s.clientService.Authenticate(clientID, secret)
}

// Authorize issues a grant for an approved authorization request. The
// redirect URI must match the client's registered one; an empty redirect URI
// falls back to it.
func (s *Service) Authorize(userID, clientID, redirectURI string, sc scope.Scope) (*grants.Grant, error) {
	client, err := s.clientService.Get(clientID)
	if err != nil {
		return nil, err
	}

	if redirectURI == "" {
		redirectURI = client.RedirectURI
	} else if redirectURI != client.RedirectURI {
		return nil, errors.Wrap(oautherrors.ErrInvalidRedirectURI, "[Service.Authorize]")
	}

	if sc == 0 {
		sc = scope.Default()
	}

	return s.grantManager.Issue(userID, client, redirectURI, sc)
}

// ExchangeGrant swaps an authorization code for a token response. The grant
// is consumed exactly once; replays and mismatches fail with ErrInvalidGrant.
func (s *Service) ExchangeGrant(code, clientID, redirectURI string) (oauth2.TokenResponse, error) {
	client, err := s.clientService.Get(clientID)
	if err != nil {
		return oauth2.TokenResponse{}, err
	}

	accessToken, refreshToken, err := s.grantManager.Exchange(code, client, redirectURI)
	if err != nil {
		return oauth2.TokenResponse{}, err
	}

	return oauth2.NewTokenResponse(accessToken, refreshToken, s.nowFunc()), nil
}

// Refresh rotates a refresh token into a fresh token response. Exactly one
// concurrent exchange per token string succeeds.
func (s *Service) Refresh(refreshTokenString, clientID string) (oauth2.TokenResponse, error) {
	client, err := s.clientService.Get(clientID)
	if err != nil {
		return oauth2.TokenResponse{}, err
	}

	accessToken, refreshToken, err := s.refreshManager.Exchange(refreshTokenString, client)
	if err != nil {
		return oauth2.TokenResponse{}, err
	}

	return oauth2.NewTokenResponse(accessToken, refreshToken, s.nowFunc()), nil
}

// ValidateAccessToken checks a presented bearer token against expiry and
// logout state.
func (s *Service) ValidateAccessToken(tokenString string) (*token.AccessToken, error) {
	return s.tokenManager.Validate(tokenString)
}

// Logout soft-revokes an access token. The paired refresh token stays usable
// to mint a replacement.
func (s *Service) Logout(tokenString string) error {
	accessToken, err := s.tokenManager.Get(tokenString)
	if err != nil {
		return errors.Wrap(oautherrors.ErrInvalidToken, err.Error())
	}
	return s.tokenManager.Logout(accessToken)
}

// RevokeClient deletes a client registration and cascades to every grant,
// access token, and refresh token referencing it.
func (s *Service) RevokeClient(clientID string) error {
	if err := s.repos.Grants.DeleteByClientID(clientID); err != nil {
		return errors.Wrap(err, "[Service.RevokeClient] grants")
	}
	if err := s.repos.RefreshTokens.DeleteByClientID(clientID); err != nil {
		return errors.Wrap(err, "[Service.RevokeClient] refresh tokens")
	}
	if err := s.repos.Tokens.DeleteByClientID(clientID); err != nil {
		return errors.Wrap(err, "[Service.RevokeClient] access tokens")
	}
	if err := s.clientService.Delete(clientID); err != nil {
		return errors.Wrap(err, "[Service.RevokeClient] client")
	}

	s.logger.Info().Str("client_id", clientID).Msg("client revoked")
	return nil
}

// RevokeUser cascades removal of a user's grants, access tokens, and refresh
// tokens. Client registrations owned by the user are left in place.
func (s *Service) RevokeUser(userID string) error {
	if err := s.repos.Grants.DeleteByUserID(userID); err != nil {
		return errors.Wrap(err, "[Service.RevokeUser] grants")
	}
	if err := s.repos.RefreshTokens.DeleteByUserID(userID); err != nil {
		return errors.Wrap(err, "[Service.RevokeUser] refresh tokens")
	}
	if err := s.repos.Tokens.DeleteByUserID(userID); err != nil {
		return errors.Wrap(err, "[Service.RevokeUser] access tokens")
	}

	s.logger.Info().Str("user_id", userID).Msg("user credentials revoked")
	return nil
}

// Cleanup sweeps expired grants and hard-deletes access tokens expired for
// longer than the retention window.
func (s *Service) Cleanup(tokenRetention time.Duration) error {
	if _, err := s.grantManager.CleanupExpired(); err != nil {
		return err
	}
	if _, err := s.tokenManager.CleanupExpired(tokenRetention); err != nil {
		return err
	}
	return nil
}
