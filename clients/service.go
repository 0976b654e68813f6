package clients

import (
	oautherrors "github.com/e3nupj2j1/Django-Oauth2-Provider/internal/errors"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/internal/utils"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/tokengen"
	"github.com/pkg/errors"
)

// A generated identifier that collides with an existing row surfaces as a
// uniqueness violation from the repository; the service regenerates and
// retries up to this many times before giving up.
const maxGenerationAttempts = 3

// Registration carries the caller-supplied fields for a new client. ClientID
// and Secret are generated when left empty.
type Registration struct {
	UserID      *string
	Name        string
	URL         string
	RedirectURI string
	ClientID    string
	Secret      string
	Type        ClientType
}

// Service implements the client registration lifecycle on top of a Repo.
type Service struct {
	repo   Repo
	gen    *tokengen.Generator
	hasher SecretHasher
}

// ServiceOption modifies a Service instance.
type ServiceOption func(*Service)

// WithSecretHasher sets how secrets are stored at rest (default: plaintext
// with constant-time comparison).
func WithSecretHasher(hasher SecretHasher) ServiceOption {
	return func(s *Service) {
		s.hasher = hasher
	}
}

// NewService creates a client Service.
func NewService(repo Repo, gen *tokengen.Generator, options ...ServiceOption) (*Service, error) {
	if repo == nil {
		return nil, errors.New("[clients.NewService] repo is required")
	}
	if gen == nil {
		return nil, errors.New("[clients.NewService] token generator is required")
	}

	s := &Service{
		repo:   repo,
		gen:    gen,
		hasher: PlaintextSecrets{},
	}

	for _, opt := range options {
		opt(s)
	}

	return s, nil
}

// Register creates a new client. The returned Client carries the plaintext
// secret; that is the one time it is exposed to anyone but the owning user.
func (s *Service) Register(reg Registration) (*Client, error) {
	clientType := reg.Type
	if clientType == "" {
		clientType = ClientTypeConfidential
	}

	secret := reg.Secret
	if secret == "" {
		secret = s.gen.LongToken()
	}

	storedSecret, err := s.hasher.Hash(secret)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Register] hash secret")
	}

	client := &Client{
		UserID:      reg.UserID,
		Name:        reg.Name,
		URL:         reg.URL,
		RedirectURI: reg.RedirectURI,
		ClientID:    reg.ClientID,
		Secret:      storedSecret,
		Type:        clientType,
	}

	generated := client.ClientID == ""
	for attempt := 0; ; attempt++ {
		if generated {
			client.ClientID = s.gen.ShortToken()
		}
		err := s.repo.Create(client)
		if err == nil {
			break
		}
		if !generated || !oautherrors.Is(err, oautherrors.ErrUniqueConstraint) || attempt+1 >= maxGenerationAttempts {
			return nil, errors.Wrap(err, "[Service.Register] create client")
		}
	}

	issued := *client
	issued.Secret = secret
	return &issued, nil
}

// Get looks up a client by its client identifier.
func (s *Service) Get(clientID string) (*Client, error) {
	client, err := s.repo.Get(clientID)
	if err != nil {
		return nil, errors.Wrap(oautherrors.ErrInvalidClient, err.Error())
	}
	return client, nil
}

// Authenticate resolves a client and checks its secret.
func (s *Service) Authenticate(clientID, secret string) (*Client, error) {
	client, err := s.Get(clientID)
	if err != nil {
		return nil, err
	}
	if err := s.hasher.Compare(client.Secret, secret); err != nil {
		return nil, errors.Wrap(oautherrors.ErrInvalidClientSecret, "[Service.Authenticate]")
	}
	return client, nil
}

// Update persists changes to a client. Only the owning user may mutate a
// client; the client identifier and secret are immutable here.
func (s *Service) Update(client *Client, byUserID string) error {
	existing, err := s.repo.Get(client.ClientID)
	if err != nil {
		return errors.Wrap(oautherrors.ErrInvalidClient, err.Error())
	}
	if !utils.EqualValue(existing.UserID, &byUserID) {
		return errors.New("[Service.Update] client may only be modified by its owner")
	}

	updated := *existing
	updated.Name = client.Name
	updated.URL = client.URL
	updated.RedirectURI = client.RedirectURI
	updated.Type = client.Type

	return errors.Wrap(s.repo.Update(&updated), "[Service.Update] update client")
}

// Delete removes a client registration. Cascading removal of the client's
// grants and tokens is handled by the auth service.
func (s *Service) Delete(clientID string) error {
	return errors.Wrap(s.repo.Delete(clientID), "[Service.Delete] delete client")
}
