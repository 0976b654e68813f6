package clients

import (
	"crypto/subtle"

	"github.com/e3nupj2j1/Django-Oauth2-Provider/internal/errors"
	"golang.org/x/crypto/bcrypt"
)

// SecretHasher controls how client secrets are stored and compared. The
// registration service returns the plaintext secret exactly once, at
// issuance; what lands in the repository is up to the hasher.
type SecretHasher interface {
	Hash(secret string) (string, error)
	Compare(stored, presented string) error
}

// PlaintextSecrets stores secrets verbatim and compares in constant time.
// This preserves serialize/deserialize round-trips of the stored secret.
type PlaintextSecrets struct{}

var _ SecretHasher = PlaintextSecrets{}

func (PlaintextSecrets) Hash(secret string) (string, error) {
	return secret, nil
}

func (PlaintextSecrets) Compare(stored, presented string) error {
	if subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) != 1 {
		return errors.ErrInvalidClientSecret
	}
	return nil
}

// BcryptSecrets stores a bcrypt hash of the secret.
type BcryptSecrets struct {
	Cost int
}

var _ SecretHasher = BcryptSecrets{}

func (h BcryptSecrets) Hash(secret string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h BcryptSecrets) Compare(stored, presented string) error {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(presented))
}
