package token

import "time"

// Repo is the persistence abstraction for access tokens. The token string is
// the natural key and the only cross-entity shared resource; Create must
// reject a duplicate token string with errors.ErrUniqueConstraint rather than
// overwrite.
type Repo interface {
	Create(token *AccessToken) error
	Get(tokenString string) (*AccessToken, error)
	Update(token *AccessToken) error
	Delete(tokenString string) error

	// Cascade deletion when a client registration or user is removed.
	DeleteByClientID(clientID string) error
	DeleteByUserID(userID string) error

	// DeleteExpiredBefore removes tokens whose expiry precedes cutoff,
	// returning how many were removed. Retention sweep only; logout state
	// does not make a row eligible.
	DeleteExpiredBefore(cutoff time.Time) (int, error)
}
