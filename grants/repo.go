package grants

import "time"

// Repo is the persistence abstraction for grants. The code is the natural
// key; Create must reject a duplicate code with errors.ErrUniqueConstraint.
type Repo interface {
	Create(grant *Grant) error
	Get(code string) (*Grant, error)

	// Consume atomically removes the grant and returns it. It returns
	// errors.ErrNotFound when the code is unknown or was already consumed.
	// This is the serialization point for exchange: exactly one caller per
	// code may succeed.
	Consume(code string) (*Grant, error)

	// Cascade deletion when a client registration or user is removed.
	DeleteByClientID(clientID string) error
	DeleteByUserID(userID string) error

	// DeleteExpiredBefore removes grants whose expiry precedes cutoff,
	// returning how many were removed.
	DeleteExpiredBefore(cutoff time.Time) (int, error)
}
