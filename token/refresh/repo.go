package refresh

// Repo is the persistence abstraction for refresh tokens. The token string
// is the natural key; Create must also reject a second live (non-expired)
// refresh token for the same access token with errors.ErrUniqueConstraint.
type Repo interface {
	Create(refreshToken *RefreshToken) error
	Get(tokenString string) (*RefreshToken, error)

	// MarkExpired flips the expired flag from false to true as a single
	// conditional update. It returns errors.ErrConflict when the flag was
	// already set (a concurrent exchange won) and errors.ErrNotFound for an
	// unknown token. This is the serialization point for rotation: exactly
	// one caller per token string may succeed.
	MarkExpired(tokenString string) error

	Delete(tokenString string) error

	// Cascade deletion when a client registration or user is removed.
	DeleteByClientID(clientID string) error
	DeleteByUserID(userID string) error
}
