package refreshrepofake

import (
	"sync"

	"github.com/e3nupj2j1/Django-Oauth2-Provider/internal/errors"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/token/refresh"
)

var _ refresh.Repo = (*FakeRefreshTokenRepo)(nil)

// FakeRefreshTokenRepo is a mutex-guarded in-memory refresh token repository.
// MarkExpired performs its check-and-set under the lock, which stands in for
// the conditional single-row update a real store would use.
type FakeRefreshTokenRepo struct {
	tokens map[string]*refresh.RefreshToken
	lock   sync.RWMutex
}

func NewFakeRefreshTokenRepo() *FakeRefreshTokenRepo {
	return &FakeRefreshTokenRepo{
		tokens: make(map[string]*refresh.RefreshToken),
	}
}

func (r *FakeRefreshTokenRepo) Create(refreshToken *refresh.RefreshToken) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.tokens[refreshToken.Token]; ok {
		return errors.Wrapf(errors.ErrUniqueConstraint, "refresh token %q", refreshToken.Token)
	}
	for _, existing := range r.tokens {
		if !existing.Expired && existing.AccessToken == refreshToken.AccessToken {
			return errors.Wrapf(errors.ErrUniqueConstraint, "live refresh token already bound to access token")
		}
	}

	copied := *refreshToken
	r.tokens[refreshToken.Token] = &copied
	return nil
}

func (r *FakeRefreshTokenRepo) Get(tokenString string) (*refresh.RefreshToken, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	refreshToken, ok := r.tokens[tokenString]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "refresh token")
	}
	copied := *refreshToken
	return &copied, nil
}

func (r *FakeRefreshTokenRepo) MarkExpired(tokenString string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	refreshToken, ok := r.tokens[tokenString]
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "refresh token")
	}
	if refreshToken.Expired {
		return errors.Wrapf(errors.ErrConflict, "refresh token already expired")
	}
	refreshToken.Expired = true
	return nil
}

func (r *FakeRefreshTokenRepo) Delete(tokenString string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	delete(r.tokens, tokenString)
	return nil
}

func (r *FakeRefreshTokenRepo) DeleteByClientID(clientID string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	for key, t := range r.tokens {
		if t.ClientID == clientID {
			delete(r.tokens, key)
		}
	}
	return nil
}

func (r *FakeRefreshTokenRepo) DeleteByUserID(userID string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	for key, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, key)
		}
	}
	return nil
}
