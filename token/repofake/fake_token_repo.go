package tokenrepofake

import (
	"sync"
	"time"

	"github.com/e3nupj2j1/Django-Oauth2-Provider/internal/errors"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/token"
)

var _ token.Repo = (*FakeTokenRepo)(nil)

// FakeTokenRepo is a mutex-guarded in-memory access token repository keyed by
// token string, mirroring a unique index on the token column.
type FakeTokenRepo struct {
	tokens map[string]*token.AccessToken
	lock   sync.RWMutex
}

func NewFakeTokenRepo() *FakeTokenRepo {
	return &FakeTokenRepo{
		tokens: make(map[string]*token.AccessToken),
	}
}

func (r *FakeTokenRepo) Create(accessToken *token.AccessToken) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.tokens[accessToken.Token]; ok {
		return errors.Wrapf(errors.ErrUniqueConstraint, "token %q", accessToken.Token)
	}

	copied := *accessToken
	r.tokens[accessToken.Token] = &copied
	return nil
}

func (r *FakeTokenRepo) Get(tokenString string) (*token.AccessToken, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	accessToken, ok := r.tokens[tokenString]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "access token")
	}
	copied := *accessToken
	return &copied, nil
}

func (r *FakeTokenRepo) Update(accessToken *token.AccessToken) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.tokens[accessToken.Token]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "access token")
	}
	copied := *accessToken
	r.tokens[accessToken.Token] = &copied
	return nil
}

func (r *FakeTokenRepo) Delete(tokenString string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	delete(r.tokens, tokenString)
	return nil
}

func (r *FakeTokenRepo) DeleteByClientID(clientID string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	for key, t := range r.tokens {
		if t.ClientID == clientID {
			delete(r.tokens, key)
		}
	}
	return nil
}

func (r *FakeTokenRepo) DeleteByUserID(userID string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	for key, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, key)
		}
	}
	return nil
}

func (r *FakeTokenRepo) DeleteExpiredBefore(cutoff time.Time) (int, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	removed := 0
	for key, t := range r.tokens {
		if t.Expires.UTC().Before(cutoff.UTC()) {
			delete(r.tokens, key)
			removed++
		}
	}
	return removed, nil
}
