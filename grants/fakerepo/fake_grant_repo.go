package fakegrantrepo

import (
	"sync"
	"time"

	"github.com/e3nupj2j1/Django-Oauth2-Provider/grants"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/internal/errors"
)

var _ grants.Repo = (*FakeGrantRepo)(nil)

// FakeGrantRepo is a mutex-guarded in-memory grant repository keyed by code.
// Consume removes the row under the lock, which stands in for the atomic
// delete-returning a real store would use.
type FakeGrantRepo struct {
	grants map[string]*grants.Grant
	lock   sync.RWMutex
}

func NewFakeGrantRepo() *FakeGrantRepo {
	return &FakeGrantRepo{
		grants: make(map[string]*grants.Grant),
	}
}

func (r *FakeGrantRepo) Create(grant *grants.Grant) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.grants[grant.Code]; ok {
		return errors.Wrapf(errors.ErrUniqueConstraint, "grant code %q", grant.Code)
	}

	copied := *grant
	r.grants[grant.Code] = &copied
	return nil
}

func (r *FakeGrantRepo) Get(code string) (*grants.Grant, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	grant, ok := r.grants[code]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "grant")
	}
	copied := *grant
	return &copied, nil
}

func (r *FakeGrantRepo) Consume(code string) (*grants.Grant, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	grant, ok := r.grants[code]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "grant")
	}
	delete(r.grants, code)
	copied := *grant
	return &copied, nil
}

func (r *FakeGrantRepo) DeleteByClientID(clientID string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	for key, g := range r.grants {
		if g.ClientID == clientID {
			delete(r.grants, key)
		}
	}
	return nil
}

func (r *FakeGrantRepo) DeleteByUserID(userID string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	for key, g := range r.grants {
		if g.UserID == userID {
			delete(r.grants, key)
		}
	}
	return nil
}

func (r *FakeGrantRepo) DeleteExpiredBefore(cutoff time.Time) (int, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	removed := 0
	for key, g := range r.grants {
		if g.Expires.UTC().Before(cutoff.UTC()) {
			delete(r.grants, key)
			removed++
		}
	}
	return removed, nil
}
