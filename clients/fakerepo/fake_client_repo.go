package fakeclientrepo

import (
	"sort"
	"sync"

	"github.com/e3nupj2j1/Django-Oauth2-Provider/clients"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/internal/errors"
	"github.com/google/uuid"
)

var _ clients.Repo = (*FakeClientRepo)(nil)

// FakeClientRepo is a mutex-guarded in-memory client repository. It enforces
// client identifier uniqueness the way a database unique index would.
type FakeClientRepo struct {
	clients map[string]*clients.Client
	lock    sync.RWMutex
}

func NewFakeClientRepo() *FakeClientRepo {
	return &FakeClientRepo{
		clients: make(map[string]*clients.Client),
	}
}

func (r *FakeClientRepo) Create(client *clients.Client) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.clients[client.ClientID]; ok {
		return errors.Wrapf(errors.ErrUniqueConstraint, "client id %q", client.ClientID)
	}
	if client.ID == "" {
		client.ID = uuid.New().String()
	}

	copied := *client
	r.clients[client.ClientID] = &copied
	return nil
}

func (r *FakeClientRepo) Get(clientID string) (*clients.Client, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	client, ok := r.clients[clientID]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "client id %q", clientID)
	}
	copied := *client
	return &copied, nil
}

func (r *FakeClientRepo) Update(client *clients.Client) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.clients[client.ClientID]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "client id %q", client.ClientID)
	}
	copied := *client
	r.clients[client.ClientID] = &copied
	return nil
}

func (r *FakeClientRepo) Delete(clientID string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	delete(r.clients, clientID)
	return nil
}

func (r *FakeClientRepo) List(offset, limit int) ([]*clients.Client, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	all := make([]*clients.Client, 0, len(r.clients))
	for _, c := range r.clients {
		copied := *c
		all = append(all, &copied)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].ClientID < all[j].ClientID
	})

	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}
