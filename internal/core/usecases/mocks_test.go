package usecases_test

import (
	"context"
	"errors"
	"sync"

	"github.com/samirrijal/placemap/internal/core/domain"
)

// --- Mock PlacesLookup ---

type mockLookup struct {
	searchFn func(ctx context.Context, q domain.NearbyQuery) ([]domain.Place, error)
	calls    int
}

func (m *mockLookup) SearchNearby(ctx context.Context, q domain.NearbyQuery) ([]domain.Place, error) {
	m.calls++
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return nil, nil
}

// --- Mock SavedPlacesStore ---

type mockStore struct {
	listFn   func(ctx context.Context, token string) ([]domain.SavedPlace, error)
	createFn func(ctx context.Context, token string, p domain.SavedPlace) (*domain.SavedPlace, error)
	deleteFn func(ctx context.Context, token, id string) error
}

func (m *mockStore) List(ctx context.Context, token string) ([]domain.SavedPlace, error) {
	if m.listFn != nil {
		return m.listFn(ctx, token)
	}
	return nil, nil
}

func (m *mockStore) Create(ctx context.Context, token string, p domain.SavedPlace) (*domain.SavedPlace, error) {
	if m.createFn != nil {
		return m.createFn(ctx, token, p)
	}
	return &p, nil
}

func (m *mockStore) Delete(ctx context.Context, token, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, token, id)
	}
	return nil
}

// --- Mock Authenticator ---

type mockAuth struct {
	loginFn    func(ctx context.Context, username, password string) (*domain.AuthResult, error)
	registerFn func(ctx context.Context, username, email, password string) (*domain.AuthResult, error)
	calls      int
}

func (m *mockAuth) Login(ctx context.Context, username, password string) (*domain.AuthResult, error) {
	m.calls++
	if m.loginFn != nil {
		return m.loginFn(ctx, username, password)
	}
	return &domain.AuthResult{User: domain.User{Username: username}, Token: "tok"}, nil
}

func (m *mockAuth) Register(ctx context.Context, username, email, password string) (*domain.AuthResult, error) {
	m.calls++
	if m.registerFn != nil {
		return m.registerFn(ctx, username, email, password)
	}
	return &domain.AuthResult{User: domain.User{Username: username, Email: email}, Token: "tok"}, nil
}

// --- In-memory CacheService ---

var errCacheMiss = errors.New("cache miss")

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttl  map[string]int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, ttl: map[string]int{}}
}

func (c *memCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, errCacheMiss
	}
	return v, nil
}

func (c *memCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.ttl[key] = ttlSeconds
	return nil
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}
