package auth

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = []byte("auth-package-test-secret-32bytes")

type memStore struct {
	mu          sync.RWMutex
	identities  map[string]*Identity
	err         error
	sawDeadline bool
}

func newMemStore() *memStore {
	return &memStore{identities: map[string]*Identity{}}
}

func (m *memStore) FindByUsername(ctx context.Context, username string) (*Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, m.sawDeadline = ctx.Deadline()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	id, ok := m.identities[username]
	if !ok {
		return nil, ErrIdentityNotFound
	}
	cp := *id
	return &cp, nil
}

func (m *memStore) put(t *testing.T, id int64, username, password, roles string) {
	t.Helper()
	hash, err := testHasher.Hash(password)
	require.NoError(t, err)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identities[username] = &Identity{ID: id, Username: username, PasswordHash: hash, Roles: ParseRoles(roles)}
}

func (m *memStore) remove(username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.identities, username)
}

var testHasher = BcryptHasher{Cost: bcrypt.MinCost}
