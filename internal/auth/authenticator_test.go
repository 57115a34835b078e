package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticator_Login(t *testing.T) {
	store := newMemStore()
	store.put(t, 1, "alice", "secret123", "user")
	codec := newTestCodec(t, nil)
	a := NewAuthenticator(store, testHasher, codec, 0, nil)

	tok, err := a.Login(context.Background(), Credential{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, TokenType, tok.Type)
	assert.Equal(t, TokenPrefix, tok.Prefix)
	assert.True(t, store.sawDeadline, "store lookup should carry a deadline")

	sub, err := codec.Verify(tok.Value)
	require.NoError(t, err)
	assert.Equal(t, "alice", sub)
}

func TestAuthenticator_LoginFailuresAreIndistinguishable(t *testing.T) {
	store := newMemStore()
	store.put(t, 1, "alice", "secret123", "user")
	a := NewAuthenticator(store, testHasher, newTestCodec(t, nil), 0, nil)

	_, unknownErr := a.Login(context.Background(), Credential{Username: "mallory", Password: "secret123"})
	_, wrongPwErr := a.Login(context.Background(), Credential{Username: "alice", Password: "nope-nope"})

	assert.ErrorIs(t, unknownErr, ErrAuthenticationFailed)
	assert.ErrorIs(t, wrongPwErr, ErrAuthenticationFailed)
	assert.Equal(t, unknownErr.Error(), wrongPwErr.Error())
}

func TestAuthenticator_StoreFailurePropagates(t *testing.T) {
	boom := errors.New("connection refused")
	store := newMemStore()
	store.err = boom
	a := NewAuthenticator(store, testHasher, newTestCodec(t, nil), 0, nil)

	_, err := a.Login(context.Background(), Credential{Username: "alice", Password: "secret123"})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrAuthenticationFailed)
}

func TestAuthenticator_CancelledContext(t *testing.T) {
	store := newMemStore()
	store.put(t, 1, "alice", "secret123", "user")
	a := NewAuthenticator(store, testHasher, newTestCodec(t, nil), 0, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := a.Login(ctx, Credential{Username: "alice", Password: "secret123"})
	assert.ErrorIs(t, err, context.Canceled)
}
