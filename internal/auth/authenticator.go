package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// TokenIssuer signs tokens for an authenticated subject.
type TokenIssuer interface {
	Issue(subject string) (Token, error)
}

// Authenticator checks credentials and issues tokens.
type Authenticator struct {
	store    CredentialStore
	verifier PasswordVerifier
	issuer   TokenIssuer
	timeout  time.Duration
	logger   *zap.SugaredLogger
}

func NewAuthenticator(store CredentialStore, verifier PasswordVerifier, issuer TokenIssuer, timeout time.Duration, logger *zap.SugaredLogger) *Authenticator {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Authenticator{store: store, verifier: verifier, issuer: issuer, timeout: timeout, logger: logger}
}

// Login returns a token when the username exists and the password matches.
// Unknown usernames and wrong passwords both yield ErrAuthenticationFailed.
func (a *Authenticator) Login(ctx context.Context, cred Credential) (Token, error) {
	identity, err := lookup(ctx, a.store, a.timeout, cred.Username)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			a.logger.Debugw("login rejected", "reason", "unknown username")
			return Token{}, ErrAuthenticationFailed
		}
		return Token{}, fmt.Errorf("find identity: %w", err)
	}
	if !a.verifier.Matches(cred.Password, identity.PasswordHash) {
		a.logger.Debugw("login rejected", "reason", "password mismatch", "user_id", identity.ID)
		return Token{}, ErrAuthenticationFailed
	}
	tok, err := a.issuer.Issue(identity.Username)
	if err != nil {
		return Token{}, err
	}
	a.logger.Infow("login succeeded", "user_id", identity.ID)
	return tok, nil
}

// lookup bounds a store call with timeout. An earlier caller deadline still applies.
func lookup(ctx context.Context, store CredentialStore, timeout time.Duration, username string) (*Identity, error) {
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return store.FindByUsername(ctx, username)
}
