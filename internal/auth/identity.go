package auth

import (
	"context"
	"slices"
	"strings"
)

// Identity is the view of a stored user the auth layer needs.
type Identity struct {
	ID           int64
	Username     string
	PasswordHash string
	Roles        []string
}

// Credential is a login attempt. It is never persisted.
type Credential struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CredentialStore resolves identities by username. Implementations return
// ErrIdentityNotFound when no identity matches.
type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (*Identity, error)
}

// Principal is the authenticated caller attached to a request context.
type Principal struct {
	ID       int64
	Username string
	Roles    []string
}

// HasRole reports whether the principal carries the given capability tag.
func (p *Principal) HasRole(role string) bool {
	return slices.Contains(p.Roles, role)
}

// ParseRoles splits a stored role string ("admin, user") into tags.
func ParseRoles(s string) []string {
	var out []string
	for _, r := range strings.Split(s, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the request principal, or nil for unauthenticated requests.
func FromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}
