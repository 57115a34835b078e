package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-tasks-go/pkg/utilities"
)

const bearerPrefix = "Bearer "

// Gate establishes the caller's identity from the Authorization header.
type Gate struct {
	verifier TokenVerifier
	store    CredentialStore
	timeout  time.Duration
	logger   *zap.SugaredLogger
}

func NewGate(verifier TokenVerifier, store CredentialStore, timeout time.Duration, logger *zap.SugaredLogger) *Gate {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Gate{verifier: verifier, store: store, timeout: timeout, logger: logger}
}

// Authenticate resolves the principal for an Authorization header value.
// A missing header or a scheme other than "Bearer " yields (nil, nil): the
// request carries no token and stays unauthenticated. A token that fails
// verification yields ErrTokenInvalid; a valid token whose subject no longer
// exists yields ErrIdentityNotFound.
func (g *Gate) Authenticate(ctx context.Context, header string) (*Principal, error) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return nil, nil
	}
	tokenValue := strings.Replace(header, bearerPrefix, "", 1)

	subject, err := g.verifier.Verify(tokenValue)
	if err != nil {
		return nil, err
	}

	identity, err := lookup(ctx, g.store, g.timeout, subject)
	if err != nil {
		return nil, err
	}
	return &Principal{ID: identity.ID, Username: identity.Username, Roles: identity.Roles}, nil
}

// Middleware attaches the principal to the request context. Requests without
// a bearer token pass through unauthenticated; route policy decides later.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := g.Authenticate(r.Context(), r.Header.Get("Authorization"))
		switch {
		case err == nil:
		case errors.Is(err, ErrTokenInvalid):
			g.logger.Debugw("token rejected", "path", r.URL.Path)
			utilities.WriteError(w, http.StatusUnauthorized, "invalid token")
			return
		case errors.Is(err, ErrIdentityNotFound):
			g.logger.Debugw("token subject not found", "path", r.URL.Path)
			utilities.WriteError(w, http.StatusUnauthorized, "identity not found")
			return
		default:
			g.logger.Errorw("identity lookup failed", "path", r.URL.Path, "err", err)
			utilities.WriteError(w, http.StatusInternalServerError, "authentication unavailable")
			return
		}
		if p != nil {
			r = r.WithContext(WithPrincipal(r.Context(), p))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth rejects requests that reached it without a principal.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if FromContext(r.Context()) == nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
			utilities.WriteError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
