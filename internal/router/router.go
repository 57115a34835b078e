package router

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-tasks-go/internal/auth"
	"github.com/ovaphlow/pitchfork/service-tasks-go/internal/docs"
	"github.com/ovaphlow/pitchfork/service-tasks-go/internal/task"
	"github.com/ovaphlow/pitchfork/service-tasks-go/internal/user"
	"github.com/ovaphlow/pitchfork/service-tasks-go/pkg/utilities"
)

const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestID returns the id assigned by RequestIDMiddleware, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestIDMiddleware keeps an incoming X-Request-ID or assigns a KSUID, and
// echoes it on the response.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = utilities.NewKSUID()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

// LoggingMiddleware logs every request at debug level. The Authorization
// header is never logged.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Debugw("http request",
				"request_id", RequestID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", status,
				"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
				"size", lrw.size,
			)
		})
	}
}

// SecurityHeadersMiddleware sets common HTTP security headers.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "no-referrer-when-downgrade")
			w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
			// swagger ui pulls its bundle from unpkg
			if r.URL.Path != docs.UIPath && r.URL.Path != "/swagger-ui/" {
				w.Header().Set("Content-Security-Policy", "default-src 'self'; object-src 'none'; base-uri 'self';")
			}
			if r.TLS != nil {
				w.Header().Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Deps are the handlers the router mounts.
type Deps struct {
	Logger *zap.SugaredLogger
	Gate   *auth.Gate
	Users  *user.Handler
	Tasks  *task.Handler
	Docs   *docs.Handler
}

// RegisterRoutes mounts every route on a stdlib ServeMux. Registration, login,
// docs and health are public; everything else passes the gate and requires a
// principal.
func RegisterRoutes(d Deps) http.Handler {
	mux := http.NewServeMux()
	protected := func(h http.HandlerFunc) http.Handler {
		return d.Gate.Middleware(auth.RequireAuth(h))
	}

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET "+docs.SpecPath, d.Docs.Spec)
	mux.HandleFunc("GET "+docs.UIPath, d.Docs.UI)
	mux.HandleFunc("GET /swagger-ui/", d.Docs.UI)

	mux.HandleFunc("POST "+user.CollectionPath+"/cadastro", d.Users.Signup)
	mux.HandleFunc("POST "+user.CollectionPath+"/login", d.Users.Login)
	mux.HandleFunc("POST /login", d.Users.Login)
	mux.Handle("GET "+user.CollectionPath, protected(d.Users.List))
	mux.Handle("GET "+user.CollectionPath+"/{id}", protected(d.Users.Show))
	mux.Handle("PUT "+user.CollectionPath+"/{id}", protected(d.Users.Update))
	mux.Handle("DELETE "+user.CollectionPath+"/{id}", protected(d.Users.Delete))

	mux.Handle("GET "+task.CollectionPath, protected(d.Tasks.List))
	mux.Handle("POST "+task.CollectionPath, protected(d.Tasks.Create))
	mux.Handle("GET "+task.CollectionPath+"/{id}", protected(d.Tasks.Show))
	mux.Handle("PUT "+task.CollectionPath+"/{id}", protected(d.Tasks.Update))
	mux.Handle("DELETE "+task.CollectionPath+"/{id}", protected(d.Tasks.Delete))

	return RequestIDMiddleware(LoggingMiddleware(d.Logger)(SecurityHeadersMiddleware()(mux)))
}
