package rbac

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/pricingkit/pkg/errkind"
)

// RoleHeader is the default header carrying the caller role.
const RoleHeader = "X-Role"

// ErrorHandler writes the response for a rejected request.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// RoleExtractor reads the caller role from a request.
type RoleExtractor func(r *http.Request) (string, bool)

type middlewareConfig struct {
	extractRole  RoleExtractor
	errorHandler ErrorHandler
}

// MiddlewareOption configures Middleware.
type MiddlewareOption func(*middlewareConfig)

// WithRoleExtractor overrides how the role is read. By default the role already
// in the request context wins, then the X-Role header.
func WithRoleExtractor(fn RoleExtractor) MiddlewareOption {
	return func(c *middlewareConfig) {
		if fn != nil {
			c.extractRole = fn
		}
	}
}

// WithErrorHandler overrides the rejection response.
func WithErrorHandler(fn ErrorHandler) MiddlewareOption {
	return func(c *middlewareConfig) {
		if fn != nil {
			c.errorHandler = fn
		}
	}
}

// Middleware authorizes each request against the caller's role. The verb is
// the HTTP method and the module is the first segment of the chi route
// pattern, or of the URL path when no pattern is available. Permitted
// requests carry the role in their context.
func Middleware(auth Authorizer, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{
		extractRole:  defaultRoleExtractor,
		errorHandler: defaultErrorHandler,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			name, ok := cfg.extractRole(r)
			if !ok {
				cfg.errorHandler(w, r, ErrRoleNotInContext)
				return
			}
			role, err := ParseRole(name)
			if err != nil {
				cfg.errorHandler(w, r, err)
				return
			}

			if err := auth.Can(string(role), r.Method, Module(r)); err != nil {
				cfg.errorHandler(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithRole(r.Context(), role)))
		})
	}
}

// Module returns the module a request targets.
func Module(r *http.Request) string {
	path := r.URL.Path
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" && pattern != "/*" {
			path = pattern
		}
	}
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	return path
}

func defaultRoleExtractor(r *http.Request) (string, bool) {
	if role, ok := RoleFromContext(r.Context()); ok {
		return string(role), true
	}
	if h := r.Header.Get(RoleHeader); h != "" {
		return h, true
	}
	return "", false
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	out := errkind.Classify(err)
	http.Error(w, out.Key, out.Code)
}
