package rbac_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pricingkit/pkg/rbac"
)

func newRouter(t *testing.T, opts ...rbac.MiddlewareOption) http.Handler {
	t.Helper()

	r := chi.NewRouter()
	r.Use(rbac.Middleware(newAuthorizer(t), opts...))
	handler := func(w http.ResponseWriter, r *http.Request) {
		role, _ := rbac.RoleFromContext(r.Context())
		_, _ = w.Write([]byte(string(role)))
	}
	r.Get("/services/{name}", handler)
	r.Delete("/services/{name}", handler)
	r.Post("/features/{contractID}", handler)
	return r
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		method   string
		path     string
		role     string
		wantCode int
		wantBody string
	}{
		{"manager reads", http.MethodGet, "/services/zoom", "manager", http.StatusOK, "manager"},
		{"manager cannot delete", http.MethodDelete, "/services/zoom", "manager", http.StatusForbidden, "forbidden\n"},
		{"admin deletes", http.MethodDelete, "/services/zoom", "admin", http.StatusOK, "admin"},
		{"evaluator evaluates", http.MethodPost, "/features/c1", "evaluator", http.StatusOK, "evaluator"},
		{"evaluator cannot delete", http.MethodDelete, "/services/zoom", "evaluator", http.StatusForbidden, "forbidden\n"},
		{"missing role", http.MethodGet, "/services/zoom", "", http.StatusForbidden, "forbidden\n"},
		{"unknown role", http.MethodGet, "/services/zoom", "owner", http.StatusForbidden, "forbidden\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.role != "" {
				req.Header.Set(rbac.RoleHeader, tt.role)
			}
			rec := httptest.NewRecorder()
			newRouter(t).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestMiddlewareOptions(t *testing.T) {
	t.Parallel()

	var handled error
	router := newRouter(t,
		rbac.WithRoleExtractor(func(r *http.Request) (string, bool) {
			return r.URL.Query().Get("role"), true
		}),
		rbac.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			handled = err
			w.WriteHeader(http.StatusTeapot)
		}),
	)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/services/zoom?role=manager", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	require.ErrorIs(t, handled, rbac.ErrForbidden)
}

func TestModule(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/contracts/abc/usage", nil)
	assert.Equal(t, "contracts", rbac.Module(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", rbac.Module(req))
}
