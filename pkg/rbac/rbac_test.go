package rbac

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/galeria/pkg/auth"
	"github.com/shashiranjanraj/galeria/pkg/middleware"
)

func serve(h http.Handler, ctx context.Context) int {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestAdmin(t *testing.T) {
	h := Admin(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	assert.Equal(t, http.StatusUnauthorized, serve(h, context.Background()))
	assert.Equal(t, http.StatusForbidden, serve(h, middleware.WithIdentity(context.Background(), "u1", auth.RoleCustomer)))
	assert.Equal(t, http.StatusOK, serve(h, middleware.WithIdentity(context.Background(), "u2", auth.RoleAdmin)))
}

func TestGuest(t *testing.T) {
	h := Guest(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	assert.Equal(t, http.StatusOK, serve(h, context.Background()))
	assert.Equal(t, http.StatusConflict, serve(h, middleware.WithIdentity(context.Background(), "u1", auth.RoleCustomer)))
}
