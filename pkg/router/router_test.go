package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/router"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestNamedRoutesAndURL(t *testing.T) {
	r := router.New()
	g := r.Group("/admin")
	g.Get("/product/{id}/edit", "admin.product.edit", ok)
	r.Get("/", "home", ok)
	r.Post("/cart/{id}", "cart.update", ok)

	url, err := r.URL("admin.product.edit", map[string]string{"id": "p1"})
	require.NoError(t, err)
	assert.Equal(t, "/admin/product/p1/edit", url)

	_, err = r.URL("admin.product.edit", nil)
	assert.Error(t, err)
	_, err = r.URL("nope", nil)
	assert.Error(t, err)

	routes := r.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, router.RouteInfo{Method: http.MethodGet, Path: "/", Name: "home"}, routes[0])
	assert.Equal(t, "/admin/product/{id}/edit", routes[1].Path)
}

func TestGroupMiddlewareOrder(t *testing.T) {
	var order []string
	mw := func(name string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, req)
			})
		}
	}

	r := router.New()
	outer := r.Group("/a", mw("outer"))
	inner := outer.Group("/b", mw("inner"))
	inner.Delete("/c", "c.delete", ok, mw("route"))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/a/b/c", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"outer", "inner", "route"}, order)
}

func TestHandleAndNotFound(t *testing.T) {
	r := router.New()
	r.Handle("/metrics", http.HandlerFunc(ok))
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Empty(t, r.Routes())
}

func TestDuplicateNamePanics(t *testing.T) {
	r := router.New()
	r.Get("/cart", "cart", ok)
	assert.Panics(t, func() { r.Group("/x").Get("/cart", "cart", ok) })
}

func TestGroupPathsAreCleaned(t *testing.T) {
	r := router.New()
	r.Group("/admin/").Get("//userlist/", "admin.userlist", ok)

	p, found := r.Path("admin.userlist")
	require.True(t, found)
	assert.Equal(t, "/admin/userlist", p)
}
