// Package ctx gives screen handlers a single request context.
//
// Instead of accepting (http.ResponseWriter, *http.Request), a handler
// receives a *Context with the helpers a screen needs:
//
//	func ShowProduct(c *ctx.Context) {
//	    view, err := svc.Catalog.Product(c.Context(), c.Param("id"))
//	    if err != nil {
//	        c.Fail(err)
//	        return
//	    }
//	    c.Success(view)
//	}
//
//	router.Get("/product/{id}", "product.show", ctx.Wrap(ShowProduct))
package ctx

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/storefront/pkg/bind"
	"github.com/shashiranjanraj/storefront/pkg/response"
)

type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	status int // 0 until a response is written
}

var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// Param returns a URL path parameter ("/order/{id}" → c.Param("id")).
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// Query returns a query-string value, "" when absent.
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// QueryInt returns a query-string integer, or def when absent or malformed.
func (c *Context) QueryInt(key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return n
}

func (c *Context) Context() context.Context { return c.R.Context() }

// Bind decodes a JSON or form body into dest and validates it. On failure
// it answers 400 or 422 itself and returns false.
//
//	var in services.LoginInput
//	if !c.Bind(&in) {
//	    return
//	}
func (c *Context) Bind(dest any) bool {
	errs, err := bind.Request(c.R, dest)
	if err != nil {
		c.status = http.StatusBadRequest
		response.Error(c.W, http.StatusBadRequest, err.Error())
		return false
	}
	if len(errs) > 0 {
		c.status = http.StatusUnprocessableEntity
		response.ValidationError(c.W, errs)
		return false
	}
	return true
}

// Success answers 200 with a screen's view model.
func (c *Context) Success(data any) {
	c.status = http.StatusOK
	response.Success(c.W, data)
}

// SeeOther answers a completed action with 303 and the next screen.
func (c *Context) SeeOther(to, message string) {
	c.status = http.StatusSeeOther
	response.SeeOther(c.W, to, message)
}

// Fail reports err with its mapped status and user-facing message.
func (c *Context) Fail(err error) {
	rec := &statusRecorder{ResponseWriter: c.W}
	response.Fail(rec, err)
	c.status = rec.status
}

func (c *Context) NotFound() {
	c.status = http.StatusNotFound
	response.NotFound(c.W)
}

// WrittenStatus returns the status written so far, or 0.
func (c *Context) WrittenStatus() int { return c.status }

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
