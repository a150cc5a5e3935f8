// Package router is a thin named-route layer over chi. Every screen route
// has a name so redirects and the `routes` command can refer to it without
// repeating paths.
package router

import (
	"fmt"
	"net/http"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

type Middleware = func(http.Handler) http.Handler

// RouteInfo describes one named route.
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// Router owns the chi mux and the name table shared by its groups.
type Router struct {
	root *Group
	mux  chi.Router

	mu    sync.RWMutex
	names map[string]RouteInfo
}

// Group mounts routes under a path prefix behind a middleware stack.
type Group struct {
	root   *Router
	prefix string
	stack  []Middleware
}

func New() *Router {
	r := &Router{mux: chi.NewRouter(), names: make(map[string]RouteInfo)}
	r.root = &Group{root: r, prefix: "/"}
	return r
}

func (r *Router) Group(prefix string, mws ...Middleware) *Group { return r.root.Group(prefix, mws...) }

func (r *Router) Get(p, name string, h http.HandlerFunc, mws ...Middleware) {
	r.root.Get(p, name, h, mws...)
}

func (r *Router) Post(p, name string, h http.HandlerFunc, mws ...Middleware) {
	r.root.Post(p, name, h, mws...)
}

func (r *Router) Handler() http.Handler { return r.mux }

// Use adds global middleware. Call it before mounting routes.
func (r *Router) Use(mws ...Middleware) { r.mux.Use(mws...) }

// Handle mounts h for every method at p, unnamed. Used for the operational
// endpoints.
func (r *Router) Handle(p string, h http.Handler) { r.mux.Handle(clean(p), h) }

func (r *Router) NotFound(h http.HandlerFunc) { r.mux.NotFound(h) }

// Routes lists the named routes sorted by path, then method.
func (r *Router) Routes() []RouteInfo {
	r.mu.RLock()
	out := make([]RouteInfo, 0, len(r.names))
	for _, ri := range r.names {
		out = append(out, ri)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b RouteInfo) int {
		if c := strings.Compare(a.Path, b.Path); c != 0 {
			return c
		}
		return strings.Compare(a.Method, b.Method)
	})
	return out
}

func (r *Router) Path(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ri, ok := r.names[name]
	return ri.Path, ok
}

// URL fills the {param} placeholders of the named route.
func (r *Router) URL(name string, params map[string]string) (string, error) {
	p, ok := r.Path(name)
	if !ok {
		return "", fmt.Errorf("router: no route named %q", name)
	}
	for k, v := range params {
		p = strings.ReplaceAll(p, "{"+k+"}", v)
	}
	if strings.Contains(p, "{") {
		return "", fmt.Errorf("router: %q needs parameters: %s", name, p)
	}
	return p, nil
}

// Group returns a child group. Its middleware runs after the parent's.
func (g *Group) Group(prefix string, mws ...Middleware) *Group {
	return &Group{
		root:   g.root,
		prefix: clean(path.Join(g.prefix, prefix)),
		stack:  append(slices.Clone(g.stack), mws...),
	}
}

func (g *Group) Get(p, name string, h http.HandlerFunc, mws ...Middleware) {
	g.Method(http.MethodGet, p, name, h, mws...)
}

func (g *Group) Post(p, name string, h http.HandlerFunc, mws ...Middleware) {
	g.Method(http.MethodPost, p, name, h, mws...)
}

func (g *Group) Put(p, name string, h http.HandlerFunc, mws ...Middleware) {
	g.Method(http.MethodPut, p, name, h, mws...)
}

func (g *Group) Delete(p, name string, h http.HandlerFunc, mws ...Middleware) {
	g.Method(http.MethodDelete, p, name, h, mws...)
}

// Method mounts h and records it under name. Reusing a name panics.
func (g *Group) Method(method, p, name string, h http.Handler, mws ...Middleware) {
	full := clean(path.Join(g.prefix, p))
	stack := append(slices.Clone(g.stack), mws...)
	if len(stack) == 0 {
		g.root.mux.Method(method, full, h)
	} else {
		g.root.mux.With(stack...).Method(method, full, h)
	}
	if name == "" {
		return
	}

	g.root.mu.Lock()
	defer g.root.mu.Unlock()
	if prev, dup := g.root.names[name]; dup {
		panic(fmt.Sprintf("router: %q already names %s %s", name, prev.Method, prev.Path))
	}
	g.root.names[name] = RouteInfo{Method: method, Path: full, Name: name}
}

func clean(p string) string {
	if p == "" {
		return "/"
	}
	return path.Clean("/" + strings.Trim(p, "/"))
}
