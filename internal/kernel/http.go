// Package kernel assembles the local HTTP surface: global middleware, the
// screen routes and the operational endpoints.
package kernel

import (
	"context"
	"net/http"
	"time"

	"github.com/shashiranjanraj/storefront/app/controllers"
	"github.com/shashiranjanraj/storefront/app/routes"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/api"
	"github.com/shashiranjanraj/storefront/pkg/graphql"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/reqid"
	"github.com/shashiranjanraj/storefront/pkg/response"
	"github.com/shashiranjanraj/storefront/pkg/router"
	"github.com/shashiranjanraj/storefront/pkg/sse"
	"github.com/shashiranjanraj/storefront/pkg/store"
	"github.com/shashiranjanraj/storefront/pkg/ws"
)

// HTTPKernel owns the router and the websocket hub.
type HTTPKernel struct {
	router *router.Router
	hub    *ws.Hub
	detach func()
}

// NewHTTPKernel builds the handler tree. The hub runs until ctx is done.
//
// Global middleware, outermost first:
//  1. metrics, for the full latency
//  2. recovery, the error boundary
//  3. request id, before anything logs
//  4. logger
//  5. CORS
//  6. action rate limit
func NewHTTPKernel(ctx context.Context, st *store.Store, client *api.Client) (*HTTPKernel, error) {
	r := router.New()
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(config.CORSOrigins()...))
	if n := config.RateLimit(); n > 0 {
		r.Use(middleware.NewLimiter(n, time.Minute).Middleware)
	}

	r.Handle("/metrics", metrics.Handler())
	r.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]any{"status": "ok", "api": client.BaseURL()})
	}))

	hub := ws.NewHub(st.State)
	go hub.Run(ctx)
	r.Handle("/ws", hub)
	r.Handle("/events", sse.Changes(st.Bus(), st.State))

	schema, err := graphql.NewSchema(st.State, client)
	if err != nil {
		return nil, err
	}
	r.Handle("/graphql", graphql.Handler(schema))

	routes.Register(r, controllers.New(st, services.New(st, client)))
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { response.NotFound(w) })

	return &HTTPKernel{router: r, hub: hub, detach: hub.Attach(st.Bus())}, nil
}

func (k *HTTPKernel) Handler() http.Handler { return k.router.Handler() }

// Routes lists the named screen routes.
func (k *HTTPKernel) Routes() []router.RouteInfo { return k.router.Routes() }

// Close stops forwarding store changes to the hub.
func (k *HTTPKernel) Close() { k.detach() }
