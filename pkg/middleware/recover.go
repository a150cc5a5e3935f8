package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/shashiranjanraj/storefront/pkg/logger"
)

type boundaryBody struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Home    string `json:"home"`
}

// Recovery is the error boundary of the local surface: a panic in a screen
// is logged with its stack and answered with a generic failure that links
// back home. Nothing about the panic reaches the client.
//
//	r.Use(metrics.Middleware())
//	r.Use(middleware.Recovery)
//	r.Use(reqid.Middleware())
//	r.Use(middleware.Logger)
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				logger.WithCtx(r.Context()).Error("panic recovered",
					"error", fmt.Sprintf("%v", err),
					"stack", string(debug.Stack()),
					"method", r.Method,
					"path", r.URL.Path,
				)
				writeJSON(w, http.StatusInternalServerError, boundaryBody{
					Status:  http.StatusInternalServerError,
					Message: "Something went wrong",
					Home:    "/",
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
