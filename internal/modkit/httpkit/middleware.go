package httpkit

import (
	"net/http"
	"time"

	"addrcheck/internal/platform/net/middleware"
)

// CommonStack is the per API middleware: CORS and a request deadline.
// Ids, recovery and access logs live on the root router
func CommonStack(origins ...string) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: origins, MaxAge: 300}),
		middleware.Timeout(30 * time.Second),
	}
}
