package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/api/current-time.json", api.currentTimeHandler)
	router.HandlerFunc(http.MethodGet, "/api/stops.json", api.stopsHandler)
	router.HandlerFunc(http.MethodGet, "/api/stop/:id", api.stopHandler)
	router.HandlerFunc(http.MethodGet, "/api/stops-for-line/:id", api.stopsForLineHandler)
	router.HandlerFunc(http.MethodGet, "/api/arrivals-for-stop/:id", api.arrivalsForStopHandler)

	router.NotFound = http.HandlerFunc(api.sendNotFound)
	router.HandleOPTIONS = false
}

// Handler wraps router with the middleware stack: request logging, security
// headers, per-client rate limiting and gzip compression, outermost first.
func (api *RestAPI) Handler(router http.Handler) http.Handler {
	var handler http.Handler = router
	handler = CompressionMiddleware(handler)
	handler = api.rateLimiter.Handler(handler)
	handler = api.WithSecurityHeaders(handler)
	handler = NewRequestLoggingMiddleware(api.Logger)(handler)
	return handler
}
