// Package restapi serves the arrivals board and the stop index over HTTP.
package restapi

import (
	"time"

	"github.com/carris-ui/carris/internal/app"
)

type RestAPI struct {
	*app.Application
	rateLimiter *RateLimitMiddleware
	now         func() time.Time
}

// NewRestAPI creates a new RestAPI instance with initialized rate limiter
func NewRestAPI(app *app.Application) *RestAPI {
	return &RestAPI{
		Application: app,
		rateLimiter: NewRateLimitMiddleware(app.Config.RateLimit, time.Second),
		now:         time.Now,
	}
}

// Close stops background work started by NewRestAPI.
func (api *RestAPI) Close() {
	api.rateLimiter.Stop()
}
