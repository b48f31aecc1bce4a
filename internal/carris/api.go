// Package carris is a client for the Carris Metropolitana v2 API.
//
// Two backends implement API: Client, a plain net/http client that buffers
// responses on the heap, and EmbeddedClient, which works inside two
// caller-supplied fixed buffers and reports ErrTooLarge instead of growing
// them. Call sites that only need arrivals and stops depend on API and work
// with either.
package carris

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"

	"github.com/carris-ui/carris/internal/models"
)

// DefaultBaseURL is the production v2 API.
const DefaultBaseURL = "https://api.carrismetropolitana.pt/v2"

// API is the read-only surface of the Carris Metropolitana API used by the
// stop cache, the CLI and the board server. Implementations never retry and
// impose no timeout of their own; the caller's context bounds each call.
type API interface {
	// ArrivalsByStop issues GET {base}/arrivals/by_stop/{stopID}.
	ArrivalsByStop(ctx context.Context, stopID string) ([]models.Arrival, error)
	// AllStops issues GET {base}/stops.
	AllStops(ctx context.Context) ([]models.Stop, error)
}

const stopsPath = "/stops"

// arrivalsPath builds the request path for a stop. The id is path-escaped so
// reserved characters cannot change the request target.
func arrivalsPath(stopID string) string {
	return "/arrivals/by_stop/" + url.PathEscape(stopID)
}

func normalizeBaseURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/")
}

// decodeList decodes a complete response body holding a JSON array. A JSON
// null is rejected the same way an object is.
func decodeList[T any](rawURL string, body []byte) ([]T, error) {
	var out []T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &DecodeError{URL: rawURL, Err: err}
	}
	if out == nil {
		return nil, &DecodeError{URL: rawURL, Err: errors.New("expected a JSON array, got null")}
	}
	return out, nil
}
