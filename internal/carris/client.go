package carris

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/klauspost/compress/gzhttp"

	"github.com/carris-ui/carris/internal/logging"
	"github.com/carris-ui/carris/internal/models"
)

// Client is the standard backend. Responses are read into heap buffers of
// whatever size they need.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ API = (*Client)(nil)

// NewClient returns a Client for the production API.
func NewClient() *Client {
	return NewClientWithBaseURL(DefaultBaseURL)
}

// NewClientWithBaseURL returns a Client for another deployment of the API,
// typically a mock server in tests.
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL: normalizeBaseURL(baseURL),
		httpClient: &http.Client{
			Transport: gzhttp.Transport(http.DefaultTransport),
		},
	}
}

func (c *Client) ArrivalsByStop(ctx context.Context, stopID string) ([]models.Arrival, error) {
	return getList[models.Arrival](ctx, c, c.baseURL+arrivalsPath(stopID))
}

func (c *Client) AllStops(ctx context.Context) ([]models.Stop, error) {
	return getList[models.Stop](ctx, c, c.baseURL+stopsPath)
}

func getList[T any](ctx context.Context, c *Client, rawURL string) ([]T, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &TransportError{URL: rawURL, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: rawURL, Err: err}
	}
	defer logging.SafeCloseWithLogging(resp.Body,
		logging.FromContext(ctx).With(slog.String("component", "carris_client")),
		"http_response_body")

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, &TransportError{URL: rawURL, Err: err}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: rawURL, Err: err}
	}

	return decodeList[T](rawURL, body)
}
