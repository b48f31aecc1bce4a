package app

import (
	"context"
	"sync"

	"github.com/carris-ui/carris/internal/carris"
	"github.com/carris-ui/carris/internal/models"
)

// NewAPI builds the backend named by cfg.Backend. The embedded backend is
// returned wrapped in a SerializedAPI.
func NewAPI(cfg Config) (carris.API, error) {
	backend, err := ParseBackend(string(cfg.Backend))
	if err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = carris.DefaultBaseURL
	}

	if backend == BackendEmbedded {
		client, err := carris.NewEmbeddedClientWithBaseURL(baseURL, nil,
			make([]byte, cfg.RxBufferSize), make([]byte, cfg.BodyBufferSize))
		if err != nil {
			return nil, err
		}
		return NewSerializedAPI(client), nil
	}
	return carris.NewClientWithBaseURL(baseURL), nil
}

// SerializedAPI lets a backend that is not safe for concurrent use be shared:
// calls run one at a time.
type SerializedAPI struct {
	mu  sync.Mutex
	api carris.API
}

var _ carris.API = (*SerializedAPI)(nil)

func NewSerializedAPI(api carris.API) *SerializedAPI {
	return &SerializedAPI{api: api}
}

func (s *SerializedAPI) ArrivalsByStop(ctx context.Context, stopID string) ([]models.Arrival, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.api.ArrivalsByStop(ctx, stopID)
}

func (s *SerializedAPI) AllStops(ctx context.Context) ([]models.Stop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.api.AllStops(ctx)
}
