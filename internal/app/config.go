package app

import (
	"fmt"
	"time"

	"github.com/carris-ui/carris/internal/appconf"
)

// Backend selects the carris.API implementation.
type Backend string

const (
	BackendStd      Backend = "std"
	BackendEmbedded Backend = "embedded"
)

func ParseBackend(s string) (Backend, error) {
	switch Backend(s) {
	case BackendStd, "":
		return BackendStd, nil
	case BackendEmbedded:
		return BackendEmbedded, nil
	default:
		return "", fmt.Errorf("unknown backend %q (std|embedded)", s)
	}
}

// Config holds all the configuration settings for our Application. It is
// filled from command-line flags and CARRIS_* environment variables when the
// process starts.
type Config struct {
	Env     appconf.Environment
	BaseURL string
	Backend Backend

	// Buffer sizes of the embedded backend. The body buffer must hold the
	// whole /stops catalogue for the stop cache to be populated.
	RxBufferSize   int
	BodyBufferSize int

	// RequestTimeout bounds each live arrivals request. Zero means no bound.
	RequestTimeout time.Duration

	Port      int
	RateLimit int // requests per second per client IP

	CacheDir  string
	ConfigDir string
	DBPath    string
	Verbose   bool
}

func DefaultConfig() Config {
	return Config{
		Env:            appconf.Development,
		Backend:        BackendStd,
		RxBufferSize:   4 * 1024,
		BodyBufferSize: 16 * 1024 * 1024,
		RequestTimeout: 10 * time.Second,
		Port:           4000,
		RateLimit:      10,
		DBPath:         ":memory:",
	}
}

func (c Config) Validate() error {
	if _, err := ParseBackend(string(c.Backend)); err != nil {
		return err
	}
	if c.Backend == BackendEmbedded && (c.RxBufferSize <= 0 || c.BodyBufferSize <= 0) {
		return fmt.Errorf("embedded backend needs positive buffer sizes, got rx=%d body=%d", c.RxBufferSize, c.BodyBufferSize)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request timeout must not be negative, got %s", c.RequestTimeout)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative, got %d", c.RateLimit)
	}
	return nil
}
