package carris

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrTooLarge is returned by EmbeddedClient when the request URL, the
// response headers or the response body does not fit its fixed buffers.
var ErrTooLarge = errors.New("carris: response exceeds buffer capacity")

// TransportError reports a failure to obtain a response: DNS, TCP, TLS,
// HTTP framing, cancellation or a non-2xx status (see StatusError).
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("carris: GET %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError reports a response body that is not the expected JSON shape,
// including an Arrival whose line_id is not a numeric string.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("carris: decode %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// StatusError is wrapped in a TransportError when the API answers with a
// status outside 2xx.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func checkStatus(code int) error {
	if code < 200 || code > 299 {
		return &StatusError{StatusCode: code}
	}
	return nil
}
