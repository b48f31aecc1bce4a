package carris

import (
	"bufio"
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/carris-ui/carris/internal/models"
)

// MaxURLLen is the capacity of the request URL buffer of EmbeddedClient.
const MaxURLLen = 128

// headerReaderSize is the bufio window over the connection once the header
// block has been located in the receive buffer.
const headerReaderSize = 256

// Dialer opens the TCP (or TLS) connection for EmbeddedClient. *net.Dialer
// and *tls.Dialer satisfy it, as does any test double.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// EmbeddedClient is the fixed-buffer backend. It owns two caller-supplied
// buffers: rxBuf holds the outgoing request and the incoming header block,
// bodyBuf holds the response body that is decoded. Neither grows. Anything
// that does not fit is reported as ErrTooLarge.
//
// An EmbeddedClient is not safe for concurrent use: calls share the buffers.
// Serialise access on the caller side.
type EmbeddedClient struct {
	baseURL  string
	basePath string
	host     string
	address string
	dialer  Dialer
	rxBuf   []byte
	bodyBuf []byte
}

var _ API = (*EmbeddedClient)(nil)

// NewEmbeddedClient returns an EmbeddedClient for the production API. A nil
// dialer dials with net.Dialer, wrapped in TLS for https.
func NewEmbeddedClient(dialer Dialer, rxBuf, bodyBuf []byte) (*EmbeddedClient, error) {
	return NewEmbeddedClientWithBaseURL(DefaultBaseURL, dialer, rxBuf, bodyBuf)
}

func NewEmbeddedClientWithBaseURL(baseURL string, dialer Dialer, rxBuf, bodyBuf []byte) (*EmbeddedClient, error) {
	if len(rxBuf) == 0 || len(bodyBuf) == 0 {
		return nil, errors.New("carris: embedded client needs non-empty receive and body buffers")
	}

	baseURL = normalizeBaseURL(baseURL)
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("carris: invalid base url %q: %w", baseURL, err)
	}
	if u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("carris: base url %q must be absolute http or https", baseURL)
	}

	port := u.Port()
	if port == "" {
		port = "80"
		if u.Scheme == "https" {
			port = "443"
		}
	}

	if dialer == nil {
		if u.Scheme == "https" {
			dialer = &tls.Dialer{Config: &tls.Config{ServerName: u.Hostname(), MinVersion: tls.VersionTLS12}}
		} else {
			dialer = &net.Dialer{}
		}
	}

	return &EmbeddedClient{
		baseURL:  baseURL,
		basePath: strings.TrimRight(u.EscapedPath(), "/"),
		host:     u.Host,
		address:  net.JoinHostPort(u.Hostname(), port),
		dialer:   dialer,
		rxBuf:    rxBuf,
		bodyBuf:  bodyBuf,
	}, nil
}

func (c *EmbeddedClient) ArrivalsByStop(ctx context.Context, stopID string) ([]models.Arrival, error) {
	path := arrivalsPath(stopID)
	rawURL, err := c.renderURL(path)
	if err != nil {
		return nil, err
	}
	body, err := c.get(ctx, rawURL, path)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Arrival](rawURL, body)
}

func (c *EmbeddedClient) AllStops(ctx context.Context) ([]models.Stop, error) {
	rawURL, err := c.renderURL(stopsPath)
	if err != nil {
		return nil, err
	}
	body, err := c.get(ctx, rawURL, stopsPath)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Stop](rawURL, body)
}

// renderURL writes base+path into a MaxURLLen array. Overflow is reported
// before any network activity.
func (c *EmbeddedClient) renderURL(path string) (string, error) {
	var buf [MaxURLLen]byte
	n, err := appendFixed(buf[:], 0, c.baseURL, path)
	if err != nil {
		return "", err
	}
	return string(buf[:n]), nil
}

// get performs one GET of basePath+path with Connection: close and returns
// the body as a slice of bodyBuf, valid until the next call. rawURL only
// labels errors.
func (c *EmbeddedClient) get(ctx context.Context, rawURL, path string) ([]byte, error) {
	reqLen, err := appendFixed(c.rxBuf, 0,
		"GET ", c.basePath, path, " HTTP/1.1\r\n",
		"Host: ", c.host, "\r\n",
		"Accept: application/json\r\n",
		"Connection: close\r\n",
		"\r\n")
	if err != nil {
		return nil, err
	}

	conn, err := c.dialer.DialContext(ctx, "tcp", c.address)
	if err != nil {
		return nil, transportError(ctx, rawURL, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return nil, transportError(ctx, rawURL, err)
		}
	}
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	if _, err := conn.Write(c.rxBuf[:reqLen]); err != nil {
		return nil, transportError(ctx, rawURL, err)
	}

	received, err := c.readHeaderBlock(conn)
	if err != nil {
		if errors.Is(err, ErrTooLarge) {
			return nil, err
		}
		return nil, transportError(ctx, rawURL, err)
	}

	// The header block, and possibly the start of the body, sit in rxBuf.
	// The rest of the stream follows from the connection.
	stream := io.MultiReader(bytes.NewReader(c.rxBuf[:received]), conn)
	resp, err := http.ReadResponse(bufio.NewReaderSize(stream, headerReaderSize), nil)
	if err != nil {
		return nil, transportError(ctx, rawURL, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, &TransportError{URL: rawURL, Err: err}
	}
	if resp.ContentLength > int64(len(c.bodyBuf)) {
		return nil, ErrTooLarge
	}

	total, err := readFull(resp.Body, c.bodyBuf)
	if err != nil {
		if errors.Is(err, ErrTooLarge) {
			return nil, err
		}
		return nil, transportError(ctx, rawURL, err)
	}
	return c.bodyBuf[:total], nil
}

// readHeaderBlock reads from conn into rxBuf until it holds "\r\n\r\n" and
// returns the number of bytes received. A full buffer without the terminator
// is ErrTooLarge.
func (c *EmbeddedClient) readHeaderBlock(conn io.Reader) (int, error) {
	terminator := []byte("\r\n\r\n")
	n := 0
	for {
		m, err := conn.Read(c.rxBuf[n:])
		// Only the new bytes, plus a tail that may start the terminator.
		from := max(0, n-len(terminator)+1)
		n += m
		if bytes.Contains(c.rxBuf[from:n], terminator) {
			return n, nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return n, io.ErrUnexpectedEOF
			}
			return n, err
		}
		if n == len(c.rxBuf) {
			return n, ErrTooLarge
		}
	}
}

// readFull reads r to EOF into buf. A body of exactly len(buf) bytes fits;
// one more byte is ErrTooLarge.
func readFull(r io.Reader, buf []byte) (int, error) {
	total := 0
	for {
		if total == len(buf) {
			var probe [1]byte
			m, err := r.Read(probe[:])
			if m > 0 {
				return total, ErrTooLarge
			}
			if errors.Is(err, io.EOF) {
				return total, nil
			}
			if err != nil {
				return total, err
			}
			continue
		}

		m, err := r.Read(buf[total:])
		total += m
		if errors.Is(err, io.EOF) {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// appendFixed copies parts into buf starting at n without ever growing it.
func appendFixed(buf []byte, n int, parts ...string) (int, error) {
	for _, p := range parts {
		if len(p) > len(buf)-n {
			return n, ErrTooLarge
		}
		n += copy(buf[n:], p)
	}
	return n, nil
}

// transportError prefers the context's error so callers can match
// context.Canceled and context.DeadlineExceeded.
func transportError(ctx context.Context, rawURL string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = ctxErr
	} else if deadline, ok := ctx.Deadline(); ok && !time.Now().Before(deadline) {
		err = context.DeadlineExceeded
	}
	return &TransportError{URL: rawURL, Err: err}
}
