//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	api "github.com/oshokin/fire-trigger/internal/api/http/trigger"
	"github.com/oshokin/fire-trigger/internal/config"
	domain "github.com/oshokin/fire-trigger/internal/domain/trigger"
)

// Client wraps the trigger HTTP API with convenience helpers.
type Client struct {
	// baseURL is the root URL of the trigger server.
	baseURL *url.URL
	// httpClient performs the requests.
	httpClient *http.Client

	// callTimeout is the default timeout for individual calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// maxResponseBytes caps response reads; the API only ever answers with
// short plain-text bodies.
const maxResponseBytes = 1 << 10

var (
	// errAddressRequired is returned when a required address value is missing.
	errAddressRequired = errors.New("address must be provided")
	// errActorRequired is returned when an actor is not provided but is required for the operation.
	errActorRequired = errors.New("actor must be provided")
	// errUnexpectedStatus is returned when the server answers with a non-200 code.
	errUnexpectedStatus = errors.New("unexpected http status")
	// errUnexpectedBody is returned when the server answers with an unknown body.
	errUnexpectedBody = errors.New("unexpected response body")
)

// Dial prepares a client for the trigger server at the provided host:port.
// Note: this uses plain HTTP; deploy on a trusted network or terminate TLS
// in a proxy until native TLS is added.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	baseURL, err := url.Parse("http://" + address)
	if err != nil {
		return nil, fmt.Errorf("parse server address: %w", err)
	}

	client := &Client{
		baseURL:     baseURL,
		httpClient:  &http.Client{},
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Close releases idle connections held by the underlying HTTP client.
func (c *Client) Close() error {
	if c == nil || c.httpClient == nil {
		return nil
	}

	c.httpClient.CloseIdleConnections()

	return nil
}

// GetFiredState retrieves the current fired state from /status.
func (c *Client) GetFiredState(ctx context.Context) (bool, error) {
	body, err := c.get(ctx, api.StatusPath, nil)
	if err != nil {
		return false, fmt.Errorf("get fired state: %w", err)
	}

	switch body {
	case api.StatusFired:
		return true, nil
	case api.StatusWaiting:
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", errUnexpectedBody, body)
	}
}

// SetFiredState updates the remote fired state via /fire or /reset.
func (c *Client) SetFiredState(ctx context.Context, actor *domain.Actor, isFired bool) error {
	if actor == nil {
		return errActorRequired
	}

	path, want := api.ResetPath, api.ResetResponseBody
	if isFired {
		path, want = api.FirePath, api.FireResponseBody
	}

	body, err := c.get(ctx, path, actor)
	if err != nil {
		return fmt.Errorf("set fired state: %w", err)
	}

	if body != want {
		return fmt.Errorf("%w: %q", errUnexpectedBody, body)
	}

	return nil
}

// get performs a GET against the given API path and returns the trimmed body.
func (c *Client) get(ctx context.Context, path string, actor *domain.Actor) (string, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	requestURL := c.baseURL.JoinPath(path).String()

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, requestURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	if actor != nil {
		req.Header.Set(api.ActorHeader, fmt.Sprintf("%s@%s", actor.Username, actor.Hostname))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	contents, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: %s: %w", requestURL, resp.Status, errUnexpectedStatus)
	}

	return strings.TrimSpace(string(contents)), nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
