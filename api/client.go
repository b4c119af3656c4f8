package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/goccy/go-json"

	"github.com/dhis2/d2-data-apis/auth"
	"github.com/dhis2/d2-data-apis/config"
	e "github.com/dhis2/d2-data-apis/errors"
	"github.com/dhis2/d2-data-apis/log"
)

// Client is the transport used by the analytics and validation packages.
// Paths are relative to the server's "api/" root.
type Client interface {
	Get(ctx context.Context, path string, query url.Values) (Body, error)
	Post(ctx context.Context, path string, body interface{}) (Body, error)
	Put(ctx context.Context, path string, body interface{}) (Body, error)
}

var _ Client = (*HTTPClient)(nil)

// HTTPClient talks to a server over HTTP using basic authentication.
type HTTPClient struct {
	apiURL     *url.URL
	username   string
	password   string
	httpClient *http.Client
	logger     log.Logger
}

var (
	defaultMu     sync.Mutex
	defaultClient Client
)

// Default returns the process-wide client. Unless Configure or SetDefault
// was called it is built from the D2_ environment variables, see
// config.NewConfigFromEnv.
func Default() Client {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultClient == nil {
		defaultClient = newHTTPClient(config.NewConfigFromEnv(log.NewProductionLogger()))
	}
	return defaultClient
}

// SetDefault replaces the process-wide client. Passing nil resets it.
func SetDefault(client Client) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultClient = client
}

// Configure validates cfg and makes a client for it the process-wide default.
func Configure(cfg config.Config) error {
	client, err := NewHTTPClient(cfg)
	if err != nil {
		return err
	}
	SetDefault(client)
	return nil
}

func NewHTTPClient(cfg config.Config) (*HTTPClient, error) {
	if validatable, ok := cfg.(interface{ Validate() error }); ok {
		if err := validatable.Validate(); err != nil {
			return nil, fmt.Errorf("invalid client configuration: %w", err)
		}
	}
	return newHTTPClient(cfg), nil
}

func newHTTPClient(cfg config.Config) *HTTPClient {
	var transport http.RoundTripper = http.DefaultTransport
	if cfg.RequestLogging() {
		transport = log.NewLoggingTransport(transport, cfg.Logger())
	}

	return &HTTPClient{
		apiURL:   cfg.APIURL(),
		username: cfg.Username(),
		password: cfg.Password(),
		httpClient: &http.Client{
			Timeout:   cfg.Timeout(),
			Transport: transport,
		},
		logger: cfg.Logger(),
	}
}

// URL returns the absolute URL for an API path and query.
func (c *HTTPClient) URL(path string, query url.Values) string {
	u := c.apiURL.ResolveReference(&url.URL{Path: strings.TrimPrefix(path, "/")})
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *HTTPClient) Get(ctx context.Context, path string, query url.Values) (Body, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

func (c *HTTPClient) Post(ctx context.Context, path string, body interface{}) (Body, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

func (c *HTTPClient) Put(ctx context.Context, path string, body interface{}) (Body, error) {
	return c.do(ctx, http.MethodPut, path, nil, body)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body interface{}) (Body, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("unable to encode request body for '%s': %w", path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(path, query), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, application/xml, text/*")
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}

	if creds, ok := auth.ContextCredentials(ctx); ok {
		req.SetBasicAuth(creds.Username, creds.Password)
	} else if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to read response body for '%s': %w", path, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, e.NewNotFoundError(path)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		c.logger.Debug("unexpected response status",
			"method", method,
			"path", path,
			"status", resp.StatusCode)
		return nil, e.NewResponseError(resp.StatusCode, path, data)
	}

	return data, nil
}
