package client

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jasonsjt/ptz-controller/internal/auth"
)

const DefaultTimeout = 5 * time.Second

// DeviceClient is the command channel to a single camera. Every call is a single
// blocking request; nothing is retried.
type DeviceClient struct {
	HTTP   *resty.Client
	Config ClientConfig
}

type ClientConfig struct {
	Host        string // host[:port], or a full http(s) base URL
	Credentials auth.Credentials
	Timeout     time.Duration
}

func New(cfg ClientConfig) *DeviceClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	r := resty.New()
	r.SetBaseURL(BaseURL(cfg.Host))
	r.SetTimeout(cfg.Timeout)
	cfg.Credentials.Apply(r)

	return &DeviceClient{
		HTTP:   r,
		Config: cfg,
	}
}

// BaseURL turns a bare host into an http URL. Hosts that already carry a scheme are kept.
func BaseURL(host string) string {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return host
	}
	return "http://" + host
}

// Get issues a GET for a path which may already carry an encoded query string.
func (c *DeviceClient) Get(ctx context.Context, path string) (string, error) {
	return c.do(ctx, http.MethodGet, path, "")
}

func (c *DeviceClient) Put(ctx context.Context, path string) (string, error) {
	return c.do(ctx, http.MethodPut, path, "")
}

func (c *DeviceClient) Delete(ctx context.Context, path string) (string, error) {
	return c.do(ctx, http.MethodDelete, path, "")
}

// Post sends body as JSON.
func (c *DeviceClient) Post(ctx context.Context, path string, body string) (string, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *DeviceClient) do(ctx context.Context, method, path, body string) (string, error) {
	req := c.HTTP.R().SetContext(ctx)
	if body != "" {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return "", &TransportError{Method: method, Path: path, Err: err}
	}

	if resp.IsError() {
		terr := &TransportError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode(),
			Body:       resp.String(),
		}
		if terr.StatusCode == http.StatusUnauthorized || terr.StatusCode == http.StatusForbidden {
			terr.Err = ErrUnauthorized
		}
		return string(resp.Body()), terr
	}

	// resp.String() trims whitespace, callers need the raw text.
	return string(resp.Body()), nil
}
