// Package apiclient is a typed client for the CercaDeTi content API, used by
// the admin CLI and by integration tooling.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config locates the API. The variable name is shared with the storefront
// build so both point at the same backend.
type Config struct {
	BaseURL string        `env:"NEXT_PUBLIC_STRAPI_URL" envDefault:"http://localhost:1337"`
	Timeout time.Duration `env:"CERCADETI_CLIENT_TIMEOUT" envDefault:"15s"`
}

// LoadConfigFromEnv reads Config from the environment.
func LoadConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Client talks to one API instance. It keeps the admin session cookie
// between calls, so Login must precede any admin method.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// New builds a Client from cfg.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must be http or https", cfg.BaseURL)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Jar: jar, Timeout: timeout},
	}, nil
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string { return c.baseURL.String() }

type dataEnvelope[T any] struct {
	Data T `json:"data"`
}

type listEnvelope[T any] struct {
	Data []T `json:"data"`
	Meta struct {
		Pagination Pagination `json:"pagination"`
	} `json:"meta"`
}

// do sends one request. body, when non-nil, is JSON encoded. out, when
// non-nil, receives the decoded 2xx response.
func (c *Client) do(ctx context.Context, method, path string, q url.Values, body, out any) error {
	if body == nil {
		return c.send(ctx, method, path, q, nil, "", out)
	}
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.send(ctx, method, path, q, bytes.NewReader(b), "application/json", out)
}

// send performs the request with a prepared body of the given content type.
func (c *Client) send(ctx context.Context, method, path string, q url.Values, body io.Reader, contentType string, out any) error {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func getData[T any](ctx context.Context, c *Client, path string, q url.Values) (T, error) {
	var out dataEnvelope[T]
	err := c.do(ctx, http.MethodGet, path, q, nil, &out)
	return out.Data, err
}

func postData[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	var out dataEnvelope[T]
	err := c.do(ctx, http.MethodPost, path, nil, body, &out)
	return out.Data, err
}
