package httpclient

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"
)

// Client issues GET and PUT requests, merging its defaults beneath the
// options of every call.
//
// A Client is safe for concurrent use. SetDefaults and ClearDefaults take
// effect for calls that start after they return.
//
// Example:
//
//	client := httpclient.New(httpclient.WithServiceName("billing"))
//	client.SetDefaults(httpclient.Options{
//	    Headers: map[string]string{"Authorization": "Bearer " + token},
//	    JSON:    httpclient.Bool(true),
//	})
//
//	res, err := client.Get(ctx, "https://api.example.com/invoices", &httpclient.Options{
//	    Query: map[string]any{"page": 2},
//	})
type Client struct {
	cfg       *internalConfig
	transport http.RoundTripper

	mu       sync.RWMutex
	defaults Options
}

// New creates a Client. Without options it sends through
// http.DefaultTransport with the global OpenTelemetry providers.
func New(opts ...Option) *Client {
	cfg := newConfig(opts...)
	return &Client{
		cfg:       cfg,
		transport: cfg.buildTransport(),
		defaults:  cfg.Defaults.clone(),
	}
}

// SetDefaults replaces the client defaults. Nothing is validated.
func (c *Client) SetDefaults(o Options) {
	d := o.clone()
	c.mu.Lock()
	c.defaults = d
	c.mu.Unlock()
}

// ClearDefaults resets the client defaults to empty.
func (c *Client) ClearDefaults() {
	c.mu.Lock()
	c.defaults = Options{}
	c.mu.Unlock()
}

// Defaults returns a copy of the current client defaults.
func (c *Client) Defaults() Options {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defaults.clone()
}

// Get sends a GET request. opts may be nil.
//
// Example:
//
//	res, err := client.Get(ctx, "https://api.example.com/search", &httpclient.Options{
//	    Query: map[string]any{"q": "go http"},
//	})
func (c *Client) Get(ctx context.Context, rawURL string, opts *Options) (*Result, error) {
	return c.do(ctx, http.MethodGet, rawURL, opts)
}

// Put sends a PUT request with opts.Data as the body: JSON when opts.JSON
// is true, form-urlencoded otherwise. opts may be nil.
//
// Example:
//
//	res, err := client.Put(ctx, "https://api.example.com/users/1", &httpclient.Options{
//	    JSON: httpclient.Bool(true),
//	    Data: map[string]any{"name": "John"},
//	})
func (c *Client) Put(ctx context.Context, rawURL string, opts *Options) (*Result, error) {
	return c.do(ctx, http.MethodPut, rawURL, opts)
}

func (c *Client) do(ctx context.Context, method, rawURL string, opts *Options) (*Result, error) {
	req, err := c.prepare(method, rawURL, opts)
	if err != nil {
		return nil, err
	}
	return c.execute(ctx, req)
}

// execute sends req synchronously and reads the whole body.
func (c *Client) execute(ctx context.Context, req *Request) (*Result, error) {
	httpReq, err := req.httpRequest(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.cfg.Interceptors.ApplyRequestInterceptors(httpReq); err != nil {
		return nil, err
	}

	if c.cfg.Debug {
		logRequest(c.cfg.Logger, httpReq, req.Timeout)
	}

	// Each call gets its own http.Client so the per-call timeout applies.
	hc := &http.Client{
		Transport: c.transport,
		Timeout:   req.Timeout,
	}

	start := time.Now()
	httpResp, err := hc.Do(httpReq)
	if err != nil {
		return nil, newTransportError(req.Method, req.URL, err)
	}
	defer httpResp.Body.Close()

	if err := c.cfg.Interceptors.ApplyResponseInterceptors(httpResp, httpReq); err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, newTransportError(req.Method, req.URL, err)
	}

	if c.cfg.Debug {
		logResponse(c.cfg.Logger, httpResp, time.Since(start), len(raw))
	}

	res := &Result{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		body:       string(raw),
		request:    req,
	}

	if req.Options.jsonEnabled() {
		if reason := res.decode(); reason != "" {
			c.cfg.Metrics.recordDecodeFallback(ctx, reason, c.cfg.baseAttributes())
			if c.cfg.Debug {
				logDecodeFallback(c.cfg.Logger, req, res.decodeErr)
			}
		}
	}

	if c.cfg.GenerateCurl {
		res.curlCommand = generateCurlCommand(httpReq, req.Body)
	}

	return res, nil
}

var defaultClient = New()

// DefaultClient returns the client used by the package-level functions.
func DefaultClient() *Client {
	return defaultClient
}

// SetDefaults replaces the defaults of the package default client.
func SetDefaults(o Options) {
	defaultClient.SetDefaults(o)
}

// ClearDefaults resets the defaults of the package default client.
func ClearDefaults() {
	defaultClient.ClearDefaults()
}

// Get sends a GET request with the package default client.
func Get(ctx context.Context, rawURL string, opts *Options) (*Result, error) {
	return defaultClient.Get(ctx, rawURL, opts)
}

// Put sends a PUT request with the package default client.
func Put(ctx context.Context, rawURL string, opts *Options) (*Result, error) {
	return defaultClient.Put(ctx, rawURL, opts)
}
