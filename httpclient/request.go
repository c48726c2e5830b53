package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Request is the transient description of a single call, built by Get or
// Put before anything is sent. It is exposed read-only via Result.Request.
type Request struct {
	// Method is http.MethodGet or http.MethodPut.
	Method string

	// URL is the target with the encoded query appended.
	URL string

	// Options are the call options after defaults were merged in.
	Options Options

	// HeaderLines are the merged headers as "Name: value" lines.
	HeaderLines []string

	// Body is the encoded Put body; empty for Get.
	Body string

	// Timeout is the effective timeout for the whole call.
	Timeout time.Duration

	// UserAgent is the User-Agent applied before HeaderLines.
	UserAgent string
}

// prepare builds the Request for a call. The order matters: the query and
// body are encoded from the call-site options before the defaults are
// merged, so only headers, json (for decoding), timeout and settings are
// ever taken from the defaults.
func (c *Client) prepare(method, rawURL string, opts *Options) (*Request, error) {
	o := opts.clone()

	req := &Request{
		Method: method,
		URL:    appendQuery(rawURL, o.Query),
	}

	if method == http.MethodPut {
		body, err := encodeBody(&o)
		if err != nil {
			return nil, err
		}
		req.Body = body
	}

	mergeDefaults(&o, c.Defaults())

	req.Options = o
	req.UserAgent = c.cfg.UserAgent
	req.Timeout = effectiveTimeout(o.Timeout)
	req.HeaderLines = formatHeaders(o.Headers)

	return req, nil
}

// httpRequest converts r into an *http.Request bound to ctx. Raw settings
// travel on the context.
func (r *Request) httpRequest(ctx context.Context) (*http.Request, error) {
	ctx = withSettings(ctx, r.Options.Settings)

	var body *strings.Reader
	if r.Method == http.MethodPut {
		body = strings.NewReader(r.Body)
	}

	var (
		req *http.Request
		err error
	)
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, r.Method, r.URL, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, r.Method, r.URL, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	if r.UserAgent != "" {
		req.Header.Set("User-Agent", r.UserAgent)
	}
	applyHeaderLines(req.Header, r.HeaderLines)

	// net/http sends req.Host and ignores a Host header entry.
	if host := req.Header.Get("Host"); host != "" {
		req.Host = host
		req.Header.Del("Host")
	}

	return req, nil
}
