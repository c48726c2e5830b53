// Package httpclient is a small GET/PUT helper over net/http that merges
// client defaults into per-call options, encodes query strings and bodies,
// and decodes JSON responses.
//
// # Quick Start
//
//	client := httpclient.New(httpclient.WithServiceName("my-service"))
//
//	res, err := client.Get(ctx, "https://api.example.com/users", &httpclient.Options{
//	    Query: map[string]any{"page": 1},
//	    JSON:  httpclient.Bool(true),
//	})
//	if err != nil {
//	    return err
//	}
//	users := res.Value() // decoded JSON, or the raw body if it was not JSON
//
// The package-level Get, Put, SetDefaults and ClearDefaults functions use a
// shared default client.
//
// # Defaults
//
// Defaults are merged beneath every call. Call-site values always win.
// Headers are a union: default headers are kept unless the call sets the
// same key.
//
//	client.SetDefaults(httpclient.Options{
//	    Headers: map[string]string{"A": "1"},
//	    Timeout: time.Second,
//	})
//	client.Get(ctx, url, &httpclient.Options{
//	    Headers: map[string]string{"B": "2"},
//	})
//	// sends A: 1 and B: 2 with a one second timeout
//
// Query, body data, and the JSON flag used for Put body encoding are read
// from the call options before the merge. Defaults never change the URL or
// the body, but a default JSON flag does enable response decoding.
//
// # Bodies
//
// Put encodes Options.Data as JSON (Content-Type: application/json) when
// Options.JSON is true, and as form-urlencoded
// (Content-Type: application/x-www-form-urlencoded) otherwise.
//
// # Responses
//
// Any received response is a *Result, whatever its status. With JSON set,
// a body that decodes to a non-null value is available from Value;
// anything else, including a literal null, falls back to the raw string.
// The swallowed syntax error is available from Result.DecodeErr.
//
// Failures to get a response at all are returned as *TransportError.
//
// # Observability
//
// Every request produces an OpenTelemetry client span ("HTTP GET",
// "HTTP PUT") and the metrics:
//   - http.client.request.duration (histogram)
//   - http.client.request.body.size / http.client.response.body.size
//   - http.client.active_requests (up/down counter)
//   - http.client.request.error (counter)
//   - tinyhttp.client.decode.fallback (counter)
//
// WithDebug logs requests and responses through zerolog, and
// WithGenerateCurl attaches an equivalent cURL command to each Result.
package httpclient
