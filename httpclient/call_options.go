package httpclient

import (
	"context"
	"maps"
	"time"
)

// DefaultTimeout is applied when neither the call nor the client defaults
// set a positive Timeout.
const DefaultTimeout = 5000 * time.Millisecond

// Options controls a single Get or Put call. The same type holds the
// client defaults installed with SetDefaults.
//
// A nil map or nil JSON pointer means "not set", which lets defaults fill
// the field in. A non-nil empty map counts as set.
//
// Example:
//
//	res, err := client.Put(ctx, "https://api.example.com/users/1", &httpclient.Options{
//	    JSON:    httpclient.Bool(true),
//	    Headers: map[string]string{"Authorization": "Bearer " + token},
//	    Data:    map[string]any{"name": "John"},
//	})
type Options struct {
	// Headers are sent as "Name: value" lines. On merge, call-site
	// entries win over default entries with the same key.
	Headers map[string]string

	// JSON selects JSON body encoding for Put and JSON decoding of the
	// response. Only an explicit true enables either.
	JSON *bool

	// Data is the Put body, JSON or form-urlencoded depending on JSON.
	Data map[string]any

	// Query is appended to the URL as "?key=value&...".
	Query map[string]any

	// Timeout bounds the whole request. Zero or negative means unset: the
	// default timeout fills it in, then DefaultTimeout.
	Timeout time.Duration

	// Settings are raw transport settings. They are not interpreted by the
	// client and reach the http.RoundTripper via SettingsFromContext.
	Settings map[string]any
}

// Bool returns a pointer to b, for use with Options.JSON.
func Bool(b bool) *bool {
	return &b
}

// jsonEnabled reports whether JSON is explicitly true.
func (o *Options) jsonEnabled() bool {
	return o.JSON != nil && *o.JSON
}

// clone copies o so merging and body encoding never touch the caller's
// value. A nil receiver yields empty options.
func (o *Options) clone() Options {
	if o == nil {
		return Options{}
	}
	out := Options{
		Headers:  maps.Clone(o.Headers),
		Data:     maps.Clone(o.Data),
		Query:    maps.Clone(o.Query),
		Timeout:  o.Timeout,
		Settings: maps.Clone(o.Settings),
	}
	if o.JSON != nil {
		out.JSON = Bool(*o.JSON)
	}
	return out
}

// mergeDefaults fills o from defaults without overwriting anything the
// call site set. Headers are a union: default keys are added only where
// the call site has no entry of its own.
func mergeDefaults(o *Options, defaults Options) {
	if o.JSON == nil && defaults.JSON != nil {
		o.JSON = Bool(*defaults.JSON)
	}

	if defaults.Headers != nil {
		if o.Headers == nil {
			o.Headers = make(map[string]string, len(defaults.Headers))
		}
		for k, v := range defaults.Headers {
			if _, ok := o.Headers[k]; !ok {
				o.Headers[k] = v
			}
		}
	}

	if o.Data == nil && defaults.Data != nil {
		o.Data = maps.Clone(defaults.Data)
	}
	if o.Query == nil && defaults.Query != nil {
		o.Query = maps.Clone(defaults.Query)
	}
	if o.Timeout <= 0 {
		o.Timeout = defaults.Timeout
	}

	if defaults.Settings != nil {
		if o.Settings == nil {
			o.Settings = make(map[string]any, len(defaults.Settings))
		}
		for k, v := range defaults.Settings {
			if _, ok := o.Settings[k]; !ok {
				o.Settings[k] = v
			}
		}
	}
}

// effectiveTimeout resolves an unset or non-positive timeout to
// DefaultTimeout.
func effectiveTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultTimeout
	}
	return d
}

type settingsKey struct{}

// withSettings attaches raw transport settings to ctx.
func withSettings(ctx context.Context, settings map[string]any) context.Context {
	if len(settings) == 0 {
		return ctx
	}
	return context.WithValue(ctx, settingsKey{}, settings)
}

// SettingsFromContext returns the raw transport settings of the request
// being sent, or nil. Custom transports use it to honor Options.Settings:
//
//	func (t *myTransport) RoundTrip(req *http.Request) (*http.Response, error) {
//	    if v, ok := httpclient.SettingsFromContext(req.Context())["verbose"]; ok {
//	        ...
//	    }
//	    return t.base.RoundTrip(req)
//	}
func SettingsFromContext(ctx context.Context) map[string]any {
	settings, _ := ctx.Value(settingsKey{}).(map[string]any)
	return settings
}
