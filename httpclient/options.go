package httpclient

import (
	"net/http"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	// scope is the instrumentation scope name for OpenTelemetry.
	scope = "github.com/kroma-labs/tinyhttp/httpclient"

	// UserAgent is sent with every request unless replaced with
	// WithUserAgent or an explicit User-Agent header.
	UserAgent = "tinyhttp/1.0"
)

// internalConfig holds all client configuration.
type internalConfig struct {
	// Transport is the base round tripper that talks to the network.
	// Default: http.DefaultTransport
	Transport http.RoundTripper

	// UserAgent is the User-Agent sent when headers do not carry one.
	UserAgent string

	// Defaults are the initial client defaults (see Client.SetDefaults).
	Defaults Options

	// RateLimit configures the client-side limiter. Disabled when
	// RequestsPerSecond is zero.
	RateLimit RateLimitConfig

	// Interceptors run on every outgoing request and incoming response.
	Interceptors *InterceptorChain

	// === Debugging ===

	// Logger receives debug output. Default: debugLogger.
	Logger zerolog.Logger

	// Debug enables request/response logging.
	Debug bool

	// GenerateCurl attaches an equivalent cURL command to each Result.
	GenerateCurl bool

	// === OpenTelemetry ===

	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Metrics        *metrics

	// Propagators configures trace context injection.
	// Default: TraceContext + Baggage (W3C)
	Propagators propagation.TextMapPropagator

	// ServiceName is added as "http.client.name" on spans and metrics.
	ServiceName string
}

// newConfig creates a config with defaults and applies options.
func newConfig(opts ...Option) *internalConfig {
	cfg := &internalConfig{
		Transport:      http.DefaultTransport,
		UserAgent:      UserAgent,
		Interceptors:   NewInterceptorChain(),
		Logger:         debugLogger,
		TracerProvider: otel.GetTracerProvider(),
		MeterProvider:  otel.GetMeterProvider(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	cfg.Tracer = cfg.TracerProvider.Tracer(scope)
	cfg.Meter = cfg.MeterProvider.Meter(scope)

	// A nil *metrics is safe to record on.
	cfg.Metrics, _ = newMetrics(cfg.Meter)

	return cfg
}

// buildTransport assembles the round tripper chain:
// otel -> rate limit -> base.
func (cfg *internalConfig) buildTransport() http.RoundTripper {
	return newOtelTransport(newRateLimitTransport(cfg.Transport, cfg.RateLimit), cfg)
}

// baseAttributes returns common attributes for all spans and metrics.
func (cfg *internalConfig) baseAttributes() []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 1)
	if cfg.ServiceName != "" {
		attrs = append(attrs, attribute.String("http.client.name", cfg.ServiceName))
	}
	return attrs
}

// Option configures a Client.
type Option func(*internalConfig)

// WithTransport sets the base http.RoundTripper. Tracing, metrics and rate
// limiting are layered on top of it.
//
// Example:
//
//	client := httpclient.New(
//	    httpclient.WithTransport(&http.Transport{DisableKeepAlives: true}),
//	)
func WithTransport(rt http.RoundTripper) Option {
	return func(cfg *internalConfig) {
		if rt != nil {
			cfg.Transport = rt
		}
	}
}

// WithUserAgent replaces the default User-Agent.
func WithUserAgent(ua string) Option {
	return func(cfg *internalConfig) {
		cfg.UserAgent = ua
	}
}

// WithDefaults installs initial defaults, as if SetDefaults were called
// right after New.
//
// Example:
//
//	client := httpclient.New(
//	    httpclient.WithDefaults(httpclient.Options{
//	        Headers: map[string]string{"Accept": "application/json"},
//	        JSON:    httpclient.Bool(true),
//	        Timeout: 2 * time.Second,
//	    }),
//	)
func WithDefaults(o Options) Option {
	return func(cfg *internalConfig) {
		cfg.Defaults = o.clone()
	}
}

// WithRateLimit enables client-side rate limiting.
//
// Example:
//
//	client := httpclient.New(
//	    httpclient.WithRateLimit(httpclient.RateLimitConfig{
//	        RequestsPerSecond: 10,
//	        Burst:             2,
//	    }),
//	)
func WithRateLimit(rl RateLimitConfig) Option {
	return func(cfg *internalConfig) {
		cfg.RateLimit = rl
	}
}

// WithRequestInterceptor adds an interceptor run on every outgoing request
// after headers are applied.
func WithRequestInterceptor(i RequestInterceptor) Option {
	return func(cfg *internalConfig) {
		cfg.Interceptors.AddRequestInterceptor(i)
	}
}

// WithResponseInterceptor adds an interceptor run on every response before
// its body is read.
func WithResponseInterceptor(i ResponseInterceptor) Option {
	return func(cfg *internalConfig) {
		cfg.Interceptors.AddResponseInterceptor(i)
	}
}

// WithLogger sets the zerolog logger used for debug output.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *internalConfig) {
		cfg.Logger = logger
	}
}

// WithDebug enables request and response logging at debug level.
func WithDebug(enabled bool) Option {
	return func(cfg *internalConfig) {
		cfg.Debug = enabled
	}
}

// WithGenerateCurl attaches an equivalent cURL command to every Result.
func WithGenerateCurl(enabled bool) Option {
	return func(cfg *internalConfig) {
		cfg.GenerateCurl = enabled
	}
}

// WithServiceName sets an identifier for this client in traces and
// metrics, recorded as the "http.client.name" attribute.
func WithServiceName(name string) Option {
	return func(cfg *internalConfig) {
		cfg.ServiceName = name
	}
}

// WithTracerProvider sets a custom OpenTelemetry TracerProvider.
// If not called, the global provider from otel.GetTracerProvider() is used.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(cfg *internalConfig) {
		cfg.TracerProvider = tp
	}
}

// WithMeterProvider sets a custom OpenTelemetry MeterProvider.
// If not called, the global provider from otel.GetMeterProvider() is used.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(cfg *internalConfig) {
		cfg.MeterProvider = mp
	}
}

// WithPropagators sets the propagators used to inject trace context into
// outgoing headers.
func WithPropagators(p propagation.TextMapPropagator) Option {
	return func(cfg *internalConfig) {
		cfg.Propagators = p
	}
}
