package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestClient_Prepare(t *testing.T) {
	type args struct {
		defaults *Options
		method   string
		url      string
		opts     *Options
	}

	tests := []struct {
		name            string
		args            args
		wantURL         string
		wantHeaderLines []string
		wantBody        string
		wantTimeout     time.Duration
	}{
		{
			name: "given default headers and timeout, then merges under call headers",
			args: args{
				defaults: &Options{Headers: map[string]string{"A": "1"}, Timeout: 1000 * time.Millisecond},
				method:   http.MethodGet,
				url:      "https://api.example.com/items",
				opts:     &Options{Headers: map[string]string{"B": "2"}},
			},
			wantURL:         "https://api.example.com/items",
			wantHeaderLines: []string{"A: 1", "B: 2"},
			wantTimeout:     time.Second,
		},
		{
			name: "given nil options and no defaults, then uses default timeout",
			args: args{
				method: http.MethodGet,
				url:    "https://api.example.com/items",
			},
			wantURL:         "https://api.example.com/items",
			wantHeaderLines: []string{},
			wantTimeout:     5 * time.Second,
		},
		{
			name: "given query, then appends it to the url",
			args: args{
				method: http.MethodGet,
				url:    "https://api.example.com/items",
				opts:   &Options{Query: map[string]any{"page": 2}},
			},
			wantURL:         "https://api.example.com/items?page=2",
			wantHeaderLines: []string{},
			wantTimeout:     DefaultTimeout,
		},
		{
			name: "given default query, then it does not reach the url",
			args: args{
				defaults: &Options{Query: map[string]any{"page": 2}},
				method:   http.MethodGet,
				url:      "https://api.example.com/items",
			},
			wantURL:         "https://api.example.com/items",
			wantHeaderLines: []string{},
			wantTimeout:     DefaultTimeout,
		},
		{
			name: "given put with json, then encodes body and sets content type",
			args: args{
				method: http.MethodPut,
				url:    "https://api.example.com/items/1",
				opts:   &Options{JSON: Bool(true), Data: map[string]any{"a": 1}},
			},
			wantURL:         "https://api.example.com/items/1",
			wantHeaderLines: []string{"Content-Type: application/json"},
			wantBody:        `{"a":1}`,
			wantTimeout:     DefaultTimeout,
		},
		{
			name: "given put and default content type, then body content type wins",
			args: args{
				defaults: &Options{Headers: map[string]string{"Content-Type": "text/plain", "A": "1"}},
				method:   http.MethodPut,
				url:      "https://api.example.com/items/1",
				opts:     &Options{Data: map[string]any{"a": "b c"}},
			},
			wantURL:         "https://api.example.com/items/1",
			wantHeaderLines: []string{"A: 1", "Content-Type: application/x-www-form-urlencoded"},
			wantBody:        "a=b+c",
			wantTimeout:     DefaultTimeout,
		},
		{
			name: "given put and default json only, then body stays form encoded",
			args: args{
				defaults: &Options{JSON: Bool(true)},
				method:   http.MethodPut,
				url:      "https://api.example.com/items/1",
				opts:     &Options{Data: map[string]any{"a": "1"}},
			},
			wantURL:         "https://api.example.com/items/1",
			wantHeaderLines: []string{"Content-Type: application/x-www-form-urlencoded"},
			wantBody:        "a=1",
			wantTimeout:     DefaultTimeout,
		},
		{
			name: "given get with data, then data is ignored",
			args: args{
				method: http.MethodGet,
				url:    "https://api.example.com/items",
				opts:   &Options{Data: map[string]any{"a": "1"}},
			},
			wantURL:         "https://api.example.com/items",
			wantHeaderLines: []string{},
			wantTimeout:     DefaultTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := New()
			if tt.args.defaults != nil {
				client.SetDefaults(*tt.args.defaults)
			}

			req, err := client.prepare(tt.args.method, tt.args.url, tt.args.opts)
			require.NoError(t, err)

			assert.Equal(t, tt.args.method, req.Method)
			assert.Equal(t, tt.wantURL, req.URL)
			assert.Equal(t, tt.wantHeaderLines, req.HeaderLines)
			assert.Equal(t, tt.wantBody, req.Body)
			assert.Equal(t, tt.wantTimeout, req.Timeout)
			assert.Equal(t, UserAgent, req.UserAgent)
		})
	}
}

func TestClient_Prepare_NonPositiveTimeout(t *testing.T) {
	tests := []struct {
		name     string
		defaults Options
		timeout  time.Duration
		want     time.Duration
	}{
		{name: "given zero and default, then uses default", defaults: Options{Timeout: time.Second}, timeout: 0, want: time.Second},
		{name: "given negative and default, then uses default", defaults: Options{Timeout: time.Second}, timeout: -1, want: time.Second},
		{name: "given zero and no default, then uses 5s", timeout: 0, want: DefaultTimeout},
		{name: "given negative and no default, then uses 5s", timeout: -time.Second, want: DefaultTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := New(WithDefaults(tt.defaults))

			req, err := client.prepare(http.MethodGet, "https://api.example.com", &Options{Timeout: tt.timeout})
			require.NoError(t, err)

			assert.Equal(t, tt.want, req.Timeout)
		})
	}
}

func TestClient_Prepare_DoesNotMutateCallerOptions(t *testing.T) {
	client := New()
	client.SetDefaults(Options{Headers: map[string]string{"A": "1"}, JSON: Bool(true)})

	opts := &Options{Data: map[string]any{"a": "1"}}
	_, err := client.prepare(http.MethodPut, "https://api.example.com", opts)
	require.NoError(t, err)

	assert.Nil(t, opts.Headers)
	assert.Nil(t, opts.JSON)
}

func TestClient_DefaultsScenario(t *testing.T) {
	mock := NewMockTransport().StubResponse(http.StatusOK, "ok")
	client := New(WithMockTransport(mock))
	ctx := context.Background()

	client.SetDefaults(Options{
		Headers: map[string]string{"A": "1"},
		Timeout: 1000 * time.Millisecond,
	})

	res, err := client.Get(ctx, "https://api.example.com/items", &Options{
		Headers: map[string]string{"B": "2"},
	})
	require.NoError(t, err)

	req := mock.LastRequest()
	require.NotNil(t, req)
	assert.Equal(t, "1", req.Header.Get("A"))
	assert.Equal(t, "2", req.Header.Get("B"))
	assert.Equal(t, time.Second, res.Request().Timeout)
	assert.Equal(t, map[string]string{"A": "1", "B": "2"}, res.Request().Options.Headers)

	client.ClearDefaults()

	res, err = client.Get(ctx, "https://api.example.com/items", nil)
	require.NoError(t, err)

	req = mock.LastRequest()
	assert.Empty(t, req.Header.Get("A"))
	assert.Empty(t, res.Request().Options.Headers)
	assert.Equal(t, DefaultTimeout, res.Request().Timeout)
	assert.Equal(t, Options{}, client.Defaults())
}

func TestClient_Get(t *testing.T) {
	type args struct {
		opts *Options
		body string
	}

	tests := []struct {
		name        string
		args        args
		wantValue   any
		wantDecoded bool
	}{
		{
			name:        "given json true and JSON body, then returns decoded value",
			args:        args{opts: &Options{JSON: Bool(true)}, body: `{"x":1}`},
			wantValue:   map[string]any{"x": float64(1)},
			wantDecoded: true,
		},
		{
			name:      "given json true and text body, then returns raw string",
			args:      args{opts: &Options{JSON: Bool(true)}, body: "not json"},
			wantValue: "not json",
		},
		{
			name:      "given json true and null body, then returns raw string",
			args:      args{opts: &Options{JSON: Bool(true)}, body: "null"},
			wantValue: "null",
		},
		{
			name:      "given json absent, then returns raw string",
			args:      args{opts: nil, body: `{"x":1}`},
			wantValue: `{"x":1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					assert.Equal(t, http.MethodGet, r.Method)
					assert.Equal(t, UserAgent, r.UserAgent())
					_, _ = io.WriteString(w, tt.args.body)
				}),
			)
			defer server.Close()

			client := New()

			res, err := client.Get(context.Background(), server.URL+"/items", tt.args.opts)
			require.NoError(t, err)

			assert.Equal(t, http.StatusOK, res.StatusCode)
			assert.Equal(t, tt.wantDecoded, res.Decoded())
			assert.Equal(t, tt.wantValue, res.Value())
		})
	}
}

func TestClient_Get_DefaultJSONEnablesDecoding(t *testing.T) {
	mock := NewMockTransport().StubJSON(http.StatusOK, `{"ok":true}`)
	client := New(
		WithMockTransport(mock),
		WithDefaults(Options{JSON: Bool(true)}),
	)

	res, err := client.Get(context.Background(), "https://api.example.com", nil)
	require.NoError(t, err)

	assert.True(t, res.Decoded())
	assert.Equal(t, map[string]any{"ok": true}, res.Value())
}

func TestClient_Put(t *testing.T) {
	type args struct {
		opts *Options
	}

	tests := []struct {
		name            string
		args            args
		wantBody        string
		wantContentType string
		wantQuery       string
	}{
		{
			name:            "given json true, then sends JSON body",
			args:            args{opts: &Options{JSON: Bool(true), Data: map[string]any{"a": 1}}},
			wantBody:        `{"a":1}`,
			wantContentType: "application/json",
		},
		{
			name:            "given json absent, then sends form body",
			args:            args{opts: &Options{Data: map[string]any{"a": "b c"}}},
			wantBody:        "a=b+c",
			wantContentType: "application/x-www-form-urlencoded",
		},
		{
			name: "given query, then sends it in the url",
			args: args{opts: &Options{
				Query: map[string]any{"v": "2"},
				Data:  map[string]any{"a": "1"},
			}},
			wantBody:        "a=1",
			wantContentType: "application/x-www-form-urlencoded",
			wantQuery:       "v=2",
		},
		{
			name:            "given nil options, then sends empty form body",
			args:            args{opts: nil},
			wantBody:        "",
			wantContentType: "application/x-www-form-urlencoded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					body, _ := io.ReadAll(r.Body)

					assert.Equal(t, http.MethodPut, r.Method)
					assert.Equal(t, tt.wantBody, string(body))
					assert.Equal(t, tt.wantContentType, r.Header.Get("Content-Type"))
					assert.Equal(t, tt.wantQuery, r.URL.RawQuery)

					w.WriteHeader(http.StatusNoContent)
				}),
			)
			defer server.Close()

			client := New()

			res, err := client.Put(context.Background(), server.URL+"/items/1", tt.args.opts)
			require.NoError(t, err)

			assert.Equal(t, http.StatusNoContent, res.StatusCode)
			assert.Empty(t, res.String())
		})
	}
}

func TestClient_NonSuccessStatusIsNotAnError(t *testing.T) {
	mock := NewMockTransport().StubResponse(http.StatusNotFound, "missing")
	client := New(WithMockTransport(mock))

	res, err := client.Get(context.Background(), "https://api.example.com/x", nil)
	require.NoError(t, err)

	assert.True(t, res.IsError())
	assert.Equal(t, "missing", res.String())
}

func TestClient_TransportError(t *testing.T) {
	tests := []struct {
		name     string
		stubErr  error
		wantKind string
	}{
		{
			name:     "given connection refused, then returns classified transport error",
			stubErr:  errors.New("dial tcp 127.0.0.1:1: connect: connection refused"),
			wantKind: ErrorTypeConnectionRefused,
		},
		{
			name:     "given unknown failure, then kind is unknown",
			stubErr:  errors.New("boom"),
			wantKind: ErrorTypeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockTransport().StubError(tt.stubErr)
			client := New(WithMockTransport(mock))

			res, err := client.Get(context.Background(), "https://api.example.com/x", nil)
			require.Error(t, err)
			assert.Nil(t, res)

			var terr *TransportError
			require.ErrorAs(t, err, &terr)
			assert.Equal(t, tt.wantKind, terr.Kind)
			assert.Equal(t, http.MethodGet, terr.Method)
			assert.Equal(t, "https://api.example.com/x", terr.URL)
			assert.ErrorIs(t, err, tt.stubErr)
		})
	}
}

func TestClient_EmptyBodyIsNotAnError(t *testing.T) {
	mock := NewMockTransport().StubResponse(http.StatusOK, "")
	client := New(WithMockTransport(mock))

	res, err := client.Get(context.Background(), "https://api.example.com/x", nil)
	require.NoError(t, err)
	assert.Equal(t, "", res.String())
}

func TestClient_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)
	defer server.Close()

	client := New()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Get(ctx, server.URL, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_InvalidURL(t *testing.T) {
	client := New(WithMockTransport(NewMockTransport()))

	_, err := client.Get(context.Background(), "http://[::1", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidURL)
}

func TestClient_EncodingError(t *testing.T) {
	mock := NewMockTransport().StubResponse(http.StatusOK, "ok")
	client := New(WithMockTransport(mock))

	_, err := client.Put(context.Background(), "https://api.example.com/x", &Options{
		JSON: Bool(true),
		Data: map[string]any{"ch": make(chan int)},
	})
	require.Error(t, err)

	var encErr *EncodingError
	assert.ErrorAs(t, err, &encErr)
	assert.Equal(t, 0, mock.RequestCount())
}

func TestClient_SettingsReachTransport(t *testing.T) {
	var got map[string]any
	mock := NewMockTransport().
		StubResponse(http.StatusOK, "ok").
		OnRequest(func(r *http.Request) {
			got = SettingsFromContext(r.Context())
		})

	client := New(
		WithMockTransport(mock),
		WithDefaults(Options{Settings: map[string]any{"region": "eu", "verbose": true}}),
	)

	_, err := client.Get(context.Background(), "https://api.example.com/x", &Options{
		Settings: map[string]any{"verbose": false},
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"region": "eu", "verbose": false}, got)
}

func TestClient_UserAgent(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		headers map[string]string
		want    string
	}{
		{
			name: "given no options, then sends the fixed user agent",
			want: "tinyhttp/1.0",
		},
		{
			name: "given WithUserAgent, then sends that user agent",
			opts: []Option{WithUserAgent("billing/2.0")},
			want: "billing/2.0",
		},
		{
			name:    "given explicit header, then header wins",
			headers: map[string]string{"User-Agent": "custom"},
			want:    "custom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockTransport().StubResponse(http.StatusOK, "ok")
			client := New(append(tt.opts, WithMockTransport(mock))...)

			_, err := client.Get(context.Background(), "https://api.example.com", &Options{
				Headers: tt.headers,
			})
			require.NoError(t, err)

			assert.Equal(t, tt.want, mock.LastRequest().UserAgent())
		})
	}
}

func TestClient_HostHeader(t *testing.T) {
	tests := []struct {
		name     string
		defaults Options
		opts     *Options
		want     string
	}{
		{
			name: "given Host in call headers, then server sees it",
			opts: &Options{Headers: map[string]string{"Host": "api.example.org"}},
			want: "api.example.org",
		},
		{
			name:     "given Host in default headers, then server sees it",
			defaults: Options{Headers: map[string]string{"Host": "defaults.example.org"}},
			want:     "defaults.example.org",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotHost string
			server := httptest.NewServer(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					gotHost = r.Host
					w.WriteHeader(http.StatusOK)
				}),
			)
			defer server.Close()

			client := New(WithDefaults(tt.defaults))

			_, err := client.Get(context.Background(), server.URL, tt.opts)
			require.NoError(t, err)

			assert.Equal(t, tt.want, gotHost)
		})
	}
}

func TestClient_EmitsSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer tp.Shutdown(context.Background())

	mock := NewMockTransport().StubResponse(http.StatusOK, "ok")
	client := New(
		WithMockTransport(mock),
		WithTracerProvider(tp),
		WithServiceName("test-service"),
	)

	_, err := client.Put(context.Background(), "https://api.example.com/x", nil)
	require.NoError(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "HTTP PUT", spans[0].Name)
	assert.NotEmpty(t, mock.LastRequest().Header.Get("traceparent"))
}

func TestClient_GenerateCurl(t *testing.T) {
	mock := NewMockTransport().StubResponse(http.StatusOK, "ok")
	client := New(WithMockTransport(mock), WithGenerateCurl(true))

	res, err := client.Put(context.Background(), "https://api.example.com/x", &Options{
		JSON: Bool(true),
		Data: map[string]any{"a": 1},
	})
	require.NoError(t, err)

	assert.Contains(t, res.CurlCommand(), "curl -X PUT 'https://api.example.com/x'")
	assert.Contains(t, res.CurlCommand(), "-H 'Content-Type: application/json'")
	assert.Contains(t, res.CurlCommand(), `-d '{"a":1}'`)
}

func TestPackageLevelFunctions(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, r.Header.Get("X-Default")+"|"+r.Method)
		}),
	)
	defer server.Close()
	defer ClearDefaults()

	SetDefaults(Options{Headers: map[string]string{"X-Default": "yes"}})
	assert.Equal(t, "yes", DefaultClient().Defaults().Headers["X-Default"])

	res, err := Get(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, "yes|GET", res.String())

	res, err = Put(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, "yes|PUT", res.String())

	ClearDefaults()

	res, err = Get(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, "|GET", res.String())
}
