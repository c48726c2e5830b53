package httpclient

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCurlCommand(t *testing.T) {
	tests := []struct {
		name         string
		method       string
		url          string
		headers      http.Header
		body         string
		wantContains []string
		wantMissing  []string
	}{
		{
			name:         "given GET request, then generates basic curl",
			method:       http.MethodGet,
			url:          "https://api.example.com/users",
			wantContains: []string{"curl", "'https://api.example.com/users'"},
			wantMissing:  []string{"-X", "-d"},
		},
		{
			name:   "given PUT request, then includes method, headers and body",
			method: http.MethodPut,
			url:    "https://api.example.com/users/1",
			headers: http.Header{
				"Content-Type": []string{"application/json"},
			},
			body: `{"name":"John"}`,
			wantContains: []string{
				"-X PUT",
				"-H 'Content-Type: application/json'",
				`-d '{"name":"John"}'`,
			},
		},
		{
			name:   "given multiple headers, then sorts them",
			method: http.MethodGet,
			url:    "https://api.example.com/users",
			headers: http.Header{
				"X-B": []string{"2"},
				"X-A": []string{"1"},
			},
			wantContains: []string{"-H 'X-A: 1' -H 'X-B: 2'"},
		},
		{
			name:         "given body with single quotes, then escapes them",
			method:       http.MethodPut,
			url:          "https://api.example.com/data",
			body:         `{"message":"it's working"}`,
			wantContains: []string{`-d '{"message":"it'\''s working"}'`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(tt.method, tt.url, nil)
			if tt.headers != nil {
				req.Header = tt.headers
			}

			result := generateCurlCommand(req, tt.body)

			for _, want := range tt.wantContains {
				assert.Contains(t, result, want)
			}
			for _, missing := range tt.wantMissing {
				assert.NotContains(t, result, missing)
			}
		})
	}
}

func TestDebugLogging(t *testing.T) {
	tests := []struct {
		name         string
		debug        bool
		body         string
		wantContains []string
	}{
		{
			name:  "given debug enabled, then logs request and response",
			debug: true,
			body:  `{"ok":true}`,
			wantContains: []string{
				`"message":"HTTP request"`,
				`"message":"HTTP response"`,
				`"method":"GET"`,
				`"status":200`,
			},
		},
		{
			name:  "given debug enabled and invalid JSON, then logs the fallback",
			debug: true,
			body:  "plain",
			wantContains: []string{
				"returning raw body",
			},
		},
		{
			name:  "given debug disabled, then logs nothing",
			debug: false,
			body:  "plain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

			mock := NewMockTransport().StubResponse(http.StatusOK, tt.body)
			client := New(
				WithMockTransport(mock),
				WithLogger(logger),
				WithDebug(tt.debug),
			)

			_, err := client.Get(context.Background(), "https://api.example.com/items", &Options{
				JSON: Bool(true),
			})
			require.NoError(t, err)

			out := buf.String()
			if len(tt.wantContains) == 0 {
				assert.Empty(t, strings.TrimSpace(out))
			}
			for _, want := range tt.wantContains {
				assert.Contains(t, out, want)
			}
		})
	}
}
