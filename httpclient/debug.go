package httpclient

import (
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// debugLogger is the package-level zerolog logger for debug output.
var debugLogger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// generateCurlCommand creates a cURL command equivalent for the given request.
//
// Example output:
//
//	curl -X PUT 'https://api.example.com/users/1' \
//	  -H 'Content-Type: application/json' \
//	  -d '{"name":"John"}'
func generateCurlCommand(req *http.Request, body string) string {
	parts := []string{"curl"}

	if req.Method != http.MethodGet {
		parts = append(parts, "-X", req.Method)
	}

	parts = append(parts, fmt.Sprintf("'%s'", req.URL.String()))

	// Sorted for stable output.
	headerKeys := make([]string, 0, len(req.Header))
	for k := range req.Header {
		headerKeys = append(headerKeys, k)
	}
	sort.Strings(headerKeys)

	for _, k := range headerKeys {
		for _, v := range req.Header[k] {
			parts = append(parts, "-H", fmt.Sprintf("'%s: %s'", k, v))
		}
	}

	if body != "" {
		escaped := strings.ReplaceAll(body, "'", "'\\''")
		parts = append(parts, "-d", fmt.Sprintf("'%s'", escaped))
	}

	return strings.Join(parts, " ")
}

func logRequest(logger zerolog.Logger, req *http.Request, timeout time.Duration) {
	logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Str("host", req.Host).
		Dur("timeout", timeout).
		Msg("HTTP request")
}

func logResponse(logger zerolog.Logger, resp *http.Response, duration time.Duration, size int) {
	logger.Debug().
		Int("status", resp.StatusCode).
		Str("status_text", resp.Status).
		Dur("duration_ms", duration).
		Int("body_bytes", size).
		Msg("HTTP response")
}

func logDecodeFallback(logger zerolog.Logger, req *Request, err error) {
	event := logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL)
	if err != nil {
		event = event.Err(err)
	}
	event.Msg("response is not a JSON value, returning raw body")
}
