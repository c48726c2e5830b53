package httpclient

import (
	"fmt"
	"net/http"
	"strings"
)

// formatHeaders renders headers as "Name: value" lines in key order.
func formatHeaders(headers map[string]string) []string {
	lines := make([]string, 0, len(headers))
	for _, k := range sortedKeys(headers) {
		lines = append(lines, fmt.Sprintf("%s: %s", k, headers[k]))
	}
	return lines
}

// applyHeaderLines sets each "Name: value" line on h. Lines without a
// colon are ignored.
func applyHeaderLines(h http.Header, lines []string) {
	for _, line := range lines {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		h.Set(name, strings.TrimSpace(value))
	}
}
