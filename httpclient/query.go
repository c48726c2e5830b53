package httpclient

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// appendQuery appends "?" and the encoded query to rawURL when query is
// non-empty. An existing query string in rawURL is not detected.
func appendQuery(rawURL string, query map[string]any) string {
	if len(query) == 0 {
		return rawURL
	}
	return rawURL + "?" + buildQuery(query)
}

// buildQuery encodes data as key=value pairs joined by "&".
//
// Keys are sorted. Values are escaped with url.QueryEscape, so spaces
// become "+". Booleans encode as 1/0, nil values are skipped, and nested
// maps and slices use bracket keys:
//
//	{"a": "b c", "tags": ["x", "y"], "user": {"id": 7}}
//	a=b+c&tags%5B0%5D=x&tags%5B1%5D=y&user%5Bid%5D=7
func buildQuery(data map[string]any) string {
	pairs := make([]string, 0, len(data))
	for _, k := range sortedKeys(data) {
		pairs = appendPairs(pairs, k, data[k])
	}
	return strings.Join(pairs, "&")
}

func appendPairs(pairs []string, key string, v any) []string {
	if v == nil {
		return pairs
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		keys := make([]string, 0, rv.Len())
		values := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := fmt.Sprint(iter.Key().Interface())
			keys = append(keys, k)
			values[k] = iter.Value().Interface()
		}
		sort.Strings(keys)
		for _, k := range keys {
			pairs = appendPairs(pairs, key+"["+k+"]", values[k])
		}
		return pairs
	case reflect.Slice, reflect.Array:
		if b, ok := v.([]byte); ok {
			return append(pairs, url.QueryEscape(key)+"="+url.QueryEscape(string(b)))
		}
		for i := 0; i < rv.Len(); i++ {
			pairs = appendPairs(pairs, key+"["+strconv.Itoa(i)+"]", rv.Index(i).Interface())
		}
		return pairs
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return pairs
		}
		return appendPairs(pairs, key, rv.Elem().Interface())
	}

	return append(pairs, url.QueryEscape(key)+"="+url.QueryEscape(formatScalar(v)))
}

func formatScalar(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		if x {
			return "1"
		}
		return "0"
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
