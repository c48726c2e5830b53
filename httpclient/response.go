package httpclient

import (
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

// Result is the outcome of a call that received a response, whatever its
// status code.
//
// When the call had JSON set to true and the body decoded to a non-null
// value, Value returns that decoded value. Otherwise Value returns the raw
// body string. A body of literally "null" is treated like an undecodable
// body and comes back raw.
//
// Example:
//
//	res, err := client.Get(ctx, "https://api.example.com/users/1", &httpclient.Options{
//	    JSON: httpclient.Bool(true),
//	})
//	if err != nil {
//	    return err
//	}
//	if user, ok := res.Value().(map[string]any); ok {
//	    fmt.Println(user["name"])
//	}
//	fmt.Println(res.Get("address.city").String())
type Result struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int

	// Header holds the response headers.
	Header http.Header

	body        string
	value       any
	decoded     bool
	decodeErr   error
	request     *Request
	curlCommand string
}

// String returns the raw response body.
func (r *Result) String() string {
	return r.body
}

// Bytes returns the raw response body as bytes.
func (r *Result) Bytes() []byte {
	return []byte(r.body)
}

// Value returns the decoded JSON value when decoding was requested and
// succeeded with a non-null value, and the raw body string otherwise.
func (r *Result) Value() any {
	if r.decoded {
		return r.value
	}
	return r.body
}

// Decoded reports whether Value holds a decoded JSON value.
func (r *Result) Decoded() bool {
	return r.decoded
}

// DecodeErr returns the JSON syntax error swallowed when a JSON response
// could not be decoded. It is nil when decoding was not requested, when it
// succeeded, and when the body was the JSON null.
func (r *Result) DecodeErr() error {
	return r.decodeErr
}

// Get queries the raw body with a gjson path, regardless of the JSON option.
func (r *Result) Get(path string) gjson.Result {
	return gjson.Get(r.body, path)
}

// Request returns the request that produced this result.
func (r *Result) Request() *Request {
	return r.request
}

// CurlCommand returns the cURL command equivalent for this request.
// Only populated if WithGenerateCurl(true) was set on the client.
func (r *Result) CurlCommand() string {
	return r.curlCommand
}

// IsSuccess returns true if the response status code is 2xx.
func (r *Result) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsError returns true if the response status code is 4xx or 5xx.
func (r *Result) IsError() bool {
	return r.StatusCode >= 400
}

// decode attempts the JSON decode and reports the fallback reason, or ""
// when a value was decoded.
func (r *Result) decode() string {
	var v any
	if err := json.Unmarshal([]byte(r.body), &v); err != nil {
		r.decodeErr = err
		return "invalid"
	}
	if v == nil {
		return "null"
	}
	r.value = v
	r.decoded = true
	return ""
}
