package httpclient

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestInterceptor may modify a request before it is sent.
// Interceptors run in the order they were added, after the merged
// headers have been applied, so they can override them.
type RequestInterceptor func(req *http.Request) error

// ResponseInterceptor may inspect a response before its body is read.
// Returning an error aborts the call with that error.
type ResponseInterceptor func(resp *http.Response, req *http.Request) error

// InterceptorChain manages request and response interceptors.
type InterceptorChain struct {
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// NewInterceptorChain creates an empty interceptor chain.
func NewInterceptorChain() *InterceptorChain {
	return &InterceptorChain{}
}

// AddRequestInterceptor adds a request interceptor to the chain.
func (c *InterceptorChain) AddRequestInterceptor(i RequestInterceptor) {
	c.requestInterceptors = append(c.requestInterceptors, i)
}

// AddResponseInterceptor adds a response interceptor to the chain.
func (c *InterceptorChain) AddResponseInterceptor(i ResponseInterceptor) {
	c.responseInterceptors = append(c.responseInterceptors, i)
}

// ApplyRequestInterceptors runs all request interceptors in order,
// stopping at the first error.
func (c *InterceptorChain) ApplyRequestInterceptors(req *http.Request) error {
	for _, interceptor := range c.requestInterceptors {
		if err := interceptor(req); err != nil {
			return err
		}
	}
	return nil
}

// ApplyResponseInterceptors runs all response interceptors in order,
// stopping at the first error.
func (c *InterceptorChain) ApplyResponseInterceptors(resp *http.Response, req *http.Request) error {
	for _, interceptor := range c.responseInterceptors {
		if err := interceptor(resp, req); err != nil {
			return err
		}
	}
	return nil
}

// AuthBearerInterceptor adds "Authorization: Bearer <token>".
func AuthBearerInterceptor(token string) RequestInterceptor {
	return func(req *http.Request) error {
		req.Header.Set("Authorization", "Bearer "+token)
		return nil
	}
}

// AuthBearerFuncInterceptor adds a Bearer token obtained from tokenFunc on
// every request, for refreshable tokens.
func AuthBearerFuncInterceptor(tokenFunc func() (string, error)) RequestInterceptor {
	return func(req *http.Request) error {
		token, err := tokenFunc()
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		return nil
	}
}

// APIKeyInterceptor sets headerName to apiKey.
func APIKeyInterceptor(headerName, apiKey string) RequestInterceptor {
	return func(req *http.Request) error {
		req.Header.Set(headerName, apiKey)
		return nil
	}
}

// CorrelationIDInterceptor sets headerName to a fresh ID unless the
// request already carries one. A nil idFunc generates random UUIDs.
//
// Example:
//
//	client := httpclient.New(
//	    httpclient.WithRequestInterceptor(
//	        httpclient.CorrelationIDInterceptor("X-Request-Id", nil),
//	    ),
//	)
func CorrelationIDInterceptor(headerName string, idFunc func() string) RequestInterceptor {
	if idFunc == nil {
		idFunc = uuid.NewString
	}
	return func(req *http.Request) error {
		if req.Header.Get(headerName) == "" {
			req.Header.Set(headerName, idFunc())
		}
		return nil
	}
}
