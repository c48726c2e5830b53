package httpclient

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"
)

// Error type classifications, used for TransportError.Kind and the
// error.type attribute on spans and metrics.
const (
	ErrorTypeTimeout           = "timeout"
	ErrorTypeConnectionRefused = "connection_refused"
	ErrorTypeDNSError          = "dns_error"
	ErrorTypeTLSError          = "tls_error"
	ErrorTypeCancelled         = "cancelled"
	ErrorTypeConnectionReset   = "connection_reset"
	ErrorTypeEOF               = "eof"
	ErrorTypeRateLimited       = "rate_limited"
	ErrorTypeUnknown           = "unknown"
)

// ErrInvalidURL is returned when the request URL cannot be parsed.
var ErrInvalidURL = errors.New("invalid request url")

// EncodingError is returned when the Put body cannot be serialized.
type EncodingError struct {
	// Format is the body format that failed, e.g. "json".
	Format string
	Err    error
}

func (e *EncodingError) Error() string {
	return "encode " + e.Format + " body: " + e.Err.Error()
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// TransportError is returned when no response was received: the
// connection failed, timed out, was cancelled, or was refused by the
// client-side rate limiter. A response with any status code, including an
// empty body, is never a TransportError.
//
// Example:
//
//	res, err := client.Get(ctx, url, nil)
//	var terr *httpclient.TransportError
//	if errors.As(err, &terr) && terr.Kind == httpclient.ErrorTypeTimeout {
//	    // retry later
//	}
type TransportError struct {
	Method string
	URL    string
	// Kind is one of the ErrorType constants.
	Kind string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %s: %v", e.Method, e.URL, e.Kind, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func newTransportError(method, rawURL string, err error) *TransportError {
	return &TransportError{
		Method: method,
		URL:    rawURL,
		Kind:   classifyError(err),
		Err:    err,
	}
}

// classifyError maps a transport error to one of the ErrorType constants.
func classifyError(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, ErrRateLimited) {
		return ErrorTypeRateLimited
	}
	if errors.Is(err, context.Canceled) {
		return ErrorTypeCancelled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTypeTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return ErrorTypeTimeout
		}
		return ErrorTypeDNSError
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrorTypeTimeout
	}

	var tlsRecordErr *tls.RecordHeaderError
	if errors.As(err, &tlsRecordErr) {
		return ErrorTypeTLSError
	}
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return ErrorTypeTLSError
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return ErrorTypeConnectionRefused
	}
	if errors.Is(err, syscall.ECONNRESET) {
		return ErrorTypeConnectionReset
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrorTypeEOF
	}

	// Fallback for wrapped errors that lost their type.
	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "timeout"):
		return ErrorTypeTimeout
	case strings.Contains(errStr, "connection refused"):
		return ErrorTypeConnectionRefused
	case strings.Contains(errStr, "connection reset"):
		return ErrorTypeConnectionReset
	case strings.Contains(errStr, "no such host"):
		return ErrorTypeDNSError
	case strings.Contains(errStr, "tls"), strings.Contains(errStr, "certificate"),
		strings.Contains(errStr, "x509"):
		return ErrorTypeTLSError
	case strings.Contains(errStr, "eof"):
		return ErrorTypeEOF
	}

	return ErrorTypeUnknown
}
