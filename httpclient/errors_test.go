package httpclient

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	type args struct {
		err error
	}

	tests := []struct {
		name    string
		args    args
		wantVal string
	}{
		{name: "given nil, then returns empty", args: args{err: nil}, wantVal: ""},
		{
			name:    "given rate limited, then returns rate_limited",
			args:    args{err: ErrRateLimited},
			wantVal: ErrorTypeRateLimited,
		},
		{
			name:    "given context cancelled, then returns cancelled",
			args:    args{err: context.Canceled},
			wantVal: ErrorTypeCancelled,
		},
		{
			name:    "given deadline exceeded, then returns timeout",
			args:    args{err: context.DeadlineExceeded},
			wantVal: ErrorTypeTimeout,
		},
		{
			name:    "given wrapped deadline in url error, then returns timeout",
			args:    args{err: &url.Error{Op: "Get", URL: "http://x", Err: context.DeadlineExceeded}},
			wantVal: ErrorTypeTimeout,
		},
		{
			name:    "given ECONNREFUSED, then returns connection_refused",
			args:    args{err: fmt.Errorf("dial: %w", syscall.ECONNREFUSED)},
			wantVal: ErrorTypeConnectionRefused,
		},
		{
			name:    "given ECONNRESET, then returns connection_reset",
			args:    args{err: fmt.Errorf("read: %w", syscall.ECONNRESET)},
			wantVal: ErrorTypeConnectionReset,
		},
		{
			name:    "given unexpected EOF, then returns eof",
			args:    args{err: io.ErrUnexpectedEOF},
			wantVal: ErrorTypeEOF,
		},
		{
			name:    "given timeout text, then returns timeout",
			args:    args{err: errors.New("i/o timeout")},
			wantVal: ErrorTypeTimeout,
		},
		{
			name:    "given x509 text, then returns tls_error",
			args:    args{err: errors.New("x509: certificate signed by unknown authority")},
			wantVal: ErrorTypeTLSError,
		},
		{
			name:    "given unrelated error, then returns unknown",
			args:    args{err: errors.New("boom")},
			wantVal: ErrorTypeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantVal, classifyError(tt.args.err))
		})
	}
}

func TestClassifyError_NetErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantVal string
	}{
		{
			name:    "given DNS error, then returns dns_error",
			err:     &net.DNSError{Err: "no such host", Name: "example.com"},
			wantVal: ErrorTypeDNSError,
		},
		{
			name:    "given DNS timeout, then returns timeout",
			err:     &net.DNSError{Err: "lookup timed out", Name: "example.com", IsTimeout: true},
			wantVal: ErrorTypeTimeout,
		},
		{
			name:    "given TLS record header error, then returns tls_error",
			err:     &tls.RecordHeaderError{Msg: "tls: first record does not look like TLS"},
			wantVal: ErrorTypeTLSError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantVal, classifyError(tt.err))
		})
	}
}

func TestTransportError(t *testing.T) {
	cause := errors.New("connection refused")
	err := newTransportError("PUT", "https://api.example.com/x", cause)

	assert.Equal(t, ErrorTypeConnectionRefused, err.Kind)
	assert.Equal(t, "PUT https://api.example.com/x: connection_refused: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestEncodingError(t *testing.T) {
	cause := errors.New("unsupported type")
	err := &EncodingError{Format: "json", Err: cause}

	assert.Equal(t, "encode json body: unsupported type", err.Error())
	assert.ErrorIs(t, err, cause)
}
