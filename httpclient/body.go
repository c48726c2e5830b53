package httpclient

import (
	"bytes"
	"io"
	"strings"
	"sync/atomic"

	json "github.com/goccy/go-json"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
)

// encodeBody serializes o.Data for a Put and records the matching
// Content-Type on o.Headers, creating the map if needed. It runs before
// defaults are merged, so the body encoding follows the call-site JSON
// flag only.
func encodeBody(o *Options) (string, error) {
	if o.Headers == nil {
		o.Headers = make(map[string]string, 1)
	}

	if o.jsonEnabled() {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(o.Data); err != nil {
			return "", &EncodingError{Format: "json", Err: err}
		}
		o.Headers["Content-Type"] = contentTypeJSON
		return strings.TrimSuffix(buf.String(), "\n"), nil
	}

	o.Headers["Content-Type"] = contentTypeForm
	return buildQuery(o.Data), nil
}

// wrappedBody wraps a response body so the request span covers the body
// transfer. It counts bytes read, records read errors on the span, and
// ends the span once, at EOF or Close, whichever comes first.
type wrappedBody struct {
	span   trace.Span
	body   io.ReadCloser
	read   atomic.Int64
	closed atomic.Bool

	// onClose receives the total bytes read when the span ends.
	onClose func(bytesRead int64)
}

// newWrappedBody returns body wrapped so it ends span. A nil body ends
// the span immediately and returns nil.
func newWrappedBody(span trace.Span, body io.ReadCloser, onClose func(bytesRead int64)) io.ReadCloser {
	wb := &wrappedBody{
		span:    span,
		body:    body,
		onClose: onClose,
	}
	if body == nil {
		wb.endSpan()
		return nil
	}
	return wb
}

func (w *wrappedBody) Read(p []byte) (int, error) {
	n, err := w.body.Read(p)
	w.read.Add(int64(n))

	switch err {
	case nil:
	case io.EOF:
		w.endSpan()
	default:
		w.span.RecordError(err)
		w.span.SetStatus(codes.Error, err.Error())
	}

	return n, err
}

func (w *wrappedBody) Close() error {
	w.endSpan()
	return w.body.Close()
}

func (w *wrappedBody) endSpan() {
	if w.closed.CompareAndSwap(false, true) {
		if w.onClose != nil {
			w.onClose(w.read.Load())
		}
		w.span.End()
	}
}
