package middleware

import "net/http"

// ResponseWriter wraps http.ResponseWriter to capture status code and size.
//
// The recorded status is monotone: the first explicit WriteHeader wins, a
// body write without a prior header write implicitly records 200, and no
// later write changes it. The record is request-local and discarded when
// the response completes.
type ResponseWriter struct {
	http.ResponseWriter
	status       int // 0 until the first header or body write
	bytesWritten int64
}

// NewResponseWriter wraps w for status and byte accounting.
func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{ResponseWriter: w}
}

func (rw *ResponseWriter) WriteHeader(code int) {
	if rw.status == 0 {
		rw.status = code
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *ResponseWriter) Write(b []byte) (int, error) {
	if rw.status == 0 {
		rw.status = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += int64(n)
	return n, err
}

// Flush passes through to the underlying writer when it supports streaming.
func (rw *ResponseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Status returns the recorded status code, or 0 when the handler never
// wrote a response. Callers treat 0 as a fault.
func (rw *ResponseWriter) Status() int {
	return rw.status
}

// BytesWritten returns the number of body bytes written so far.
func (rw *ResponseWriter) BytesWritten() int64 {
	return rw.bytesWritten
}

// CaptureResponse installs the capture wrapper around the response sink.
// Decorators further in can observe the outcome via Captured.
func CaptureResponse() Decorator {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(NewResponseWriter(w), r)
		})
	}
}

// Captured returns the capture record installed by CaptureResponse, or nil
// when the request did not pass through it.
func Captured(w http.ResponseWriter) *ResponseWriter {
	rw, _ := w.(*ResponseWriter)
	return rw
}
