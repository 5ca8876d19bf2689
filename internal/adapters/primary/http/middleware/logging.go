package middleware

import (
	"bufio"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	apperrors "github.com/lorrc/coordination-backend/internal/core/errors"
	"github.com/lorrc/coordination-backend/internal/infrastructure/logging"
)

// responseWriter wraps http.ResponseWriter to capture status code and bytes written
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
	sessionID    string
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += int64(n)
	return n, err
}

// bindSession records the session resolved by inner middleware so the
// request log can carry it.
func bindSession(w http.ResponseWriter, sessionID string) {
	if rw, ok := w.(*responseWriter); ok {
		rw.sessionID = sessionID
	}
}

// Flush implements http.Flusher if the underlying ResponseWriter supports it
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack implements http.Hijacker for websocket upgrades.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

// RequestLogger logs every request once it has been served.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := newResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			// Session middleware runs further in, so the session id is read
			// from the wrapped writer rather than r's context.
			ctx := r.Context()
			if wrapped.sessionID != "" {
				ctx = logging.WithSessionID(ctx, wrapped.sessionID)
			}
			logging.LogRequest(ctx, logger, logging.RequestRecord{
				Method:   r.Method,
				Path:     r.URL.Path,
				Query:    r.URL.RawQuery,
				Status:   wrapped.statusCode,
				Duration: time.Since(start),
				Bytes:    wrapped.bytesWritten,
				ClientIP: getClientIP(r),
			})
		})
	}
}

// RecoveryLogger recovers handler panics, logs them with their stack and
// answers with an internal error through respond.
func RecoveryLogger(logger *slog.Logger, respond ErrorResponder) func(http.Handler) http.Handler {
	respond = responderOrDefault(respond)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logging.LogPanic(logging.LoggerFromContext(r.Context(), logger).With(
					"method", r.Method,
					"path", r.URL.Path,
				), rec)
				respond(w, r, apperrors.NewInternalError(fmt.Errorf("panic: %v", rec)))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
