package middleware

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

type loggingWriter struct {
	http.ResponseWriter
	statusCode int
	hijacked   bool
}

func (w *loggingWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *loggingWriter) Write(b []byte) (int, error) {
	if w.statusCode == 0 {
		w.statusCode = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

func (w *loggingWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijack not supported")
	}
	w.hijacked = true
	return h.Hijack()
}

// Logging logs every request and counts it in the request metrics.
func Logging(log *logrus.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Debug(r.Method + " " + r.URL.RequestURI())
			start := time.Now()

			wrapped := &loggingWriter{ResponseWriter: w}

			next.ServeHTTP(wrapped, r)

			statusCode := wrapped.statusCode
			if statusCode == 0 && !wrapped.hijacked {
				statusCode = http.StatusOK
			}
			HttpRequests.WithLabelValues(r.Method, strconv.Itoa(statusCode)).Inc()

			log.WithFields(logrus.Fields{
				"status_code": statusCode,
				"hijacked":    wrapped.hijacked,
				"remote_addr": r.RemoteAddr,
				"xff_header":  r.Header.Get("X-Forwarded-For"),
				"method":      r.Method,
				"uri":         r.URL.RequestURI(),
				"duration_ms": time.Since(start).Milliseconds(),
			}).Info("handled request")
		})
	}
}
