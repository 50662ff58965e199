package server

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// recordingWriter remembers the status the token handler replied with
type recordingWriter struct {
	http.ResponseWriter
	status int
}

func (rw *recordingWriter) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

// withRequestLog emits one "http request" entry per call after it completes
func withRequestLog(logger logrus.FieldLogger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &recordingWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rw.status,
			"duration": time.Since(started).Round(time.Microsecond).String(),
		}).Info("http request")
	})
}

// withPanicGuard answers a panicking handler with 500 {error} instead of dropping the connection
func withPanicGuard(logger logrus.FieldLogger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				logger.WithFields(logrus.Fields{
					"panic": v,
					"path":  r.URL.Path,
				}).Error("panic recovered")
				fail(w, http.StatusInternalServerError, "internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
