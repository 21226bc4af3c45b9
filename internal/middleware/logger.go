package middleware

import (
	"log"
	"net/http"
	"time"
)

// RequestLogger logs basic information about each HTTP request,
// including method, path, remote address, the request ID stamped by
// RequestID and how long the request took to serve.
func RequestLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.Printf("%s %s %s rid=%s [%s]",
				r.Method, r.URL.Path, r.RemoteAddr,
				w.Header().Get(RequestIDHeader), time.Since(start))
		})
	}
}
