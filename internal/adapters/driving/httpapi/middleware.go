package httpapi

import (
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// requestIDHeader carries the per-request correlation id.
const requestIDHeader = "X-Request-Id"

// requestID tags every request and response with a correlation id,
// preserving one supplied by the client.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// uploadRate bounds parse/upload throughput: extraction is CPU-bound, so a
// burst of large documents is smoothed rather than rejected outright.
var uploadRate = rate.NewLimiter(rate.Limit(5), 10)

// uploadLimiter applies the shared upload rate limit.
func uploadLimiter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := uploadRate.Wait(r.Context()); err != nil {
			http.Error(w, "rate limit wait aborted", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// cors allows any origin. The API is consumed by a browser front end served
// from a different origin.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
