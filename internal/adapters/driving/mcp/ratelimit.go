package mcp

import (
	"math"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/throughnateseyes/playbook/internal/logger"
)

// rateLimit rejects requests over the limiter's budget with 429.
func rateLimit(next http.Handler, limiter *rate.Limiter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reservation := limiter.Reserve()
		if !reservation.OK() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}
		if delay := reservation.Delay(); delay > 0 {
			reservation.Cancel()
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.Debug("Rate limited %s %s", r.Method, r.URL.Path)
			return
		}
		next.ServeHTTP(w, r)
	})
}
