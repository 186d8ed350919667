package httpserver

import (
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"review_insights/internal/adapters/observability"
)

const timeoutBody = `{"type":"about:blank","title":"Timeout","status":503,"detail":"request timed out"}`

// Timeout answers 503 with a problem body once d has passed.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler { return http.TimeoutHandler(next, d, timeoutBody) }
}

// served describes one finished request for the metrics and log hooks.
type served struct {
	route  string
	status int
	took   time.Duration
}

// observe runs next with a status-capturing writer and hands the outcome to
// done. The route is read after next returns, once chi has matched it.
func observe(done func(*http.Request, served)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			done(r, served{route: routeOf(r), status: status, took: time.Since(start)})
		})
	}
}

func routeOf(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// Metrics records request counts and latency per route pattern.
var Metrics = observe(func(r *http.Request, s served) {
	observability.ObserveHTTP(s.route, r.Method, s.status, s.took)
})

// Logger emits one structured line per request.
func Logger(l zerolog.Logger) func(http.Handler) http.Handler {
	return observe(func(r *http.Request, s served) {
		ev := l.Info()
		if s.status >= http.StatusInternalServerError {
			ev = l.Error()
		}
		ev.Str("route", s.route).
			Str("method", r.Method).
			Int("status", s.status).
			Dur("duration", s.took).
			Str("remote", clientIP(r)).
			Str("request_id", chimw.GetReqID(r.Context())).
			Str("ua", r.UserAgent()).
			Msg("http_request")
	})
}

// clientIP strips the port from RemoteAddr, which chimw.RealIP has already
// replaced with the forwarded client address when one was sent.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
