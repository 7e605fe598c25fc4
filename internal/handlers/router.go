package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shrimpsizemoose/quizdash/internal/app"
	"github.com/shrimpsizemoose/quizdash/internal/metrics"
)

// NewRouter wires the dashboard routes. /metrics is mounted by the caller.
func NewRouter(service *app.Service) http.Handler {
	h := NewDashboardHandler(service)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.withSession(h.HandleDashboard))
	mux.HandleFunc("GET /login", h.withSession(h.HandleLoginPage))
	mux.HandleFunc("POST /login", h.HandleLogin)
	mux.HandleFunc("POST /logout", h.withSession(h.HandleLogout))
	mux.HandleFunc("POST /refresh", h.withSession(h.HandleRefresh))

	mux.HandleFunc("GET /export.csv", h.requireSession(h.HandleExport))
	mux.HandleFunc("GET /api/v1/submissions", h.requireSession(h.HandleSubmissions))
	mux.HandleFunc("GET /api/v1/summary", h.requireSession(h.HandleSummary))
	mux.HandleFunc("GET /healthz", HandleHealth)

	return instrument(mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func instrument(next *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}
		metrics.APIRequestDuration.WithLabelValues(
			path,
			r.Method,
			strconv.Itoa(rec.status),
		).Observe(time.Since(start).Seconds())
	})
}
