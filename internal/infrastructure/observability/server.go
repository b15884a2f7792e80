package observability

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewMetricsHandler отдаёт /metrics из g и /healthz
func NewMetricsHandler(g prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// MetricsServer HTTP-сервер метрик, работающий в фоне.
type MetricsServer struct {
	srv *http.Server
}

// StartMetricsServer запускает сервер метрик на addr
func StartMetricsServer(addr string, g prometheus.Gatherer) *MetricsServer {
	s := &MetricsServer{srv: &http.Server{
		Addr:              addr,
		Handler:           NewMetricsHandler(g),
		ReadHeaderTimeout: 5 * time.Second,
	}}

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("metrics server exited: %v", err)
		}
	}()

	log.Printf("Metrics listening on %s", addr)
	return s
}

// Shutdown останавливает сервер
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
