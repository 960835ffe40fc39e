// internal/metrics/metrics.go
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/tamzrod/harp-expander/internal/feed"
	"github.com/tamzrod/harp-expander/internal/harp"
	"github.com/tamzrod/harp-expander/internal/register"
)

// Metrics holds the decoder counters on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Decoded      *prometheus.CounterVec
	Rejected     *prometheus.CounterVec
	MirrorWrites *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		Decoded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "harp_messages_decoded_total",
				Help: "Messages decoded, by stream and register.",
			},
			[]string{"stream", "register"},
		),

		Rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "harp_messages_rejected_total",
				Help: "Messages rejected, by stream and reason.",
			},
			[]string{"stream", "reason"},
		),

		MirrorWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "harp_mirror_writes_total",
				Help: "Modbus mirror writes, by stream and result.",
			},
			[]string{"stream", "result"},
		),
	}

	m.registry.MustRegister(m.Decoded, m.Rejected, m.MirrorWrites)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve starts the /metrics and /health endpoints in the background.
// The returned server is for shutdown.
func (m *Metrics) Serve(addr string, log logrus.FieldLogger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.WithField("addr", addr).Info("metrics server listening")
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("metrics server stopped")
		}
	}()
	return srv
}

// Reason classifies a rejection for the reason label.
func Reason(err error) string {
	switch {
	case errors.Is(err, register.ErrMalformedPayload):
		return "malformed_payload"
	case errors.Is(err, register.ErrUnknownRegister):
		return "unknown_register"
	case errors.Is(err, register.ErrUnrepresentable):
		return "unrepresentable"
	case errors.Is(err, harp.ErrChecksum),
		errors.Is(err, harp.ErrLengthMismatch),
		errors.Is(err, harp.ErrShortFrame),
		errors.Is(err, feed.ErrBadLine):
		return "frame"
	}
	return "other"
}
