package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service counters on a dedicated registry.
type Metrics struct {
	registry      *prometheus.Registry
	Verifications *prometheus.CounterVec
	QuotaCommits  *prometheus.CounterVec
	OrdersExpired prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Verifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "verigate_verification_requests_total",
			Help: "Verification requests by check and outcome",
		}, []string{"check", "outcome"}),
		QuotaCommits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "verigate_quota_commits_total",
			Help: "Quota commit attempts by check type and result",
		}, []string{"check_type", "result"}),
		OrdersExpired: factory.NewCounter(prometheus.CounterOpts{
			Name: "verigate_orders_expired_total",
			Help: "Orders moved to expired by the sweeper",
		}),
	}
}

func (m *Metrics) ObserveVerification(check, outcome string) {
	m.Verifications.WithLabelValues(check, outcome).Inc()
}

func (m *Metrics) ObserveCommit(checkType string, committed bool) {
	result := "committed"
	if !committed {
		result = "exhausted"
	}
	m.QuotaCommits.WithLabelValues(checkType, result).Inc()
}

func (m *Metrics) ObserveExpired(n int64) {
	if n > 0 {
		m.OrdersExpired.Add(float64(n))
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
