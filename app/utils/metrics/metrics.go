package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds the catalog collectors. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	SalesTotal          prometheus.Counter
	SaleFailuresTotal   *prometheus.CounterVec
	SaleRetriesTotal    prometheus.Counter
	BatchUnitsProduced  prometheus.Counter
	EntityOperations    *prometheus.CounterVec
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec
}

func NewRecorder(prefix string, reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		SalesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_sales_total",
			Help: "Total number of recorded sales",
		}),
		SaleFailuresTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_sale_failures_total",
			Help: "Total number of refused sales by reason",
		}, []string{"reason"}),
		SaleRetriesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_sale_retries_total",
			Help: "Total number of sale attempts retried after losing a batch to a concurrent sale",
		}),
		BatchUnitsProduced: factory.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_batch_units_produced_total",
			Help: "Total number of units recorded through production batches",
		}),
		EntityOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_entity_operations_total",
			Help: "Total number of catalog write operations",
		}, []string{"entity", "operation"}),
		HttpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HttpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}
}

func (m *Recorder) SaleRecorded() {
	if m == nil {
		return
	}
	m.SalesTotal.Inc()
}

func (m *Recorder) SaleFailed(reason string) {
	if m == nil {
		return
	}
	m.SaleFailuresTotal.WithLabelValues(reason).Inc()
}

func (m *Recorder) SaleRetried() {
	if m == nil {
		return
	}
	m.SaleRetriesTotal.Inc()
}

func (m *Recorder) BatchCreated(units uint) {
	if m == nil {
		return
	}
	m.BatchUnitsProduced.Add(float64(units))
}

func (m *Recorder) EntityOperation(entity, operation string) {
	if m == nil {
		return
	}
	m.EntityOperations.WithLabelValues(entity, operation).Inc()
}

func (m *Recorder) ObserveRequest(method, path string, status int, latency time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.HttpRequestsTotal.WithLabelValues(method, path, code).Inc()
	m.HttpRequestDuration.WithLabelValues(method, path, code).Observe(latency.Seconds())
}
