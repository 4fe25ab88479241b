package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "marketplace"

// Collector holds the service's prometheus metrics.
type Collector struct {
	mutations      *prometheus.CounterVec
	rejected       *prometheus.CounterVec
	listDuration   *prometheus.HistogramVec
	listResultSize *prometheus.HistogramVec
	exports        *prometheus.CounterVec
	checkouts      prometheus.Counter
	statsRefreshes *prometheus.CounterVec
	wsClients      prometheus.Gauge
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// NewCollector creates the metrics and registers them with reg. A nil reg
// leaves them unregistered, which is what tests want.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Create, update and delete calls by item kind and outcome",
		}, []string{"kind", "op", "result"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_rejected_in_flight_total",
			Help:      "Mutations rejected because another one was in flight for the same item",
		}, []string{"kind"}),
		listDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "list_duration_seconds",
			Help:      "Time spent loading and deriving a list view",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		listResultSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "list_filtered_items",
			Help:      "Number of items left after filtering",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"kind"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "CSV exports by item kind and destination",
		}, []string{"kind", "destination"}),
		checkouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkouts_total",
			Help:      "Carts turned into orders",
		}),
		statsRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "live_stats_refreshes_total",
			Help:      "Periodic dashboard refreshes by outcome",
		}, []string{"result"}),
		wsClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_stats_clients",
			Help:      "Connected live stats websocket clients",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code",
		}, []string{"method", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}

	if reg != nil {
		reg.MustRegister(
			c.mutations, c.rejected, c.listDuration, c.listResultSize,
			c.exports, c.checkouts, c.statsRefreshes, c.wsClients,
			c.httpRequests, c.httpDuration,
		)
	}
	return c
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (c *Collector) ObserveMutation(kind, op string, err error) {
	if c == nil {
		return
	}
	c.mutations.WithLabelValues(kind, op, result(err)).Inc()
}

func (c *Collector) ObserveInFlightRejection(kind string) {
	if c == nil {
		return
	}
	c.rejected.WithLabelValues(kind).Inc()
}

func (c *Collector) ObserveList(kind string, filtered int, d time.Duration) {
	if c == nil {
		return
	}
	c.listDuration.WithLabelValues(kind).Observe(d.Seconds())
	c.listResultSize.WithLabelValues(kind).Observe(float64(filtered))
}

func (c *Collector) ObserveExport(kind, destination string) {
	if c == nil {
		return
	}
	c.exports.WithLabelValues(kind, destination).Inc()
}

func (c *Collector) ObserveCheckout() {
	if c == nil {
		return
	}
	c.checkouts.Inc()
}

func (c *Collector) ObserveStatsRefresh(err error) {
	if c == nil {
		return
	}
	c.statsRefreshes.WithLabelValues(result(err)).Inc()
}

func (c *Collector) SetLiveClients(n int) {
	if c == nil {
		return
	}
	c.wsClients.Set(float64(n))
}

func (c *Collector) ObserveHTTP(method string, code int, d time.Duration) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(method, statusCode(code)).Inc()
	c.httpDuration.WithLabelValues(method).Observe(d.Seconds())
}
