package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// POSMetrics records service counters for the ordering and settlement flows.
type POSMetrics struct {
	ordersSubmitted *prometheus.CounterVec
	billsClosed     *prometheus.CounterVec
	syncRefreshes   *prometheus.CounterVec
	printJobs       *prometheus.CounterVec
	settleDuration  *prometheus.HistogramVec
}

// NewPOSMetrics registers the POS metrics on the provided registerer.
func NewPOSMetrics(reg prometheus.Registerer) *POSMetrics {
	if reg == nil {
		return &POSMetrics{}
	}
	ordersSubmitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_orders_submitted_total",
		Help: "Orders accepted for the kitchen, by order type.",
	}, []string{"order_type"})
	billsClosed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_bills_closed_total",
		Help: "Bills settled, by settlement mode.",
	}, []string{"mode"})
	syncRefreshes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_sync_refreshes_total",
		Help: "Floor refresh cycles completed, by strategy and outcome.",
	}, []string{"strategy", "outcome"})
	printJobs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_print_jobs_total",
		Help: "Print jobs published, by kind and outcome.",
	}, []string{"kind", "outcome"})
	settleDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pos_settlement_duration_seconds",
		Help:    "Duration of bill settlement round trips.",
		Buckets: prometheus.DefBuckets,
	}, []string{"mode"})
	reg.MustRegister(ordersSubmitted, billsClosed, syncRefreshes, printJobs, settleDuration)
	return &POSMetrics{
		ordersSubmitted: ordersSubmitted,
		billsClosed:     billsClosed,
		syncRefreshes:   syncRefreshes,
		printJobs:       printJobs,
		settleDuration:  settleDuration,
	}
}

// IncOrderSubmitted counts an accepted order.
func (m *POSMetrics) IncOrderSubmitted(orderType string) {
	if m == nil || m.ordersSubmitted == nil {
		return
	}
	m.ordersSubmitted.WithLabelValues(normalizeLabel(orderType)).Inc()
}

// IncBillClosed counts a settled bill.
func (m *POSMetrics) IncBillClosed(mode string) {
	if m == nil || m.billsClosed == nil {
		return
	}
	m.billsClosed.WithLabelValues(normalizeLabel(mode)).Inc()
}

// IncSyncRefresh counts one refresh cycle.
func (m *POSMetrics) IncSyncRefresh(strategy, outcome string) {
	if m == nil || m.syncRefreshes == nil {
		return
	}
	m.syncRefreshes.WithLabelValues(normalizeLabel(strategy), normalizeLabel(outcome)).Inc()
}

// IncPrintJob counts one published print job.
func (m *POSMetrics) IncPrintJob(kind, outcome string) {
	if m == nil || m.printJobs == nil {
		return
	}
	m.printJobs.WithLabelValues(normalizeLabel(kind), normalizeLabel(outcome)).Inc()
}

// ObserveSettlement records a settlement round-trip duration.
func (m *POSMetrics) ObserveSettlement(mode string, duration time.Duration) {
	if m == nil || m.settleDuration == nil {
		return
	}
	m.settleDuration.WithLabelValues(normalizeLabel(mode)).Observe(duration.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
