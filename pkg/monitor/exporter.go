package monitor

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	monitors   = map[string]*Monitor{}
	monitorsMu sync.RWMutex

	avgTimeGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "app_monitor_avg_time_ms",
		Help: "Average processing time in milliseconds for monitor",
	}, []string{"monitor"})

	successRateGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "app_monitor_success_rate",
		Help: "Success rate (0..1) for monitor",
	}, []string{"monitor"})

	countGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "app_monitor_count",
		Help: "Number of samples in sliding window for monitor",
	}, []string{"monitor"})
)

func init() {
	prometheus.MustRegister(avgTimeGauge)
	prometheus.MustRegister(successRateGauge)
	prometheus.MustRegister(countGauge)
}

func registerMonitor(m *Monitor) {
	if m == nil {
		return
	}
	monitorsMu.Lock()
	defer monitorsMu.Unlock()
	monitors[m.name] = m
}

// CollectMetrics samples all registered monitors and updates the gauges.
func CollectMetrics() {
	monitorsMu.RLock()
	defer monitorsMu.RUnlock()
	for name, m := range monitors {
		avg, succ, cnt := m.GetStats()
		avgTimeGauge.WithLabelValues(name).Set(avg)
		successRateGauge.WithLabelValues(name).Set(succ)
		countGauge.WithLabelValues(name).Set(float64(cnt))
	}
}

// Handler serves Prometheus metrics, sampling the monitors on each scrape so
// the gauges are current without a background ticker.
func Handler() http.Handler {
	prom := promhttp.Handler()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		CollectMetrics()
		prom.ServeHTTP(w, r)
	})
}
