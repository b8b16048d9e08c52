package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// OptimizeRunsTotal counts cart optimization outcomes.
	OptimizeRunsTotal *prometheus.CounterVec
	// OptimizerRounds records how many rounds a run needed to converge.
	OptimizerRounds prometheus.Histogram
	// ScannedCodesTotal counts product units scanned into the cart.
	ScannedCodesTotal prometheus.Counter
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		OptimizeRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "optimize_runs_total",
			Help:      "Count of cart optimization runs by outcome.",
		}, []string{"result"})
		OptimizerRounds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "optimizer_rounds",
			Help:      "Rounds needed for an optimization run to converge.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21, 50, 100},
		})
		ScannedCodesTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scanned_codes_total",
			Help:      "Total number of product units scanned.",
		})

		mustRegisterCollector(reg, OptimizeRunsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				OptimizeRunsTotal = v
			}
		})
		mustRegisterCollector(reg, OptimizerRounds, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				OptimizerRounds = v
			}
		})
		mustRegisterCollector(reg, ScannedCodesTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				ScannedCodesTotal = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
