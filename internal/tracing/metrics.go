package tracing

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricName = "planwing_operation_duration_seconds"
	metricHelp = "Duration of traced AI operations in seconds"
)

var (
	defaultOnce sync.Once
	defaultVec  *prometheus.HistogramVec
)

func histogramOpts() prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Name:    metricName,
		Help:    metricHelp,
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~20s
	}
}

// defaultDurationVec registers the histogram once on the default registry.
func defaultDurationVec() *prometheus.HistogramVec {
	defaultOnce.Do(func() {
		defaultVec = newDurationVec(prometheus.DefaultRegisterer)
	})
	return defaultVec
}

func newDurationVec(reg prometheus.Registerer) *prometheus.HistogramVec {
	vec := prometheus.NewHistogramVec(histogramOpts(), []string{"operation", "status"})
	if err := reg.Register(vec); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing
			}
		}
	}
	return vec
}
