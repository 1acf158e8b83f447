package observability

import (
	"io"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Outcome labels.
const (
	OutcomeOK        = "ok"
	OutcomeMalformed = "malformed"
	OutcomeEmpty     = "empty"
	OutcomeIOError   = "io_error"
	OutcomeFound     = "found"
	OutcomeNotFound  = "not_found"
)

var (
	registerOnce sync.Once

	// Registry holds only aeprobe metrics so a dump carries no process noise.
	Registry = prometheus.NewRegistry()

	parseTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aeprobe",
			Subsystem: "protocol",
			Name:      "parse_total",
			Help:      "Analysis stream parses by outcome.",
		},
		[]string{"outcome"},
	)
	parseDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "aeprobe",
			Subsystem: "protocol",
			Name:      "parse_duration_seconds",
			Help:      "Analysis stream parse and build duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
	)
	scanTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aeprobe",
			Subsystem: "signature",
			Name:      "scan_total",
			Help:      "Binary signature scans by outcome.",
		},
		[]string{"outcome"},
	)
	scanBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "aeprobe",
			Subsystem: "signature",
			Name:      "scan_bytes",
			Help:      "Bytes consumed before a scan stopped.",
			Buckets:   prometheus.ExponentialBuckets(40, 4, 10),
		},
	)
	resolveTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aeprobe",
			Subsystem: "version",
			Name:      "resolve_total",
			Help:      "Version resolutions by status.",
		},
		[]string{"status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		Registry.MustRegister(parseTotal, parseDuration, scanTotal, scanBytes, resolveTotal)
	})
}

func RecordParse(outcome string, duration time.Duration) {
	RegisterMetrics()
	parseTotal.WithLabelValues(outcome).Inc()
	parseDuration.Observe(duration.Seconds())
}

func RecordScan(outcome string, bytesRead int64) {
	RegisterMetrics()
	scanTotal.WithLabelValues(outcome).Inc()
	scanBytes.Observe(float64(bytesRead))
}

func RecordResolve(status string) {
	RegisterMetrics()
	resolveTotal.WithLabelValues(status).Inc()
}

// WriteText dumps every registered metric in the text exposition format.
func WriteText(w io.Writer) error {
	RegisterMetrics()
	families, err := Registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
