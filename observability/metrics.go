package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "weathericons"

// Metrics holds the Prometheus counters and histograms for one generation run.
type Metrics struct {
	registry *prometheus.Registry

	IconsEncoded   prometheus.Counter
	IconsMissing   prometheus.Counter
	IconsFailed    prometheus.Counter
	Cache          *prometheus.CounterVec // labels: result={hit,miss}
	EncodeDuration prometheus.Histogram
	BitmapBytes    prometheus.Gauge
}

// NewMetrics creates the run metrics and registers them with a private
// registry, so that runs never collide in the default registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		IconsEncoded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "icons_encoded_total",
			Help:      "Icons successfully encoded.",
		}),
		IconsMissing: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "icons_missing_total",
			Help:      "Registered icons skipped because no source image was found.",
		}),
		IconsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "icons_failed_total",
			Help:      "Icons skipped because the source image could not be decoded.",
		}),
		Cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Bitmap cache lookups by result.",
		}, []string{"result"}),
		EncodeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "encode_duration_seconds",
			Help:      "Duration of decoding, resampling and packing one icon.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		BitmapBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bitmap_bytes",
			Help:      "Total size of all encoded bitmaps.",
		}),
	}

	m.registry.MustRegister(
		m.IconsEncoded,
		m.IconsMissing,
		m.IconsFailed,
		m.Cache,
		m.EncodeDuration,
		m.BitmapBytes,
	)

	return m
}

// Gatherer returns the registry holding the metrics.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteToTextfile writes the metrics in the text exposition format, for
// collection by the node exporter textfile collector.
func (m *Metrics) WriteToTextfile(file string) error {
	return prometheus.WriteToTextfile(file, m.registry)
}
