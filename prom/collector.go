package prom

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/fvecmat"
)

const (
	resultOK    = "ok"
	resultError = "error"
)

// Collector implements fvecmat.MetricsCollector with Prometheus metrics.
type Collector struct {
	operations    *prometheus.CounterVec
	durations     *prometheus.HistogramVec
	vectors       prometheus.Counter
	payloadBytes  prometheus.Counter
	elements      prometheus.Gauge
	containerSize prometheus.Gauge
	uploadBytes   prometheus.Counter
}

var _ fvecmat.MetricsCollector = (*Collector)(nil)

// NewCollector creates the metrics and registers them with reg.
func NewCollector(reg prometheus.Registerer, namespace string) (*Collector, error) {
	c := &Collector{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Session operations by type and result.",
		}, []string{"op", "result"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of session operations.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"op"}),
		vectors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vectors_written_total",
			Help:      "Feature vectors appended to containers.",
		}),
		payloadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payload_bytes_total",
			Help:      "Element bytes appended to containers.",
		}),
		elements: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_container_vectors",
			Help:      "Vectors in the most recently closed container.",
		}),
		containerSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_container_payload_bytes",
			Help:      "Outer element size of the most recently closed container.",
		}),
		uploadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upload_bytes_total",
			Help:      "Container bytes uploaded to remote stores.",
		}),
	}

	for _, m := range []prometheus.Collector{
		c.operations, c.durations, c.vectors, c.payloadBytes,
		c.elements, c.containerSize, c.uploadBytes,
	} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collector) observe(op string, d time.Duration, err error) {
	result := resultOK
	if err != nil {
		result = resultError
	}
	c.operations.WithLabelValues(op, result).Inc()
	c.durations.WithLabelValues(op).Observe(d.Seconds())
}

// RecordOpen implements fvecmat.MetricsCollector.
func (c *Collector) RecordOpen(d time.Duration, err error) {
	c.observe("open", d, err)
}

// RecordWrite implements fvecmat.MetricsCollector.
func (c *Collector) RecordWrite(vectors, bytes int, d time.Duration, err error) {
	c.observe("write", d, err)
	c.vectors.Add(float64(vectors))
	c.payloadBytes.Add(float64(bytes))
}

// RecordClose implements fvecmat.MetricsCollector.
func (c *Collector) RecordClose(payloadBytes uint64, elements uint32, d time.Duration, err error) {
	c.observe("close", d, err)
	if err == nil {
		c.elements.Set(float64(elements))
		c.containerSize.Set(float64(payloadBytes))
	}
}

// RecordUpload implements fvecmat.MetricsCollector.
func (c *Collector) RecordUpload(size int64, d time.Duration, err error) {
	c.observe("upload", d, err)
	if err == nil {
		c.uploadBytes.Add(float64(size))
	}
}

// WriteTextfile writes all metrics of g in the text exposition format.
// The file is replaced atomically.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
