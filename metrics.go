package fvecmat

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems. The prom
// package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordOpen is called after each Open.
	RecordOpen(duration time.Duration, err error)

	// RecordWrite is called after each Write. vectors is the number of
	// vectors appended and bytes the number of payload bytes they occupy.
	RecordWrite(vectors, bytes int, duration time.Duration, err error)

	// RecordClose is called after each Close of an open session.
	RecordClose(payloadBytes uint64, elements uint32, duration time.Duration, err error)

	// RecordUpload is called after the container was handed to a store.
	RecordUpload(size int64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordOpen(time.Duration, error)                 {}
func (NoopMetricsCollector) RecordWrite(int, int, time.Duration, error)      {}
func (NoopMetricsCollector) RecordClose(uint64, uint32, time.Duration, error) {}
func (NoopMetricsCollector) RecordUpload(int64, time.Duration, error)        {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	OpenCount        atomic.Int64
	OpenErrors       atomic.Int64
	WriteCount       atomic.Int64
	WriteErrors      atomic.Int64
	WriteTotalNanos  atomic.Int64
	VectorsWritten   atomic.Int64
	BytesWritten     atomic.Int64
	CloseCount       atomic.Int64
	CloseErrors      atomic.Int64
	ElementsFinished atomic.Int64
	UploadCount      atomic.Int64
	UploadErrors     atomic.Int64
	UploadBytes      atomic.Int64
}

// RecordOpen implements MetricsCollector.
func (b *BasicMetricsCollector) RecordOpen(duration time.Duration, err error) {
	b.OpenCount.Add(1)
	if err != nil {
		b.OpenErrors.Add(1)
	}
}

// RecordWrite implements MetricsCollector.
func (b *BasicMetricsCollector) RecordWrite(vectors, bytes int, duration time.Duration, err error) {
	b.WriteCount.Add(1)
	b.WriteTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.WriteErrors.Add(1)
		return
	}
	b.VectorsWritten.Add(int64(vectors))
	b.BytesWritten.Add(int64(bytes))
}

// RecordClose implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClose(payloadBytes uint64, elements uint32, duration time.Duration, err error) {
	b.CloseCount.Add(1)
	if err != nil {
		b.CloseErrors.Add(1)
		return
	}
	b.ElementsFinished.Add(int64(elements))
}

// RecordUpload implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUpload(size int64, duration time.Duration, err error) {
	b.UploadCount.Add(1)
	if err != nil {
		b.UploadErrors.Add(1)
		return
	}
	b.UploadBytes.Add(size)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		OpenCount:        b.OpenCount.Load(),
		OpenErrors:       b.OpenErrors.Load(),
		WriteCount:       b.WriteCount.Load(),
		WriteErrors:      b.WriteErrors.Load(),
		WriteAvgNanos:    b.getAvgWriteNanos(),
		VectorsWritten:   b.VectorsWritten.Load(),
		BytesWritten:     b.BytesWritten.Load(),
		CloseCount:       b.CloseCount.Load(),
		CloseErrors:      b.CloseErrors.Load(),
		ElementsFinished: b.ElementsFinished.Load(),
		UploadCount:      b.UploadCount.Load(),
		UploadErrors:     b.UploadErrors.Load(),
		UploadBytes:      b.UploadBytes.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgWriteNanos() int64 {
	count := b.WriteCount.Load()
	if count == 0 {
		return 0
	}
	return b.WriteTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	OpenCount        int64
	OpenErrors       int64
	WriteCount       int64
	WriteErrors      int64
	WriteAvgNanos    int64
	VectorsWritten   int64
	BytesWritten     int64
	CloseCount       int64
	CloseErrors      int64
	ElementsFinished int64
	UploadCount      int64
	UploadErrors     int64
	UploadBytes      int64
}
