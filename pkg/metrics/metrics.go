// Package metrics stores operational gauges and counters in an embedded
// time-series database under the application workdir.
package metrics

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
	"go.uber.org/zap"
)

var (
	mu      sync.RWMutex
	storage tstorage.Storage
)

// InitMetrics opens the metrics storage under workdir/metrics.
func InitMetrics(workdir string) error {
	s, err := tstorage.NewStorage(
		tstorage.WithDataPath(filepath.Join(workdir, "metrics")),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithRetention(7*24*time.Hour),
	)
	if err != nil {
		return err
	}
	mu.Lock()
	storage = s
	mu.Unlock()
	return nil
}

// SetGauge records the current value of a named gauge.
func SetGauge(name string, value int64) {
	insert(name, float64(value))
}

// IncrCounter records one counter increment sample.
func IncrCounter(name string, delta int64) {
	insert(name, float64(delta))
}

func insert(name string, value float64) {
	mu.RLock()
	s := storage
	mu.RUnlock()
	if s == nil {
		return
	}
	err := s.InsertRows([]tstorage.Row{
		{
			Metric:    name,
			DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: value},
		},
	})
	if err != nil {
		zap.L().Debug("metrics: insert failed", zap.String("metric", name), zap.Error(err))
	}
}

// Select returns the data points of a metric in [start, end].
func Select(name string, start, end int64) ([]*tstorage.DataPoint, error) {
	mu.RLock()
	s := storage
	mu.RUnlock()
	if s == nil {
		return nil, nil
	}
	return s.Select(name, nil, start, end)
}

// Close flushes and closes the metrics storage.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if storage == nil {
		return nil
	}
	err := storage.Close()
	storage = nil
	return err
}
