package infrastructure

import (
	"context"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// DatasetRecords reports how many records the current dataset holds
type DatasetRecords func(ctx context.Context) int64

// SystemMetrics exports runtime and dataset gauges. Values are read on each
// collection, so nothing has to be recorded periodically.
type SystemMetrics struct {
	registration metric.Registration
	startTime    time.Time
}

// NewSystemMetrics registers the observable instruments on meter.
// datasetRecords may be nil.
func NewSystemMetrics(meter metric.Meter, datasetRecords DatasetRecords) (*SystemMetrics, error) {
	goRoutines, err := meter.Int64ObservableGauge(
		"system_goroutines",
		metric.WithDescription("Number of active goroutines"),
	)
	if err != nil {
		return nil, err
	}

	memoryUsage, err := meter.Int64ObservableGauge(
		"system_memory_usage_bytes",
		metric.WithDescription("Heap memory in use in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	memorySystem, err := meter.Int64ObservableGauge(
		"system_memory_system_bytes",
		metric.WithDescription("Memory obtained from the OS in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	gcCount, err := meter.Int64ObservableCounter(
		"system_gc_count",
		metric.WithDescription("Completed garbage collection cycles"),
	)
	if err != nil {
		return nil, err
	}

	processUptime, err := meter.Float64ObservableGauge(
		"system_process_uptime_seconds",
		metric.WithDescription("Process uptime in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	recordsLoaded, err := meter.Int64ObservableGauge(
		"solped_dataset_records",
		metric.WithDescription("Records in the current dataset"),
	)
	if err != nil {
		return nil, err
	}

	sm := &SystemMetrics{startTime: time.Now()}

	sm.registration, err = meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		stats := ReadSystemStats(sm.startTime)
		o.ObserveInt64(goRoutines, stats.GoRoutines)
		o.ObserveInt64(memoryUsage, stats.MemoryUsage)
		o.ObserveInt64(memorySystem, stats.MemorySystem)
		o.ObserveInt64(gcCount, int64(stats.GCCount))
		o.ObserveFloat64(processUptime, stats.ProcessUptime.Seconds())

		if datasetRecords != nil {
			o.ObserveInt64(recordsLoaded, datasetRecords(ctx))
		}
		return nil
	}, goRoutines, memoryUsage, memorySystem, gcCount, processUptime, recordsLoaded)
	if err != nil {
		return nil, err
	}

	return sm, nil
}

// Unregister stops reporting
func (sm *SystemMetrics) Unregister() error {
	if sm == nil || sm.registration == nil {
		return nil
	}
	return sm.registration.Unregister()
}

// SystemStats holds current runtime statistics
type SystemStats struct {
	GoRoutines    int64
	MemoryUsage   int64
	MemorySystem  int64
	GCCount       uint32
	LastGCPause   time.Duration
	CPUCount      int
	ProcessUptime time.Duration
	Timestamp     time.Time
}

// ReadSystemStats samples the Go runtime
func ReadSystemStats(startTime time.Time) *SystemStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return &SystemStats{
		GoRoutines:    int64(runtime.NumGoroutine()),
		MemoryUsage:   int64(memStats.Alloc),
		MemorySystem:  int64(memStats.Sys),
		GCCount:       memStats.NumGC,
		LastGCPause:   time.Duration(memStats.PauseNs[(memStats.NumGC+255)%256]),
		CPUCount:      runtime.NumCPU(),
		ProcessUptime: time.Since(startTime),
		Timestamp:     time.Now(),
	}
}

// FormatStats returns the stats as a flat map for JSON responses
func (stats *SystemStats) FormatStats() map[string]interface{} {
	return map[string]interface{}{
		"goroutines":       stats.GoRoutines,
		"memory_usage_mb":  stats.MemoryUsage / 1024 / 1024,
		"memory_system_mb": stats.MemorySystem / 1024 / 1024,
		"gc_count":         stats.GCCount,
		"last_gc_pause_ms": stats.LastGCPause.Milliseconds(),
		"cpu_count":        stats.CPUCount,
		"go_version":       runtime.Version(),
		"uptime_seconds":   stats.ProcessUptime.Seconds(),
	}
}
