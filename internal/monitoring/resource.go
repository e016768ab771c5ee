package monitoring

import (
	"runtime"
	"sync"
	"time"
)

// MemoryUsage describes heap memory consumption at sampling time.
type MemoryUsage struct {
	Used         uint64  `json:"used"`
	Total        uint64  `json:"total"`
	UsagePercent float64 `json:"usage_percent"`
}

// CPUUsage describes CPU consumption at sampling time. The percentage is a
// fixed placeholder pending a real implementation.
type CPUUsage struct {
	UsagePercent float64 `json:"usage_percent"`
}

// ResourceUsage is one point-in-time sample of process resource consumption.
type ResourceUsage struct {
	Timestamp time.Time     `json:"timestamp"`
	Memory    MemoryUsage   `json:"memory"`
	CPU       CPUUsage      `json:"cpu"`
	Uptime    time.Duration `json:"uptime"`
}

// ResourceMonitor samples process memory usage and retains the last sample.
type ResourceMonitor struct {
	mu        sync.Mutex
	disabled  bool
	startTime time.Time
	last      ResourceUsage
}

// NewResourceMonitor creates a resource monitor anchored at the current time.
func NewResourceMonitor(disabled bool) *ResourceMonitor {
	return &ResourceMonitor{
		disabled:  disabled,
		startTime: time.Now(),
	}
}

// ResourceUsage takes a fresh sample, stores it as the last usage, and
// returns it. When disabled the sample is zeroed apart from timestamp and
// uptime.
func (rm *ResourceMonitor) ResourceUsage() ResourceUsage {
	now := time.Now()
	usage := ResourceUsage{
		Timestamp: now,
		Uptime:    now.Sub(rm.startTime),
	}

	if !rm.disabled {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		usage.Memory = MemoryUsage{
			Used:  ms.HeapAlloc,
			Total: ms.HeapSys,
		}
		if ms.HeapSys > 0 {
			usage.Memory.UsagePercent = float64(ms.HeapAlloc) / float64(ms.HeapSys)
		}
	}

	rm.mu.Lock()
	rm.last = usage
	rm.mu.Unlock()

	return usage
}

// LastUsage returns the most recent sample.
func (rm *ResourceMonitor) LastUsage() ResourceUsage {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return rm.last
}

// StartTime returns the moment the monitor was created.
func (rm *ResourceMonitor) StartTime() time.Time {
	return rm.startTime
}
