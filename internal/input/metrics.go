package input

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks dispatch activity. It may be read from any goroutine.
type Metrics struct {
	// Event counters
	keyDowns           atomic.Uint64
	keyUps             atomic.Uint64
	fired              atomic.Uint64
	sequenceMismatches atomic.Uint64
	sequenceTimeouts   atomic.Uint64

	// Latency tracking
	mu                sync.RWMutex
	latencies         []time.Duration
	maxLatencySamples int
	latencyIdx        int

	// Peak latency (all time)
	peakLatency atomic.Int64

	// Start time for uptime calculation
	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{
		latencies:         make([]time.Duration, 1000),
		maxLatencySamples: 1000,
		startTime:         time.Now(),
	}
}

// RecordKeyDown records a key-down with its dispatch time.
func (m *Metrics) RecordKeyDown(latency time.Duration) {
	m.keyDowns.Add(1)

	// Update peak latency
	latencyNs := latency.Nanoseconds()
	for {
		current := m.peakLatency.Load()
		if latencyNs <= current {
			break
		}
		if m.peakLatency.CompareAndSwap(current, latencyNs) {
			break
		}
	}

	// Store in circular buffer
	m.mu.Lock()
	m.latencies[m.latencyIdx] = latency
	m.latencyIdx = (m.latencyIdx + 1) % m.maxLatencySamples
	m.mu.Unlock()
}

// RecordKeyUp records a key-up.
func (m *Metrics) RecordKeyUp() {
	m.keyUps.Add(1)
}

// RecordFired records a shortcut firing.
func (m *Metrics) RecordFired() {
	m.fired.Add(1)
}

// RecordSequenceMismatch records a sequence buffer destroyed by a wrong key.
func (m *Metrics) RecordSequenceMismatch() {
	m.sequenceMismatches.Add(1)
}

// RecordSequenceTimeout records keys or buffers dropped by the timeout.
func (m *Metrics) RecordSequenceTimeout() {
	m.sequenceTimeouts.Add(1)
}

// MetricsSnapshot holds a point-in-time view of metrics.
type MetricsSnapshot struct {
	// Counters
	KeyDowns           uint64
	KeyUps             uint64
	Fired              uint64
	SequenceMismatches uint64
	SequenceTimeouts   uint64

	// Latency stats
	AvgLatency  time.Duration
	MaxLatency  time.Duration
	P99Latency  time.Duration
	PeakLatency time.Duration

	// Rates
	KeyDownsPerSecond float64

	// Uptime
	Uptime time.Duration
}

// Snapshot returns a point-in-time view of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	latencies := make([]time.Duration, len(m.latencies))
	copy(latencies, m.latencies)
	uptime := time.Since(m.startTime)
	m.mu.RUnlock()

	keyDowns := m.keyDowns.Load()

	snap := MetricsSnapshot{
		KeyDowns:           keyDowns,
		KeyUps:             m.keyUps.Load(),
		Fired:              m.fired.Load(),
		SequenceMismatches: m.sequenceMismatches.Load(),
		SequenceTimeouts:   m.sequenceTimeouts.Load(),
		PeakLatency:        time.Duration(m.peakLatency.Load()),
		Uptime:             uptime,
	}

	// Calculate rates
	if uptime > 0 {
		snap.KeyDownsPerSecond = float64(keyDowns) / uptime.Seconds()
	}

	snap.AvgLatency, snap.MaxLatency, snap.P99Latency = calculateLatencyStats(latencies)

	return snap
}

// calculateLatencyStats computes average, max, and p99 from a slice of latencies.
func calculateLatencyStats(latencies []time.Duration) (avg, maxLat, p99 time.Duration) {
	// Filter non-zero latencies
	valid := make([]time.Duration, 0, len(latencies))
	for _, l := range latencies {
		if l > 0 {
			valid = append(valid, l)
		}
	}

	if len(valid) == 0 {
		return 0, 0, 0
	}

	var sum time.Duration
	for _, l := range valid {
		sum += l
		if l > maxLat {
			maxLat = l
		}
	}
	avg = sum / time.Duration(len(valid))

	sort.Slice(valid, func(i, j int) bool { return valid[i] < valid[j] })

	// P99
	idx := int(float64(len(valid)) * 0.99)
	if idx >= len(valid) {
		idx = len(valid) - 1
	}
	p99 = valid[idx]

	return avg, maxLat, p99
}

// HealthStatus represents the current health status of dispatch.
type HealthStatus struct {
	Healthy          bool
	PeakLatency      time.Duration
	LatencyThreshold time.Duration
	Message          string
}

// HealthCheck returns the current health status.
func (m *Metrics) HealthCheck(latencyThreshold time.Duration) HealthStatus {
	status := HealthStatus{
		Healthy:          true,
		PeakLatency:      time.Duration(m.peakLatency.Load()),
		LatencyThreshold: latencyThreshold,
	}

	if status.PeakLatency > latencyThreshold {
		status.Healthy = false
		status.Message = "latency threshold exceeded"
	} else {
		status.Message = "healthy"
	}

	return status
}
