package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dshills/keychord/internal/input"
)

// RenderMetrics renders a dispatch metrics snapshot and its health.
func RenderMetrics(snap input.MetricsSnapshot, health input.HealthStatus) string {
	rows := [][2]string{
		{"key-downs", fmt.Sprintf("%d", snap.KeyDowns)},
		{"fired", fmt.Sprintf("%d", snap.Fired)},
		{"mismatches", fmt.Sprintf("%d", snap.SequenceMismatches)},
		{"timeouts", fmt.Sprintf("%d", snap.SequenceTimeouts)},
		{"latency", fmt.Sprintf("avg %s  p99 %s  max %s  peak %s",
			roundLatency(snap.AvgLatency), roundLatency(snap.P99Latency),
			roundLatency(snap.MaxLatency), roundLatency(snap.PeakLatency))},
		{"uptime", fmt.Sprintf("%s  %.1f keys/s", snap.Uptime.Round(time.Second), snap.KeyDownsPerSecond)},
	}

	lines := []string{titleStyle.Render("Dispatch"), ""}
	for _, r := range rows {
		lines = append(lines, padRight(r[0], 12)+countStyle.Render(r[1]))
	}

	status := countStyle
	if !health.Healthy {
		status = keyStyle
	}
	lines = append(lines, padRight("health", 12)+status.Render(health.Message))
	return strings.Join(lines, "\n")
}

func roundLatency(d time.Duration) time.Duration {
	return d.Round(time.Microsecond)
}
