package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	insightStartedTotal   atomic.Uint64
	insightCompletedTotal atomic.Uint64
	insightFailedTotal    atomic.Uint64
	stageFallbackTotal    atomic.Uint64

	reportStartedTotal   atomic.Uint64
	reportCompletedTotal atomic.Uint64
	reportRejectedBusy   atomic.Uint64

	insightDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
	reportDuration  = newHistogram([]float64{250, 500, 1000, 2000, 5000, 10000, 30000, 60000, 120000})
)

// IncInsightStarted increments the insight-run started counter.
func IncInsightStarted() {
	insightStartedTotal.Add(1)
}

// IncInsightCompleted increments the insight-run completed counter.
func IncInsightCompleted() {
	insightCompletedTotal.Add(1)
}

// IncInsightFailed increments the insight-run failed counter.
func IncInsightFailed() {
	insightFailedTotal.Add(1)
}

// IncStageFallback counts a generative stage degrading to its fallback.
func IncStageFallback() {
	stageFallbackTotal.Add(1)
}

// IncReportStarted increments the report started counter.
func IncReportStarted() {
	reportStartedTotal.Add(1)
}

// IncReportCompleted increments the report completed counter.
func IncReportCompleted() {
	reportCompletedTotal.Add(1)
}

// IncReportBusy counts report requests rejected because one was in flight.
func IncReportBusy() {
	reportRejectedBusy.Add(1)
}

// ObserveInsightDurationMs records an insight-run duration in milliseconds.
func ObserveInsightDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	insightDuration.Observe(value)
}

// ObserveReportDurationMs records a report-generation duration in milliseconds.
func ObserveReportDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	reportDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "insight_started_total", "Total insight runs started", insightStartedTotal.Load())
	writeCounter(&buf, "insight_completed_total", "Total insight runs completed", insightCompletedTotal.Load())
	writeCounter(&buf, "insight_failed_total", "Total insight runs failed", insightFailedTotal.Load())
	writeCounter(&buf, "stage_fallback_total", "Total generative stage fallbacks", stageFallbackTotal.Load())
	writeCounter(&buf, "report_started_total", "Total reports started", reportStartedTotal.Load())
	writeCounter(&buf, "report_completed_total", "Total reports completed", reportCompletedTotal.Load())
	writeCounter(&buf, "report_busy_total", "Total report requests rejected as busy", reportRejectedBusy.Load())
	writeHistogram(&buf, "insight_duration_ms", "Insight run duration in milliseconds", insightDuration.Snapshot())
	writeHistogram(&buf, "report_duration_ms", "Report generation duration in milliseconds", reportDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// NowMillis returns current time in milliseconds, useful for callers without time utilities.
func NowMillis() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Millisecond)
}
