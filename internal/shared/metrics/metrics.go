package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	analysisStartedTotal   atomic.Uint64
	analysisCompletedTotal atomic.Uint64
	analysisFailedTotal    atomic.Uint64
	analysisDegradedTotal  atomic.Uint64

	docSyncFailedTotal    atomic.Uint64
	docSyncRecoveredTotal atomic.Uint64
	logDroppedTotal       atomic.Uint64

	eventsReceivedTotal  atomic.Uint64
	eventsProcessedTotal atomic.Uint64
	eventsFailedTotal    atomic.Uint64

	analysisDuration = newHistogram([]float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000})
)

// IncAnalysisStarted increments the started counter.
func IncAnalysisStarted() { analysisStartedTotal.Add(1) }

// IncAnalysisCompleted increments the completed counter.
func IncAnalysisCompleted() { analysisCompletedTotal.Add(1) }

// IncAnalysisFailed increments the failed counter.
func IncAnalysisFailed() { analysisFailedTotal.Add(1) }

// IncAnalysisDegraded increments the degraded counter (one or more facets fell back).
func IncAnalysisDegraded() { analysisDegradedTotal.Add(1) }

// IncDocSyncFailed increments the document-store sync failure counter.
func IncDocSyncFailed() { docSyncFailedTotal.Add(1) }

// IncDocSyncRecovered increments the reconciliation recovery counter.
func IncDocSyncRecovered() { docSyncRecoveredTotal.Add(1) }

// IncLogDropped increments the swallowed-processing-log counter.
func IncLogDropped() { logDroppedTotal.Add(1) }

// LogDropped returns the number of processing-log writes swallowed so far.
func LogDropped() uint64 { return logDroppedTotal.Load() }

// IncEventsReceived increments the text-event received counter.
func IncEventsReceived() { eventsReceivedTotal.Add(1) }

// IncEventsProcessed increments the text-event processed counter.
func IncEventsProcessed() { eventsProcessedTotal.Add(1) }

// IncEventsFailed increments the text-event failed counter.
func IncEventsFailed() { eventsFailedTotal.Add(1) }

// ObserveAnalysisDurationMs records an analysis duration in milliseconds.
func ObserveAnalysisDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	analysisDuration.Observe(value)
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
	writeCounter(&buf, "analysis_started_total", "Total analyses started", analysisStartedTotal.Load())
	writeCounter(&buf, "analysis_completed_total", "Total analyses completed", analysisCompletedTotal.Load())
	writeCounter(&buf, "analysis_failed_total", "Total analyses failed", analysisFailedTotal.Load())
	writeCounter(&buf, "analysis_degraded_total", "Total analyses completed with degraded facets", analysisDegradedTotal.Load())
	writeCounter(&buf, "docstore_sync_failed_total", "Total document-store sync failures", docSyncFailedTotal.Load())
	writeCounter(&buf, "docstore_sync_recovered_total", "Total reconciled document-store syncs", docSyncRecoveredTotal.Load())
	writeCounter(&buf, "processing_log_dropped_total", "Total processing log writes swallowed", logDroppedTotal.Load())
	writeCounter(&buf, "text_events_received_total", "Total text events received", eventsReceivedTotal.Load())
	writeCounter(&buf, "text_events_processed_total", "Total text events processed", eventsProcessedTotal.Load())
	writeCounter(&buf, "text_events_failed_total", "Total text events failed", eventsFailedTotal.Load())
	writeHistogram(&buf, "analysis_duration_ms", "Analysis duration in milliseconds", analysisDuration.Snapshot())
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
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
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
