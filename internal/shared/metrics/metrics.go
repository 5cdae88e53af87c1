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
	submissionsReceivedTotal           atomic.Uint64
	submissionsCommittedTotal          atomic.Uint64
	submissionsRejectedValidationTotal atomic.Uint64
	submissionsRejectedDuplicateTotal  atomic.Uint64
	submissionsFailedTotal             atomic.Uint64
	compensationFailuresTotal          atomic.Uint64
	statsCacheHitsTotal                atomic.Uint64
	statsCacheMissesTotal              atomic.Uint64

	submissionDuration = newHistogram([]float64{50, 100, 250, 500, 1000, 2000, 5000, 10000, 30000})
)

// IncSubmissionReceived increments the received counter.
func IncSubmissionReceived() {
	submissionsReceivedTotal.Add(1)
}

// IncSubmissionCommitted increments the committed counter.
func IncSubmissionCommitted() {
	submissionsCommittedTotal.Add(1)
}

// IncSubmissionRejectedValidation increments the validation-rejection counter.
func IncSubmissionRejectedValidation() {
	submissionsRejectedValidationTotal.Add(1)
}

// IncSubmissionRejectedDuplicate increments the duplicate-rejection counter.
func IncSubmissionRejectedDuplicate() {
	submissionsRejectedDuplicateTotal.Add(1)
}

// IncSubmissionFailed increments the infrastructure-failure counter.
func IncSubmissionFailed() {
	submissionsFailedTotal.Add(1)
}

// IncCompensationFailure increments the blob-cleanup failure counter.
// Nonzero values mean an orphaned blob needs operator attention.
func IncCompensationFailure() {
	compensationFailuresTotal.Add(1)
}

// IncStatsCacheHit increments the statistics cache hit counter.
func IncStatsCacheHit() {
	statsCacheHitsTotal.Add(1)
}

// IncStatsCacheMiss increments the statistics cache miss counter.
func IncStatsCacheMiss() {
	statsCacheMissesTotal.Add(1)
}

// ObserveSubmissionDurationMs records a full pipeline duration in milliseconds.
func ObserveSubmissionDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	submissionDuration.Observe(value)
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
	writeCounter(&buf, "submissions_received_total", "Total submission attempts received", submissionsReceivedTotal.Load())
	writeCounter(&buf, "submissions_committed_total", "Total submissions committed", submissionsCommittedTotal.Load())
	writeCounter(&buf, "submissions_rejected_validation_total", "Total submissions rejected by validation", submissionsRejectedValidationTotal.Load())
	writeCounter(&buf, "submissions_rejected_duplicate_total", "Total submissions rejected as duplicates", submissionsRejectedDuplicateTotal.Load())
	writeCounter(&buf, "submissions_failed_total", "Total submissions failed on storage", submissionsFailedTotal.Load())
	writeCounter(&buf, "compensation_failures_total", "Total blob compensation failures", compensationFailuresTotal.Load())
	writeCounter(&buf, "stats_cache_hits_total", "Total statistics cache hits", statsCacheHitsTotal.Load())
	writeCounter(&buf, "stats_cache_misses_total", "Total statistics cache misses", statsCacheMissesTotal.Load())
	writeHistogram(&buf, "submission_duration_ms", "Submission pipeline duration in milliseconds", submissionDuration.Snapshot())
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
