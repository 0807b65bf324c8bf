// Package metrics tracks per-run counters printed at the end of a run.
package metrics

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"
)

// RunMetrics tracks what one pipeline run did.
type RunMetrics struct {
	// Timing
	StartTime time.Time
	EndTime   time.Time

	// Topics
	TopicTier      string
	TopicsAcquired int

	// Posts
	PostsGenerated int
	PostsSkipped   int
	DegradedFields int
	ImageTiers     map[string]int

	// Publishing
	FilesUploaded int
	FilesSkipped  int
	FilesFailed   int
}

// NewRunMetrics creates a new metrics instance.
func NewRunMetrics() *RunMetrics {
	return &RunMetrics{
		StartTime:  time.Now(),
		ImageTiers: make(map[string]int),
	}
}

// RecordEnd marks the end of the run.
func (m *RunMetrics) RecordEnd() {
	m.EndTime = time.Now()
}

// TotalDuration returns the total run duration.
func (m *RunMetrics) TotalDuration() time.Duration {
	if m.EndTime.IsZero() {
		return time.Since(m.StartTime)
	}
	return m.EndTime.Sub(m.StartTime)
}

// RecordPost counts a generated post, its degraded fields and image tier.
func (m *RunMetrics) RecordPost(degraded int, imageTier string) {
	m.PostsGenerated++
	m.DegradedFields += degraded
	if imageTier != "" {
		m.ImageTiers[imageTier]++
	}
}

// RecordSkipped counts a topic abandoned after a local error.
func (m *RunMetrics) RecordSkipped() {
	m.PostsSkipped++
}

// RecordPublish copies the upload counters.
func (m *RunMetrics) RecordPublish(uploaded, skipped, failed int) {
	m.FilesUploaded = uploaded
	m.FilesSkipped = skipped
	m.FilesFailed = failed
}

// String returns a formatted summary of the run (minimal single-line format).
func (m *RunMetrics) String() string {
	tier := m.TopicTier
	if tier == "" {
		tier = "none"
	}

	images := make([]string, 0, len(m.ImageTiers))
	for _, k := range slices.Sorted(maps.Keys(m.ImageTiers)) {
		images = append(images, fmt.Sprintf("%s %d", k, m.ImageTiers[k]))
	}
	imageText := "none"
	if len(images) > 0 {
		imageText = strings.Join(images, ", ")
	}

	return fmt.Sprintf("📊 Generated %d posts from %d topics (%s) in %v | skipped %d | degraded fields %d | images: %s | uploads: %d sent, %d unchanged, %d failed\n",
		m.PostsGenerated,
		m.TopicsAcquired,
		tier,
		m.TotalDuration().Round(time.Millisecond),
		m.PostsSkipped,
		m.DegradedFields,
		imageText,
		m.FilesUploaded,
		m.FilesSkipped,
		m.FilesFailed,
	)
}

// Print writes the metrics to w.
func (m *RunMetrics) Print(w io.Writer) {
	_, _ = fmt.Fprintln(w, m.String())
}
