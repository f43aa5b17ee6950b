package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scanner metrics
var (
	ScanRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mangashelf_scan_runs_total",
			Help: "Total number of library scans",
		},
	)

	ScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mangashelf_scan_duration_seconds",
			Help:    "Library scan duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
	)

	MangasDiscovered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mangashelf_mangas_discovered_total",
			Help: "Total number of mangas reported by scans",
		},
	)

	ChaptersDiscovered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mangashelf_chapters_discovered_total",
			Help: "Total number of chapters reported by scans",
		},
	)

	ScanEntriesSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mangashelf_scan_entries_skipped_total",
			Help: "Entries skipped while scanning, by reason",
		},
		[]string{"reason"}, // "unreadable", "no_chapters", "store_error"
	)
)

// Page metrics
var (
	PageReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mangashelf_page_reads_total",
			Help: "Total number of single page reads",
		},
		[]string{"kind", "status"},
	)

	ThumbnailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mangashelf_thumbnails_total",
			Help: "Total number of thumbnail generations",
		},
		[]string{"status"},
	)
)

// WriteTextfile dumps the default registry in the text exposition format,
// for node_exporter's textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
