// Package metrics holds the prometheus collectors shared by the collector
// pipeline and the dashboard.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APICalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pitwall_api_calls_total",
		Help: "YouTube API calls issued, by operation.",
	}, []string{"op"})

	APIRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pitwall_api_retries_total",
		Help: "YouTube API call retries, by operation.",
	}, []string{"op"})

	PagesFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pitwall_playlist_pages_total",
		Help: "Playlist pages fetched.",
	})

	RecordsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pitwall_records_skipped_total",
		Help: "Records dropped during normalization, by reason.",
	}, []string{"reason"})

	SnapshotReloads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pitwall_snapshot_reloads_total",
		Help: "Dashboard snapshot reloads.",
	})
)
