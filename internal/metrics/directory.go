// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Directory pipeline stages.
const (
	StageScraped  = "scraped"
	StageExcluded = "excluded"
	StageServed   = "served"
)

var (
	directoryStations = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "radionara_directory_stations",
		Help: "Stations in the last directory listing, by pipeline stage",
	}, []string{"stage"})

	directorySearchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "radionara_directory_search_failures_total",
		Help: "Supplemental directory searches that failed and contributed nothing",
	})

	streamResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "radionara_stream_resolutions_total",
		Help: "Stream resolutions by source (curated, upstream) and outcome",
	}, []string{"source", "outcome"})
)

// RecordDirectoryStages publishes the counts of one directory build.
func RecordDirectoryStages(scraped, excluded, served int) {
	directoryStations.WithLabelValues(StageScraped).Set(float64(scraped))
	directoryStations.WithLabelValues(StageExcluded).Set(float64(excluded))
	directoryStations.WithLabelValues(StageServed).Set(float64(served))
}

// IncDirectorySearchFailure counts a failed supplemental search.
func IncDirectorySearchFailure() { directorySearchFailures.Inc() }

// IncStreamResolution records a resolver outcome.
func IncStreamResolution(source, outcome string) {
	streamResolutions.WithLabelValues(source, outcome).Inc()
}
