// Package metrics provides the centralized Prometheus metrics registry
// for the oddsboard service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	ProviderRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "oddsboard",
		Name:      "provider_requests_total",
		Help:      "Upstream provider requests by source and result",
	}, []string{"source", "status"})
	OddsRowsFetchedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "oddsboard",
		Name:      "odds_rows_fetched_total",
		Help:      "Odds rows returned by each odds source",
	}, []string{"source"})
	MatchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "oddsboard",
		Name:      "matches_total",
		Help:      "Schedule entries successfully paired with an odds row",
	})
	MatchMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "oddsboard",
		Name:      "match_misses_total",
		Help:      "Schedule entries with no matching odds row",
	})
	ConsensusAgreementsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "oddsboard",
		Name:      "consensus_agreements_total",
		Help:      "Quotes corroborated by at least two books",
	})
	ConsensusMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "oddsboard",
		Name:      "consensus_misses_total",
		Help:      "Quote extractions with insufficient consensus",
	})
)

// Gauge metrics
var (
	OddsAPIRequestsRemaining = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "oddsboard",
		Name:      "odds_api_requests_remaining",
		Help:      "Remaining request quota reported by The Odds API",
	})
	BoardRows = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "oddsboard",
		Name:      "board_rows",
		Help:      "Rows on the most recent board per league",
	}, []string{"league"})
	WebsocketClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "oddsboard",
		Name:      "websocket_clients",
		Help:      "Connected websocket subscribers",
	})
)

// Histogram metrics
var (
	ProviderFetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "oddsboard",
		Name:      "provider_fetch_duration_seconds",
		Help:      "Duration of upstream provider fetches in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source"})
	BoardRefreshDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "oddsboard",
		Name:      "board_refresh_duration_seconds",
		Help:      "Duration of full board refresh cycles in seconds",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(ProviderRequestsTotal)
		registry.MustRegister(OddsRowsFetchedTotal)
		registry.MustRegister(MatchesTotal)
		registry.MustRegister(MatchMissesTotal)
		registry.MustRegister(ConsensusAgreementsTotal)
		registry.MustRegister(ConsensusMissesTotal)

		registry.MustRegister(OddsAPIRequestsRemaining)
		registry.MustRegister(BoardRows)
		registry.MustRegister(WebsocketClients)

		registry.MustRegister(ProviderFetchDuration)
		registry.MustRegister(BoardRefreshDuration)
	})
	return registry
}

// Handler returns an HTTP handler serving the registry
func Handler() http.Handler {
	return promhttp.HandlerFor(InitRegistry(), promhttp.HandlerOpts{})
}

// RecordProviderRequest records one upstream request outcome.
func RecordProviderRequest(source, status string) {
	ProviderRequestsTotal.WithLabelValues(source, status).Inc()
}

// RecordMatch records a pairing attempt result.
func RecordMatch(found bool) {
	if found {
		MatchesTotal.Inc()
	} else {
		MatchMissesTotal.Inc()
	}
}

// RecordConsensus records a consensus extraction result.
func RecordConsensus(agreed bool) {
	if agreed {
		ConsensusAgreementsTotal.Inc()
	} else {
		ConsensusMissesTotal.Inc()
	}
}
