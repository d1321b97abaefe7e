package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	iterations = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "chainrag_iterations_per_query",
		Help:    "Retrieval iterations executed per query",
		Buckets: []float64{1, 2, 3, 4, 5, 6, 8, 10},
	})

	tokenUsage = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chainrag_tokens_total",
		Help: "Tokens consumed per chain step",
	}, []string{"step"})

	searchLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chainrag_search_latency_ms",
		Help:    "Latency of vector search calls in milliseconds",
		Buckets: []float64{5, 10, 25, 50, 75, 100, 150, 200, 300, 500, 800, 1200},
	}, []string{"collection"})

	searchResults = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chainrag_search_results",
		Help:    "Number of results returned by a vector search",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
	}, []string{"collection"})

	routedCollections = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "chainrag_routed_collections",
		Help:    "Number of collections selected per sub-query",
		Buckets: []float64{0, 1, 2, 3, 4, 5, 8, 12},
	})

	earlyStops = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chainrag_early_stops_total",
		Help: "Queries that converged before the iteration cap",
	})
)

func ensureRegistered() {
	once.Do(func() {
		prometheus.MustRegister(iterations, tokenUsage, searchLatency, searchResults, routedCollections, earlyStops)
	})
}

// ObserveIterations records how many iterations a query consumed.
func ObserveIterations(n int) {
	ensureRegistered()
	iterations.Observe(float64(n))
}

// AddTokens accounts token consumption for one chain step.
func AddTokens(step string, n int) {
	ensureRegistered()
	if n <= 0 {
		return
	}
	tokenUsage.WithLabelValues(step).Add(float64(n))
}

// ObserveSearch records latency and result size for one collection search.
func ObserveSearch(collection string, start time.Time, results int) {
	ensureRegistered()
	searchLatency.WithLabelValues(collection).Observe(float64(time.Since(start).Milliseconds()))
	searchResults.WithLabelValues(collection).Observe(float64(results))
}

// ObserveRouting records the routing fan-out for one sub-query.
func ObserveRouting(selected int) {
	ensureRegistered()
	routedCollections.Observe(float64(selected))
}

// IncEarlyStop counts a convergence-triggered stop.
func IncEarlyStop() {
	ensureRegistered()
	earlyStops.Inc()
}
