package search

import (
	"math/big"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rfielding/zfsearch/verifier"
)

var (
	candidatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zfsearch_candidates_total",
		Help: "Candidates checked, by root rule and outcome",
	}, []string{"rule", "result"})

	candidateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "zfsearch_candidate_duration_seconds",
		Help:    "Time to verify one candidate",
		Buckets: prometheus.ExponentialBuckets(0.000001, 4, 10), // 1µs to ~260ms
	})

	candidateSteps = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "zfsearch_candidate_steps",
		Help:    "Witnesses examined per candidate",
		Buckets: []float64{1, 2, 3, 5, 10, 20, 50},
	})

	checkpointsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zfsearch_checkpoints_total",
		Help: "Checkpoint writes by result",
	}, []string{"result"})

	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zfsearch_runs_total",
		Help: "Finished runs by stop reason",
	}, []string{"stop"})

	nextIndex = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "zfsearch_next_index",
		Help: "Next candidate index of the last finished run (approximate above 2^53)",
	})
)

func observeCandidate(idx *big.Int, m *verifier.Machine, d time.Duration) {
	candidatesTotal.WithLabelValues(ruleLabel(idx), outcome(m)).Inc()
	candidateDuration.Observe(d.Seconds())
	candidateSteps.Observe(float64(m.Steps()))
}

func setNextIndex(idx *big.Int) {
	f, _ := new(big.Float).SetInt(idx).Float64()
	nextIndex.Set(f)
}
