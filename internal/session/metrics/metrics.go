package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var latencyBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}

// Metrics provides observability for the session module.
// Tracks scoring, partitioning, rejected intents and finalization.
type Metrics struct {
	IndividualsScored   prometheus.Counter
	TraitAssignments    *prometheus.CounterVec
	PartitionDuration   prometheus.Histogram
	RosterSize          prometheus.Gauge
	TransitionsRejected *prometheus.CounterVec
	Finalizations       *prometheus.CounterVec
	SnapshotWrite       prometheus.Histogram
	RevealsCancelled    prometheus.Counter
}

// New registers all session metrics with reg. Pass prometheus.DefaultRegisterer
// in production and a fresh prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		IndividualsScored: factory.NewCounter(prometheus.CounterOpts{
			Name: "teamsort_individuals_scored_total",
			Help: "Total number of completed assessments",
		}),
		TraitAssignments: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "teamsort_trait_assignments_total",
			Help: "Dominant trait assigned to scored individuals",
		}, []string{"trait"}),
		PartitionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "teamsort_partition_duration_seconds",
			Help:    "Duration of roster partitioning",
			Buckets: latencyBuckets,
		}),
		RosterSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "teamsort_roster_size",
			Help: "Number of individuals in the current roster",
		}),
		TransitionsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "teamsort_transitions_rejected_total",
			Help: "Intents rejected because the current step does not allow them",
		}, []string{"step", "intent"}),
		Finalizations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "teamsort_finalizations_total",
			Help: "Finalize attempts by outcome",
		}, []string{"outcome"}),
		SnapshotWrite: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "teamsort_snapshot_write_duration_seconds",
			Help:    "Duration of finalized snapshot writes",
			Buckets: latencyBuckets,
		}),
		RevealsCancelled: factory.NewCounter(prometheus.CounterOpts{
			Name: "teamsort_reveals_cancelled_total",
			Help: "Pending reveals cancelled before they fired",
		}),
	}
}

// IncrementScored records a completed assessment and its trait.
func (m *Metrics) IncrementScored(trait string) {
	m.IndividualsScored.Inc()
	m.TraitAssignments.WithLabelValues(trait).Inc()
}

// ObservePartition records a partition run.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObservePartition(start time.Time, rosterSize int) {
	m.PartitionDuration.Observe(time.Since(start).Seconds())
	m.RosterSize.Set(float64(rosterSize))
}

func (m *Metrics) IncrementRejected(step, intent string) {
	m.TransitionsRejected.WithLabelValues(step, intent).Inc()
}

// IncrementFinalization records a finalize outcome: "success", "rejected" or
// "store_error".
func (m *Metrics) IncrementFinalization(outcome string) {
	m.Finalizations.WithLabelValues(outcome).Inc()
}

// ObserveSnapshotWrite records the duration of a snapshot write.
func (m *Metrics) ObserveSnapshotWrite(start time.Time) {
	m.SnapshotWrite.Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementRevealCancelled() {
	m.RevealsCancelled.Inc()
}
