package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegisterPerRegistry(t *testing.T) {
	// Two instances on separate registries must not collide.
	first := New(prometheus.NewRegistry())
	second := New(prometheus.NewRegistry())

	first.IncrementScored("D")
	first.IncrementScored("D")
	second.IncrementScored("I")

	assert.Equal(t, 2.0, testutil.ToFloat64(first.TraitAssignments.WithLabelValues("D")))
	assert.Equal(t, 1.0, testutil.ToFloat64(second.IndividualsScored))
}

func TestObservePartitionSetsRosterSize(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObservePartition(time.Now(), 7)
	assert.Equal(t, 7.0, testutil.ToFloat64(m.RosterSize))
}

func TestFinalizationOutcomes(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.IncrementFinalization("success")
	m.IncrementFinalization("rejected")
	m.IncrementFinalization("rejected")
	m.IncrementRejected("welcome", "finalize")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Finalizations.WithLabelValues("rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TransitionsRejected.WithLabelValues("welcome", "finalize")))
}
