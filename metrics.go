package entangle

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "entangle"

type metrics struct {
	atomWrites     prometheus.Counter
	recomputations *prometheus.CounterVec
	asyncFailures  prometheus.Counter
	familyMembers  prometheus.Counter
}

// newMetrics builds the counters for one system. A nil registerer leaves them
// unregistered but still usable.
func newMetrics(systemID string, reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	labels := prometheus.Labels{"system": systemID}

	return &metrics{
		atomWrites: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "atom_writes_total",
			Help:        "Total number of atom writes, including molecule recomputations",
			ConstLabels: labels,
		}),
		recomputations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "recomputations_total",
			Help:        "Total number of derivation runs triggered by a tracked source",
			ConstLabels: labels,
		}, []string{"kind"}),
		asyncFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "async_failures_total",
			Help:        "Total number of failed async derivations",
			ConstLabels: labels,
		}),
		familyMembers: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "family_members_total",
			Help:        "Total number of family members constructed",
			ConstLabels: labels,
		}),
	}
}
