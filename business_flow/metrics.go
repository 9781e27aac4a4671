package businessflow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Domain metrics exposed on /metrics alongside the HTTP middleware counters.
var (
	rescheduleDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reservas_reschedule_decisions_total",
		Help: "Reschedule evaluations by outcome and triggering rule kind",
	}, []string{"outcome", "rule_kind"})

	discountAssignments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reservas_discount_assignments_total",
		Help: "Discount assignment attempts by outcome",
	}, []string{"outcome"})

	ticketsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reservas_support_tickets_created_total",
		Help: "Support tickets created by type and priority",
	}, []string{"type", "priority"})
)
