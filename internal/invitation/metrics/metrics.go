package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	InvitationsIssued   prometheus.Counter
	InvitationsRedeemed prometheus.Counter
	RedeemRejected      *prometheus.CounterVec
	CodeCollisions      prometheus.Counter
	CodeSpaceExhausted  prometheus.Counter
}

// New creates the invitation metrics and registers them with reg (nil leaves them unregistered).
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		InvitationsIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "moodlog_invitations_issued_total",
			Help: "Invitation codes issued",
		}),
		InvitationsRedeemed: factory.NewCounter(prometheus.CounterOpts{
			Name: "moodlog_invitations_redeemed_total",
			Help: "Invitation codes redeemed",
		}),
		RedeemRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "moodlog_invitations_redeem_rejected_total",
			Help: "Redemptions rejected, by reason",
		}, []string{"reason"}),
		CodeCollisions: factory.NewCounter(prometheus.CounterOpts{
			Name: "moodlog_invitation_code_collisions_total",
			Help: "Generated codes that collided with an unused code",
		}),
		CodeSpaceExhausted: factory.NewCounter(prometheus.CounterOpts{
			Name: "moodlog_invitation_code_space_exhausted_total",
			Help: "Issuances that ran out of generation attempts",
		}),
	}
}

func (m *Metrics) IncrementIssued() {
	if m == nil {
		return
	}
	m.InvitationsIssued.Inc()
}

func (m *Metrics) IncrementRedeemed() {
	if m == nil {
		return
	}
	m.InvitationsRedeemed.Inc()
}

func (m *Metrics) IncrementRedeemRejected(reason string) {
	if m == nil {
		return
	}
	m.RedeemRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncrementCollision() {
	if m == nil {
		return
	}
	m.CodeCollisions.Inc()
}

func (m *Metrics) IncrementExhausted() {
	if m == nil {
		return
	}
	m.CodeSpaceExhausted.Inc()
}
