package metrics

import (
	"github.com/Dosada05/battle-system/models"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "battle_system"

// Recorder - счетчики движка сетки.
type Recorder interface {
	VoteRecorded(stage models.Stage)
	BattleResolved(stage models.Stage, manual bool)
	BattleDraw(stage models.Stage)
	BattleReset(stage models.Stage)
	TournamentCreated()
	TournamentDeleted()
	PhoenixActivated()
}

type prometheusRecorder struct {
	votes       *prometheus.CounterVec
	resolved    *prometheus.CounterVec
	draws       *prometheus.CounterVec
	resets      *prometheus.CounterVec
	tournaments *prometheus.CounterVec
	phoenix     prometheus.Counter
}

// NewPrometheusRecorder регистрирует счетчики в reg.
func NewPrometheusRecorder(reg prometheus.Registerer) Recorder {
	r := &prometheusRecorder{
		votes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_total",
			Help:      "Judge scores recorded, by stage.",
		}, []string{"stage"}),
		resolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "battles_resolved_total",
			Help:      "Battles that got a winner, by stage and source.",
		}, []string{"stage", "source"}),
		draws: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "battle_draws_total",
			Help:      "Fully judged battles that ended with equal totals.",
		}, []string{"stage"}),
		resets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "battle_resets_total",
			Help:      "Battle resets, by stage.",
		}, []string{"stage"}),
		tournaments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tournaments_total",
			Help:      "Tournament lifecycle operations.",
		}, []string{"action"}),
		phoenix: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "phoenix_activations_total",
			Help:      "Phoenix power activations.",
		}),
	}

	reg.MustRegister(r.votes, r.resolved, r.draws, r.resets, r.tournaments, r.phoenix)
	return r
}

func (r *prometheusRecorder) VoteRecorded(stage models.Stage) {
	r.votes.WithLabelValues(string(stage)).Inc()
}

func (r *prometheusRecorder) BattleResolved(stage models.Stage, manual bool) {
	source := "judges"
	if manual {
		source = "manual"
	}
	r.resolved.WithLabelValues(string(stage), source).Inc()
}

func (r *prometheusRecorder) BattleDraw(stage models.Stage) {
	r.draws.WithLabelValues(string(stage)).Inc()
}

func (r *prometheusRecorder) BattleReset(stage models.Stage) {
	r.resets.WithLabelValues(string(stage)).Inc()
}

func (r *prometheusRecorder) TournamentCreated() {
	r.tournaments.WithLabelValues("created").Inc()
}

func (r *prometheusRecorder) TournamentDeleted() {
	r.tournaments.WithLabelValues("deleted").Inc()
}

func (r *prometheusRecorder) PhoenixActivated() {
	r.phoenix.Inc()
}

type noopRecorder struct{}

// NewNoop возвращает Recorder, который ничего не делает.
func NewNoop() Recorder { return noopRecorder{} }

func (noopRecorder) VoteRecorded(models.Stage)         {}
func (noopRecorder) BattleResolved(models.Stage, bool) {}
func (noopRecorder) BattleDraw(models.Stage)           {}
func (noopRecorder) BattleReset(models.Stage)          {}
func (noopRecorder) TournamentCreated()                {}
func (noopRecorder) TournamentDeleted()                {}
func (noopRecorder) PhoenixActivated()                 {}
