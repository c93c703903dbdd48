// Package metrics exports engine activity to prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "halo"

// Collector counts performed and undone actions, fade samples and the size of the cue list.
// It satisfies action.Observer.
type Collector struct {
	// actionsPerformed counts actions performed or redone.
	// Labels: action (the action name, e.g. cue_select)
	actionsPerformed *prometheus.CounterVec

	// actionsUndone counts undone actions.
	// Labels: action
	actionsUndone *prometheus.CounterVec

	fadeTicks prometheus.Counter
	cues      prometheus.Gauge
}

// NewCollector registers the halo metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		actionsPerformed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_performed_total",
			Help:      "Total actions performed, including redos",
		}, []string{"action"}),
		actionsUndone: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_undone_total",
			Help:      "Total actions undone",
		}, []string{"action"}),
		fadeTicks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fade_ticks_total",
			Help:      "Total fade progress values published",
		}),
		cues: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cues",
			Help:      "Number of cues in the cue list",
		}),
	}
}

func (c *Collector) ActionPerformed(name string) {
	c.actionsPerformed.WithLabelValues(name).Inc()
}

func (c *Collector) ActionUndone(name string) {
	c.actionsUndone.WithLabelValues(name).Inc()
}

func (c *Collector) FadeTicked() {
	c.fadeTicks.Inc()
}

func (c *Collector) CueCountChanged(count int) {
	c.cues.Set(float64(count))
}
