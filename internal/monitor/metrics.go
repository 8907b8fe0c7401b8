package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	reconnectsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "camwatch",
			Subsystem: "monitor",
			Name:      "reconnects_total",
			Help:      "Connections torn down and replaced, by reason",
		},
		[]string{"reason"},
	)

	framesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "camwatch",
			Subsystem: "monitor",
			Name:      "frames_total",
			Help:      "Frames consumed from the transcoder, by outcome (skipped|analyzed)",
		},
		[]string{"outcome"},
	)

	personsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "camwatch",
			Subsystem: "monitor",
			Name:      "persons_detected_total",
			Help:      "Persons found across analyzed frames",
		},
	)

	alertsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "camwatch",
			Subsystem: "monitor",
			Name:      "alerts_total",
			Help:      "Alert attempts, by outcome (fired|suppressed)",
		},
		[]string{"outcome"},
	)

	slotDropsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "camwatch",
			Subsystem: "monitor",
			Name:      "slot_drops_total",
			Help:      "Analyzed frames replaced before the preview consumed them",
		},
	)

	stateGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "camwatch",
			Subsystem: "monitor",
			Name:      "state",
			Help:      "1 for the current loop state, 0 otherwise",
		},
		[]string{"state"},
	)

	inferenceDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "camwatch",
			Subsystem: "monitor",
			Name:      "inference_duration_seconds",
			Help:      "Duration of one detector forward pass",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
		},
	)
)

var allStates = []State{StateStopped, StateConnecting, StateSniffing, StateStreaming, StateTearingDown}

func init() {
	prometheus.MustRegister(reconnectsTotal, framesTotal, personsTotal, alertsTotal, slotDropsTotal, stateGauge, inferenceDuration)
	for _, s := range allStates {
		stateGauge.WithLabelValues(string(s)).Set(0)
	}
	stateGauge.WithLabelValues(string(StateStopped)).Set(1)
}

func observeState(s State) {
	for _, st := range allStates {
		v := 0.0
		if st == s {
			v = 1
		}
		stateGauge.WithLabelValues(string(st)).Set(v)
	}
}
