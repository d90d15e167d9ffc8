// Blackjack
// Copyright (C) the blackjack contributors
//
// Licensed under the MIT license. See the LICENSE file in the repository
// root for the full license text.

// Package metrics exposes Prometheus instrumentation for the interpreter's
// per-node evaluation loop.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder records node-evaluation counts and durations, labeled by op_name.
// The zero value is not usable; construct one with NewRecorder.
type Recorder struct {
	evalTotal    *prometheus.CounterVec
	evalErrors   *prometheus.CounterVec
	evalDuration *prometheus.HistogramVec
}

// NewRecorder builds a Recorder and registers its collectors with reg. Pass
// prometheus.DefaultRegisterer for the global registry, or a fresh
// prometheus.NewRegistry() in tests to avoid cross-test collector clashes.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		evalTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blackjack",
			Subsystem: "interp",
			Name:      "node_evaluations_total",
			Help:      "Number of times a node's op was evaluated, by op_name.",
		}, []string{"op_name"}),
		evalErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blackjack",
			Subsystem: "interp",
			Name:      "node_evaluation_errors_total",
			Help:      "Number of node evaluations that returned an error, by op_name.",
		}, []string{"op_name"}),
		evalDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "blackjack",
			Subsystem: "interp",
			Name:      "node_evaluation_duration_seconds",
			Help:      "Time spent evaluating a node's op, by op_name.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op_name"})}

	reg.MustRegister(r.evalTotal, r.evalErrors, r.evalDuration)
	return r
}

// Observe records one evaluation of opName that took dur and either
// succeeded or failed.
func (r *Recorder) Observe(opName string, dur time.Duration, err error) {
	r.evalTotal.WithLabelValues(opName).Inc()
	if err != nil {
		r.evalErrors.WithLabelValues(opName).Inc()
	}
	r.evalDuration.WithLabelValues(opName).Observe(dur.Seconds())
}
