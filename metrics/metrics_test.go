// Blackjack
// Copyright (C) the blackjack contributors
//
// Licensed under the MIT license. See the LICENSE file in the repository
// root for the full license text.

package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/blackjack3d/blackjack/metrics"
)

func TestObserveIncrementsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := metrics.NewRecorder(reg)

	r.Observe("Box", 5*time.Millisecond, nil)
	r.Observe("Box", 5*time.Millisecond, errors.New("boom"))

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	var sawTotal, sawErrors bool
	for _, mf := range families {
		switch mf.GetName() {
		case "blackjack_interp_node_evaluations_total":
			sawTotal = true
			if got := totalCounterValue(mf, "Box"); got != 2 {
				t.Errorf("node_evaluations_total{op_name=Box} = %v, want 2", got)
			}
		case "blackjack_interp_node_evaluation_errors_total":
			sawErrors = true
			if got := totalCounterValue(mf, "Box"); got != 1 {
				t.Errorf("node_evaluation_errors_total{op_name=Box} = %v, want 1", got)
			}
		}
	}
	if !sawTotal || !sawErrors {
		t.Errorf("expected both counters to be registered and gathered")
	}
}

func totalCounterValue(mf *dto.MetricFamily, opName string) float64 {
	for _, m := range mf.GetMetric() {
		for _, l := range m.GetLabel() {
			if l.GetName() == "op_name" && l.GetValue() == opName {
				return m.GetCounter().GetValue()
			}
		}
	}
	return -1
}
