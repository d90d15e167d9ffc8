// Blackjack
// Copyright (C) the blackjack contributors
//
// Licensed under the MIT license. See the LICENSE file in the repository
// root for the full license text.

// Package interp is the graph compiler & interpreter (spec Component E): it
// walks a graphmodel.Graph in topological order, resolves each node's
// inputs from upstream outputs / external parameters / computed
// expressions, dispatches to the node's opset.Op, and caches results so a
// node with several downstream consumers is only evaluated once.
//
// The output cache and external-value table mirror the shape of the
// teacher repository's lang/funcs/dage.Engine (its table/state/output-cache
// trio), simplified from dage's asynchronous, streaming, re-entrant
// evaluation to a single synchronous pass: this engine has no notion of a
// long-lived running program receiving live input changes, so the
// pause/resume/refresh machinery dage needs has no analog here.
package interp

import (
	"fmt"
	"time"

	"github.com/blackjack3d/blackjack/graphmodel"
	"github.com/blackjack3d/blackjack/metrics"
	"github.com/blackjack3d/blackjack/opset"
	"github.com/blackjack3d/blackjack/util/errwrap"
)

// ErrNoReturnValue is returned by Run when the requested terminal node has
// no return_value set (spec §9 Open Question 2: no implicit fallback).
var ErrNoReturnValue = fmt.Errorf("interp: node has no return_value set")

// Interpreter evaluates a graphmodel.Graph, one node at a time, in
// dependency order.
type Interpreter struct {
	Graph *graphmodel.Graph

	// Logf receives one line per node evaluated, in the teacher's
	// closure-based logging idiom (see util/log.go) rather than a
	// structured logging library the pack never uses for its own code.
	Logf func(format string, v ...interface{})

	// Recorder, if non-nil, records per-node evaluation counts and
	// durations.
	Recorder *metrics.Recorder

	// External supplies values for every input whose DependencyKind is
	// ExternalDependency, keyed by node and input name.
	External map[graphmodel.NodeHandle]map[string]interface{}

	// gizmoState holds each gizmo-bearing node's last-known GizmoState,
	// persisted across Run calls the way a real-time gizmo's on-screen
	// manipulation state survives re-evaluation (spec §3.6).
	gizmoState map[graphmodel.NodeHandle]opset.GizmoState

	// activeNode is the node whose gizmo, if any, is currently locked for
	// interactive editing (spec §3.6): UpdateParams is only consulted for
	// this node during a Run.
	activeNode graphmodel.NodeHandle

	// activeChanged mirrors original_source's graph_interpreter.rs
	// GizmoState.gizmos_changed: true only when activeNode's gizmo was
	// just dragged to a new value since the last Run. UpdateParams is
	// gated on this, not just on being the active node, so a gizmo that's
	// merely visible on screen, unmoved, doesn't silently overwrite the
	// node's externally supplied parameters on every Run.
	activeChanged bool

	outputs map[graphmodel.NodeHandle]opset.Params
}

// NewInterpreter returns an Interpreter ready to evaluate g.
func NewInterpreter(g *graphmodel.Graph) *Interpreter {
	return &Interpreter{
		Graph:      g,
		Logf:       func(string, ...interface{}) {},
		External:   map[graphmodel.NodeHandle]map[string]interface{}{},
		gizmoState: map[graphmodel.NodeHandle]opset.GizmoState{},
	}
}

// SetActiveNode marks n as the node whose gizmo is locked for interactive
// editing for the next Run call, or clears it when n is the nil handle
// (spec §3.6: "locked" flag). changed reports whether n's gizmo was just
// dragged to a new value; pass false when n merely became active (e.g. the
// user selected the node but hasn't touched its gizmo yet).
func (in *Interpreter) SetActiveNode(n graphmodel.NodeHandle, changed bool) {
	in.activeNode = n
	in.activeChanged = changed
}

// SetExternal records value for node n's externally-sourced input name.
func (in *Interpreter) SetExternal(n graphmodel.NodeHandle, name string, value interface{}) {
	row, ok := in.External[n]
	if !ok {
		row = map[string]interface{}{}
		in.External[n] = row
	}
	row[name] = value
}

// GizmoState returns node n's last-recorded gizmo state, if any.
func (in *Interpreter) GizmoState(n graphmodel.NodeHandle) (opset.GizmoState, bool) {
	s, ok := in.gizmoState[n]
	return s, ok
}

// SetGizmoState seeds node n's gizmo state, e.g. restoring it from a saved
// session before the first Run, or applying a UI-side drag before the Run
// that should consume it via SetActiveNode(n, true).
func (in *Interpreter) SetGizmoState(n graphmodel.NodeHandle, state opset.GizmoState) {
	in.gizmoState[n] = state
}

// Run evaluates every node reachable (transitively, through its inputs)
// from target, in topological order, and returns the value target's
// return_value output held after evaluation.
func (in *Interpreter) Run(target graphmodel.NodeHandle) (interface{}, error) {
	returnName := in.Graph.ReturnValue(target)
	if returnName == "" {
		return nil, ErrNoReturnValue
	}

	order, ok := in.Graph.TopologicalSort()
	if !ok {
		return nil, fmt.Errorf("interp: graph contains a cycle")
	}

	reachable := map[graphmodel.NodeHandle]bool{target: true}
	for stack := []graphmodel.NodeHandle{target}; len(stack) > 0; {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, input := range in.Graph.Inputs(n) {
			if conn, ok := input.Kind.(graphmodel.ConnectionDependency); ok && !reachable[conn.SourceNode] {
				reachable[conn.SourceNode] = true
				stack = append(stack, conn.SourceNode)
			}
		}
	}

	in.outputs = make(map[graphmodel.NodeHandle]opset.Params, len(order))
	for _, n := range order {
		if !reachable[n] {
			continue
		}
		if err := in.evalNode(n); err != nil {
			return nil, errwrap.Wrapf(err, "evaluating node %s (%s)", n, in.Graph.OpName(n))
		}
	}

	result, ok := in.outputs[target]
	if !ok {
		return nil, fmt.Errorf("interp: target node %s never evaluated", target)
	}
	value, ok := result[returnName]
	if !ok {
		return nil, fmt.Errorf("interp: node %s has no output named %q", target, returnName)
	}
	return value, nil
}

// evalNode resolves n's inputs, runs its op (including gizmo hooks, if it
// has one), and caches the result.
func (in *Interpreter) evalNode(n graphmodel.NodeHandle) error {
	opName := in.Graph.OpName(n)
	def, err := opset.Lookup(opName)
	if err != nil {
		return err
	}

	params, err := in.resolveInputs(n)
	if err != nil {
		return err
	}

	if def.HasGizmo && def.UpdateParams != nil && n == in.activeNode && in.activeChanged {
		state, _ := in.GizmoState(n)
		params = def.UpdateParams(params, state)
	}

	var partial opset.Params
	if def.PreOp != nil {
		partial, err = def.PreOp(params)
		if err != nil {
			return err
		}
	}

	start := time.Now()
	out, opErr := def.Op(params)
	dur := time.Since(start)
	if in.Recorder != nil {
		in.Recorder.Observe(opName, dur, opErr)
	}
	in.Logf("%s (%s): %v", n, opName, opErr)
	if opErr != nil {
		return opErr
	}

	// pre_op's partial outputs are merged in first so Op's own keys win
	// on conflict (spec §4.E steps (d)/(f)).
	if len(partial) > 0 {
		merged := make(opset.Params, len(partial)+len(out))
		for k, v := range partial {
			merged[k] = v
		}
		for k, v := range out {
			merged[k] = v
		}
		out = merged
	}

	if def.HasGizmo && def.UpdateGizmos != nil {
		in.gizmoState[n] = def.UpdateGizmos(params, out)
	}

	in.outputs[n] = out
	return nil
}

// resolveInputs builds the Params table a node's op receives, reading
// connected outputs from the cache (already evaluated, since Run walks
// nodes in topological order), external values from the External table,
// and computed expressions verbatim (spec §4.E step (e): op bodies decide
// how to interpret a Computed string; this interpreter does not evaluate
// expression syntax itself).
func (in *Interpreter) resolveInputs(n graphmodel.NodeHandle) (opset.Params, error) {
	params := opset.Params{}
	for _, input := range in.Graph.Inputs(n) {
		switch kind := input.Kind.(type) {
		case graphmodel.ConnectionDependency:
			srcOut, ok := in.outputs[kind.SourceNode]
			if !ok {
				return nil, fmt.Errorf("input %q: source node %s has not been evaluated yet", input.Name, kind.SourceNode)
			}
			value, ok := srcOut[kind.SourceParam]
			if !ok {
				return nil, fmt.Errorf("input %q: source node %s has no output %q", input.Name, kind.SourceNode, kind.SourceParam)
			}
			params[input.Name] = value

		case graphmodel.ExternalDependency:
			row := in.External[n]
			value, ok := row[input.Name]
			if !ok {
				return nil, fmt.Errorf("input %q: no external value provided", input.Name)
			}
			params[input.Name] = value

		case graphmodel.ComputedDependency:
			params[input.Name] = kind.Expression

		default:
			return nil, fmt.Errorf("input %q: unknown dependency kind %T", input.Name, kind)
		}
	}
	return params, nil
}
