// Blackjack
// Copyright (C) the blackjack contributors
//
// Licensed under the MIT license. See the LICENSE file in the repository
// root for the full license text.

// Package opset is the operation-dispatch registry: every node an op graph
// can contain is registered here under a unique name, the same
// register-by-kind shape as the teacher repository's
// engine.RegisterResource, minus the YAML-unmarshalling half that resource
// kind has no use for here (graphmodel, not a resource struct, already owns
// a node's inputs/outputs).
package opset

import "fmt"

// Params is the table of resolved input values an Op body receives, keyed by
// input name.
type Params map[string]interface{}

// Op is the body of a registered node: given its resolved inputs, it
// produces the named outputs (spec §4.E step (e)/(g)).
type Op func(Params) (Params, error)

// NodeDef is everything the interpreter needs to run one node's op_name
// (spec §4.E): the plain evaluation body, and the optional gizmo lifecycle
// hooks from spec §3.6 (update_params / pre_op / update_gizmos).
type NodeDef struct {
	// Op computes this node's outputs from its resolved inputs.
	Op Op

	// HasGizmo is true if this node exposes an interactive gizmo.
	HasGizmo bool

	// UpdateParams lets the gizmo push edited values back into this
	// node's own inputs before Op runs, when the gizmo is active.
	UpdateParams func(Params, GizmoState) Params

	// PreOp runs immediately before Op, after UpdateParams. It returns a
	// partial output table that the interpreter merges into Op's own
	// output, with Op's keys winning on conflict (spec §4.E steps
	// (d)/(f)) — used for side effects that must see the final resolved
	// inputs and publish outputs Op itself doesn't compute (e.g. gizmo
	// state the node wants visible to downstream nodes before Op runs).
	PreOp func(Params) (Params, error)

	// UpdateGizmos derives the gizmo's on-screen state from this node's
	// resolved inputs and its outputs (in that argument order), after Op
	// has run.
	UpdateGizmos func(Params, Params) GizmoState
}

// GizmoState is the opaque interactive state a node with HasGizmo carries
// between evaluations (spec §3.6); its shape is defined by whichever node
// produces it, so it is passed around as interface{} the same way the
// teacher's own engine/graph package threads opaque per-vertex state.
type GizmoState interface{}

var registry = map[string]NodeDef{}

// Register adds a node definition under name. It panics on an empty name or
// a duplicate registration, mirroring the teacher's RegisterResource.
func Register(name string, def NodeDef) {
	if name == "" {
		panic("opset: can't register a node with an empty name")
	}
	if _, ok := registry[name]; ok {
		panic(fmt.Sprintf("opset: a node named %q is already registered", name))
	}
	if def.Op == nil {
		panic(fmt.Sprintf("opset: node %q has no Op", name))
	}
	registry[name] = def
}

// Lookup returns the NodeDef registered under name.
func Lookup(name string) (NodeDef, error) {
	def, ok := registry[name]
	if !ok {
		return NodeDef{}, fmt.Errorf("opset: no node named %q is registered", name)
	}
	return def, nil
}

// Names returns every registered node name.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
