// Blackjack
// Copyright (C) the blackjack contributors
//
// Licensed under the MIT license. See the LICENSE file in the repository
// root for the full license text.

// Package graphmodel implements the op graph (spec Component D): nodes
// carrying named, typed inputs and outputs, whose connectivity is encoded
// implicitly in each input's DependencyKind rather than a separate edge
// list. Graph.TopologicalSort derives that connectivity on demand and
// orders nodes for evaluation, the same Kahn's-algorithm shape as the
// teacher repository's pgraph.Graph.TopologicalSort.
package graphmodel

import (
	"fmt"

	"github.com/blackjack3d/blackjack/handle"
)

// Error signals a precondition violation building or wiring a graph.
type Error struct {
	Reason string
}

func (e *Error) Error() string { return "graphmodel: " + e.Reason }

func newError(format string, args ...interface{}) error {
	return &Error{Reason: fmt.Sprintf(format, args...)}
}

// DataType is one of the op graph's parameter types (spec §3.5).
type DataType int

const (
	DataVector DataType = iota
	DataScalar
	DataSelection
	DataMesh
	DataString
	DataEnum
	DataFile
)

func (d DataType) String() string {
	switch d {
	case DataVector:
		return "Vector"
	case DataScalar:
		return "Scalar"
	case DataSelection:
		return "Selection"
	case DataMesh:
		return "Mesh"
	case DataString:
		return "String"
	case DataEnum:
		return "Enum"
	case DataFile:
		return "File"
	default:
		return "Unknown"
	}
}

// DependencyKind is the closed sum type an input's value can come from
// (spec §3.5, §9 "tagged variants replace inheritance"): exactly one of
// ConnectionDependency, ExternalDependency or ComputedDependency.
type DependencyKind interface {
	isDependencyKind()
}

// ConnectionDependency means the input's value is the named output of
// another node in the same graph.
type ConnectionDependency struct {
	SourceNode  NodeHandle
	SourceParam string
}

func (ConnectionDependency) isDependencyKind() {}

// ExternalDependency means the input's value comes from the external
// parameter table. Promoted marks it as surfaced to the graph's own
// external-parameter list by a containing op (spec §4.E codegen mode).
type ExternalDependency struct {
	Promoted bool
}

func (ExternalDependency) isDependencyKind() {}

// ComputedDependency means the input's value is a literal expression
// string, evaluated verbatim by the operation implementation layer.
type ComputedDependency struct {
	Expression string
}

func (ComputedDependency) isDependencyKind() {}

// Input is one named, typed, sourced parameter of a node.
type Input struct {
	Name     string
	DataType DataType
	Kind     DependencyKind
}

// Output is one named, typed result of a node.
type Output struct {
	Name     string
	DataType DataType
}

// NodeHandle is a stable, generational reference to a node in a Graph.
type NodeHandle struct {
	index      uint32
	generation uint32
}

func (h NodeHandle) IsNil() bool    { return h.generation == 0 }
func (h NodeHandle) String() string { return fmt.Sprintf("n%d#%d", h.index, h.generation) }

// Index returns the handle's dense arena index, unique among a graph's
// currently-live nodes (though it may be reused after a node is removed).
// Codegen uses it to derive a stable per-node variable name.
func (h NodeHandle) Index() uint32 { return h.index }

type nodeData struct {
	opName      string
	inputs      []Input
	outputs     []Output
	returnValue string // "" means unset
}

// Graph is an arena of nodes whose dependency edges live inside each
// node's inputs (spec §3.5's "implicit connectivity").
type Graph struct {
	nodes handle.Arena[nodeData]
}

// NewGraph returns an empty op graph.
func NewGraph() *Graph { return &Graph{} }

func (g *Graph) node(n NodeHandle) (*nodeData, bool) {
	return g.nodes.Get(n.index, n.generation)
}

// AddNode allocates a new node identified by op_name and returns its
// handle (spec §4.D).
func (g *Graph) AddNode(opName string) NodeHandle {
	idx, gen := g.nodes.Alloc(nodeData{opName: opName})
	return NodeHandle{index: idx, generation: gen}
}

// OpName returns a node's op_name, or "" if the handle is stale.
func (g *Graph) OpName(n NodeHandle) string {
	nd, ok := g.node(n)
	if !ok {
		return ""
	}
	return nd.opName
}

// AllNodes returns every live node handle, in allocation order.
func (g *Graph) AllNodes() []NodeHandle {
	out := make([]NodeHandle, 0, g.nodes.Len())
	g.nodes.Each(func(idx, gen uint32, _ *nodeData) {
		out = append(out, NodeHandle{index: idx, generation: gen})
	})
	return out
}

// Inputs and Outputs return a node's ordered parameter lists.
func (g *Graph) Inputs(n NodeHandle) []Input {
	nd, ok := g.node(n)
	if !ok {
		return nil
	}
	return nd.inputs
}

func (g *Graph) Outputs(n NodeHandle) []Output {
	nd, ok := g.node(n)
	if !ok {
		return nil
	}
	return nd.outputs
}

// ReturnValue returns the node's declared return-value output name, or ""
// if unset.
func (g *Graph) ReturnValue(n NodeHandle) string {
	nd, ok := g.node(n)
	if !ok {
		return ""
	}
	return nd.returnValue
}

// SetReturnValue marks name as the output that identifies n's final
// result when n is the terminal node. name must already exist among n's
// outputs.
func (g *Graph) SetReturnValue(n NodeHandle, name string) error {
	nd, ok := g.node(n)
	if !ok {
		return newError("set_return_value: node does not exist")
	}
	for _, out := range nd.outputs {
		if out.Name == name {
			nd.returnValue = name
			return nil
		}
	}
	return newError("set_return_value: node has no output named %q", name)
}

// AddInput appends a new externally-sourced input to n (spec §4.D); fails
// on a duplicate name. Its DependencyKind defaults to ExternalDependency
// until a connection or computed expression overrides it.
func (g *Graph) AddInput(n NodeHandle, name string, dt DataType) error {
	nd, ok := g.node(n)
	if !ok {
		return newError("add_input: node does not exist")
	}
	for _, in := range nd.inputs {
		if in.Name == name {
			return newError("add_input: node already has an input named %q", name)
		}
	}
	nd.inputs = append(nd.inputs, Input{Name: name, DataType: dt, Kind: ExternalDependency{}})
	return nil
}

// AddOutput appends a new output to n; fails on a duplicate name.
func (g *Graph) AddOutput(n NodeHandle, name string, dt DataType) error {
	nd, ok := g.node(n)
	if !ok {
		return newError("add_output: node does not exist")
	}
	for _, out := range nd.outputs {
		if out.Name == name {
			return newError("add_output: node already has an output named %q", name)
		}
	}
	nd.outputs = append(nd.outputs, Output{Name: name, DataType: dt})
	return nil
}

// SetComputed sets input name on node n to a literal Computed expression,
// replacing whatever DependencyKind it had.
func (g *Graph) SetComputed(n NodeHandle, name, expression string) error {
	nd, ok := g.node(n)
	if !ok {
		return newError("set_computed: node does not exist")
	}
	for i := range nd.inputs {
		if nd.inputs[i].Name == name {
			nd.inputs[i].Kind = ComputedDependency{Expression: expression}
			return nil
		}
	}
	return newError("set_computed: node has no input named %q", name)
}

// SetExternalPromoted marks input name's ExternalDependency as promoted (or
// not) to a compiled program's entry point (spec §4.E). It fails if the
// input's current DependencyKind is not ExternalDependency: promotion only
// makes sense for an input that is still sourced externally.
func (g *Graph) SetExternalPromoted(n NodeHandle, name string, promoted bool) error {
	nd, ok := g.node(n)
	if !ok {
		return newError("set_external_promoted: node does not exist")
	}
	for i := range nd.inputs {
		if nd.inputs[i].Name != name {
			continue
		}
		ext, isExt := nd.inputs[i].Kind.(ExternalDependency)
		if !isExt {
			return newError("set_external_promoted: input %q is not an external dependency", name)
		}
		ext.Promoted = promoted
		nd.inputs[i].Kind = ext
		return nil
	}
	return newError("set_external_promoted: node has no input named %q", name)
}

// findOutput locates a node's output by name.
func (g *Graph) findOutput(n NodeHandle, name string) (Output, bool) {
	nd, ok := g.node(n)
	if !ok {
		return Output{}, false
	}
	for _, out := range nd.outputs {
		if out.Name == name {
			return out, true
		}
	}
	return Output{}, false
}

// AddConnection wires dstNode's dstInput to consume srcNode's srcOutput
// (spec §4.D). It fails if either endpoint is missing, if the output's
// data type differs from the input's, or if the resulting graph would
// contain a cycle (spec §9 Open Question: detected here, at connection
// time). Any existing connection on dstInput is replaced.
func (g *Graph) AddConnection(srcNode NodeHandle, srcOutput string, dstNode NodeHandle, dstInput string) error {
	out, ok := g.findOutput(srcNode, srcOutput)
	if !ok {
		return newError("add_connection: source node has no output named %q", srcOutput)
	}
	dstData, ok := g.node(dstNode)
	if !ok {
		return newError("add_connection: destination node does not exist")
	}
	idx := -1
	for i, in := range dstData.inputs {
		if in.Name == dstInput {
			idx = i
			break
		}
	}
	if idx < 0 {
		return newError("add_connection: destination node has no input named %q", dstInput)
	}
	if dstData.inputs[idx].DataType != out.DataType {
		return newError("add_connection: type mismatch connecting %q (%v) to %q (%v)",
			srcOutput, out.DataType, dstInput, dstData.inputs[idx].DataType)
	}

	prev := dstData.inputs[idx].Kind
	dstData.inputs[idx].Kind = ConnectionDependency{SourceNode: srcNode, SourceParam: srcOutput}
	if _, ok := g.TopologicalSort(); !ok {
		dstData.inputs[idx].Kind = prev // revert: would have introduced a cycle
		return newError("add_connection: connecting %q -> %q would introduce a cycle", srcNode, dstNode)
	}
	return nil
}

// adjacency derives the dependency edges implicit in every node's inputs:
// an edge source -> dest means source must be evaluated before dest.
func (g *Graph) adjacency() map[NodeHandle][]NodeHandle {
	adj := make(map[NodeHandle][]NodeHandle)
	for _, n := range g.AllNodes() {
		adj[n] = nil
	}
	for _, n := range g.AllNodes() {
		for _, in := range g.Inputs(n) {
			if conn, ok := in.Kind.(ConnectionDependency); ok {
				adj[conn.SourceNode] = append(adj[conn.SourceNode], n)
			}
		}
	}
	return adj
}

// TopologicalSort returns the nodes in dependency order (sources before
// the nodes that consume them), or ok=false if the implicit connectivity
// contains a cycle. Ported from the teacher's pgraph.Graph.TopologicalSort
// (Kahn's algorithm), generalized from *Vertex to the comparable
// NodeHandle key.
func (g *Graph) TopologicalSort() (result []NodeHandle, ok bool) {
	adj := g.adjacency()

	remaining := make(map[NodeHandle]int, len(adj))
	for n := range adj {
		remaining[n] = 0
	}
	for n := range adj {
		for _, dst := range adj[n] {
			remaining[dst]++
		}
	}

	var ready []NodeHandle
	for n, d := range remaining {
		if d == 0 {
			ready = append(ready, n)
		}
	}

	var order []NodeHandle
	for len(ready) > 0 {
		last := len(ready) - 1
		n := ready[last]
		ready = ready[:last]
		order = append(order, n)
		for _, dst := range adj[n] {
			remaining[dst]--
			if remaining[dst] == 0 {
				ready = append(ready, dst)
			}
		}
	}

	for _, d := range remaining {
		if d > 0 {
			return nil, false
		}
	}
	return order, true
}
