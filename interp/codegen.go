// Blackjack
// Copyright (C) the blackjack contributors
//
// Licensed under the MIT license. See the LICENSE file in the repository
// root for the full license text.

package interp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/blackjack3d/blackjack/graphmodel"
)

// Compile-time note: varName is derived from NodeHandle.Index(), not
// String(), so it stays a plain "n<N>" identifier rather than embedding the
// handle's generation counter.

// ExternalParam describes one leaf input sourced from outside the graph
// (spec §4.E "manages parameter promotion from leaves to the entry point").
// Promoted mirrors graphmodel.ExternalDependency.Promoted: a caller building
// a parameter form should surface only the promoted ones, since the rest
// resolve from whatever literal default the graph document already carries
// for them.
type ExternalParam struct {
	Node     graphmodel.NodeHandle
	NodeVar  string
	Input    string
	DataType graphmodel.DataType
	Promoted bool
}

// Program is a textual rendering of a graph's evaluation order: one
// assignment line per node of the graph, in topological order, plus the
// collected external parameters a caller must supply before running it.
type Program struct {
	Lines     []string
	Externals []ExternalParam
}

// String joins a Program's lines, one per line, terminated by a final
// newline.
func (p *Program) String() string {
	return strings.Join(p.Lines, "\n") + "\n"
}

// PromotedExternals returns the subset of Externals a caller should surface
// on a parameter form; the rest resolve from whatever default the graph
// document already holds for them (spec §10 external-parameter promotion
// bookkeeping).
func (p *Program) PromotedExternals() []ExternalParam {
	var out []ExternalParam
	for _, e := range p.Externals {
		if e.Promoted {
			out = append(out, e)
		}
	}
	return out
}

// varName is the stable per-node variable name codegen uses: "n" followed
// by the node's arena index, which is dense and deterministic across runs
// of the same graph (handles are never reused for an index while the node
// is live).
func varName(n graphmodel.NodeHandle) string {
	return fmt.Sprintf("n%d", n.Index())
}

// Codegen renders g as a flat, ordered program: each line assigns a node's
// outputs to a variable, referencing either a prior node's variable (for a
// ConnectionDependency), an external parameter placeholder (for an
// ExternalDependency, which is also collected into Externals), or a literal
// expression (for a ComputedDependency). It fails if g contains a cycle.
func Codegen(g *graphmodel.Graph) (*Program, error) {
	order, ok := g.TopologicalSort()
	if !ok {
		return nil, fmt.Errorf("interp: cannot compile a graph containing a cycle")
	}

	prog := &Program{}
	for _, n := range order {
		args := make([]string, 0, len(g.Inputs(n)))
		for _, input := range g.Inputs(n) {
			switch kind := input.Kind.(type) {
			case graphmodel.ConnectionDependency:
				args = append(args, fmt.Sprintf("%s: %s.%s", input.Name, varName(kind.SourceNode), kind.SourceParam))
			case graphmodel.ExternalDependency:
				args = append(args, fmt.Sprintf("%s: external.%s.%s", input.Name, varName(n), input.Name))
				prog.Externals = append(prog.Externals, ExternalParam{
					Node:     n,
					NodeVar:  varName(n),
					Input:    input.Name,
					DataType: input.DataType,
					Promoted: kind.Promoted,
				})
			case graphmodel.ComputedDependency:
				args = append(args, fmt.Sprintf("%s: %s", input.Name, kind.Expression))
			default:
				return nil, fmt.Errorf("interp: node %s input %q has unknown dependency kind %T", n, input.Name, kind)
			}
		}
		prog.Lines = append(prog.Lines, fmt.Sprintf("%s := %s(%s)", varName(n), g.OpName(n), strings.Join(args, ", ")))
	}

	sort.Slice(prog.Externals, func(i, j int) bool {
		if prog.Externals[i].NodeVar != prog.Externals[j].NodeVar {
			return prog.Externals[i].NodeVar < prog.Externals[j].NodeVar
		}
		return prog.Externals[i].Input < prog.Externals[j].Input
	})
	return prog, nil
}
