// Blackjack
// Copyright (C) the blackjack contributors
//
// Licensed under the MIT license. See the LICENSE file in the repository
// root for the full license text.

package document

import (
	"fmt"

	"github.com/blackjack3d/blackjack/graphmodel"
)

// Build compiles doc into a graphmodel.Graph in three passes, extending the
// allocate-then-wire shape of yamlgraph.GraphConfig.NewGraphFromConfig:
// first allocate every node, then declare each node's inputs, outputs and
// return_value, then wire up connections by name (so a connection can
// refer forward to a node declared later in the document).
//
// It returns the built graph, the resolved handle of doc.Target (ready to
// hand straight to interp.Interpreter.Run), and the full name->handle table
// so a caller can address nodes by their document-declared name too (e.g.
// to feed external parameter values in by name rather than by op).
func Build(doc *Document) (*graphmodel.Graph, graphmodel.NodeHandle, map[string]graphmodel.NodeHandle, error) {
	g := graphmodel.NewGraph()

	byName := make(map[string]graphmodel.NodeHandle, len(doc.Nodes))
	for _, nc := range doc.Nodes {
		if nc.Name == "" {
			return nil, graphmodel.NodeHandle{}, nil, fmt.Errorf("document: node with empty name (op %q)", nc.Op)
		}
		if _, dup := byName[nc.Name]; dup {
			return nil, graphmodel.NodeHandle{}, nil, fmt.Errorf("document: duplicate node name %q", nc.Name)
		}
		byName[nc.Name] = g.AddNode(nc.Op)
	}

	for _, nc := range doc.Nodes {
		n := byName[nc.Name]

		for _, out := range nc.Outputs {
			dt, err := parseDataType(out.DataType)
			if err != nil {
				return nil, graphmodel.NodeHandle{}, nil, fmt.Errorf("document: node %q output %q: %w", nc.Name, out.Name, err)
			}
			if err := g.AddOutput(n, out.Name, dt); err != nil {
				return nil, graphmodel.NodeHandle{}, nil, fmt.Errorf("document: node %q: %w", nc.Name, err)
			}
		}

		for _, in := range nc.Inputs {
			dt, err := parseDataType(in.DataType)
			if err != nil {
				return nil, graphmodel.NodeHandle{}, nil, fmt.Errorf("document: node %q input %q: %w", nc.Name, in.Name, err)
			}
			if err := g.AddInput(n, in.Name, dt); err != nil {
				return nil, graphmodel.NodeHandle{}, nil, fmt.Errorf("document: node %q: %w", nc.Name, err)
			}
			if in.Promoted {
				if err := g.SetExternalPromoted(n, in.Name, true); err != nil {
					return nil, graphmodel.NodeHandle{}, nil, fmt.Errorf("document: node %q: %w", nc.Name, err)
				}
			}
			if in.Computed != "" {
				if err := g.SetComputed(n, in.Name, in.Computed); err != nil {
					return nil, graphmodel.NodeHandle{}, nil, fmt.Errorf("document: node %q: %w", nc.Name, err)
				}
			}
		}

		if nc.ReturnValue != "" {
			if err := g.SetReturnValue(n, nc.ReturnValue); err != nil {
				return nil, graphmodel.NodeHandle{}, nil, fmt.Errorf("document: node %q: %w", nc.Name, err)
			}
		}
	}

	// Connections are wired in a third pass so that a connection's
	// source node, even one declared later in the file than its
	// consumer, already has its outputs declared by the pass above.
	for _, nc := range doc.Nodes {
		dst := byName[nc.Name]
		for _, in := range nc.Inputs {
			if in.Source == nil {
				continue
			}
			src, ok := byName[in.Source.Node]
			if !ok {
				return nil, graphmodel.NodeHandle{}, nil, fmt.Errorf("document: node %q input %q: unknown source node %q", nc.Name, in.Name, in.Source.Node)
			}
			if err := g.AddConnection(src, in.Source.Output, dst, in.Name); err != nil {
				return nil, graphmodel.NodeHandle{}, nil, fmt.Errorf("document: node %q input %q: %w", nc.Name, in.Name, err)
			}
		}
	}

	target, ok := byName[doc.Target]
	if !ok {
		return nil, graphmodel.NodeHandle{}, nil, fmt.Errorf("document: target node %q not found", doc.Target)
	}
	return g, target, byName, nil
}
