// Blackjack
// Copyright (C) the blackjack contributors
//
// Licensed under the MIT license. See the LICENSE file in the repository
// root for the full license text.

package document_test

import (
	"testing"

	"github.com/blackjack3d/blackjack/document"
	"github.com/blackjack3d/blackjack/graphmodel"
)

const boxTranslateYAML = `
graph: box-translate
target: translate
nodes:
  - name: box
    op: Box
    inputs:
      - name: size
        data_type: scalar
        promoted: true
    outputs:
      - name: out_mesh
        data_type: mesh
  - name: translate
    op: Translate
    inputs:
      - name: mesh
        data_type: mesh
        source:
          node: box
          output: out_mesh
      - name: amount
        data_type: vector
        promoted: true
    outputs:
      - name: out_mesh
        data_type: mesh
    return_value: out_mesh
`

func TestParseRejectsMissingGraphName(t *testing.T) {
	if _, err := document.Parse([]byte("target: x\nnodes: []\n")); err == nil {
		t.Errorf("expected an error parsing a document without a graph name")
	}
}

func TestParseRejectsMissingTarget(t *testing.T) {
	if _, err := document.Parse([]byte("graph: x\nnodes: []\n")); err == nil {
		t.Errorf("expected an error parsing a document without a target")
	}
}

func TestParseAndBuildRoundTrip(t *testing.T) {
	doc, err := document.Parse([]byte(boxTranslateYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	g, target, _, err := document.Build(doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.OpName(target) != "Translate" {
		t.Errorf("target op = %q, want Translate", g.OpName(target))
	}
	if got := g.ReturnValue(target); got != "out_mesh" {
		t.Errorf("ReturnValue(target) = %q, want out_mesh", got)
	}

	order, ok := g.TopologicalSort()
	if !ok {
		t.Fatalf("expected the built graph to sort cleanly")
	}
	if len(order) != 2 {
		t.Fatalf("got %d nodes, want 2", len(order))
	}

	var foundConnection bool
	for _, in := range g.Inputs(target) {
		if in.Name == "mesh" {
			if _, ok := in.Kind.(graphmodel.ConnectionDependency); ok {
				foundConnection = true
			}
		}
	}
	if !foundConnection {
		t.Errorf("translate's mesh input should be wired as a ConnectionDependency")
	}
}

func TestBuildRejectsUnknownSourceNode(t *testing.T) {
	doc, err := document.Parse([]byte(`
graph: bad
target: translate
nodes:
  - name: translate
    op: Translate
    inputs:
      - name: mesh
        data_type: mesh
        source:
          node: does_not_exist
          output: out_mesh
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, _, _, err := document.Build(doc); err == nil {
		t.Errorf("expected an error building a document with an unknown source node")
	}
}

func TestBuildRejectsDuplicateNodeName(t *testing.T) {
	doc, err := document.Parse([]byte(`
graph: dup
target: a
nodes:
  - name: a
    op: Box
  - name: a
    op: Box
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, _, _, err := document.Build(doc); err == nil {
		t.Errorf("expected an error building a document with a duplicate node name")
	}
}

func TestMarshalProducesParsableYAML(t *testing.T) {
	doc, err := document.Parse([]byte(boxTranslateYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	out, err := doc.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	reparsed, err := document.Parse(out)
	if err != nil {
		t.Fatalf("Parse(Marshal(doc)): %v", err)
	}
	if reparsed.Graph != doc.Graph || reparsed.Target != doc.Target {
		t.Errorf("round trip changed Graph/Target: got %q/%q, want %q/%q",
			reparsed.Graph, reparsed.Target, doc.Graph, doc.Target)
	}
}
