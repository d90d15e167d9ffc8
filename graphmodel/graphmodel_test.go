// Blackjack
// Copyright (C) the blackjack contributors
//
// Licensed under the MIT license. See the LICENSE file in the repository
// root for the full license text.

package graphmodel_test

import (
	"testing"

	"github.com/blackjack3d/blackjack/graphmodel"
)

func TestAddInputRejectsDuplicateName(t *testing.T) {
	g := graphmodel.NewGraph()
	n := g.AddNode("Box")
	if err := g.AddInput(n, "size", graphmodel.DataVector); err != nil {
		t.Fatalf("AddInput: %v", err)
	}
	if err := g.AddInput(n, "size", graphmodel.DataScalar); err == nil {
		t.Errorf("expected an error adding a duplicate input name")
	}
}

func TestAddOutputRejectsDuplicateName(t *testing.T) {
	g := graphmodel.NewGraph()
	n := g.AddNode("Box")
	if err := g.AddOutput(n, "out_mesh", graphmodel.DataMesh); err != nil {
		t.Fatalf("AddOutput: %v", err)
	}
	if err := g.AddOutput(n, "out_mesh", graphmodel.DataMesh); err == nil {
		t.Errorf("expected an error adding a duplicate output name")
	}
}

func TestAddConnectionRejectsTypeMismatch(t *testing.T) {
	g := graphmodel.NewGraph()
	box := g.AddNode("Box")
	_ = g.AddOutput(box, "out_mesh", graphmodel.DataMesh)

	translate := g.AddNode("Translate")
	_ = g.AddInput(translate, "amount", graphmodel.DataVector)

	if err := g.AddConnection(box, "out_mesh", translate, "amount"); err == nil {
		t.Errorf("expected a type mismatch error connecting Mesh to Vector")
	}
}

func TestAddConnectionRejectsMissingEndpoints(t *testing.T) {
	g := graphmodel.NewGraph()
	box := g.AddNode("Box")
	_ = g.AddOutput(box, "out_mesh", graphmodel.DataMesh)
	translate := g.AddNode("Translate")
	_ = g.AddInput(translate, "mesh", graphmodel.DataMesh)

	if err := g.AddConnection(box, "no_such_output", translate, "mesh"); err == nil {
		t.Errorf("expected an error for a missing source output")
	}
	if err := g.AddConnection(box, "out_mesh", translate, "no_such_input"); err == nil {
		t.Errorf("expected an error for a missing destination input")
	}
}

func TestAddConnectionRejectsCycleAndReverts(t *testing.T) {
	g := graphmodel.NewGraph()
	a := g.AddNode("A")
	_ = g.AddInput(a, "in", graphmodel.DataMesh)
	_ = g.AddOutput(a, "out", graphmodel.DataMesh)

	b := g.AddNode("B")
	_ = g.AddInput(b, "in", graphmodel.DataMesh)
	_ = g.AddOutput(b, "out", graphmodel.DataMesh)

	if err := g.AddConnection(a, "out", b, "in"); err != nil {
		t.Fatalf("AddConnection a->b: %v", err)
	}
	if err := g.AddConnection(b, "out", a, "in"); err == nil {
		t.Errorf("expected a cycle error connecting b->a after a->b")
	}

	// The rejected connection must not have left a's "in" wired to b: a
	// plain topological sort should still succeed with this two-node graph.
	if _, ok := g.TopologicalSort(); !ok {
		t.Errorf("graph should still be acyclic after the rejected connection was reverted")
	}
	for _, in := range g.Inputs(a) {
		if in.Name == "in" {
			if _, isConn := in.Kind.(graphmodel.ConnectionDependency); isConn {
				t.Errorf("a's input %q should not have been left connected after the cycle was rejected", in.Name)
			}
		}
	}
}

func TestTopologicalSortOrdersDependenciesFirst(t *testing.T) {
	g := graphmodel.NewGraph()
	box := g.AddNode("Box")
	_ = g.AddOutput(box, "out_mesh", graphmodel.DataMesh)

	translate := g.AddNode("Translate")
	_ = g.AddInput(translate, "mesh", graphmodel.DataMesh)
	_ = g.AddOutput(translate, "out_mesh", graphmodel.DataMesh)

	export := g.AddNode("ExportMesh")
	_ = g.AddInput(export, "mesh", graphmodel.DataMesh)

	if err := g.AddConnection(box, "out_mesh", translate, "mesh"); err != nil {
		t.Fatalf("AddConnection box->translate: %v", err)
	}
	if err := g.AddConnection(translate, "out_mesh", export, "mesh"); err != nil {
		t.Fatalf("AddConnection translate->export: %v", err)
	}

	order, ok := g.TopologicalSort()
	if !ok {
		t.Fatalf("expected a valid topological order")
	}
	if len(order) != 3 {
		t.Fatalf("got %d nodes in order, want 3", len(order))
	}
	pos := make(map[graphmodel.NodeHandle]int, len(order))
	for i, n := range order {
		pos[n] = i
	}
	if pos[box] >= pos[translate] {
		t.Errorf("Box must be ordered before Translate")
	}
	if pos[translate] >= pos[export] {
		t.Errorf("Translate must be ordered before ExportMesh")
	}
}

func TestSetReturnValueValidatesOutputName(t *testing.T) {
	g := graphmodel.NewGraph()
	n := g.AddNode("Box")
	_ = g.AddOutput(n, "out_mesh", graphmodel.DataMesh)

	if err := g.SetReturnValue(n, "does_not_exist"); err == nil {
		t.Errorf("expected an error setting a return value to an unknown output")
	}
	if err := g.SetReturnValue(n, "out_mesh"); err != nil {
		t.Fatalf("SetReturnValue: %v", err)
	}
	if got := g.ReturnValue(n); got != "out_mesh" {
		t.Errorf("ReturnValue = %q, want %q", got, "out_mesh")
	}
}

func TestSetComputedReplacesInputKind(t *testing.T) {
	g := graphmodel.NewGraph()
	n := g.AddNode("MakeQuad")
	_ = g.AddInput(n, "width", graphmodel.DataScalar)

	if err := g.SetComputed(n, "width", "2.0 * scale"); err != nil {
		t.Fatalf("SetComputed: %v", err)
	}
	for _, in := range g.Inputs(n) {
		if in.Name != "width" {
			continue
		}
		comp, ok := in.Kind.(graphmodel.ComputedDependency)
		if !ok {
			t.Fatalf("width input kind = %T, want ComputedDependency", in.Kind)
		}
		if comp.Expression != "2.0 * scale" {
			t.Errorf("Expression = %q, want %q", comp.Expression, "2.0 * scale")
		}
	}
}

func TestOpNameAndAllNodes(t *testing.T) {
	g := graphmodel.NewGraph()
	a := g.AddNode("Box")
	b := g.AddNode("Translate")

	if got := g.OpName(a); got != "Box" {
		t.Errorf("OpName(a) = %q, want Box", got)
	}
	if got := g.OpName(b); got != "Translate" {
		t.Errorf("OpName(b) = %q, want Translate", got)
	}
	all := g.AllNodes()
	if len(all) != 2 {
		t.Fatalf("AllNodes returned %d nodes, want 2", len(all))
	}
}

func TestDataTypeString(t *testing.T) {
	cases := map[graphmodel.DataType]string{
		graphmodel.DataVector:    "Vector",
		graphmodel.DataScalar:    "Scalar",
		graphmodel.DataSelection: "Selection",
		graphmodel.DataMesh:      "Mesh",
		graphmodel.DataString:    "String",
		graphmodel.DataEnum:      "Enum",
		graphmodel.DataFile:      "File",
	}
	for dt, want := range cases {
		if got := dt.String(); got != want {
			t.Errorf("DataType(%d).String() = %q, want %q", dt, got, want)
		}
	}
}
