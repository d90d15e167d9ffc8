package mesh_test

import (
	"testing"
)

func TestMergeCopiesConnectivityAndChannels(t *testing.T) {
	a := quadMesh(t)
	b := quadMesh(t)
	if err := b.MakeVertexGroup("tagged", b.AllVertices()[:1]); err != nil {
		t.Fatalf("MakeVertexGroup: %v", err)
	}

	beforeVerts := a.NumVertices()
	beforeFaces := a.NumFaces()
	if err := a.Merge(b); err != nil {
		t.Fatalf("Merge: %v", err)
	}

	if got := a.NumVertices(); got != beforeVerts+4 {
		t.Errorf("NumVertices = %d, want %d", got, beforeVerts+4)
	}
	if got := a.NumFaces(); got != beforeFaces+1 {
		t.Errorf("NumFaces = %d, want %d", got, beforeFaces+1)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	a := quadMesh(t)
	av := a.AllVertices()[1]
	before := a.Position(av)

	c, err := a.Clone()
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	cv := c.AllVertices()[1]
	c.SetPosition(cv, c.Position(cv).Add(before))

	if a.Position(av) != before {
		t.Errorf("mutating the clone must not affect the original mesh")
	}
}
