package mesh_test

import (
	"testing"

	"github.com/blackjack3d/blackjack/mesh"
	"github.com/blackjack3d/blackjack/vmath"
)

func quadMesh(t *testing.T) *mesh.Mesh {
	t.Helper()
	m, err := mesh.NewFromPolygonSoup(
		[]vmath.Vec3{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 1, Y: 1, Z: 0},
			{X: 0, Y: 1, Z: 0},
		},
		[][]int{{0, 1, 2, 3}},
	)
	if err != nil {
		t.Fatalf("NewFromPolygonSoup: %v", err)
	}
	return m
}

func TestFaceHalfEdgesLoopLength(t *testing.T) {
	m := quadMesh(t)
	faces := m.AllFaces()
	if len(faces) != 1 {
		t.Fatalf("expected 1 face, got %d", len(faces))
	}
	hs, err := m.AtFace(faces[0]).HalfEdges()
	if err != nil {
		t.Fatalf("HalfEdges: %v", err)
	}
	if len(hs) != 4 {
		t.Errorf("expected 4 halfedges in loop, got %d", len(hs))
	}
}

func TestTwinOfTwinIsIdentity(t *testing.T) {
	m := quadMesh(t)
	for _, h := range m.AllHalfEdges() {
		twin, err := m.AtHalfEdge(h).Twin().End()
		if err != nil {
			// Boundary-adjacent pairing always exists for a single quad,
			// so any error here is unexpected.
			t.Fatalf("Twin: %v", err)
		}
		back, err := m.AtHalfEdge(twin).Twin().End()
		if err != nil {
			t.Fatalf("Twin(Twin): %v", err)
		}
		if back != h {
			t.Errorf("twin(twin(%v)) = %v, want %v", h, back, h)
		}
	}
}

func TestOutgoingHalfEdgesVisitEachOnce(t *testing.T) {
	m := quadMesh(t)
	for _, v := range m.AllVertices() {
		outs, err := m.AtVertex(v).OutgoingHalfEdges()
		if err != nil {
			t.Fatalf("OutgoingHalfEdges: %v", err)
		}
		if len(outs) != 2 {
			t.Errorf("vertex %v: expected 2 outgoing halfedges, got %d", v, len(outs))
		}
		seen := map[int]bool{}
		for _, h := range outs {
			if seen[h.Index()] {
				t.Errorf("vertex %v: halfedge %v visited twice", v, h)
			}
			seen[h.Index()] = true
			src, err := m.AtHalfEdge(h).SrcVertex()
			if err != nil {
				t.Fatalf("SrcVertex: %v", err)
			}
			if src != v {
				t.Errorf("outgoing halfedge %v has src %v, want %v", h, src, v)
			}
		}
	}
}

func TestFaceVerticesMatchLoop(t *testing.T) {
	m := quadMesh(t)
	faces := m.AllFaces()
	vs, err := m.AtFace(faces[0]).Vertices()
	if err != nil {
		t.Fatalf("Vertices: %v", err)
	}
	if len(vs) != 4 {
		t.Errorf("expected 4 vertices, got %d", len(vs))
	}
}

func TestHalfEdgeToFindsSharedEdge(t *testing.T) {
	m := quadMesh(t)
	vs := m.AllVertices()
	h, err := m.AtVertex(vs[0]).HalfEdgeTo(vs[1]).End()
	if err != nil {
		t.Fatalf("HalfEdgeTo: %v", err)
	}
	dst, err := m.AtHalfEdge(h).DstVertex()
	if err != nil {
		t.Fatalf("DstVertex: %v", err)
	}
	if dst != vs[1] {
		t.Errorf("HalfEdgeTo returned halfedge ending at %v, want %v", dst, vs[1])
	}
}

func TestHalfEdgeToMissingEdgeErrors(t *testing.T) {
	m := quadMesh(t)
	vs := m.AllVertices()
	// vs[0] and vs[2] are diagonal, not edge-connected.
	if _, err := m.AtVertex(vs[0]).HalfEdgeTo(vs[2]).End(); err == nil {
		t.Errorf("expected error for non-adjacent vertices")
	}
}
