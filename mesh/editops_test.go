package mesh_test

import (
	"testing"

	"github.com/blackjack3d/blackjack/mesh"
	"github.com/blackjack3d/blackjack/vmath"
)

func TestDivideEdgeStability(t *testing.T) {
	m := quadMesh(t)
	vs := m.AllVertices()
	h, err := m.AtVertex(vs[0]).HalfEdgeTo(vs[1]).End()
	if err != nil {
		t.Fatalf("HalfEdgeTo: %v", err)
	}
	oldDst, err := m.AtHalfEdge(h).DstVertex()
	if err != nil {
		t.Fatalf("DstVertex: %v", err)
	}
	if _, err := m.DivideEdge(h, 0.5); err != nil {
		t.Fatalf("DivideEdge: %v", err)
	}
	newDst, err := m.AtHalfEdge(h).DstVertex()
	if err != nil {
		t.Fatalf("DstVertex after divide: %v", err)
	}
	if newDst != oldDst {
		t.Errorf("divide_edge broke h's stability guarantee: dst changed from %v to %v", oldDst, newDst)
	}
}

func TestDivideEdgeIncreasesVertexCount(t *testing.T) {
	m := quadMesh(t)
	before := m.NumVertices()
	vs := m.AllVertices()
	h, _ := m.AtVertex(vs[0]).HalfEdgeTo(vs[1]).End()
	if _, err := m.DivideEdge(h, 0.5); err != nil {
		t.Fatalf("DivideEdge: %v", err)
	}
	if got := m.NumVertices(); got != before+1 {
		t.Errorf("NumVertices = %d, want %d", got, before+1)
	}
}

func TestChamferVertexOnCube(t *testing.T) {
	m, err := mesh.NewFromPolygonSoup(cubePositions(), cubePolygons())
	if err != nil {
		t.Fatalf("NewFromPolygonSoup: %v", err)
	}
	v := m.AllVertices()[0]
	beforeFaces := m.NumFaces()
	newFace, ring, err := m.ChamferVertex(v, 0.2)
	if err != nil {
		t.Fatalf("ChamferVertex: %v", err)
	}
	if len(ring) != 3 {
		t.Errorf("expected a 3-vertex ring (cube corner valence 3), got %d", len(ring))
	}
	if got := m.NumFaces(); got != beforeFaces+1 {
		t.Errorf("NumFaces = %d, want %d (added 1 ring face)", got, beforeFaces+1)
	}
	if _, err := m.AtFace(newFace).Vertices(); err != nil {
		t.Errorf("new chamfer face is not walkable: %v", err)
	}
}

func TestDissolveEdgeMergesFaces(t *testing.T) {
	m, err := mesh.NewFromPolygonSoup(cubePositions(), cubePolygons())
	if err != nil {
		t.Fatalf("NewFromPolygonSoup: %v", err)
	}
	beforeFaces := m.NumFaces()
	faces := m.AllFaces()
	hs, err := m.AtFace(faces[0]).HalfEdges()
	if err != nil {
		t.Fatalf("HalfEdges: %v", err)
	}
	if err := m.DissolveEdge(hs[0]); err != nil {
		t.Fatalf("DissolveEdge: %v", err)
	}
	if got := m.NumFaces(); got != beforeFaces-1 {
		t.Errorf("NumFaces = %d, want %d", got, beforeFaces-1)
	}
}

func TestCollapseEdgeRejectsTriangleRemoval(t *testing.T) {
	// A single quad: collapsing any edge would shrink the quad to a
	// triangle (3 vertices left in a 4-sided face that only has 2 faces,
	// one of them boundary with no "face" at all so the guard on the
	// twin's boundary side does not apply) -- use a cube corner chamfer
	// result instead, which produces genuine triangular faces adjacent to
	// the ring, to exercise the rejection.
	m, err := mesh.NewFromPolygonSoup(cubePositions(), cubePolygons())
	if err != nil {
		t.Fatalf("NewFromPolygonSoup: %v", err)
	}
	v := m.AllVertices()[0]
	_, ring, err := m.ChamferVertex(v, 0.2)
	if err != nil {
		t.Fatalf("ChamferVertex: %v", err)
	}
	h, err := m.AtVertex(ring[0]).HalfEdgeTo(ring[1]).End()
	if err != nil {
		t.Fatalf("HalfEdgeTo: %v", err)
	}
	if err := m.CollapseEdge(h); err != mesh.ErrCollapseWouldRemoveFace {
		t.Errorf("expected ErrCollapseWouldRemoveFace, got %v", err)
	}
}

func TestMakeQuadFromFourIsolatedVertices(t *testing.T) {
	m := mesh.NewMesh()
	v1 := m.AddVertex(vmath.Vec3{X: 0, Y: 0, Z: 0})
	v2 := m.AddVertex(vmath.Vec3{X: 1, Y: 0, Z: 0})
	v3 := m.AddVertex(vmath.Vec3{X: 1, Y: 1, Z: 0})
	v4 := m.AddVertex(vmath.Vec3{X: 0, Y: 1, Z: 0})
	f, err := m.MakeQuad(v1, v2, v3, v4)
	if err != nil {
		t.Fatalf("MakeQuad: %v", err)
	}
	verts, err := m.AtFace(f).Vertices()
	if err != nil {
		t.Fatalf("Vertices: %v", err)
	}
	if len(verts) != 4 {
		t.Errorf("expected 4 vertices in new quad face, got %d", len(verts))
	}
}

func TestMakeQuadRejectsArcAlreadyFaced(t *testing.T) {
	m := quadMesh(t)
	vs := m.AllVertices()
	v5 := m.AddVertex(vmath.Vec3{X: 0.5, Y: 0.5, Z: 1})
	v6 := m.AddVertex(vmath.Vec3{X: 0.5, Y: 0.5, Z: 2})
	// vs[0]->vs[1] already belongs to the quad's face; reusing it for a
	// second face must fail.
	if _, err := m.MakeQuad(vs[0], vs[1], v5, v6); err == nil {
		t.Errorf("expected error reusing an edge that already has a face")
	}
}
