package mesh_test

import (
	"testing"

	"github.com/blackjack3d/blackjack/handle"
	"github.com/blackjack3d/blackjack/mesh"
	"github.com/blackjack3d/blackjack/vmath"
)

func cubePositions() []vmath.Vec3 {
	return []vmath.Vec3{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
	}
}

func cubePolygons() [][]int {
	return [][]int{
		{0, 1, 2, 3},
		{5, 4, 7, 6},
		{4, 0, 3, 7},
		{1, 5, 6, 2},
		{3, 2, 6, 7},
		{4, 5, 1, 0},
	}
}

func TestNewFromPolygonSoupCube(t *testing.T) {
	m, err := mesh.NewFromPolygonSoup(cubePositions(), cubePolygons())
	if err != nil {
		t.Fatalf("NewFromPolygonSoup: %v", err)
	}
	if got := m.NumVertices(); got != 8 {
		t.Errorf("NumVertices = %d, want 8", got)
	}
	if got := m.NumFaces(); got != 6 {
		t.Errorf("NumFaces = %d, want 6", got)
	}
	if got := m.NumHalfEdges(); got != 24 {
		t.Errorf("NumHalfEdges = %d, want 24 (6 faces x 4, closed manifold, no boundary)", got)
	}
}

func TestNewFromPolygonSoupRejectsShortPolygon(t *testing.T) {
	_, err := mesh.NewFromPolygonSoup(cubePositions(), [][]int{{0, 1}})
	if err == nil {
		t.Errorf("expected error for polygon with < 3 vertices")
	}
}

func TestNewFromPolygonSoupRejectsOutOfRange(t *testing.T) {
	_, err := mesh.NewFromPolygonSoup(cubePositions(), [][]int{{0, 1, 99}})
	if err == nil {
		t.Errorf("expected error for out-of-range index")
	}
}

func TestNewFromPolygonSoupRejectsDuplicateIndex(t *testing.T) {
	_, err := mesh.NewFromPolygonSoup(cubePositions(), [][]int{{0, 1, 1, 2}})
	if err == nil {
		t.Errorf("expected error for duplicate index within a polygon")
	}
}

func TestSingleQuadHasBoundaryLoop(t *testing.T) {
	m := quadMesh(t)
	// A single quad has no twin for any of its 4 inner halfedges, so 4
	// boundary halfedges must be synthesized, chained into one loop of
	// length 4.
	if got := m.NumHalfEdges(); got != 8 {
		t.Fatalf("NumHalfEdges = %d, want 8", got)
	}
	var boundaryStart handle.HalfEdge
	var found bool
	for _, h := range m.AllHalfEdges() {
		if _, has, err := m.AtHalfEdge(h).FaceOrBoundary(); err == nil && !has {
			boundaryStart = h
			found = true
			break
		}
	}
	if !found {
		t.Fatal("expected a boundary halfedge")
	}
	loop, err := m.HalfEdgeLoop(boundaryStart)
	if err != nil {
		t.Fatalf("HalfEdgeLoop: %v", err)
	}
	if len(loop) != 4 {
		t.Errorf("boundary loop length = %d, want 4", len(loop))
	}
}
