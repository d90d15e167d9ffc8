// Blackjack
// Copyright (C) the blackjack contributors
//
// Licensed under the MIT license. See the LICENSE file in the repository
// root for the full license text.

package compact_test

import (
	"testing"

	"github.com/blackjack3d/blackjack/compact"
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

func cubeCompact(t *testing.T) *compact.Mesh {
	t.Helper()
	m, err := mesh.NewFromPolygonSoup(cubePositions(), cubePolygons())
	if err != nil {
		t.Fatalf("NewFromPolygonSoup: %v", err)
	}
	c, err := compact.FromHalfEdge(m)
	if err != nil {
		t.Fatalf("FromHalfEdge: %v", err)
	}
	return c
}

func quadCompact(t *testing.T) *compact.Mesh {
	t.Helper()
	positions := []vmath.Vec3{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
	}
	m, err := mesh.NewFromPolygonSoup(positions, [][]int{{0, 1, 2, 3}})
	if err != nil {
		t.Fatalf("NewFromPolygonSoup: %v", err)
	}
	c, err := compact.FromHalfEdge(m)
	if err != nil {
		t.Fatalf("FromHalfEdge: %v", err)
	}
	return c
}

func TestFromHalfEdgeCubeCounts(t *testing.T) {
	c := cubeCompact(t)
	if c.V != 8 || c.H != 24 || c.E != 12 || c.F != 6 {
		t.Errorf("got V=%d H=%d E=%d F=%d, want V=8 H=24 E=12 F=6", c.V, c.H, c.E, c.F)
	}
}

func TestRoundTripPreservesCounts(t *testing.T) {
	c := cubeCompact(t)
	m2, err := c.ToHalfEdge()
	if err != nil {
		t.Fatalf("ToHalfEdge: %v", err)
	}
	if m2.NumVertices() != 8 || m2.NumFaces() != 6 || m2.NumHalfEdges() != 24 {
		t.Errorf("round trip: got V=%d F=%d H=%d, want 8/6/24", m2.NumVertices(), m2.NumFaces(), m2.NumHalfEdges())
	}
}

func TestSubdivisionCountsCube(t *testing.T) {
	wantV := []int{26, 98, 386, 1538}
	wantH := []int{96, 384, 1536, 6144}
	wantE := []int{48, 192, 768, 3072}
	wantF := []int{24, 96, 384, 1536}

	c := cubeCompact(t)
	for i := 0; i < 4; i++ {
		next, err := c.Subdivide(true)
		if err != nil {
			t.Fatalf("Subdivide iteration %d: %v", i, err)
		}
		if next.V != wantV[i] || next.H != wantH[i] || next.E != wantE[i] || next.F != wantF[i] {
			t.Errorf("iteration %d: got V=%d H=%d E=%d F=%d, want V=%d H=%d E=%d F=%d",
				i, next.V, next.H, next.E, next.F, wantV[i], wantH[i], wantE[i], wantF[i])
		}
		c = next
	}
}

func TestSubdivisionCountsQuad(t *testing.T) {
	wantV := []int{9, 25, 81, 289}

	c := quadCompact(t)
	for i := 0; i < 4; i++ {
		next, err := c.Subdivide(true)
		if err != nil {
			t.Fatalf("Subdivide iteration %d: %v", i, err)
		}
		if next.V != wantV[i] {
			t.Errorf("iteration %d: got V=%d, want %d", i, next.V, wantV[i])
		}
		c = next
	}
}

func TestSubdivideMultiMatchesRepeatedSubdivide(t *testing.T) {
	c := cubeCompact(t)
	multi, err := c.SubdivideMulti(2, true)
	if err != nil {
		t.Fatalf("SubdivideMulti: %v", err)
	}
	step1, err := c.Subdivide(true)
	if err != nil {
		t.Fatalf("Subdivide: %v", err)
	}
	step2, err := step1.Subdivide(true)
	if err != nil {
		t.Fatalf("Subdivide: %v", err)
	}
	if multi.V != step2.V || multi.H != step2.H || multi.E != step2.E || multi.F != step2.F {
		t.Errorf("SubdivideMulti(2) counts differ from two Subdivide calls")
	}
}

func TestSubdividedCenteredCubeKeepsCentroidAtOrigin(t *testing.T) {
	// A unit cube centered at the origin is invariant under its own
	// symmetry group, and Catmull-Clark's per-vertex update treats every
	// corner identically, so the subdivided point cloud is too: its
	// centroid must stay fixed at the origin.
	positions := make([]vmath.Vec3, 8)
	for i, p := range cubePositions() {
		positions[i] = vmath.Vec3{X: p.X - 0.5, Y: p.Y - 0.5, Z: p.Z - 0.5}
	}
	m, err := mesh.NewFromPolygonSoup(positions, cubePolygons())
	if err != nil {
		t.Fatalf("NewFromPolygonSoup: %v", err)
	}
	c, err := compact.FromHalfEdge(m)
	if err != nil {
		t.Fatalf("FromHalfEdge: %v", err)
	}
	next, err := c.Subdivide(true)
	if err != nil {
		t.Fatalf("Subdivide: %v", err)
	}
	var sum vmath.Vec3
	for _, p := range next.Positions {
		sum = sum.Add(p)
	}
	centroid := sum.Scale(1 / float32(len(next.Positions)))
	if d := centroid.Length(); d > 1e-3 {
		t.Errorf("centroid drifted to %v (distance %f from origin)", centroid, d)
	}
}

func TestToHalfEdgeOfSubdividedMeshIsManifold(t *testing.T) {
	c := cubeCompact(t)
	next, err := c.Subdivide(true)
	if err != nil {
		t.Fatalf("Subdivide: %v", err)
	}
	m2, err := next.ToHalfEdge()
	if err != nil {
		t.Fatalf("ToHalfEdge: %v", err)
	}
	if m2.NumFaces() != 24 {
		t.Errorf("NumFaces = %d, want 24", m2.NumFaces())
	}
	for _, f := range m2.AllFaces() {
		verts, err := m2.AtFace(f).Vertices()
		if err != nil {
			t.Errorf("face %v is not walkable: %v", f, err)
			continue
		}
		if len(verts) != 4 {
			t.Errorf("face %v has %d vertices, want 4 (Catmull-Clark always produces quads)", f, len(verts))
		}
	}
}

func TestSubdivideRejectsEmptyMesh(t *testing.T) {
	c := &compact.Mesh{}
	if _, err := c.Subdivide(true); err == nil {
		t.Errorf("expected an error subdividing an empty compact mesh")
	}
}
