package mesh_test

import (
	"testing"

	"github.com/blackjack3d/blackjack/mesh"
	"github.com/blackjack3d/blackjack/vmath"
)

func TestNewBoxSizeTwoHasUnitCorners(t *testing.T) {
	m, err := mesh.NewBox(2)
	if err != nil {
		t.Fatalf("NewBox: %v", err)
	}
	if got := m.NumVertices(); got != 8 {
		t.Errorf("NumVertices = %d, want 8", got)
	}
	if got := m.NumFaces(); got != 6 {
		t.Errorf("NumFaces = %d, want 6", got)
	}
	if got := m.NumHalfEdges(); got != 24 {
		t.Errorf("NumHalfEdges = %d, want 24", got)
	}
	for _, v := range m.AllVertices() {
		p := m.Position(v)
		for _, c := range []float32{p.X, p.Y, p.Z} {
			if c != 1 && c != -1 {
				t.Errorf("vertex coordinate %v, want +1 or -1", c)
			}
		}
	}
}

func TestNewQuadIsSingleFace(t *testing.T) {
	m, err := mesh.NewQuad(
		vmath.Vec3{X: 0, Y: 0, Z: 0}, vmath.Vec3{X: 1, Y: 0, Z: 0},
		vmath.Vec3{X: 1, Y: 1, Z: 0}, vmath.Vec3{X: 0, Y: 1, Z: 0},
	)
	if err != nil {
		t.Fatalf("NewQuad: %v", err)
	}
	if got := m.NumFaces(); got != 1 {
		t.Errorf("NumFaces = %d, want 1", got)
	}
	if got := m.NumVertices(); got != 4 {
		t.Errorf("NumVertices = %d, want 4", got)
	}
}
