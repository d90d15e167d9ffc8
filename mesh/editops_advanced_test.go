package mesh_test

import (
	"testing"

	"github.com/blackjack3d/blackjack/mesh"
)

func TestExtrudeFacesAddsGeometry(t *testing.T) {
	m, err := mesh.NewFromPolygonSoup(cubePositions(), cubePolygons())
	if err != nil {
		t.Fatalf("NewFromPolygonSoup: %v", err)
	}
	beforeVerts := m.NumVertices()
	beforeFaces := m.NumFaces()
	faces := m.AllFaces()
	if err := m.ExtrudeFaces(faces[:1], 0.5); err != nil {
		t.Fatalf("ExtrudeFaces: %v", err)
	}
	if got := m.NumVertices(); got <= beforeVerts {
		t.Errorf("NumVertices = %d, want more than %d after extrude", got, beforeVerts)
	}
	if got := m.NumFaces(); got <= beforeFaces {
		t.Errorf("NumFaces = %d, want more than %d after extrude", got, beforeFaces)
	}
}

func TestBevelEdgesAddsGeometry(t *testing.T) {
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
	if _, err := m.BevelEdges(hs[:1], 0.1); err != nil {
		t.Fatalf("BevelEdges: %v", err)
	}
	if got := m.NumFaces(); got <= beforeFaces {
		t.Errorf("NumFaces = %d, want more than %d after bevel", got, beforeFaces)
	}
}
