package mesh_test

import (
	"testing"

	"github.com/blackjack3d/blackjack/mesh"
)

func TestGenerateFlatNormalsChannel(t *testing.T) {
	m := quadMesh(t)
	if err := m.GenerateFlatNormalsChannel(); err != nil {
		t.Fatalf("GenerateFlatNormalsChannel: %v", err)
	}
	if m.SmoothNormals {
		t.Errorf("flat normals must leave SmoothNormals false")
	}
}

func TestGenerateSmoothNormalsChannel(t *testing.T) {
	m, err := mesh.NewFromPolygonSoup(cubePositions(), cubePolygons())
	if err != nil {
		t.Fatalf("NewFromPolygonSoup: %v", err)
	}
	if err := m.GenerateSmoothNormalsChannel(); err != nil {
		t.Fatalf("GenerateSmoothNormalsChannel: %v", err)
	}
	if !m.SmoothNormals {
		t.Errorf("smooth normals must set SmoothNormals true")
	}
}

func TestGenerateFullRangeUVsChannel(t *testing.T) {
	m := quadMesh(t)
	if err := m.GenerateFullRangeUVsChannel(); err != nil {
		t.Fatalf("GenerateFullRangeUVsChannel: %v", err)
	}
}

func TestTriangleBufferFlatIdentityIndices(t *testing.T) {
	m := quadMesh(t)
	buf, err := m.TriangleBufferFlat()
	if err != nil {
		t.Fatalf("TriangleBufferFlat: %v", err)
	}
	// A quad fans into 2 triangles = 6 corners.
	if len(buf.Positions) != 6 || len(buf.Indices) != 6 {
		t.Errorf("expected 6 corners/indices for a single quad, got %d/%d", len(buf.Positions), len(buf.Indices))
	}
	for i, idx := range buf.Indices {
		if int(idx) != i {
			t.Errorf("expected identity index buffer, got %d at position %d", idx, i)
		}
	}
}

func TestLineBufferAllDeduplicatesTwins(t *testing.T) {
	m, err := mesh.NewFromPolygonSoup(cubePositions(), cubePolygons())
	if err != nil {
		t.Fatalf("NewFromPolygonSoup: %v", err)
	}
	buf := m.LineBufferAll()
	// A cube has 12 edges; each line contributes 2 position entries.
	if len(buf.Positions) != 24 {
		t.Errorf("expected 24 position entries (12 edges x 2), got %d", len(buf.Positions))
	}
}

func TestPointBufferAllOnePerVertex(t *testing.T) {
	m := quadMesh(t)
	buf := m.PointBufferAll()
	if len(buf.Positions) != 4 {
		t.Errorf("expected 4 points, got %d", len(buf.Positions))
	}
}
