package mesh_test

import (
	"errors"
	"testing"

	"github.com/blackjack3d/blackjack/channel"
	"github.com/blackjack3d/blackjack/mesh"
)

func TestWriteConnectivityConflictsWithOutstandingRead(t *testing.T) {
	m := quadMesh(t)
	r, err := m.ReadConnectivity()
	if err != nil {
		t.Fatalf("ReadConnectivity: %v", err)
	}
	defer r.Release()

	if _, err := m.WriteConnectivity(); !errors.Is(err, channel.ErrBorrowConflict) {
		t.Errorf("expected ErrBorrowConflict while a connectivity read borrow is outstanding, got %v", err)
	}
}

func TestEditOpConflictsWithOutstandingConnectivityRead(t *testing.T) {
	m := quadMesh(t)
	vs := m.AllVertices()
	h, err := m.AtVertex(vs[0]).HalfEdgeTo(vs[1]).End()
	if err != nil {
		t.Fatalf("HalfEdgeTo: %v", err)
	}

	r, err := m.ReadConnectivity()
	if err != nil {
		t.Fatalf("ReadConnectivity: %v", err)
	}
	defer r.Release()

	if _, err := m.DivideEdge(h, 0.5); !errors.Is(err, channel.ErrBorrowConflict) {
		t.Errorf("expected ErrBorrowConflict from an edit op while a connectivity read borrow is outstanding, got %v", err)
	}
}

func TestReadConnectivityConflictsWithOutstandingEditOp(t *testing.T) {
	m := quadMesh(t)
	w, err := m.WriteConnectivity()
	if err != nil {
		t.Fatalf("WriteConnectivity: %v", err)
	}
	defer w.Release()

	if _, err := m.ReadConnectivity(); !errors.Is(err, channel.ErrBorrowConflict) {
		t.Errorf("expected ErrBorrowConflict while an edit op holds the connectivity write borrow, got %v", err)
	}
}

func TestChamferVertexComposesNestedEditOpsWithoutDeadlock(t *testing.T) {
	m := quadMesh(t)
	v := m.AllVertices()[0]
	// ChamferVertex internally calls divide_edge, cut_face and
	// dissolve_vertex; this must not deadlock or false-conflict against
	// its own outer connectivity write borrow (spec §5).
	if _, _, err := m.ChamferVertex(v, 0.25); err != nil {
		t.Fatalf("ChamferVertex: %v", err)
	}
}
