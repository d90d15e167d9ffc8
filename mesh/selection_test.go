package mesh_test

import (
	"testing"

	"github.com/blackjack3d/blackjack/mesh"
)

func TestParseSelectionStar(t *testing.T) {
	sel, err := mesh.ParseSelection("*")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := quadMesh(t)
	got, err := mesh.ResolveVertexSelectionFull(m, sel)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(got) != 4 {
		t.Errorf("expected all 4 vertices, got %d", len(got))
	}
}

func TestParseSelectionEmptyIsNone(t *testing.T) {
	for _, expr := range []string{"", "   "} {
		sel, err := mesh.ParseSelection(expr)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", expr, err)
		}
		m := quadMesh(t)
		got, err := mesh.ResolveVertexSelectionFull(m, sel)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected none for %q, got %d", expr, len(got))
		}
	}
}

func TestParseSelectionExplicitSingles(t *testing.T) {
	sel, err := mesh.ParseSelection("1, 2, 3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := quadMesh(t)
	got, err := mesh.ResolveVertexSelectionFull(m, sel)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("expected 3 vertices, got %d", len(got))
	}
}

func TestParseSelectionRangeAndGroup(t *testing.T) {
	m := quadMesh(t)
	verts := m.AllVertices()
	if err := m.MakeVertexGroup("grp", verts[:1]); err != nil {
		t.Fatalf("MakeVertexGroup: %v", err)
	}
	sel, err := mesh.ParseSelection("0..1, @grp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := mesh.ResolveVertexSelectionFull(m, sel)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("expected 3 handles (0,1 range + 1 group member), got %d", len(got))
	}
}

func TestParseSelectionRejectsTrailingGarbage(t *testing.T) {
	if _, err := mesh.ParseSelection("1, *"); err == nil {
		t.Errorf("expected error mixing explicit fragment with '*'")
	}
}

func TestParseSelectionRejectsBareIdentifier(t *testing.T) {
	if _, err := mesh.ParseSelection("potato"); err == nil {
		t.Errorf("expected error for bare identifier without '@'")
	}
}

func TestParseSelectionRejectsBareAtWithNumber(t *testing.T) {
	// A group name must start with a lowercase letter (original_source
	// selection.rs's `identifier` parser); "@1" is a parse error, not a
	// well-formed reference to an undefined group.
	if _, err := mesh.ParseSelection("@1"); err == nil {
		t.Errorf("expected parse error for group name starting with a digit")
	}
}

func TestParseSelectionRejectsUppercaseGroupName(t *testing.T) {
	if _, err := mesh.ParseSelection("@Foo"); err == nil {
		t.Errorf("expected parse error for group name starting with an uppercase letter")
	}
}

func TestParseSelectionAcceptsLowercaseGroupName(t *testing.T) {
	sel, err := mesh.ParseSelection("@painted_1")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	m := quadMesh(t)
	if _, err := mesh.ResolveVertexSelectionFull(m, sel); err == nil {
		t.Errorf("expected undefined group error resolving @painted_1 against a mesh with no such group")
	}
}
