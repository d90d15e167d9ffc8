// Blackjack
// Copyright (C) the blackjack contributors
//
// Licensed under the MIT license. See the LICENSE file in the repository
// root for the full license text.

// Package compact implements the flat structure-of-arrays mesh
// representation used for Catmull-Clark subdivision (spec Component C): a
// dense-index encoding of a HalfEdge mesh's non-boundary halfedges, built
// once via FromHalfEdge, refined in place by repeated Subdivide steps, and
// converted back to a HalfEdge mesh via ToHalfEdge.
//
// The index arithmetic in subdivide.go follows the original engine's
// compact_mesh.rs one_subdivision_step; the SoA layout and the
// errgroup-based parallel position passes follow the teacher repository's
// pgraph package's preference for explicit, cancelable concurrency over ad
// hoc goroutines.
package compact

import (
	"fmt"

	"github.com/blackjack3d/blackjack/handle"
	"github.com/blackjack3d/blackjack/mesh"
	"github.com/blackjack3d/blackjack/vmath"
)

// Error signals a precondition violation in a compact-mesh conversion or
// subdivision step.
type Error struct {
	Reason string
}

func (e *Error) Error() string { return "compact: " + e.Reason }

func newError(format string, args ...interface{}) error {
	return &Error{Reason: fmt.Sprintf(format, args...)}
}

// Mesh is the structure-of-arrays encoding of a manifold's non-boundary
// halfedges. V, F, H, E are the vertex, face, halfedge and edge counts.
//
// When Subdivided is true, this mesh was itself produced by a Subdivide
// call: every face is a quad and Next, Prev and Face are never
// materialized; NextOf, PrevOf and FaceOf compute them analytically from
// the index alone (spec §4.C.4), which also means a second Subdivide call
// skips the loop-length pass FromHalfEdge needs for general polygons.
type Mesh struct {
	V, F, H, E int

	Positions []vmath.Vec3 // length V

	Next []int32 // length H, empty when Subdivided
	Prev []int32 // length H, empty when Subdivided
	Face []int32 // length H, empty when Subdivided
	Twin []int32 // length H; -1 = boundary (no twin)
	Vert []int32 // length H: source vertex of each halfedge
	Edge []int32 // length H: dense edge id of each halfedge

	Subdivided bool
}

// NextOf, PrevOf and FaceOf read or compute a halfedge's next, previous and
// face index, accounting for the Subdivided shortcut.
func (c *Mesh) NextOf(h int) int {
	if c.Subdivided {
		if h%4 == 3 {
			return h - 3
		}
		return h + 1
	}
	return int(c.Next[h])
}

func (c *Mesh) PrevOf(h int) int {
	if c.Subdivided {
		if h%4 == 0 {
			return h + 3
		}
		return h - 1
	}
	return int(c.Prev[h])
}

func (c *Mesh) FaceOf(h int) int {
	if c.Subdivided {
		return h / 4
	}
	return int(c.Face[h])
}

// FromHalfEdge converts a HalfEdge mesh into its compact SoA form (spec
// §4.C.1): non-boundary halfedges are enumerated in mesh order and given
// dense indices, vertices and faces keep the mesh's own dense (arena)
// order, and edge ids are synthesized by pairing a halfedge with its twin
// when the twin already has one.
func FromHalfEdge(m *mesh.Mesh) (*Mesh, error) {
	vs := m.AllVertices()
	fs := m.AllFaces()

	vIndex := make(map[handle.Vertex]int, len(vs))
	for i, v := range vs {
		vIndex[v] = i
	}
	fIndex := make(map[handle.Face]int, len(fs))
	for i, f := range fs {
		fIndex[f] = i
	}

	var inner []handle.HalfEdge
	hIndex := make(map[handle.HalfEdge]int)
	for _, h := range m.AllHalfEdges() {
		isBoundary, err := m.AtHalfEdge(h).IsBoundary()
		if err != nil {
			return nil, newError("from_halfedge: %v", err)
		}
		if isBoundary {
			continue
		}
		hIndex[h] = len(inner)
		inner = append(inner, h)
	}

	c := &Mesh{
		V: len(vs),
		F: len(fs),
		H: len(inner),
	}
	c.Positions = make([]vmath.Vec3, c.V)
	for i, v := range vs {
		c.Positions[i] = m.Position(v)
	}

	c.Next = make([]int32, c.H)
	c.Prev = make([]int32, c.H)
	c.Face = make([]int32, c.H)
	c.Twin = make([]int32, c.H)
	c.Vert = make([]int32, c.H)

	for i, h := range inner {
		cur := m.AtHalfEdge(h)

		next, err := cur.Next().End()
		if err != nil {
			return nil, newError("from_halfedge: halfedge %d has no next: %v", i, err)
		}
		c.Next[i] = int32(hIndex[next])

		prev, err := cur.Previous().End()
		if err != nil {
			return nil, newError("from_halfedge: halfedge %d has no previous: %v", i, err)
		}
		c.Prev[i] = int32(hIndex[prev])

		f, err := cur.Face().End()
		if err != nil {
			return nil, newError("from_halfedge: halfedge %d has no face: %v", i, err)
		}
		c.Face[i] = int32(fIndex[f])

		src, err := cur.SrcVertex()
		if err != nil {
			return nil, newError("from_halfedge: halfedge %d has no source vertex: %v", i, err)
		}
		c.Vert[i] = int32(vIndex[src])

		twin, err := cur.Twin().End()
		if err != nil || twin.IsNil() {
			c.Twin[i] = -1
			continue
		}
		if j, ok := hIndex[twin]; ok {
			c.Twin[i] = int32(j)
		} else {
			// Twin exists but is itself a boundary (faceless) halfedge, so
			// it was never enumerated into inner: there is no compact
			// counterpart.
			c.Twin[i] = -1
		}
	}

	c.Edge = make([]int32, c.H)
	for i := range c.Edge {
		c.Edge[i] = -1
	}
	nextEdge := int32(0)
	for h := 0; h < c.H; h++ {
		if c.Edge[h] != -1 {
			continue
		}
		t := int(c.Twin[h])
		if t >= 0 && c.Edge[t] != -1 {
			c.Edge[h] = c.Edge[t]
			continue
		}
		c.Edge[h] = nextEdge
		if t >= 0 {
			c.Edge[t] = nextEdge
		}
		nextEdge++
	}
	c.E = int(nextEdge)

	return c, nil
}

// ToHalfEdge converts the compact mesh back into a HalfEdge mesh,
// reconstructing boundary halfedges for every entry whose twin is absent.
func (c *Mesh) ToHalfEdge() (*mesh.Mesh, error) {
	raw := make([]mesh.RawHalfEdge, c.H)
	for h := 0; h < c.H; h++ {
		raw[h] = mesh.RawHalfEdge{
			Vertex: int(c.Vert[h]),
			Face:   c.FaceOf(h),
			Next:   c.NextOf(h),
			Twin:   int(c.Twin[h]),
		}
	}
	m, err := mesh.BuildFromRaw(c.Positions, c.F, raw)
	if err != nil {
		return nil, newError("to_halfedge: %v", err)
	}
	return m, nil
}
