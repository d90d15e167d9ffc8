// Blackjack
// Copyright (C) the blackjack contributors
//
// Licensed under the MIT license. See the LICENSE file in the repository
// root for the full license text.

package mesh

import (
	"github.com/blackjack3d/blackjack/handle"
	"github.com/blackjack3d/blackjack/vmath"
)

// RawHalfEdge describes one halfedge's connectivity in a flat, dense-index
// representation: Vertex is the index of its source vertex, Face the index
// of its face (-1 for a boundary halfedge), Next the index of the next
// halfedge in its loop, and Twin the index of its twin (-1 if unknown and
// to be synthesized as a boundary halfedge).
//
// This is the wire format the compact package's to_halfedge conversion
// produces; BuildFromRaw constructs a Mesh's connectivity in bulk from
// already-resolved indices, where NewFromPolygonSoup derives it from
// polygon vertex lists.
type RawHalfEdge struct {
	Vertex, Face, Next, Twin int
}

// BuildFromRaw allocates a fresh mesh with the given vertex positions and
// halfedge connectivity, synthesizing boundary halfedges for every entry
// whose Twin is -1 (mirroring NewFromPolygonSoup's step 6).
func BuildFromRaw(positions []vmath.Vec3, faceCount int, raw []RawHalfEdge) (*Mesh, error) {
	m := NewMesh()

	vs := make([]handle.Vertex, len(positions))
	for i, p := range positions {
		vs[i] = m.AddVertex(p)
	}

	fs := make([]handle.Face, faceCount)
	for i := range fs {
		fs[i] = m.allocFace()
	}

	hs := make([]handle.HalfEdge, len(raw))
	for i := range raw {
		hs[i] = m.allocHalfEdge()
	}

	for i, r := range raw {
		hd, _ := m.halfedge(hs[i])
		hd.vertex = vs[r.Vertex]
		hd.next = hs[r.Next]
		if r.Face >= 0 {
			hd.face = fs[r.Face]
			fd, _ := m.face(fs[r.Face])
			if fd.halfedge.IsNil() {
				fd.halfedge = hs[i]
			}
		}
		if r.Twin >= 0 {
			hd.twin = hs[r.Twin]
		}
		vd, _ := m.vertex(vs[r.Vertex])
		vd.halfedge = hs[i]
	}

	if err := m.addBoundaryHalfEdges(); err != nil {
		return nil, err
	}
	return m, nil
}
