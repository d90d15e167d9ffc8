package mesh

import (
	"github.com/blackjack3d/blackjack/handle"
	"github.com/blackjack3d/blackjack/vmath"
)

// edgeKey identifies a directed arc (src, dst) by vertex index, used while
// building the mesh to find existing halfedges and detect duplicates.
type edgeKey struct {
	a, b int
}

// NewFromPolygonSoup builds a mesh from a flat position list and a list of
// polygons given as indices into it (spec §4.B.2). Each polygon must have
// at least 3 vertices, no duplicate index, and only in-range indices.
func NewFromPolygonSoup(positions []vmath.Vec3, polygons [][]int) (*Mesh, error) {
	for pi, poly := range polygons {
		if len(poly) < 3 {
			return nil, newTopologyError("polygon %d has fewer than 3 vertices", pi)
		}
		seen := map[int]bool{}
		for _, idx := range poly {
			if idx < 0 || idx >= len(positions) {
				return nil, newTopologyError("polygon %d references out-of-range index %d", pi, idx)
			}
			if seen[idx] {
				return nil, newTopologyError("polygon %d has duplicate index %d", pi, idx)
			}
			seen[idx] = true
		}
	}

	m := NewMesh()

	// Step 2: allocate a vertex per distinct index, set positions, track
	// incidence (degree) counts for the final manifold check.
	vertexOf := make([]handle.Vertex, len(positions))
	degree := make([]int, len(positions))
	seenIndex := make([]bool, len(positions))
	for _, poly := range polygons {
		for _, idx := range poly {
			if !seenIndex[idx] {
				seenIndex[idx] = true
				vertexOf[idx] = m.allocVertex()
				m.SetPosition(vertexOf[idx], positions[idx])
			}
			degree[idx]++
		}
	}

	// Step 3: allocate a face and inner halfedges per polygon.
	innerHalfEdge := map[edgeKey]handle.HalfEdge{}
	faceLoopHalfEdges := make([][]handle.HalfEdge, len(polygons))
	for pi, poly := range polygons {
		f := m.allocFace()
		n := len(poly)
		loop := make([]handle.HalfEdge, n)
		for i := 0; i < n; i++ {
			a := poly[i]
			b := poly[(i+1)%n]
			key := edgeKey{a, b}
			if _, dup := innerHalfEdge[key]; dup {
				return nil, newTopologyError("duplicate directed edge %d->%d: non-manifold or inconsistent winding", a, b)
			}
			h := m.allocHalfEdge()
			hd, _ := m.halfedge(h)
			hd.vertex = vertexOf[a]
			hd.face = f
			innerHalfEdge[key] = h
			loop[i] = h
		}
		fd, _ := m.face(f)
		fd.halfedge = loop[0]
		faceLoopHalfEdges[pi] = loop

		for i := 0; i < n; i++ {
			vd, _ := m.vertex(vertexOf[poly[i]])
			vd.halfedge = loop[i]
		}
	}

	// Step 4: link (b,a) to its twin (a,b) when available.
	for key, h := range innerHalfEdge {
		twinKey := edgeKey{key.b, key.a}
		if twinH, ok := innerHalfEdge[twinKey]; ok {
			hd, _ := m.halfedge(h)
			hd.twin = twinH
		}
	}

	// Step 5: fill next along each face loop.
	for _, loop := range faceLoopHalfEdges {
		n := len(loop)
		for i := 0; i < n; i++ {
			hd, _ := m.halfedge(loop[i])
			hd.next = loop[(i+1)%n]
		}
	}

	// Step 6: synthesize boundary halfedges for every inner halfedge
	// without a twin, then chain them into loops.
	if err := m.addBoundaryHalfEdges(); err != nil {
		return nil, err
	}

	// Step 7: per-vertex manifold check. Count of non-boundary halfedges
	// incident to a vertex must equal its polygon incidence.
	for idx, v := range vertexOf {
		if !seenIndex[idx] {
			continue
		}
		outs, err := m.AtVertex(v).OutgoingHalfEdges()
		if err != nil {
			return nil, newTopologyError("vertex %d: %v", idx, err)
		}
		nonBoundary := 0
		for _, h := range outs {
			if _, has, err := m.AtHalfEdge(h).FaceOrBoundary(); err == nil && has {
				nonBoundary++
			}
		}
		if nonBoundary != degree[idx] {
			return nil, newTopologyError("vertex %d is non-manifold: %d incident faces but %d polygon incidences", idx, nonBoundary, degree[idx])
		}
	}

	return m, nil
}

// addBoundaryHalfEdges synthesizes a boundary (faceless) halfedge for every
// inner halfedge that has no twin yet, then chains them into loops (spec
// §4.B.2 step 6).
//
// For an inner halfedge h: a -> v missing its twin, the synthesized
// boundary halfedge b runs v -> a (b.vertex = v). Its next pointer must
// land on the boundary halfedge departing a, i.e. twin of whichever
// missing-twin inner halfedge h2 *ends* at a: next(b) = boundaryOf[h2].
// This only reads already-known inner `next`/`vertex` data, so unlike a
// twin∘next rotation it needs no boundary pointer to already be set.
func (m *Mesh) addBoundaryHalfEdges() error {
	var missingTwins []handle.HalfEdge
	for _, h := range m.AllHalfEdges() {
		hd, _ := m.halfedge(h)
		if hd.twin.IsNil() {
			missingTwins = append(missingTwins, h)
		}
	}

	boundaryOf := make(map[handle.HalfEdge]handle.HalfEdge, len(missingTwins))
	missingTwinByDst := make(map[handle.Vertex]handle.HalfEdge, len(missingTwins))
	for _, h := range missingTwins {
		hd, _ := m.halfedge(h)
		dst, err := m.AtHalfEdge(h).DstVertex()
		if err != nil {
			return err
		}
		b := m.allocHalfEdge()
		bd, _ := m.halfedge(b)
		bd.vertex = dst
		bd.twin = h
		hd.twin = b
		boundaryOf[h] = b
		missingTwinByDst[dst] = h
	}

	for _, h := range missingTwins {
		b := boundaryOf[h]
		bd, _ := m.halfedge(b)
		a, err := m.AtHalfEdge(h).SrcVertex()
		if err != nil {
			return err
		}
		h2, ok := missingTwinByDst[a]
		if !ok {
			return newTopologyError("boundary loop is not closed at a shared vertex")
		}
		bd.next = boundaryOf[h2]
	}
	return nil
}
