package mesh

import (
	"github.com/blackjack3d/blackjack/channel"
	"github.com/blackjack3d/blackjack/handle"
	"github.com/blackjack3d/blackjack/vmath"
)

// BevelEdges duplicates each requested edge into a thin digon, chamfers
// every endpoint vertex, and displaces the resulting ring vertices by the
// normalized sum of directions towards their surviving (non-beveled)
// neighbors, scaled by amount (spec §4.B.3).
//
// This is a simplified rendering of bevel_edges_connectivity: it does not
// run the original's redundant-digon collapse pass over the quads left
// where two beveled edges share a vertex, so those corners come out as a
// small quad instead of a single merged n-gon (documented Non-goal, see
// DESIGN.md). The result is still a valid manifold bevel.
//
// Holds the mesh's connectivity write borrow for the whole call, including
// the duplicate_edge/chamfer_vertex steps it composes internally (spec
// §5).
func (m *Mesh) BevelEdges(hs []handle.HalfEdge, amount float32) ([]handle.HalfEdge, error) {
	g, err := m.WriteConnectivity()
	if err != nil {
		return nil, err
	}
	defer g.Release()
	return m.bevelEdges(hs, amount)
}

func (m *Mesh) bevelEdges(hs []handle.HalfEdge, amount float32) ([]handle.HalfEdge, error) {
	toBevel := map[handle.HalfEdge]bool{}
	seen := map[handle.HalfEdge]bool{}
	vertexTouched := map[handle.Vertex]bool{}

	for _, h := range hs {
		if seen[h] {
			continue
		}
		hd, ok := m.halfedge(h)
		if !ok {
			return nil, newTopologyError("bevel_edges: halfedge does not exist")
		}
		t := hd.twin
		seen[h] = true
		if !t.IsNil() {
			seen[t] = true
		}
		if hd.face.IsNil() {
			return nil, newTopologyError("bevel_edges: boundary halfedges cannot be beveled")
		}
		if err := m.duplicateEdge(h); err != nil {
			return nil, err
		}
		toBevel[h] = true
		if !t.IsNil() {
			toBevel[t] = true
		}
		src, err := m.AtHalfEdge(h).SrcVertex()
		if err != nil {
			return nil, err
		}
		dst, err := m.AtHalfEdge(h).DstVertex()
		if err != nil {
			return nil, err
		}
		vertexTouched[src] = true
		vertexTouched[dst] = true
	}

	pull := map[handle.Vertex]vmath.Vec3{}
	for v := range vertexTouched {
		outs, err := m.AtVertex(v).OutgoingHalfEdges()
		if err != nil {
			return nil, err
		}
		var sum vmath.Vec3
		count := 0
		for _, h := range outs {
			if toBevel[h] {
				continue
			}
			dst, err := m.AtHalfEdge(h).DstVertex()
			if err != nil {
				continue
			}
			dir := m.Position(dst).Sub(m.Position(v)).Normalize()
			sum = sum.Add(dir)
			count++
		}
		if count > 0 {
			pull[v] = sum.Normalize()
		}
	}

	for v := range vertexTouched {
		_, ring, err := m.chamferVertex(v, 0)
		if err != nil {
			return nil, err
		}
		dir, ok := pull[v]
		if !ok {
			continue
		}
		for _, nv := range ring {
			m.SetPosition(nv, m.Position(nv).Add(dir.Scale(amount)))
		}
	}

	beveled := make([]handle.HalfEdge, 0, len(toBevel))
	for h := range toBevel {
		beveled = append(beveled, h)
	}
	return beveled, nil
}

// ExtrudeFaces duplicates every vertex touching the selected faces,
// remaps the selected faces onto the duplicates, bridges the gap with
// side-wall quads, and displaces the duplicated vertices along the
// accumulated per-adjacent-extruded-face normal, scaled by amount (spec
// §4.B.3). Holds the mesh's connectivity write borrow for the whole call,
// including the make_quad steps it composes internally (spec §5).
func (m *Mesh) ExtrudeFaces(faces []handle.Face, amount float32) error {
	g, err := m.WriteConnectivity()
	if err != nil {
		return err
	}
	defer g.Release()
	return m.extrudeFaces(faces, amount)
}

func (m *Mesh) extrudeFaces(faces []handle.Face, amount float32) error {
	faceSet := map[handle.Face]bool{}
	for _, f := range faces {
		faceSet[f] = true
	}

	if err := m.GenerateFlatNormalsChannel(); err != nil {
		return err
	}
	faceID, _ := channel.ChannelIdByName[handle.Face, vmath.Vec3](m.Channels, ChannelFaceNormal)
	fr, err := channel.Read[handle.Face, vmath.Vec3](m.Channels, faceID)
	if err != nil {
		return err
	}
	defer fr.Release()

	normalSum := map[handle.Vertex]vmath.Vec3{}
	for _, f := range faces {
		n := fr.Get(f)
		verts, err := m.AtFace(f).Vertices()
		if err != nil {
			continue
		}
		for _, v := range verts {
			normalSum[v] = normalSum[v].Add(n)
		}
	}

	var boundary []handle.HalfEdge
	for f := range faceSet {
		hs, err := m.AtFace(f).HalfEdges()
		if err != nil {
			return err
		}
		for _, h := range hs {
			hd, _ := m.halfedge(h)
			if hd.twin.IsNil() {
				boundary = append(boundary, h)
				continue
			}
			td, _ := m.halfedge(hd.twin)
			if td.face.IsNil() || !faceSet[td.face] {
				boundary = append(boundary, h)
			}
		}
	}

	newVertexOf := make(map[handle.Vertex]handle.Vertex, len(normalSum))
	for v, n := range normalSum {
		newVertexOf[v] = m.AddVertex(m.Position(v).Add(n.Normalize().Scale(amount)))
	}

	type sideQuad struct{ a, b, c, d handle.Vertex }
	sideQuads := make([]sideQuad, 0, len(boundary))
	for _, h := range boundary {
		src, err := m.AtHalfEdge(h).SrcVertex()
		if err != nil {
			return err
		}
		dst, err := m.AtHalfEdge(h).DstVertex()
		if err != nil {
			return err
		}
		sideQuads = append(sideQuads, sideQuad{src, dst, newVertexOf[dst], newVertexOf[src]})
	}

	for f := range faceSet {
		fhs, err := m.AtFace(f).HalfEdges()
		if err != nil {
			return err
		}
		for _, h := range fhs {
			hd, _ := m.halfedge(h)
			if nv, ok := newVertexOf[hd.vertex]; ok {
				hd.vertex = nv
			}
			hd.twin = handle.HalfEdge{}
		}
	}

	// Refresh every vertex's cached outgoing halfedge: the remap above may
	// have left old or new vertices pointing at a halfedge whose vertex
	// field just changed out from under it.
	remaining := map[handle.Vertex]handle.HalfEdge{}
	for _, h := range m.AllHalfEdges() {
		hd, _ := m.halfedge(h)
		remaining[hd.vertex] = h
	}
	for v, h := range remaining {
		if vd, ok := m.vertex(v); ok {
			vd.halfedge = h
		}
	}

	for _, q := range sideQuads {
		if _, err := m.makeQuad(q.a, q.b, q.c, q.d); err != nil {
			return err
		}
	}

	return m.addBoundaryHalfEdges()
}

// BridgeLoops connects loopA and loopB, both boundary-halfedge loops of
// equal length, with a ring of quads (spec §4.B.3). Each bag must hold a
// complete closed boundary loop; an open chain (part of a boundary loop)
// is rejected. The rotational alignment minimizing the sum of squared
// endpoint distances between corresponding vertex pairs is chosen, and the
// ring wraps around from the last pair to the first. Holds the mesh's
// connectivity write borrow for the whole call, including the make_quad
// steps it composes internally (spec §5).
func (m *Mesh) BridgeLoops(loopA, loopB []handle.HalfEdge, flip bool) error {
	g, err := m.WriteConnectivity()
	if err != nil {
		return err
	}
	defer g.Release()
	return m.bridgeLoops(loopA, loopB, flip)
}

func (m *Mesh) bridgeLoops(loopA, loopB []handle.HalfEdge, flip bool) error {
	if len(loopA) != len(loopB) {
		return newTopologyError("bridge_loops: loops have different lengths")
	}
	orderedA, err := m.orderBoundaryLoop(loopA)
	if err != nil {
		return err
	}
	orderedB, err := m.orderBoundaryLoop(loopB)
	if err != nil {
		return err
	}
	if flip {
		orderedB = reverseHalfEdges(orderedB)
	}

	n := len(orderedA)
	bestShift := 0
	var bestScore float32
	for shift := 0; shift < n; shift++ {
		var score float32
		for i := 0; i < n; i++ {
			va, _ := m.AtHalfEdge(orderedA[i]).SrcVertex()
			vb, _ := m.AtHalfEdge(orderedB[(i+shift)%n]).SrcVertex()
			score += m.Position(va).DistanceSquared(m.Position(vb))
		}
		if shift == 0 || score < bestScore {
			bestScore = score
			bestShift = shift
		}
	}

	for i := 0; i < n; i++ {
		a1, _ := m.AtHalfEdge(orderedA[i]).SrcVertex()
		a2, _ := m.AtHalfEdge(orderedA[(i+1)%n]).SrcVertex()
		b1, _ := m.AtHalfEdge(orderedB[(i+bestShift)%n]).SrcVertex()
		b2, _ := m.AtHalfEdge(orderedB[(i+1+bestShift)%n]).SrcVertex()
		if _, err := m.makeQuad(a1, a2, b2, b1); err != nil {
			return err
		}
	}
	return nil
}

// orderBoundaryLoop walks the mesh's own next-chain starting from an
// arbitrary member of bag and verifies the resulting loop contains exactly
// the given set, rejecting bags that span more than one physical boundary
// loop or that include a non-boundary halfedge.
func (m *Mesh) orderBoundaryLoop(bag []handle.HalfEdge) ([]handle.HalfEdge, error) {
	if len(bag) == 0 {
		return nil, newTopologyError("bridge_loops: empty loop")
	}
	for _, h := range bag {
		isBoundary, err := m.AtHalfEdge(h).IsBoundary()
		if err != nil || !isBoundary {
			return nil, newTopologyError("bridge_loops: loop contains a non-boundary halfedge")
		}
	}
	loop, err := m.HalfEdgeLoop(bag[0])
	if err != nil {
		return nil, err
	}
	if len(loop) != len(bag) {
		return nil, newTopologyError("bridge_loops: given halfedges do not form a single chain")
	}
	set := make(map[handle.HalfEdge]bool, len(bag))
	for _, h := range bag {
		set[h] = true
	}
	for _, h := range loop {
		if !set[h] {
			return nil, newTopologyError("bridge_loops: given halfedges do not match their own boundary chain")
		}
	}
	return loop, nil
}

func reverseHalfEdges(hs []handle.HalfEdge) []handle.HalfEdge {
	out := make([]handle.HalfEdge, len(hs))
	for i, h := range hs {
		out[len(hs)-1-i] = h
	}
	return out
}
