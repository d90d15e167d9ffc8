package mesh

import "github.com/blackjack3d/blackjack/handle"

// HalfEdgeCursor is a fallible, chainable traversal step starting from a
// halfedge (spec §4.B.1). Each method either advances the cursor or, on
// first failure, freezes it so the error surfaces at whichever terminal
// method (End, Vertex, Face, ...) the caller eventually calls.
type HalfEdgeCursor struct {
	m   *Mesh
	h   handle.HalfEdge
	err error
}

// AtHalfEdge starts a traversal at halfedge h.
func (m *Mesh) AtHalfEdge(h handle.HalfEdge) HalfEdgeCursor {
	return HalfEdgeCursor{m: m, h: h}
}

func (c HalfEdgeCursor) fail(reason string) HalfEdgeCursor {
	c.err = newTraversalError(reason, c.h)
	return c
}

// End returns the halfedge the cursor currently points at, or the first
// error encountered along the chain.
func (c HalfEdgeCursor) End() (handle.HalfEdge, error) {
	if c.err != nil {
		return handle.HalfEdge{}, c.err
	}
	return c.h, nil
}

func (c HalfEdgeCursor) data() (*halfedgeData, HalfEdgeCursor) {
	if c.err != nil {
		return nil, c
	}
	d, ok := c.m.halfedge(c.h)
	if !ok {
		return nil, c.fail("halfedge does not exist")
	}
	return d, c
}

// Twin moves to the paired halfedge. Fails if h is a boundary halfedge with
// no twin (shouldn't happen per spec's "every non-boundary halfedge has a
// twin" invariant, but may legitimately happen for a synthesized boundary
// halfedge if its own twin bookkeeping was skipped).
func (c HalfEdgeCursor) Twin() HalfEdgeCursor {
	d, c := c.data()
	if c.err != nil {
		return c
	}
	if d.twin.IsNil() {
		return c.fail("halfedge has no twin")
	}
	c.h = d.twin
	return c
}

// Next moves along the face loop (or boundary loop).
func (c HalfEdgeCursor) Next() HalfEdgeCursor {
	d, c := c.data()
	if c.err != nil {
		return c
	}
	if d.next.IsNil() {
		return c.fail("halfedge has no next")
	}
	c.h = d.next
	return c
}

// Previous walks `next` until it returns to this halfedge, bounded by
// MaxLoop.
func (c HalfEdgeCursor) Previous() HalfEdgeCursor {
	if c.err != nil {
		return c
	}
	start := c.h
	cur := c
	for i := 0; i < MaxLoop; i++ {
		nxt := cur.Next()
		if nxt.err != nil {
			return nxt
		}
		if nxt.h == start {
			return cur
		}
		cur = nxt
	}
	cur.err = errBadLoop
	return cur
}

// Vertex returns the halfedge's source vertex cursor.
func (c HalfEdgeCursor) Vertex() VertexCursor {
	d, c2 := c.data()
	if c2.err != nil {
		return VertexCursor{m: c.m, err: c2.err}
	}
	return VertexCursor{m: c.m, v: d.vertex}
}

// SrcVertex is an alias for Vertex's terminal End, returning the source
// vertex handle directly.
func (c HalfEdgeCursor) SrcVertex() (handle.Vertex, error) { return c.Vertex().End() }

// DstVertex returns the destination vertex: the source of `next`.
func (c HalfEdgeCursor) DstVertex() (handle.Vertex, error) {
	return c.Next().Vertex().End()
}

// SrcDstPair returns (src, dst) for this halfedge.
func (c HalfEdgeCursor) SrcDstPair() (handle.Vertex, handle.Vertex, error) {
	src, err := c.SrcVertex()
	if err != nil {
		return handle.Vertex{}, handle.Vertex{}, err
	}
	dst, err := c.DstVertex()
	if err != nil {
		return handle.Vertex{}, handle.Vertex{}, err
	}
	return src, dst, nil
}

// Face returns the halfedge's face cursor. Fails if the halfedge is a
// boundary halfedge (no face). Use FaceOrBoundary to avoid the error.
func (c HalfEdgeCursor) Face() FaceCursor {
	d, c2 := c.data()
	if c2.err != nil {
		return FaceCursor{m: c.m, err: c2.err}
	}
	if d.face.IsNil() {
		return FaceCursor{m: c.m, err: newTraversalError("halfedge has no face (boundary)", c.h)}
	}
	return FaceCursor{m: c.m, f: d.face}
}

// FaceOrBoundary returns (face, true) if set, or (zero, false) if this is a
// boundary halfedge. Only errors if the halfedge itself doesn't exist.
func (c HalfEdgeCursor) FaceOrBoundary() (handle.Face, bool, error) {
	d, c2 := c.data()
	if c2.err != nil {
		return handle.Face{}, false, c2.err
	}
	if d.face.IsNil() {
		return handle.Face{}, false, nil
	}
	return d.face, true, nil
}

// IsBoundary reports whether this halfedge has no face.
func (c HalfEdgeCursor) IsBoundary() (bool, error) {
	_, has, err := c.FaceOrBoundary()
	if err != nil {
		return false, err
	}
	return !has, nil
}

// CycleAroundFan is twin().next(): the step that rotates around a vertex's
// fan of outgoing halfedges.
func (c HalfEdgeCursor) CycleAroundFan() HalfEdgeCursor {
	return c.Twin().Next()
}

// VertexCursor is a chainable traversal step starting from a vertex.
type VertexCursor struct {
	m   *Mesh
	v   handle.Vertex
	err error
}

// AtVertex starts a traversal at vertex v.
func (m *Mesh) AtVertex(v handle.Vertex) VertexCursor {
	return VertexCursor{m: m, v: v}
}

// End returns the vertex the cursor points at, or the first error.
func (c VertexCursor) End() (handle.Vertex, error) {
	if c.err != nil {
		return handle.Vertex{}, c.err
	}
	return c.v, nil
}

func (c VertexCursor) data() (*vertexData, error) {
	if c.err != nil {
		return nil, c.err
	}
	d, ok := c.m.vertex(c.v)
	if !ok {
		return nil, newTraversalError("vertex does not exist", c.v)
	}
	return d, nil
}

// HalfEdge returns one outgoing halfedge of this vertex. Fails if the
// vertex is isolated (no outgoing halfedge recorded).
func (c VertexCursor) HalfEdge() HalfEdgeCursor {
	d, err := c.data()
	if err != nil {
		return HalfEdgeCursor{m: c.m, err: err}
	}
	if d.halfedge.IsNil() {
		return HalfEdgeCursor{m: c.m, err: newTraversalError("vertex has no outgoing halfedge", c.v)}
	}
	return HalfEdgeCursor{m: c.m, h: d.halfedge}
}

// OutgoingHalfEdges lists every halfedge leaving this vertex, visited by
// rotating twin().next(), bounded by MaxLoop (spec §4.B.1).
func (c VertexCursor) OutgoingHalfEdges() ([]handle.HalfEdge, error) {
	start, err := c.HalfEdge().End()
	if err != nil {
		if _, ok := err.(*TraversalError); ok {
			// Isolated vertex: no outgoing halfedges, not an error.
			return nil, nil
		}
		return nil, err
	}
	out := []handle.HalfEdge{start}
	cur := start
	for i := 0; i < MaxLoop; i++ {
		nxt, err := c.m.AtHalfEdge(cur).CycleAroundFan().End()
		if err != nil {
			return nil, err
		}
		if nxt == start {
			return out, nil
		}
		out = append(out, nxt)
		cur = nxt
	}
	return nil, errBadLoop
}

// IncomingHalfEdges lists the twin of every outgoing halfedge.
func (c VertexCursor) IncomingHalfEdges() ([]handle.HalfEdge, error) {
	outs, err := c.OutgoingHalfEdges()
	if err != nil {
		return nil, err
	}
	in := make([]handle.HalfEdge, 0, len(outs))
	for _, h := range outs {
		t, err := c.m.AtHalfEdge(h).Twin().End()
		if err != nil {
			return nil, err
		}
		in = append(in, t)
	}
	return in, nil
}

// HalfEdgeTo finds the outgoing halfedge from this vertex whose destination
// is other. Fails with a "no halfedge between two vertices" error if none.
func (c VertexCursor) HalfEdgeTo(other handle.Vertex) HalfEdgeCursor {
	outs, err := c.OutgoingHalfEdges()
	if err != nil {
		return HalfEdgeCursor{m: c.m, err: err}
	}
	for _, h := range outs {
		dst, err := c.m.AtHalfEdge(h).DstVertex()
		if err != nil {
			return HalfEdgeCursor{m: c.m, err: err}
		}
		if dst == other {
			return HalfEdgeCursor{m: c.m, h: h}
		}
	}
	return HalfEdgeCursor{m: c.m, err: newTraversalError("no halfedge between these two vertices", c.v)}
}

// AdjacentFaces lists the distinct faces touching this vertex.
func (c VertexCursor) AdjacentFaces() ([]handle.Face, error) {
	outs, err := c.OutgoingHalfEdges()
	if err != nil {
		return nil, err
	}
	seen := map[handle.Face]bool{}
	var out []handle.Face
	for _, h := range outs {
		f, has, err := c.m.AtHalfEdge(h).FaceOrBoundary()
		if err != nil {
			return nil, err
		}
		if has && !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}

// FaceCursor is a chainable traversal step starting from a face.
type FaceCursor struct {
	m   *Mesh
	f   handle.Face
	err error
}

// AtFace starts a traversal at face f.
func (m *Mesh) AtFace(f handle.Face) FaceCursor {
	return FaceCursor{m: m, f: f}
}

// End returns the face the cursor points at, or the first error.
func (c FaceCursor) End() (handle.Face, error) {
	if c.err != nil {
		return handle.Face{}, c.err
	}
	return c.f, nil
}

func (c FaceCursor) data() (*faceData, error) {
	if c.err != nil {
		return nil, c.err
	}
	d, ok := c.m.face(c.f)
	if !ok {
		return nil, newTraversalError("face does not exist", c.f)
	}
	return d, nil
}

// HalfEdge returns the face's boundary halfedge.
func (c FaceCursor) HalfEdge() HalfEdgeCursor {
	d, err := c.data()
	if err != nil {
		return HalfEdgeCursor{m: c.m, err: err}
	}
	if d.halfedge.IsNil() {
		return HalfEdgeCursor{m: c.m, err: newTraversalError("face has no halfedge", c.f)}
	}
	return HalfEdgeCursor{m: c.m, h: d.halfedge}
}

// HalfEdges walks the full face loop, bounded by MaxLoop.
func (c FaceCursor) HalfEdges() ([]handle.HalfEdge, error) {
	start, err := c.HalfEdge().End()
	if err != nil {
		return nil, err
	}
	out := []handle.HalfEdge{start}
	cur := start
	for i := 0; i < MaxLoop; i++ {
		nxt, err := c.m.AtHalfEdge(cur).Next().End()
		if err != nil {
			return nil, err
		}
		if nxt == start {
			return out, nil
		}
		out = append(out, nxt)
		cur = nxt
	}
	return nil, errBadLoop
}

// Vertices returns the source vertex of each halfedge in the face loop, in
// loop order.
func (c FaceCursor) Vertices() ([]handle.Vertex, error) {
	hs, err := c.HalfEdges()
	if err != nil {
		return nil, err
	}
	out := make([]handle.Vertex, len(hs))
	for i, h := range hs {
		v, err := c.m.AtHalfEdge(h).SrcVertex()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// HalfEdgeLoop returns the full next-cycle starting at h, whatever kind of
// loop it is (face loop or boundary loop), bounded by MaxLoop. Exposed for
// edit operations that must walk a boundary loop, which FaceCursor cannot
// do since it requires a face.
func (m *Mesh) HalfEdgeLoop(h handle.HalfEdge) ([]handle.HalfEdge, error) {
	out := []handle.HalfEdge{h}
	cur := h
	for i := 0; i < MaxLoop; i++ {
		nxt, err := m.AtHalfEdge(cur).Next().End()
		if err != nil {
			return nil, err
		}
		if nxt == h {
			return out, nil
		}
		out = append(out, nxt)
		cur = nxt
	}
	return nil, errBadLoop
}
