package mesh

import (
	"github.com/blackjack3d/blackjack/channel"
	"github.com/blackjack3d/blackjack/handle"
	"github.com/blackjack3d/blackjack/vmath"
)

// DissolveEdge merges the two faces adjacent to h into one, keeping the
// left face (the one h belongs to) and removing h, its twin, and the
// right face (spec §4.B.3). Both h and its twin must have a face. Holds
// the mesh's connectivity write borrow for the call (spec §5).
func (m *Mesh) DissolveEdge(h handle.HalfEdge) error {
	g, err := m.WriteConnectivity()
	if err != nil {
		return err
	}
	defer g.Release()
	return m.dissolveEdge(h)
}

func (m *Mesh) dissolveEdge(h handle.HalfEdge) error {
	hd, ok := m.halfedge(h)
	if !ok {
		return newTopologyError("dissolve_edge: halfedge does not exist")
	}
	if hd.face.IsNil() {
		return newTopologyError("dissolve_edge: halfedge has no face")
	}
	t := hd.twin
	td, ok := m.halfedge(t)
	if !ok || td.face.IsNil() {
		return newTopologyError("dissolve_edge: twin has no face")
	}

	left := hd.face
	right := td.face

	hPrev, err := m.AtHalfEdge(h).Previous().End()
	if err != nil {
		return err
	}
	tPrev, err := m.AtHalfEdge(t).Previous().End()
	if err != nil {
		return err
	}

	hPrevData, _ := m.halfedge(hPrev)
	tPrevData, _ := m.halfedge(tPrev)
	hPrevData.next = td.next
	tPrevData.next = hd.next

	// Every halfedge that belonged to the right face now belongs to left.
	loop, err := m.AtFace(right).HalfEdges()
	if err != nil {
		return err
	}
	for _, e := range loop {
		ed, _ := m.halfedge(e)
		ed.face = left
	}

	leftData, _ := m.face(left)
	leftData.halfedge = hd.next

	srcV, _ := m.AtHalfEdge(h).SrcVertex()
	dstV, _ := m.AtHalfEdge(h).DstVertex()
	if sv, ok := m.vertex(srcV); ok && sv.halfedge == h {
		sv.halfedge = td.next
	}
	if dv, ok := m.vertex(dstV); ok && dv.halfedge == t {
		dv.halfedge = hd.next
	}

	m.removeHalfEdge(h)
	m.removeHalfEdge(t)
	m.removeFace(right)
	return nil
}

// DivideEdge splits h at parameter t (spec §4.B.3). The original halfedge
// h keeps its identity and, after the split, runs from the new vertex to
// its old destination; a newly allocated halfedge pair covers the other
// half. Returns the new vertex. Holds the mesh's connectivity write
// borrow for the call (spec §5).
func (m *Mesh) DivideEdge(h handle.HalfEdge, t float32) (handle.Vertex, error) {
	g, err := m.WriteConnectivity()
	if err != nil {
		return handle.Vertex{}, err
	}
	defer g.Release()
	return m.divideEdge(h, t)
}

func (m *Mesh) divideEdge(h handle.HalfEdge, t float32) (handle.Vertex, error) {
	hd, ok := m.halfedge(h)
	if !ok {
		return handle.Vertex{}, newTopologyError("divide_edge: halfedge does not exist")
	}
	twinH := hd.twin

	src, err := m.AtHalfEdge(h).SrcVertex()
	if err != nil {
		return handle.Vertex{}, err
	}
	dst, err := m.AtHalfEdge(h).DstVertex()
	if err != nil {
		return handle.Vertex{}, err
	}

	pSrc := m.Position(src)
	pDst := m.Position(dst)
	x := m.allocVertex()
	m.SetPosition(x, pSrc.Lerp(pDst, t))

	prevH, err := m.AtHalfEdge(h).Previous().End()
	if err != nil {
		return handle.Vertex{}, err
	}

	// newH completes the first half: src -> x, taking over h's old role
	// in the prev chain. h itself becomes x -> dst.
	newH := m.allocHalfEdge()
	newHd, _ := m.halfedge(newH)
	newHd.vertex = src
	newHd.face = hd.face
	newHd.next = h

	prevHd, _ := m.halfedge(prevH)
	prevHd.next = newH

	hd.vertex = x

	if xd, ok := m.vertex(x); ok {
		xd.halfedge = h
	}

	if !twinH.IsNil() {
		twinHd, _ := m.halfedge(twinH)
		// twin(h) ran dst -> src; it now runs dst -> x, and a new
		// halfedge newT covers x -> src, taking over twin(h)'s old
		// next-chain position.
		twinPrev, err := m.AtHalfEdge(twinH).Previous().End()
		if err != nil {
			return handle.Vertex{}, err
		}
		newT := m.allocHalfEdge()
		newTd, _ := m.halfedge(newT)
		newTd.vertex = x
		newTd.face = twinHd.face
		newTd.next = twinHd.next
		newTd.twin = newH

		twinPrevData, _ := m.halfedge(twinPrev)
		twinPrevData.next = newT

		twinHd.next = newT
		twinHd.twin = h
		hd.twin = twinH
		newHd.twin = newT

		if fd, ok := m.face(twinHd.face); ok && !twinHd.face.IsNil() && fd.halfedge == twinH {
			// unaffected, twinH keeps its identity
			_ = fd
		}
	}

	return x, nil
}

// CutFace inserts a new edge between v and w, which must share a face of
// at least 4 sides and not already share an edge, splitting that face into
// two (spec §4.B.3). The halfedge running v->w keeps the original face id.
// Holds the mesh's connectivity write borrow for the call (spec §5).
func (m *Mesh) CutFace(v, w handle.Vertex) error {
	g, err := m.WriteConnectivity()
	if err != nil {
		return err
	}
	defer g.Release()
	return m.cutFace(v, w)
}

func (m *Mesh) cutFace(v, w handle.Vertex) error {
	if _, err := m.AtVertex(v).HalfEdgeTo(w).End(); err == nil {
		return newTopologyError("cut_face: v and w already share an edge")
	}

	outsV, err := m.AtVertex(v).OutgoingHalfEdges()
	if err != nil {
		return err
	}
	outsW, err := m.AtVertex(w).OutgoingHalfEdges()
	if err != nil {
		return err
	}

	facesW := map[handle.Face]bool{}
	for _, h := range outsW {
		if f, has, _ := m.AtHalfEdge(h).FaceOrBoundary(); has {
			facesW[f] = true
		}
	}

	var sharedFace handle.Face
	var hAtV handle.HalfEdge
	found := false
	for _, h := range outsV {
		f, has, err := m.AtHalfEdge(h).FaceOrBoundary()
		if err != nil {
			return err
		}
		if has && facesW[f] {
			sharedFace = f
			hAtV = h
			found = true
			break
		}
	}
	if !found {
		return newTopologyError("cut_face: v and w do not share a face")
	}

	loop, err := m.AtFace(sharedFace).HalfEdges()
	if err != nil {
		return err
	}
	if len(loop) < 4 {
		return newTopologyError("cut_face: shared face has fewer than 4 edges")
	}

	vIdx, wIdx := -1, -1
	for i, e := range loop {
		ed, _ := m.halfedge(e)
		if ed.vertex == v {
			vIdx = i
		}
		if ed.vertex == w {
			wIdx = i
		}
	}
	if vIdx < 0 || wIdx < 0 {
		return newTopologyError("cut_face: v or w not on shared face loop")
	}
	_ = hAtV

	newFace := m.allocFace()
	vw := m.allocHalfEdge()
	wv := m.allocHalfEdge()
	vwData, _ := m.halfedge(vw)
	wvData, _ := m.halfedge(wv)
	vwData.vertex = v
	vwData.twin = wv
	vwData.face = sharedFace
	wvData.vertex = w
	wvData.twin = vw
	wvData.face = newFace

	// The halfedges from wIdx up to vIdx-1 (circularly) stay with the
	// original face and are now bounded by vw; the halfedges from vIdx up
	// to wIdx-1 move to the new face, bounded by wv.
	n := len(loop)
	prevBeforeV := loop[(vIdx-1+n)%n]
	prevBeforeW := loop[(wIdx-1+n)%n]

	pvData, _ := m.halfedge(prevBeforeV)
	pwData, _ := m.halfedge(prevBeforeW)
	pvData.next = vw
	pwData.next = wv
	vwData.next = loop[wIdx]
	wvData.next = loop[vIdx]

	for i := vIdx; i != wIdx; i = (i + 1) % n {
		ed, _ := m.halfedge(loop[i])
		ed.face = newFace
	}

	leftData, _ := m.face(sharedFace)
	leftData.halfedge = vw
	newFaceData, _ := m.face(newFace)
	newFaceData.halfedge = wv

	return nil
}

// DissolveVertex removes v by merging every face touching it into a single
// face (spec §4.B.3). Holds the mesh's connectivity write borrow for the
// call (spec §5).
func (m *Mesh) DissolveVertex(v handle.Vertex) (handle.Face, error) {
	g, err := m.WriteConnectivity()
	if err != nil {
		return handle.Face{}, err
	}
	defer g.Release()
	return m.dissolveVertex(v)
}

func (m *Mesh) dissolveVertex(v handle.Vertex) (handle.Face, error) {
	outs, err := m.AtVertex(v).OutgoingHalfEdges()
	if err != nil {
		return handle.Face{}, err
	}
	if len(outs) == 0 {
		return handle.Face{}, newTopologyError("dissolve_vertex: isolated vertex")
	}

	newFace := m.allocFace()

	var firstOuterPrev, firstOuterNext handle.HalfEdge
	var outerLoop []handle.HalfEdge

	for _, h := range outs {
		hd, _ := m.halfedge(h)
		t := hd.twin
		if t.IsNil() {
			return handle.Face{}, newTopologyError("dissolve_vertex: boundary vertex unsupported")
		}
		td, _ := m.halfedge(t)

		outerNext := hd.next
		outerPrev, err := m.AtHalfEdge(t).Previous().End()
		if err != nil {
			return handle.Face{}, err
		}
		opd, _ := m.halfedge(outerPrev)
		opd.next = outerNext

		if firstOuterNext.IsNil() {
			firstOuterPrev, firstOuterNext = outerPrev, outerNext
		}
		_ = td
	}

	cur := firstOuterNext
	for i := 0; i < MaxLoop; i++ {
		cd, _ := m.halfedge(cur)
		cd.face = newFace
		outerLoop = append(outerLoop, cur)
		if cur == firstOuterPrev {
			break
		}
		cur = cd.next
		if i == MaxLoop-1 {
			return handle.Face{}, errBadLoop
		}
	}

	newFaceData, _ := m.face(newFace)
	newFaceData.halfedge = firstOuterNext

	// Every vertex on the outer loop keeps at least one surviving
	// halfedge; repoint any vertex whose stored halfedge is about to be
	// removed to the outer halfedge leaving it instead.
	for _, e := range outerLoop {
		src, err := m.AtHalfEdge(e).SrcVertex()
		if err != nil {
			continue
		}
		if sv, ok := m.vertex(src); ok {
			sv.halfedge = e
		}
	}

	removedFaces := map[handle.Face]bool{}
	for _, h := range outs {
		hd, _ := m.halfedge(h)
		if !hd.face.IsNil() {
			removedFaces[hd.face] = true
		}
		t := hd.twin
		td, _ := m.halfedge(t)
		if !td.face.IsNil() {
			removedFaces[td.face] = true
		}
		m.removeHalfEdge(t)
		m.removeHalfEdge(h)
	}
	for f := range removedFaces {
		m.removeFace(f)
	}
	m.removeVertex(v)

	return newFace, nil
}

// ChamferVertex replaces v with a small ring face by dividing every
// outgoing edge at t and cutting faces between consecutive new vertices
// (spec §4.B.3). Returns the new face and the ring vertices in the same
// order as v's original outgoing halfedges. Holds the mesh's connectivity
// write borrow for the whole call, including the divide_edge/cut_face/
// dissolve_vertex steps it composes internally (spec §5).
func (m *Mesh) ChamferVertex(v handle.Vertex, t float32) (handle.Face, []handle.Vertex, error) {
	g, err := m.WriteConnectivity()
	if err != nil {
		return handle.Face{}, nil, err
	}
	defer g.Release()
	return m.chamferVertex(v, t)
}

func (m *Mesh) chamferVertex(v handle.Vertex, t float32) (handle.Face, []handle.Vertex, error) {
	outs, err := m.AtVertex(v).OutgoingHalfEdges()
	if err != nil {
		return handle.Face{}, nil, err
	}

	newVerts := make([]handle.Vertex, len(outs))
	for i, h := range outs {
		nv, err := m.divideEdge(h, t)
		if err != nil {
			return handle.Face{}, nil, err
		}
		newVerts[i] = nv
	}

	n := len(newVerts)
	for i := 0; i < n; i++ {
		a := newVerts[i]
		b := newVerts[(i+1)%n]
		if _, err := m.AtVertex(a).HalfEdgeTo(b).End(); err == nil {
			continue
		}
		if err := m.cutFace(a, b); err != nil {
			return handle.Face{}, nil, err
		}
	}

	newFace, err := m.dissolveVertex(v)
	if err != nil {
		return handle.Face{}, nil, err
	}

	return newFace, newVerts, nil
}

// DuplicateEdge creates a degenerate two-sided face (a digon) duplicating
// the edge h/twin(h); used as a bevel building block (spec §4.B.3). Holds
// the mesh's connectivity write borrow for the call (spec §5).
func (m *Mesh) DuplicateEdge(h handle.HalfEdge) error {
	g, err := m.WriteConnectivity()
	if err != nil {
		return err
	}
	defer g.Release()
	return m.duplicateEdge(h)
}

func (m *Mesh) duplicateEdge(h handle.HalfEdge) error {
	hd, ok := m.halfedge(h)
	if !ok {
		return newTopologyError("duplicate_edge: halfedge does not exist")
	}
	t := hd.twin
	if t.IsNil() {
		return newTopologyError("duplicate_edge: halfedge has no twin")
	}
	td, _ := m.halfedge(t)

	digon := m.allocFace()
	a := m.allocHalfEdge()
	b := m.allocHalfEdge()
	ad, _ := m.halfedge(a)
	bd, _ := m.halfedge(b)

	srcH, _ := m.AtHalfEdge(h).SrcVertex()
	srcT, _ := m.AtHalfEdge(t).SrcVertex()

	ad.vertex = srcT
	ad.twin = h
	ad.face = digon
	ad.next = b
	bd.vertex = srcH
	bd.twin = t
	bd.face = digon
	bd.next = a

	hd.twin = a
	td.twin = b

	digonData, _ := m.face(digon)
	digonData.halfedge = a

	return nil
}

// ErrCollapseWouldRemoveFace is the dedicated sentinel error for the
// CollapseEdge precondition described in DESIGN.md's Open Question
// resolution: collapses that would shrink one of the adjacent faces below
// a triangle are rejected rather than silently corrupting connectivity.
var ErrCollapseWouldRemoveFace = newTopologyError("collapse_edge: collapsing this edge would remove an adjacent triangular face")

// CollapseEdge merges dst(h) into src(h), removing h, its twin, and the
// destination vertex (spec §4.B.3). Holds the mesh's connectivity write
// borrow for the call (spec §5).
func (m *Mesh) CollapseEdge(h handle.HalfEdge) error {
	g, err := m.WriteConnectivity()
	if err != nil {
		return err
	}
	defer g.Release()
	return m.collapseEdge(h)
}

func (m *Mesh) collapseEdge(h handle.HalfEdge) error {
	hd, ok := m.halfedge(h)
	if !ok {
		return newTopologyError("collapse_edge: halfedge does not exist")
	}
	t := hd.twin
	if t.IsNil() {
		return newTopologyError("collapse_edge: boundary edges are not supported")
	}
	td, _ := m.halfedge(t)

	v, err := m.AtHalfEdge(h).SrcVertex()
	if err != nil {
		return err
	}
	w, err := m.AtHalfEdge(h).DstVertex()
	if err != nil {
		return err
	}

	if loop, err := m.AtHalfEdge(h).Face().HalfEdges(); err == nil && len(loop) <= 3 {
		return ErrCollapseWouldRemoveFace
	}
	if loop, err := m.AtHalfEdge(t).Face().HalfEdges(); err == nil && len(loop) <= 3 {
		return ErrCollapseWouldRemoveFace
	}

	outsW, err := m.AtVertex(w).OutgoingHalfEdges()
	if err != nil {
		return err
	}
	for _, e := range outsW {
		if e == h {
			continue
		}
		ed, _ := m.halfedge(e)
		ed.vertex = v
	}

	hPrev, err := m.AtHalfEdge(h).Previous().End()
	if err != nil {
		return err
	}
	tPrev, err := m.AtHalfEdge(t).Previous().End()
	if err != nil {
		return err
	}
	hPrevData, _ := m.halfedge(hPrev)
	tPrevData, _ := m.halfedge(tPrev)
	hPrevData.next = hd.next
	tPrevData.next = td.next

	if fd, ok := m.face(hd.face); ok && !hd.face.IsNil() && fd.halfedge == h {
		fd.halfedge = hd.next
	}
	if fd, ok := m.face(td.face); ok && !td.face.IsNil() && fd.halfedge == t {
		fd.halfedge = td.next
	}
	if vd, ok := m.vertex(v); ok && (vd.halfedge == h || vd.halfedge == t) {
		vd.halfedge = hd.next
	}

	m.removeHalfEdge(h)
	m.removeHalfEdge(t)
	m.removeVertex(w)
	return nil
}

// MakeQuad inserts a quad face through four vertices in order, reusing any
// existing arc between consecutive vertices (spec §4.B.3). Fails if a
// required inner arc already belongs to a face. Holds the mesh's
// connectivity write borrow for the call (spec §5).
func (m *Mesh) MakeQuad(v1, v2, v3, v4 handle.Vertex) (handle.Face, error) {
	g, err := m.WriteConnectivity()
	if err != nil {
		return handle.Face{}, err
	}
	defer g.Release()
	return m.makeQuad(v1, v2, v3, v4)
}

func (m *Mesh) makeQuad(v1, v2, v3, v4 handle.Vertex) (handle.Face, error) {
	verts := [4]handle.Vertex{v1, v2, v3, v4}
	loop := make([]handle.HalfEdge, 4)
	existed := make([]bool, 4)

	f := m.allocFace()

	for i := 0; i < 4; i++ {
		a := verts[i]
		b := verts[(i+1)%4]
		if h, err := m.AtVertex(a).HalfEdgeTo(b).End(); err == nil {
			hd, _ := m.halfedge(h)
			if !hd.face.IsNil() {
				m.removeFace(f)
				return handle.Face{}, newTopologyError("make_quad: edge %d already belongs to a face", i)
			}
			loop[i] = h
			existed[i] = true
		} else {
			h := m.allocHalfEdge()
			hd, _ := m.halfedge(h)
			hd.vertex = a
			loop[i] = h
			existed[i] = false
		}
	}

	for i := 0; i < 4; i++ {
		hd, _ := m.halfedge(loop[i])
		hd.face = f
		hd.next = loop[(i+1)%4]
	}

	// Wire twins for newly created halfedges: pair loop[i] (a->b) with a
	// fresh boundary-side halfedge b->a if one did not already exist as
	// part of this quad's own arcs.
	for i := 0; i < 4; i++ {
		if existed[i] {
			continue
		}
		a := verts[i]
		b := verts[(i+1)%4]
		if bt, err := m.AtVertex(b).HalfEdgeTo(a).End(); err == nil {
			hd, _ := m.halfedge(loop[i])
			hd.twin = bt
			btd, _ := m.halfedge(bt)
			btd.twin = loop[i]
		}
	}

	for i, a := range verts {
		if vd, ok := m.vertex(a); ok && vd.halfedge.IsNil() {
			vd.halfedge = loop[i]
		}
	}

	fd, _ := m.face(f)
	fd.halfedge = loop[0]

	if err := m.addBoundaryHalfEdges(); err != nil {
		return handle.Face{}, err
	}

	return f, nil
}

// Transform applies scale, then euler rotation, then translate to every
// position in the mesh: T * R * (S * p) (spec §4.B.3).
func (m *Mesh) Transform(translate vmath.Vec3, eulerRotate vmath.Vec3, scale vmath.Vec3) {
	w, err := channel.Write[handle.Vertex, vmath.Vec3](m.Channels, m.positionID)
	if err != nil {
		return
	}
	defer w.Release()
	for _, v := range m.AllVertices() {
		p := w.Get(v)
		p = vmath.Vec3{X: p.X * scale.X, Y: p.Y * scale.Y, Z: p.Z * scale.Z}
		p = p.RotateEuler(eulerRotate.X, eulerRotate.Y, eulerRotate.Z)
		p = p.Add(translate)
		w.Set(v, p)
	}
}

// AddVertex constructs an isolated vertex at p, for dev/debug scaffolding
// (spec §4.B.3).
func (m *Mesh) AddVertex(p vmath.Vec3) handle.Vertex {
	v := m.allocVertex()
	m.SetPosition(v, p)
	return v
}

// AddEdge constructs two isolated, mutually-twinned halfedges between a
// and b, for dev/debug scaffolding (spec §4.B.3).
func (m *Mesh) AddEdge(a, b handle.Vertex) (handle.HalfEdge, handle.HalfEdge) {
	h := m.allocHalfEdge()
	t := m.allocHalfEdge()
	hd, _ := m.halfedge(h)
	td, _ := m.halfedge(t)
	hd.vertex = a
	hd.twin = t
	hd.next = t
	td.vertex = b
	td.twin = h
	td.next = h
	if vd, ok := m.vertex(a); ok && vd.halfedge.IsNil() {
		vd.halfedge = h
	}
	if vd, ok := m.vertex(b); ok && vd.halfedge.IsNil() {
		vd.halfedge = t
	}
	return h, t
}

// PointCloud constructs a fresh mesh containing one isolated vertex per
// position in the selection, for dev/debug scaffolding (spec §4.B.3).
func (m *Mesh) PointCloud(vertices []handle.Vertex) *Mesh {
	out := NewMesh()
	for _, v := range vertices {
		out.AddVertex(m.Position(v))
	}
	return out
}

// MakeVertexGroup creates a boolean channel on vertices if none exists
// under name, and sets true for every vertex in the selection (spec
// §4.B.3). An existing channel is reused; entries outside the selection
// keep their values.
func (m *Mesh) MakeVertexGroup(name string, selection []handle.Vertex) error {
	id := channel.EnsureChannel[handle.Vertex, bool](m.Channels, name)
	w, err := channel.Write[handle.Vertex, bool](m.Channels, id)
	if err != nil {
		return err
	}
	defer w.Release()
	for _, v := range selection {
		w.Set(v, true)
	}
	return nil
}

// MakeFaceGroup creates a boolean channel on faces if none exists under
// name, and sets true for every face in the selection (spec §4.B.3). An
// existing channel is reused; entries outside the selection keep their
// values.
func (m *Mesh) MakeFaceGroup(name string, selection []handle.Face) error {
	id := channel.EnsureChannel[handle.Face, bool](m.Channels, name)
	w, err := channel.Write[handle.Face, bool](m.Channels, id)
	if err != nil {
		return err
	}
	defer w.Release()
	for _, f := range selection {
		w.Set(f, true)
	}
	return nil
}

// MakeHalfEdgeGroup creates a boolean channel on halfedges if none exists
// under name, and sets true for every halfedge in the selection (spec
// §4.B.3). An existing channel is reused; entries outside the selection
// keep their values.
func (m *Mesh) MakeHalfEdgeGroup(name string, selection []handle.HalfEdge) error {
	id := channel.EnsureChannel[handle.HalfEdge, bool](m.Channels, name)
	w, err := channel.Write[handle.HalfEdge, bool](m.Channels, id)
	if err != nil {
		return err
	}
	defer w.Release()
	for _, h := range selection {
		w.Set(h, true)
	}
	return nil
}
