package mesh

import (
	"github.com/blackjack3d/blackjack/channel"
	"github.com/blackjack3d/blackjack/handle"
	"github.com/blackjack3d/blackjack/vmath"
)

// TriangleBuffer is a plain, GPU-upload-ready triangle list: one position
// and normal per corner plus an identity index buffer (spec §4.B.6). The
// mesh only produces these arrays; GPU upload and draw-call assembly is a
// renderer's responsibility and out of scope here.
type TriangleBuffer struct {
	Positions []vmath.Vec3
	Normals   []vmath.Vec3
	Indices   []uint32
}

// LineBuffer is one line segment per (deduplicated) edge.
type LineBuffer struct {
	Positions []vmath.Vec3 // pairs: [2i], [2i+1] are one segment's endpoints
	Colors    []vmath.Vec4
}

// PointBuffer is one point per vertex.
type PointBuffer struct {
	Positions []vmath.Vec3
}

// TriangleBufferFlat triangulates each face by fan from its first vertex,
// emitting per-corner positions and the face's flat normal, with an
// identity index buffer (spec §4.B.6).
func (m *Mesh) TriangleBufferFlat() (TriangleBuffer, error) {
	if err := m.GenerateFlatNormalsChannel(); err != nil {
		return TriangleBuffer{}, err
	}
	faceID, _ := channel.ChannelIdByName[handle.Face, vmath.Vec3](m.Channels, ChannelFaceNormal)
	fr, err := channel.Read[handle.Face, vmath.Vec3](m.Channels, faceID)
	if err != nil {
		return TriangleBuffer{}, err
	}
	defer fr.Release()

	var out TriangleBuffer
	for _, f := range m.AllFaces() {
		verts, err := m.AtFace(f).Vertices()
		if err != nil || len(verts) < 3 {
			continue
		}
		n := fr.Get(f)
		for i := 1; i < len(verts)-1; i++ {
			tri := [3]handle.Vertex{verts[0], verts[i], verts[i+1]}
			for _, v := range tri {
				idx := uint32(len(out.Positions))
				out.Positions = append(out.Positions, m.Position(v))
				out.Normals = append(out.Normals, n)
				out.Indices = append(out.Indices, idx)
			}
		}
	}
	return out, nil
}

// TriangleBufferSmooth emits one vertex per VertexHandle with normals from
// vertex_normal (computed on demand if absent), with indices from fan
// triangulation (spec §4.B.6).
func (m *Mesh) TriangleBufferSmooth() (TriangleBuffer, error) {
	if _, ok := channel.ChannelIdByName[handle.Vertex, vmath.Vec3](m.Channels, ChannelVertexNormal); !ok {
		if err := m.GenerateSmoothNormalsChannel(); err != nil {
			return TriangleBuffer{}, err
		}
	}
	vnID, _ := channel.ChannelIdByName[handle.Vertex, vmath.Vec3](m.Channels, ChannelVertexNormal)
	vr, err := channel.Read[handle.Vertex, vmath.Vec3](m.Channels, vnID)
	if err != nil {
		return TriangleBuffer{}, err
	}
	defer vr.Release()

	verts := m.AllVertices()
	vertexSlot := make(map[handle.Vertex]uint32, len(verts))
	var out TriangleBuffer
	for i, v := range verts {
		vertexSlot[v] = uint32(i)
		out.Positions = append(out.Positions, m.Position(v))
		out.Normals = append(out.Normals, vr.Get(v))
	}

	for _, f := range m.AllFaces() {
		faceVerts, err := m.AtFace(f).Vertices()
		if err != nil || len(faceVerts) < 3 {
			continue
		}
		for i := 1; i < len(faceVerts)-1; i++ {
			out.Indices = append(out.Indices, vertexSlot[faceVerts[0]], vertexSlot[faceVerts[i]], vertexSlot[faceVerts[i+1]])
		}
	}
	return out, nil
}

// LineBufferAll emits one line per edge, deduplicating twins. Color comes
// from the halfedge_debug_color channel if present on either halfedge of
// the pair, or white by default (spec §4.B.6).
func (m *Mesh) LineBufferAll() LineBuffer {
	var debugR *channel.ReadGuard[handle.HalfEdge, vmath.Vec4]
	if id, ok := channel.ChannelIdByName[handle.HalfEdge, vmath.Vec4](m.Channels, ChannelHalfEdgeDebug); ok {
		if r, err := channel.Read[handle.HalfEdge, vmath.Vec4](m.Channels, id); err == nil {
			debugR = r
			defer r.Release()
		}
	}

	var out LineBuffer
	seen := map[handle.HalfEdge]bool{}
	for _, h := range m.AllHalfEdges() {
		if seen[h] {
			continue
		}
		hd, _ := m.halfedge(h)
		seen[h] = true
		if !hd.twin.IsNil() {
			seen[hd.twin] = true
		}
		src, err := m.AtHalfEdge(h).SrcVertex()
		if err != nil {
			continue
		}
		dst, err := m.AtHalfEdge(h).DstVertex()
		if err != nil {
			continue
		}
		out.Positions = append(out.Positions, m.Position(src), m.Position(dst))

		color := vmath.Vec4{X: 1, Y: 1, Z: 1, W: 1}
		if debugR != nil {
			if debugR.Has(h) {
				color = debugR.Get(h)
			} else if !hd.twin.IsNil() && debugR.Has(hd.twin) {
				color = debugR.Get(hd.twin)
			}
		}
		out.Colors = append(out.Colors, color, color)
	}
	return out
}

// HalfEdgeArrowBuffer emits one short arrow per halfedge, inset from the
// face centroid by a fraction of the edge length, with a small arrowhead
// toward dst (spec §4.B.6). Boundary halfedges (no face) are skipped since
// a centroid inset has no face to inset toward.
func (m *Mesh) HalfEdgeArrowBuffer(insetFraction, headFraction float32) (LineBuffer, error) {
	var out LineBuffer
	for _, f := range m.AllFaces() {
		verts, err := m.AtFace(f).Vertices()
		if err != nil || len(verts) == 0 {
			continue
		}
		var centroid vmath.Vec3
		for _, v := range verts {
			centroid = centroid.Add(m.Position(v))
		}
		centroid = centroid.Scale(1.0 / float32(len(verts)))

		hs, err := m.AtFace(f).HalfEdges()
		if err != nil {
			continue
		}
		for _, h := range hs {
			src, err := m.AtHalfEdge(h).SrcVertex()
			if err != nil {
				continue
			}
			dst, err := m.AtHalfEdge(h).DstVertex()
			if err != nil {
				continue
			}
			p0 := m.Position(src).Lerp(centroid, insetFraction)
			p1 := m.Position(dst).Lerp(centroid, insetFraction)
			out.Positions = append(out.Positions, p0, p1)
			color := vmath.Vec4{X: 1, Y: 1, Z: 0, W: 1}
			out.Colors = append(out.Colors, color, color)

			head := p0.Lerp(p1, 1-headFraction)
			out.Positions = append(out.Positions, head, p1)
			out.Colors = append(out.Colors, color, color)
		}
	}
	return out, nil
}

// PointBufferAll emits one point per vertex.
func (m *Mesh) PointBufferAll() PointBuffer {
	var out PointBuffer
	for _, v := range m.AllVertices() {
		out.Positions = append(out.Positions, m.Position(v))
	}
	return out
}
