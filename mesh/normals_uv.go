package mesh

import (
	"math"

	"github.com/blackjack3d/blackjack/channel"
	"github.com/blackjack3d/blackjack/handle"
	"github.com/blackjack3d/blackjack/vmath"
)

// GenerateFlatNormalsChannel writes a per-face normal to face_normal,
// computed as the normalized cross-product of two edge vectors of the
// face's first triangle; zero for degenerate faces (spec §4.B.4). Leaves
// SmoothNormals false.
func (m *Mesh) GenerateFlatNormalsChannel() error {
	id := channel.EnsureChannel[handle.Face, vmath.Vec3](m.Channels, ChannelFaceNormal)
	w, err := channel.Write[handle.Face, vmath.Vec3](m.Channels, id)
	if err != nil {
		return err
	}
	defer w.Release()

	for _, f := range m.AllFaces() {
		verts, err := m.AtFace(f).Vertices()
		if err != nil || len(verts) < 3 {
			w.Set(f, vmath.Vec3{})
			continue
		}
		p0 := m.Position(verts[0])
		p1 := m.Position(verts[1])
		p2 := m.Position(verts[2])
		n := p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
		w.Set(f, n)
	}
	m.SmoothNormals = false
	return nil
}

// GenerateSmoothNormalsChannel writes a per-vertex normal to
// vertex_normal, the normalized sum of the normals of adjacent faces (spec
// §4.B.4). face_normal is always recomputed here first. Sets SmoothNormals
// true.
func (m *Mesh) GenerateSmoothNormalsChannel() error {
	if err := m.GenerateFlatNormalsChannel(); err != nil {
		return err
	}
	faceID, _ := channel.ChannelIdByName[handle.Face, vmath.Vec3](m.Channels, ChannelFaceNormal)
	fr, err := channel.Read[handle.Face, vmath.Vec3](m.Channels, faceID)
	if err != nil {
		return err
	}
	defer fr.Release()

	id := channel.EnsureChannel[handle.Vertex, vmath.Vec3](m.Channels, ChannelVertexNormal)
	w, err := channel.Write[handle.Vertex, vmath.Vec3](m.Channels, id)
	if err != nil {
		return err
	}
	defer w.Release()

	for _, v := range m.AllVertices() {
		faces, err := m.AtVertex(v).AdjacentFaces()
		if err != nil {
			continue
		}
		var sum vmath.Vec3
		for _, f := range faces {
			sum = sum.Add(fr.Get(f))
		}
		w.Set(v, sum.Normalize())
	}
	m.SmoothNormals = true
	return nil
}

// GenerateFullRangeUVsChannel writes a per-corner UV to uvs (HalfEdgeHandle
// -> Vec3, z unused) spanning [0,1]^2 per face: triangles get three
// canonical corners, quads the four unit-square corners in order, and
// n-gons (n>=5) points evenly distributed on a circle of radius 0.5
// centered at (0.5, 0.5) (spec §4.B.4).
func (m *Mesh) GenerateFullRangeUVsChannel() error {
	id := channel.EnsureChannel[handle.HalfEdge, vmath.Vec3](m.Channels, ChannelUV)
	w, err := channel.Write[handle.HalfEdge, vmath.Vec3](m.Channels, id)
	if err != nil {
		return err
	}
	defer w.Release()

	for _, f := range m.AllFaces() {
		hs, err := m.AtFace(f).HalfEdges()
		if err != nil {
			continue
		}
		n := len(hs)
		switch {
		case n == 3:
			corners := [3]vmath.Vec3{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0.5, Y: 1}}
			for i, h := range hs {
				w.Set(h, corners[i])
			}
		case n == 4:
			corners := [4]vmath.Vec3{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
			for i, h := range hs {
				w.Set(h, corners[i])
			}
		default:
			for i, h := range hs {
				theta := 2 * math.Pi * float64(i) / float64(n)
				u := 0.5 + 0.5*math.Cos(theta)
				v := 0.5 + 0.5*math.Sin(theta)
				w.Set(h, vmath.Vec3{X: float32(u), Y: float32(v)})
			}
		}
	}
	return nil
}
