package mesh

import (
	"github.com/blackjack3d/blackjack/channel"
	"github.com/blackjack3d/blackjack/handle"
	"github.com/blackjack3d/blackjack/vmath"
)

// Clone returns a deep copy of m: independent arenas and an independent
// channel store with the same rows. Named per SPEC_FULL.md's clone-first
// convention for callers that need atomicity around a possibly-partial
// edit operation.
func (m *Mesh) Clone() (*Mesh, error) {
	out := NewMesh()
	out.SmoothNormals = m.SmoothNormals
	if err := out.Merge(m); err != nil {
		return nil, err
	}
	return out, nil
}

// Merge copy-imports all of b's connectivity and channels into m (spec
// §4.B.3). B's vertex/face/halfedge handles are remapped to freshly
// allocated m handles; every channel in b is located or created by name in
// m and its entries copied under the remapped keys. Holds m's connectivity
// write borrow and b's connectivity read borrow for the call (spec §5).
func (m *Mesh) Merge(b *Mesh) error {
	wg, err := m.WriteConnectivity()
	if err != nil {
		return err
	}
	defer wg.Release()
	rg, err := b.ReadConnectivity()
	if err != nil {
		return err
	}
	defer rg.Release()

	vmap := make(map[handle.Vertex]handle.Vertex, b.NumVertices())
	fmap := make(map[handle.Face]handle.Face, b.NumFaces())
	hmap := make(map[handle.HalfEdge]handle.HalfEdge, b.NumHalfEdges())

	for _, v := range b.AllVertices() {
		vmap[v] = m.allocVertex()
	}
	for _, f := range b.AllFaces() {
		fmap[f] = m.allocFace()
	}
	for _, h := range b.AllHalfEdges() {
		hmap[h] = m.allocHalfEdge()
	}

	for _, v := range b.AllVertices() {
		bd, _ := b.vertex(v)
		md, _ := m.vertex(vmap[v])
		if !bd.halfedge.IsNil() {
			md.halfedge = hmap[bd.halfedge]
		}
	}
	for _, f := range b.AllFaces() {
		bd, _ := b.face(f)
		md, _ := m.face(fmap[f])
		if !bd.halfedge.IsNil() {
			md.halfedge = hmap[bd.halfedge]
		}
	}
	for _, h := range b.AllHalfEdges() {
		bd, _ := b.halfedge(h)
		md, _ := m.halfedge(hmap[h])
		if !bd.twin.IsNil() {
			md.twin = hmap[bd.twin]
		}
		if !bd.next.IsNil() {
			md.next = hmap[bd.next]
		}
		md.vertex = vmap[bd.vertex]
		if !bd.face.IsNil() {
			md.face = fmap[bd.face]
		}
	}

	for _, info := range b.Channels.Introspect() {
		mergeChannel(m, b, info, vmap, fmap, hmap)
	}
	return nil
}

func mergeChannel(m, b *Mesh, info channel.ChannelInfo, vmap map[handle.Vertex]handle.Vertex, fmap map[handle.Face]handle.Face, hmap map[handle.HalfEdge]handle.HalfEdge) {
	switch info.ElementKind {
	case channel.KindVertex:
		switch info.ValueKind {
		case channel.ValueVec2:
			copyChannelVertex[vmath.Vec2](m, b, info.Name, vmap)
		case channel.ValueVec3:
			copyChannelVertex[vmath.Vec3](m, b, info.Name, vmap)
		case channel.ValueVec4:
			copyChannelVertex[vmath.Vec4](m, b, info.Name, vmap)
		case channel.ValueF32:
			copyChannelVertex[float32](m, b, info.Name, vmap)
		case channel.ValueBool:
			copyChannelVertex[bool](m, b, info.Name, vmap)
		}
	case channel.KindFace:
		switch info.ValueKind {
		case channel.ValueVec2:
			copyChannelFace[vmath.Vec2](m, b, info.Name, fmap)
		case channel.ValueVec3:
			copyChannelFace[vmath.Vec3](m, b, info.Name, fmap)
		case channel.ValueVec4:
			copyChannelFace[vmath.Vec4](m, b, info.Name, fmap)
		case channel.ValueF32:
			copyChannelFace[float32](m, b, info.Name, fmap)
		case channel.ValueBool:
			copyChannelFace[bool](m, b, info.Name, fmap)
		}
	case channel.KindHalfEdge:
		switch info.ValueKind {
		case channel.ValueVec2:
			copyChannelHalfEdge[vmath.Vec2](m, b, info.Name, hmap)
		case channel.ValueVec3:
			copyChannelHalfEdge[vmath.Vec3](m, b, info.Name, hmap)
		case channel.ValueVec4:
			copyChannelHalfEdge[vmath.Vec4](m, b, info.Name, hmap)
		case channel.ValueF32:
			copyChannelHalfEdge[float32](m, b, info.Name, hmap)
		case channel.ValueBool:
			copyChannelHalfEdge[bool](m, b, info.Name, hmap)
		}
	}
}

func copyChannelVertex[V channel.Value](m, b *Mesh, name string, vmap map[handle.Vertex]handle.Vertex) {
	srcID, ok := channel.ChannelIdByName[handle.Vertex, V](b.Channels, name)
	if !ok {
		return
	}
	r, err := channel.Read[handle.Vertex, V](b.Channels, srcID)
	if err != nil {
		return
	}
	defer r.Release()
	dstID := channel.EnsureChannel[handle.Vertex, V](m.Channels, name)
	w, err := channel.Write[handle.Vertex, V](m.Channels, dstID)
	if err != nil {
		return
	}
	defer w.Release()
	r.Each(func(k handle.Vertex, v V) {
		w.Set(vmap[k], v)
	})
}

func copyChannelFace[V channel.Value](m, b *Mesh, name string, fmap map[handle.Face]handle.Face) {
	srcID, ok := channel.ChannelIdByName[handle.Face, V](b.Channels, name)
	if !ok {
		return
	}
	r, err := channel.Read[handle.Face, V](b.Channels, srcID)
	if err != nil {
		return
	}
	defer r.Release()
	dstID := channel.EnsureChannel[handle.Face, V](m.Channels, name)
	w, err := channel.Write[handle.Face, V](m.Channels, dstID)
	if err != nil {
		return
	}
	defer w.Release()
	r.Each(func(k handle.Face, v V) {
		w.Set(fmap[k], v)
	})
}

func copyChannelHalfEdge[V channel.Value](m, b *Mesh, name string, hmap map[handle.HalfEdge]handle.HalfEdge) {
	srcID, ok := channel.ChannelIdByName[handle.HalfEdge, V](b.Channels, name)
	if !ok {
		return
	}
	r, err := channel.Read[handle.HalfEdge, V](b.Channels, srcID)
	if err != nil {
		return
	}
	defer r.Release()
	dstID := channel.EnsureChannel[handle.HalfEdge, V](m.Channels, name)
	w, err := channel.Write[handle.HalfEdge, V](m.Channels, dstID)
	if err != nil {
		return
	}
	defer w.Release()
	r.Each(func(k handle.HalfEdge, v V) {
		w.Set(hmap[k], v)
	})
}
