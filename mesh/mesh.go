// Blackjack
// Copyright (C) the blackjack contributors
//
// Licensed under the MIT license. See the LICENSE file in the repository
// root for the full license text.

// Package mesh implements the HalfEdge mesh data structure (spec Component
// B): connectivity arenas keyed by generational handles, a traversal
// algebra over them, and the topological edit operations (bevel, chamfer,
// extrude, collapse, cut_face, bridge_loops, make_quad, transform, merge,
// ...) that must preserve manifold invariants on every successful return.
//
// The algorithmic shape of the edit operations is grounded on the original
// Rust engine's mesh/halfedge/edit_ops.rs (see DESIGN.md); the package
// layout and error-handling idiom (explicit error returns wrapped through
// util/errwrap) follows the teacher repository's conventions.
package mesh

import (
	"sync"

	"github.com/blackjack3d/blackjack/channel"
	"github.com/blackjack3d/blackjack/handle"
	"github.com/blackjack3d/blackjack/util/errwrap"
	"github.com/blackjack3d/blackjack/vmath"
)

// MaxLoop bounds every traversal loop; exceeding it means the connectivity
// is corrupt (spec §3.2).
const MaxLoop = 512

const (
	ChannelPosition      = "position"
	ChannelFaceNormal    = "face_normal"
	ChannelVertexNormal  = "vertex_normal"
	ChannelUV            = "uvs"
	ChannelHalfEdgeDebug = "halfedge_debug_color"
)

type vertexData struct {
	halfedge handle.HalfEdge // optional: IsNil() when absent
}

type faceData struct {
	halfedge handle.HalfEdge // optional
}

type halfedgeData struct {
	twin   handle.HalfEdge // optional
	next   handle.HalfEdge // always set once construction/edit completes
	vertex handle.Vertex   // source vertex, always set
	face   handle.Face     // optional: IsNil() means boundary halfedge
}

// Mesh is a HalfEdge connectivity store plus its default attribute
// channels (spec §3.2-§3.3). The zero value is not usable; use NewMesh.
type Mesh struct {
	vertices  handle.Arena[vertexData]
	faces     handle.Arena[faceData]
	halfedges handle.Arena[halfedgeData]

	// connMu guards the arenas above the same way a channel's own mutex
	// guards its map (spec §5): any number of concurrent read borrows, or
	// exactly one write borrow. Edit operations hold the write borrow for
	// their full duration; ReadConnectivity/WriteConnectivity are the
	// external-facing API named by the spec.
	connMu sync.RWMutex

	Channels *channel.Store

	positionID channel.ChannelId

	// SmoothNormals instructs downstream consumers (render buffer
	// generators) to read vertex_normal instead of face_normal, per
	// spec §4.B.4.
	SmoothNormals bool
}

// NewMesh returns an empty mesh with its default position channel created.
func NewMesh() *Mesh {
	m := &Mesh{
		Channels: channel.NewStore(),
	}
	m.positionID = channel.EnsureChannel[handle.Vertex, vmath.Vec3](m.Channels, ChannelPosition)
	return m
}

// PositionChannel returns the channel id of the always-present position
// channel (VertexHandle -> Vec3).
func (m *Mesh) PositionChannel() channel.ChannelId { return m.positionID }

// Position returns the position of a vertex, or the zero vector if the
// vertex has no explicit entry (shouldn't happen for live vertices created
// through this package's own constructors).
func (m *Mesh) Position(v handle.Vertex) vmath.Vec3 {
	r, err := channel.Read[handle.Vertex, vmath.Vec3](m.Channels, m.positionID)
	if err != nil {
		return vmath.Vec3{}
	}
	defer r.Release()
	return r.Get(v)
}

// SetPosition writes the position of a vertex.
func (m *Mesh) SetPosition(v handle.Vertex, p vmath.Vec3) {
	w, err := channel.Write[handle.Vertex, vmath.Vec3](m.Channels, m.positionID)
	if err != nil {
		return
	}
	defer w.Release()
	w.Set(v, p)
}

// ConnectivityReadGuard holds a shared borrow of the mesh's connectivity
// store, mirroring channel.ReadGuard.
type ConnectivityReadGuard struct{ m *Mesh }

// Release gives up the shared borrow.
func (g *ConnectivityReadGuard) Release() { g.m.connMu.RUnlock() }

// ConnectivityWriteGuard holds the exclusive borrow of the mesh's
// connectivity store, mirroring channel.WriteGuard.
type ConnectivityWriteGuard struct{ m *Mesh }

// Release gives up the exclusive borrow.
func (g *ConnectivityWriteGuard) Release() { g.m.connMu.Unlock() }

// ReadConnectivity acquires a shared borrow on the mesh's vertex/face/
// halfedge arenas, returning channel.ErrBorrowConflict rather than
// blocking if an edit operation currently holds the write borrow (spec
// §5's read_connectivity()).
func (m *Mesh) ReadConnectivity() (*ConnectivityReadGuard, error) {
	if !m.connMu.TryRLock() {
		return nil, errwrap.Wrapf(channel.ErrBorrowConflict, "read connectivity")
	}
	return &ConnectivityReadGuard{m: m}, nil
}

// WriteConnectivity acquires the exclusive borrow every edit operation
// needs before mutating the arenas, returning channel.ErrBorrowConflict
// rather than blocking if another read or write borrow is outstanding
// (spec §5's write_connectivity()).
func (m *Mesh) WriteConnectivity() (*ConnectivityWriteGuard, error) {
	if !m.connMu.TryLock() {
		return nil, errwrap.Wrapf(channel.ErrBorrowConflict, "write connectivity")
	}
	return &ConnectivityWriteGuard{m: m}, nil
}

// NumVertices, NumFaces and NumHalfEdges report live element counts.
func (m *Mesh) NumVertices() int  { return m.vertices.Len() }
func (m *Mesh) NumFaces() int     { return m.faces.Len() }
func (m *Mesh) NumHalfEdges() int { return m.halfedges.Len() }

// allocVertex creates a new vertex with no outgoing halfedge set yet.
func (m *Mesh) allocVertex() handle.Vertex {
	idx, gen := m.vertices.Alloc(vertexData{})
	return handle.NewVertex(idx, gen)
}

// allocFace creates a new face with no boundary halfedge set yet.
func (m *Mesh) allocFace() handle.Face {
	idx, gen := m.faces.Alloc(faceData{})
	return handle.NewFace(idx, gen)
}

// allocHalfEdge creates a new, fully unset halfedge.
func (m *Mesh) allocHalfEdge() handle.HalfEdge {
	idx, gen := m.halfedges.Alloc(halfedgeData{})
	return handle.NewHalfEdge(idx, gen)
}

func (m *Mesh) vertex(v handle.Vertex) (*vertexData, bool) {
	return m.vertices.Get(v.Index(), v.Generation())
}

func (m *Mesh) face(f handle.Face) (*faceData, bool) {
	return m.faces.Get(f.Index(), f.Generation())
}

func (m *Mesh) halfedge(h handle.HalfEdge) (*halfedgeData, bool) {
	return m.halfedges.Get(h.Index(), h.Generation())
}

// removeVertex, removeFace and removeHalfEdge kill an arena slot and strip
// the element's rows from every channel keyed by that element type, per
// spec §4.A ("removing an element from the mesh should remove its rows
// from all channels during the mesh's own element-removal path").
func (m *Mesh) removeVertex(v handle.Vertex) {
	m.vertices.Remove(v.Index(), v.Generation())
	for _, info := range m.Channels.Introspect() {
		if info.ElementKind != channel.KindVertex {
			continue
		}
		deleteVertexKey(m.Channels, info, v)
	}
}

func (m *Mesh) removeFace(f handle.Face) {
	m.faces.Remove(f.Index(), f.Generation())
	for _, info := range m.Channels.Introspect() {
		if info.ElementKind != channel.KindFace {
			continue
		}
		deleteFaceKey(m.Channels, info, f)
	}
}

func (m *Mesh) removeHalfEdge(h handle.HalfEdge) {
	m.halfedges.Remove(h.Index(), h.Generation())
	for _, info := range m.Channels.Introspect() {
		if info.ElementKind != channel.KindHalfEdge {
			continue
		}
		deleteHalfEdgeKey(m.Channels, info, h)
	}
}

func deleteVertexKey(s *channel.Store, info channel.ChannelInfo, key handle.Vertex) {
	switch info.ValueKind {
	case channel.ValueVec2:
		channel.DeleteKey[handle.Vertex, vmath.Vec2](s, info.ID, key)
	case channel.ValueVec3:
		channel.DeleteKey[handle.Vertex, vmath.Vec3](s, info.ID, key)
	case channel.ValueVec4:
		channel.DeleteKey[handle.Vertex, vmath.Vec4](s, info.ID, key)
	case channel.ValueF32:
		channel.DeleteKey[handle.Vertex, float32](s, info.ID, key)
	case channel.ValueBool:
		channel.DeleteKey[handle.Vertex, bool](s, info.ID, key)
	}
}

func deleteFaceKey(s *channel.Store, info channel.ChannelInfo, key handle.Face) {
	switch info.ValueKind {
	case channel.ValueVec2:
		channel.DeleteKey[handle.Face, vmath.Vec2](s, info.ID, key)
	case channel.ValueVec3:
		channel.DeleteKey[handle.Face, vmath.Vec3](s, info.ID, key)
	case channel.ValueVec4:
		channel.DeleteKey[handle.Face, vmath.Vec4](s, info.ID, key)
	case channel.ValueF32:
		channel.DeleteKey[handle.Face, float32](s, info.ID, key)
	case channel.ValueBool:
		channel.DeleteKey[handle.Face, bool](s, info.ID, key)
	}
}

func deleteHalfEdgeKey(s *channel.Store, info channel.ChannelInfo, key handle.HalfEdge) {
	switch info.ValueKind {
	case channel.ValueVec2:
		channel.DeleteKey[handle.HalfEdge, vmath.Vec2](s, info.ID, key)
	case channel.ValueVec3:
		channel.DeleteKey[handle.HalfEdge, vmath.Vec3](s, info.ID, key)
	case channel.ValueVec4:
		channel.DeleteKey[handle.HalfEdge, vmath.Vec4](s, info.ID, key)
	case channel.ValueF32:
		channel.DeleteKey[handle.HalfEdge, float32](s, info.ID, key)
	case channel.ValueBool:
		channel.DeleteKey[handle.HalfEdge, bool](s, info.ID, key)
	}
}

// AllVertices, AllFaces and AllHalfEdges return every live handle, in arena
// (allocation) order — the order the selection grammar's numeric
// fragments index into (spec §4.B.5).
func (m *Mesh) AllVertices() []handle.Vertex {
	out := make([]handle.Vertex, 0, m.vertices.Len())
	m.vertices.Each(func(idx, gen uint32, _ *vertexData) {
		out = append(out, handle.NewVertex(idx, gen))
	})
	return out
}

func (m *Mesh) AllFaces() []handle.Face {
	out := make([]handle.Face, 0, m.faces.Len())
	m.faces.Each(func(idx, gen uint32, _ *faceData) {
		out = append(out, handle.NewFace(idx, gen))
	})
	return out
}

func (m *Mesh) AllHalfEdges() []handle.HalfEdge {
	out := make([]handle.HalfEdge, 0, m.halfedges.Len())
	m.halfedges.Each(func(idx, gen uint32, _ *halfedgeData) {
		out = append(out, handle.NewHalfEdge(idx, gen))
	})
	return out
}
