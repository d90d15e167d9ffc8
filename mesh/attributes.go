package mesh

import (
	"github.com/blackjack3d/blackjack/channel"
	"github.com/blackjack3d/blackjack/handle"
	"github.com/blackjack3d/blackjack/vmath"
)

// VertexAttributeTransfer copies channelName from src to dst, for each
// vertex of dst looking up its nearest vertex in src by position via a
// spatial index built once for the call (spec §4.B.3). This includes the
// position channel itself (per DESIGN.md's Open Question resolution): both
// src's and dst's positions are snapshotted into plain []Vec3 slices before
// either borrow is acquired, so the nearest-vertex lookup never needs a
// position read while channelName's own read/write borrow is held — the
// one aliasing hazard that would otherwise arise when channelName is
// "position" and the lookup reads the very values being overwritten.
func VertexAttributeTransfer[V channel.Value](src, dst *Mesh, channelName string) error {
	srcVerts := src.AllVertices()
	srcPositions := make([]vmath.Vec3, len(srcVerts))
	for i, v := range srcVerts {
		srcPositions[i] = src.Position(v)
	}
	tree := buildKDTree(srcPositions)

	dstVerts := dst.AllVertices()
	dstPositions := make([]vmath.Vec3, len(dstVerts))
	for i, v := range dstVerts {
		dstPositions[i] = dst.Position(v)
	}

	srcID, ok := channel.ChannelIdByName[handle.Vertex, V](src.Channels, channelName)
	if !ok {
		return newTopologyError("vertex_attribute_transfer: source channel %q not found", channelName)
	}
	r, err := channel.Read[handle.Vertex, V](src.Channels, srcID)
	if err != nil {
		return err
	}
	defer r.Release()

	dstID := channel.EnsureChannel[handle.Vertex, V](dst.Channels, channelName)
	w, err := channel.Write[handle.Vertex, V](dst.Channels, dstID)
	if err != nil {
		return err
	}
	defer w.Release()

	for i, dv := range dstVerts {
		j, found := tree.Nearest(dstPositions[i])
		if !found {
			continue
		}
		w.Set(dv, r.Get(srcVerts[j]))
	}
	return nil
}
