// Blackjack
// Copyright (C) the blackjack contributors
//
// Licensed under the MIT license. See the LICENSE file in the repository
// root for the full license text.

package mesh

import "github.com/blackjack3d/blackjack/vmath"

// NewBox builds an axis-aligned cube of the given edge length centered at
// the origin (spec §8 scenario 1: size 2 yields corners at (±1, ±1, ±1)).
// Its six quad faces are wound the same way a polygon-soup import would
// produce them, so it is built through the same NewFromPolygonSoup path
// every other mesh construction route uses.
func NewBox(size float32) (*Mesh, error) {
	h := size / 2
	positions := []vmath.Vec3{
		{X: -h, Y: -h, Z: -h}, {X: h, Y: -h, Z: -h}, {X: h, Y: h, Z: -h}, {X: -h, Y: h, Z: -h},
		{X: -h, Y: -h, Z: h}, {X: h, Y: -h, Z: h}, {X: h, Y: h, Z: h}, {X: -h, Y: h, Z: h},
	}
	polygons := [][]int{
		{0, 1, 2, 3}, // -Z
		{5, 4, 7, 6}, // +Z
		{4, 0, 3, 7}, // -X
		{1, 5, 6, 2}, // +X
		{3, 2, 6, 7}, // +Y
		{4, 5, 1, 0}, // -Y
	}
	return NewFromPolygonSoup(positions, polygons)
}

// NewQuad builds a single planar quad face spanning the given corners in
// winding order, the same four-vertex shape DivideEdge/MakeQuad operate on.
func NewQuad(a, b, c, d vmath.Vec3) (*Mesh, error) {
	return NewFromPolygonSoup([]vmath.Vec3{a, b, c, d}, [][]int{{0, 1, 2, 3}})
}
