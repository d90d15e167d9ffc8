// Blackjack
// Copyright (C) the blackjack contributors
//
// Licensed under the MIT license. See the LICENSE file in the repository
// root for the full license text.

// Package vmath provides the small vector types used throughout the mesh
// and compact packages as channel value types: Vec2, Vec3, Vec4.
package vmath

import "math"

// Vec2 is a 2-component float32 vector, e.g. a UV coordinate.
type Vec2 struct {
	X, Y float32
}

// Vec3 is a 3-component float32 vector, e.g. a position or normal.
type Vec3 struct {
	X, Y, Z float32
}

// Vec4 is a 4-component float32 vector, e.g. a debug color.
type Vec4 struct {
	X, Y, Z, W float32
}

func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Scale(s float32) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }
func (a Vec3) Dot(b Vec3) float32   { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func (a Vec3) LengthSquared() float32 { return a.Dot(a) }

func (a Vec3) Length() float32 { return float32(math.Sqrt(float64(a.LengthSquared()))) }

// Normalize returns a unit vector pointing the same direction as a, or the
// zero vector if a is (near) zero-length.
func (a Vec3) Normalize() Vec3 {
	l := a.Length()
	if l < 1e-12 {
		return Vec3{}
	}
	return a.Scale(1 / l)
}

func (a Vec3) DistanceSquared(b Vec3) float32 { return a.Sub(b).LengthSquared() }
func (a Vec3) Distance(b Vec3) float32        { return a.Sub(b).Length() }

// Lerp linearly interpolates between a and b by t in [0,1] (not clamped).
func (a Vec3) Lerp(b Vec3, t float32) Vec3 {
	return Vec3{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
	}
}

// RotateEuler rotates a by XYZ Euler angles, given in radians, applying X
// then Y then Z, matching the teacher-independent convention used by the
// original engine's `transform` operation.
func (a Vec3) RotateEuler(rx, ry, rz float32) Vec3 {
	v := a
	// rotate around X
	cx, sx := float32(math.Cos(float64(rx))), float32(math.Sin(float64(rx)))
	v = Vec3{v.X, v.Y*cx - v.Z*sx, v.Y*sx + v.Z*cx}
	// rotate around Y
	cy, sy := float32(math.Cos(float64(ry))), float32(math.Sin(float64(ry)))
	v = Vec3{v.X*cy + v.Z*sy, v.Y, -v.X*sy + v.Z*cy}
	// rotate around Z
	cz, sz := float32(math.Cos(float64(rz))), float32(math.Sin(float64(rz)))
	v = Vec3{v.X*cz - v.Y*sz, v.X*sz + v.Y*cz, v.Z}
	return v
}

var Zero = Vec3{}

func (a Vec2) Add(b Vec2) Vec2      { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Scale(s float32) Vec2 { return Vec2{a.X * s, a.Y * s} }
