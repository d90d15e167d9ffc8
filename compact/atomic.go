// Blackjack
// Copyright (C) the blackjack contributors
//
// Licensed under the MIT license. See the LICENSE file in the repository
// root for the full license text.

package compact

import (
	"math"
	"sync/atomic"

	"github.com/blackjack3d/blackjack/vmath"
)

// atomicVec3 is a lock-free float32 accumulator, so the three position
// passes in Subdivide can scatter-add into it from multiple goroutines
// without a per-element mutex.
type atomicVec3 struct {
	x, y, z uint32
}

func addFloat32(addr *uint32, delta float32) {
	for {
		old := atomic.LoadUint32(addr)
		next := math.Float32bits(math.Float32frombits(old) + delta)
		if atomic.CompareAndSwapUint32(addr, old, next) {
			return
		}
	}
}

func (a *atomicVec3) add(v vmath.Vec3) {
	addFloat32(&a.x, v.X)
	addFloat32(&a.y, v.Y)
	addFloat32(&a.z, v.Z)
}

func (a *atomicVec3) store(v vmath.Vec3) {
	atomic.StoreUint32(&a.x, math.Float32bits(v.X))
	atomic.StoreUint32(&a.y, math.Float32bits(v.Y))
	atomic.StoreUint32(&a.z, math.Float32bits(v.Z))
}

func (a *atomicVec3) load() vmath.Vec3 {
	return vmath.Vec3{
		X: math.Float32frombits(atomic.LoadUint32(&a.x)),
		Y: math.Float32frombits(atomic.LoadUint32(&a.y)),
		Z: math.Float32frombits(atomic.LoadUint32(&a.z)),
	}
}
