// Blackjack
// Copyright (C) the blackjack contributors
//
// Licensed under the MIT license. See the LICENSE file in the repository
// root for the full license text.

package compact

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/blackjack3d/blackjack/vmath"
)

// Subdivide performs one subdivision step (spec §4.C.2-§4.C.4). The
// connectivity rules are the same whether catmullClark is true (smoothed
// positions) or false (linear: face/edge midpoints, vertices unmoved); only
// updatePositions branches on the mode.
//
// Resulting counts: H'=4H, F'=H, V'=V+F+E, E'=2E+H.
func (c *Mesh) Subdivide(catmullClark bool) (*Mesh, error) {
	if c.H == 0 {
		return nil, newError("subdivide: mesh has no halfedges")
	}

	out := &Mesh{
		V:          c.V + c.F + c.E,
		F:          c.H,
		H:          4 * c.H,
		E:          2*c.E + c.H,
		Subdivided: true,
	}
	out.Twin = make([]int32, out.H)
	out.Vert = make([]int32, out.H)
	out.Edge = make([]int32, out.H)

	for h := 0; h < c.H; h++ {
		next := c.NextOf(h)
		prev := c.PrevOf(h)
		twin := int(c.Twin[h])

		if twin >= 0 {
			out.Twin[4*h+0] = int32(4*c.NextOf(twin) + 3)
		} else {
			out.Twin[4*h+0] = -1
		}
		out.Twin[4*h+1] = int32(4*next + 2)
		out.Twin[4*h+2] = int32(4*prev + 1)
		if tp := int(c.Twin[prev]); tp >= 0 {
			out.Twin[4*h+3] = int32(4 * tp)
		} else {
			out.Twin[4*h+3] = -1
		}

		out.Vert[4*h+0] = int32(c.Vert[h])
		out.Vert[4*h+1] = int32(c.V + c.F + int(c.Edge[h]))
		out.Vert[4*h+2] = int32(c.V + c.FaceOf(h))
		out.Vert[4*h+3] = int32(c.V + c.F + int(c.Edge[prev]))

		out.Edge[4*h+1] = int32(2*c.E + h)
		out.Edge[4*h+2] = int32(2*c.E + prev)
		out.Edge[4*h+0] = 2*c.Edge[h] + splitBit(c, h)
		out.Edge[4*h+3] = 2*c.Edge[prev] + 1 - splitBit(c, prev)
	}

	if err := out.updatePositions(c, catmullClark); err != nil {
		return nil, err
	}
	return out, nil
}

// SubdivideMulti applies Subdivide n times in sequence (spec §4.C.5).
func (c *Mesh) SubdivideMulti(n int, catmullClark bool) (*Mesh, error) {
	cur := c
	for i := 0; i < n; i++ {
		next, err := cur.Subdivide(catmullClark)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// splitBit picks which of an original edge's two new boundary-split ids
// (2*edge(h) or 2*edge(h)+1) the first half of h (4h+0) owns; the second
// half (4*next(h)+3) takes the other id. Since twin halfedges get opposite
// bits, 4h+0 and its new twin 4*next(twin(h))+3 agree on the same id.
func splitBit(c *Mesh, h int) int32 {
	t := int(c.Twin[h])
	if t < 0 || h < t {
		return 0
	}
	return 1
}

// updatePositions computes out's V'=V+F+E positions from orig via the
// three-pass face-point / edge-point / vertex-point update (spec §4.C.3),
// each pass parallelized across orig's H halfedges with an errgroup and
// scattered into lock-free atomicVec3 accumulators. Passes run in sequence
// because each depends on the previous one's output.
func (out *Mesh) updatePositions(orig *Mesh, catmullClark bool) error {
	facePoints := make([]atomicVec3, orig.F)
	edgePoints := make([]atomicVec3, orig.E)
	vertexPoints := make([]atomicVec3, orig.V)

	var loopLen []int32
	if !orig.Subdivided {
		// Subdivided meshes are all-quad; skip the counting pass and use
		// the constant 4 directly (spec §4.C.4).
		loopLen = make([]int32, orig.F)
		for h := 0; h < orig.H; h++ {
			loopLen[orig.FaceOf(h)]++
		}
	}

	valence := make([]int32, orig.V)
	boundary := make([]bool, orig.V)
	for h := 0; h < orig.H; h++ {
		valence[orig.Vert[h]]++
		if orig.Twin[h] < 0 {
			boundary[orig.Vert[h]] = true
			boundary[orig.Vert[orig.NextOf(h)]] = true
		}
	}

	ctx := context.Background()

	// Pass 1: face points.
	g, _ := errgroup.WithContext(ctx)
	runChunked(orig.H, g, func(lo, hi int) error {
		for h := lo; h < hi; h++ {
			f := orig.FaceOf(h)
			n := float32(4)
			if loopLen != nil {
				n = float32(loopLen[f])
			}
			facePoints[f].add(orig.Positions[orig.Vert[h]].Scale(1 / n))
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	// Pass 2: edge points.
	g, _ = errgroup.WithContext(ctx)
	runChunked(orig.H, g, func(lo, hi int) error {
		for h := lo; h < hi; h++ {
			e := orig.Edge[h]
			dst := orig.Positions[orig.Vert[orig.NextOf(h)]]
			src := orig.Positions[orig.Vert[h]]
			if orig.Twin[h] < 0 {
				// Boundary edge: only one halfedge owns this id, so store
				// the full midpoint in one shot.
				edgePoints[e].add(src.Add(dst).Scale(0.5))
				continue
			}
			if catmullClark {
				edgePoints[e].add(src.Add(facePoints[orig.FaceOf(h)].load()).Scale(0.25))
			} else {
				edgePoints[e].add(src.Add(dst).Scale(0.25))
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	// Pass 3: vertex points. Boundary vertices, and every vertex under
	// linear subdivision, keep their original position.
	g, _ = errgroup.WithContext(ctx)
	runChunked(orig.H, g, func(lo, hi int) error {
		for h := lo; h < hi; h++ {
			v := orig.Vert[h]
			if boundary[v] || !catmullClark {
				continue
			}
			n := float32(valence[v])
			contrib := edgePoints[orig.Edge[h]].load().Scale(4).
				Sub(facePoints[orig.FaceOf(h)].load()).
				Add(orig.Positions[v].Scale(n - 3)).
				Scale(1 / (n * n))
			vertexPoints[v].add(contrib)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	for v := 0; v < orig.V; v++ {
		if boundary[v] || !catmullClark {
			vertexPoints[v].store(orig.Positions[v])
		}
	}

	out.Positions = make([]vmath.Vec3, out.V)
	for v := 0; v < orig.V; v++ {
		out.Positions[v] = vertexPoints[v].load()
	}
	for f := 0; f < orig.F; f++ {
		out.Positions[orig.V+f] = facePoints[f].load()
	}
	for e := 0; e < orig.E; e++ {
		out.Positions[orig.V+orig.F+e] = edgePoints[e].load()
	}
	return nil
}

// runChunked splits [0,n) into roughly NumCPU contiguous ranges and runs fn
// over each inside the errgroup.
func runChunked(n int, g *errgroup.Group, fn func(lo, hi int) error) {
	if n == 0 {
		return
	}
	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers
	for lo := 0; lo < n; lo += chunk {
		lo, hi := lo, lo+chunk
		if hi > n {
			hi = n
		}
		g.Go(func() error { return fn(lo, hi) })
	}
}
