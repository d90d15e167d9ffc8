// Blackjack
// Copyright (C) the blackjack contributors
//
// Licensed under the MIT license. See the LICENSE file in the repository
// root for the full license text.

// Package handle defines the generational-index handle types shared by the
// mesh, channel and compact packages. A handle names a slot in some arena
// together with the generation that slot held when the handle was minted, so
// that a handle to a removed element never compares equal to a handle for a
// slot that was later reused.
package handle

import "fmt"

// Vertex is a stable reference to a vertex in a HalfEdge mesh.
type Vertex struct {
	index      uint32
	generation uint32
}

// Face is a stable reference to a face in a HalfEdge mesh.
type Face struct {
	index      uint32
	generation uint32
}

// HalfEdge is a stable reference to a halfedge in a HalfEdge mesh.
type HalfEdge struct {
	index      uint32
	generation uint32
}

// Nil is the zero value shared by all three handle kinds; arenas never mint
// index 0 with generation 0 simultaneously so this never aliases a live
// element.

// NewVertex builds a Vertex handle from its raw parts. Used only by the
// arena that owns the slot.
func NewVertex(index, generation uint32) Vertex { return Vertex{index, generation} }

// NewFace builds a Face handle from its raw parts.
func NewFace(index, generation uint32) Face { return Face{index, generation} }

// NewHalfEdge builds a HalfEdge handle from its raw parts.
func NewHalfEdge(index, generation uint32) HalfEdge { return HalfEdge{index, generation} }

// Index returns the arena slot index, for use by packages that implement the
// arena itself (e.g. validating a handle against the current generation).
func (h Vertex) Index() uint32      { return h.index }
func (h Vertex) Generation() uint32 { return h.generation }
func (h Face) Index() uint32        { return h.index }
func (h Face) Generation() uint32   { return h.generation }
func (h HalfEdge) Index() uint32    { return h.index }
func (h HalfEdge) Generation() uint32 {
	return h.generation
}

func (h Vertex) IsNil() bool   { return h.generation == 0 }
func (h Face) IsNil() bool     { return h.generation == 0 }
func (h HalfEdge) IsNil() bool { return h.generation == 0 }

func (h Vertex) String() string   { return fmt.Sprintf("v%d#%d", h.index, h.generation) }
func (h Face) String() string     { return fmt.Sprintf("f%d#%d", h.index, h.generation) }
func (h HalfEdge) String() string { return fmt.Sprintf("h%d#%d", h.index, h.generation) }
