// Blackjack
// Copyright (C) the blackjack contributors
//
// Licensed under the MIT license. See the LICENSE file in the repository
// root for the full license text.

package opset

import (
	"fmt"

	"github.com/blackjack3d/blackjack/compact"
	"github.com/blackjack3d/blackjack/mesh"
	"github.com/blackjack3d/blackjack/vmath"
)

// asMesh and asVector centralize the Params type assertions every node body
// below needs, so a bad wire gives one consistent error shape instead of a
// panic deep inside a node's Op.
func asMesh(p Params, name string) (*mesh.Mesh, error) {
	v, ok := p[name]
	if !ok {
		return nil, fmt.Errorf("opset: missing mesh input %q", name)
	}
	m, ok := v.(*mesh.Mesh)
	if !ok {
		return nil, fmt.Errorf("opset: input %q is not a mesh (got %T)", name, v)
	}
	return m, nil
}

func asVector(p Params, name string) (vmath.Vec3, error) {
	v, ok := p[name]
	if !ok {
		return vmath.Vec3{}, fmt.Errorf("opset: missing vector input %q", name)
	}
	vec, ok := v.(vmath.Vec3)
	if !ok {
		return vmath.Vec3{}, fmt.Errorf("opset: input %q is not a vector (got %T)", name, v)
	}
	return vec, nil
}

func asScalar(p Params, name string) (float32, error) {
	v, ok := p[name]
	if !ok {
		return 0, fmt.Errorf("opset: missing scalar input %q", name)
	}
	switch n := v.(type) {
	case float32:
		return n, nil
	case float64:
		return float32(n), nil
	case int:
		return float32(n), nil
	default:
		return 0, fmt.Errorf("opset: input %q is not a scalar (got %T)", name, v)
	}
}

func asString(p Params, name string) (string, error) {
	v, ok := p[name]
	if !ok {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("opset: input %q is not a string (got %T)", name, v)
	}
	return s, nil
}

// TranslateGizmoState is Translate's gizmo payload: the world-space handle
// position shown on screen, mirrored from (and, while being dragged, fed
// back into) the node's "amount" input.
type TranslateGizmoState struct {
	Position vmath.Vec3
}

func init() {
	Register("Box", NodeDef{
		Op: func(p Params) (Params, error) {
			size, err := asScalar(p, "size")
			if err != nil {
				return nil, err
			}
			m, err := mesh.NewBox(size)
			if err != nil {
				return nil, fmt.Errorf("opset Box: %w", err)
			}
			return Params{"out_mesh": m}, nil
		},
	})

	Register("MakeQuad", NodeDef{
		Op: func(p Params) (Params, error) {
			corners := make([]vmath.Vec3, 4)
			for i, name := range []string{"p1", "p2", "p3", "p4"} {
				v, err := asVector(p, name)
				if err != nil {
					return nil, err
				}
				corners[i] = v
			}
			m, err := mesh.NewQuad(corners[0], corners[1], corners[2], corners[3])
			if err != nil {
				return nil, fmt.Errorf("opset MakeQuad: %w", err)
			}
			return Params{"out_mesh": m}, nil
		},
	})

	// Translate clones its input before transforming it: Mesh.Transform
	// mutates in place, and the interpreter's output cache may hand this
	// same *mesh.Mesh value to more than one downstream node.
	//
	// It carries a position gizmo (spec §3.6, original_source gizmos.rs's
	// translate gizmo): while active and being dragged, the gizmo's
	// on-screen handle position overrides "amount" before Op runs, and
	// after Op runs the gizmo's state is re-derived from whatever
	// "amount" actually resolved to, so it renders in the right place next
	// time even if "amount" came from a connection or computed expression
	// rather than the gizmo itself.
	Register("Translate", NodeDef{
		HasGizmo: true,
		UpdateParams: func(p Params, state GizmoState) Params {
			ts, ok := state.(TranslateGizmoState)
			if !ok {
				return p
			}
			patched := make(Params, len(p))
			for k, v := range p {
				patched[k] = v
			}
			patched["amount"] = ts.Position
			return patched
		},
		UpdateGizmos: func(in, out Params) GizmoState {
			amount, err := asVector(in, "amount")
			if err != nil {
				return TranslateGizmoState{}
			}
			return TranslateGizmoState{Position: amount}
		},
		Op: func(p Params) (Params, error) {
			m, err := asMesh(p, "mesh")
			if err != nil {
				return nil, err
			}
			amount, err := asVector(p, "amount")
			if err != nil {
				return nil, err
			}
			out, err := m.Clone()
			if err != nil {
				return nil, fmt.Errorf("opset Translate: %w", err)
			}
			out.Transform(amount, vmath.Zero, vmath.Vec3{X: 1, Y: 1, Z: 1})
			return Params{"out_mesh": out}, nil
		},
	})

	Register("Rotate", NodeDef{
		Op: func(p Params) (Params, error) {
			m, err := asMesh(p, "mesh")
			if err != nil {
				return nil, err
			}
			euler, err := asVector(p, "euler")
			if err != nil {
				return nil, err
			}
			out, err := m.Clone()
			if err != nil {
				return nil, fmt.Errorf("opset Rotate: %w", err)
			}
			out.Transform(vmath.Zero, euler, vmath.Vec3{X: 1, Y: 1, Z: 1})
			return Params{"out_mesh": out}, nil
		},
	})

	Register("Scale", NodeDef{
		Op: func(p Params) (Params, error) {
			m, err := asMesh(p, "mesh")
			if err != nil {
				return nil, err
			}
			factor, err := asVector(p, "factor")
			if err != nil {
				return nil, err
			}
			out, err := m.Clone()
			if err != nil {
				return nil, fmt.Errorf("opset Scale: %w", err)
			}
			out.Transform(vmath.Zero, vmath.Zero, factor)
			return Params{"out_mesh": out}, nil
		},
	})

	Register("Bevel", NodeDef{
		Op: func(p Params) (Params, error) {
			m, err := asMesh(p, "mesh")
			if err != nil {
				return nil, err
			}
			expr, err := asString(p, "edges")
			if err != nil {
				return nil, err
			}
			amount, err := asScalar(p, "amount")
			if err != nil {
				return nil, err
			}
			sel, err := mesh.ParseSelection(expr)
			if err != nil {
				return nil, fmt.Errorf("opset Bevel: %w", err)
			}
			out, err := m.Clone()
			if err != nil {
				return nil, fmt.Errorf("opset Bevel: %w", err)
			}
			hs, err := mesh.ResolveHalfEdgeSelectionFull(out, sel)
			if err != nil {
				return nil, fmt.Errorf("opset Bevel: %w", err)
			}
			if _, err := out.BevelEdges(hs, amount); err != nil {
				return nil, fmt.Errorf("opset Bevel: %w", err)
			}
			return Params{"out_mesh": out}, nil
		},
	})

	Register("Subdivide", NodeDef{
		Op: func(p Params) (Params, error) {
			m, err := asMesh(p, "mesh")
			if err != nil {
				return nil, err
			}
			iterations, err := asScalar(p, "iterations")
			if err != nil {
				return nil, err
			}
			smooth, smoothErr := asScalar(p, "catmull_clark")
			catmullClark := smoothErr != nil || smooth != 0

			c, err := compact.FromHalfEdge(m)
			if err != nil {
				return nil, fmt.Errorf("opset Subdivide: %w", err)
			}
			c, err = c.SubdivideMulti(int(iterations), catmullClark)
			if err != nil {
				return nil, fmt.Errorf("opset Subdivide: %w", err)
			}
			out, err := c.ToHalfEdge()
			if err != nil {
				return nil, fmt.Errorf("opset Subdivide: %w", err)
			}
			return Params{"out_mesh": out}, nil
		},
	})

	Register("Merge", NodeDef{
		Op: func(p Params) (Params, error) {
			a, err := asMesh(p, "mesh_a")
			if err != nil {
				return nil, err
			}
			b, err := asMesh(p, "mesh_b")
			if err != nil {
				return nil, err
			}
			out, err := a.Clone()
			if err != nil {
				return nil, fmt.Errorf("opset Merge: %w", err)
			}
			if err := out.Merge(b); err != nil {
				return nil, fmt.Errorf("opset Merge: %w", err)
			}
			return Params{"out_mesh": out}, nil
		},
	})

	// ExportMesh is a terminal passthrough: its sole purpose is to give a
	// graph a node whose return_value names the final exported mesh,
	// independent of whichever node actually produced it.
	Register("ExportMesh", NodeDef{
		Op: func(p Params) (Params, error) {
			m, err := asMesh(p, "mesh")
			if err != nil {
				return nil, err
			}
			return Params{"out_mesh": m}, nil
		},
	})
}
