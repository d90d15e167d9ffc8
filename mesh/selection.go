package mesh

import (
	"strconv"
	"strings"

	"github.com/blackjack3d/blackjack/channel"
	"github.com/blackjack3d/blackjack/handle"
)

// Selection is the parsed form of a selection expression (spec §4.B.5):
//
//	selection := "*" | ε | fragment ("," fragment)*
//	fragment  := uint | uint ".." uint | "@" identifier
type Selection struct {
	all      bool
	explicit []selectionFragment
}

type fragmentKind int

const (
	fragmentSingle fragmentKind = iota
	fragmentRange
	fragmentGroup
)

type selectionFragment struct {
	kind     fragmentKind
	lo, hi   int
	groupRef string
}

// ParseSelection parses a selection expression, rejecting trailing garbage
// and bare identifiers without a leading "@".
func ParseSelection(expr string) (Selection, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "*" {
		return Selection{all: true}, nil
	}
	if trimmed == "" {
		return Selection{}, nil
	}

	parts := strings.Split(trimmed, ",")
	frags := make([]selectionFragment, 0, len(parts))
	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			return Selection{}, newSelectionError("empty fragment in %q", expr)
		}
		frag, err := parseFragment(p)
		if err != nil {
			return Selection{}, err
		}
		frags = append(frags, frag)
	}
	return Selection{explicit: frags}, nil
}

func parseFragment(p string) (selectionFragment, error) {
	if strings.HasPrefix(p, "@") {
		name := p[1:]
		if !isGroupIdentifier(name) {
			return selectionFragment{}, newSelectionError("invalid group name in %q: must start with a lowercase letter and contain only lowercase letters, digits and underscores", p)
		}
		return selectionFragment{kind: fragmentGroup, groupRef: name}, nil
	}
	if idx := strings.Index(p, ".."); idx >= 0 {
		loStr, hiStr := p[:idx], p[idx+2:]
		lo, err := strconv.Atoi(strings.TrimSpace(loStr))
		if err != nil {
			return selectionFragment{}, newSelectionError("bad range start in %q", p)
		}
		hi, err := strconv.Atoi(strings.TrimSpace(hiStr))
		if err != nil {
			return selectionFragment{}, newSelectionError("bad range end in %q", p)
		}
		return selectionFragment{kind: fragmentRange, lo: lo, hi: hi}, nil
	}
	n, err := strconv.Atoi(p)
	if err != nil {
		return selectionFragment{}, newSelectionError("bare identifier without '@' (or malformed number) in %q", p)
	}
	return selectionFragment{kind: fragmentSingle, lo: n}, nil
}

// isGroupIdentifier reports whether name is a valid group-reference
// identifier: a lowercase ASCII letter followed by any number of
// lowercase letters, digits, or underscores (original_source
// selection.rs's `identifier` parser: first char lowercase, rest
// alphanumeric with optional '_' separators).
func isGroupIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case i > 0 && (r >= '0' && r <= '9' || r == '_'):
		default:
			return false
		}
	}
	return true
}

// ResolvedSelection is the non-materializing resolution result, letting a
// caller fast-path All or None without allocating a handle slice (spec
// §4.B.5).
type ResolvedSelection[H comparable] struct {
	All      bool
	None     bool
	Explicit []H
}

// ResolveVertexSelectionFull materializes the selection into a []Vertex.
func ResolveVertexSelectionFull(m *Mesh, sel Selection) ([]handle.Vertex, error) {
	r, err := ResolveVertexSelection(m, sel)
	if err != nil {
		return nil, err
	}
	if r.All {
		return m.AllVertices(), nil
	}
	if r.None {
		return nil, nil
	}
	return r.Explicit, nil
}

// ResolveVertexSelection resolves sel without materializing the All case.
func ResolveVertexSelection(m *Mesh, sel Selection) (ResolvedSelection[handle.Vertex], error) {
	if sel.all {
		return ResolvedSelection[handle.Vertex]{All: true}, nil
	}
	if len(sel.explicit) == 0 {
		return ResolvedSelection[handle.Vertex]{None: true}, nil
	}
	all := m.AllVertices()
	out, err := resolveFragments(sel.explicit, all, func(name string) ([]handle.Vertex, error) {
		return resolveGroup[handle.Vertex](m, channel.KindVertex, name, all)
	})
	if err != nil {
		return ResolvedSelection[handle.Vertex]{}, err
	}
	return ResolvedSelection[handle.Vertex]{Explicit: out}, nil
}

// ResolveFaceSelectionFull materializes the selection into a []Face.
func ResolveFaceSelectionFull(m *Mesh, sel Selection) ([]handle.Face, error) {
	r, err := ResolveFaceSelection(m, sel)
	if err != nil {
		return nil, err
	}
	if r.All {
		return m.AllFaces(), nil
	}
	if r.None {
		return nil, nil
	}
	return r.Explicit, nil
}

// ResolveFaceSelection resolves sel without materializing the All case.
func ResolveFaceSelection(m *Mesh, sel Selection) (ResolvedSelection[handle.Face], error) {
	if sel.all {
		return ResolvedSelection[handle.Face]{All: true}, nil
	}
	if len(sel.explicit) == 0 {
		return ResolvedSelection[handle.Face]{None: true}, nil
	}
	all := m.AllFaces()
	out, err := resolveFragments(sel.explicit, all, func(name string) ([]handle.Face, error) {
		return resolveGroup[handle.Face](m, channel.KindFace, name, all)
	})
	if err != nil {
		return ResolvedSelection[handle.Face]{}, err
	}
	return ResolvedSelection[handle.Face]{Explicit: out}, nil
}

// ResolveHalfEdgeSelectionFull materializes the selection into a
// []HalfEdge.
func ResolveHalfEdgeSelectionFull(m *Mesh, sel Selection) ([]handle.HalfEdge, error) {
	r, err := ResolveHalfEdgeSelection(m, sel)
	if err != nil {
		return nil, err
	}
	if r.All {
		return m.AllHalfEdges(), nil
	}
	if r.None {
		return nil, nil
	}
	return r.Explicit, nil
}

// ResolveHalfEdgeSelection resolves sel without materializing the All case.
func ResolveHalfEdgeSelection(m *Mesh, sel Selection) (ResolvedSelection[handle.HalfEdge], error) {
	if sel.all {
		return ResolvedSelection[handle.HalfEdge]{All: true}, nil
	}
	if len(sel.explicit) == 0 {
		return ResolvedSelection[handle.HalfEdge]{None: true}, nil
	}
	all := m.AllHalfEdges()
	out, err := resolveFragments(sel.explicit, all, func(name string) ([]handle.HalfEdge, error) {
		return resolveGroup[handle.HalfEdge](m, channel.KindHalfEdge, name, all)
	})
	if err != nil {
		return ResolvedSelection[handle.HalfEdge]{}, err
	}
	return ResolvedSelection[handle.HalfEdge]{Explicit: out}, nil
}

func resolveFragments[H comparable](frags []selectionFragment, all []H, groupLookup func(name string) ([]H, error)) ([]H, error) {
	var out []H
	for _, f := range frags {
		switch f.kind {
		case fragmentSingle:
			if f.lo < 0 || f.lo >= len(all) {
				return nil, newSelectionError("index %d out of range", f.lo)
			}
			out = append(out, all[f.lo])
		case fragmentRange:
			if f.lo < 0 || f.hi >= len(all) || f.lo > f.hi {
				return nil, newSelectionError("range %d..%d out of range", f.lo, f.hi)
			}
			for i := f.lo; i <= f.hi; i++ {
				out = append(out, all[i])
			}
		case fragmentGroup:
			g, err := groupLookup(f.groupRef)
			if err != nil {
				return nil, err
			}
			out = append(out, g...)
		}
	}
	return out, nil
}

func resolveGroup[H comparable](m *Mesh, kind channel.ElementKind, name string, all []H) ([]H, error) {
	for _, info := range m.Channels.Introspect() {
		if info.ElementKind != kind || info.ValueKind != channel.ValueBool || info.Name != name {
			continue
		}
		return groupMembers(m, kind, info, all)
	}
	return nil, newSelectionError("undefined group %q", name)
}

func groupMembers[H comparable](m *Mesh, kind channel.ElementKind, info channel.ChannelInfo, all []H) ([]H, error) {
	switch kind {
	case channel.KindVertex:
		r, err := channel.Read[handle.Vertex, bool](m.Channels, info.ID)
		if err != nil {
			return nil, err
		}
		defer r.Release()
		var out []H
		for _, h := range all {
			if v, ok := any(h).(handle.Vertex); ok && r.Get(v) {
				out = append(out, h)
			}
		}
		return out, nil
	case channel.KindFace:
		r, err := channel.Read[handle.Face, bool](m.Channels, info.ID)
		if err != nil {
			return nil, err
		}
		defer r.Release()
		var out []H
		for _, h := range all {
			if f, ok := any(h).(handle.Face); ok && r.Get(f) {
				out = append(out, h)
			}
		}
		return out, nil
	default:
		r, err := channel.Read[handle.HalfEdge, bool](m.Channels, info.ID)
		if err != nil {
			return nil, err
		}
		defer r.Release()
		var out []H
		for _, h := range all {
			if he, ok := any(h).(handle.HalfEdge); ok && r.Get(he) {
				out = append(out, h)
			}
		}
		return out, nil
	}
}
