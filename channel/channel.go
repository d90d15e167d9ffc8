// Blackjack
// Copyright (C) the blackjack contributors
//
// Licensed under the MIT license. See the LICENSE file in the repository
// root for the full license text.

// Package channel implements the typed, named, reference-counted attribute
// tables that a HalfEdge mesh hangs off its vertex/face/halfedge handles
// (spec Component A). A channel is a map from a concrete handle type K to a
// concrete value type V; channels are grouped by (K, V) and given a unique
// name within that group. Interior mutability follows the teacher's own
// convention of guarding a shared map behind a named mutex (see
// lang/funcs/dage.Engine.table / tableMutex in the retrieved pack) rather
// than a bespoke borrow-checked cell type, since Go has no such type in the
// standard library or in the retrieved third-party ecosystem.
package channel

import (
	"fmt"
	"sync"

	"github.com/blackjack3d/blackjack/util/errwrap"
	"github.com/blackjack3d/blackjack/vmath"
)

// ElementKind identifies which handle type a channel is keyed by.
type ElementKind int

const (
	KindVertex ElementKind = iota
	KindFace
	KindHalfEdge
)

func (k ElementKind) String() string {
	switch k {
	case KindVertex:
		return "vertex"
	case KindFace:
		return "face"
	case KindHalfEdge:
		return "halfedge"
	default:
		return "unknown"
	}
}

// ValueKind identifies the concrete value type stored by a channel. It is
// informational only (used for introspection/serialization); the actual
// storage and access is fully generic and does not switch on ValueKind.
type ValueKind int

const (
	ValueVec2 ValueKind = iota
	ValueVec3
	ValueVec4
	ValueF32
	ValueBool
)

func (v ValueKind) String() string {
	switch v {
	case ValueVec2:
		return "vec2"
	case ValueVec3:
		return "vec3"
	case ValueVec4:
		return "vec4"
	case ValueF32:
		return "f32"
	case ValueBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Value is the set of concrete channel value types the spec allows.
type Value interface {
	vmath.Vec2 | vmath.Vec3 | vmath.Vec4 | float32 | bool
}

// valueKindOf maps a Go type parameter to its ValueKind tag. Used only when
// registering a new channel, so a type switch on a throwaway zero value is
// fine (no hot path depends on it).
func valueKindOf[V Value]() ValueKind {
	var zero V
	switch any(zero).(type) {
	case vmath.Vec2:
		return ValueVec2
	case vmath.Vec3:
		return ValueVec3
	case vmath.Vec4:
		return ValueVec4
	case float32:
		return ValueF32
	case bool:
		return ValueBool
	default:
		panic("channel: unreachable value kind")
	}
}

// ChannelId is a stable, opaque reference to a channel, scoped to the Store
// that created it.
type ChannelId struct {
	id int
}

// Channel is the concrete, typed storage for one (K, V) attribute table.
// Reads synthesize the zero value of V for absent keys; writes insert on
// first use. A single sync.RWMutex implements the borrow discipline from
// spec §3.3: any number of concurrent readers, or one exclusive writer.
type Channel[K comparable, V any] struct {
	mu   sync.RWMutex
	data map[K]V
}

func newChannel[K comparable, V any]() *Channel[K, V] {
	return &Channel[K, V]{data: make(map[K]V)}
}

// ReadGuard is a shared borrow of a channel's contents.
type ReadGuard[K comparable, V any] struct {
	ch *Channel[K, V]
}

// Get returns the value at key, or the zero value of V if key is absent.
func (g *ReadGuard[K, V]) Get(key K) V { return g.ch.data[key] }

// Has reports whether key has an explicit entry (as opposed to reading as
// the zero value because it was never written).
func (g *ReadGuard[K, V]) Has(key K) bool {
	_, ok := g.ch.data[key]
	return ok
}

// Len returns the number of explicit entries.
func (g *ReadGuard[K, V]) Len() int { return len(g.ch.data) }

// Each calls f for every explicit entry. Iteration order is unspecified.
func (g *ReadGuard[K, V]) Each(f func(key K, value V)) {
	for k, v := range g.ch.data {
		f(k, v)
	}
}

// Release ends the shared borrow.
func (g *ReadGuard[K, V]) Release() { g.ch.mu.RUnlock() }

// WriteGuard is the exclusive borrow of a channel's contents.
type WriteGuard[K comparable, V any] struct {
	ch *Channel[K, V]
}

// Get returns the value at key, or the zero value of V if absent.
func (g *WriteGuard[K, V]) Get(key K) V { return g.ch.data[key] }

// Set writes value at key, inserting it if absent.
func (g *WriteGuard[K, V]) Set(key K, value V) { g.ch.data[key] = value }

// Delete removes key's row, if any. Dangling entries for removed mesh
// elements are legal (spec §4.A); this is for callers that want to scrub
// one explicitly, e.g. the mesh's own element-removal path.
func (g *WriteGuard[K, V]) Delete(key K) { delete(g.ch.data, key) }

// Len returns the number of explicit entries.
func (g *WriteGuard[K, V]) Len() int { return len(g.ch.data) }

// Each calls f for every explicit entry. Iteration order is unspecified.
func (g *WriteGuard[K, V]) Each(f func(key K, value V)) {
	for k, v := range g.ch.data {
		f(k, v)
	}
}

// Release ends the exclusive borrow.
func (g *WriteGuard[K, V]) Release() { g.ch.mu.Unlock() }

// KeyData is an opaque, type-erased description of one live key in a
// channel, used by introspect() to describe channel contents without
// exposing the connectivity internals of whatever owns the handles.
type KeyData struct {
	Kind  ElementKind
	Index uint32
}

var (
	ErrUnknownChannel = fmt.Errorf("channel: unknown channel")
	ErrDuplicateName  = fmt.Errorf("channel: duplicate name")
	ErrBorrowConflict = fmt.Errorf("channel: borrow conflict")
	ErrWrongType      = fmt.Errorf("channel: wrong (key,value) type for this id")
)

type entry struct {
	name        string
	elementKind ElementKind
	valueKind   ValueKind
	channel     any // *Channel[K,V], type-erased
}

// Store owns a mesh's (or any other element arena's) set of channels. It is
// the generic counterpart of spec Component A's "channel system". A Store
// is not safe for concurrent structural modification (ensure/create/remove)
// from multiple goroutines without external synchronization, matching the
// rest of the package's "single-threaded at the API boundary" posture
// (spec §5); per-channel reads/writes are still safely concurrent via each
// Channel's own RWMutex.
type Store struct {
	mu      sync.Mutex // guards the maps below, not channel contents
	entries map[int]*entry
	byName  map[string]int // name -> channel id, scoped within a (K,V) group via namePrefix
	nextID  int
}

// NewStore builds an empty channel store.
func NewStore() *Store {
	return &Store{
		entries: make(map[int]*entry),
		byName:  make(map[string]int),
	}
}

func groupKey(k ElementKind, v ValueKind, name string) string {
	return fmt.Sprintf("%d:%d:%s", k, v, name)
}

// EnsureChannel creates the named (K, V) channel if it doesn't exist yet,
// or returns the id of the existing one. Idempotent, per spec §4.A.
func EnsureChannel[K comparable, V Value](s *Store, name string) ChannelId {
	ek, vk := elementKindOf[K](), valueKindOf[V]()
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.byName[groupKey(ek, vk, name)]; ok {
		return ChannelId{id}
	}
	return s.insertLocked(ek, vk, name, newChannel[K, V]())
}

// CreateChannel creates the named (K, V) channel, failing if one already
// exists with that name in the same (K, V) group.
func CreateChannel[K comparable, V Value](s *Store, name string) (ChannelId, error) {
	ek, vk := elementKindOf[K](), valueKindOf[V]()
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byName[groupKey(ek, vk, name)]; ok {
		return ChannelId{}, errwrap.Wrapf(ErrDuplicateName, "create_channel(%s)", name)
	}
	return s.insertLocked(ek, vk, name, newChannel[K, V]()), nil
}

func (s *Store) insertLocked(ek ElementKind, vk ValueKind, name string, ch any) ChannelId {
	id := s.nextID
	s.nextID++
	s.entries[id] = &entry{name: name, elementKind: ek, valueKind: vk, channel: ch}
	s.byName[groupKey(ek, vk, name)] = id
	return ChannelId{id}
}

// RemoveChannel drops the channel with the given id, if any.
func (s *Store) RemoveChannel(id ChannelId) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id.id]
	if !ok {
		return
	}
	delete(s.byName, groupKey(e.elementKind, e.valueKind, e.name))
	delete(s.entries, id.id)
}

// ChannelIdByName looks up a channel id by (K, V, name), returning ok=false
// if no such channel exists.
func ChannelIdByName[K comparable, V Value](s *Store, name string) (ChannelId, bool) {
	ek, vk := elementKindOf[K](), valueKindOf[V]()
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byName[groupKey(ek, vk, name)]
	return ChannelId{id}, ok
}

func (s *Store) lookup(id ChannelId) (*entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id.id]
	if !ok {
		return nil, errwrap.Wrapf(ErrUnknownChannel, "channel id %d", id.id)
	}
	return e, nil
}

// Read acquires a shared borrow of the named channel's contents. It returns
// ErrBorrowConflict rather than blocking if an exclusive writer already
// holds the channel (spec §3.3/§5/§7: borrow conflicts surface as errors,
// never UB, and never as a deadlock).
func Read[K comparable, V Value](s *Store, id ChannelId) (*ReadGuard[K, V], error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	ch, ok := e.channel.(*Channel[K, V])
	if !ok {
		return nil, errwrap.Wrapf(ErrWrongType, "channel %q", e.name)
	}
	if !ch.mu.TryRLock() {
		return nil, errwrap.Wrapf(ErrBorrowConflict, "read channel %q", e.name)
	}
	return &ReadGuard[K, V]{ch: ch}, nil
}

// Write acquires the exclusive borrow of the named channel's contents. It
// returns ErrBorrowConflict rather than blocking if another reader or
// writer already holds the channel.
func Write[K comparable, V Value](s *Store, id ChannelId) (*WriteGuard[K, V], error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	ch, ok := e.channel.(*Channel[K, V])
	if !ok {
		return nil, errwrap.Wrapf(ErrWrongType, "channel %q", e.name)
	}
	if !ch.mu.TryLock() {
		return nil, errwrap.Wrapf(ErrBorrowConflict, "write channel %q", e.name)
	}
	return &WriteGuard[K, V]{ch: ch}, nil
}

// DeleteKey removes one key's row from the named channel, if present. It is
// the generic primitive behind a mesh's element-removal path (spec §4.A).
func DeleteKey[K comparable, V Value](s *Store, id ChannelId, key K) error {
	w, err := Write[K, V](s, id)
	if err != nil {
		return err
	}
	defer w.Release()
	w.Delete(key)
	return nil
}

// Introspect returns, for every live channel, its name, element kind and
// value kind — enough for a caller (e.g. a merge or export operation) to
// enumerate channels without depending on this package's generic API.
type ChannelInfo struct {
	ID          ChannelId
	Name        string
	ElementKind ElementKind
	ValueKind   ValueKind
}

func (s *Store) Introspect() []ChannelInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ChannelInfo, 0, len(s.entries))
	for id, e := range s.entries {
		out = append(out, ChannelInfo{ID: ChannelId{id}, Name: e.name, ElementKind: e.elementKind, ValueKind: e.valueKind})
	}
	return out
}

// elementKindOf maps a Go key type parameter to its ElementKind tag. The
// handle package registers the mapping for its three handle types via
// RegisterElementKind at init time, so this package need not import the
// handle types directly.
var elementKindRegistry = map[string]ElementKind{}

func elementKindOf[K comparable]() ElementKind {
	name := fmt.Sprintf("%T", *new(K))
	ek, ok := elementKindRegistry[name]
	if !ok {
		panic("channel: key type " + name + " was never registered via RegisterElementKind")
	}
	return ek
}

// RegisterElementKind associates a concrete handle type K with its
// ElementKind tag. Called once per handle type at package init time by the
// handle package (which owns the concrete handle.Vertex/handle.Face/
// handle.HalfEdge types).
func RegisterElementKind[K comparable](kind ElementKind) {
	var zero K
	elementKindRegistry[fmt.Sprintf("%T", zero)] = kind
}
