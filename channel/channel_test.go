package channel_test

import (
	"errors"
	"testing"

	"github.com/blackjack3d/blackjack/channel"
	"github.com/blackjack3d/blackjack/handle"
)

type vkey = handle.Vertex

func TestEnsureChannelIdempotent(t *testing.T) {
	s := channel.NewStore()
	id1 := channel.EnsureChannel[vkey, float32](s, "weight")
	id2 := channel.EnsureChannel[vkey, float32](s, "weight")
	if id1 != id2 {
		t.Errorf("EnsureChannel should be idempotent, got %v != %v", id1, id2)
	}
}

func TestCreateChannelDuplicateFails(t *testing.T) {
	s := channel.NewStore()
	if _, err := channel.CreateChannel[vkey, float32](s, "weight"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := channel.CreateChannel[vkey, float32](s, "weight"); err == nil {
		t.Errorf("expected duplicate name error")
	}
}

func TestReadAbsentKeyIsDefault(t *testing.T) {
	s := channel.NewStore()
	id := channel.EnsureChannel[vkey, float32](s, "weight")
	r, err := channel.Read[vkey, float32](s, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer r.Release()
	if got := r.Get(handle.NewVertex(1, 1)); got != 0 {
		t.Errorf("expected zero value, got %v", got)
	}
}

func TestWriteThenRead(t *testing.T) {
	s := channel.NewStore()
	id := channel.EnsureChannel[vkey, float32](s, "weight")
	w, err := channel.Write[vkey, float32](s, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	key := handle.NewVertex(3, 1)
	w.Set(key, 0.5)
	w.Release()

	r, err := channel.Read[vkey, float32](s, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer r.Release()
	if got := r.Get(key); got != 0.5 {
		t.Errorf("expected 0.5, got %v", got)
	}
}

func TestUnknownChannelErrors(t *testing.T) {
	s := channel.NewStore()
	if _, err := channel.Read[vkey, float32](s, channel.ChannelId{}); err == nil {
		t.Errorf("expected unknown channel error")
	}
}

func TestWriteBorrowConflictsWithOutstandingRead(t *testing.T) {
	s := channel.NewStore()
	id := channel.EnsureChannel[vkey, float32](s, "weight")
	r, err := channel.Read[vkey, float32](s, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer r.Release()

	if _, err := channel.Write[vkey, float32](s, id); !errors.Is(err, channel.ErrBorrowConflict) {
		t.Errorf("expected ErrBorrowConflict while a read borrow is outstanding, got %v", err)
	}
}

func TestReadBorrowConflictsWithOutstandingWrite(t *testing.T) {
	s := channel.NewStore()
	id := channel.EnsureChannel[vkey, float32](s, "weight")
	w, err := channel.Write[vkey, float32](s, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer w.Release()

	if _, err := channel.Read[vkey, float32](s, id); !errors.Is(err, channel.ErrBorrowConflict) {
		t.Errorf("expected ErrBorrowConflict while a write borrow is outstanding, got %v", err)
	}
}

func TestIntrospect(t *testing.T) {
	s := channel.NewStore()
	channel.EnsureChannel[vkey, float32](s, "weight")
	infos := s.Introspect()
	if len(infos) != 1 || infos[0].Name != "weight" {
		t.Errorf("unexpected introspect result: %+v", infos)
	}
}
