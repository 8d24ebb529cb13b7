package game

import (
	"errors"
	"testing"
)

func TestRegistryAddAndGet(t *testing.T) {
	reg := NewRegistry()

	room := newRoom("r1", "", 4, 0)
	if err := reg.Add(room); err != nil {
		t.Fatalf("add: %v", err)
	}

	got, ok := reg.Get("r1")
	if !ok || got != room {
		t.Fatal("expected to get back the registered room")
	}
	if reg.Len() != 1 {
		t.Fatalf("len = %d; want 1", reg.Len())
	}
}

func TestRegistryRejectsDuplicateID(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Add(newRoom("r1", "", 4, 0)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := reg.Add(newRoom("r1", "", 8, 0)); !errors.Is(err, ErrDuplicateRoom) {
		t.Fatalf("duplicate add err = %v; want ErrDuplicateRoom", err)
	}
}

func TestRegistryDeleteIdempotent(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Add(newRoom("r1", "", 4, 0)); err != nil {
		t.Fatalf("add: %v", err)
	}

	reg.Delete("r1")
	if _, ok := reg.Get("r1"); ok {
		t.Fatal("room still present after delete")
	}
	// second delete is a no-op
	reg.Delete("r1")
	if reg.Len() != 0 {
		t.Fatalf("len = %d; want 0", reg.Len())
	}
}
