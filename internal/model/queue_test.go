package model

import (
	"errors"
	"testing"
)

func TestQueue(t *testing.T) {
	q := NewQueue()
	if _, _, ok := q.GetNextPair(); ok {
		t.Fatal("GetNextPair on empty queue reported a pair")
	}
	for _, id := range []string{"a", "b", "c"} {
		if err := q.AddPlayer(Player{ID: id}); err != nil {
			t.Fatalf("AddPlayer(%s): %v", id, err)
		}
	}
	if err := q.AddPlayer(Player{ID: "a"}); !errors.Is(err, ErrAlreadyQueued) {
		t.Errorf("duplicate err = %v; want ErrAlreadyQueued", err)
	}
	first, second, ok := q.GetNextPair()
	if !ok || first.ID != "a" || second.ID != "b" {
		t.Errorf("GetNextPair() = %s, %s, %v; want a, b, true", first.ID, second.ID, ok)
	}
	if !q.Remove("c") || q.Remove("c") {
		t.Error("Remove should succeed once")
	}
	if q.Size() != 0 {
		t.Errorf("Size() = %d; want 0", q.Size())
	}
}
