package cache

import (
	"testing"
)

// TestRecencyListOrder tests MRU-to-LRU ordering
func TestRecencyListOrder(t *testing.T) {
	r := newRecencyList()

	r.pushFront(Request{ID: 1, Size: 10})
	r.pushFront(Request{ID: 2, Size: 20})
	r.pushFront(Request{ID: 3, Size: 30})

	back := r.back()
	if back == nil {
		t.Fatal("Should have a back element")
	}
	if got := back.Value.(Request).ID; got != 1 {
		t.Errorf("Expected LRU id 1, got %d", got)
	}
}

// TestRecencyListTouch tests splice-to-front on access
func TestRecencyListTouch(t *testing.T) {
	r := newRecencyList()

	r.pushFront(Request{ID: 1, Size: 10})
	r.pushFront(Request{ID: 2, Size: 20})

	e, ok := r.get(cacheKey{id: 1, size: 10})
	if !ok {
		t.Fatal("Should find id 1")
	}
	r.touch(e)

	back := r.back()
	if got := back.Value.(Request).ID; got != 2 {
		t.Errorf("Expected LRU id 2 after touching 1, got %d", got)
	}
}

// TestRecencyListBytes tests byte accounting
func TestRecencyListBytes(t *testing.T) {
	r := newRecencyList()

	r.pushFront(Request{ID: 1, Size: 10})
	r.pushFront(Request{ID: 2, Size: 20})

	if r.bytes != 30 {
		t.Errorf("Expected 30 bytes, got %d", r.bytes)
	}

	req := r.remove(r.back())
	if req.ID != 1 {
		t.Errorf("Expected to remove id 1, got %d", req.ID)
	}
	if r.bytes != 20 {
		t.Errorf("Expected 20 bytes after removal, got %d", r.bytes)
	}
}

// TestRecencyListIndexConsistency tests that index and list stay in sync
func TestRecencyListIndexConsistency(t *testing.T) {
	r := newRecencyList()

	for i := uint64(0); i < 10; i++ {
		r.pushFront(Request{ID: i, Size: i + 1})
	}
	if len(r.index) != r.len() {
		t.Errorf("Index size %d != list size %d", len(r.index), r.len())
	}

	for i := 0; i < 5; i++ {
		r.remove(r.back())
	}
	if len(r.index) != r.len() {
		t.Errorf("Index size %d != list size %d after removals", len(r.index), r.len())
	}
	if r.len() != 5 {
		t.Errorf("Expected 5 entries, got %d", r.len())
	}
}

// TestRecencyListSizeIdentity tests that the same id with a different
// size is a distinct object
func TestRecencyListSizeIdentity(t *testing.T) {
	r := newRecencyList()

	r.pushFront(Request{ID: 1, Size: 10})

	if _, ok := r.get(cacheKey{id: 1, size: 20}); ok {
		t.Error("Should not find id 1 under a different size")
	}
	if _, ok := r.get(cacheKey{id: 1, size: 10}); !ok {
		t.Error("Should find id 1 under its admitted size")
	}
}
