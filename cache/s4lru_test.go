package cache

import (
	"testing"
)

func segmentOf(s *S4LRU, req Request) int {
	for i := range s.segments {
		if _, ok := s.segments[i].list.get(req.key()); ok {
			return i
		}
	}
	return -1
}

// TestS4LRUCapacitySplit tests the equal split with remainder to segment 0
func TestS4LRUCapacitySplit(t *testing.T) {
	s := NewS4LRU()

	s.SetCapacity(8)
	for i := range s.segments {
		if got := s.segments[i].Capacity(); got != 2 {
			t.Errorf("Segment %d: expected capacity 2, got %d", i, got)
		}
	}

	s.SetCapacity(10)
	if got := s.segments[0].Capacity(); got != 4 {
		t.Errorf("Segment 0 should take the remainder: expected 4, got %d", got)
	}
	for i := 1; i < s4Segments; i++ {
		if got := s.segments[i].Capacity(); got != 2 {
			t.Errorf("Segment %d: expected capacity 2, got %d", i, got)
		}
	}
}

// TestS4LRUPromotionChain tests that repeated hits walk an object up the
// segments one level at a time
func TestS4LRUPromotionChain(t *testing.T) {
	s := NewS4LRU()
	s.SetCapacity(16) // 4 bytes per segment

	objs := []Request{
		{ID: 1, Size: 1}, {ID: 2, Size: 1}, {ID: 3, Size: 1}, {ID: 4, Size: 1},
	}
	for _, o := range objs {
		s.Admit(o)
	}
	a := objs[0]
	if got := segmentOf(s, a); got != 0 {
		t.Fatalf("Expected a in segment 0, got %d", got)
	}

	for want := 1; want <= 3; want++ {
		if !s.Lookup(a) {
			t.Fatalf("Should hit a before promotion to segment %d", want)
		}
		if got := segmentOf(s, a); got != want {
			t.Fatalf("Expected a in segment %d, got %d", want, got)
		}
	}

	// a hit in the top segment stays there
	if !s.Lookup(a) {
		t.Fatal("Should hit a in the top segment")
	}
	if got := segmentOf(s, a); got != 3 {
		t.Errorf("Expected a to stay in segment 3, got %d", got)
	}
}

// TestS4LRUDemotion tests that a full upper segment demotes its LRU tail
func TestS4LRUDemotion(t *testing.T) {
	s := NewS4LRU()
	s.SetCapacity(8) // 2 bytes per segment

	a := Request{ID: 1, Size: 1}
	b := Request{ID: 2, Size: 1}
	d := Request{ID: 3, Size: 1}

	s.Admit(a)
	s.Admit(b)
	s.Admit(d)
	// segment 0 holds 2 of the 3; the oldest was dropped
	s.Lookup(b)
	s.Lookup(d)
	// b and d both sit in segment 1 now, which is full
	if segmentOf(s, b) != 1 || segmentOf(s, d) != 1 {
		t.Fatalf("Expected b,d in segment 1, got %d,%d", segmentOf(s, b), segmentOf(s, d))
	}

	s.Admit(a)
	s.Lookup(a)
	// promoting a demotes segment 1's LRU tail (b) back to segment 0
	if got := segmentOf(s, a); got != 1 {
		t.Errorf("Expected a in segment 1, got %d", got)
	}
	if got := segmentOf(s, b); got != 0 {
		t.Errorf("Expected b demoted to segment 0, got %d", got)
	}
}

// TestS4LRUSegmentCapacityInvariant tests that no segment overflows under
// a mixed workload
func TestS4LRUSegmentCapacityInvariant(t *testing.T) {
	s := NewS4LRU()
	s.SetCapacity(40)

	for i := 0; i < 1000; i++ {
		req := Request{ID: uint64(i % 23), Size: uint64(i%5 + 1)}
		if !s.Lookup(req) {
			s.Admit(req)
		}
		for j := range s.segments {
			if s.segments[j].CurrentSize() > s.segments[j].Capacity() {
				t.Fatalf("Segment %d exceeds its capacity: %d > %d",
					j, s.segments[j].CurrentSize(), s.segments[j].Capacity())
			}
		}
	}
}

// TestS4LRURemove tests removal from any segment
func TestS4LRURemove(t *testing.T) {
	s := NewS4LRU()
	s.SetCapacity(16)

	a := Request{ID: 1, Size: 1}
	s.Admit(a)
	s.Lookup(a) // promote to segment 1
	s.Remove(a)
	if got := segmentOf(s, a); got != -1 {
		t.Errorf("Expected a removed, still in segment %d", got)
	}
}
