package cache

// s4Segments is the number of LRU levels in S4LRU.
const s4Segments = 4

// S4LRU is a four-level segmented LRU. New objects enter the lowest
// segment; a hit in segment i promotes the object to segment i+1, and a
// full upper segment demotes its LRU tail one level down. Long-lived hot
// objects accumulate at the top while scans churn only the bottom.
type S4LRU struct {
	segments [s4Segments]*LRU
	capacity uint64
}

// NewS4LRU creates an S4LRU cache with the default capacity.
func NewS4LRU() *S4LRU {
	s := &S4LRU{}
	for i := range s.segments {
		s.segments[i] = NewLRU()
	}
	s.SetCapacity(DefaultCapacity)
	return s
}

// SetCapacity splits the byte budget equally across the four segments,
// with the remainder going to segment 0.
func (s *S4LRU) SetCapacity(bytes uint64) {
	s.capacity = bytes
	total := bytes
	for i := range s.segments {
		s.segments[i].SetCapacity(bytes / s4Segments)
		total -= bytes / s4Segments
	}
	if total > 0 {
		s.segments[0].SetCapacity(bytes/s4Segments + total)
	}
}

// Lookup scans the segments bottom-up; a hit below the top level moves
// the object one segment up.
func (s *S4LRU) Lookup(req Request) bool {
	for i := 0; i < s4Segments; i++ {
		if s.segments[i].Lookup(req) {
			if i < s4Segments-1 {
				// move up
				s.segments[i].Remove(req)
				s.segmentAdmit(i+1, req)
			}
			return true
		}
	}
	return false
}

// Admit enters the object into segment 0.
func (s *S4LRU) Admit(req Request) {
	s.segments[0].Admit(req)
}

// segmentAdmit admits into segment idx, demoting that segment's LRU tail
// one level down until the incoming object fits.
func (s *S4LRU) segmentAdmit(idx int, req Request) {
	if idx == 0 {
		s.segments[0].Admit(req)
		return
	}
	for s.segments[idx].CurrentSize()+req.Size > s.segments[idx].Capacity() {
		victim, ok := s.segments[idx].EvictReturn()
		if !ok {
			break
		}
		s.segmentAdmit(idx-1, victim)
	}
	s.segments[idx].Admit(req)
}

// Remove evicts the object from whichever segment holds it.
func (s *S4LRU) Remove(req Request) {
	for i := range s.segments {
		s.segments[i].Remove(req)
	}
}

// Evict removes segment 0's LRU object.
func (s *S4LRU) Evict() {
	s.segments[0].Evict()
}

// Capacity returns the total byte budget.
func (s *S4LRU) Capacity() uint64 {
	return s.capacity
}

// CurrentSize returns the byte total across all segments.
func (s *S4LRU) CurrentSize() uint64 {
	var total uint64
	for i := range s.segments {
		total += s.segments[i].CurrentSize()
	}
	return total
}

// SetParam recognizes no parameters for S4LRU.
func (s *S4LRU) SetParam(name, value string) {
	unknownParam(PolicyS4LRU, name)
}

// SetEventLog attaches an event log to every segment.
func (s *S4LRU) SetEventLog(log *EventLog) {
	for i := range s.segments {
		s.segments[i].SetEventLog(log)
	}
}
