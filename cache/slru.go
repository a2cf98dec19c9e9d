package cache

import "math"

// SLRU segment roles.
const (
	slruProbation = 0 // new admissions land here
	slruProtected = 1 // objects hit while on probation are promoted here
)

// SLRU is a two-segment LRU: a small probationary segment (20% of the
// budget) and a large protected one (80%). It is the main store of
// W-TinyLFU, which is why it also carries the frequency sketch and the
// door-keeper used to arbitrate admissions from the window.
type SLRU struct {
	segments [2]*LRU
	capacity uint64

	countMin   *CountMinSketch
	doorKeeper *DoorKeeper
}

// NewSLRU creates an SLRU cache with the default capacity.
func NewSLRU() *SLRU {
	s := &SLRU{}
	for i := range s.segments {
		s.segments[i] = NewLRU()
	}
	s.SetCapacity(DefaultCapacity)
	s.InitSketches(DefaultCapacity)
	return s
}

// SetCapacity splits the byte budget 20/80 between the probationary and
// protected segments, remainder to the probationary one. The sketches are
// left alone; InitSketches resizes them explicitly.
func (s *SLRU) SetCapacity(bytes uint64) {
	s.capacity = bytes
	probation := uint64(math.Floor(0.2 * float64(bytes)))
	protected := uint64(math.Floor(0.8 * float64(bytes)))
	s.segments[slruProbation].SetCapacity(probation + (bytes - probation - protected))
	s.segments[slruProtected].SetCapacity(protected)
}

// InitSketches sizes the frequency sketch and door-keeper against the
// total cache capacity (window included), discarding any accumulated
// frequency state.
func (s *SLRU) InitSketches(totalCapacity uint64) {
	s.countMin = NewCountMinSketch(totalCapacity/2, 2, sketchSeed)
	s.doorKeeper = NewDoorKeeper(totalCapacity, 1, sketchSeed)
}

// Lookup scans both segments; a probationary hit promotes the object to
// the protected segment.
func (s *SLRU) Lookup(req Request) bool {
	for i := range s.segments {
		if s.segments[i].Lookup(req) {
			if i == slruProbation {
				// move up
				s.segments[i].Remove(req)
				s.segmentAdmit(slruProtected, req)
			}
			return true
		}
	}
	return false
}

// Admit enters the object into the probationary segment.
func (s *SLRU) Admit(req Request) {
	s.segments[slruProbation].Admit(req)
}

// AdmitFromWindow offers a window victim to the probationary segment.
// Room is made by pre-evicting probationary tails; if anything was
// expelled, the last such victim's combined door-keeper + sketch estimate
// is compared against the incoming object's, and the loser stays out.
// Ties favor the incoming object.
//
// TODO: only the last pre-evicted victim is considered even when several
// were expelled; the first (coldest) victim may be the fairer candidate.
func (s *SLRU) AdmitFromWindow(req Request) {
	probation := s.segments[slruProbation]
	if req.Size > probation.Capacity() {
		probation.events.record(EventOversized, s.capacity, req.ID, req.Size)
		return
	}

	var lastVictim Request
	var haveVictim bool
	for probation.CurrentSize()+req.Size > probation.Capacity() {
		victim, ok := probation.EvictReturn()
		if !ok {
			break
		}
		lastVictim = victim
		haveVictim = true
	}

	if haveVictim {
		victimEst := s.countMin.PointEst(lastVictim.ID) + s.doorKeeper.PointEst(lastVictim.ID)
		candidateEst := s.countMin.PointEst(req.ID) + s.doorKeeper.PointEst(req.ID)
		if victimEst > candidateEst {
			probation.Admit(lastVictim)
		} else {
			probation.Admit(req)
		}
		return
	}
	probation.Admit(req)
}

// segmentAdmit admits into segment idx, demoting the segment's LRU tail
// one level down until the incoming object fits.
func (s *SLRU) segmentAdmit(idx int, req Request) {
	if idx == slruProbation {
		s.segments[slruProbation].Admit(req)
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

// SegmentAdmit admits directly into the given segment, demoting as
// needed. W-TinyLFU uses it when reshaping the window.
func (s *SLRU) SegmentAdmit(idx int, req Request) {
	s.segmentAdmit(idx, req)
}

// EvictReturnFrom removes and returns the LRU object of the given
// segment.
func (s *SLRU) EvictReturnFrom(idx int) (Request, bool) {
	return s.segments[idx].EvictReturn()
}

// Remove evicts the object from whichever segment holds it.
func (s *SLRU) Remove(req Request) {
	for i := range s.segments {
		s.segments[i].Remove(req)
	}
}

// Evict removes the probationary segment's LRU object.
func (s *SLRU) Evict() {
	s.segments[slruProbation].Evict()
}

// Capacity returns the total byte budget.
func (s *SLRU) Capacity() uint64 {
	return s.capacity
}

// CurrentSize returns the byte total across both segments.
func (s *SLRU) CurrentSize() uint64 {
	return s.segments[slruProbation].CurrentSize() + s.segments[slruProtected].CurrentSize()
}

// SegmentCapacity returns the byte budget of one segment.
func (s *SLRU) SegmentCapacity(idx int) uint64 {
	return s.segments[idx].Capacity()
}

// SegmentCurrentSize returns the resident byte total of one segment.
func (s *SLRU) SegmentCurrentSize(idx int) uint64 {
	return s.segments[idx].CurrentSize()
}

// UpdateSketch bumps the id's frequency estimate. When the returned
// counter reports saturation the door-keeper is flushed, bounding its
// false positive rate.
func (s *SLRU) UpdateSketch(id uint64) {
	if s.countMin.Update(id, 1) == counterMax {
		s.doorKeeper.Reset()
	}
}

// UpdateDoorKeeper marks the id in the door-keeper.
func (s *SLRU) UpdateDoorKeeper(id uint64) {
	s.doorKeeper.Update(id, 1)
}

// SearchDoorKeeper reports whether the id may have been seen since the
// last door-keeper reset.
func (s *SLRU) SearchDoorKeeper(id uint64) uint64 {
	return s.doorKeeper.PointEst(id)
}

// SetParam recognizes no parameters for SLRU.
func (s *SLRU) SetParam(name, value string) {
	unknownParam(PolicySLRU, name)
}

// SetEventLog attaches an event log to both segments.
func (s *SLRU) SetEventLog(log *EventLog) {
	for i := range s.segments {
		s.segments[i].SetEventLog(log)
	}
}
