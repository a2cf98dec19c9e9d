package cache

// TinyLFU augments an LRU with a frequency-based admission gate: an
// incoming object may displace the LRU tail only if its sketch estimate
// is strictly higher than the tail's. A cold newcomer therefore never
// pushes out a hot resident.
type TinyLFU struct {
	LRU
	countMin *CountMinSketch
}

// NewTinyLFU creates a TinyLFU cache with the default capacity.
func NewTinyLFU() *TinyLFU {
	t := &TinyLFU{LRU: *NewLRU()}
	t.SetCapacity(DefaultCapacity)
	return t
}

// SetCapacity sets the byte budget and resizes the frequency sketch
// against it, discarding accumulated frequency state.
func (t *TinyLFU) SetCapacity(bytes uint64) {
	t.LRU.SetCapacity(bytes)
	t.countMin = NewCountMinSketch(bytes/2, 2, sketchSeed)
}

// Lookup bumps the object's frequency estimate, then searches the LRU.
func (t *TinyLFU) Lookup(req Request) bool {
	t.countMin.Update(req.ID, 1)
	return t.LRU.Lookup(req)
}

// Admit makes room by evicting LRU tails that are strictly colder than
// the incoming object. If the tail ever wins the comparison, eviction
// stops and the object is not admitted.
func (t *TinyLFU) Admit(req Request) {
	if req.Size > t.capacity {
		t.events.record(EventOversized, t.capacity, req.ID, req.Size)
		return
	}
	if _, ok := t.list.get(req.key()); ok {
		return
	}
	evicted := true
	for t.list.bytes+req.Size > t.capacity {
		evicted = t.evictColderThan(req.ID)
		if !evicted {
			// the tail is at least as popular as the candidate
			break
		}
	}
	if evicted {
		t.list.pushFront(req)
		t.events.record(EventAdmit, t.list.bytes, req.ID, req.Size)
	}
}

// evictColderThan removes the LRU tail if its frequency estimate is
// strictly below the candidate's.
func (t *TinyLFU) evictColderThan(candidateID uint64) bool {
	e := t.list.back()
	if e == nil {
		return false
	}
	victim := e.Value.(Request)
	if t.countMin.PointEst(victim.ID) < t.countMin.PointEst(candidateID) {
		t.events.record(EventEvict, t.list.bytes, victim.ID, victim.Size)
		t.list.remove(e)
		return true
	}
	return false
}

// SetParam recognizes no parameters for TinyLFU.
func (t *TinyLFU) SetParam(name, value string) {
	unknownParam(PolicyTinyLFU, name)
}
