package cache

import "strconv"

// Hill-climber constants. The tuner re-evaluates the hit ratio every
// hillClimberFactor*capacity requests and walks the window share along an
// irregular ladder: 0, 1, 5, 10, ..., 80. The asymmetric low end matters
// for small caches, where a 1% window behaves very differently from 5%.
const (
	hillClimberFactor = 1
	defaultWindowPct  = 1
	maxWindowPct      = 80
)

// WTinyLFU is windowed TinyLFU: a small recency window (plain LRU) in
// front of a frequency-biased SLRU main store. New objects prove
// themselves in the window; objects the window expels are arbitrated into
// the main store by the TinyLFU filter (door-keeper + count-min sketch).
// An online hill climber reshuffles capacity between window and main
// store while traffic runs.
type WTinyLFU struct {
	capacity uint64
	window   *LRU
	main     *SLRU

	windowPct    uint64
	requests     uint64
	hits         uint64
	prevHitRatio float64
	hillClimb    bool
}

// NewWTinyLFU creates a W-TinyLFU cache with the default capacity, a 1%
// window, and the hill climber enabled.
func NewWTinyLFU() *WTinyLFU {
	w := &WTinyLFU{
		window:    NewLRU(),
		main:      NewSLRU(),
		windowPct: defaultWindowPct,
		hillClimb: true,
	}
	w.SetCapacity(DefaultCapacity)
	return w
}

// SetCapacity sets the total byte budget and resizes the window, main
// store, and sketches against it.
func (w *WTinyLFU) SetCapacity(bytes uint64) {
	w.capacity = bytes
	w.applyWindowPct(w.windowPct)
}

// SetHillClimber enables or disables the online window tuner.
func (w *WTinyLFU) SetHillClimber(enabled bool) {
	w.hillClimb = enabled
}

// WindowPct returns the current window share in percent.
func (w *WTinyLFU) WindowPct() uint64 {
	return w.windowPct
}

// applyWindowPct resizes the window and main store to the given window
// share and re-initializes the sketches against the total capacity.
func (w *WTinyLFU) applyWindowPct(pct uint64) {
	w.windowPct = pct
	w.main.SetCapacity(w.mainBytes())
	w.main.InitSketches(w.capacity)
	w.window.SetCapacity(w.windowBytes())
}

func (w *WTinyLFU) windowBytes() uint64 {
	return uint64(float64(w.capacity) * float64(w.windowPct) / 100.0)
}

func (w *WTinyLFU) mainBytes() uint64 {
	return uint64(float64(w.capacity) * float64(100-w.windowPct) / 100.0)
}

// Lookup searches the window, then the main store. Known objects (per the
// door-keeper) have their frequency bumped; hits refresh the door-keeper.
func (w *WTinyLFU) Lookup(req Request) bool {
	w.requests++
	if w.main.SearchDoorKeeper(req.ID) > 0 {
		w.main.UpdateSketch(req.ID)
	}
	if w.window.Lookup(req) || w.main.Lookup(req) {
		w.main.UpdateDoorKeeper(req.ID)
		w.hits++
		if w.hillClimb {
			w.hillClimber()
		}
		return true
	}
	if w.hillClimb {
		w.hillClimber()
	}
	return false
}

// Admit offers the object to the cache. A first appearance only marks the
// door-keeper; the object itself stays out until it is seen again. Known
// objects enter the window, and every victim the window expels is offered
// to the main store under the TinyLFU filter.
func (w *WTinyLFU) Admit(req Request) {
	if w.main.SearchDoorKeeper(req.ID) == 0 {
		// first appearance: only remember it
		w.main.UpdateDoorKeeper(req.ID)
		return
	}
	if w.window.Capacity() == 0 {
		w.main.AdmitFromWindow(req)
		return
	}
	victims := w.window.AdmitWithReturn(req)
	for _, victim := range victims {
		w.main.AdmitFromWindow(victim)
	}
}

// hillClimber re-evaluates the hit ratio every hillClimberFactor*capacity
// requests. An improvement grows the window share one ladder step and
// pulls bytes out of the main store; a regression shrinks it and gives
// the bytes back.
func (w *WTinyLFU) hillClimber() {
	if w.capacity == 0 || w.requests%(hillClimberFactor*w.capacity) != 0 {
		return
	}
	hitRatio := float64(w.hits) / float64(w.requests)

	switch {
	case hitRatio > w.prevHitRatio:
		w.windowPct = growWindowPct(w.windowPct)
		w.prevHitRatio = hitRatio
		w.window.SetCapacity(w.windowBytes())
		w.increaseWindow()
	case hitRatio < w.prevHitRatio:
		w.windowPct = shrinkWindowPct(w.windowPct)
		w.prevHitRatio = hitRatio
		w.main.SetCapacity(w.mainBytes())
		w.increaseMainCache()
	}
}

// growWindowPct walks one step up the window ladder.
func growWindowPct(pct uint64) uint64 {
	switch {
	case pct == 0:
		return 1
	case pct == 1:
		return 5
	case pct+5 > maxWindowPct:
		return maxWindowPct
	default:
		return pct + 5
	}
}

// shrinkWindowPct walks one step down the window ladder.
func shrinkWindowPct(pct uint64) uint64 {
	switch {
	case pct == 0:
		return 0
	case pct == 1:
		return 0
	case pct == 5:
		return 1
	default:
		return pct - 5
	}
}

// increaseWindow moves main-store tails (probation first, then protected)
// into the enlarged window until the main store fits its new budget, then
// applies that budget.
func (w *WTinyLFU) increaseWindow() {
	for w.mainBytes() < w.main.CurrentSize() {
		var victim Request
		var ok bool
		if w.main.SegmentCurrentSize(slruProbation) <= 0 {
			victim, ok = w.main.EvictReturnFrom(slruProtected)
		} else {
			victim, ok = w.main.EvictReturnFrom(slruProbation)
		}
		if !ok {
			break
		}
		w.window.Admit(victim)
	}
	w.main.SetCapacity(w.mainBytes())
}

// increaseMainCache evicts from the shrunken window into the main store
// (protected segment when probation is full) until the window fits its
// new budget, then applies that budget.
func (w *WTinyLFU) increaseMainCache() {
	for w.windowBytes() < w.window.CurrentSize() {
		victim, ok := w.window.EvictReturn()
		if !ok {
			break
		}
		if w.main.SegmentCurrentSize(slruProbation) >= w.main.SegmentCapacity(slruProbation) {
			w.main.SegmentAdmit(slruProtected, victim)
		} else {
			w.main.SegmentAdmit(slruProbation, victim)
		}
	}
	w.window.SetCapacity(w.windowBytes())
}

// Evict is not meaningful for the composite cache; evictions happen
// through the window and main-store flows.
func (w *WTinyLFU) Evict() {}

// Remove is not meaningful for the composite cache.
func (w *WTinyLFU) Remove(req Request) {}

// Capacity returns the total byte budget.
func (w *WTinyLFU) Capacity() uint64 {
	return w.capacity
}

// CurrentSize returns the resident byte total across window and main
// store.
func (w *WTinyLFU) CurrentSize() uint64 {
	return w.window.CurrentSize() + w.main.CurrentSize()
}

// SetParam recognizes "window", the window share in percent (0..100).
func (w *WTinyLFU) SetParam(name, value string) {
	if name != "window" {
		unknownParam(PolicyWTinyLFU, name)
		return
	}
	pct, err := strconv.ParseUint(value, 10, 64)
	if err != nil || pct > 100 {
		invalidParam(PolicyWTinyLFU, name, value, err)
		return
	}
	w.applyWindowPct(pct)
}

// SetEventLog attaches an event log to the window and main store.
func (w *WTinyLFU) SetEventLog(log *EventLog) {
	w.window.SetEventLog(log)
	w.main.SetEventLog(log)
}
