package cache

import (
	"math"
	"strconv"
)

// Default admission parameters.
const (
	defaultSizeThreshold = 524288 // ThLRU: objects at or above are refused
	defaultExpC          = 262144 // ExpLRU: e-folding size of the admission probability
	defaultFilterN       = 2      // FilterCache: requests required before admission
)

// ThLRU is LRU with a hard size cutoff on admission: objects of
// sizeThreshold bytes or more never enter the cache.
type ThLRU struct {
	LRU
	sizeThreshold uint64
}

// NewThLRU creates a ThLRU cache with the default threshold.
func NewThLRU() *ThLRU {
	return &ThLRU{
		LRU:           *NewLRU(),
		sizeThreshold: defaultSizeThreshold,
	}
}

// Admit delegates to LRU admission for objects under the threshold.
func (t *ThLRU) Admit(req Request) {
	if req.Size < t.sizeThreshold {
		t.LRU.Admit(req)
	}
}

// SetParam recognizes "t", the log2 of the size threshold in bytes.
func (t *ThLRU) SetParam(name, value string) {
	if name != "t" {
		unknownParam(PolicyThLRU, name)
		return
	}
	exp, err := strconv.ParseFloat(value, 64)
	if err != nil || exp <= 0 {
		invalidParam(PolicyThLRU, name, value, err)
		return
	}
	t.sizeThreshold = uint64(math.Pow(2, exp))
}

// ExpLRU is LRU with probabilistic size-aware admission: an object of size
// s is admitted with probability exp(-s/c), so large objects rarely enter
// while small ones almost always do.
type ExpLRU struct {
	LRU
	cParam float64
}

// NewExpLRU creates an ExpLRU cache with the default c parameter.
func NewExpLRU() *ExpLRU {
	return &ExpLRU{
		LRU:    *NewLRU(),
		cParam: defaultExpC,
	}
}

// Admit samples the admission Bernoulli and on success delegates to LRU.
func (e *ExpLRU) Admit(req Request) {
	admissionProb := math.Exp(-float64(req.Size) / e.cParam)
	if rng.Float64() < admissionProb {
		e.LRU.Admit(req)
	}
}

// SetParam recognizes "c", the log2 of the admission e-folding size.
func (e *ExpLRU) SetParam(name, value string) {
	if name != "c" {
		unknownParam(PolicyExpLRU, name)
		return
	}
	exp, err := strconv.ParseFloat(value, 64)
	if err != nil || exp <= 0 {
		invalidParam(PolicyExpLRU, name, value, err)
		return
	}
	e.cParam = math.Pow(2, exp)
}

// FilterCache admits an object only after it has been requested more than
// n times. The gate counter keeps incrementing on hits as well, so an
// object that was evicted re-enters essentially for free.
type FilterCache struct {
	LRU
	nParam uint64
	filter map[cacheKey]uint64
}

// NewFilterCache creates a FilterCache with the default request gate.
func NewFilterCache() *FilterCache {
	return &FilterCache{
		LRU:    *NewLRU(),
		nParam: defaultFilterN,
		filter: make(map[cacheKey]uint64),
	}
}

// Lookup counts the request toward the admission gate, hit or miss, then
// delegates to LRU.
func (f *FilterCache) Lookup(req Request) bool {
	f.filter[req.key()]++
	return f.LRU.Lookup(req)
}

// Admit delegates to LRU once the object has been seen more than n times.
func (f *FilterCache) Admit(req Request) {
	if f.filter[req.key()] <= f.nParam {
		return
	}
	f.LRU.Admit(req)
}

// SetParam recognizes "n", the number of requests required before
// admission.
func (f *FilterCache) SetParam(name, value string) {
	if name != "n" {
		unknownParam(PolicyFilter, name)
		return
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil || n == 0 {
		invalidParam(PolicyFilter, name, value, err)
		return
	}
	f.nParam = n
}
