package cache

import (
	"log/slog"
	"math"
	"strconv"
)

// AdaptSize tuning constants. The iteration counts and clamps in the
// hit-rate model are numerical guards the search depends on; they are part
// of the policy's contract, not free knobs.
const (
	// ewmaDecay is the weight old statistics keep at each reconfiguration;
	// gssR is the golden ratio conjugate (sqrt(5)-1)/2 and gssTol the
	// bracket tolerance of the section search.
	ewmaDecay = 0.3
	gssR      = 0.6180339887498949
	gssV      = 1.0 - gssR
	gssTol    = 1e-4

	defaultAdaptC        = 1 << 15
	defaultMaxIterations = 15
	defaultReconfigEvery = 500000
)

// sizeStats accumulates per-object observations: a (possibly smoothed)
// request count and the object size last seen.
type sizeStats struct {
	requestCount float64
	objSize      uint64
}

// AdaptSize is an LRU whose admission probability exp(-size/c) is retuned
// periodically from observed traffic. Every reconfiguration smooths the
// interval statistics into long-term EWMA state, rebuilds the aligned
// model arrays, and golden-section-searches log2(c) against a closed-form
// hit-rate model.
type AdaptSize struct {
	LRU
	cParam        float64
	statSize      uint64
	maxIterations uint64
	reconfigEvery uint64
	nextReconfig  int64

	intervalMeta map[cacheKey]*sizeStats
	longTermMeta map[cacheKey]*sizeStats

	// Aligned model inputs, rebuilt at each reconfiguration.
	alignedReqCount []float64
	alignedObjSize  []float64
	alignedAdmProb  []float64
}

// NewAdaptSize creates an AdaptSize cache with the default tuning
// parameters.
func NewAdaptSize() *AdaptSize {
	return &AdaptSize{
		LRU:           *NewLRU(),
		cParam:        defaultAdaptC,
		maxIterations: defaultMaxIterations,
		reconfigEvery: defaultReconfigEvery,
		nextReconfig:  defaultReconfigEvery,
		intervalMeta:  make(map[cacheKey]*sizeStats),
		longTermMeta:  make(map[cacheKey]*sizeStats),
	}
}

// Lookup runs the reconfiguration countdown, records the request in the
// interval statistics, then delegates to LRU.
func (a *AdaptSize) Lookup(req Request) bool {
	a.reconfigure()

	k := req.key()
	_, inInterval := a.intervalMeta[k]
	_, inLongTerm := a.longTermMeta[k]
	if !inInterval && !inLongTerm {
		// new object
		a.statSize += req.Size
	}
	info := a.intervalMeta[k]
	if info == nil {
		info = &sizeStats{}
		a.intervalMeta[k] = info
	}
	info.requestCount += 1.0
	info.objSize = req.Size

	return a.LRU.Lookup(req)
}

// Admit rolls the admission Bernoulli exp(-size/c) and on success
// delegates to LRU.
func (a *AdaptSize) Admit(req Request) {
	roll := rng.Float64()
	admitProb := math.Exp(-float64(req.Size) / a.cParam)
	if roll < admitProb {
		a.LRU.Admit(req)
	}
}

// SetParam recognizes "t" (reconfiguration interval in requests) and "i"
// (maximum golden-section iterations).
func (a *AdaptSize) SetParam(name, value string) {
	switch name {
	case "t":
		t, err := strconv.ParseUint(value, 10, 64)
		if err != nil || t <= 1 {
			invalidParam(PolicyAdaptSize, name, value, err)
			return
		}
		a.reconfigEvery = t
		a.nextReconfig = int64(t)
	case "i":
		i, err := strconv.ParseUint(value, 10, 64)
		if err != nil || i <= 1 {
			invalidParam(PolicyAdaptSize, name, value, err)
			return
		}
		a.maxIterations = i
	default:
		unknownParam(PolicyAdaptSize, name)
	}
}

// reconfigure counts down toward the next tuning pass. When it fires, the
// interval statistics are folded into the EWMA state, stale entries are
// pruned, and the admission parameter is retuned. With too little
// observed traffic the pass is postponed by 10000 requests.
func (a *AdaptSize) reconfigure() {
	a.nextReconfig--
	if a.nextReconfig > 0 {
		return
	}
	if a.statSize <= a.capacity*3 {
		// not enough data has been gathered
		a.nextReconfig += 10000
		return
	}
	a.nextReconfig = int64(a.reconfigEvery)

	// smooth stats for objects
	for _, st := range a.longTermMeta {
		st.requestCount *= ewmaDecay
	}

	// persist interval stats in the long-term state
	for k, st := range a.intervalMeta {
		if lt, ok := a.longTermMeta[k]; ok {
			lt.requestCount += (1.0 - ewmaDecay) * st.requestCount
			lt.objSize = st.objSize
		} else {
			a.longTermMeta[k] = &sizeStats{
				requestCount: st.requestCount,
				objSize:      st.objSize,
			}
		}
	}
	a.intervalMeta = make(map[cacheKey]*sizeStats)

	// copy stats into aligned arrays, dropping entries too rare to matter
	a.alignedReqCount = a.alignedReqCount[:0]
	a.alignedObjSize = a.alignedObjSize[:0]
	var totalObjSize float64
	for k, st := range a.longTermMeta {
		if st.requestCount < 0.1 {
			a.statSize -= st.objSize
			delete(a.longTermMeta, k)
			continue
		}
		a.alignedReqCount = append(a.alignedReqCount, st.requestCount)
		a.alignedObjSize = append(a.alignedObjSize, float64(st.objSize))
		totalObjSize += float64(st.objSize)
	}

	slog.Debug("adaptsize reconfiguring",
		"objects", len(a.longTermMeta),
		"log2_total_size", math.Log2(totalObjSize),
		"log2_stat_size", math.Log2(float64(a.statSize)))

	a.tune()
}

// tune golden-section-searches log2(c) over [0, log2(capacity)] for the
// admission parameter maximizing the modeled hit rate. A NaN from the
// model aborts the pass and leaves cParam unchanged.
func (a *AdaptSize) tune() {
	x0 := 0.0
	x1 := math.Log2(float64(a.capacity))
	x2 := x1
	x3 := x1

	// coarse grid scan seeds the bracket
	bestHitRate := 0.0
	for i := 2; float64(i) < x3; i += 4 {
		hitRate := a.modelHitRate(float64(i))
		if hitRate > bestHitRate {
			bestHitRate = hitRate
			x1 = float64(i)
		}
	}

	h1 := bestHitRate
	var h2 float64
	// descend into the larger bracket half
	if x3-x1 > x1-x0 {
		x2 = x1 + gssV*(x3-x1)
		h2 = a.modelHitRate(x2)
	} else {
		x2 = x1
		h2 = h1
		x1 = x0 + gssV*(x1-x0)
		h1 = a.modelHitRate(x1)
	}

	for iter := uint64(0); iter < a.maxIterations && math.Abs(x3-x0) > gssTol*(math.Abs(x1)+math.Abs(x2)); iter++ {
		if math.IsNaN(h1) || math.IsNaN(h2) {
			break
		}
		if h2 > h1 {
			x0, x1 = x1, x2
			x2 = gssR*x1 + gssV*x3
			h1, h2 = h2, a.modelHitRate(x2)
		} else {
			x3, x2 = x2, x1
			x1 = gssR*x2 + gssV*x0
			h2, h1 = h1, a.modelHitRate(x1)
		}
	}

	if math.IsNaN(h1) || math.IsNaN(h2) {
		// numerical failure; keep the previous parameter
		slog.Error("adaptsize hit-rate model returned NaN", "h1", h1, "h2", h2)
	} else if h1 > h2 {
		a.cParam = math.Pow(2, x1)
		slog.Debug("adaptsize chose admission parameter", "c", a.cParam, "log2c", x1)
	} else {
		a.cParam = math.Pow(2, x2)
		slog.Debug("adaptsize chose admission parameter", "c", a.cParam, "log2c", x2)
	}
}

func oP1(t, l, p float64) float64 {
	return l * p * t * (840.0 + 60.0*l*t + 20.0*l*l*t*t + l*l*l*t*t*t)
}

func oP2(t, l, p float64) float64 {
	return 840.0 + 120.0*l*(-3.0+7.0*p)*t + 60.0*l*l*(1.0+p)*t*t +
		4.0*l*l*l*(-1.0+5.0*p)*t*t*t + l*l*l*l*p*t*t*t*t
}

// modelHitRate evaluates the expected object hit ratio under admission
// parameter c = 2^log2c: a fixed-point solve for the characteristic time
// followed by a closed-form Taylor approximation of the per-object hit
// probability under Poisson arrivals. The saturation cutoff, the fixed
// iteration count and the [0,1] clamp keep the search numerically stable.
func (a *AdaptSize) modelHitRate(log2c float64) float64 {
	c := math.Pow(2, log2c)

	var sumVal float64
	for i := range a.alignedReqCount {
		sumVal += a.alignedReqCount[i] * math.Exp(-a.alignedObjSize[i]/c) * a.alignedObjSize[i]
	}
	if sumVal <= 0 {
		return 0
	}
	theT := float64(a.capacity) / sumVal

	a.alignedAdmProb = a.alignedAdmProb[:0]
	for i := range a.alignedReqCount {
		a.alignedAdmProb = append(a.alignedAdmProb, math.Exp(-a.alignedObjSize[i]/c))
	}

	for j := 0; j < 10; j++ {
		if theT > 1e70 {
			break
		}
		theC := 0.0
		for i := range a.alignedReqCount {
			reqTProd := a.alignedReqCount[i] * theT
			if reqTProd > 150 {
				// hit probability is 1, but numerically unstable to compute
				theC += a.alignedObjSize[i]
			} else {
				expTerm := math.Exp(reqTProd) - 1
				expAdmProd := a.alignedAdmProb[i] * expTerm
				theC += a.alignedObjSize[i] * expAdmProd / (1 + expAdmProd)
			}
		}
		theT = float64(a.capacity) * theT / theC
	}

	var weightedHitRatio float64
	for i := range a.alignedReqCount {
		p1 := oP1(theT, a.alignedReqCount[i], a.alignedAdmProb[i])
		p2 := oP2(theT, a.alignedReqCount[i], a.alignedAdmProb[i])
		var ratio float64
		if p1 != 0 && p2 == 0 {
			ratio = 0.0
		} else {
			ratio = p1 / p2
		}
		if ratio < 0 {
			ratio = 0.0
		} else if ratio > 1 {
			ratio = 1.0
		}
		weightedHitRatio += a.alignedReqCount[i] * ratio
	}
	return weightedHitRatio
}
