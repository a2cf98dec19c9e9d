package cache

import "log/slog"

// Cache is the contract every simulated policy implements.
// Caches are single-threaded by design; concurrent access must be guarded
// by the caller.
type Cache interface {
	// Lookup searches for the requested object. On a hit the policy may
	// reorder its internal state. Single-list policies never change the
	// resident byte total on lookup; the segmented policies (S4LRU, SLRU,
	// W-TinyLFU) can evict objects while promoting a hit or, in W-TinyLFU,
	// while the hill climber resizes the window, which lowers it.
	Lookup(req Request) bool

	// Admit offers the object to the cache after a miss. Admission may be
	// refused (size thresholds, probabilistic gates, frequency filters).
	// A refused request adds nothing; TinyLFU keeps any evictions it made
	// before its frequency comparison failed.
	Admit(req Request)

	// Evict removes the policy's preferred victim. On an empty cache it is
	// a no-op. W-TinyLFU implements it as a no-op.
	Evict()

	// Remove evicts the specific object if resident, and is otherwise a
	// no-op. W-TinyLFU implements it as a no-op.
	Remove(req Request)

	// SetCapacity sets the byte budget. Call it before traffic begins.
	SetCapacity(bytes uint64)
	Capacity() uint64
	CurrentSize() uint64

	// SetParam applies a policy tuning parameter. Unknown names emit a
	// diagnostic and are otherwise ignored.
	SetParam(name, value string)
}

// Policy names accepted by NewCache.
const (
	PolicyLRU       = "lru"
	PolicyFIFO      = "fifo"
	PolicyThLRU     = "thlru"
	PolicyExpLRU    = "explru"
	PolicyFilter    = "filter"
	PolicyAdaptSize = "adaptsize"
	PolicyS4LRU     = "s4lru"
	PolicySLRU      = "slru"
	PolicyTinyLFU   = "tinylfu"
	PolicyWTinyLFU  = "wtinylfu"
)

// KnownPolicies lists every policy name NewCache accepts.
func KnownPolicies() []string {
	return []string{
		PolicyLRU, PolicyFIFO, PolicyThLRU, PolicyExpLRU, PolicyFilter,
		PolicyAdaptSize, PolicyS4LRU, PolicySLRU, PolicyTinyLFU, PolicyWTinyLFU,
	}
}

// NewCache creates a cache with the given replacement policy.
func NewCache(policy string) (Cache, error) {
	switch policy {
	case PolicyLRU:
		return NewLRU(), nil
	case PolicyFIFO:
		return NewFIFO(), nil
	case PolicyThLRU:
		return NewThLRU(), nil
	case PolicyExpLRU:
		return NewExpLRU(), nil
	case PolicyFilter:
		return NewFilterCache(), nil
	case PolicyAdaptSize:
		return NewAdaptSize(), nil
	case PolicyS4LRU:
		return NewS4LRU(), nil
	case PolicySLRU:
		return NewSLRU(), nil
	case PolicyTinyLFU:
		return NewTinyLFU(), nil
	case PolicyWTinyLFU:
		return NewWTinyLFU(), nil
	default:
		return nil, NewCacheError(ErrCodeUnknownPolicy, "NewCache", "unknown cache policy: "+policy)
	}
}

// eventLogger is implemented by caches that can attach an event log.
type eventLogger interface {
	SetEventLog(l *EventLog)
}

// AttachEventLog attaches l to c if the policy supports event logging.
func AttachEventLog(c Cache, l *EventLog) {
	if el, ok := c.(eventLogger); ok {
		el.SetEventLog(l)
	}
}

// unknownParam reports an unrecognized SetParam name on the error stream.
func unknownParam(policy, name string) {
	slog.Warn("unrecognized parameter", "policy", policy, "param", name)
}

// invalidParam reports a parameter value that failed validation.
func invalidParam(policy, name, value string, err error) {
	slog.Warn("invalid parameter value", "policy", policy, "param", name, "value", value, "error", err)
}
