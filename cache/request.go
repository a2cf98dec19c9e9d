package cache

// Request describes one access in a replayed stream: an object id and the
// object's size in bytes. Requests are plain values; two requests refer to
// the same object only when both fields match.
type Request struct {
	ID   uint64
	Size uint64
}

// cacheKey is the identity under which objects are indexed. It carries the
// size as well as the id: an admission for a known id with a different size
// is a different object, and the old one leaves by ordinary eviction.
type cacheKey struct {
	id   uint64
	size uint64
}

func (r Request) key() cacheKey {
	return cacheKey{id: r.ID, size: r.Size}
}
