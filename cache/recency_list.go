package cache

import "container/list"

// recencyList orders resident objects from most recently used (front) to
// least recently used (back) and indexes them by object identity for O(1)
// lookup, splice and removal. It also keeps the byte total of everything it
// holds. The list and the index are updated together; an object is either
// in both or in neither.
type recencyList struct {
	ll    *list.List
	index map[cacheKey]*list.Element
	bytes uint64
}

func newRecencyList() *recencyList {
	return &recencyList{
		ll:    list.New(),
		index: make(map[cacheKey]*list.Element),
	}
}

// get returns the list element for the given identity, if resident.
func (r *recencyList) get(k cacheKey) (*list.Element, bool) {
	e, ok := r.index[k]
	return e, ok
}

// touch splices an element to the front, marking it most recently used.
func (r *recencyList) touch(e *list.Element) {
	r.ll.MoveToFront(e)
}

// pushFront inserts a new object at the MRU position.
func (r *recencyList) pushFront(req Request) {
	e := r.ll.PushFront(req)
	r.index[req.key()] = e
	r.bytes += req.Size
}

// remove unlinks an element and drops its index entry, returning the
// object it held.
func (r *recencyList) remove(e *list.Element) Request {
	req := e.Value.(Request)
	r.ll.Remove(e)
	delete(r.index, req.key())
	r.bytes -= req.Size
	return req
}

// back returns the LRU element, or nil when empty.
func (r *recencyList) back() *list.Element {
	return r.ll.Back()
}

func (r *recencyList) len() int {
	return r.ll.Len()
}
