package cache

// DoorKeeper is a bloom-like first-seen filter: a byte-packed bit array
// with a small number of hash probes. It blocks one-hit wonders from the
// frequency sketch and from admission; a periodic Reset bounds its false
// positive rate.
type DoorKeeper struct {
	bits   []byte
	width  uint64
	hashes uint64
	seed   uint64
}

// NewDoorKeeper creates a door-keeper with width bits and the given
// number of hash probes. A zero width or hash count is raised to one.
func NewDoorKeeper(width, hashes, seed uint64) *DoorKeeper {
	if width == 0 {
		width = 1
	}
	if hashes == 0 {
		hashes = 1
	}
	return &DoorKeeper{
		bits:   make([]byte, (width+7)/8),
		width:  width,
		hashes: hashes,
		seed:   seed,
	}
}

// Update marks the id as seen. The delta is accepted for interface
// symmetry with the sketch; any positive update sets the bits.
func (d *DoorKeeper) Update(id, delta uint64) {
	if delta == 0 {
		return
	}
	for i := uint64(0); i < d.hashes; i++ {
		bit := hashID(id, d.seed+i) % d.width
		d.bits[bit/8] |= 1 << (bit % 8)
	}
}

// PointEst reports 1 if the id may have been seen since the last reset,
// 0 if it definitely has not.
func (d *DoorKeeper) PointEst(id uint64) uint64 {
	for i := uint64(0); i < d.hashes; i++ {
		bit := hashID(id, d.seed+i) % d.width
		if d.bits[bit/8]&(1<<(bit%8)) == 0 {
			return 0
		}
	}
	return 1
}

// Reset clears the filter.
func (d *DoorKeeper) Reset() {
	for i := range d.bits {
		d.bits[i] = 0
	}
}
