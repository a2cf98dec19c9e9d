package cache

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// counterMax is the saturation point of the sketch counters. Frequency
// estimates never exceed it; W-TinyLFU flushes its door-keeper whenever an
// update reports a counter at this ceiling.
const counterMax = 15

// sketchSeed is the fixed hashing seed shared by the frequency sketch and
// the door-keeper, so runs replay identically.
const sketchSeed = 1033096058

// hashID mixes an object id with a per-row seed.
func hashID(id, seed uint64) uint64 {
	var b [16]byte
	binary.LittleEndian.PutUint64(b[:8], id)
	binary.LittleEndian.PutUint64(b[8:], seed)
	return xxhash.Sum64(b[:])
}

// CountMinSketch is an approximate frequency counter: depth rows of width
// counters, each request hashed to one counter per row. Point estimates
// take the minimum across rows, giving bounded one-sided error. Counters
// saturate at counterMax.
type CountMinSketch struct {
	width uint64
	depth uint64
	rows  [][]uint8
	seeds []uint64
}

// NewCountMinSketch creates a sketch of the given width and depth. A zero
// width or depth is raised to one.
func NewCountMinSketch(width, depth, seed uint64) *CountMinSketch {
	if width == 0 {
		width = 1
	}
	if depth == 0 {
		depth = 1
	}
	s := &CountMinSketch{
		width: width,
		depth: depth,
		rows:  make([][]uint8, depth),
		seeds: make([]uint64, depth),
	}
	for i := uint64(0); i < depth; i++ {
		s.rows[i] = make([]uint8, width)
		s.seeds[i] = seed + i
	}
	return s
}

// Update adds delta to the id's counter in every row and returns the new
// minimum across rows, saturating at counterMax.
func (s *CountMinSketch) Update(id, delta uint64) uint64 {
	min := uint64(counterMax)
	for i := uint64(0); i < s.depth; i++ {
		slot := hashID(id, s.seeds[i]) % s.width
		c := uint64(s.rows[i][slot]) + delta
		if c > counterMax {
			c = counterMax
		}
		s.rows[i][slot] = uint8(c)
		if c < min {
			min = c
		}
	}
	return min
}

// PointEst returns the estimated frequency of the id: the minimum counter
// across rows.
func (s *CountMinSketch) PointEst(id uint64) uint64 {
	min := uint64(counterMax)
	for i := uint64(0); i < s.depth; i++ {
		slot := hashID(id, s.seeds[i]) % s.width
		if c := uint64(s.rows[i][slot]); c < min {
			min = c
		}
	}
	return min
}

// Reset zeroes every counter.
func (s *CountMinSketch) Reset() {
	for i := range s.rows {
		row := s.rows[i]
		for j := range row {
			row[j] = 0
		}
	}
}
