package cache

import (
	"testing"
)

// TestDoorKeeperBasic tests mark and probe
func TestDoorKeeperBasic(t *testing.T) {
	d := NewDoorKeeper(1024, 1, sketchSeed)

	if d.PointEst(5) != 0 {
		t.Error("Fresh id should estimate 0")
	}
	d.Update(5, 1)
	if d.PointEst(5) != 1 {
		t.Error("Marked id should estimate 1")
	}
}

// TestDoorKeeperReset tests that reset clears the filter
func TestDoorKeeperReset(t *testing.T) {
	d := NewDoorKeeper(1024, 1, sketchSeed)

	for i := uint64(0); i < 10; i++ {
		d.Update(i, 1)
	}
	d.Reset()
	for i := uint64(0); i < 10; i++ {
		if d.PointEst(i) != 0 {
			t.Fatalf("Expected 0 for id %d after reset", i)
		}
	}
}

// TestDoorKeeperZeroDelta tests that a zero update is a no-op
func TestDoorKeeperZeroDelta(t *testing.T) {
	d := NewDoorKeeper(1024, 1, sketchSeed)

	d.Update(5, 0)
	if d.PointEst(5) != 0 {
		t.Error("Zero update should not mark the id")
	}
}

// TestDoorKeeperNoFalseNegatives tests that marked ids always probe
// positive
func TestDoorKeeperNoFalseNegatives(t *testing.T) {
	d := NewDoorKeeper(256, 1, sketchSeed)

	for i := uint64(0); i < 100; i++ {
		d.Update(i, 1)
	}
	for i := uint64(0); i < 100; i++ {
		if d.PointEst(i) != 1 {
			t.Fatalf("Marked id %d probed negative", i)
		}
	}
}
