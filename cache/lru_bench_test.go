package cache

import (
	"testing"

	hlru "github.com/hashicorp/golang-lru/v2"
)

// BenchmarkLRU measures the size-aware LRU on a cyclic workload that
// mixes hits and evictions.
func BenchmarkLRU(b *testing.B) {
	c := NewLRU()
	c.SetCapacity(1024)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := Request{ID: uint64(i % 2048), Size: 1}
		if !c.Lookup(req) {
			c.Admit(req)
		}
	}
}

// BenchmarkHashicorpLRU runs the same workload against the entry-count
// LRU from hashicorp/golang-lru as a baseline.
func BenchmarkHashicorpLRU(b *testing.B) {
	c, err := hlru.New[uint64, struct{}](1024)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k := uint64(i % 2048)
		if _, ok := c.Get(k); !ok {
			c.Add(k, struct{}{})
		}
	}
}

// BenchmarkWTinyLFU measures the composite policy end to end.
func BenchmarkWTinyLFU(b *testing.B) {
	w := NewWTinyLFU()
	w.SetCapacity(1024)
	w.SetParam("window", "10")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := Request{ID: uint64(i % 2048), Size: 1}
		if !w.Lookup(req) {
			w.Admit(req)
		}
	}
}
