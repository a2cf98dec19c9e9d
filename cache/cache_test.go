package cache

import (
	"testing"
)

// TestNewCacheKnownPolicies tests the factory against every advertised
// policy name
func TestNewCacheKnownPolicies(t *testing.T) {
	for _, policy := range KnownPolicies() {
		c, err := NewCache(policy)
		if err != nil {
			t.Errorf("Policy %q: unexpected error %v", policy, err)
			continue
		}
		if c == nil {
			t.Errorf("Policy %q: nil cache", policy)
		}
	}
}

// TestNewCacheUnknownPolicy tests the factory error path
func TestNewCacheUnknownPolicy(t *testing.T) {
	_, err := NewCache("belady")
	if err == nil {
		t.Fatal("Expected an error for an unknown policy")
	}
	var want error = &CacheError{Code: ErrCodeUnknownPolicy}
	cerr, ok := err.(*CacheError)
	if !ok {
		t.Fatalf("Expected *CacheError, got %T", err)
	}
	if !cerr.Is(want) {
		t.Errorf("Expected code %d, got %d", ErrCodeUnknownPolicy, cerr.Code)
	}
}

// lcg is a tiny deterministic generator so workload tests do not disturb
// the package-wide seed.
type lcg uint64

func (l *lcg) next() uint64 {
	*l = *l*6364136223846793005 + 1442695040888963407
	return uint64(*l >> 33)
}

// TestUniversalInvariants replays a mixed workload against every policy
// and checks the contract: the byte budget is never exceeded, and
// oversized objects never become resident
func TestUniversalInvariants(t *testing.T) {
	Seed(19)
	defer Seed(DefaultSeed)

	for _, policy := range KnownPolicies() {
		t.Run(policy, func(t *testing.T) {
			c, err := NewCache(policy)
			if err != nil {
				t.Fatal(err)
			}
			c.SetCapacity(1000)

			r := lcg(4)
			for i := 0; i < 3000; i++ {
				req := Request{ID: r.next() % 60, Size: r.next()%280 + 1}
				if r.next()%50 == 0 {
					// oversized
					req.Size = 1500
				}
				if !c.Lookup(req) {
					c.Admit(req)
				}
				if c.CurrentSize() > c.Capacity() {
					t.Fatalf("Current size %d exceeds capacity %d after request %d",
						c.CurrentSize(), c.Capacity(), i)
				}
				if req.Size > c.Capacity() && c.Lookup(req) {
					t.Fatalf("Oversized object %d became resident", req.ID)
				}
			}
		})
	}
}

// TestLookupSizeNeutral tests that lookups leave the byte total alone on
// the single-list policies
func TestLookupSizeNeutral(t *testing.T) {
	for _, policy := range []string{
		PolicyLRU, PolicyFIFO, PolicyThLRU, PolicyExpLRU, PolicyFilter, PolicyTinyLFU,
	} {
		t.Run(policy, func(t *testing.T) {
			c, err := NewCache(policy)
			if err != nil {
				t.Fatal(err)
			}
			c.SetCapacity(1000)

			r := lcg(9)
			for i := 0; i < 200; i++ {
				req := Request{ID: r.next() % 20, Size: r.next()%90 + 1}
				if !c.Lookup(req) {
					c.Admit(req)
				}
			}
			for i := uint64(0); i < 30; i++ {
				before := c.CurrentSize()
				c.Lookup(Request{ID: i, Size: i%90 + 1})
				if c.CurrentSize() != before {
					t.Fatalf("Lookup changed current size from %d to %d", before, c.CurrentSize())
				}
			}
		})
	}
}

// TestSetParamUnknownIgnored tests that unknown parameters change nothing
func TestSetParamUnknownIgnored(t *testing.T) {
	for _, policy := range KnownPolicies() {
		c, err := NewCache(policy)
		if err != nil {
			t.Fatal(err)
		}
		c.SetCapacity(500)
		c.SetParam("bogus", "123")
		if c.Capacity() != 500 {
			t.Errorf("Policy %q: capacity changed by unknown parameter", policy)
		}
	}
}
