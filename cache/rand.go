package cache

import "math/rand"

// DefaultSeed seeds the process-wide generator so that replays reproduce
// unless the caller asks for a different seed.
const DefaultSeed = 1

// rng drives every randomized decision in the package: the ExpLRU
// admission Bernoulli and the AdaptSize admission roll. One generator,
// seeded once, keeps a simulation deterministic end to end.
var rng = rand.New(rand.NewSource(DefaultSeed))

// Seed reseeds the process-wide generator. Call it before traffic begins;
// reseeding mid-run restarts the random sequence.
func Seed(seed int64) {
	rng = rand.New(rand.NewSource(seed))
}
