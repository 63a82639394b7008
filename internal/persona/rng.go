package persona

import "math/rand/v2"

// MaxAutoSeed bounds the seed drawn when the caller does not supply one.
const MaxAutoSeed = 10_000_000

// rngContext is the random source for a single composition. It is never shared
// between calls.
type rngContext struct {
	seed int64
	r    *rand.Rand
}

func newRNGContext(seed *int64) *rngContext {
	var s int64
	if seed != nil {
		s = *seed
	} else {
		s = rand.Int64N(MaxAutoSeed) + 1
	}
	return &rngContext{
		seed: s,
		r:    rand.New(rand.NewPCG(uint64(s), uint64(s)^0x9e3779b97f4a7c15)),
	}
}

// choose picks uniformly from items, or returns "" when there is nothing to pick.
func (c *rngContext) choose(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[c.r.IntN(len(items))]
}
