package vaire

import (
	"math/rand"
	"sync"
	"time"
)

// Chooser picks a number in [0, n). The seam selector consults it whenever
// several last row columns tie on the minimum accumulated cost, so tests can
// inject a deterministic stub and seeded runs stay reproducible.
type Chooser interface {
	Choice(n int) int
}

// lockedChooser is the production chooser: a seeded pseudo random source
// guarded by a mutex, shared process wide.
type lockedChooser struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewChooser returns a chooser seeded with the provided value. A zero seed
// derives the seed from the wall clock, any other value makes the run
// reproducible.
func NewChooser(seed int64) Chooser {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedChooser{rnd: rand.New(rand.NewSource(seed))}
}

func (c *lockedChooser) Choice(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rnd.Intn(n)
}
