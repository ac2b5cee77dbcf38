package tuner

import (
	"math"
	"sync/atomic"
)

// AtomicFloat64 is a float64 cell that many goroutines may add into.
// The zero value holds 0.
type AtomicFloat64 struct {
	bits atomic.Uint64
}

func (a *AtomicFloat64) Load() float64 { return math.Float64frombits(a.bits.Load()) }

func (a *AtomicFloat64) Store(v float64) { a.bits.Store(math.Float64bits(v)) }

// Add adds delta and returns the new value. It retries until its
// compare-and-swap lands, so concurrent adds are never lost. The swap
// compares raw bits, which keeps a cell holding NaN from spinning forever.
func (a *AtomicFloat64) Add(delta float64) float64 {
	for {
		old := a.bits.Load()
		next := math.Float64frombits(old) + delta
		if a.bits.CompareAndSwap(old, math.Float64bits(next)) {
			return next
		}
	}
}

// Sub subtracts delta and returns the new value.
func (a *AtomicFloat64) Sub(delta float64) float64 { return a.Add(-delta) }

// AtomicPair is a learned weight pair updated through AtomicFloat64.
type AtomicPair [2]AtomicFloat64

func (p *AtomicPair) Load() Vec2 { return Vec2{p[0].Load(), p[1].Load()} }

func (p *AtomicPair) Store(v Vec2) {
	p[0].Store(v[0])
	p[1].Store(v[1])
}
