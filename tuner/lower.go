package tuner

import (
	"fmt"
	"math"

	"kpp-tuner/internal/parallel"
)

// EndOfList terminates an identifier list written by an IndexMapper.
const EndOfList = math.MaxInt

// unwritten fills a list before the mapper runs, so a mapper that stops
// without writing EndOfList is caught.
const unwritten = math.MinInt

// IndexMapper resolves a raw store entry to the compressed identifiers it
// feeds. A mapper writes ids into dst and terminates them with EndOfList
// within dst's length. A negative id -k refers to slot k with component 0
// negated, so slot 0 can only be referenced with a positive sign.
//
// Implementations must be safe for concurrent use.
type IndexMapper interface {
	KPPIndices(dst []int, ksq Square, i, j EvalIndex)
	KKPIndices(dst []int, bk, wk Square, i EvalIndex)
	// IndexCapacity is the list length each call needs, terminator included.
	IndexCapacity() (kpp, kkp int)
}

// Lower adds every entry of g into the compressed weights of w as directed
// by m. Work is split by king square and all writes go through AtomicPair, so
// several raw entries may land on one weight at the same time.
func Lower(w WeightStore, m IndexMapper, g *Store) {
	l := g.layout
	kppCap, kkpCap := m.IndexCapacity()

	parallel.For(l.Squares, func(k int) {
		ksq := Square(k)
		ids := make([]int, kppCap)
		t := &g.kpp[ksq]
		for i := EvalIndex(0); int(i) < l.Features; i++ {
			for j := EvalIndex(0); j <= i; j++ {
				resetIndices(ids)
				m.KPPIndices(ids, ksq, i, j)
				applyIndices(ids, w.KPPWeight, *t.At(i, j))
			}
		}
	}, g.par)

	parallel.For(l.Squares, func(k int) {
		bk := Square(k)
		ids := make([]int, kkpCap)
		for wk := Square(0); int(wk) < l.Squares; wk++ {
			for i := EvalIndex(0); int(i) < l.Features; i++ {
				resetIndices(ids)
				m.KKPIndices(ids, bk, wk, i)
				applyIndices(ids, w.KKPWeight, *g.kkpAt(bk, wk, i))
			}
		}
	}, g.par)
}

func resetIndices(ids []int) {
	for k := range ids {
		ids[k] = unwritten
	}
}

// applyIndices routes v to every id before EndOfList.
func applyIndices(ids []int, slot func(int) *AtomicPair, v Vec2) {
	for _, id := range ids {
		switch {
		case id == EndOfList:
			return
		case id == unwritten:
			panic("tuner: index list ended without EndOfList")
		case id >= 0:
			p := slot(id)
			p[0].Add(v[0])
			p[1].Add(v[1])
		default:
			p := slot(-id)
			p[0].Sub(v[0])
			p[1].Add(v[1])
		}
	}
	panic(fmt.Sprintf("tuner: no EndOfList within %d indices", len(ids)))
}

// effective folds the weights behind ids into the value one raw entry sees.
func effective(ids []int, slot func(int) *AtomicPair) Vec2 {
	var v Vec2
	for _, id := range ids {
		switch {
		case id == EndOfList:
			return v
		case id == unwritten:
			panic("tuner: index list ended without EndOfList")
		case id >= 0:
			v.add(slot(id).Load())
		default:
			v.addMirrored(slot(-id).Load())
		}
	}
	panic(fmt.Sprintf("tuner: no EndOfList within %d indices", len(ids)))
}

// EffectiveKPP is the weight pair the raw KPP entry (ksq, i, j) evaluates to.
func EffectiveKPP(m IndexMapper, w WeightStore, ksq Square, i, j EvalIndex) Vec2 {
	n, _ := m.IndexCapacity()
	ids := make([]int, n)
	resetIndices(ids)
	m.KPPIndices(ids, ksq, i, j)
	return effective(ids, w.KPPWeight)
}

// EffectiveKKP is the weight pair the raw KKP entry (bk, wk, i) evaluates to.
func EffectiveKKP(m IndexMapper, w WeightStore, bk, wk Square, i EvalIndex) Vec2 {
	_, n := m.IndexCapacity()
	ids := make([]int, n)
	resetIndices(ids)
	m.KKPIndices(ids, bk, wk, i)
	return effective(ids, w.KKPWeight)
}
