package tuner

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kpp-tuner/internal/parallel"
)

func TestApplyIndices(t *testing.T) {
	p := NewParamTable(8, 0)
	applyIndices([]int{3, -2, EndOfList, 5}, p.KPPWeight, Vec2{1.5, 2})

	assert.Equal(t, Vec2{1.5, 2}, p.KPP[3].Load())
	assert.Equal(t, Vec2{-1.5, 2}, p.KPP[2].Load())
	assert.Equal(t, Vec2{}, p.KPP[5].Load(), "ids after EndOfList are ignored")
}

func TestApplyIndicesEmptyList(t *testing.T) {
	p := NewParamTable(2, 0)
	applyIndices([]int{EndOfList, 1}, p.KPPWeight, Vec2{1, 1})
	assert.Equal(t, Vec2{}, p.KPP[1].Load())
}

func TestApplyIndicesMissingTerminatorPanics(t *testing.T) {
	p := NewParamTable(4, 0)
	assert.Panics(t, func() { applyIndices([]int{1, 2}, p.KPPWeight, Vec2{1, 1}) })
	assert.Panics(t, func() { applyIndices([]int{1, unwritten, EndOfList}, p.KPPWeight, Vec2{1, 1}) })
}

func TestLowerConservation(t *testing.T) {
	g := newTestStore(5)
	fillStore(g, 3, 120)
	m := pairMapper{features: 5}
	kppN, kkpN := m.sizes()
	p := NewParamTable(kppN, kkpN)

	Lower(p, m, g)

	// route every raw entry by hand
	wantKPP := make([]Vec2, kppN)
	wantKKP := make([]Vec2, kkpN)
	kppCap, kkpCap := m.IndexCapacity()
	ids := make([]int, max(kppCap, kkpCap))
	route := func(want []Vec2, ids []int, v Vec2) {
		for _, id := range ids {
			if id == EndOfList {
				return
			}
			if id >= 0 {
				want[id].add(v)
			} else {
				want[-id].addMirrored(v)
			}
		}
	}
	l := g.Layout()
	for sq := Square(0); int(sq) < l.Squares; sq++ {
		for i := EvalIndex(0); int(i) < l.Features; i++ {
			for j := EvalIndex(0); j <= i; j++ {
				m.KPPIndices(ids[:kppCap], sq, i, j)
				route(wantKPP, ids[:kppCap], g.KPP(sq, i, j))
			}
		}
	}
	for bk := Square(0); int(bk) < l.Squares; bk++ {
		for wk := Square(0); int(wk) < l.Squares; wk++ {
			for i := EvalIndex(0); int(i) < l.Features; i++ {
				m.KKPIndices(ids[:kkpCap], bk, wk, i)
				route(wantKKP, ids[:kkpCap], g.KKP(bk, wk, i))
			}
		}
	}

	for id := range wantKPP {
		got := p.KPP[id].Load()
		assert.InDelta(t, wantKPP[id][0], got[0], 1e-9, "kpp %d", id)
		assert.InDelta(t, wantKPP[id][1], got[1], 1e-9, "kpp %d", id)
	}
	for id := range wantKKP {
		got := p.KKP[id].Load()
		assert.InDelta(t, wantKKP[id][0], got[0], 1e-9, "kkp %d", id)
		assert.InDelta(t, wantKKP[id][1], got[1], 1e-9, "kkp %d", id)
	}
	assert.Equal(t, Vec2{}, p.KPP[0].Load(), "slot 0 is never referenced")
}

func TestLowerSequentialAndParallelAgree(t *testing.T) {
	g := newTestStore(4)
	fillStore(g, 5, 100)
	m := pairMapper{features: 4}

	par := NewParamTable(m.sizes())
	Lower(par, m, g)

	g.SetParallel(parallel.Sequential())
	seq := NewParamTable(m.sizes())
	Lower(seq, m, g)

	for id := range seq.KPP {
		a, b := seq.KPP[id].Load(), par.KPP[id].Load()
		assert.InDelta(t, a[0], b[0], 1e-9)
		assert.InDelta(t, a[1], b[1], 1e-9)
	}
	for id := range seq.KKP {
		a, b := seq.KKP[id].Load(), par.KKP[id].Load()
		assert.InDelta(t, a[0], b[0], 1e-9)
		assert.InDelta(t, a[1], b[1], 1e-9)
	}
}

// oneSlotMapper sends everything to slot 1, so every partition collides.
type oneSlotMapper struct{}

func (oneSlotMapper) IndexCapacity() (int, int) { return 2, 2 }

func (oneSlotMapper) KPPIndices(dst []int, _ Square, _, _ EvalIndex) {
	dst[0], dst[1] = 1, EndOfList
}

func (oneSlotMapper) KKPIndices(dst []int, _, _ Square, _ EvalIndex) {
	dst[0], dst[1] = 1, EndOfList
}

func TestLowerCollidingWrites(t *testing.T) {
	g := newTestStore(3)
	// every triangular and king-pair cell holds (0.5, 0.25)
	for sq := range g.kpp {
		for k := range g.kpp[sq].cells {
			g.kpp[sq].cells[k] = Vec2{0.5, 0.25}
		}
	}
	for k := range g.kkp {
		g.kkp[k] = Vec2{0.5, 0.25}
	}
	p := NewParamTable(2, 2)

	Lower(p, oneSlotMapper{}, g)

	kppCells := float64(81 * triSize(3))
	kkpCells := float64(len(g.kkp))
	assert.Equal(t, Vec2{0.5 * kppCells, 0.25 * kppCells}, p.KPP[1].Load())
	assert.Equal(t, Vec2{0.5 * kkpCells, 0.25 * kkpCells}, p.KKP[1].Load())
}

// lazyMapper forgets the terminator on one pair.
type lazyMapper struct{ pairMapper }

func (m lazyMapper) KPPIndices(dst []int, ksq Square, i, j EvalIndex) {
	if ksq == 40 && i == 2 && j == 1 {
		dst[0] = 2
		return
	}
	m.pairMapper.KPPIndices(dst, ksq, i, j)
}

func TestLowerUnterminatedListPanics(t *testing.T) {
	g := newTestStore(3)
	g.SetParallel(parallel.Sequential())
	m := lazyMapper{pairMapper{features: 3}}
	p := NewParamTable(m.sizes())
	assert.Panics(t, func() { Lower(p, m, g) })
}

func TestEffectiveMatchesLoweredUnitGradient(t *testing.T) {
	m := pairMapper{features: 4}
	p := NewParamTable(m.sizes())
	p.KPP[1].Store(Vec2{2, 3})
	p.KPP[2+triIndex(3, 1)].Store(Vec2{5, 7})

	got := EffectiveKPP(m, p, 0, 1, 3)
	assert.Equal(t, Vec2{5 - 2, 7 + 3}, got)

	p.KKP[3].Store(Vec2{1, -1})
	assert.Equal(t, Vec2{1, -1}, EffectiveKKP(m, p, 5, 6, 2))
}

// The lowered gradient of one position is dE/dw of Evaluator.Eval.
func TestLowerIsGradientOfEval(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	l := testLayout(4)
	m := pairMapper{features: 4}
	kppN, kkpN := m.sizes()

	for trial := 0; trial < 5; trial++ {
		pos := randomPos(rng, l, 2+rng.Intn(4))
		stm := 1.0
		if trial%2 == 1 {
			stm = -1
		}

		g := NewStore(l)
		g.Accumulate(pos, Vec2{1, stm})
		grads := NewParamTable(kppN, kkpN)
		Lower(grads, m, g)

		w := NewParamTable(kppN, kkpN)
		ev := NewEvaluator(l, m, w)
		for id := range w.KPP {
			for c := 0; c < 2; c++ {
				var unit Vec2
				unit[c] = 1
				w.KPP[id].Store(unit)
				require.InDelta(t, grads.KPP[id].Load()[c], ev.Eval(pos, stm), 1e-9, "kpp %d comp %d", id, c)
				w.KPP[id].Store(Vec2{})
			}
		}
		for id := range w.KKP {
			for c := 0; c < 2; c++ {
				var unit Vec2
				unit[c] = 1
				w.KKP[id].Store(unit)
				require.InDelta(t, grads.KKP[id].Load()[c], ev.Eval(pos, stm), 1e-9, "kkp %d comp %d", id, c)
				w.KKP[id].Store(Vec2{})
			}
		}
	}
}

func TestParamTableClearAndShape(t *testing.T) {
	p := NewParamTable(3, 2)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.KPPWeight(1)[0].Add(1)
		}()
	}
	wg.Wait()
	assert.Equal(t, 4.0, p.KPP[1][0].Load())

	p.Clear()
	assert.Equal(t, Vec2{}, p.KPP[1].Load())
	assert.True(t, p.SameShape(NewParamTable(3, 2)))
	assert.False(t, p.SameShape(NewParamTable(3, 1)))
}
