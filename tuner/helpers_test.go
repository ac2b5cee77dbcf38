package tuner

import (
	"math/rand"

	"kpp-tuner/internal/parallel"
)

// testPos is a hand-built Position.
type testPos struct {
	bk, wk       Square
	list0, list1 []EvalIndex
}

func (p *testPos) KingSquares() (Square, Square)             { return p.bk, p.wk }
func (p *testPos) FeatureLists() ([]EvalIndex, []EvalIndex) { return p.list0, p.list1 }

// a 9x9 board rotated between sides, with a small feature domain
func testLayout(features int) Layout {
	return Layout{
		Squares:  81,
		Features: features,
		Inverse:  func(sq Square) Square { return 80 - sq },
	}
}

func newTestStore(features int) *Store {
	s := NewStore(testLayout(features))
	s.SetParallel(parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1})
	return s
}

func randomPos(rng *rand.Rand, l Layout, n int) *testPos {
	p := &testPos{
		bk: Square(rng.Intn(l.Squares)),
		wk: Square(rng.Intn(l.Squares)),
	}
	for i := 0; i < n; i++ {
		p.list0 = append(p.list0, EvalIndex(rng.Intn(l.Features)))
		p.list1 = append(p.list1, EvalIndex(rng.Intn(l.Features)))
	}
	return p
}

// storesClose reports the first entry where a and b differ by more than tol.
func storesClose(a, b *Store, tol float64) (bool, string) {
	for sq := range a.kpp {
		for k := range a.kpp[sq].cells {
			if !vecClose(a.kpp[sq].cells[k], b.kpp[sq].cells[k], tol) {
				return false, "kpp"
			}
		}
	}
	for k := range a.kkp {
		if !vecClose(a.kkp[k], b.kkp[k], tol) {
			return false, "kkp"
		}
	}
	return true, ""
}

func vecClose(a, b Vec2, tol float64) bool {
	d0, d1 := a[0]-b[0], a[1]-b[1]
	return d0 <= tol && d0 >= -tol && d1 <= tol && d1 >= -tol
}

func storeIsZero(s *Store) bool {
	for sq := range s.kpp {
		for _, v := range s.kpp[sq].cells {
			if v != (Vec2{}) {
				return false
			}
		}
	}
	for _, v := range s.kkp {
		if v != (Vec2{}) {
			return false
		}
	}
	return true
}

// pairMapper sends every KPP entry to one slot per pair and to a shared slot
// with a negative sign; KKP entries go to a slot per feature.
type pairMapper struct {
	features int
}

func (m pairMapper) IndexCapacity() (int, int) { return 4, 2 }

func (m pairMapper) sizes() (int, int) { return 2 + triSize(m.features), 1 + m.features }

func (m pairMapper) KPPIndices(dst []int, ksq Square, i, j EvalIndex) {
	dst[0] = 2 + triIndex(i, j)
	dst[1] = -1
	dst[2] = EndOfList
	dst[3] = 0 // past the terminator, must be ignored
}

func (m pairMapper) KKPIndices(dst []int, bk, wk Square, i EvalIndex) {
	dst[0] = 1 + int(i)
	dst[1] = EndOfList
}
