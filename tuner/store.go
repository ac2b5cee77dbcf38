package tuner

import (
	"fmt"

	"kpp-tuner/internal/parallel"
)

// Store collects gradients for one batch.
//
// kpp holds one triangular table per king square for piece pairs.
// kkp is a flat [black king][white king][feature] table.
//
// A Store is not safe for concurrent Accumulate calls; give every worker its
// own Store and fold them together with Merge.
type Store struct {
	layout Layout
	kpp    []Triangular
	kkp    []Vec2
	par    parallel.Config
}

// NewStore allocates a zeroed store. It panics if the layout is invalid.
func NewStore(layout Layout) *Store {
	if err := layout.Validate(); err != nil {
		panic(err)
	}
	s := &Store{
		layout: layout,
		kpp:    make([]Triangular, layout.Squares),
		kkp:    make([]Vec2, layout.Squares*layout.Squares*layout.Features),
		par:    parallel.DefaultConfig(),
	}
	for sq := range s.kpp {
		s.kpp[sq] = NewTriangular(layout.Features)
	}
	return s
}

func (s *Store) Layout() Layout { return s.layout }

// SetParallel sets how Merge and Lower split work across goroutines.
func (s *Store) SetParallel(cfg parallel.Config) { s.par = cfg }

// KPP returns the pair entry for king square sq; KPP(sq, i, j) == KPP(sq, j, i).
func (s *Store) KPP(sq Square, i, j EvalIndex) Vec2 {
	s.layout.checkSquare(sq)
	return *s.kpp[sq].At(i, j)
}

// KKP returns the king-pair entry.
func (s *Store) KKP(bk, wk Square, i EvalIndex) Vec2 {
	return *s.kkpAt(bk, wk, i)
}

func (s *Store) kkpAt(bk, wk Square, i EvalIndex) *Vec2 {
	s.layout.checkSquare(bk)
	s.layout.checkSquare(wk)
	s.layout.checkFeature(i)
	return &s.kkp[(int(bk)*s.layout.Squares+int(wk))*s.layout.Features+int(i)]
}

// Accumulate adds delta for every piece pair of pos.
//
// The pair (list0[i], list0[j]) gets delta under the black king square. The
// pair (list1[i], list1[j]) gets delta with component 0 negated under the
// inverse of the white king square. Every list0[i] also gets delta under
// (black king, white king).
func (s *Store) Accumulate(pos Position, delta Vec2) {
	bk, wk := pos.KingSquares()
	list0, list1 := pos.FeatureLists()
	if len(list0) != len(list1) {
		panic(fmt.Sprintf("tuner: feature lists differ in length (%d vs %d)", len(list0), len(list1)))
	}
	s.layout.checkSquare(bk)
	s.layout.checkSquare(wk)
	black := &s.kpp[bk]
	white := &s.kpp[s.layout.Inverse(wk)]

	for i := range list0 {
		k0, k1 := list0[i], list1[i]
		for j := 0; j < i; j++ {
			black.At(k0, list0[j]).add(delta)
			white.At(k1, list1[j]).addMirrored(delta)
		}
		s.kkpAt(bk, wk, k0).add(delta)
	}
}

// Clear resets every entry to zero so the store can serve the next batch.
func (s *Store) Clear() {
	parallel.For(len(s.kpp), func(sq int) {
		s.kpp[sq].clear()
	}, s.par)
	clear(s.kkp)
}

// Merge adds every entry of src into s. Nothing else may touch s or src
// while it runs. Both stores must share a layout shape.
func (s *Store) Merge(src *Store) {
	if s.layout.Squares != src.layout.Squares || s.layout.Features != src.layout.Features {
		panic(fmt.Sprintf("tuner: merge shape mismatch (%dx%d vs %dx%d)",
			s.layout.Squares, s.layout.Features, src.layout.Squares, src.layout.Features))
	}
	parallel.For(len(s.kpp), func(sq int) {
		s.kpp[sq].add(&src.kpp[sq])
	}, s.par)
	for k := range s.kkp {
		s.kkp[k].add(src.kkp[k])
	}
}
