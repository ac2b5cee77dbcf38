package tuner

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Triangular stores one Vec2 per unordered feature pair {i, j}.
// (i, j) and (j, i) share a slot, so the table holds n(n+1)/2 cells.
type Triangular struct {
	n     int
	cells []Vec2
}

func NewTriangular(n int) Triangular {
	return Triangular{n: n, cells: make([]Vec2, triSize(n))}
}

func triSize[I constraints.Integer](n I) int {
	return int(n) * (int(n) + 1) / 2
}

// triIndex is the offset of the pair in a row-major lower triangle.
func triIndex[I constraints.Integer](i, j I) int {
	if i < j {
		i, j = j, i
	}
	return triSize(i) + int(j)
}

// N is the feature count along each side.
func (t *Triangular) N() int { return t.n }

// Len is the number of stored pairs.
func (t *Triangular) Len() int { return len(t.cells) }

// At returns the cell for the unordered pair {i, j}.
func (t *Triangular) At(i, j EvalIndex) *Vec2 {
	if i < 0 || j < 0 || int(i) >= t.n || int(j) >= t.n {
		panic(fmt.Sprintf("tuner: pair (%d,%d) out of range [0,%d)", i, j, t.n))
	}
	return &t.cells[triIndex(i, j)]
}

func (t *Triangular) add(src *Triangular) {
	for k := range t.cells {
		t.cells[k].add(src.cells[k])
	}
}

func (t *Triangular) clear() {
	clear(t.cells)
}
