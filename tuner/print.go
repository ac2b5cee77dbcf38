package tuner

import (
	"bufio"
	"fmt"
	"io"
	"math"
)

// Grid lays board squares out for printing. Square(col, row) is the square
// drawn at column col of row row, both counted from the top left.
type Grid struct {
	Cols, Rows int
	Square     func(col, row int) Square
}

// PrintEvalTable writes value for every square of g as rounded integers,
// one board row per line, followed by a blank line.
func PrintEvalTable(w io.Writer, g Grid, value func(Square) float64) error {
	bw := bufio.NewWriter(w)
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			fmt.Fprintf(bw, "%5d", int(math.Round(value(g.Square(c, r)))))
		}
		bw.WriteByte('\n')
	}
	bw.WriteByte('\n')
	return bw.Flush()
}

// PrintKPPSlice prints component comp of the effective KPP weight for king
// square ksq, first feature p0 and second feature p1Base+sq over the board.
func PrintKPPSlice(w io.Writer, g Grid, m IndexMapper, ws WeightStore, ksq Square, p0, p1Base EvalIndex, comp int) error {
	return PrintEvalTable(w, g, func(sq Square) float64 {
		return EffectiveKPP(m, ws, ksq, p0, p1Base+EvalIndex(sq))[comp]
	})
}
