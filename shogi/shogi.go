// Package shogi holds the board geometry the learner was sized for:
// 81 squares, a 180 degree rotation between the two sides, and the
// 1548-entry piece feature domain.
package shogi

import "kpp-tuner/tuner"

const (
	FileNum   = 9
	RankNum   = 9
	SquareNum = FileNum * RankNum

	// FEEnd is the number of piece-on-square features seen from one king.
	FEEnd = 1548
)

// Square 11 (file 1, rank 1) is 0; squares advance down a file first.
const SQ11 tuner.Square = 0

// MakeSquare returns the square on file and rank, both counted from 0.
func MakeSquare(file, rank int) tuner.Square {
	return tuner.Square(file*RankNum + rank)
}

// Inverse rotates sq by 180 degrees, the view from the other side.
func Inverse(sq tuner.Square) tuner.Square {
	return SquareNum - 1 - sq
}

// Layout sizes learner tables for full shogi features.
func Layout() tuner.Layout {
	return LayoutWith(FEEnd)
}

// LayoutWith keeps the shogi board but uses a smaller feature domain.
func LayoutWith(features int) tuner.Layout {
	return tuner.Layout{Squares: SquareNum, Features: features, Inverse: Inverse}
}

// Grid prints files 9..1 from left to right and ranks 1..9 from top down.
func Grid() tuner.Grid {
	return tuner.Grid{
		Cols: FileNum,
		Rows: RankNum,
		Square: func(col, row int) tuner.Square {
			return MakeSquare(FileNum-1-col, row)
		},
	}
}
