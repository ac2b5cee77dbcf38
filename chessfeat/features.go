// Package chessfeat adapts chess boards to the learner: piece feature lists
// seen from both kings, the symmetry mapper onto shared weights, and the
// FEN dataset loader.
package chessfeat

import (
	"errors"
	"math/bits"

	"github.com/dylhunn/dragontoothmg"
	gm "github.com/Oliverans/GooseEngineMG/goosemg"

	"kpp-tuner/tuner"
)

const (
	SquareNum = 64
	// kinds: P,N,B,R,Q for the viewing side, then the same for the other side
	pieceKinds = 10
	FeatureNum = pieceKinds * SquareNum
)

var errMissingKing = errors.New("position needs exactly one king per side")

// Flip mirrors a square between the two sides (a1 <-> a8).
func Flip(sq tuner.Square) tuner.Square { return sq ^ 56 }

// FlipFeature is the same piece seen from the other king.
func FlipFeature(f tuner.EvalIndex) tuner.EvalIndex {
	kind, sq := int(f)/SquareNum, tuner.Square(int(f)%SquareNum)
	if kind < 5 {
		kind += 5
	} else {
		kind -= 5
	}
	return tuner.EvalIndex(kind*SquareNum + int(Flip(sq)))
}

// Layout sizes learner tables for chess features.
func Layout() tuner.Layout {
	return tuner.Layout{Squares: SquareNum, Features: FeatureNum, Inverse: Flip}
}

// Grid prints rank 8 on top, files a..h left to right.
func Grid() tuner.Grid {
	return tuner.Grid{
		Cols: 8,
		Rows: 8,
		Square: func(col, row int) tuner.Square {
			return tuner.Square((7-row)*8 + col)
		},
	}
}

// Position is a chess board reduced to what the learner reads. White plays
// the black slot of the learner (the first king and list0).
type Position struct {
	wk, bk       tuner.Square
	list0, list1 []tuner.EvalIndex
}

func (p *Position) KingSquares() (black, white tuner.Square) { return p.wk, p.bk }

func (p *Position) FeatureLists() (list0, list1 []tuner.EvalIndex) { return p.list0, p.list1 }

// pieceType is 0..4 for P,N,B,R,Q.
func (p *Position) add(sq int, pieceType int, white bool) {
	own0, own1 := 0, 5
	if !white {
		own0, own1 = 5, 0
	}
	p.list0 = append(p.list0, tuner.EvalIndex((pieceType+own0)*SquareNum+sq))
	p.list1 = append(p.list1, tuner.EvalIndex((pieceType+own1)*SquareNum+(sq^56)))
}

// FromGoose reads a goosemg board square by square.
func FromGoose(b *gm.Board) (*Position, error) {
	p := &Position{list0: make([]tuner.EvalIndex, 0, 30), list1: make([]tuner.EvalIndex, 0, 30)}
	var wkings, bkings int
	for sq := 0; sq < SquareNum; sq++ {
		switch b.PieceAt(gm.Square(sq)) {
		case gm.NoPiece:
		case gm.WhiteKing:
			p.wk = tuner.Square(sq)
			wkings++
		case gm.BlackKing:
			p.bk = tuner.Square(sq)
			bkings++
		case gm.WhitePawn:
			p.add(sq, 0, true)
		case gm.WhiteKnight:
			p.add(sq, 1, true)
		case gm.WhiteBishop:
			p.add(sq, 2, true)
		case gm.WhiteRook:
			p.add(sq, 3, true)
		case gm.WhiteQueen:
			p.add(sq, 4, true)
		case gm.BlackPawn:
			p.add(sq, 0, false)
		case gm.BlackKnight:
			p.add(sq, 1, false)
		case gm.BlackBishop:
			p.add(sq, 2, false)
		case gm.BlackRook:
			p.add(sq, 3, false)
		case gm.BlackQueen:
			p.add(sq, 4, false)
		}
	}
	if wkings != 1 || bkings != 1 {
		return nil, errMissingKing
	}
	return p, nil
}

// FromDragontooth reads a dragontoothmg board from its bitboards.
func FromDragontooth(b *dragontoothmg.Board) (*Position, error) {
	if bits.OnesCount64(b.White.Kings) != 1 || bits.OnesCount64(b.Black.Kings) != 1 {
		return nil, errMissingKing
	}
	p := &Position{
		wk:    tuner.Square(bits.TrailingZeros64(b.White.Kings)),
		bk:    tuner.Square(bits.TrailingZeros64(b.Black.Kings)),
		list0: make([]tuner.EvalIndex, 0, 30),
		list1: make([]tuner.EvalIndex, 0, 30),
	}
	white := [5]uint64{b.White.Pawns, b.White.Knights, b.White.Bishops, b.White.Rooks, b.White.Queens}
	black := [5]uint64{b.Black.Pawns, b.Black.Knights, b.Black.Bishops, b.Black.Rooks, b.Black.Queens}
	for sq := 0; sq < SquareNum; sq++ {
		mask := uint64(1) << uint(sq)
		if (b.White.All|b.Black.All)&mask == 0 {
			continue
		}
		for pt := 0; pt < 5; pt++ {
			if white[pt]&mask != 0 {
				p.add(sq, pt, true)
			}
			if black[pt]&mask != 0 {
				p.add(sq, pt, false)
			}
		}
	}
	return p, nil
}
