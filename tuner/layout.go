package tuner

import "fmt"

// Square is a board cell index in [0, Layout.Squares).
type Square int

// EvalIndex identifies one piece-on-square feature seen from a king.
type EvalIndex int

// Layout fixes the array bounds of every table in this package.
type Layout struct {
	Squares  int
	Features int
	// Inverse maps a square to the square seen from the opposing side.
	Inverse func(Square) Square
}

// Validate reports whether the layout can back a Store.
func (l Layout) Validate() error {
	if l.Squares <= 0 {
		return fmt.Errorf("layout: squares must be positive, got %d", l.Squares)
	}
	if l.Features <= 0 {
		return fmt.Errorf("layout: features must be positive, got %d", l.Features)
	}
	if l.Inverse == nil {
		return fmt.Errorf("layout: nil inverse")
	}
	for sq := Square(0); int(sq) < l.Squares; sq++ {
		inv := l.Inverse(sq)
		if inv < 0 || int(inv) >= l.Squares {
			return fmt.Errorf("layout: inverse(%d) = %d is off the board", sq, inv)
		}
		if l.Inverse(inv) != sq {
			return fmt.Errorf("layout: inverse is not an involution at square %d", sq)
		}
	}
	return nil
}

func (l Layout) checkSquare(sq Square) {
	if sq < 0 || int(sq) >= l.Squares {
		panic(fmt.Sprintf("tuner: square %d out of range [0,%d)", sq, l.Squares))
	}
}

func (l Layout) checkFeature(i EvalIndex) {
	if i < 0 || int(i) >= l.Features {
		panic(fmt.Sprintf("tuner: feature %d out of range [0,%d)", i, l.Features))
	}
}
