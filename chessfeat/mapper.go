package chessfeat

import "kpp-tuner/tuner"

const (
	kingBuckets = 4
	ppSize      = FeatureNum * (FeatureNum + 1) / 2
	kpSize      = SquareNum * FeatureNum

	// Slot 0 of each table is never used, so every id can carry a sign.
	KPPTableSize = 1 + (1+kingBuckets)*ppSize
	KKPTableSize = 1 + kpSize

	indicesMax = 3
)

// Mapper shares raw entries between symmetric weights.
//
// A KPP entry feeds a king-independent piece pair weight and a piece pair
// weight for the king's board quadrant. A KKP entry feeds the piece weight
// relative to the first king, and with a negative sign the same piece seen
// from the second king.
type Mapper struct{}

func (Mapper) IndexCapacity() (kpp, kkp int) { return indicesMax, indicesMax }

// TableSizes returns the lengths a ParamTable needs for this mapper.
func (Mapper) TableSizes() (kpp, kkp int) { return KPPTableSize, KKPTableSize }

// NewParamTable allocates a zeroed table sized for the mapper.
func (m Mapper) NewParamTable() *tuner.ParamTable {
	return tuner.NewParamTable(m.TableSizes())
}

func (Mapper) KPPIndices(dst []int, ksq tuner.Square, i, j tuner.EvalIndex) {
	pair := pairIndex(i, j)
	dst[0] = 1 + pair
	dst[1] = 1 + ppSize + kingBucket(ksq)*ppSize + pair
	dst[2] = tuner.EndOfList
}

func (Mapper) KKPIndices(dst []int, bk, wk tuner.Square, i tuner.EvalIndex) {
	dst[0] = 1 + int(bk)*FeatureNum + int(i)
	dst[1] = -(1 + int(Flip(wk))*FeatureNum + int(FlipFeature(i)))
	dst[2] = tuner.EndOfList
}

func pairIndex(i, j tuner.EvalIndex) int {
	if i < j {
		i, j = j, i
	}
	return int(i)*(int(i)+1)/2 + int(j)
}

// kingBucket is the board quadrant of ksq: queen/king side by low/high ranks.
func kingBucket(ksq tuner.Square) int {
	b := 0
	if ksq%8 >= 4 {
		b |= 1
	}
	if ksq/8 >= 4 {
		b |= 2
	}
	return b
}
