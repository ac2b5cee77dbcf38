// tuner/types.go
package tuner

// Vec2 is the two-component gradient (or weight) attached to one entry.
// Component 0 changes sign when the board is seen from the other side,
// component 1 does not.
type Vec2 [2]float64

func (v *Vec2) add(o Vec2) {
	v[0] += o[0]
	v[1] += o[1]
}

// addMirrored adds o as seen from the opposing side.
func (v *Vec2) addMirrored(o Vec2) {
	v[0] -= o[0]
	v[1] += o[1]
}

// Position is what the accumulator needs from a board.
// FeatureLists returns two lists of equal length where index i names the
// same piece, the first seen from the black king, the second from the white
// king. The slices are only read.
type Position interface {
	KingSquares() (black, white Square)
	FeatureLists() (list0, list1 []EvalIndex)
}

// Sample is one labelled training position.
type Sample struct {
	Pos   Position
	Label float64 // 0, 0.5, 1 from the black (first) side's view
	STM   int     // 1 if the black (first) side is to move, 0 otherwise
}

// TrainConfig drives Train.
type TrainConfig struct {
	Epochs  int
	Batch   int
	Workers int     // private gradient stores per batch
	K       float64 // logistic scale
	// Scale multiplies dL/dE before it reaches the stores.
	Scale float64
	// DeltaClamp bounds |delta| per position; 0 disables clamping.
	DeltaClamp float64
	Shuffle    bool
	Seed       int64
}

// DefaultTrainConfig returns the settings the CLI starts from.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		Epochs:     3,
		Batch:      16384,
		Workers:    2,
		K:          0.004,
		Scale:      1.0,
		DeltaClamp: 1.0,
		Shuffle:    true,
		Seed:       42,
	}
}
