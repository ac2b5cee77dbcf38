package tuner

import (
	"fmt"
	"math"
)

type Adam struct {
	MKPP, VKPP []Vec2 // first and second moment estimates
	MKKP, VKKP []Vec2
	LR         float64
	Beta1      float64 // Typically 0.9
	Beta2      float64 // Typically 0.999
	Eps        float64
	T          int // Timestep (for bias correction)
}

func NewAdam(params *ParamTable, lr float64) *Adam {
	return &Adam{
		MKPP:  make([]Vec2, len(params.KPP)),
		VKPP:  make([]Vec2, len(params.KPP)),
		MKKP:  make([]Vec2, len(params.KKP)),
		VKKP:  make([]Vec2, len(params.KKP)),
		LR:    lr,
		Beta1: 0.9,
		Beta2: 0.999,
		Eps:   1e-8,
	}
}

// SetLR updates the base learning rate.
func (opt *Adam) SetLR(lr float64) {
	opt.LR = lr
}

// GetLR returns the current base learning rate.
func (opt *Adam) GetLR() float64 {
	return opt.LR
}

func (opt *Adam) Step(params, grads *ParamTable, n int) {
	if !params.SameShape(grads) || len(opt.MKPP) != len(params.KPP) || len(opt.MKKP) != len(params.KKP) {
		panic(fmt.Sprintf("tuner: adam shape mismatch (params %d/%d, grads %d/%d)",
			len(params.KPP), len(params.KKP), len(grads.KPP), len(grads.KKP)))
	}
	opt.T++
	bc1 := 1.0 - math.Pow(opt.Beta1, float64(opt.T))
	bc2 := 1.0 - math.Pow(opt.Beta2, float64(opt.T))
	inv := 1.0 / float64(max(n, 1))
	opt.step(params.KPP, grads.KPP, opt.MKPP, opt.VKPP, inv, bc1, bc2)
	opt.step(params.KKP, grads.KKP, opt.MKKP, opt.VKKP, inv, bc1, bc2)
}

// Untouched weights keep their moments; sparse batches leave most of the
// table alone.
func (opt *Adam) step(params, grads []AtomicPair, m, v []Vec2, inv, bc1, bc2 float64) {
	for i := range params {
		g := grads[i].Load()
		if g == (Vec2{}) {
			continue
		}
		w := params[i].Load()
		for c := range g {
			if g[c] == 0 {
				continue
			}
			gc := g[c] * inv
			m[i][c] = opt.Beta1*m[i][c] + (1-opt.Beta1)*gc
			v[i][c] = opt.Beta2*v[i][c] + (1-opt.Beta2)*gc*gc
			mHat := m[i][c] / bc1
			vHat := v[i][c] / bc2
			w[c] -= opt.LR * mHat / (math.Sqrt(vHat) + opt.Eps)
		}
		params[i].Store(w)
	}
}
