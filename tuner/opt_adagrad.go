// tuner/opt_adagrad.go
package tuner

import (
	"fmt"
	"math"
)

// AdaGrad keeps a running sum of squared gradients per weight component.
type AdaGrad struct {
	KPP, KKP []Vec2
	LR, Eps  float64
}

func NewAdaGrad(params *ParamTable, lr float64) *AdaGrad {
	return &AdaGrad{
		KPP: make([]Vec2, len(params.KPP)),
		KKP: make([]Vec2, len(params.KKP)),
		LR:  lr,
		Eps: 1e-8,
	}
}

// SetLR updates the base learning rate.
func (opt *AdaGrad) SetLR(lr float64) {
	opt.LR = lr
}

// GetLR returns the current base learning rate.
func (opt *AdaGrad) GetLR() float64 {
	return opt.LR
}

// Step applies grads, averaged over n samples, to params.
func (opt *AdaGrad) Step(params, grads *ParamTable, n int) {
	if !params.SameShape(grads) || len(opt.KPP) != len(params.KPP) || len(opt.KKP) != len(params.KKP) {
		panic(fmt.Sprintf("tuner: adagrad shape mismatch (params %d/%d, grads %d/%d, state %d/%d)",
			len(params.KPP), len(params.KKP), len(grads.KPP), len(grads.KKP), len(opt.KPP), len(opt.KKP)))
	}
	inv := 1.0 / float64(max(n, 1))
	opt.step(params.KPP, grads.KPP, opt.KPP, inv)
	opt.step(params.KKP, grads.KKP, opt.KKP, inv)
}

func (opt *AdaGrad) step(params, grads []AtomicPair, sq []Vec2, inv float64) {
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
			sq[i][c] += gc * gc
			w[c] -= opt.LR / (math.Sqrt(sq[i][c]) + opt.Eps) * gc
		}
		params[i].Store(w)
	}
}
