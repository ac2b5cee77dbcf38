// tuner/train.go
package tuner

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Optimizer applies one batch of lowered gradients, averaged over n
// samples, to the weight table.
type Optimizer interface {
	Step(params, grads *ParamTable, n int)
}

// Trainer runs the batch loop: per-worker stores, merge, lower, step.
type Trainer struct {
	layout  Layout
	mapper  IndexMapper
	weights *ParamTable
	grads   *ParamTable
	opt     Optimizer
	stores  []*Store
	cfg     TrainConfig
}

// NewTrainer allocates one Store per worker up front; they are cleared and
// reused for every batch.
func NewTrainer(layout Layout, m IndexMapper, weights *ParamTable, opt Optimizer, cfg TrainConfig) *Trainer {
	workers := max(cfg.Workers, 1)
	t := &Trainer{
		layout:  layout,
		mapper:  m,
		weights: weights,
		grads:   NewParamTable(len(weights.KPP), len(weights.KKP)),
		opt:     opt,
		stores:  make([]*Store, workers),
		cfg:     cfg,
	}
	for i := range t.stores {
		t.stores[i] = NewStore(layout)
	}
	return t
}

// Train optimizes the weight table over data for cfg.Epochs epochs.
func (t *Trainer) Train(ctx context.Context, data []Sample) error {
	bs := t.cfg.Batch
	if bs <= 0 {
		bs = 16384
	}
	rng := rand.New(rand.NewSource(t.cfg.Seed))
	order := make([]int, len(data))
	for i := range order {
		order[i] = i
	}

	for ep := 1; ep <= t.cfg.Epochs; ep++ {
		t0 := time.Now()
		if t.cfg.Shuffle {
			rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		}
		totalLoss, totalN := 0.0, 0
		for off := 0; off < len(order); off += bs {
			if err := ctx.Err(); err != nil {
				return err
			}
			end := min(off+bs, len(order))
			totalLoss += t.Batch(data, order[off:end])
			totalN += end - off
		}
		fmt.Printf("epoch %d  loss=%.6f  n=%d  time=%s\n",
			ep, totalLoss/float64(max(1, totalN)), totalN, time.Since(t0))
	}
	return nil
}

// Batch trains on data[idx...] and returns the summed loss before the update.
func (t *Trainer) Batch(data []Sample, idx []int) float64 {
	losses := make([]float64, len(t.stores))
	chunk := (len(idx) + len(t.stores) - 1) / len(t.stores)

	var wg sync.WaitGroup
	for w := range t.stores {
		lo := min(w*chunk, len(idx))
		hi := min(lo+chunk, len(idx))
		wg.Add(1)
		go func(w int, part []int) {
			defer wg.Done()
			losses[w] = t.accumulate(t.stores[w], data, part)
		}(w, idx[lo:hi])
	}
	wg.Wait()

	root := MergeAll(t.stores)
	t.grads.Clear()
	Lower(t.grads, t.mapper, root)
	t.opt.Step(t.weights, t.grads, len(idx))
	for _, s := range t.stores {
		s.Clear()
	}

	var loss float64
	for _, l := range losses {
		loss += l
	}
	return loss
}

func (t *Trainer) accumulate(s *Store, data []Sample, idx []int) float64 {
	ev := NewEvaluator(t.layout, t.mapper, t.weights)
	var loss float64
	for _, i := range idx {
		smp := &data[i]
		stm := stmSign(smp.STM)
		l, dLdE := positionGrad(t.cfg.K, ev.Eval(smp.Pos, stm), smp.Label)
		loss += l
		g := clampAbs(dLdE*t.cfg.Scale, t.cfg.DeltaClamp)
		s.Accumulate(smp.Pos, Vec2{g, stm * g})
	}
	return loss
}

// MergeAll folds every store into stores[0] pairwise and returns it.
func MergeAll(stores []*Store) *Store {
	for step := 1; step < len(stores); step *= 2 {
		for i := 0; i+step < len(stores); i += 2 * step {
			stores[i].Merge(stores[i+step])
		}
	}
	return stores[0]
}
