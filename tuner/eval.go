package tuner

// Evaluator computes the linear evaluation whose gradient is what
// Accumulate followed by Lower produces. It keeps scratch id lists, so use
// one Evaluator per goroutine.
type Evaluator struct {
	layout Layout
	m      IndexMapper
	w      WeightStore
	kppIDs []int
	kkpIDs []int
}

func NewEvaluator(layout Layout, m IndexMapper, w WeightStore) *Evaluator {
	kpp, kkp := m.IndexCapacity()
	return &Evaluator{
		layout: layout,
		m:      m,
		w:      w,
		kppIDs: make([]int, kpp),
		kkpIDs: make([]int, kkp),
	}
}

// Eval returns the evaluation of pos from the black side's view. stm is +1
// when black is to move and -1 otherwise; it scales component 1 only.
func (e *Evaluator) Eval(pos Position, stm float64) float64 {
	bk, wk := pos.KingSquares()
	list0, list1 := pos.FeatureLists()
	inv := e.layout.Inverse(wk)

	var sum float64
	for i := range list0 {
		for j := 0; j < i; j++ {
			b := e.kpp(bk, list0[i], list0[j])
			w := e.kpp(inv, list1[i], list1[j])
			sum += b[0] + stm*b[1]
			sum += -w[0] + stm*w[1]
		}
		k := e.kkp(bk, wk, list0[i])
		sum += k[0] + stm*k[1]
	}
	return sum
}

func (e *Evaluator) kpp(ksq Square, i, j EvalIndex) Vec2 {
	resetIndices(e.kppIDs)
	e.m.KPPIndices(e.kppIDs, ksq, i, j)
	return effective(e.kppIDs, e.w.KPPWeight)
}

func (e *Evaluator) kkp(bk, wk Square, i EvalIndex) Vec2 {
	resetIndices(e.kkpIDs)
	e.m.KKPIndices(e.kkpIDs, bk, wk, i)
	return effective(e.kkpIDs, e.w.KKPWeight)
}
