package tuner

// WeightStore gives addressable weight pairs for compressed identifiers.
type WeightStore interface {
	KPPWeight(id int) *AtomicPair
	KKPWeight(id int) *AtomicPair
}

// ParamTable is a slice-backed WeightStore. It is used both for learned
// weights and for the lowered gradients of one batch.
type ParamTable struct {
	KPP []AtomicPair
	KKP []AtomicPair
}

func NewParamTable(kpp, kkp int) *ParamTable {
	return &ParamTable{
		KPP: make([]AtomicPair, kpp),
		KKP: make([]AtomicPair, kkp),
	}
}

func (p *ParamTable) KPPWeight(id int) *AtomicPair { return &p.KPP[id] }

func (p *ParamTable) KKPWeight(id int) *AtomicPair { return &p.KKP[id] }

// Clear zeroes every pair. Not safe while a Lower is writing into p.
func (p *ParamTable) Clear() {
	for i := range p.KPP {
		p.KPP[i].Store(Vec2{})
	}
	for i := range p.KKP {
		p.KKP[i].Store(Vec2{})
	}
}

// SameShape reports whether q has the table sizes of p.
func (p *ParamTable) SameShape(q *ParamTable) bool {
	return len(p.KPP) == len(q.KPP) && len(p.KKP) == len(q.KKP)
}
