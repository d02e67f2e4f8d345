package diplomacy

// StrictJudge drops structurally illegal orders before judging, the way a
// tournament director voids them, and hands the voided orders back.
type StrictJudge struct {
	base *Judge
}

// NewStrictJudge returns a movement-phase StrictJudge.
func NewStrictJudge(m *DiplomacyMap, opts ...JudgeOption) *StrictJudge {
	return &StrictJudge{base: NewJudge(m, opts...)}
}

// Judge cleanses orders, judges what is left and returns it together with
// the voided orders. The returned slice shares the backing array of orders.
func (s *StrictJudge) Judge(orders []Order) ([]Order, []*IllegalOrderError, error) {
	kept, voided := Cleanse(s.base.m, orders)
	if err := s.base.Judge(kept); err != nil {
		return nil, nil, err
	}
	return kept, voided, nil
}

// Paradoxes returns how many times the paradox rule fired.
func (s *StrictJudge) Paradoxes() int {
	return s.base.Paradoxes()
}
