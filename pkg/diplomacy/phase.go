package diplomacy

import (
	"fmt"
	"strings"
)

// Phase is the kind of turn an order collection belongs to.
type Phase int

const (
	PhaseMovement   Phase = iota // holds, moves, supports, convoys
	PhaseRetreat                 // dislodged units retreat or disband
	PhaseAdjustment              // winter builds and destroys
)

func (p Phase) String() string {
	switch p {
	case PhaseRetreat:
		return "retreat"
	case PhaseAdjustment:
		return "adjustment"
	default:
		return "movement"
	}
}

// ParsePhase accepts "movement", "retreat", "adjustment" (or "winter",
// "build"), and the single-letter DFEN forms m, r, a.
func ParsePhase(s string) (Phase, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "m", "movement":
		return PhaseMovement, nil
	case "r", "retreat":
		return PhaseRetreat, nil
	case "a", "adjustment", "winter", "build":
		return PhaseAdjustment, nil
	}
	return PhaseMovement, fmt.Errorf("unknown phase %q", s)
}

// UnmarshalText lets a Phase be read from YAML and environment variables.
func (p *Phase) UnmarshalText(text []byte) error {
	v, err := ParsePhase(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// NewPhaseJudge builds the judge for phase over board b. Retreats read the
// dislodgements and standoffs from b; adjustments read the ledger b implies.
// b may be nil for movement.
func NewPhaseJudge(m *DiplomacyMap, phase Phase, b *Board, opts ...JudgeOption) *Judge {
	switch phase {
	case PhaseRetreat:
		if b == nil {
			return NewRetreatJudge(m, nil, opts...)
		}
		return NewRetreatJudge(m, b, opts...)
	case PhaseAdjustment:
		if b == nil {
			return NewWinterJudge(m, nil, nil, opts...)
		}
		return NewWinterJudge(m, b, AdjustmentLedger(m, b), opts...)
	default:
		return NewJudge(m, opts...)
	}
}

// HomeCenters returns the home supply centers of power, in map order.
func HomeCenters(m *DiplomacyMap, power Power) []string {
	var out []string
	for idx := range m.ProvinceCount() {
		p := m.Province(m.ProvinceName(idx))
		if p.HomePower == power && p.SupplyCenter {
			out = append(out, p.ID)
		}
	}
	return out
}

// SoloWinner reports the power holding 18 or more supply centers, if any.
func SoloWinner(b *Board) (Power, bool) {
	for _, power := range AllPowers() {
		if b.SupplyCenterCount(power) >= 18 {
			return power, true
		}
	}
	return Neutral, false
}
