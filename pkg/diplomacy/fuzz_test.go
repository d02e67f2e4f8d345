package diplomacy

import (
	"math/rand"
	"testing"
)

// randomOrders gives every unit on the board a random order. Many of them
// are illegal; the judge must cope either way.
func randomOrders(m *DiplomacyMap, b *Board, rng *rand.Rand) []Order {
	orders := b.Orders()
	for i := range orders {
		o := &orders[i]
		other := &orders[rng.Intn(len(orders))]
		anywhere := m.ProvinceName(rng.Intn(m.ProvinceCount()))
		near := m.ProvincesAdjacentTo(o.Location, o.Coast, o.UnitType == Fleet)

		switch rng.Intn(6) {
		case 0:
			// hold
		case 1, 2:
			o.Type = OrderMove
			o.Target = anywhere
			if len(near) > 0 {
				o.Target = near[rng.Intn(len(near))]
			}
		case 3:
			o.Type = OrderMove
			o.Target = anywhere
		case 4:
			o.Type = OrderSupport
			o.AuxUnitType = other.UnitType
			o.AuxLoc = other.Location
			if rng.Intn(2) == 0 {
				o.AuxTarget = anywhere
			}
		case 5:
			o.Type = OrderConvoy
			o.AuxLoc = other.Location
			o.AuxTarget = anywhere
		}
	}
	return orders
}

func FuzzJudge(f *testing.F) {
	for _, seed := range []int64{1, 2, 3, 42, 1901} {
		f.Add(seed)
	}
	m := StandardMap()
	f.Fuzz(func(t *testing.T, seed int64) {
		orders := randomOrders(m, NewInitialBoard(), rand.New(rand.NewSource(seed)))
		if err := NewJudge(m).Judge(orders); err != nil {
			t.Fatalf("Judge: %v", err)
		}

		winners := make(map[string]int)
		for i := range orders {
			o := &orders[i]
			if !o.Resolved() {
				t.Fatalf("order %s left %s", o, o.Status)
			}
			if o.Type != OrderHold && o.Verdict && CheckOrder(m, o) != nil {
				t.Errorf("illegal order %s succeeded", o)
			}
			if o.Type == OrderMove && o.Verdict {
				winners[o.Target]++
			}
		}
		for prov, n := range winners {
			if n > 1 {
				t.Errorf("%d units entered %s", n, prov)
			}
		}
	})
}
