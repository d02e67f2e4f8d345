package diplomacy

// ClaimCenters hands every occupied supply center to the occupying power.
func (b *Board) ClaimCenters(m *DiplomacyMap) {
	if b.SupplyCenters == nil {
		b.SupplyCenters = make(map[string]Power)
	}
	for _, u := range b.Units {
		if p := m.Province(u.Province); p != nil && p.SupplyCenter {
			b.SupplyCenters[u.Province] = u.Power
		}
	}
}

// AdjustmentLedger computes each power's builds (positive) or required
// destroys (negative) from supply centers and units. Builds are capped by
// the number of free home centers still owned.
func AdjustmentLedger(m *DiplomacyMap, b *Board) Ledger {
	ledger := make(Ledger)
	for _, power := range AllPowers() {
		diff := b.SupplyCenterCount(power) - b.UnitCount(power)
		if diff > 0 {
			free := 0
			for _, id := range HomeCenters(m, power) {
				if b.SupplyCenters[id] == power && !b.Occupied(id) {
					free++
				}
			}
			diff = min(diff, free)
		}
		if diff != 0 {
			ledger[power] = diff
		}
	}
	return ledger
}

// PushAdjustments applies judged build and destroy orders to b and returns
// the resulting board.
func PushAdjustments(b *Board, orders []Order) *Board {
	next := b.Clone()
	for i := range orders {
		o := &orders[i]
		if !o.Resolved() || !o.Verdict || o.Location == "" {
			continue
		}
		switch o.Type {
		case OrderBuild:
			next.Units = append(next.Units, Unit{Type: o.UnitType, Power: o.Power, Province: o.Location, Coast: o.Coast})
		case OrderDestroy:
			for k := range next.Units {
				if next.Units[k].Province == o.Location && next.Units[k].Power == o.Power {
					next.Units = append(next.Units[:k], next.Units[k+1:]...)
					break
				}
			}
		}
	}
	return next
}
