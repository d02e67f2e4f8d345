package diplomacy

import "maps"

// Push turns a judged movement phase into the next board. Successful moves
// relocate their units; a unit that stays put while a move into its
// province succeeds is dislodged and gets a retreat order, which defaults
// to disbanding until the caller fills in a destination. Supply center
// ownership is carried over from prev, which may be nil.
func Push(m *DiplomacyMap, prev *Board, orders []Order) (*Board, []Order) {
	next := &Board{Bounced: Standoffs(orders)}
	if prev != nil {
		next.SupplyCenters = maps.Clone(prev.SupplyCenters)
	}

	winners := make(map[string]string) // destination -> attacker origin
	for i := range orders {
		o := &orders[i]
		if o.Type == OrderMove && o.Resolved() && o.Verdict {
			winners[o.Target] = o.Location
		}
	}

	var retreats []Order
	for i := range orders {
		o := &orders[i]
		u := Unit{Type: o.UnitType, Power: o.Power, Province: o.Location, Coast: o.Coast}
		if o.Type == OrderMove && o.Resolved() && o.Verdict {
			u.Province = o.Target
			u.Coast = landingCoast(m, o)
			next.Units = append(next.Units, u)
			continue
		}
		if attacker, ok := winners[o.Location]; ok {
			next.Dislodged = append(next.Dislodged, DislodgedUnit{Unit: u, AttackerFrom: attacker})
			retreats = append(retreats, Order{
				UnitType:  u.Type,
				Power:     u.Power,
				Location:  u.Province,
				Coast:     u.Coast,
				Type:      OrderRetreat,
				Dislodged: true,
			})
			continue
		}
		next.Units = append(next.Units, u)
	}
	return next, retreats
}

// landingCoast picks the coast a fleet arrives on.
func landingCoast(m *DiplomacyMap, o *Order) Coast {
	if o.UnitType != Fleet || !m.HasCoasts(o.Target) {
		return NoCoast
	}
	if o.TargetCoast != NoCoast {
		return o.TargetCoast
	}
	if coasts := m.FleetCoastsTo(o.Location, o.Coast, o.Target); len(coasts) == 1 {
		return coasts[0]
	}
	return NoCoast
}

// Standoffs returns the provinces that two or more moves fought over
// without anyone getting in, and that nobody stayed in.
func Standoffs(orders []Order) map[string]bool {
	contenders := make(map[string]int)
	entered := make(map[string]bool)
	for i := range orders {
		o := &orders[i]
		if o.Type != OrderMove {
			continue
		}
		contenders[o.Target]++
		if o.Resolved() && o.Verdict {
			entered[o.Target] = true
		}
	}

	out := make(map[string]bool)
	for prov, n := range contenders {
		if n < 2 || entered[prov] {
			continue
		}
		k := OccupantAt(orders, prov)
		if k >= 0 {
			stays := orders[k].Type != OrderMove || !orders[k].Verdict
			if stays {
				continue
			}
		}
		out[prov] = true
	}
	return out
}
