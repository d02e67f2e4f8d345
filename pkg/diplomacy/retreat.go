package diplomacy

// RetreatOptions lists the provinces the dislodged unit d could
// retreat to without being judged suffocated.
func RetreatOptions(m *DiplomacyMap, b *Board, d DislodgedUnit) []string {
	u := d.Unit
	var out []string
	for _, prov := range m.ProvincesAdjacentTo(u.Province, u.Coast, u.Type == Fleet) {
		if prov == d.AttackerFrom || b.Occupied(prov) || b.Standoff(prov) {
			continue
		}
		probe := Order{UnitType: u.Type, Location: u.Province, Coast: u.Coast, Type: OrderRetreat, Target: prov}
		if u.Type == Fleet {
			probe.TargetCoast = landingCoast(m, &Order{UnitType: Fleet, Location: u.Province, Coast: u.Coast, Target: prov})
		}
		if legal(m, &probe) {
			out = append(out, prov)
		}
	}
	return out
}

// PushRetreats applies judged retreat and destroy orders to b and returns
// the resulting board. Every dislodged unit without a successful retreat
// is removed.
func PushRetreats(m *DiplomacyMap, b *Board, orders []Order) *Board {
	next := b.Clone()
	next.Dislodged = nil
	next.Bounced = nil

	for i := range orders {
		o := &orders[i]
		if o.Type != OrderRetreat || o.Target == "" || !o.Resolved() || !o.Verdict {
			continue
		}
		next.Units = append(next.Units, Unit{
			Type:     o.UnitType,
			Power:    o.Power,
			Province: o.Target,
			Coast:    landingCoast(m, &Order{UnitType: o.UnitType, Location: o.Location, Coast: o.Coast, Target: o.Target, TargetCoast: o.TargetCoast}),
		})
	}
	return next
}
