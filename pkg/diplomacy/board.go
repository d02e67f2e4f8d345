package diplomacy

// Board queries. Every function here reads an order collection without
// touching adjudication metadata, except Cleanse which drops illegal orders.
// Orders are referred to by index into the collection.

// CheckOrder reports whether an order is structurally legal on the map.
// It does not look at other orders, so a convoyed army is legal as long as
// its destination is land.
func CheckOrder(m *DiplomacyMap, o *Order) error {
	if msg := illegal(m, o); msg != "" {
		return &IllegalOrderError{Order: *o, Message: msg}
	}
	return nil
}

func legal(m *DiplomacyMap, o *Order) bool {
	return illegal(m, o) == ""
}

func illegal(m *DiplomacyMap, o *Order) string {
	switch o.Type {
	case OrderHold:
		if o.Target != "" || o.TargetCoast != NoCoast || o.AuxLoc != "" || o.AuxTarget != "" {
			return "hold carries a destination"
		}
		return ""
	case OrderMove:
		return illegalMove(m, o, true)
	case OrderRetreat:
		if o.Target == "" {
			return ""
		}
		return illegalMove(m, o, false)
	case OrderSupport:
		return illegalSupport(m, o)
	case OrderConvoy:
		return illegalConvoy(m, o)
	case OrderBuild:
		return illegalBuild(m, o)
	case OrderDestroy:
		return ""
	default:
		return "unknown order type"
	}
}

func illegalMove(m *DiplomacyMap, o *Order, convoyable bool) string {
	if o.Target == "" {
		return "no destination"
	}
	if SameProvince(o.Location, o.Target) {
		return "cannot move to its own province"
	}
	dst := m.Province(o.Target)
	if dst == nil {
		return "unknown destination " + o.Target
	}
	if o.UnitType == Army {
		if dst.Geography == Water {
			return "army cannot enter water"
		}
		if o.TargetCoast != NoCoast {
			return "army cannot move to a coast"
		}
		if !convoyable && !m.Adjacent(o.Location, NoCoast, o.Target, NoCoast, false) {
			return "destination not adjacent"
		}
		return ""
	}
	if dst.Geography == Inland {
		return "fleet cannot move inland"
	}
	if !m.Adjacent(o.Location, o.Coast, o.Target, o.TargetCoast, true) {
		return "fleet cannot reach " + withCoast(o.Target, o.TargetCoast)
	}
	return ""
}

func illegalSupport(m *DiplomacyMap, o *Order) string {
	if o.AuxLoc == "" {
		return "no supported unit"
	}
	if SameProvince(o.AuxLoc, o.AuxTarget) {
		return "supported move goes nowhere"
	}
	if SameProvince(o.Location, o.AuxLoc) || SameProvince(o.Location, o.AuxTarget) {
		return "cannot support itself"
	}
	aim := o.AuxTarget
	if aim == "" {
		aim = o.AuxLoc
	}
	fleet := o.UnitType == Fleet
	if !m.AdjacentIgnoreSplitCoast(o.Location, o.Coast, aim, fleet) {
		return "cannot reach " + aim
	}
	if fleet && !m.AdjacentBySea(o.Location, aim) {
		return "cannot reach " + aim + " by sea"
	}
	return ""
}

// Chain adjacency is checked by the convoy pathfinder, not here.
func illegalConvoy(m *DiplomacyMap, o *Order) string {
	if o.UnitType != Fleet {
		return "only fleets convoy"
	}
	if p := m.Province(o.Location); p == nil || p.Geography != Water {
		return "convoying fleet must be at sea"
	}
	if o.AuxLoc == "" || o.AuxTarget == "" {
		return "convoy needs an army and a destination"
	}
	if SameProvince(o.AuxLoc, o.AuxTarget) {
		return "convoyed move goes nowhere"
	}
	for _, id := range []string{o.AuxLoc, o.AuxTarget} {
		p := m.Province(id)
		if p == nil {
			return "unknown province " + id
		}
		if p.Geography != Coastal {
			return id + " is not on a coast"
		}
	}
	return ""
}

func illegalBuild(m *DiplomacyMap, o *Order) string {
	if o.Location == "" {
		return ""
	}
	p := m.Province(o.Location)
	switch {
	case p == nil:
		return "unknown province " + o.Location
	case !p.SupplyCenter:
		return "not a supply center"
	case p.HomePower != o.Power:
		return "not a home supply center"
	case o.UnitType == Fleet && p.Geography == Inland:
		return "cannot build fleet in inland province"
	case o.UnitType == Fleet && len(p.Coasts) > 0 && !m.HasCoast(o.Location, o.Coast):
		return "must specify coast for fleet build"
	case o.UnitType == Army && o.Coast != NoCoast:
		return "army cannot be built on a coast"
	}
	return ""
}

// Cleanse removes structurally illegal orders in place and reports why each
// was removed. The returned slice shares the backing array of orders.
func Cleanse(m *DiplomacyMap, orders []Order) ([]Order, []*IllegalOrderError) {
	kept := orders[:0]
	var removed []*IllegalOrderError
	for i := range orders {
		if msg := illegal(m, &orders[i]); msg != "" {
			removed = append(removed, &IllegalOrderError{Order: orders[i], Message: msg})
			continue
		}
		kept = append(kept, orders[i])
	}
	return kept, removed
}

// OccupantAt returns the index of the first order issued from prov,
// ignoring coasts, or -1.
func OccupantAt(orders []Order, prov string) int {
	for i := range orders {
		if SameProvince(orders[i].Location, prov) {
			return i
		}
	}
	return -1
}

// MoversTo returns the indices of every move or retreat aimed at prov.
func MoversTo(orders []Order, prov string) []int {
	var out []int
	for i := range orders {
		o := &orders[i]
		if o.Type != OrderMove && o.Type != OrderRetreat {
			continue
		}
		if SameProvince(o.Target, prov) {
			out = append(out, i)
		}
	}
	return out
}

// HeadToHead returns the index of the move travelling the opposite way
// between the same two provinces as orders[i], or -1. orders[i] must be a move.
func HeadToHead(orders []Order, i int) int {
	o := &orders[i]
	if o.Type != OrderMove {
		violate(o, "head-to-head lookup on a %s order", o.Type)
	}
	for k := range orders {
		if k == i {
			continue
		}
		other := &orders[k]
		if other.Type == OrderMove && SameProvince(other.Target, o.Location) && SameProvince(other.Location, o.Target) {
			return k
		}
	}
	return -1
}

// Corresponding returns the index of the order a support or convoy is
// backing, or -1. A support-hold backs any non-move order at its aim; a
// support-move or convoy backs the move with the same origin and
// destination. Unit types are not compared.
func Corresponding(orders []Order, i int) int {
	o := &orders[i]
	if o.Type != OrderSupport && o.Type != OrderConvoy {
		violate(o, "corresponding lookup on a %s order", o.Type)
	}
	for k := range orders {
		if k == i {
			continue
		}
		other := &orders[k]
		if o.Type == OrderSupport && o.AuxTarget == "" {
			if other.Type != OrderMove && SameProvince(other.Location, o.AuxLoc) {
				return k
			}
			continue
		}
		if other.Type == OrderMove && SameProvince(other.Location, o.AuxLoc) && SameProvince(other.Target, o.AuxTarget) {
			return k
		}
	}
	return -1
}

// convoys reports whether c is a legal convoy for the move o.
func convoys(m *DiplomacyMap, c, o *Order) bool {
	return c.Type == OrderConvoy && c.AuxLoc == o.Location && c.AuxTarget == o.Target && legal(m, c)
}

// AdjacentMatchingConvoyExists reports whether some fleet next to the
// mover's origin is validly convoying exactly this move.
func AdjacentMatchingConvoyExists(m *DiplomacyMap, orders []Order, i int) bool {
	o := &orders[i]
	if o.Type != OrderMove {
		return false
	}
	for k := range orders {
		if k == i {
			continue
		}
		c := &orders[k]
		if convoys(m, c, o) && m.AdjacentBySea(c.Location, o.Location) {
			return true
		}
	}
	return false
}
