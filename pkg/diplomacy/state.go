package diplomacy

import "maps"

// DislodgedUnit is a unit beaten out of its province during movement.
type DislodgedUnit struct {
	Unit         Unit
	AttackerFrom string // Province the attacker came from (cannot retreat there)
}

// Board is the position between phases: where every unit stands, which
// units must retreat, which provinces a bounce left empty, and who owns
// each supply center.
type Board struct {
	Units         []Unit
	Dislodged     []DislodgedUnit
	Bounced       map[string]bool  // provinces left vacant by a standoff
	SupplyCenters map[string]Power // province ID -> owning power
}

// NewInitialBoard returns the standard Diplomacy starting position.
func NewInitialBoard() *Board {
	return &Board{
		Units:         initialUnits(),
		SupplyCenters: initialSupplyCenters(),
	}
}

// UnitAt returns the unit at the given province, or nil if none.
func (b *Board) UnitAt(province string) *Unit {
	for i := range b.Units {
		if b.Units[i].Province == province {
			return &b.Units[i]
		}
	}
	return nil
}

// Occupied reports whether a unit stands in prov.
func (b *Board) Occupied(prov string) bool {
	return b.UnitAt(prov) != nil
}

// Standoff reports whether a bounce left prov empty.
func (b *Board) Standoff(prov string) bool {
	return b.Bounced[prov]
}

// AttackerOrigin returns where the unit that dislodged the unit at loc came
// from, or "".
func (b *Board) AttackerOrigin(loc string) string {
	for _, d := range b.Dislodged {
		if d.Unit.Province == loc {
			return d.AttackerFrom
		}
	}
	return ""
}

// SupplyCenterCount returns the number of supply centers owned by the given power.
func (b *Board) SupplyCenterCount(power Power) int {
	count := 0
	for _, owner := range b.SupplyCenters {
		if owner == power {
			count++
		}
	}
	return count
}

// UnitCount returns the number of units belonging to the given power.
func (b *Board) UnitCount(power Power) int {
	count := 0
	for _, u := range b.Units {
		if u.Power == power {
			count++
		}
	}
	return count
}

// Orders returns a hold order for every unit on the board, the starting
// point for a movement phase.
func (b *Board) Orders() []Order {
	out := make([]Order, len(b.Units))
	for i, u := range b.Units {
		out[i] = Order{UnitType: u.Type, Power: u.Power, Location: u.Province, Coast: u.Coast, Type: OrderHold}
	}
	return out
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	c := &Board{
		Bounced:       maps.Clone(b.Bounced),
		SupplyCenters: maps.Clone(b.SupplyCenters),
	}
	if b.Units != nil {
		c.Units = make([]Unit, len(b.Units))
		copy(c.Units, b.Units)
	}
	if b.Dislodged != nil {
		c.Dislodged = make([]DislodgedUnit, len(b.Dislodged))
		copy(c.Dislodged, b.Dislodged)
	}
	return c
}

func initialUnits() []Unit {
	return []Unit{
		// Austria
		{Army, Austria, "vie", NoCoast},
		{Army, Austria, "bud", NoCoast},
		{Fleet, Austria, "tri", NoCoast},
		// England
		{Fleet, England, "lon", NoCoast},
		{Fleet, England, "edi", NoCoast},
		{Army, England, "lvp", NoCoast},
		// France
		{Fleet, France, "bre", NoCoast},
		{Army, France, "par", NoCoast},
		{Army, France, "mar", NoCoast},
		// Germany
		{Fleet, Germany, "kie", NoCoast},
		{Army, Germany, "ber", NoCoast},
		{Army, Germany, "mun", NoCoast},
		// Italy
		{Fleet, Italy, "nap", NoCoast},
		{Army, Italy, "rom", NoCoast},
		{Army, Italy, "ven", NoCoast},
		// Russia
		{Fleet, Russia, "stp", SouthCoast},
		{Army, Russia, "mos", NoCoast},
		{Army, Russia, "war", NoCoast},
		{Fleet, Russia, "sev", NoCoast},
		// Turkey
		{Fleet, Turkey, "ank", NoCoast},
		{Army, Turkey, "con", NoCoast},
		{Army, Turkey, "smy", NoCoast},
	}
}

func initialSupplyCenters() map[string]Power {
	return map[string]Power{
		// Austria
		"vie": Austria, "bud": Austria, "tri": Austria,
		// England
		"lon": England, "edi": England, "lvp": England,
		// France
		"bre": France, "par": France, "mar": France,
		// Germany
		"kie": Germany, "ber": Germany, "mun": Germany,
		// Italy
		"nap": Italy, "rom": Italy, "ven": Italy,
		// Russia
		"stp": Russia, "mos": Russia, "war": Russia, "sev": Russia,
		// Turkey
		"ank": Turkey, "con": Turkey, "smy": Turkey,
		// Neutral supply centers
		"nwy": Neutral, "swe": Neutral, "den": Neutral,
		"hol": Neutral, "bel": Neutral, "spa": Neutral,
		"por": Neutral, "tun": Neutral, "gre": Neutral,
		"ser": Neutral, "bul": Neutral, "rum": Neutral,
	}
}
