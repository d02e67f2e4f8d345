package diplomacy

import (
	"fmt"
	"sort"
)

// Geography classifies a province as inland, coastal, or water.
type Geography int

const (
	Inland  Geography = iota // Armies only
	Coastal                  // Armies or fleets
	Water                    // Fleets only
)

func (g Geography) String() string {
	switch g {
	case Inland:
		return "inland"
	case Coastal:
		return "coastal"
	case Water:
		return "water"
	default:
		return "unknown"
	}
}

// CoastType describes how fleets touch a province.
type CoastType int

const (
	CoastNone   CoastType = iota // Inland or water
	CoastNormal                  // A single coastline
	CoastSplit                   // Two named coasts (e.g. Spain)
	CoastCanal                   // Fleets may pass through (e.g. Kiel)
)

func (c CoastType) String() string {
	switch c {
	case CoastNone:
		return "none"
	case CoastNormal:
		return "normal"
	case CoastSplit:
		return "split"
	case CoastCanal:
		return "canal"
	default:
		return "unknown"
	}
}

// Coast represents a specific coast of a province with split coasts.
type Coast string

const (
	NoCoast    Coast = ""
	NorthCoast Coast = "nc"
	SouthCoast Coast = "sc"
	EastCoast  Coast = "ec"
	WestCoast  Coast = "wc"
)

// Province is a static node of the board graph. A location naming one of
// Coasts is a split-coast child whose parent is this province.
type Province struct {
	ID           string
	Name         string
	Geography    Geography
	CoastType    CoastType
	SupplyCenter bool
	HomePower    Power   // Neutral unless this is a home supply center
	Coasts       []Coast // Non-empty only for split-coast provinces
}

// Adjacency describes a directed connection between two provinces.
// Fleet entries carry coasts, which also encodes coast-crawling: two
// coastal provinces are fleet-adjacent only if they share a coastline.
type Adjacency struct {
	From      string
	FromCoast Coast
	To        string
	ToCoast   Coast
	ArmyOK    bool
	FleetOK   bool
}

// DiplomacyMap holds the full province and adjacency graph. It is read-only
// after construction and safe to share across concurrent judging passes.
type DiplomacyMap struct {
	Name        string
	Provinces   map[string]*Province
	Adjacencies map[string][]Adjacency // keyed by from province ID
	provIndex   map[string]int
	provNames   []string
}

// Province returns the province with the given ID, or nil.
func (m *DiplomacyMap) Province(id string) *Province {
	return m.Provinces[id]
}

// ProvinceCount returns the number of provinces on the map.
func (m *DiplomacyMap) ProvinceCount() int {
	return len(m.provNames)
}

// ProvinceIndex returns the dense index (0..ProvinceCount-1) for a province ID.
// Returns -1 if the province is not found.
func (m *DiplomacyMap) ProvinceIndex(id string) int {
	idx, ok := m.provIndex[id]
	if !ok {
		return -1
	}
	return idx
}

// ProvinceName returns the province ID for a given dense index.
func (m *DiplomacyMap) ProvinceName(idx int) string {
	return m.provNames[idx]
}

// Adjacent returns true if there is a valid adjacency from src to dst
// for the given unit type and coast constraints.
func (m *DiplomacyMap) Adjacent(src string, srcCoast Coast, dst string, dstCoast Coast, isFleet bool) bool {
	for _, adj := range m.Adjacencies[src] {
		if adj.To != dst {
			continue
		}
		if isFleet && !adj.FleetOK {
			continue
		}
		if !isFleet && !adj.ArmyOK {
			continue
		}
		if srcCoast != NoCoast && adj.FromCoast != NoCoast && adj.FromCoast != srcCoast {
			continue
		}
		if dstCoast != NoCoast && adj.ToCoast != NoCoast && adj.ToCoast != dstCoast {
			continue
		}
		return true
	}
	return false
}

// AdjacentIgnoreSplitCoast reports whether src touches dst for the given unit
// type while disregarding which coast of a split-coast destination is named.
// The source coast still counts: F spa/nc does not touch gol.
func (m *DiplomacyMap) AdjacentIgnoreSplitCoast(src string, srcCoast Coast, dst string, isFleet bool) bool {
	return m.Adjacent(src, srcCoast, dst, NoCoast, isFleet)
}

// AdjacentBySea reports whether a fleet could sail between the two
// provinces along any coast.
func (m *DiplomacyMap) AdjacentBySea(src, dst string) bool {
	return m.Adjacent(src, NoCoast, dst, NoCoast, true)
}

// SameProvince compares two locations ignoring coasts, so "spa", "spa/nc"
// and "spa/sc" are all one province for battle purposes.
func SameProvince(a, b string) bool {
	return a != "" && a == b
}

// FleetCoastsTo returns all coasts at the destination province reachable by fleet
// from the given source province and coast.
func (m *DiplomacyMap) FleetCoastsTo(src string, srcCoast Coast, dst string) []Coast {
	var coasts []Coast
	for _, adj := range m.Adjacencies[src] {
		if adj.To != dst || !adj.FleetOK {
			continue
		}
		if srcCoast != NoCoast && adj.FromCoast != NoCoast && adj.FromCoast != srcCoast {
			continue
		}
		coasts = append(coasts, adj.ToCoast)
	}
	return coasts
}

// ProvincesAdjacentTo returns all province IDs adjacent to the given province
// accessible by the given unit type.
func (m *DiplomacyMap) ProvincesAdjacentTo(provID string, coast Coast, isFleet bool) []string {
	seen := make(map[string]bool)
	var result []string
	for _, adj := range m.Adjacencies[provID] {
		if isFleet && !adj.FleetOK {
			continue
		}
		if !isFleet && !adj.ArmyOK {
			continue
		}
		if coast != NoCoast && adj.FromCoast != NoCoast && adj.FromCoast != coast {
			continue
		}
		if !seen[adj.To] {
			seen[adj.To] = true
			result = append(result, adj.To)
		}
	}
	return result
}

// HasCoasts returns true if the province has split coasts (e.g. Spain, St Petersburg, Bulgaria).
func (m *DiplomacyMap) HasCoasts(provID string) bool {
	p, ok := m.Provinces[provID]
	return ok && len(p.Coasts) > 0
}

// HasCoast reports whether coast names one of the province's split coasts.
func (m *DiplomacyMap) HasCoast(provID string, coast Coast) bool {
	p, ok := m.Provinces[provID]
	if !ok {
		return false
	}
	for _, c := range p.Coasts {
		if c == coast {
			return true
		}
	}
	return false
}

// Validate checks the structural invariants of the graph.
func (m *DiplomacyMap) Validate() error {
	for id, p := range m.Provinces {
		if p.ID != id {
			return fmt.Errorf("province %q registered under %q", p.ID, id)
		}
		switch p.Geography {
		case Water:
			if p.HomePower != Neutral || p.SupplyCenter {
				return fmt.Errorf("water province %s cannot be owned or hold a supply center", id)
			}
			if p.CoastType != CoastNone {
				return fmt.Errorf("water province %s cannot have a coast", id)
			}
		case Inland:
			if p.CoastType != CoastNone || len(p.Coasts) > 0 {
				return fmt.Errorf("inland province %s cannot have a coast", id)
			}
		}
		if p.CoastType == CoastSplit && len(p.Coasts) < 2 {
			return fmt.Errorf("split-coast province %s needs at least two coasts", id)
		}
		if p.CoastType != CoastSplit && len(p.Coasts) > 0 {
			return fmt.Errorf("province %s lists coasts but is not split", id)
		}
	}

	for from, adjs := range m.Adjacencies {
		if m.Provinces[from] == nil {
			return fmt.Errorf("adjacency from unknown province %q: %w", from, ErrUnknownProvince)
		}
		for _, adj := range adjs {
			if m.Provinces[adj.To] == nil {
				return fmt.Errorf("adjacency %s -> %q: %w", from, adj.To, ErrUnknownProvince)
			}
			if adj.ToCoast != NoCoast && !m.HasCoast(adj.To, adj.ToCoast) {
				return fmt.Errorf("adjacency %s -> %s/%s names an unknown coast", from, adj.To, adj.ToCoast)
			}
			if !m.hasReverse(adj) {
				return fmt.Errorf("adjacency %s -> %s has no reverse", from, adj.To)
			}
		}
	}
	return nil
}

func (m *DiplomacyMap) hasReverse(adj Adjacency) bool {
	for _, rev := range m.Adjacencies[adj.To] {
		if rev.To == adj.From && rev.FromCoast == adj.ToCoast && rev.ToCoast == adj.FromCoast &&
			rev.ArmyOK == adj.ArmyOK && rev.FleetOK == adj.FleetOK {
			return true
		}
	}
	return false
}

// buildIndex assigns dense province indices, sorted for deterministic ordering.
func (m *DiplomacyMap) buildIndex() {
	keys := make([]string, 0, len(m.Provinces))
	for id := range m.Provinces {
		keys = append(keys, id)
	}
	sort.Strings(keys)
	m.provIndex = make(map[string]int, len(keys))
	m.provNames = keys
	for i, id := range keys {
		m.provIndex[id] = i
	}
}
