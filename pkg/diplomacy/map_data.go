package diplomacy

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed standard.yaml
var standardMapYAML []byte

var (
	stdMapOnce sync.Once
	stdMapInst *DiplomacyMap
)

// StandardMap returns the standard 75-province Diplomacy map with all
// provinces and adjacencies. The map is built once and cached; subsequent
// calls return the same pointer. Callers must not mutate the returned map.
func StandardMap() *DiplomacyMap {
	stdMapOnce.Do(func() {
		m, err := LoadMap(bytes.NewReader(standardMapYAML))
		if err != nil {
			panic(fmt.Sprintf("embedded standard map: %v", err))
		}
		stdMapInst = m
	})
	return stdMapInst
}

// mapFile is the on-disk shape of a board definition.
type mapFile struct {
	Name      string         `yaml:"name"`
	Provinces []provinceFile `yaml:"provinces"`
	Edges     struct {
		Army  []string `yaml:"army"`
		Fleet []string `yaml:"fleet"`
		Both  []string `yaml:"both"`
	} `yaml:"edges"`
}

type provinceFile struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Geography    string   `yaml:"geography"`
	Canal        bool     `yaml:"canal"`
	SupplyCenter bool     `yaml:"supply_center"`
	Home         string   `yaml:"home"`
	Coasts       []string `yaml:"coasts"`
}

// LoadMap parses a YAML board definition and validates it.
func LoadMap(r io.Reader) (*DiplomacyMap, error) {
	var f mapFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("map: decode: %w", err)
	}

	m := &DiplomacyMap{
		Name:        f.Name,
		Provinces:   make(map[string]*Province, len(f.Provinces)),
		Adjacencies: make(map[string][]Adjacency, len(f.Provinces)),
	}

	for _, pf := range f.Provinces {
		p, err := pf.province()
		if err != nil {
			return nil, fmt.Errorf("map: %w", err)
		}
		if _, dup := m.Provinces[p.ID]; dup {
			return nil, fmt.Errorf("map: duplicate province %q", p.ID)
		}
		m.Provinces[p.ID] = p
	}

	edgeSets := []struct {
		edges           []string
		armyOK, fleetOK bool
	}{
		{f.Edges.Army, true, false},
		{f.Edges.Fleet, false, true},
		{f.Edges.Both, true, true},
	}
	for _, set := range edgeSets {
		for _, e := range set.edges {
			if err := m.addEdge(e, set.armyOK, set.fleetOK); err != nil {
				return nil, fmt.Errorf("map: edge %q: %w", e, err)
			}
		}
	}

	m.buildIndex()
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("map: %w", err)
	}
	return m, nil
}

func (pf provinceFile) province() (*Province, error) {
	if pf.ID == "" {
		return nil, fmt.Errorf("province without id")
	}
	p := &Province{
		ID:           pf.ID,
		Name:         pf.Name,
		SupplyCenter: pf.SupplyCenter,
		HomePower:    Power(pf.Home),
	}
	switch pf.Geography {
	case "inland":
		p.Geography = Inland
	case "coastal":
		p.Geography = Coastal
		p.CoastType = CoastNormal
	case "water":
		p.Geography = Water
	default:
		return nil, fmt.Errorf("province %s: unknown geography %q", pf.ID, pf.Geography)
	}
	for _, c := range pf.Coasts {
		p.Coasts = append(p.Coasts, Coast(c))
	}
	switch {
	case len(p.Coasts) > 0:
		p.CoastType = CoastSplit
	case pf.Canal:
		p.CoastType = CoastCanal
	}
	return p, nil
}

// addEdge registers "a-b" (optionally "a-b/sc") in both directions.
func (m *DiplomacyMap) addEdge(edge string, armyOK, fleetOK bool) error {
	left, right, ok := strings.Cut(edge, "-")
	if !ok {
		return fmt.Errorf("expected from-to")
	}
	from, fromCoast := splitLocation(left)
	to, toCoast := splitLocation(right)
	for _, id := range []string{from, to} {
		if m.Provinces[id] == nil {
			return fmt.Errorf("%q: %w", id, ErrUnknownProvince)
		}
	}
	m.Adjacencies[from] = append(m.Adjacencies[from], Adjacency{from, fromCoast, to, toCoast, armyOK, fleetOK})
	m.Adjacencies[to] = append(m.Adjacencies[to], Adjacency{to, toCoast, from, fromCoast, armyOK, fleetOK})
	return nil
}

// splitLocation turns "stp/nc" into ("stp", NorthCoast).
func splitLocation(s string) (string, Coast) {
	prov, coast, _ := strings.Cut(strings.TrimSpace(s), "/")
	return prov, Coast(coast)
}
