package diplomacy

import (
	"errors"
	"strings"
	"testing"
)

func TestStandardMap(t *testing.T) {
	m := StandardMap()
	if got := m.ProvinceCount(); got != 75 {
		t.Fatalf("ProvinceCount = %d, want 75", got)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if StandardMap() != m {
		t.Error("StandardMap should be cached")
	}

	centers := 0
	for _, p := range m.Provinces {
		if p.SupplyCenter {
			centers++
		}
	}
	if centers != 34 {
		t.Errorf("supply centers = %d, want 34", centers)
	}

	for idx := range m.ProvinceCount() {
		if got := m.ProvinceIndex(m.ProvinceName(idx)); got != idx {
			t.Fatalf("index round trip for %d gave %d", idx, got)
		}
	}
	if m.ProvinceIndex("xyz") != -1 {
		t.Error("unknown province should have index -1")
	}
}

func TestAdjacency(t *testing.T) {
	m := StandardMap()
	tests := []struct {
		src      string
		srcCoast Coast
		dst      string
		dstCoast Coast
		fleet    bool
		want     bool
	}{
		{"mun", NoCoast, "tyr", NoCoast, false, true},
		{"kie", NoCoast, "mun", NoCoast, true, false},
		{"lon", NoCoast, "nth", NoCoast, true, true},
		{"lon", NoCoast, "nth", NoCoast, false, false},
		{"stp", SouthCoast, "bot", NoCoast, true, true},
		{"stp", NorthCoast, "bot", NoCoast, true, false},
		{"bar", NoCoast, "stp", NorthCoast, true, true},
		{"bar", NoCoast, "stp", SouthCoast, true, false},
		{"rom", NoCoast, "apu", NoCoast, true, false},
		{"rom", NoCoast, "apu", NoCoast, false, true},
		{"con", NoCoast, "bul", EastCoast, true, true},
		{"con", NoCoast, "bul", SouthCoast, true, true},
	}
	for _, tc := range tests {
		if got := m.Adjacent(tc.src, tc.srcCoast, tc.dst, tc.dstCoast, tc.fleet); got != tc.want {
			t.Errorf("Adjacent(%s/%s, %s/%s, fleet=%t) = %t, want %t",
				tc.src, tc.srcCoast, tc.dst, tc.dstCoast, tc.fleet, got, tc.want)
		}
	}

	if !m.AdjacentIgnoreSplitCoast("gol", NoCoast, "spa", true) {
		t.Error("gol touches spa along the south coast")
	}
	if m.AdjacentIgnoreSplitCoast("spa", NorthCoast, "gol", true) {
		t.Error("spa/nc does not touch gol")
	}
	if !m.AdjacentBySea("eng", "bre") || m.AdjacentBySea("par", "bre") {
		t.Error("AdjacentBySea mismatch")
	}
	if !SameProvince("spa", "spa") || SameProvince("", "") || SameProvince("spa", "por") {
		t.Error("SameProvince mismatch")
	}
}

func TestFleetCoastsTo(t *testing.T) {
	m := StandardMap()
	if got := m.FleetCoastsTo("mao", NoCoast, "spa"); len(got) != 2 {
		t.Errorf("mao reaches %v of spa, want both coasts", got)
	}
	if got := m.FleetCoastsTo("gol", NoCoast, "spa"); len(got) != 1 || got[0] != SouthCoast {
		t.Errorf("gol reaches %v of spa, want [sc]", got)
	}
}

const tinyMap = `
name: tiny
provinces:
  - {id: aaa, name: A, geography: coastal, supply_center: true, home: austria}
  - {id: bbb, name: B, geography: coastal}
  - {id: sea, name: Sea, geography: water}
edges:
  army: []
  fleet: [aaa-sea, bbb-sea]
  both: [aaa-bbb]
`

func TestLoadMap(t *testing.T) {
	m, err := LoadMap(strings.NewReader(tinyMap))
	if err != nil {
		t.Fatal(err)
	}
	if m.Name != "tiny" || m.ProvinceCount() != 3 {
		t.Fatalf("loaded %q with %d provinces", m.Name, m.ProvinceCount())
	}
	if !m.Adjacent("sea", NoCoast, "aaa", NoCoast, true) {
		t.Error("fleet edges are undirected")
	}
	if !m.Adjacent("bbb", NoCoast, "aaa", NoCoast, false) {
		t.Error("both edges let armies through")
	}
	if got := HomeCenters(m, Austria); len(got) != 1 || got[0] != "aaa" {
		t.Errorf("HomeCenters = %v, want [aaa]", got)
	}
}

func TestLoadMap_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{
			name:    "unknown edge endpoint",
			yaml:    strings.Replace(tinyMap, "bbb-sea", "ccc-sea", 1),
			wantErr: ErrUnknownProvince,
		},
		{name: "unknown field", yaml: strings.Replace(tinyMap, "name: tiny", "name: tiny\ncolour: red", 1)},
		{name: "bad geography", yaml: strings.Replace(tinyMap, "geography: water", "geography: lava", 1)},
		{name: "owned water", yaml: strings.Replace(tinyMap, "geography: water}", "geography: water, home: italy}", 1)},
		{name: "duplicate province", yaml: strings.Replace(tinyMap, "id: bbb", "id: aaa", 1)},
		{name: "single split coast", yaml: strings.Replace(tinyMap, "id: bbb, name: B, geography: coastal", "id: bbb, name: B, geography: coastal, coasts: [nc]", 1)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadMap(strings.NewReader(tc.yaml))
			if err == nil {
				t.Fatal("expected an error")
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Errorf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}
