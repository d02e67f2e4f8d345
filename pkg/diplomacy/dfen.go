package diplomacy

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// DFEN is a one-line position notation: phase, units, supply centers,
// dislodged units and standoffs, separated by '/'.
//
//	m/Aavie,Aabud,Aftri/Avie,Abud,Atri,Nser/-/-
//	r/Gamun,Gaboh/Gmun/Aatyr<boh/gal
//
// Units are power letter, unit letter and province, with ".sc"-style coasts.
// A dislodged entry names the attacker's origin after '<'. Empty sections
// are written "-".

var powerLetters = map[Power]byte{
	Austria: 'A',
	England: 'E',
	France:  'F',
	Germany: 'G',
	Italy:   'I',
	Russia:  'R',
	Turkey:  'T',
	Neutral: 'N',
}

var phaseLetters = map[Phase]byte{
	PhaseMovement:   'm',
	PhaseRetreat:    'r',
	PhaseAdjustment: 'a',
}

func powerFromLetter(c byte) (Power, bool) {
	for p, l := range powerLetters {
		if l == c {
			return p, true
		}
	}
	return Neutral, false
}

// powerRank orders powers for output, neutral last.
func powerRank(p Power) int {
	if p == Neutral {
		return 256
	}
	return int(powerLetters[p])
}

// EncodeDFEN serializes a phase and board. Output is deterministic: entries
// are sorted by power, then province.
func EncodeDFEN(phase Phase, b *Board) string {
	var sb strings.Builder
	sb.Grow(256)
	sb.WriteByte(phaseLetters[phase])

	sb.WriteByte('/')
	units := slices.Clone(b.Units)
	slices.SortFunc(units, compareUnits)
	writeSection(&sb, len(units), func(i int) {
		writeDFENUnit(&sb, units[i])
	})

	sb.WriteByte('/')
	centers := make([]string, 0, len(b.SupplyCenters))
	for prov := range b.SupplyCenters {
		centers = append(centers, prov)
	}
	slices.SortFunc(centers, func(x, y string) int {
		return cmp.Or(cmp.Compare(powerRank(b.SupplyCenters[x]), powerRank(b.SupplyCenters[y])), cmp.Compare(x, y))
	})
	writeSection(&sb, len(centers), func(i int) {
		sb.WriteByte(powerLetters[b.SupplyCenters[centers[i]]])
		sb.WriteString(centers[i])
	})

	sb.WriteByte('/')
	dislodged := slices.Clone(b.Dislodged)
	slices.SortFunc(dislodged, func(x, y DislodgedUnit) int {
		return compareUnits(x.Unit, y.Unit)
	})
	writeSection(&sb, len(dislodged), func(i int) {
		writeDFENUnit(&sb, dislodged[i].Unit)
		sb.WriteByte('<')
		sb.WriteString(dislodged[i].AttackerFrom)
	})

	sb.WriteByte('/')
	var bounced []string
	for prov, ok := range b.Bounced {
		if ok {
			bounced = append(bounced, prov)
		}
	}
	slices.Sort(bounced)
	writeSection(&sb, len(bounced), func(i int) {
		sb.WriteString(bounced[i])
	})

	return sb.String()
}

func compareUnits(x, y Unit) int {
	return cmp.Or(cmp.Compare(powerRank(x.Power), powerRank(y.Power)), cmp.Compare(x.Province, y.Province))
}

func writeSection(sb *strings.Builder, n int, entry func(i int)) {
	if n == 0 {
		sb.WriteByte('-')
		return
	}
	for i := range n {
		if i > 0 {
			sb.WriteByte(',')
		}
		entry(i)
	}
}

func writeDFENUnit(sb *strings.Builder, u Unit) {
	sb.WriteByte(powerLetters[u.Power])
	if u.Type == Army {
		sb.WriteByte('a')
	} else {
		sb.WriteByte('f')
	}
	sb.WriteString(u.Province)
	if u.Coast != NoCoast {
		sb.WriteByte('.')
		sb.WriteString(string(u.Coast))
	}
}

// DecodeDFEN parses a DFEN string. The standoff section is optional.
func DecodeDFEN(s string) (Phase, *Board, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 4 && len(parts) != 5 {
		return PhaseMovement, nil, fmt.Errorf("dfen: expected 4 or 5 sections separated by '/', got %d", len(parts))
	}

	phase, err := ParsePhase(parts[0])
	if err != nil || len(parts[0]) != 1 {
		return PhaseMovement, nil, fmt.Errorf("dfen: invalid phase %q", parts[0])
	}

	b := &Board{SupplyCenters: make(map[string]Power)}
	err = eachEntry(parts[1], func(entry string) error {
		u, err := parseDFENUnit(entry)
		if err != nil {
			return fmt.Errorf("dfen: unit %q: %w", entry, err)
		}
		b.Units = append(b.Units, u)
		return nil
	})
	if err != nil {
		return phase, nil, err
	}

	err = eachEntry(parts[2], func(entry string) error {
		if len(entry) != 4 {
			return fmt.Errorf("dfen: invalid supply center %q", entry)
		}
		power, ok := powerFromLetter(entry[0])
		if !ok {
			return fmt.Errorf("dfen: invalid power in supply center %q", entry)
		}
		b.SupplyCenters[entry[1:]] = power
		return nil
	})
	if err != nil {
		return phase, nil, err
	}

	err = eachEntry(parts[3], func(entry string) error {
		unitPart, attacker, ok := strings.Cut(entry, "<")
		if !ok || len(attacker) != 3 {
			return fmt.Errorf("dfen: dislodged %q: want unit<origin", entry)
		}
		u, err := parseDFENUnit(unitPart)
		if err != nil {
			return fmt.Errorf("dfen: dislodged %q: %w", entry, err)
		}
		b.Dislodged = append(b.Dislodged, DislodgedUnit{Unit: u, AttackerFrom: attacker})
		return nil
	})
	if err != nil {
		return phase, nil, err
	}

	if len(parts) == 5 {
		err = eachEntry(parts[4], func(entry string) error {
			if len(entry) != 3 {
				return fmt.Errorf("dfen: invalid standoff %q", entry)
			}
			if b.Bounced == nil {
				b.Bounced = make(map[string]bool)
			}
			b.Bounced[entry] = true
			return nil
		})
		if err != nil {
			return phase, nil, err
		}
	}
	return phase, b, nil
}

func eachEntry(section string, fn func(entry string) error) error {
	if section == "-" || section == "" {
		return nil
	}
	for entry := range strings.SplitSeq(section, ",") {
		if err := fn(entry); err != nil {
			return err
		}
	}
	return nil
}

// parseDFENUnit parses "Aavie" or "Rfstp.sc".
func parseDFENUnit(s string) (Unit, error) {
	if len(s) < 5 {
		return Unit{}, fmt.Errorf("too short")
	}
	power, ok := powerFromLetter(s[0])
	if !ok || power == Neutral {
		return Unit{}, fmt.Errorf("invalid power %q", string(s[0]))
	}

	u := Unit{Power: power}
	switch s[1] {
	case 'a':
		u.Type = Army
	case 'f':
		u.Type = Fleet
	default:
		return Unit{}, fmt.Errorf("invalid unit type %q", string(s[1]))
	}

	prov, coast, _ := strings.Cut(s[2:], ".")
	if len(prov) != 3 {
		return Unit{}, fmt.Errorf("invalid province %q", prov)
	}
	switch c := Coast(coast); c {
	case NoCoast, NorthCoast, SouthCoast, EastCoast, WestCoast:
		u.Province, u.Coast = prov, c
	default:
		return Unit{}, fmt.Errorf("invalid coast %q", coast)
	}
	return u, nil
}
