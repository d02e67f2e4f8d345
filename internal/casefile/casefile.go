// Package casefile loads adjudication scenarios from YAML and checks a
// judge's verdicts against the expectations they record.
//
//	name: convoy paradox
//	phase: movement
//	board: m/Eflon,Efwal,Fabre,Ffeng/-/-/-   # optional, DFEN
//	orders:
//	  - "england: F lon S F wal - eng ; F wal - eng"
//	  - "france: A bre - lon ; F eng C A bre - lon"
//	expect: {lon: true, wal: true, bre: false, eng: false}
//	rewritten: [eng]
//	after: m/Eflon,Efeng,Fabre/-/-/-             # optional, DFEN
package casefile

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/freeeve/referee/pkg/diplomacy"
)

// WaiveKey is the expectation key for an order with no location.
const WaiveKey = "W"

// Case is one scenario: a position, the orders given in it, and the
// verdicts they should receive.
type Case struct {
	Name      string          `yaml:"name"`
	Phase     string          `yaml:"phase"`
	Board     string          `yaml:"board"`
	Ledger    map[string]int  `yaml:"ledger"`
	Orders    []string        `yaml:"orders"`
	Expect    map[string]bool `yaml:"expect"`
	Rewritten []string        `yaml:"rewritten"`
	After     string          `yaml:"after"`

	// Source is the file the case was read from, if any.
	Source string `yaml:"-"`
}

// Parse decodes one case. Unknown fields are rejected.
func Parse(r io.Reader) (*Case, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var c Case
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty case file")
		}
		return nil, fmt.Errorf("decode case: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Case) validate() error {
	if c.Name == "" {
		return errors.New("case has no name")
	}
	if len(c.Orders) == 0 {
		return fmt.Errorf("case %q has no orders", c.Name)
	}
	if len(c.Expect) == 0 {
		return fmt.Errorf("case %q has no expectations", c.Name)
	}
	if _, err := diplomacy.ParsePhase(c.Phase); err != nil {
		return fmt.Errorf("case %q: %w", c.Name, err)
	}
	for name := range c.Ledger {
		if _, ok := diplomacy.ParsePower(name); !ok {
			return fmt.Errorf("case %q: ledger names unknown power %q", c.Name, name)
		}
	}
	return nil
}

// Load reads a single case file.
func Load(path string) (*Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.Source = path
	return c, nil
}

// LoadAll reads every case named by paths. Directories are walked for
// .yaml and .yml files, in lexical order.
func LoadAll(paths ...string) ([]*Case, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if ext := filepath.Ext(path); !d.IsDir() && (ext == ".yaml" || ext == ".yml") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	cases := make([]*Case, 0, len(files))
	for _, f := range files {
		c, err := Load(f)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, nil
}

// PhaseOf returns the parsed phase; validated cases never fail here.
func (c *Case) PhaseOf() diplomacy.Phase {
	p, _ := diplomacy.ParsePhase(c.Phase)
	return p
}

// BuildOrders parses the case's "power: dson" lines.
func (c *Case) BuildOrders() ([]diplomacy.Order, error) {
	var out []diplomacy.Order
	for _, line := range c.Orders {
		name, dson, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("case %q: line %q: want power: orders", c.Name, line)
		}
		power, ok := diplomacy.ParsePower(name)
		if !ok {
			return nil, fmt.Errorf("case %q: line %q: unknown power", c.Name, line)
		}
		orders, err := diplomacy.ParseDSON(power, dson)
		if err != nil {
			return nil, fmt.Errorf("case %q: %w", c.Name, err)
		}
		out = append(out, orders...)
	}
	return out, nil
}

// BuildBoard decodes the case's starting position, or nil if it has none.
func (c *Case) BuildBoard() (*diplomacy.Board, error) {
	if c.Board == "" {
		return nil, nil
	}
	_, b, err := diplomacy.DecodeDFEN(c.Board)
	if err != nil {
		return nil, fmt.Errorf("case %q: %w", c.Name, err)
	}
	return b, nil
}

// BuildLedger converts the explicit ledger, or returns nil if the case
// leaves it to the board.
func (c *Case) BuildLedger() diplomacy.Ledger {
	if c.Ledger == nil {
		return nil
	}
	out := make(diplomacy.Ledger, len(c.Ledger))
	for name, n := range c.Ledger {
		p, _ := diplomacy.ParsePower(name)
		out[p] = n
	}
	return out
}

// expectKey is the key an order's verdict is recorded under.
func expectKey(o *diplomacy.Order) string {
	if o.Location == "" {
		return WaiveKey
	}
	return o.Location
}

// check compares judged orders against the case and describes every
// difference.
func (c *Case) check(orders []diplomacy.Order) []string {
	var out []string
	seen := make(map[string]bool, len(orders))
	for i := range orders {
		o := &orders[i]
		key := expectKey(o)
		seen[key] = true
		want, ok := c.Expect[key]
		if !ok {
			continue
		}
		if o.Verdict != want {
			out = append(out, fmt.Sprintf("%s: got %t, want %t", o, o.Verdict, want))
		}
		if o.Provenance.Rewritten != slices.Contains(c.Rewritten, key) {
			out = append(out, fmt.Sprintf("%s: rewritten %t, want %t", o, o.Provenance.Rewritten, !o.Provenance.Rewritten))
		}
	}

	var missing []string
	for key := range c.Expect {
		if !seen[key] {
			missing = append(missing, key)
		}
	}
	slices.Sort(missing)
	for _, key := range missing {
		out = append(out, fmt.Sprintf("%s: expected a verdict but no order was given", key))
	}
	return out
}
