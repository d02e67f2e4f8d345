package diplomacy

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseDSON(t *testing.T) {
	tests := []struct {
		in   string
		want Order
	}{
		{"A vie H", Order{Power: Austria, UnitType: Army, Location: "vie", Type: OrderHold}},
		{"A bud - rum", Order{Power: Austria, UnitType: Army, Location: "bud", Type: OrderMove, Target: "rum"}},
		{"F stp/sc - bot", Order{Power: Austria, UnitType: Fleet, Location: "stp", Coast: SouthCoast, Type: OrderMove, Target: "bot"}},
		{"F mao - SPA/NC", Order{Power: Austria, UnitType: Fleet, Location: "mao", Type: OrderMove, Target: "spa", TargetCoast: NorthCoast}},
		{"A tyr S A vie H", Order{Power: Austria, UnitType: Army, Location: "tyr", Type: OrderSupport, AuxLoc: "vie"}},
		{"A gal S F bud - rum", Order{Power: Austria, UnitType: Army, Location: "gal", Type: OrderSupport, AuxUnitType: Fleet, AuxLoc: "bud", AuxTarget: "rum"}},
		{"F mao C A bre - spa", Order{Power: Austria, UnitType: Fleet, Location: "mao", Type: OrderConvoy, AuxLoc: "bre", AuxTarget: "spa"}},
		{"A vie R boh", Order{Power: Austria, UnitType: Army, Location: "vie", Type: OrderRetreat, Target: "boh", Dislodged: true}},
		{"F tri D", Order{Power: Austria, UnitType: Fleet, Location: "tri", Type: OrderDestroy}},
		{"A vie B", Order{Power: Austria, UnitType: Army, Location: "vie", Type: OrderBuild}},
		{"w", Order{Power: Austria, Type: OrderBuild}},
		{"a vie h", Order{Power: Austria, UnitType: Army, Location: "vie", Type: OrderHold}},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseDSON(Austria, tc.in)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff([]Order{tc.want}, got); diff != "" {
				t.Errorf("ParseDSON (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseDSON_Several(t *testing.T) {
	got, err := ParseDSON(Turkey, " A con - bul ; F ank - bla;; A smy H ")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d orders, want 3", len(got))
	}
	for _, o := range got {
		if o.Power != Turkey || o.Resolved() {
			t.Errorf("order %s: power %q status %s", o, o.Power, o.Status)
		}
	}

	if got, err := ParseDSON(Turkey, "   "); err != nil || got != nil {
		t.Errorf("blank input = %v, %v; want nil, nil", got, err)
	}
}

func TestParseDSON_Errors(t *testing.T) {
	for _, in := range []string{
		"A vie",
		"X vie H",
		"A vie Z",
		"A vie -",
		"A vie - boh - gal",
		"A vie H H",
		"A bud/xc - rum",
		"A tyr S A vie",
		"A tyr S A vie X",
		"A tyr S A vie + boh",
		"F mao C F bre - spa",
		"F mao C A bre spa",
		"F mao C A bre - spa - por",
		"A vie R",
		"A / H",
		"A vie H ; A bud",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseDSON(Austria, in)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.HasPrefix(err.Error(), "dson ") {
				t.Errorf("error %q should name the offending order", err)
			}
		})
	}
}

func TestFormatDSON(t *testing.T) {
	in := "A vie H ; A bud - rum ; F stp/sc - bot ; A tyr S A vie H ; " +
		"A gal S F bud - rum ; F mao C A bre - spa ; A vie R boh ; " +
		"F tri D ; A vie B ; W"
	orders, err := ParseDSON(Austria, in)
	if err != nil {
		t.Fatal(err)
	}
	if got := FormatDSON(orders); got != in {
		t.Errorf("round trip:\n got %q\nwant %q", got, in)
	}
	if got := FormatDSON(nil); got != "" {
		t.Errorf("FormatDSON(nil) = %q", got)
	}
}

func TestOrderDSON_RewrittenAndDisband(t *testing.T) {
	o := ordersOf(t, "england: F eng C A lon - bre")[0]
	o.rewriteAsHold()
	if got := o.DSON(); got != "F eng H" {
		t.Errorf("rewritten convoy = %q, want F eng H", got)
	}

	disband := Order{Type: OrderRetreat, UnitType: Fleet, Location: "tri", Dislodged: true}
	if got := disband.DSON(); got != "F tri D" {
		t.Errorf("targetless retreat = %q, want F tri D", got)
	}
}
