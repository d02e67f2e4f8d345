package diplomacy

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func decodeBoard(t *testing.T, s string) *Board {
	t.Helper()
	_, b, err := DecodeDFEN(s)
	if err != nil {
		t.Fatalf("DecodeDFEN(%q): %v", s, err)
	}
	return b
}

func TestPush_DislodgementToRetreat(t *testing.T) {
	m := StandardMap()
	orders := judged(t, ordersOf(t,
		"austria: F adr S A tri - ven",
		"austria: A tri - ven",
		"austria: A vie - tyr",
		"italy: A ven H",
		"italy: A tyr S A ven H",
	))

	next, retreats := Push(m, NewInitialBoard(), orders)
	if u := next.UnitAt("ven"); u == nil || u.Power != Austria {
		t.Fatalf("ven holds %v, want the Austrian army", u)
	}
	if next.Occupied("tri") {
		t.Error("tri should be empty after the move")
	}
	if len(next.Dislodged) != 1 || next.Dislodged[0].Unit.Power != Italy || next.Dislodged[0].AttackerFrom != "tri" {
		t.Fatalf("dislodged = %+v", next.Dislodged)
	}
	if len(retreats) != 1 || !retreats[0].Dislodged || retreats[0].Location != "ven" || retreats[0].Target != "" {
		t.Fatalf("retreats = %v", retreats)
	}
	if next.SupplyCenters["ven"] != Italy {
		t.Error("supply centers change hands only when claimed")
	}

	opts := RetreatOptions(m, next, next.Dislodged[0])
	for _, blocked := range []string{"tri", "tyr"} {
		if slices.Contains(opts, blocked) {
			t.Errorf("retreat options %v include %s", opts, blocked)
		}
	}
	if !slices.Contains(opts, "pie") {
		t.Errorf("retreat options %v miss pie", opts)
	}

	retreats[0].Target = "pie"
	if err := NewPhaseJudge(m, PhaseRetreat, next).Judge(retreats); err != nil {
		t.Fatal(err)
	}
	if !retreats[0].Verdict {
		t.Fatal("retreat to pie should succeed")
	}
	after := PushRetreats(m, next, retreats)
	if u := after.UnitAt("pie"); u == nil || u.Power != Italy {
		t.Errorf("pie holds %v, want the Italian army", u)
	}
	if len(after.Dislodged) != 0 {
		t.Error("dislodged units should be cleared after retreats")
	}
}

func TestStandoffs(t *testing.T) {
	m := StandardMap()
	orders := judged(t, ordersOf(t, movementCases[2].orders...))
	if diff := cmp.Diff(map[string]bool{"tyr": true}, Standoffs(orders)); diff != "" {
		t.Errorf("standoffs (-want +got):\n%s", diff)
	}
	next, _ := Push(m, nil, orders)
	if !next.Standoff("tyr") {
		t.Error("board should remember the tyr standoff")
	}
}

func TestRetreatJudge(t *testing.T) {
	m := StandardMap()
	board := decodeBoard(t, "r/Aatyr,Gaber/Gmun,Gber/Gamun<boh/sil")

	tests := []struct {
		order string
		want  bool
	}{
		{"germany: A mun R sil", false}, // standoff
		{"germany: A mun R boh", false}, // attacker origin
		{"germany: A mun R tyr", false}, // occupied
		{"germany: A mun R ber", false}, // occupied by own unit
		{"germany: A mun R ruh", true},
		{"germany: A mun R kie", true},
		{"germany: A mun R ven", false}, // not adjacent
		{"germany: A mun D", true},
	}
	for _, tc := range tests {
		t.Run(tc.order, func(t *testing.T) {
			orders := ordersOf(t, tc.order)
			if err := NewPhaseJudge(m, PhaseRetreat, board).Judge(orders); err != nil {
				t.Fatal(err)
			}
			if orders[0].Verdict != tc.want {
				t.Errorf("verdict = %t, want %t", orders[0].Verdict, tc.want)
			}
		})
	}
}

func TestRetreatJudge_ContestedDestination(t *testing.T) {
	orders := ordersOf(t,
		"austria: A boh R sil",
		"russia: A gal R sil",
		"germany: A pru R lvn",
	)
	if err := NewRetreatJudge(StandardMap(), nil).Judge(orders); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]bool{false, false, true}, Verdicts(orders)); diff != "" {
		t.Errorf("verdicts (-want +got):\n%s", diff)
	}
}

func TestWinterJudge_Builds(t *testing.T) {
	m := StandardMap()
	board := decodeBoard(t, "a/Aabud/Abud,Atri,Avie/-")
	ledger := AdjustmentLedger(m, board)
	if diff := cmp.Diff(Ledger{Austria: 2}, ledger); diff != "" {
		t.Fatalf("ledger (-want +got):\n%s", diff)
	}

	orders := ordersOf(t,
		"austria: A vie B",
		"austria: F tri B",
		"austria: A bud B",
	)
	j := NewPhaseJudge(m, PhaseAdjustment, board)
	if err := j.Judge(orders); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]bool{true, true, false}, Verdicts(orders)); diff != "" {
		t.Errorf("verdicts (-want +got):\n%s", diff)
	}
	if got := j.Remaining()[Austria]; got != 0 {
		t.Errorf("remaining builds = %d, want 0", got)
	}

	after := PushAdjustments(board, orders)
	if after.UnitCount(Austria) != 3 {
		t.Errorf("Austria has %d units, want 3", after.UnitCount(Austria))
	}
	if board.UnitCount(Austria) != 1 {
		t.Error("PushAdjustments modified its input")
	}
}

func TestWinterJudge_CanonicalOrder(t *testing.T) {
	m := StandardMap()
	occ := decodeBoard(t, "a/-/-/-")
	for _, lines := range [][]string{
		{"austria: A vie B", "austria: A tri B"},
		{"austria: A tri B", "austria: A vie B"},
	} {
		orders := ordersOf(t, lines...)
		if err := NewWinterJudge(m, occ, Ledger{Austria: 1}).Judge(orders); err != nil {
			t.Fatal(err)
		}
		if got := verdictsByLocation(orders); !got["tri"] || got["vie"] {
			t.Errorf("%v: got %v, want only tri built", lines, got)
		}
	}
}

func TestWinterJudge_Destroys(t *testing.T) {
	m := StandardMap()
	board := decodeBoard(t, "a/Fapar,Famar,Ffbre/Fpar,Fmar/-")
	if diff := cmp.Diff(Ledger{France: -1}, AdjustmentLedger(m, board)); diff != "" {
		t.Fatalf("ledger (-want +got):\n%s", diff)
	}

	orders := ordersOf(t, "france: A par D", "france: A mar D")
	if err := NewPhaseJudge(m, PhaseAdjustment, board).Judge(orders); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]bool{false, true}, Verdicts(orders)); diff != "" {
		t.Errorf("verdicts (-want +got):\n%s", diff)
	}
	after := PushAdjustments(board, orders)
	if after.Occupied("mar") || !after.Occupied("par") {
		t.Errorf("after destroys: %v", after.Units)
	}
}

func TestWinterJudge_Waive(t *testing.T) {
	orders := ordersOf(t, "austria: W", "austria: A vie B")
	j := NewWinterJudge(StandardMap(), nil, Ledger{Austria: 1})
	if err := j.Judge(orders); err != nil {
		t.Fatal(err)
	}
	if got := j.Remaining()[Austria]; got != 0 {
		t.Errorf("remaining = %d, want 0", got)
	}
	if orders[0].Verdict == orders[1].Verdict {
		t.Errorf("exactly one of waive and build should succeed: %v", Verdicts(orders))
	}
}

func TestBoard(t *testing.T) {
	m := StandardMap()
	b := NewInitialBoard()
	if len(AdjustmentLedger(m, b)) != 0 {
		t.Error("the opening position needs no adjustments")
	}
	if _, ok := SoloWinner(b); ok {
		t.Error("nobody has won at the start")
	}
	if got := len(b.Orders()); got != 22 {
		t.Errorf("Orders() = %d holds, want 22", got)
	}

	c := b.Clone()
	c.Units[0].Province = "gal"
	delete(c.SupplyCenters, "ser")
	if b.Units[0].Province == "gal" {
		t.Error("Clone shares units with the original")
	}
	if _, ok := b.SupplyCenters["ser"]; !ok {
		t.Error("Clone shares supply centers with the original")
	}

	c.ClaimCenters(m)
	if _, ok := c.SupplyCenters["gal"]; ok {
		t.Error("gal is not a supply center")
	}
	c.Units = append(c.Units, Unit{Army, Austria, "ser", NoCoast})
	c.ClaimCenters(m)
	if c.SupplyCenterCount(Austria) != 4 {
		t.Errorf("Austria owns %d centers, want 4", c.SupplyCenterCount(Austria))
	}
}

func TestParsePhase(t *testing.T) {
	tests := map[string]Phase{
		"movement": PhaseMovement,
		"m":        PhaseMovement,
		"Retreat":  PhaseRetreat,
		"winter":   PhaseAdjustment,
		"a":        PhaseAdjustment,
	}
	for in, want := range tests {
		got, err := ParsePhase(in)
		if err != nil || got != want {
			t.Errorf("ParsePhase(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParsePhase("spring"); err == nil {
		t.Error("ParsePhase(spring) should fail")
	}
}
