package diplomacy

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDrawConvoyPath(t *testing.T) {
	m := StandardMap()
	orders := ordersOf(t,
		"england: A lon - tun",
		"england: F eng C A lon - tun",
		"england: F mao C A lon - tun",
		"england: F wes C A lon - tun",
		"england: F nth C A lon - tun",
	)

	all := convoyCandidates(m, orders, 0)
	if diff := cmp.Diff([]int{1, 2, 3, 4}, all); diff != "" {
		t.Fatalf("candidates (-want +got):\n%s", diff)
	}

	path := DrawConvoyPath(m, orders, 0, all)
	if diff := cmp.Diff([]int{1, 2, 3}, path); diff != "" {
		t.Errorf("path (-want +got):\n%s", diff)
	}
	if !ConvoyPathValid(m, orders, 0, path) {
		t.Error("full chain should be valid")
	}

	broken := DrawConvoyPath(m, orders, 0, withoutIndices(convoyCandidates(m, orders, 0), []int{2}))
	if ConvoyPathValid(m, orders, 0, broken) {
		t.Errorf("chain without mao should be invalid, got %v", broken)
	}

	if got := DrawConvoyPath(m, orders, 0, nil); got != nil {
		t.Errorf("no candidates: got %v, want nil", got)
	}
}

func TestConvoyPathValid_RejectsGaps(t *testing.T) {
	m := StandardMap()
	orders := ordersOf(t,
		"england: A lon - tun",
		"england: F eng C A lon - tun",
		"england: F wes C A lon - tun",
	)
	if ConvoyPathValid(m, orders, 0, []int{1, 2}) {
		t.Error("eng and wes do not touch")
	}
	if ConvoyPathValid(m, orders, 0, nil) {
		t.Error("empty path is never valid")
	}
}

func TestJudge_ConvoyRoutes(t *testing.T) {
	tests := []verdictCase{
		{
			name: "long chain",
			orders: []string{
				"england: A lon - tun",
				"england: F eng C A lon - tun",
				"england: F mao C A lon - tun",
				"england: F wes C A lon - tun",
			},
			want: []bool{true, true, true, true},
		},
		{
			name: "dislodged link breaks the chain",
			orders: []string{
				"england: A lon - tun",
				"england: F eng C A lon - tun",
				"england: F mao C A lon - tun",
				"england: F wes C A lon - tun",
				"france: F naf - mao",
				"france: F por S F naf - mao",
			},
			want: []bool{false, true, false, true, true, true},
		},
		{
			name: "second route survives",
			orders: []string{
				"england: A lon - bel",
				"england: F eng C A lon - bel",
				"england: F nth C A lon - bel",
				"france: F bre - eng",
				"france: F mao S F bre - eng",
			},
			want: []bool{true, false, true, true, true},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			orders := judged(t, ordersOf(t, tc.orders...))
			if diff := cmp.Diff(tc.want, Verdicts(orders)); diff != "" {
				t.Errorf("verdicts mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
