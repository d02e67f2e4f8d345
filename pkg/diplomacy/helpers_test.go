package diplomacy

import (
	"math/rand"
	"strings"
	"testing"
)

// ordersOf builds an order collection from "power: dson" lines.
func ordersOf(t testing.TB, lines ...string) []Order {
	t.Helper()
	var out []Order
	for _, line := range lines {
		name, dson, ok := strings.Cut(line, ":")
		if !ok {
			t.Fatalf("line %q: want power: order", line)
		}
		power, ok := ParsePower(name)
		if !ok {
			t.Fatalf("line %q: unknown power", line)
		}
		orders, err := ParseDSON(power, dson)
		if err != nil {
			t.Fatalf("line %q: %v", line, err)
		}
		out = append(out, orders...)
	}
	return out
}

// judged runs a fresh movement Judge over orders and returns them.
func judged(t testing.TB, orders []Order) []Order {
	t.Helper()
	if err := NewJudge(StandardMap()).Judge(orders); err != nil {
		t.Fatalf("Judge: %v", err)
	}
	for i := range orders {
		if !orders[i].Resolved() {
			t.Fatalf("order %s left %s", orders[i], orders[i].Status)
		}
	}
	return orders
}

// verdictsByLocation maps each order's origin to its verdict.
func verdictsByLocation(orders []Order) map[string]bool {
	out := make(map[string]bool, len(orders))
	for i := range orders {
		out[orders[i].Location] = orders[i].Verdict
	}
	return out
}

func shuffled(rng *rand.Rand, orders []Order) []Order {
	out := CloneOrders(orders)
	ResetOrders(out)
	rng.Shuffle(len(out), func(a, b int) { out[a], out[b] = out[b], out[a] })
	return out
}

func findOrder(t testing.TB, orders []Order, loc string) *Order {
	t.Helper()
	if k := OccupantAt(orders, loc); k >= 0 {
		return &orders[k]
	}
	t.Fatalf("no order from %s", loc)
	return nil
}
