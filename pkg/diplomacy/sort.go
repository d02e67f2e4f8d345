package diplomacy

import "sort"

// SortOrders puts orders in canonical order: power, order type (moves
// first), unit type, then location.
func SortOrders(orders []Order) {
	sort.SliceStable(orders, func(a, b int) bool {
		return lessOrder(&orders[a], &orders[b])
	})
}

// canonicalIndices returns the indices of orders in canonical order without
// moving them.
func canonicalIndices(orders []Order) []int {
	idx := make([]int, len(orders))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return lessOrder(&orders[idx[a]], &orders[idx[b]])
	})
	return idx
}
