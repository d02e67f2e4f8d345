package diplomacy

// DrawConvoyPath returns one candidate chain of convoy orders (as indices
// into orders) that could carry the move orders[i]. Only indices listed in
// candidates are considered, which lets callers drop failed links and ask
// again. The chain starts at the first matching fleet next to the origin and
// grows greedily through mutually adjacent matching fleets until it touches
// the destination or runs out of links. Returns nil if no fleet starts it.
func DrawConvoyPath(m *DiplomacyMap, orders []Order, i int, candidates []int) []int {
	o := &orders[i]
	start := -1
	for _, c := range candidates {
		if convoys(m, &orders[c], o) && m.AdjacentBySea(orders[c].Location, o.Location) {
			start = c
			break
		}
	}
	if start < 0 {
		return nil
	}

	path := []int{start}
	visited := map[int]bool{start: true}
	for cur := start; !m.AdjacentBySea(orders[cur].Location, o.Target); {
		next := -1
		for _, c := range candidates {
			if visited[c] || !convoys(m, &orders[c], o) {
				continue
			}
			if m.AdjacentBySea(orders[cur].Location, orders[c].Location) {
				next = c
				break
			}
		}
		if next < 0 {
			break
		}
		visited[next] = true
		path = append(path, next)
		cur = next
	}
	return path
}

// ConvoyPathValid reports whether path links the mover's origin to its
// destination: first link next to the origin, last link next to the
// destination, every consecutive pair adjacent.
func ConvoyPathValid(m *DiplomacyMap, orders []Order, i int, path []int) bool {
	if len(path) == 0 {
		return false
	}
	o := &orders[i]
	if !m.AdjacentBySea(orders[path[0]].Location, o.Location) {
		return false
	}
	if !m.AdjacentBySea(orders[path[len(path)-1]].Location, o.Target) {
		return false
	}
	for k := 1; k < len(path); k++ {
		if !m.AdjacentBySea(orders[path[k-1]].Location, orders[path[k]].Location) {
			return false
		}
	}
	return true
}

// convoyCandidates lists every legal convoy order matching the move orders[i].
func convoyCandidates(m *DiplomacyMap, orders []Order, i int) []int {
	var out []int
	for k := range orders {
		if k != i && convoys(m, &orders[k], &orders[i]) {
			out = append(out, k)
		}
	}
	return out
}

func withoutIndices(s []int, drop []int) []int {
	out := s[:0]
	for _, v := range s {
		keep := true
		for _, d := range drop {
			if v == d {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, v)
		}
	}
	return out
}
