package diplomacy

import (
	"fmt"
	"maps"
	"sync"

	"github.com/rs/zerolog"
)

// variant selects which order types a Judge adjudicates.
type variant int

const (
	movementVariant variant = iota
	retreatVariant
	winterVariant
)

func (v variant) String() string {
	switch v {
	case retreatVariant:
		return "retreat"
	case winterVariant:
		return "winter"
	default:
		return "movement"
	}
}

func (v variant) accepts(t OrderType) bool {
	switch v {
	case retreatVariant:
		return t == OrderRetreat || t == OrderDestroy
	case winterVariant:
		return t == OrderBuild || t == OrderDestroy
	default:
		return t == OrderHold || t == OrderMove || t == OrderSupport || t == OrderConvoy || t == OrderRetreat
	}
}

// Occupancy answers whether a province currently holds a unit.
type Occupancy interface {
	Occupied(prov string) bool
}

// RetreatBoard is what a retreat judge needs to know about the movement
// phase that produced the dislodgements.
type RetreatBoard interface {
	Occupancy
	// Standoff reports whether a bounce left prov empty.
	Standoff(prov string) bool
	// AttackerOrigin returns where the unit that dislodged the one at loc
	// came from, or "".
	AttackerOrigin(loc string) string
}

// Ledger holds each power's adjustment count: positive for builds owed,
// negative for units that must be destroyed.
type Ledger map[Power]int

// Judge adjudicates one order collection in place. The result depends on
// the order of the collection only when the orders contain a paradox; use a
// Referee for a canonical answer. A Judge keeps no per-pass state and may be
// shared by concurrent passes over distinct collections.
type Judge struct {
	m       *DiplomacyMap
	log     zerolog.Logger
	variant variant
	board   RetreatBoard
	occ     Occupancy
	ledger  Ledger

	mu        sync.Mutex
	paradoxes int
	remaining Ledger
}

// JudgeOption configures a Judge.
type JudgeOption func(*Judge)

// WithLogger routes backup-rule and paradox diagnostics to l at debug level.
func WithLogger(l zerolog.Logger) JudgeOption {
	return func(j *Judge) {
		j.log = l
	}
}

// NewJudge returns a movement-phase judge: holds, moves, supports, convoys
// and retreats.
func NewJudge(m *DiplomacyMap, opts ...JudgeOption) *Judge {
	j := &Judge{m: m, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// NewRetreatJudge returns a judge for retreat and destroy orders issued by
// dislodged units. board may be nil, in which case only contested
// destinations fail.
func NewRetreatJudge(m *DiplomacyMap, board RetreatBoard, opts ...JudgeOption) *Judge {
	j := NewJudge(m, opts...)
	j.variant = retreatVariant
	j.board = board
	return j
}

// NewWinterJudge returns a judge for build and destroy orders. ledger is
// read, never written; Remaining reports what the last pass left.
func NewWinterJudge(m *DiplomacyMap, occ Occupancy, ledger Ledger, opts ...JudgeOption) *Judge {
	j := NewJudge(m, opts...)
	j.variant = winterVariant
	j.occ = occ
	j.ledger = ledger
	return j
}

// Map returns the province graph the judge adjudicates on.
func (j *Judge) Map() *DiplomacyMap {
	return j.m
}

// Paradoxes returns how many times the paradox rule fired across every pass.
func (j *Judge) Paradoxes() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.paradoxes
}

// Remaining returns the ledger left by the most recent winter pass.
func (j *Judge) Remaining() Ledger {
	j.mu.Lock()
	defer j.mu.Unlock()
	return maps.Clone(j.remaining)
}

// Judge resolves every order in place: on success each order has Status
// Resolved and a definitive Verdict. Orders already resolved keep their
// verdicts. The only failures are unknown provinces and invariant
// violations, both caller bugs.
func (j *Judge) Judge(orders []Order) error {
	st, err := j.judge(orders)
	if err != nil {
		return err
	}
	j.mu.Lock()
	j.paradoxes += st.paradoxes
	if st.ledger != nil {
		j.remaining = st.ledger
	}
	j.mu.Unlock()
	return nil
}

type passStats struct {
	paradoxes int
	ledger    Ledger
}

func (j *Judge) judge(orders []Order) (st passStats, err error) {
	if err := j.check(orders); err != nil {
		return st, err
	}
	defer recoverInvariant(&err)
	p := j.newPass(orders)
	p.run()
	return passStats{paradoxes: p.paradoxes, ledger: p.ledger}, nil
}

func (j *Judge) check(orders []Order) error {
	for i := range orders {
		o := &orders[i]
		if !j.variant.accepts(o.Type) {
			return &InvariantError{Order: *o, Message: fmt.Sprintf("%s judge cannot adjudicate %s orders", j.variant, o.Type)}
		}
		for _, id := range []string{o.Location, o.Target, o.AuxLoc, o.AuxTarget} {
			if id != "" && j.m.Province(id) == nil {
				return fmt.Errorf("order %s: %q: %w", o.Describe(), id, ErrUnknownProvince)
			}
		}
	}
	return nil
}

// pass is the state of one judging run over one collection.
type pass struct {
	m       *DiplomacyMap
	log     zerolog.Logger
	variant variant
	board   RetreatBoard
	occ     Occupancy
	ledger  Ledger

	orders []Order
	lookup []int // province index -> first order issued from it, -1 if none

	cycle     []int
	depth     int
	uncertain bool

	swapped   []bool // convoy swaps no longer treated as head-to-head
	built     map[string]bool
	paradoxes int
}

func (j *Judge) newPass(orders []Order) *pass {
	p := &pass{
		m:       j.m,
		log:     j.log,
		variant: j.variant,
		board:   j.board,
		occ:     j.occ,
		orders:  orders,
		lookup:  make([]int, j.m.ProvinceCount()),
		swapped: make([]bool, len(orders)),
	}
	if j.variant == winterVariant {
		p.ledger = maps.Clone(j.ledger)
		if p.ledger == nil {
			p.ledger = Ledger{}
		}
		p.built = make(map[string]bool)
	}
	for i := range p.lookup {
		p.lookup[i] = -1
	}
	for i := range orders {
		idx := j.m.ProvinceIndex(orders[i].Location)
		if idx >= 0 && p.lookup[idx] < 0 {
			p.lookup[idx] = i
		}
	}
	return p
}

func (p *pass) occupant(prov string) int {
	idx := p.m.ProvinceIndex(prov)
	if idx < 0 {
		return -1
	}
	return p.lookup[idx]
}

func (p *pass) inCycle(i int) bool {
	for _, k := range p.cycle {
		if k == i {
			return true
		}
	}
	return false
}

// sequence is the top-level evaluation order. Adjustments are ledger driven,
// so they run in canonical order to stay independent of submission order.
func (p *pass) sequence() []int {
	if p.variant == winterVariant {
		return canonicalIndices(p.orders)
	}
	seq := make([]int, len(p.orders))
	for i := range seq {
		seq[i] = i
	}
	return seq
}

func (p *pass) run() {
	seq := p.sequence()
	limit := 2*len(p.orders) + 2
	for sweep := 0; ; sweep++ {
		pending := false
		for _, i := range seq {
			if p.orders[i].Resolved() {
				continue
			}
			pending = true
			p.resolve(i, true)
			if len(p.cycle) > 0 {
				members := append([]int(nil), p.cycle...)
				p.cycle = p.cycle[:0]
				p.backup(members)
			}
			p.depth = 0
			p.uncertain = false
		}
		if !pending {
			return
		}
		if sweep > limit {
			o := &p.orders[seq[0]]
			for _, i := range seq {
				if !p.orders[i].Resolved() {
					o = &p.orders[i]
					break
				}
			}
			violate(o, "judging did not converge")
		}
	}
}

// resolve returns the verdict of orders[i], guessing optimistic when the
// order is part of an unresolved cycle.
func (p *pass) resolve(i int, optimistic bool) bool {
	o := &p.orders[i]
	if o.Status == Resolved {
		return o.Verdict
	}
	if p.inCycle(i) {
		p.uncertain = true
		return optimistic
	}
	if o.Status == InProgress {
		p.cycle = append(p.cycle, i)
		p.depth++
		p.uncertain = true
		return optimistic
	}

	o.Status = InProgress
	oldLen, oldDepth, oldUncertain := len(p.cycle), p.depth, p.uncertain
	p.uncertain = false
	opt := p.adjudicate(i, true)
	pes := opt
	if p.uncertain {
		pes = p.adjudicate(i, false)
	}
	o.Status = Unresolved

	if opt == pes {
		p.cycle = p.cycle[:oldLen]
		p.depth = oldDepth
		p.uncertain = oldUncertain
		p.commit(i, opt)
		return opt
	}

	if p.inCycle(i) {
		p.depth--
	}
	if p.depth == oldDepth && len(p.cycle) > oldLen {
		members := append([]int(nil), p.cycle[oldLen:]...)
		p.cycle = p.cycle[:oldLen]
		p.uncertain = oldUncertain
		p.backup(members)
		return p.resolve(i, optimistic)
	}
	if !p.inCycle(i) {
		p.cycle = append(p.cycle, i)
	}
	return optimistic
}

func (p *pass) commit(i int, verdict bool) {
	o := &p.orders[i]
	if o.Status == Resolved {
		return
	}
	o.Status = Resolved
	o.Verdict = verdict

	switch o.Type {
	case OrderMove:
		if verdict {
			p.markSwap(i)
		}
	case OrderConvoy:
		if !verdict {
			p.dropConvoyedMove(i)
		}
	case OrderBuild:
		if verdict {
			p.ledger[o.Power]--
			p.built[o.Location] = true
		}
	case OrderDestroy:
		if verdict && p.variant == winterVariant {
			p.ledger[o.Power]++
		}
	}
}

// markSwap suppresses head-to-head handling once both sides of a swap
// have gone through.
func (p *pass) markSwap(i int) {
	h := HeadToHead(p.orders, i)
	if h >= 0 && p.orders[h].Resolved() && p.orders[h].Verdict {
		p.swapped[i] = true
		p.swapped[h] = true
	}
}

// dropConvoyedMove reopens a move across water that was judged through a
// convoy which has now failed.
func (p *pass) dropConvoyedMove(i int) {
	k := Corresponding(p.orders, i)
	if k < 0 {
		return
	}
	mv := &p.orders[k]
	if mv.Resolved() && mv.Verdict && !landRoute(p.m, mv) {
		p.log.Debug().Str("move", mv.Describe()).Str("convoy", p.orders[i].Describe()).Msg("convoy failed, move reopened")
		mv.Reset()
	}
}

// backup settles a cycle the resolver cannot decide. A ring of moves all
// succeed; otherwise convoys in the ring become holds. A ring with neither
// fails outright.
func (p *pass) backup(members []int) {
	allMoves := true
	for _, k := range members {
		if p.orders[k].Type != OrderMove {
			allMoves = false
			break
		}
	}
	if allMoves {
		p.log.Debug().Strs("cycle", p.describe(members)).Msg("backup rule: circular movement")
		for _, k := range members {
			p.commit(k, true)
		}
		return
	}
	if p.szykman(members) {
		return
	}
	p.log.Debug().Strs("cycle", p.describe(members)).Msg("backup rule: cycle fails")
	for _, k := range members {
		p.commit(k, false)
	}
}

// szykman rewrites every convoy in the cycle as a hold.
func (p *pass) szykman(members []int) bool {
	var rewritten []int
	for _, k := range members {
		o := &p.orders[k]
		if o.Type != OrderConvoy {
			continue
		}
		o.rewriteAsHold()
		o.Reset()
		rewritten = append(rewritten, k)
	}
	if len(rewritten) == 0 {
		return false
	}
	p.paradoxes++
	p.log.Debug().Strs("convoys", p.describe(rewritten)).Msg("paradox: convoys hold")
	return true
}

func (p *pass) describe(idx []int) []string {
	out := make([]string, len(idx))
	for n, k := range idx {
		out[n] = p.orders[k].String()
	}
	return out
}

// adjudicate applies the rules to orders[i], trusting resolve for every
// dependency.
func (p *pass) adjudicate(i int, optimistic bool) bool {
	o := &p.orders[i]
	if !p.variant.accepts(o.Type) {
		violate(o, "%s judge cannot adjudicate %s orders", p.variant, o.Type)
	}
	switch o.Type {
	case OrderHold:
		return p.adjudicateHold(i, optimistic)
	case OrderMove:
		return p.adjudicateMove(i, optimistic)
	case OrderSupport:
		return p.adjudicateSupport(i, optimistic)
	case OrderConvoy:
		return p.adjudicateConvoy(i, optimistic)
	case OrderRetreat:
		return p.adjudicateRetreat(i)
	case OrderBuild:
		return p.adjudicateBuild(i)
	case OrderDestroy:
		return p.adjudicateDestroy(i)
	}
	violate(o, "unknown order type %d", int(o.Type))
	return false
}

// dislodged reports whether some mover into orders[i]'s province succeeds.
func (p *pass) dislodged(i int, optimistic bool) bool {
	for _, k := range MoversTo(p.orders, p.orders[i].Location) {
		if k != i && p.resolve(k, !optimistic) {
			return true
		}
	}
	return false
}

func (p *pass) adjudicateHold(i int, optimistic bool) bool {
	return !p.dislodged(i, optimistic)
}

func (p *pass) adjudicateMove(i int, optimistic bool) bool {
	o := &p.orders[i]
	h := p.headToHead(i)
	attack := p.attackStrength(i, optimistic, h >= 0)
	if h < 0 {
		return attack > p.holdStrength(o.Target, optimistic) && p.champion(i, attack, optimistic)
	}
	if attack > p.defendStrength(h, optimistic) && p.champion(i, attack, optimistic) {
		return true
	}
	return p.convoySwap(i, h, optimistic)
}

// convoySwap lets two units trade places when at least one goes by convoy
// and each would succeed were the other not blocking it.
func (p *pass) convoySwap(i, h int, optimistic bool) bool {
	if !AdjacentMatchingConvoyExists(p.m, p.orders, i) && !AdjacentMatchingConvoyExists(p.m, p.orders, h) {
		return false
	}
	if !p.convoyRoute(i, optimistic) && !p.convoyRoute(h, optimistic) {
		return false
	}
	o := &p.orders[i]
	attack := p.attackStrength(i, optimistic, false)
	if attack <= p.holdStrength(o.Target, optimistic) || !p.champion(i, attack, optimistic) {
		return false
	}
	return p.resolve(h, optimistic)
}

func (p *pass) adjudicateSupport(i int, optimistic bool) bool {
	o := &p.orders[i]
	if Corresponding(p.orders, i) < 0 || !legal(p.m, o) {
		return false
	}
	for _, k := range MoversTo(p.orders, o.Location) {
		a := &p.orders[k]
		if k == i || a.Type != OrderMove {
			continue
		}
		if a.Power != o.Power && !SameProvince(a.Location, o.AuxTarget) && p.pathSuccessful(k, !optimistic) {
			return false
		}
		if p.resolve(k, !optimistic) {
			return false
		}
	}
	return true
}

func (p *pass) adjudicateConvoy(i int, optimistic bool) bool {
	if !legal(p.m, &p.orders[i]) || Corresponding(p.orders, i) < 0 {
		return false
	}
	return !p.dislodged(i, optimistic)
}

func (p *pass) adjudicateRetreat(i int) bool {
	o := &p.orders[i]
	if o.Target == "" {
		return true
	}
	if !legal(p.m, o) {
		return false
	}
	if p.board != nil {
		if p.board.Occupied(o.Target) || p.board.Standoff(o.Target) || SameProvince(p.board.AttackerOrigin(o.Location), o.Target) {
			return false
		}
	}
	for k := range p.orders {
		r := &p.orders[k]
		if k != i && r.Type == OrderRetreat && SameProvince(r.Target, o.Target) && legal(p.m, r) {
			return false
		}
	}
	return true
}

func (p *pass) adjudicateBuild(i int) bool {
	o := &p.orders[i]
	if p.ledger[o.Power] <= 0 {
		return false
	}
	if o.Location == "" {
		return true
	}
	if !legal(p.m, o) || p.built[o.Location] {
		return false
	}
	return p.occ == nil || !p.occ.Occupied(o.Location)
}

// Retreat-phase destroys always succeed; winter destroys draw on the ledger.
func (p *pass) adjudicateDestroy(i int) bool {
	if p.variant != winterVariant {
		return true
	}
	o := &p.orders[i]
	if p.ledger[o.Power] >= 0 {
		return false
	}
	return o.Location == "" || p.occ == nil || p.occ.Occupied(o.Location)
}

// headToHead is HeadToHead with swaps suppressed.
func (p *pass) headToHead(i int) int {
	if p.swapped[i] {
		return -1
	}
	o := &p.orders[i]
	if o.Type != OrderMove {
		violate(o, "head-to-head lookup on a %s order", o.Type)
	}
	k := p.occupant(o.Target)
	if k < 0 || k == i || p.swapped[k] {
		return -1
	}
	d := &p.orders[k]
	if d.Type == OrderMove && SameProvince(d.Target, o.Location) {
		return k
	}
	return -1
}

func landRoute(m *DiplomacyMap, o *Order) bool {
	return m.Adjacent(o.Location, o.Coast, o.Target, o.TargetCoast, o.UnitType == Fleet)
}

// pathSuccessful reports whether the move reaches its destination, either
// overland or through a chain of convoys that all succeed.
func (p *pass) pathSuccessful(i int, optimistic bool) bool {
	o := &p.orders[i]
	if o.Type != OrderMove {
		violate(o, "path lookup on a %s order", o.Type)
	}
	if !legal(p.m, o) {
		return false
	}
	if p.convoyRoute(i, optimistic) {
		return true
	}
	return landRoute(p.m, o)
}

// convoyRoute searches for a chain of successful convoys, discarding failed
// links and drawing a fresh chain until one holds or none is valid.
func (p *pass) convoyRoute(i int, optimistic bool) bool {
	o := &p.orders[i]
	if o.UnitType != Army || !AdjacentMatchingConvoyExists(p.m, p.orders, i) {
		return false
	}
	working := convoyCandidates(p.m, p.orders, i)
	for {
		path := DrawConvoyPath(p.m, p.orders, i, working)
		if !ConvoyPathValid(p.m, p.orders, i, path) {
			return false
		}
		var failed []int
		for _, c := range path {
			if !p.resolve(c, optimistic) {
				failed = append(failed, c)
			}
		}
		if len(failed) == 0 {
			return true
		}
		working = withoutIndices(working, failed)
	}
}

// countSupports tallies successful supports for the move (or hold, when
// target is empty) from loc. Supports from skip are ignored when skipping.
func (p *pass) countSupports(loc, target string, optimistic bool, skip Power, skipping bool) int {
	n := 0
	for k := range p.orders {
		s := &p.orders[k]
		if s.Type != OrderSupport || s.AuxLoc != loc || s.AuxTarget != target {
			continue
		}
		if skipping && s.Power == skip {
			continue
		}
		if p.resolve(k, optimistic) {
			n++
		}
	}
	return n
}

// attackStrength is the force of orders[i] against its destination.
// optimistic is the mover's own outlook.
func (p *pass) attackStrength(i int, optimistic, headToHead bool) int {
	o := &p.orders[i]
	if !p.pathSuccessful(i, optimistic) {
		return 0
	}
	k := p.occupant(o.Target)
	if k < 0 || k == i {
		return 1 + p.countSupports(o.Location, o.Target, optimistic, Neutral, false)
	}
	d := &p.orders[k]
	if !headToHead && d.Type == OrderMove && p.resolve(k, optimistic) {
		return 1 + p.countSupports(o.Location, o.Target, optimistic, Neutral, false)
	}
	if d.Power == o.Power {
		return 0
	}
	return 1 + p.countSupports(o.Location, o.Target, optimistic, d.Power, true)
}

// defendStrength is the force of the head-to-head opponent h, seen by the
// mover whose outlook is optimistic.
func (p *pass) defendStrength(h int, optimistic bool) int {
	d := &p.orders[h]
	return 1 + p.countSupports(d.Location, d.Target, !optimistic, Neutral, false)
}

// holdStrength is the resistance of prov, seen by a mover whose outlook is
// optimistic.
func (p *pass) holdStrength(prov string, optimistic bool) int {
	k := p.occupant(prov)
	if k < 0 {
		return 0
	}
	d := &p.orders[k]
	if d.Type == OrderMove {
		if p.resolve(k, optimistic) {
			return 0
		}
		return 1
	}
	return 1 + p.countSupports(d.Location, "", !optimistic, Neutral, false)
}

// preventStrength is how hard orders[k] contests its destination, seen by
// a rival mover whose outlook is optimistic.
func (p *pass) preventStrength(k int, optimistic bool) int {
	o := &p.orders[k]
	if !p.pathSuccessful(k, !optimistic) {
		return 0
	}
	if h := p.headToHead(k); h >= 0 && p.resolve(h, optimistic) {
		return 0
	}
	return 1 + p.countSupports(o.Location, o.Target, !optimistic, Neutral, false)
}

// champion reports whether attack beats the prevent strength of every other
// move into the same destination.
func (p *pass) champion(i, attack int, optimistic bool) bool {
	for _, k := range MoversTo(p.orders, p.orders[i].Target) {
		if k == i || p.orders[k].Type != OrderMove {
			continue
		}
		if p.preventStrength(k, optimistic) >= attack {
			return false
		}
	}
	return true
}
