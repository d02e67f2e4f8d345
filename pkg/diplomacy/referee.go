package diplomacy

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/combin"
)

// RefereeMode selects how the Referee samples evaluation orders.
type RefereeMode int

const (
	ModeAuto       RefereeMode = iota // Exhaustive up to the bound, sampling above it
	ModeExhaustive                    // Every permutation; ErrTooIntensive above the bound
	ModeSample                        // A fixed number of seeded shuffles
)

func (m RefereeMode) String() string {
	switch m {
	case ModeExhaustive:
		return "exhaustive"
	case ModeSample:
		return "sample"
	default:
		return "auto"
	}
}

// ParseRefereeMode accepts "auto", "exhaustive" or "sample".
func ParseRefereeMode(s string) (RefereeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModeAuto, nil
	case "exhaustive":
		return ModeExhaustive, nil
	case "sample":
		return ModeSample, nil
	}
	return ModeAuto, fmt.Errorf("unknown referee mode %q", s)
}

// UnmarshalText lets configuration loaders decode a RefereeMode.
func (m *RefereeMode) UnmarshalText(b []byte) error {
	mode, err := ParseRefereeMode(string(b))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// RefereeOptions tunes the Referee.
type RefereeOptions struct {
	Mode                 RefereeMode
	Trials               int   // shuffles in sample mode
	MaxPermutationOrders int   // largest collection judged exhaustively
	Workers              int   // concurrent trials
	Seed                 int64 // shuffle seed
	Logger               zerolog.Logger
}

// DefaultRefereeOptions returns the options used when none are given.
func DefaultRefereeOptions() RefereeOptions {
	return RefereeOptions{
		Mode:                 ModeAuto,
		Trials:               2500,
		MaxPermutationOrders: 7,
		Workers:              1,
		Seed:                 1,
		Logger:               zerolog.Nop(),
	}
}

// Referee judges the same logical collection under many evaluation orders
// and reconciles the distinct outcomes into one canonical resolution, so
// the answer never depends on the order orders were submitted in.
type Referee struct {
	judge *Judge
	opts  RefereeOptions

	runID       string
	resolutions [][]Order
	paradoxes   int
}

// NewReferee wraps j. Zero-valued options fall back to the defaults.
func NewReferee(j *Judge, opts RefereeOptions) *Referee {
	def := DefaultRefereeOptions()
	if opts.Trials <= 0 {
		opts.Trials = def.Trials
	}
	if opts.MaxPermutationOrders <= 0 {
		opts.MaxPermutationOrders = def.MaxPermutationOrders
	}
	if opts.Workers <= 0 {
		opts.Workers = def.Workers
	}
	return &Referee{judge: j, opts: opts}
}

// RunID identifies the most recent Judge call in logs.
func (r *Referee) RunID() string {
	return r.runID
}

// Resolutions returns the distinct stable resolutions found by the most
// recent Judge call, each in canonical order.
func (r *Referee) Resolutions() [][]Order {
	out := make([][]Order, len(r.resolutions))
	for i, res := range r.resolutions {
		out[i] = CloneOrders(res)
	}
	return out
}

// Paradoxes returns how many orders the canonical answer rewrote as holds.
func (r *Referee) Paradoxes() int {
	return r.paradoxes
}

// Judge resolves orders in place with the canonical resolution.
func (r *Referee) Judge(ctx context.Context, orders []Order) error {
	r.runID = uuid.NewString()
	r.resolutions = nil
	r.paradoxes = 0
	log := r.opts.Logger.With().Str("run_id", r.runID).Logger()

	n := len(orders)
	if n == 0 {
		return nil
	}
	if err := r.judge.check(orders); err != nil {
		return err
	}
	mode := r.opts.Mode
	if mode == ModeAuto {
		mode = ModeExhaustive
		if n > r.opts.MaxPermutationOrders {
			mode = ModeSample
		}
	}
	if mode == ModeExhaustive && n > r.opts.MaxPermutationOrders {
		return fmt.Errorf("%d orders, bound is %d: %w", n, r.opts.MaxPermutationOrders, ErrTooIntensive)
	}

	canon := canonicalIndices(orders)
	base := make([]Order, n)
	for k, i := range canon {
		base[k] = orders[i]
		base[k].Reset()
	}

	found := newResolutionSet()
	trials, err := r.runTrials(ctx, base, mode, found)
	if err != nil {
		return err
	}
	r.resolutions = found.sorted()

	final, branch, err := r.reconcile(r.resolutions)
	if err != nil {
		return err
	}
	for k, i := range canon {
		orders[i] = final[k]
	}
	for k := range final {
		if final[k].Provenance.Rewritten {
			r.paradoxes++
		}
	}

	log.Debug().
		Str("mode", mode.String()).
		Int("orders", n).
		Int("trials", trials).
		Int("resolutions", len(r.resolutions)).
		Str("branch", branch).
		Int("paradoxes", r.paradoxes).
		Msg("referee verdict")
	return nil
}

func (r *Referee) runTrials(ctx context.Context, base []Order, mode RefereeMode, found *resolutionSet) (int, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)

	trials := 0
	submit := func(perm []int) bool {
		if gctx.Err() != nil {
			return false
		}
		trials++
		g.Go(func() error {
			res, err := r.trial(base, perm)
			if err != nil {
				return err
			}
			found.add(res)
			return nil
		})
		return true
	}

	n := len(base)
	if mode == ModeExhaustive {
		gen := combin.NewPermutationGenerator(n, n)
		for gen.Next() {
			if !submit(gen.Permutation(nil)) {
				break
			}
		}
	} else {
		rng := rand.New(rand.NewSource(r.opts.Seed))
		identity := make([]int, n)
		for i := range identity {
			identity[i] = i
		}
		if submit(identity) {
			for t := 1; t < r.opts.Trials; t++ {
				if !submit(rng.Perm(n)) {
					break
				}
			}
		}
	}

	if err := g.Wait(); err != nil {
		return trials, err
	}
	return trials, ctx.Err()
}

// trial judges a private copy of base in the order given by perm and
// returns the outcome in canonical order.
func (r *Referee) trial(base []Order, perm []int) ([]Order, error) {
	work := make([]Order, len(base))
	for k, i := range perm {
		work[k] = base[i]
	}
	if _, err := r.judge.judge(work); err != nil {
		return nil, err
	}
	out := make([]Order, len(base))
	for k, i := range perm {
		out[i] = work[k]
	}
	return out, nil
}

// reconcile picks the canonical answer among distinct resolutions.
// Rewrites win; otherwise the resolution with the most successful orders
// wins; ties are broken by rewriting every convoy the tied resolutions
// disagree on and judging again.
func (r *Referee) reconcile(res [][]Order) ([]Order, string, error) {
	if len(res) == 1 {
		return CloneOrders(res[0]), "unique", nil
	}

	var withRewrite []int
	for x := range res {
		if hasRewrite(res[x]) {
			withRewrite = append(withRewrite, x)
		}
	}
	if len(withRewrite) == 1 {
		return CloneOrders(res[withRewrite[0]]), "single rewrite", nil
	}

	tied := mostSuccessful(res)
	if len(withRewrite) == 0 && len(tied) == 1 {
		return CloneOrders(res[tied[0]]), "most successful", nil
	}

	out := CloneOrders(res[tied[0]])
	branch := "merged rewrites"
	if len(withRewrite) > 1 {
		mergeRewrites(out, res)
	}
	if len(tied) > 1 {
		differing := differingConvoys(res, tied)
		if len(differing) == 0 && len(withRewrite) == 0 {
			return out, "first canonical", nil
		}
		for _, k := range differing {
			out[k].rewriteAsHold()
		}
		branch = "meta-szykman"
	}
	ResetOrders(out)
	if _, err := r.judge.judge(out); err != nil {
		return nil, branch, err
	}
	return out, branch, nil
}

func hasRewrite(orders []Order) bool {
	for k := range orders {
		if orders[k].Provenance.Rewritten {
			return true
		}
	}
	return false
}

func successes(orders []Order) int {
	n := 0
	for k := range orders {
		if orders[k].Resolved() && orders[k].Verdict {
			n++
		}
	}
	return n
}

// mostSuccessful returns the indices of every resolution sharing the
// highest success count.
func mostSuccessful(res [][]Order) []int {
	best := -1
	var tied []int
	for x := range res {
		switch s := successes(res[x]); {
		case s > best:
			best = s
			tied = []int{x}
		case s == best:
			tied = append(tied, x)
		}
	}
	return tied
}

// mergeRewrites copies every rewritten order into out, keyed by origin,
// first resolution wins.
func mergeRewrites(out []Order, res [][]Order) {
	taken := make([]bool, len(out))
	for k := range out {
		taken[k] = out[k].Provenance.Rewritten
	}
	for x := range res {
		for k := range res[x] {
			if !taken[k] && res[x][k].Provenance.Rewritten {
				out[k] = res[x][k]
				taken[k] = true
			}
		}
	}
}

func differingConvoys(res [][]Order, tied []int) []int {
	var out []int
	for k := range res[tied[0]] {
		first := &res[tied[0]][k]
		if first.Type != OrderConvoy {
			continue
		}
		for _, x := range tied[1:] {
			if res[x][k].Verdict != first.Verdict || res[x][k].Type != first.Type {
				out = append(out, k)
				break
			}
		}
	}
	return out
}

// resolutionSet deduplicates trial outcomes by their full fingerprint.
type resolutionSet struct {
	mu      sync.Mutex
	buckets map[uint64][]resolution
}

type resolution struct {
	key    string
	orders []Order
}

func newResolutionSet() *resolutionSet {
	return &resolutionSet{buckets: make(map[uint64][]resolution)}
}

func fingerprint(orders []Order) string {
	var b strings.Builder
	for k := range orders {
		b.WriteString(orders[k].key())
		b.WriteByte('\n')
	}
	return b.String()
}

func (s *resolutionSet) add(orders []Order) {
	key := fingerprint(orders)
	h := xxhash.Sum64String(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.buckets[h] {
		if r.key == key {
			return
		}
	}
	s.buckets[h] = append(s.buckets[h], resolution{key: key, orders: orders})
}

// sorted returns the distinct resolutions ordered by fingerprint.
func (s *resolutionSet) sorted() [][]Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []resolution
	for _, bucket := range s.buckets {
		all = append(all, bucket...)
	}
	sort.Slice(all, func(a, b int) bool { return all[a].key < all[b].key })
	out := make([][]Order, len(all))
	for i, r := range all {
		out[i] = r.orders
	}
	return out
}
