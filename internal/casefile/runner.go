package casefile

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/freeeve/referee/pkg/diplomacy"
)

// Runner judges cases. With PlainJudge set, movement cases go through a
// single Judge pass instead of the Referee. With Strict set, illegal
// orders are voided before judging and count as failed.
type Runner struct {
	Map        *diplomacy.DiplomacyMap
	Referee    diplomacy.RefereeOptions
	PlainJudge bool
	Strict     bool
	Log        zerolog.Logger
}

// Result is the outcome of one case.
type Result struct {
	Case       *Case
	Orders     []diplomacy.Order
	Mismatches []string
	Voided     []string
	Paradoxes  int
	RunID      string // set when the Referee judged the case
	After      string // DFEN of the position after the verdicts, when the case has a board
}

// Passed reports whether every expectation held.
func (r *Result) Passed() bool {
	return len(r.Mismatches) == 0
}

// Run judges c and checks it. An error means the case could not be judged
// at all; failed expectations are reported in the Result.
func (r *Runner) Run(ctx context.Context, c *Case) (*Result, error) {
	orders, err := c.BuildOrders()
	if err != nil {
		return nil, err
	}
	board, err := c.BuildBoard()
	if err != nil {
		return nil, err
	}
	phase := c.PhaseOf()
	if board != nil && phase == diplomacy.PhaseMovement {
		orders = withDefaultHolds(board, orders)
	}

	log := r.Log.With().Str("case", c.Name).Str("phase", phase.String()).Logger()
	j := r.judgeFor(c, phase, board, log)
	res := &Result{Case: c}

	var voided []*diplomacy.IllegalOrderError
	switch {
	case phase == diplomacy.PhaseMovement && !r.PlainJudge:
		if r.Strict {
			orders, voided = diplomacy.Cleanse(r.Map, orders)
		}
		opts := r.Referee
		opts.Logger = log
		ref := diplomacy.NewReferee(j, opts)
		if err := ref.Judge(ctx, orders); err != nil {
			return nil, fmt.Errorf("case %q: %w", c.Name, err)
		}
		res.Paradoxes = ref.Paradoxes()
		res.RunID = ref.RunID()
	case phase == diplomacy.PhaseMovement && r.Strict:
		sj := diplomacy.NewStrictJudge(r.Map, diplomacy.WithLogger(log))
		orders, voided, err = sj.Judge(orders)
		if err != nil {
			return nil, fmt.Errorf("case %q: %w", c.Name, err)
		}
		res.Paradoxes = sj.Paradoxes()
	default:
		if r.Strict {
			orders, voided = diplomacy.Cleanse(r.Map, orders)
		}
		if err := j.Judge(orders); err != nil {
			return nil, fmt.Errorf("case %q: %w", c.Name, err)
		}
		res.Paradoxes = j.Paradoxes()
	}

	for _, v := range voided {
		res.Voided = append(res.Voided, v.Error())
		o := v.Order
		o.Status = diplomacy.Resolved
		o.Verdict = false
		orders = append(orders, o)
	}
	res.Orders = orders
	res.Mismatches = c.check(orders)
	if board != nil {
		res.After = diplomacy.EncodeDFEN(diplomacy.PhaseMovement, after(r.Map, phase, board, orders))
		if c.After != "" {
			if mismatch := compareBoards(c.After, res.After); mismatch != "" {
				res.Mismatches = append(res.Mismatches, mismatch)
			}
		}
	}

	log.Debug().
		Bool("passed", res.Passed()).
		Int("orders", len(orders)).
		Int("paradoxes", res.Paradoxes).
		Msg("case judged")
	return res, nil
}

func (r *Runner) judgeFor(c *Case, phase diplomacy.Phase, board *diplomacy.Board, log zerolog.Logger) *diplomacy.Judge {
	ledger := c.BuildLedger()
	if phase != diplomacy.PhaseAdjustment || ledger == nil {
		return diplomacy.NewPhaseJudge(r.Map, phase, board, diplomacy.WithLogger(log))
	}
	var occ diplomacy.Occupancy
	if board != nil {
		occ = board
	}
	return diplomacy.NewWinterJudge(r.Map, occ, ledger, diplomacy.WithLogger(log))
}

// withDefaultHolds gives every unit on the board without an order a hold.
func withDefaultHolds(board *diplomacy.Board, orders []diplomacy.Order) []diplomacy.Order {
	for _, hold := range board.Orders() {
		if diplomacy.OccupantAt(orders, hold.Location) < 0 {
			orders = append(orders, hold)
		}
	}
	return orders
}

// after applies judged verdicts to the starting position.
func after(m *diplomacy.DiplomacyMap, phase diplomacy.Phase, board *diplomacy.Board, orders []diplomacy.Order) *diplomacy.Board {
	switch phase {
	case diplomacy.PhaseRetreat:
		return diplomacy.PushRetreats(m, board, orders)
	case diplomacy.PhaseAdjustment:
		return diplomacy.PushAdjustments(board, orders)
	default:
		next, _ := diplomacy.Push(m, board, orders)
		return next
	}
}

// compareBoards compares positions ignoring the phase letter.
func compareBoards(want, got string) string {
	_, b, err := diplomacy.DecodeDFEN(want)
	if err != nil {
		return fmt.Sprintf("after: %v", err)
	}
	if norm := diplomacy.EncodeDFEN(diplomacy.PhaseMovement, b); norm != got {
		return fmt.Sprintf("after: got %s, want %s", got, norm)
	}
	return ""
}
