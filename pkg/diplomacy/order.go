package diplomacy

import (
	"fmt"
	"strings"
)

// OrderType represents the type of order a unit can be given.
type OrderType int

const (
	OrderHold    OrderType = iota // Unit holds position
	OrderMove                     // Unit moves to adjacent province
	OrderSupport                  // Unit supports another unit's hold or move
	OrderConvoy                   // Fleet convoys army across sea
	OrderRetreat                  // Dislodged unit retreats (no destination = disband)
	OrderBuild                    // New unit in a home center (no location = waive)
	OrderDestroy                  // Unit removed during adjustments
)

func (o OrderType) String() string {
	switch o {
	case OrderHold:
		return "hold"
	case OrderMove:
		return "move"
	case OrderSupport:
		return "support"
	case OrderConvoy:
		return "convoy"
	case OrderRetreat:
		return "retreat"
	case OrderBuild:
		return "build"
	case OrderDestroy:
		return "destroy"
	default:
		return "unknown"
	}
}

// Status is the adjudication state of an order within one judging pass.
type Status int

const (
	Unresolved Status = iota
	InProgress        // On the resolver's call stack
	Resolved          // Verdict is final
)

func (s Status) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case InProgress:
		return "in-progress"
	case Resolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Snapshot is the submitted shape of an order, without adjudication metadata.
type Snapshot struct {
	Power    Power
	UnitType UnitType
	Type     OrderType

	Location string
	Coast    Coast

	Target      string
	TargetCoast Coast

	AuxUnitType UnitType
	AuxLoc      string
	AuxTarget   string

	Dislodged bool
}

// Provenance records whether an order is as submitted or was rewritten by
// the paradox rule. From is meaningful only when Rewritten is set.
type Provenance struct {
	Rewritten bool
	From      Snapshot
}

// Order represents a single order issued to a unit, plus the resolver-owned
// adjudication metadata. Orders are values: copying one never aliases state.
type Order struct {
	// Unit being ordered
	UnitType UnitType
	Power    Power
	Location string
	Coast    Coast // Coast of the unit being ordered (for fleets on split coasts)

	Type OrderType

	// Destination for move and retreat orders.
	Target      string
	TargetCoast Coast

	// For support: the supported unit, informational only.
	AuxUnitType UnitType
	// For support: the province of the supported unit.
	// For convoy: the province of the convoyed army.
	AuxLoc string
	// For support: the supported unit's destination (empty if support-hold).
	// For convoy: the convoyed army's destination.
	AuxTarget string

	Dislodged bool

	// Adjudication metadata, written only by the resolver.
	Status     Status
	Verdict    bool
	Provenance Provenance
}

// Resolved reports whether the order carries a final verdict.
func (o *Order) Resolved() bool {
	return o.Status == Resolved
}

// Snapshot returns the order's core fields.
func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		Power:       o.Power,
		UnitType:    o.UnitType,
		Type:        o.Type,
		Location:    o.Location,
		Coast:       o.Coast,
		Target:      o.Target,
		TargetCoast: o.TargetCoast,
		AuxUnitType: o.AuxUnitType,
		AuxLoc:      o.AuxLoc,
		AuxTarget:   o.AuxTarget,
		Dislodged:   o.Dislodged,
	}
}

// Equal compares core fields and the dislodged flag, ignoring metadata.
func (o *Order) Equal(other *Order) bool {
	return o.Snapshot() == other.Snapshot()
}

// Reset wipes adjudication metadata so the order can be judged afresh.
// A paradox rewrite is kept: it is part of the order's shape now.
func (o *Order) Reset() {
	o.Status = Unresolved
	o.Verdict = false
}

// rewriteAsHold turns the order into a hold, remembering its original shape.
// Only the first rewrite is recorded.
func (o *Order) rewriteAsHold() {
	if !o.Provenance.Rewritten {
		o.Provenance = Provenance{Rewritten: true, From: o.Snapshot()}
	}
	o.Type = OrderHold
	o.Target = ""
	o.TargetCoast = NoCoast
	o.AuxUnitType = Army
	o.AuxLoc = ""
	o.AuxTarget = ""
}

// key identifies the order and its verdict for resolution fingerprints.
func (o *Order) key() string {
	var b strings.Builder
	b.Grow(48)
	fmt.Fprintf(&b, "%s|%d|%d|%s/%s|%s/%s|%s|%s|%t|%d|%t|%t",
		o.Power, o.UnitType, o.Type, o.Location, o.Coast, o.Target, o.TargetCoast,
		o.AuxLoc, o.AuxTarget, o.Dislodged, o.Status, o.Verdict, o.Provenance.Rewritten)
	return b.String()
}

// CloneOrders returns a deep copy of the orders, metadata included.
func CloneOrders(orders []Order) []Order {
	if orders == nil {
		return nil
	}
	out := make([]Order, len(orders))
	copy(out, orders)
	return out
}

// ResetOrders wipes adjudication metadata on every order.
func ResetOrders(orders []Order) {
	for i := range orders {
		orders[i].Reset()
	}
}

// Verdicts returns the verdict of every order, in order.
func Verdicts(orders []Order) []bool {
	out := make([]bool, len(orders))
	for i := range orders {
		out[i] = orders[i].Verdict
	}
	return out
}

// Describe returns a human-readable description of the order.
func (o *Order) Describe() string {
	loc := o.Location
	if o.Coast != NoCoast {
		loc += "/" + string(o.Coast)
	}
	unitStr := o.UnitType.Letter()

	switch o.Type {
	case OrderHold:
		return fmt.Sprintf("%s %s Hold", unitStr, loc)
	case OrderMove:
		return fmt.Sprintf("%s %s -> %s", unitStr, loc, withCoast(o.Target, o.TargetCoast))
	case OrderSupport:
		if o.AuxTarget == "" {
			return fmt.Sprintf("%s %s S %s %s Hold", unitStr, loc, o.AuxUnitType.Letter(), o.AuxLoc)
		}
		return fmt.Sprintf("%s %s S %s %s -> %s", unitStr, loc, o.AuxUnitType.Letter(), o.AuxLoc, o.AuxTarget)
	case OrderConvoy:
		return fmt.Sprintf("%s %s C A %s -> %s", unitStr, loc, o.AuxLoc, o.AuxTarget)
	case OrderRetreat:
		if o.Target == "" {
			return fmt.Sprintf("%s %s Disband", unitStr, loc)
		}
		return fmt.Sprintf("%s %s R %s", unitStr, loc, withCoast(o.Target, o.TargetCoast))
	case OrderBuild:
		if o.Location == "" {
			return "Waive"
		}
		return fmt.Sprintf("%s %s Build", unitStr, loc)
	case OrderDestroy:
		if o.Location == "" {
			return "Waive"
		}
		return fmt.Sprintf("%s %s Destroy", unitStr, loc)
	default:
		return fmt.Sprintf("%s %s ???", unitStr, loc)
	}
}

func (o Order) String() string {
	return string(o.Power) + ": " + o.Describe()
}

func withCoast(prov string, coast Coast) string {
	if coast == NoCoast {
		return prov
	}
	return prov + "/" + string(coast)
}

// orderRank orders types for reports: movers first, then the rest.
var orderRank = map[OrderType]int{
	OrderMove: 0, OrderHold: 1, OrderSupport: 2, OrderConvoy: 3,
	OrderRetreat: 4, OrderBuild: 5, OrderDestroy: 6,
}

// lessOrder sorts by power, order type, unit type, then location.
func lessOrder(a, b *Order) bool {
	if a.Power != b.Power {
		return a.Power < b.Power
	}
	if a.Type != b.Type {
		return orderRank[a.Type] < orderRank[b.Type]
	}
	if a.UnitType != b.UnitType {
		return a.UnitType < b.UnitType
	}
	if a.Location != b.Location {
		return a.Location < b.Location
	}
	return a.key() < b.key()
}
