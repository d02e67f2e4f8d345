package diplomacy

import (
	"fmt"
	"strings"
)

// DSON is the compact order notation used by case files and the CLI:
//
//	A vie H                 hold
//	A bud - rum             move
//	A tyr S A vie H         support hold
//	A gal S A bud - rum     support move
//	F mao C A bre - spa     convoy
//	A vie R boh             retreat
//	F tri D                 disband (retreat phase) or destroy (adjustments)
//	A vie B                 build
//	W                       waive a build
//
// Several orders are joined with " ; ". Split coasts are written "stp/sc".

// FormatDSON serializes orders to a DSON string. Powers are not part of
// the notation.
func FormatDSON(orders []Order) string {
	parts := make([]string, 0, len(orders))
	for i := range orders {
		parts = append(parts, orders[i].DSON())
	}
	return strings.Join(parts, " ; ")
}

// DSON formats one order in DSON notation.
func (o *Order) DSON() string {
	if (o.Type == OrderBuild || o.Type == OrderDestroy) && o.Location == "" {
		return "W"
	}

	var b strings.Builder
	b.Grow(32)
	writeUnit(&b, o.UnitType, o.Location, o.Coast)

	switch o.Type {
	case OrderHold:
		b.WriteString(" H")
	case OrderMove:
		b.WriteString(" - ")
		b.WriteString(withCoast(o.Target, o.TargetCoast))
	case OrderSupport:
		b.WriteString(" S ")
		writeUnit(&b, o.AuxUnitType, o.AuxLoc, NoCoast)
		if o.AuxTarget == "" {
			b.WriteString(" H")
		} else {
			b.WriteString(" - ")
			b.WriteString(o.AuxTarget)
		}
	case OrderConvoy:
		b.WriteString(" C A ")
		b.WriteString(o.AuxLoc)
		b.WriteString(" - ")
		b.WriteString(o.AuxTarget)
	case OrderRetreat:
		if o.Target == "" {
			b.WriteString(" D")
		} else {
			b.WriteString(" R ")
			b.WriteString(withCoast(o.Target, o.TargetCoast))
		}
	case OrderBuild:
		b.WriteString(" B")
	case OrderDestroy:
		b.WriteString(" D")
	}
	return b.String()
}

func writeUnit(b *strings.Builder, ut UnitType, province string, coast Coast) {
	b.WriteString(ut.Letter())
	b.WriteByte(' ')
	b.WriteString(withCoast(province, coast))
}

// ParseDSON parses a DSON string into orders belonging to power.
// Retreat orders come back marked as dislodged.
func ParseDSON(power Power, s string) ([]Order, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ";")
	orders := make([]Order, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		o, err := parseOrder(part)
		if err != nil {
			return nil, fmt.Errorf("dson %q: %w", part, err)
		}
		o.Power = power
		orders = append(orders, o)
	}
	return orders, nil
}

func parseOrder(s string) (Order, error) {
	tokens := strings.Fields(s)
	if len(tokens) == 1 && strings.EqualFold(tokens[0], "W") {
		return Order{Type: OrderBuild}, nil
	}
	if len(tokens) < 3 {
		return Order{}, fmt.Errorf("expected at least 3 tokens, got %d", len(tokens))
	}

	var o Order
	var err error
	if o.UnitType, err = parseUnitLetter(tokens[0]); err != nil {
		return Order{}, err
	}
	if o.Location, o.Coast, err = parseLocation(tokens[1]); err != nil {
		return Order{}, err
	}

	switch action := strings.ToUpper(tokens[2]); action {
	case "H":
		o.Type = OrderHold
	case "-", "R":
		if len(tokens) != 4 {
			return Order{}, fmt.Errorf("%s needs a destination", action)
		}
		if o.Target, o.TargetCoast, err = parseLocation(tokens[3]); err != nil {
			return Order{}, err
		}
		o.Type = OrderMove
		if action == "R" {
			o.Type = OrderRetreat
			o.Dislodged = true
		}
		return o, nil
	case "S":
		return parseSupport(o, tokens[3:])
	case "C":
		return parseConvoy(o, tokens[3:])
	case "D":
		o.Type = OrderDestroy
	case "B":
		o.Type = OrderBuild
	default:
		return Order{}, fmt.Errorf("unknown action %q", tokens[2])
	}
	if len(tokens) != 3 {
		return Order{}, fmt.Errorf("trailing tokens after %q", tokens[2])
	}
	return o, nil
}

// parseSupport handles "A vie H" and "A bud - rum" after the S.
func parseSupport(o Order, tokens []string) (Order, error) {
	o.Type = OrderSupport
	if len(tokens) != 3 && len(tokens) != 4 {
		return Order{}, fmt.Errorf("malformed support")
	}
	var err error
	if o.AuxUnitType, err = parseUnitLetter(tokens[0]); err != nil {
		return Order{}, err
	}
	if o.AuxLoc, _, err = parseLocation(tokens[1]); err != nil {
		return Order{}, err
	}
	if len(tokens) == 3 {
		if !strings.EqualFold(tokens[2], "H") {
			return Order{}, fmt.Errorf("expected H, got %q", tokens[2])
		}
		return o, nil
	}
	if tokens[2] != "-" {
		return Order{}, fmt.Errorf("expected -, got %q", tokens[2])
	}
	if o.AuxTarget, _, err = parseLocation(tokens[3]); err != nil {
		return Order{}, err
	}
	return o, nil
}

// parseConvoy handles "A bre - spa" after the C.
func parseConvoy(o Order, tokens []string) (Order, error) {
	o.Type = OrderConvoy
	if len(tokens) != 4 || tokens[2] != "-" {
		return Order{}, fmt.Errorf("malformed convoy")
	}
	ut, err := parseUnitLetter(tokens[0])
	if err != nil {
		return Order{}, err
	}
	if ut != Army {
		return Order{}, fmt.Errorf("only armies can be convoyed")
	}
	if o.AuxLoc, _, err = parseLocation(tokens[1]); err != nil {
		return Order{}, err
	}
	if o.AuxTarget, _, err = parseLocation(tokens[3]); err != nil {
		return Order{}, err
	}
	return o, nil
}

func parseUnitLetter(s string) (UnitType, error) {
	switch strings.ToUpper(s) {
	case "A":
		return Army, nil
	case "F":
		return Fleet, nil
	default:
		return Army, fmt.Errorf("invalid unit type %q", s)
	}
}

func parseLocation(s string) (string, Coast, error) {
	prov, coast, _ := strings.Cut(strings.ToLower(s), "/")
	if prov == "" {
		return "", NoCoast, fmt.Errorf("empty location")
	}
	switch c := Coast(coast); c {
	case NoCoast, NorthCoast, SouthCoast, EastCoast, WestCoast:
		return prov, c, nil
	default:
		return "", NoCoast, fmt.Errorf("invalid coast %q", coast)
	}
}
